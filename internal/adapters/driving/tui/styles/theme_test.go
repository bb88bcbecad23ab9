package styles

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTheme(t *testing.T) {
	theme := DefaultTheme()

	require.NotNil(t, theme)
	for _, c := range []lipgloss.Color{
		theme.Accent, theme.Highlight, theme.Foreground, theme.Muted,
		theme.Surface, theme.Success, theme.Warning, theme.Error, theme.Border,
	} {
		assert.NotEmpty(t, string(c))
	}
}

func TestDefaultTheme_StatusColoursAreDistinct(t *testing.T) {
	theme := DefaultTheme()

	assert.NotEqual(t, theme.Success, theme.Error)
	assert.NotEqual(t, theme.Warning, theme.Error)
	assert.NotEqual(t, theme.Accent, theme.Muted)
}

func TestNewStyles_NilThemeUsesDefault(t *testing.T) {
	s := NewStyles(nil)

	require.NotNil(t, s)
	assert.Equal(t, DefaultTheme(), s.Theme())
}

func TestDefaultStyles(t *testing.T) {
	s := DefaultStyles()

	require.NotNil(t, s)
	assert.NotNil(t, s.Theme())
}

func TestStyles_Action(t *testing.T) {
	s := DefaultStyles()

	enabled := s.Action("Analyze for Faces", true)
	disabled := s.Action("Analyzing...", false)

	assert.Contains(t, enabled, "Analyze for Faces")
	assert.Contains(t, disabled, "Analyzing...")
}
