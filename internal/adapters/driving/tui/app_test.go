package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/facetag/internal/core/domain"
	"github.com/custodia-labs/facetag/internal/core/ports/driving"
)

func newTestApp(t *testing.T) (*App, *testEnv) {
	t.Helper()
	env := newTestEnv()
	app, err := NewApp(env.ports)
	require.NoError(t, err)
	app.SetDimensions(120, 40)
	return app, env
}

// deliver runs cmd and feeds its message back into the app.
func deliver(app *App, cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if msg != nil {
		app.Update(msg)
	}
	return msg
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestEnv().ports)

	require.NoError(t, err)
	require.NotNil(t, app)
	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	assert.False(t, app.Ready())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	ports := newTestEnv().ports
	ports.Viewer = nil

	app, err := NewApp(ports)

	assert.ErrorIs(t, err, ErrMissingViewerService)
	assert.Nil(t, app)
}

func TestNewApp_NilPorts(t *testing.T) {
	app, err := NewApp(nil)

	assert.ErrorIs(t, err, ErrInvalidPorts)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestEnv().ports)

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Equal(t, app, app.WithContext(ctx))
}

func TestApp_Init(t *testing.T) {
	app, _ := NewApp(newTestEnv().ports)

	assert.NotNil(t, app.Init())
}

func TestApp_View_BeforeReady(t *testing.T) {
	app, _ := NewApp(newTestEnv().ports)

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_Update_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestEnv().ports)

	_, cmd := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	assert.Nil(t, cmd)
	assert.True(t, app.Ready())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_QuitMessage(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_LoadsFirstPage(t *testing.T) {
	app, env := newTestApp(t)

	deliver(app, app.documentsView.Init())

	view := app.View()
	assert.Contains(t, view, "Doc 11")
	assert.Contains(t, view, "Page 1 of 3")
	assert.Equal(t, domain.ListLoaded, env.workflow.List.State())
}

func TestApp_OpenAnalyzeAndClose(t *testing.T) {
	app, env := newTestApp(t)
	deliver(app, app.documentsView.Init())

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	selected := cmd()
	require.IsType(t, messages.DocumentSelected{}, selected)

	_, cmd = app.Update(selected)
	assert.Equal(t, messages.ViewViewer, app.CurrentView())
	deliver(app, cmd)
	assert.Contains(t, app.View(), "Doc 11 (ID: 11)")
	assert.Equal(t, 1, env.display.Live())

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	deliver(app, cmd)
	assert.Contains(t, app.View(), "Ada")

	_, cmd = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	deliver(app, cmd)

	assert.Equal(t, messages.ViewDocuments, app.CurrentView())
	assert.Equal(t, 0, env.display.Live())
	assert.Nil(t, env.workflow.Faces.Session())
}

func TestApp_DocumentsLoadedRoutedWhileViewing(t *testing.T) {
	app, _ := newTestApp(t)
	_, cmd := app.Update(messages.DocumentSelected{Selection: driving.Selection{DocumentID: "5", Title: "t"}})
	deliver(app, cmd)

	app.Update(messages.DocumentsLoaded{State: domain.ListLoaded})

	assert.Equal(t, messages.ViewViewer, app.CurrentView())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app, _ := newTestApp(t)
	err := &domain.ServiceError{Status: 500, Message: "Request failed."}

	app.Update(messages.ErrorOccurred{Err: err})

	assert.Equal(t, err, app.Err())
	assert.Equal(t, "Request failed.", app.ErrMessage())
	assert.Contains(t, app.View(), "Request failed.")
}

func TestApp_ViewChanged(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(messages.ViewChanged{View: messages.ViewViewer})

	assert.Equal(t, messages.ViewViewer, app.CurrentView())
}
