// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/facetag/internal/core/domain"
)

// DocumentList displays one page of documents as a navigable list.
type DocumentList struct {
	documents []domain.DocumentSummary
	selected  int
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	width     int
	height    int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles, km *keymap.KeyMap) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &DocumentList{
		styles: s,
		keymap: km,
		width:  80,
		height: 10,
	}
}

// Update handles list navigation keys.
func (l *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case keymap.Matches(msg.String(), l.keymap.Up):
			l.MoveUp()
		case keymap.Matches(msg.String(), l.keymap.Down):
			l.MoveDown()
		}
	}
	return l, nil
}

// View renders the visible window of the list.
func (l *DocumentList) View() string {
	if len(l.documents) == 0 {
		return ""
	}

	visible := l.height
	if visible < 1 {
		visible = 1
	}
	start := 0
	if l.selected >= visible {
		start = l.selected - visible + 1
	}
	end := start + visible
	if end > len(l.documents) {
		end = len(l.documents)
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(i, &l.documents[i]))
	}
	return strings.Join(lines, "\n")
}

func (l *DocumentList) renderRow(index int, doc *domain.DocumentSummary) string {
	indicator := "  "
	if index == l.selected {
		indicator = "> "
	}

	meta := strings.TrimSpace(fmt.Sprintf("%s  %s", doc.Author, doc.Date))
	titleWidth := l.width - len(indicator) - len(doc.ID) - len(meta) - 6
	if titleWidth < 10 {
		titleWidth = 10
	}
	title := truncate(doc.Title, titleWidth)
	if title == "" {
		title = "(Untitled)"
	}

	row := fmt.Sprintf("%s%s  %-*s", indicator, doc.ID, titleWidth, title)
	if index == l.selected {
		return l.styles.Selected.Render(row) + "  " + l.styles.Muted.Render(meta)
	}
	return l.styles.Normal.Render(row) + "  " + l.styles.Muted.Render(meta)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetDocuments replaces the rendered documents and resets the selection.
func (l *DocumentList) SetDocuments(docs []domain.DocumentSummary) {
	l.documents = docs
	l.selected = 0
}

// Documents returns the rendered documents.
func (l *DocumentList) Documents() []domain.DocumentSummary {
	return l.documents
}

// Selected returns the index of the selected entry.
func (l *DocumentList) Selected() int {
	return l.selected
}

// SetSelected sets the selected index.
func (l *DocumentList) SetSelected(index int) {
	if index >= 0 && index < len(l.documents) {
		l.selected = index
	}
}

// MoveUp moves selection up.
func (l *DocumentList) MoveUp() {
	if l.selected > 0 {
		l.selected--
	}
}

// MoveDown moves selection down.
func (l *DocumentList) MoveDown() {
	if l.selected < len(l.documents)-1 {
		l.selected++
	}
}

// SetDimensions sets the component dimensions.
func (l *DocumentList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
}

// Count returns the number of rendered documents.
func (l *DocumentList) Count() int {
	return len(l.documents)
}

// IsEmpty returns whether the list is empty.
func (l *DocumentList) IsEmpty() bool {
	return len(l.documents) == 0
}
