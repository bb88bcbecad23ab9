// Package dialog provides modal confirmation prompts for the TUI.
package dialog

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/facetag/internal/adapters/driving/tui/styles"
)

// Answer is the outcome of a key press on an open dialog.
type Answer int

const (
	// Pending means the dialog is still waiting.
	Pending Answer = iota
	// Accepted means the user confirmed.
	Accepted
	// Declined means the user declined or dismissed the dialog.
	Declined
)

// Confirm is a yes/no prompt. It is inactive until Show is called.
type Confirm struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	prompt string
	active bool
}

// NewConfirm creates an inactive confirmation dialog.
func NewConfirm(s *styles.Styles, km *keymap.KeyMap) *Confirm {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Confirm{styles: s, keymap: km}
}

// Show opens the dialog with prompt.
func (c *Confirm) Show(prompt string) {
	c.prompt = prompt
	c.active = true
}

// Active reports whether the dialog is open.
func (c *Confirm) Active() bool {
	return c.active
}

// Prompt returns the prompt of the open dialog.
func (c *Confirm) Prompt() string {
	return c.prompt
}

// Update answers the dialog from a key press. Other keys are swallowed
// while the dialog is open.
func (c *Confirm) Update(msg tea.Msg) Answer {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !c.active || !ok {
		return Pending
	}
	switch {
	case keymap.Matches(keyMsg.String(), c.keymap.Confirm):
		c.active = false
		return Accepted
	case keymap.Matches(keyMsg.String(), c.keymap.Deny):
		c.active = false
		return Declined
	}
	return Pending
}

// View renders the dialog, or nothing when inactive.
func (c *Confirm) View() string {
	if !c.active {
		return ""
	}
	var b strings.Builder
	b.WriteString(c.styles.Warning.Render(c.prompt))
	b.WriteString("\n\n")
	b.WriteString(c.styles.Button.Render("[y] Yes"))
	b.WriteString("  ")
	b.WriteString(c.styles.ButtonDisabled.Render("[n] No"))
	return c.styles.Dialog.Render(b.String())
}
