// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Back closes the viewer or leaves an input.
	Back key.Binding

	// Up navigates up in a list.
	Up key.Binding

	// Down navigates down in a list.
	Down key.Binding

	// Select opens the selected document or submits an input.
	Select key.Binding

	// Search focuses the search box.
	Search key.Binding

	// JumpPage focuses the page number box.
	JumpPage key.Binding

	// FirstPage, PrevPage, NextPage and LastPage drive the navigation bar.
	FirstPage key.Binding
	PrevPage  key.Binding
	NextPage  key.Binding
	LastPage  key.Binding

	// Reload reloads the current page.
	Reload key.Binding

	// ClearCache clears the thumbnail cache.
	ClearCache key.Binding

	// Analyze submits the open image for face analysis.
	Analyze key.Binding

	// Edit starts editing the selected face name.
	Edit key.Binding

	// UpdateAbstract writes confirmed names into the abstract.
	UpdateAbstract key.Binding

	// OpenImage opens the displayed image externally.
	OpenImage key.Binding

	// Confirm and Deny answer a confirmation dialog.
	Confirm key.Binding
	Deny    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		JumpPage: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to page"),
		),
		FirstPage: key.NewBinding(
			key.WithKeys("home", "{"),
			key.WithHelp("{", "first"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("left", "["),
			key.WithHelp("←/[", "prev"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("right", "]"),
			key.WithHelp("→/]", "next"),
		),
		LastPage: key.NewBinding(
			key.WithKeys("end", "}"),
			key.WithHelp("}", "last"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		ClearCache: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "clear cache"),
		),
		Analyze: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "analyze"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("enter", "edit name"),
		),
		UpdateAbstract: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "update abstract"),
		),
		OpenImage: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open image"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		Deny: key.NewBinding(
			key.WithKeys("n", "N", "esc"),
			key.WithHelp("n", "no"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// DocumentsHelp returns keybindings for the document list.
func (k *KeyMap) DocumentsHelp() []key.Binding {
	return []key.Binding{k.Select, k.Search, k.JumpPage, k.PrevPage, k.NextPage, k.ClearCache, k.Quit}
}

// ViewerHelp returns keybindings for the image viewer.
func (k *KeyMap) ViewerHelp() []key.Binding {
	return []key.Binding{k.Analyze, k.OpenImage, k.Back}
}

// AnalysisHelp returns keybindings for the face records of an analysis.
func (k *KeyMap) AnalysisHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.UpdateAbstract, k.Analyze, k.OpenImage, k.Back}
}

// EditHelp returns keybindings while a text input has focus.
func (k *KeyMap) EditHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// DialogHelp returns keybindings for a confirmation dialog.
func (k *KeyMap) DialogHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Deny}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Search, k.JumpPage},
		{k.FirstPage, k.PrevPage, k.NextPage, k.LastPage, k.Reload, k.ClearCache},
		{k.Analyze, k.Edit, k.UpdateAbstract, k.OpenImage},
		{k.Back, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
