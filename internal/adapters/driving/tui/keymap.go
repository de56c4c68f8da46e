package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Up navigates up in the list.
	Up key.Binding

	// Down navigates down in the list.
	Down key.Binding

	// ToggleLayout switches between linear and grid layout.
	ToggleLayout key.Binding

	// Help shows the help view.
	Help key.Binding

	// Quit exits the application.
	Quit key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		ToggleLayout: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "toggle layout"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns a short list of keybindings for the help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ToggleLayout, k.Help, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.ToggleLayout, k.Help, k.Quit},
	}
}
