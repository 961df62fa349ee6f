package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the non-typing key bindings. Printable keys always go to
// the input buffer, so every binding here uses a control or special key.
type keyMap struct {
	Duration key.Binding
	Restart  key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Duration: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "duration"),
		),
		Restart: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "try again"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Duration, k.Restart, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
