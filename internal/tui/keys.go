package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the error dialog bindings.
type keyMap struct {
	Open    key.Binding
	Copy    key.Binding
	Dismiss key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open an issue"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy error"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc", "enter", "q", "ctrl+c"),
			key.WithHelp("esc", "dismiss"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Copy, k.Dismiss}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
