package app

import "github.com/charmbracelet/bubbles/key"

// hostKeyMap holds the bindings the demo handles after the focused popover
// has had its turn
type hostKeyMap struct {
	Next key.Binding
	Prev key.Binding
	Pin  key.Binding
	Quit key.Binding
}

func defaultHostKeys() hostKeyMap {
	return hostKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next trigger"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous trigger"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin note"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
