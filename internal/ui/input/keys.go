package input

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keyboard bindings shared by triggers and menus.
type KeyMap struct {
	Open     key.Binding
	Close    key.Binding
	Next     key.Binding
	Previous key.Binding
	First    key.Binding
	Last     key.Binding
	Select   key.Binding
	Tab      key.Binding
	ShiftTab key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Open: key.NewBinding(
			key.WithKeys("enter", "down"),
			key.WithHelp("enter/↓", "open"),
		),
		Close: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Next: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "next item"),
		),
		Previous: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "previous item"),
		),
		First: key.NewBinding(
			key.WithKeys("home", "g"),
			key.WithHelp("home/g", "first item"),
		),
		Last: key.NewBinding(
			key.WithKeys("end", "G"),
			key.WithHelp("end/G", "last item"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter/space", "select"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next / leave"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "previous / leave"),
		),
	}
}

// Override replaces the keys of the named bindings. Unknown names and empty
// key lists are ignored.
func (k *KeyMap) Override(bindings map[string][]string) {
	for name, keys := range bindings {
		if len(keys) == 0 {
			continue
		}
		b := k.binding(name)
		if b == nil {
			continue
		}
		b.SetKeys(keys...)
	}
}

func (k *KeyMap) binding(name string) *key.Binding {
	switch name {
	case "open":
		return &k.Open
	case "close":
		return &k.Close
	case "next":
		return &k.Next
	case "previous":
		return &k.Previous
	case "first":
		return &k.First
	case "last":
		return &k.Last
	case "select":
		return &k.Select
	case "tab":
		return &k.Tab
	case "shiftTab":
		return &k.ShiftTab
	}
	return nil
}

// ShortHelp returns bindings for a one-line help view
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Next, k.Previous, k.Select, k.Close}
}

// FullHelp returns all bindings grouped for a multi-column help view
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Open, k.Close, k.Select},
		{k.Next, k.Previous, k.First, k.Last},
		{k.Tab, k.ShiftTab},
	}
}
