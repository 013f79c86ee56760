// Package menu implements the keyboard-navigable menu inside floating
// content.
//
// The Navigator is a two-state machine: Reset (active index -1, nothing
// active) and ItemFocused(i). Every movement is a bounded scan of at most
// len(items) steps that skips disabled items and wraps around, so a menu
// whose items are all disabled simply never gains an active item.
package menu

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/google/uuid"
	"github.com/riordanpawley/floatui/internal/core/bus"
	"github.com/riordanpawley/floatui/internal/ui/input"
)

// Item is one menu row
type Item struct {
	ID       string
	Label    string
	Key      string // Optional mnemonic, selects the item directly
	Disabled bool
	// Separator rows are drawn as dividers and never focused
	Separator bool
	Active    bool
}

// Focusable reports whether the item can become active
func (i Item) Focusable() bool {
	return !i.Disabled && !i.Separator
}

// Selection is emitted when an item is chosen
type Selection struct {
	MenuID string
	Item   Item
	Index  int
}

// IDGenerator produces menu identifiers
type IDGenerator func() string

// Options configures a Navigator
type Options struct {
	// ID is a caller-supplied stable id. Empty means IDGenerator is used.
	ID          string
	IDGenerator IDGenerator
	Keys        input.KeyMap
	// OnSelect receives every selection
	OnSelect func(Selection)
	// OnActiveChange receives the new active index after every change
	OnActiveChange func(index int)
	Logger         *slog.Logger
}

// Navigator tracks the active item of one menu
type Navigator struct {
	id     string
	items  []Item
	active int
	bus    *bus.Bus
	keys   input.KeyMap

	onSelect       func(Selection)
	onActiveChange func(int)
	unsubscribe    func()
	logger         *slog.Logger
}

// NewNavigator creates a navigator over items and subscribes it to b
func NewNavigator(b *bus.Bus, items []Item, opts Options) *Navigator {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	id := opts.ID
	if id == "" {
		gen := opts.IDGenerator
		if gen == nil {
			gen = uuid.NewString
		}
		id = gen()
	}

	keys := opts.Keys
	if len(keys.Next.Keys()) == 0 {
		keys = input.DefaultKeyMap()
	}

	n := &Navigator{
		id:             id,
		items:          cloneItems(items),
		active:         -1,
		bus:            b,
		keys:           keys,
		onSelect:       opts.OnSelect,
		onActiveChange: opts.OnActiveChange,
		logger:         logger,
	}
	n.unsubscribe = b.Subscribe(n.handle)
	return n
}

func cloneItems(items []Item) []Item {
	out := make([]Item, len(items))
	copy(out, items)
	for i := range out {
		out[i].Active = false
	}
	return out
}

// handle reacts to bus commands
func (n *Navigator) handle(c bus.Command) {
	switch c {
	case bus.Open, bus.Close:
		n.Reset()
	case bus.FocusFirstItem:
		n.FocusFirst()
	case bus.FocusNextItem:
		n.FocusNext()
	case bus.FocusPreviousItem:
		n.FocusPrevious()
	}
}

// ID returns the menu id
func (n *Navigator) ID() string {
	return n.id
}

// Items returns a copy of the items with Active set on the active one
func (n *Navigator) Items() []Item {
	out := make([]Item, len(n.items))
	copy(out, n.items)
	return out
}

// Len returns the number of items
func (n *Navigator) Len() int {
	return len(n.items)
}

// ActiveIndex returns the active index, -1 when nothing is active
func (n *Navigator) ActiveIndex() int {
	return n.active
}

// Active returns the active item
func (n *Navigator) Active() (Item, bool) {
	if n.active < 0 || n.active >= len(n.items) {
		return Item{}, false
	}
	return n.items[n.active], true
}

// SetItems replaces the items. The content size has likely changed, so the
// navigator resets and asks for a reposition.
func (n *Navigator) SetItems(items []Item) {
	n.items = cloneItems(items)
	n.Reset()
	n.bus.Send(bus.Reposition)
}

// Reset clears the active item
func (n *Navigator) Reset() {
	n.setActive(-1)
}

// FocusFirst activates the first enabled item. No-op when there is none.
func (n *Navigator) FocusFirst() {
	if i := n.scan(0, 1); i >= 0 {
		n.setActive(i)
	}
}

// FocusLast activates the last enabled item. No-op when there is none.
func (n *Navigator) FocusLast() {
	if i := n.scan(len(n.items)-1, -1); i >= 0 {
		n.setActive(i)
	}
}

// FocusNext activates the next enabled item after the active one, wrapping.
func (n *Navigator) FocusNext() {
	if i := n.scan(n.active+1, 1); i >= 0 {
		n.setActive(i)
	}
}

// FocusPrevious activates the previous enabled item, wrapping.
func (n *Navigator) FocusPrevious() {
	if i := n.scan(n.active-1, -1); i >= 0 {
		n.setActive(i)
	}
}

// scan looks for an enabled item starting at from and moving by step. It
// visits each item at most once and returns -1 when all are disabled.
func (n *Navigator) scan(from, step int) int {
	count := len(n.items)
	if count == 0 {
		return -1
	}
	i := wrap(from, count)
	for range count {
		if n.items[i].Focusable() {
			return i
		}
		i = wrap(i+step, count)
	}
	return -1
}

func wrap(i, count int) int {
	if i < 0 {
		return count - 1
	}
	if i >= count {
		return 0
	}
	return i
}

func (n *Navigator) setActive(i int) {
	if i == n.active {
		return
	}
	if n.active >= 0 && n.active < len(n.items) {
		n.items[n.active].Active = false
	}
	n.active = i
	if i >= 0 {
		n.items[i].Active = true
	}
	n.logger.Debug("menu active item", "menu", n.id, "index", i)
	if n.onActiveChange != nil {
		n.onActiveChange(i)
	}
}

// FirstFocusable returns the index of the first enabled item, -1 if none
func (n *Navigator) FirstFocusable() int {
	return n.scan(0, 1)
}

// LastFocusable returns the index of the last enabled item, -1 if none
func (n *Navigator) LastFocusable() int {
	return n.scan(len(n.items)-1, -1)
}

// Select chooses the item at index i. Disabled or out-of-range items are
// ignored. A selection closes the menu.
func (n *Navigator) Select(i int) bool {
	if i < 0 || i >= len(n.items) || !n.items[i].Focusable() {
		return false
	}
	n.setActive(i)
	sel := Selection{MenuID: n.id, Item: n.items[i], Index: i}

	n.logger.Debug("menu selection", "menu", n.id, "item", sel.Item.ID, "index", i)
	if n.onSelect != nil {
		n.onSelect(sel)
	}
	n.bus.Send(bus.Close)
	return true
}

// SelectActive chooses the active item
func (n *Navigator) SelectActive() bool {
	return n.Select(n.active)
}

// Tab moves focus within the menu, or leaves it when focus is already on
// the boundary item in the direction of travel.
func (n *Navigator) Tab(shift bool) {
	leave := false
	if shift {
		leave = n.active >= 0 && n.active == n.FirstFocusable()
	} else {
		leave = n.active >= 0 && n.active == n.LastFocusable()
	}

	if leave {
		n.bus.Send(bus.Close)
		n.bus.Send(bus.FocusTriggerButton)
		return
	}
	if shift {
		n.FocusPrevious()
	} else {
		n.FocusNext()
	}
}

// HandleKey handles a key while focus is inside the menu. Keys it acts on
// are consumed.
func (n *Navigator) HandleKey(ev *input.KeyEvent) {
	switch {
	case key.Matches(ev.Msg, n.keys.ShiftTab):
		n.Tab(true)
	case key.Matches(ev.Msg, n.keys.Tab):
		n.Tab(false)
	case key.Matches(ev.Msg, n.keys.Close):
		n.bus.Send(bus.Close)
		n.bus.Send(bus.FocusTriggerButton)
	case key.Matches(ev.Msg, n.keys.Next):
		n.bus.Send(bus.FocusNextItem)
	case key.Matches(ev.Msg, n.keys.Previous):
		n.bus.Send(bus.FocusPreviousItem)
	case key.Matches(ev.Msg, n.keys.First):
		n.FocusFirst()
	case key.Matches(ev.Msg, n.keys.Last):
		n.FocusLast()
	case key.Matches(ev.Msg, n.keys.Select):
		if !n.SelectActive() {
			return
		}
	default:
		if !n.selectByKey(ev.String()) {
			return
		}
	}
	ev.Consume()
}

// selectByKey selects an enabled item by its mnemonic
func (n *Navigator) selectByKey(k string) bool {
	for i, item := range n.items {
		if item.Key != "" && item.Key == k && item.Focusable() {
			return n.Select(i)
		}
	}
	return false
}

// Hover activates the item under the pointer if it is enabled
func (n *Navigator) Hover(i int) {
	if i < 0 || i >= len(n.items) || !n.items[i].Focusable() {
		return
	}
	n.setActive(i)
}

// Destroy unsubscribes from the bus
func (n *Navigator) Destroy() {
	if n.unsubscribe != nil {
		n.unsubscribe()
		n.unsubscribe = nil
	}
}
