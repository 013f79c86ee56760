package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/riordanpawley/floatui/internal/core/bus"
	"github.com/riordanpawley/floatui/internal/ui/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedID() string { return "menu-1" }

// recorder captures every command on the bus
type recorder struct {
	commands []bus.Command
}

func (r *recorder) count(c bus.Command) int {
	n := 0
	for _, got := range r.commands {
		if got == c {
			n++
		}
	}
	return n
}

func newTestNavigator(t *testing.T, items []Item) (*Navigator, *bus.Bus, *recorder) {
	t.Helper()
	b := bus.New(nil)
	rec := &recorder{}
	b.Subscribe(func(c bus.Command) { rec.commands = append(rec.commands, c) })
	n := NewNavigator(b, items, Options{IDGenerator: fixedID})
	return n, b, rec
}

func scenarioItems() []Item {
	return []Item{
		{ID: "option1", Label: "Option 1"},
		{ID: "option2", Label: "Option 2", Disabled: true},
		{ID: "option3", Label: "Option 3"},
		{ID: "option4", Label: "Option 4"},
	}
}

func keyEvent(t tea.KeyType) *input.KeyEvent {
	return input.NewKeyEvent(tea.KeyMsg{Type: t})
}

func runeKey(r rune) *input.KeyEvent {
	return input.NewKeyEvent(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func TestNewNavigator(t *testing.T) {
	n, b, _ := newTestNavigator(t, scenarioItems())

	assert.Equal(t, "menu-1", n.ID())
	assert.Equal(t, -1, n.ActiveIndex())
	assert.Equal(t, 4, n.Len())
	assert.Equal(t, 2, b.Len())

	_, ok := n.Active()
	assert.False(t, ok)
}

func TestNewNavigator_CallerSuppliedID(t *testing.T) {
	b := bus.New(nil)
	n := NewNavigator(b, nil, Options{ID: "file-menu", IDGenerator: func() string { return "unused" }})

	assert.Equal(t, "file-menu", n.ID())
}

func TestNewNavigator_DefaultIDsAreUnique(t *testing.T) {
	b := bus.New(nil)
	first := NewNavigator(b, nil, Options{})
	second := NewNavigator(b, nil, Options{})

	assert.NotEmpty(t, first.ID())
	assert.NotEqual(t, first.ID(), second.ID())
}

func TestScenarioA_SkipsDisabled(t *testing.T) {
	n, b, _ := newTestNavigator(t, scenarioItems())

	b.Send(bus.FocusFirstItem)
	assert.Equal(t, 0, n.ActiveIndex())

	b.Send(bus.FocusNextItem)
	assert.Equal(t, 2, n.ActiveIndex(), "disabled index 1 is skipped")

	b.Send(bus.FocusPreviousItem)
	assert.Equal(t, 0, n.ActiveIndex())
}

func TestFocusNext_CyclesThroughFocusableItems(t *testing.T) {
	tests := []struct {
		name  string
		items []Item
	}{
		{"scenario", scenarioItems()},
		{"all enabled", []Item{{ID: "a"}, {ID: "b"}, {ID: "c"}}},
		{"single", []Item{{ID: "only"}}},
		{"disabled edges", []Item{{ID: "a", Disabled: true}, {ID: "b"}, {ID: "c"}, {ID: "d", Disabled: true}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, _, _ := newTestNavigator(t, tt.items)

			focusable := 0
			for _, item := range tt.items {
				if item.Focusable() {
					focusable++
				}
			}

			n.FocusFirst()
			first := n.ActiveIndex()
			require.GreaterOrEqual(t, first, 0)

			for range focusable {
				n.FocusNext()
			}
			assert.Equal(t, first, n.ActiveIndex())
		})
	}
}

func TestWraparound(t *testing.T) {
	n, _, _ := newTestNavigator(t, scenarioItems())

	n.FocusPrevious()
	assert.Equal(t, 3, n.ActiveIndex(), "previous from reset wraps to the last item")

	n.FocusNext()
	assert.Equal(t, 0, n.ActiveIndex(), "next from the last item wraps to the first")

	n.FocusLast()
	assert.Equal(t, 3, n.ActiveIndex())
}

func TestAllDisabled_NavigationIsNoOp(t *testing.T) {
	items := []Item{
		{ID: "a", Disabled: true},
		{ID: "b", Disabled: true},
		{ID: "sep", Separator: true},
	}
	n, b, _ := newTestNavigator(t, items)

	for _, c := range []bus.Command{bus.FocusFirstItem, bus.FocusNextItem, bus.FocusPreviousItem} {
		b.Send(c)
		assert.Equal(t, -1, n.ActiveIndex(), c.String())
	}

	n.FocusLast()
	n.Tab(false)
	n.Tab(true)
	n.Hover(0)
	assert.Equal(t, -1, n.ActiveIndex())
	assert.False(t, n.SelectActive())
}

func TestEmptyMenu(t *testing.T) {
	n, _, _ := newTestNavigator(t, nil)

	n.FocusFirst()
	n.FocusNext()
	n.FocusPrevious()

	assert.Equal(t, -1, n.ActiveIndex())
	assert.Equal(t, -1, n.FirstFocusable())
}

func TestOpenCloseReset(t *testing.T) {
	n, b, _ := newTestNavigator(t, scenarioItems())

	n.FocusFirst()
	b.Send(bus.Close)
	assert.Equal(t, -1, n.ActiveIndex())

	n.FocusFirst()
	b.Send(bus.Open)
	assert.Equal(t, -1, n.ActiveIndex())
}

func TestActiveFlagIsExclusive(t *testing.T) {
	n, _, _ := newTestNavigator(t, scenarioItems())

	n.FocusFirst()
	n.FocusNext()

	active := 0
	for i, item := range n.Items() {
		if item.Active {
			active++
			assert.Equal(t, 2, i)
		}
	}
	assert.Equal(t, 1, active)

	n.Reset()
	for _, item := range n.Items() {
		assert.False(t, item.Active)
	}
}

func TestSetItems_ResetsAndRepositions(t *testing.T) {
	n, _, rec := newTestNavigator(t, scenarioItems())
	n.FocusFirst()

	n.SetItems([]Item{{ID: "x"}, {ID: "y", Active: true}})

	assert.Equal(t, -1, n.ActiveIndex())
	assert.Equal(t, 2, n.Len())
	assert.Equal(t, 1, rec.count(bus.Reposition))
	for _, item := range n.Items() {
		assert.False(t, item.Active, "incoming Active flags are ignored")
	}
}

func TestSelect(t *testing.T) {
	var got []Selection
	b := bus.New(nil)
	rec := &recorder{}
	b.Subscribe(func(c bus.Command) { rec.commands = append(rec.commands, c) })
	n := NewNavigator(b, scenarioItems(), Options{
		ID:       "ctx",
		OnSelect: func(s Selection) { got = append(got, s) },
	})

	assert.False(t, n.Select(1), "disabled items cannot be selected")
	assert.False(t, n.Select(9))
	assert.Empty(t, got)

	assert.True(t, n.Select(2))
	require.Len(t, got, 1)
	assert.Equal(t, "ctx", got[0].MenuID)
	assert.Equal(t, "option3", got[0].Item.ID)
	assert.Equal(t, 2, got[0].Index)
	assert.Equal(t, []bus.Command{bus.Close}, rec.commands)
	assert.Equal(t, -1, n.ActiveIndex(), "close resets the menu")
}

func TestTab(t *testing.T) {
	t.Run("tab inside the menu moves forward", func(t *testing.T) {
		n, _, rec := newTestNavigator(t, scenarioItems())
		n.FocusFirst()

		ev := keyEvent(tea.KeyTab)
		n.HandleKey(ev)

		assert.Equal(t, 2, n.ActiveIndex())
		assert.Empty(t, rec.commands)
		assert.True(t, ev.PropagationStopped())
	})

	t.Run("tab on last focusable item leaves", func(t *testing.T) {
		n, _, rec := newTestNavigator(t, scenarioItems())
		n.FocusLast()

		ev := keyEvent(tea.KeyTab)
		n.HandleKey(ev)

		assert.Equal(t, []bus.Command{bus.Close, bus.FocusTriggerButton}, rec.commands)
		assert.Equal(t, 1, rec.count(bus.Close))
		assert.True(t, ev.PropagationStopped())
		assert.True(t, ev.DefaultPrevented())
	})

	t.Run("shift+tab on first focusable item leaves", func(t *testing.T) {
		n, _, rec := newTestNavigator(t, scenarioItems())
		n.FocusFirst()

		n.HandleKey(keyEvent(tea.KeyShiftTab))

		assert.Equal(t, []bus.Command{bus.Close, bus.FocusTriggerButton}, rec.commands)
	})

	t.Run("shift+tab elsewhere moves back", func(t *testing.T) {
		n, _, rec := newTestNavigator(t, scenarioItems())
		n.FocusLast()

		n.HandleKey(keyEvent(tea.KeyShiftTab))

		assert.Equal(t, 2, n.ActiveIndex())
		assert.Empty(t, rec.commands)
	})
}

func TestHandleKey(t *testing.T) {
	items := []Item{
		{ID: "cut", Label: "Cut", Key: "x"},
		{ID: "copy", Label: "Copy", Key: "c", Disabled: true},
		{ID: "paste", Label: "Paste", Key: "v"},
	}

	t.Run("arrows go through the bus", func(t *testing.T) {
		n, _, rec := newTestNavigator(t, items)

		n.HandleKey(keyEvent(tea.KeyDown))
		n.HandleKey(keyEvent(tea.KeyDown))
		n.HandleKey(keyEvent(tea.KeyUp))

		assert.Equal(t, []bus.Command{bus.FocusNextItem, bus.FocusNextItem, bus.FocusPreviousItem}, rec.commands)
		assert.Equal(t, 0, n.ActiveIndex())
	})

	t.Run("home and end", func(t *testing.T) {
		n, _, _ := newTestNavigator(t, items)

		n.HandleKey(keyEvent(tea.KeyEnd))
		assert.Equal(t, 2, n.ActiveIndex())
		n.HandleKey(keyEvent(tea.KeyHome))
		assert.Equal(t, 0, n.ActiveIndex())
	})

	t.Run("escape closes and refocuses trigger", func(t *testing.T) {
		n, _, rec := newTestNavigator(t, items)

		ev := keyEvent(tea.KeyEsc)
		n.HandleKey(ev)

		assert.Equal(t, []bus.Command{bus.Close, bus.FocusTriggerButton}, rec.commands)
		assert.True(t, ev.DefaultPrevented())
	})

	t.Run("enter selects active", func(t *testing.T) {
		var got []Selection
		b := bus.New(nil)
		n := NewNavigator(b, items, Options{OnSelect: func(s Selection) { got = append(got, s) }})
		n.FocusLast()

		n.HandleKey(keyEvent(tea.KeyEnter))

		require.Len(t, got, 1)
		assert.Equal(t, "paste", got[0].Item.ID)
	})

	t.Run("enter without an active item propagates", func(t *testing.T) {
		var got []Selection
		b := bus.New(nil)
		n := NewNavigator(b, items, Options{OnSelect: func(s Selection) { got = append(got, s) }})

		ev := keyEvent(tea.KeyEnter)
		n.HandleKey(ev)

		assert.Empty(t, got)
		assert.False(t, ev.PropagationStopped())
	})

	t.Run("mnemonic selects enabled item", func(t *testing.T) {
		var got []string
		b := bus.New(nil)
		n := NewNavigator(b, items, Options{OnSelect: func(s Selection) { got = append(got, s.Item.ID) }})

		n.HandleKey(runeKey('c'))
		ev := runeKey('x')
		n.HandleKey(ev)

		assert.Equal(t, []string{"cut"}, got)
		assert.True(t, ev.PropagationStopped())
	})

	t.Run("unknown keys propagate", func(t *testing.T) {
		n, _, rec := newTestNavigator(t, items)

		ev := runeKey('z')
		n.HandleKey(ev)

		assert.False(t, ev.PropagationStopped())
		assert.False(t, ev.DefaultPrevented())
		assert.Empty(t, rec.commands)
	})
}

func TestHover(t *testing.T) {
	var changes []int
	b := bus.New(nil)
	n := NewNavigator(b, scenarioItems(), Options{OnActiveChange: func(i int) { changes = append(changes, i) }})

	n.Hover(1)
	assert.Equal(t, -1, n.ActiveIndex())

	n.Hover(3)
	n.Hover(3)
	assert.Equal(t, 3, n.ActiveIndex())
	assert.Equal(t, []int{3}, changes)
}

func TestDestroy(t *testing.T) {
	n, b, _ := newTestNavigator(t, scenarioItems())

	n.Destroy()
	n.Destroy()
	b.Send(bus.FocusFirstItem)

	assert.Equal(t, -1, n.ActiveIndex())
	assert.Equal(t, 1, b.Len())
}
