package popover

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/riordanpawley/floatui/internal/core/bus"
	"github.com/riordanpawley/floatui/internal/core/placement"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/ui/menu"
	"github.com/riordanpawley/floatui/internal/ui/overlay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTrigger = domain.Rect{X: 10, Y: 2, W: 8, H: 1}

func editItems() []menu.Item {
	return []menu.Item{
		{ID: "cut", Label: "Cut", Key: "x"},
		{ID: "copy", Label: "Copy", Key: "c", Disabled: true},
		{ID: "paste", Label: "Paste", Key: "v"},
	}
}

func newTestPopover(t *testing.T, w, h int, opts Options) (*Popover, *overlay.Layer, *recordingAffixer) {
	t.Helper()
	layer := overlay.NewLayer(nil)
	layer.Resize(w, h)
	aff := newRecordingAffixer(w, h)

	if opts.ID == "" {
		opts.ID = "pop"
	}
	if opts.Request == (placement.Request{}) {
		opts.Request = placement.Request{
			Preferred: domain.PlacementBelow,
			Alignment: domain.AlignLeft,
			AutoFit:   true,
		}
	}
	if opts.Gap == 0 {
		opts.Gap = 1
	}
	opts.ArrowTolerance = 2
	opts.IDGenerator = func() string { return "menu-1" }

	p := New(layer, aff, opts)
	p.SetRect(testTrigger)
	return p, layer, aff
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func motion(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion}
}

func openChanges(msgs []tea.Msg) []bool {
	var out []bool
	for _, m := range msgs {
		if oc, ok := m.(OpenChangedMsg); ok {
			out = append(out, oc.Open)
		}
	}
	return out
}

func TestNew(t *testing.T) {
	p, layer, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})

	assert.Equal(t, "pop", p.ID())
	require.NotNil(t, p.Menu())
	assert.Equal(t, "menu-1", p.Menu().ID())
	assert.False(t, p.IsOpen())
	assert.Equal(t, OverlayState{}, p.State())
	assert.True(t, layer.IsEmpty())
	assert.Equal(t, testTrigger, p.TriggerRect())
	assert.Nil(t, p.Cmd())
}

func TestNew_GeneratedID(t *testing.T) {
	p := New(overlay.NewLayer(nil), newRecordingAffixer(80, 24), Options{Label: "x"})
	assert.NotEmpty(t, p.ID())
	assert.Nil(t, p.Menu(), "no items means a tooltip")
}

func TestKeyboardOpenFocusesFirstItem(t *testing.T) {
	p, _, aff := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	p.Focus()

	cmd, handled := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, handled)
	assert.Equal(t, OverlayState{Open: true, Visible: false}, p.State())

	msgs := settle(p, cmd)

	assert.Equal(t, []bool{true}, openChanges(msgs))
	assert.Equal(t, OverlayState{Open: true, Visible: true}, p.State())
	assert.Equal(t, 1, aff.count("AffixTo"))
	assert.Equal(t, 0, p.Menu().ActiveIndex())
	assert.True(t, p.Content().Focused())
	assert.False(t, p.Trigger().Focused())

	res := p.Content().Result()
	assert.Equal(t, domain.PlacementBelow, res.Placement)
	assert.Equal(t, 4, res.Top)
	assert.Equal(t, 10, res.Left)
}

// Tab from the last enabled item closes the menu exactly once and hands
// focus back to the trigger.
func TestTabFromLastItemCloses(t *testing.T) {
	p, layer, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	p.Focus()
	cmd, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	settle(p, cmd)
	log := watch(p.Bus())

	_, handled := p.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, handled)
	assert.Equal(t, 2, p.Menu().ActiveIndex(), "tab skips the disabled item")
	assert.True(t, p.IsOpen())

	cmd, handled = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.True(t, handled)

	assert.Equal(t, 1, log.count(bus.Close))
	assert.False(t, p.IsOpen())
	assert.Equal(t, OverlayState{}, p.State())
	assert.True(t, p.Trigger().Focused())
	assert.False(t, p.Content().Focused())
	assert.True(t, layer.IsEmpty())
	assert.Equal(t, []bool{false}, openChanges(settle(p, cmd)))
}

func TestTabOnTriggerClosesWithoutConsuming(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, handled := p.Update(press(11, 2))
	require.True(t, handled)
	settle(p, cmd)
	require.True(t, p.IsOpen())

	_, handled = p.Update(tea.KeyMsg{Type: tea.KeyTab})

	assert.False(t, handled, "tab continues to the host focus order")
	assert.False(t, p.IsOpen())
}

func TestEscFromMenu(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	p.Focus()
	cmd, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	settle(p, cmd)

	_, handled := p.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.True(t, handled)
	assert.False(t, p.IsOpen())
	assert.True(t, p.Trigger().Focused())
}

func TestKeysIgnoredWithoutFocus(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})

	_, handled := p.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, handled)
	assert.False(t, p.IsOpen())
}

func TestMnemonicSelects(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	p.Focus()
	cmd, _ := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	settle(p, cmd)

	cmd, handled := p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'v'}})
	require.True(t, handled)

	msgs := settle(p, cmd)
	require.NotEmpty(t, msgs)
	sel, ok := msgs[0].(SelectionMsg)
	require.True(t, ok)
	assert.Equal(t, "pop", sel.PopoverID)
	assert.Equal(t, "menu-1", sel.MenuID)
	assert.Equal(t, "paste", sel.Item.ID)
	assert.Equal(t, 2, sel.Index)
	assert.False(t, p.IsOpen())
}

func TestClickSelectsRow(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)
	require.True(t, p.State().Visible)

	// Content sits below the trigger at row 4; its border takes row 4 and
	// the items follow.
	rect := p.Content().Rect()
	require.Equal(t, 4, rect.Y)

	cmd, handled := p.Update(press(12, 6))
	assert.True(t, handled)
	assert.True(t, p.IsOpen(), "disabled rows cannot be selected")
	assert.Empty(t, settle(p, cmd))

	cmd, handled = p.Update(press(12, 7))
	assert.True(t, handled)
	msgs := settle(p, cmd)
	require.Len(t, msgs, 2)
	assert.Equal(t, "paste", msgs[0].(SelectionMsg).Item.ID)
	assert.Equal(t, OpenChangedMsg{ID: "pop", Open: false}, msgs[1])
}

func TestHoverActivatesRow(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)

	p.Update(motion(12, 5))
	assert.Equal(t, 0, p.Menu().ActiveIndex())

	p.Update(motion(12, 6))
	assert.Equal(t, 0, p.Menu().ActiveIndex(), "disabled rows keep the previous item active")

	p.Update(motion(12, 7))
	assert.Equal(t, 2, p.Menu().ActiveIndex())
}

// Hover mode: moving from the trigger into the tooltip keeps it open;
// leaving both closes it one tick later.
func TestHoverTooltip(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "?", Mode: domain.TriggerHover, Text: "hello"})

	cmd, handled := p.Update(motion(11, 2))
	assert.True(t, handled)
	assert.Equal(t, []bool{true}, openChanges(settle(p, cmd)))
	require.True(t, p.State().Visible)

	rect := p.Content().Rect()
	assert.Equal(t, domain.Rect{X: 10, Y: 4, W: 7, H: 1}, rect)

	cmd, _ = p.Update(motion(12, 4))
	assert.Empty(t, settle(p, cmd))
	assert.True(t, p.IsOpen())

	cmd, _ = p.Update(motion(50, 20))
	assert.Equal(t, []bool{false}, openChanges(settle(p, cmd)))
	assert.Equal(t, OverlayState{}, p.State())
}

func TestBackdropClickCloses(t *testing.T) {
	p, layer, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems(), CloseOnBackdrop: true})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)

	_, handled := p.Update(press(60, 20))
	assert.False(t, handled, "outside clicks are left to the host")

	assert.True(t, layer.Click(60, 20))
	assert.False(t, p.IsOpen())
	assert.True(t, layer.IsEmpty())
}

func TestManualOpen(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Mode: domain.TriggerManual, Items: editItems()})

	_, _ = p.Update(press(11, 2))
	assert.False(t, p.IsOpen(), "manual triggers ignore clicks")

	p.Open()
	msgs := settle(p, p.Cmd())
	assert.Equal(t, []bool{true}, openChanges(msgs))
	assert.True(t, p.State().Visible)

	p.Close()
	assert.False(t, p.IsOpen())
}

func TestDisabled(t *testing.T) {
	p, layer, aff := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems(), Disabled: true})

	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)
	p.Open()
	settle(p, p.Cmd())

	assert.False(t, p.IsOpen())
	assert.True(t, layer.IsEmpty())
	assert.Empty(t, aff.calls)
}

func TestSetDisabledCloses(t *testing.T) {
	p, layer, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)

	p.SetDisabled(true)

	assert.False(t, p.IsOpen())
	assert.Equal(t, OverlayState{}, p.State())
	assert.True(t, layer.IsEmpty())
}

func TestSetItemsRepositions(t *testing.T) {
	p, _, aff := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)
	before := p.Content().Rect()

	p.SetItems(append(editItems(), menu.Item{ID: "delete", Label: "Delete"}))

	assert.Equal(t, 1, aff.count("Update"))
	assert.Equal(t, before.H+1, p.Content().Rect().H)
	assert.Equal(t, -1, p.Menu().ActiveIndex())
}

func TestSetRectRepositions(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)

	p.SetRect(domain.Rect{X: 20, Y: 3, W: 8, H: 1})

	assert.Equal(t, 20, p.Content().Rect().X)
	assert.Equal(t, 5, p.Content().Rect().Y)
}

func TestFullscreenWhenLargerThanViewport(t *testing.T) {
	p, _, _ := newTestPopover(t, 20, 7, Options{
		Label:           "?",
		Text:            strings.Repeat("wide ", 8),
		AllowFullscreen: true,
	})
	p.SetRect(domain.Rect{X: 2, Y: 1, W: 3, H: 1})

	cmd, _ := p.Update(press(2, 1))
	settle(p, cmd)

	res := p.Content().Result()
	assert.Equal(t, domain.PlacementFullscreen, res.Placement)
	assert.Equal(t, domain.Rect{W: 20, H: 7}, res.Rect())
	assert.True(t, p.State().Visible)
	assert.Nil(t, p.Content().Overlay().Arrow())
}

func TestComposeShowsMenuAndArrow(t *testing.T) {
	p, layer, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)

	background := strings.Repeat(strings.Repeat(".", 80)+"\n", 23) + strings.Repeat(".", 80)
	out := ansi.Strip(layer.Compose(background))
	lines := strings.Split(out, "\n")

	require.Len(t, lines, 24)
	assert.Contains(t, lines[5], "Cut")
	assert.Contains(t, lines[7], "Paste")
	assert.Contains(t, lines[3], "▲")
}

func TestTriggerView(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})

	assert.Equal(t, "Edit", strings.TrimSpace(ansi.Strip(p.TriggerView())))
	w, h := p.TriggerSize()
	assert.Equal(t, 6, w)
	assert.Equal(t, 1, h)
}

func TestDestroy(t *testing.T) {
	p, layer, aff := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)

	p.Destroy()

	assert.True(t, layer.IsEmpty())
	assert.Equal(t, 0, aff.inner.Live())
	assert.Equal(t, 0, p.Bus().Len())
}

func TestCoveredTriggerIgnoresMouse(t *testing.T) {
	top, layer, _ := newTestPopover(t, 80, 24, Options{ID: "top", Label: "Edit", Items: editItems()})
	under := New(layer, newRecordingAffixer(80, 24), Options{
		ID:    "under",
		Label: "Hidden",
		Text:  "hidden",
		Mode:  domain.TriggerHover,
	})
	under.SetRect(domain.Rect{X: 11, Y: 7, W: 4, H: 1})

	cmd, _ := top.Update(press(11, 2))
	settle(top, cmd)
	require.True(t, top.State().Visible)
	require.True(t, top.Content().Rect().Contains(12, 7))

	_, handled := under.Update(motion(12, 7))
	assert.False(t, handled, "hover does not reach a covered trigger")
	_, handled = under.Update(press(12, 7))
	assert.False(t, handled)
	assert.False(t, under.IsOpen())

	cmd, handled = top.Update(press(12, 7))
	assert.True(t, handled)
	msgs := settle(top, cmd)
	require.NotEmpty(t, msgs)
	assert.Equal(t, "paste", msgs[0].(SelectionMsg).Item.ID)
}

func TestMenuMeasureMatchesRenderedFrame(t *testing.T) {
	p, _, _ := newTestPopover(t, 80, 24, Options{Label: "Edit", Items: editItems()})
	cmd, _ := p.Update(press(11, 2))
	settle(p, cmd)
	require.True(t, p.State().Visible)

	w, h := p.Menu().Size(p.styles)
	rect := p.Content().Rect()
	assert.Equal(t, w+p.styles.Popover.GetHorizontalFrameSize(), rect.W)
	assert.Equal(t, h+p.styles.Popover.GetVerticalFrameSize(), rect.H)
	assert.Equal(t, domain.Size{W: rect.W, H: rect.H}, contentView{p}.Measure())
}
