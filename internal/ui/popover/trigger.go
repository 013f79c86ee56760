package popover

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/riordanpawley/floatui/internal/core/bus"
	"github.com/riordanpawley/floatui/internal/core/tick"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/ui/input"
)

// TriggerOptions configures a Trigger
type TriggerOptions struct {
	Mode     domain.TriggerMode
	Keys     input.KeyMap
	Disabled bool
	// OnOpenChange is called on every open/closed transition
	OnOpenChange func(open bool)
	Logger       *slog.Logger
}

// Trigger is the button that opens and closes the floating content. Its open
// flag is a mirror of the bus: it only changes when Open or Close is
// delivered, never directly from input.
type Trigger struct {
	bus      *bus.Bus
	mode     domain.TriggerMode
	keys     input.KeyMap
	hover    *Hover
	open     bool
	focused  bool
	disabled bool

	onOpenChange func(bool)
	unsubscribe  func()
	logger       *slog.Logger
}

// NewTrigger creates a trigger subscribed to b. Hover leaves are checked on
// the next tick of sched.
func NewTrigger(b *bus.Bus, sched *tick.Scheduler, opts TriggerOptions) *Trigger {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	keys := opts.Keys
	if len(keys.Open.Keys()) == 0 {
		keys = input.DefaultKeyMap()
	}

	t := &Trigger{
		bus:          b,
		mode:         opts.Mode,
		keys:         keys,
		disabled:     opts.Disabled,
		onOpenChange: opts.OnOpenChange,
		logger:       logger,
	}
	t.hover = NewHover(sched, t.hoverIdle)
	t.unsubscribe = b.Subscribe(t.handle)
	return t
}

func (t *Trigger) handle(c bus.Command) {
	switch c {
	case bus.Open:
		if !t.disabled {
			t.setOpen(true)
		}
	case bus.Close:
		if !t.disabled {
			t.setOpen(false)
		}
	case bus.FocusFirstItem, bus.FocusNextItem, bus.FocusPreviousItem:
		if t.open {
			t.focused = false
		}
	case bus.FocusTriggerButton:
		t.focused = true
	}
}

func (t *Trigger) setOpen(open bool) {
	if t.open == open {
		return
	}
	t.open = open
	t.logger.Debug("trigger open changed", "open", open, "mode", t.mode)
	if t.onOpenChange != nil {
		t.onOpenChange(open)
	}
}

// IsOpen reports the mirrored open state
func (t *Trigger) IsOpen() bool {
	return t.open
}

// Mode returns the trigger mode
func (t *Trigger) Mode() domain.TriggerMode {
	return t.mode
}

// Focused reports whether the trigger has keyboard focus
func (t *Trigger) Focused() bool {
	return t.focused
}

// Focus gives the trigger keyboard focus
func (t *Trigger) Focus() {
	t.focused = true
}

// Blur removes keyboard focus from the trigger
func (t *Trigger) Blur() {
	t.focused = false
}

// Disabled reports whether the trigger ignores input and open commands
func (t *Trigger) Disabled() bool {
	return t.disabled
}

// SetDisabled enables or disables the trigger. Disabling an open trigger
// closes it first.
func (t *Trigger) SetDisabled(disabled bool) {
	if disabled && t.open {
		t.bus.Send(bus.Close)
	}
	t.disabled = disabled
}

// Hover returns the hover tracking shared with the content surface
func (t *Trigger) Hover() *Hover {
	return t.hover
}

// Click toggles the content. Manual triggers ignore clicks.
func (t *Trigger) Click() {
	if t.disabled || t.mode == domain.TriggerManual {
		return
	}
	t.focused = true
	if t.open {
		t.bus.Send(bus.Close)
	} else {
		t.bus.Send(bus.Open)
	}
}

// HandleKey handles a key while the trigger or its content has focus.
//
// Opening keys move focus to the first item. Esc closes and returns focus to
// the trigger. Tab closes without being consumed so the host's focus order
// still advances.
func (t *Trigger) HandleKey(ev *input.KeyEvent) {
	if t.disabled || t.mode == domain.TriggerManual {
		return
	}

	switch {
	case !t.open && key.Matches(ev.Msg, t.keys.Open):
		t.bus.Send(bus.Open)
		t.bus.Send(bus.FocusFirstItem)
		ev.Consume()
	case t.open && key.Matches(ev.Msg, t.keys.Close):
		t.bus.Send(bus.Close)
		t.bus.Send(bus.FocusTriggerButton)
		ev.Consume()
	case t.open && (key.Matches(ev.Msg, t.keys.Tab) || key.Matches(ev.Msg, t.keys.ShiftTab)):
		t.bus.Send(bus.Close)
	case t.open && t.focused && key.Matches(ev.Msg, t.keys.Next):
		t.bus.Send(bus.FocusFirstItem)
		ev.Consume()
	}
}

// MouseEnter reports the pointer entering the trigger. Hover triggers open.
func (t *Trigger) MouseEnter() {
	t.hover.Enter(input.SurfaceTrigger)
	if t.mode == domain.TriggerHover && !t.open && !t.disabled {
		t.bus.Send(bus.Open)
	}
}

// MouseLeave reports the pointer leaving the trigger
func (t *Trigger) MouseLeave() {
	t.leave(input.SurfaceTrigger)
}

// ContentMouseEnter reports the pointer entering the floating content
func (t *Trigger) ContentMouseEnter() {
	t.hover.Enter(input.SurfaceContent)
}

// ContentMouseLeave reports the pointer leaving the floating content
func (t *Trigger) ContentMouseLeave() {
	t.leave(input.SurfaceContent)
}

func (t *Trigger) leave(s input.Surface) {
	if t.mode != domain.TriggerHover {
		t.hover.hovered[s] = false
		return
	}
	t.hover.Leave(s)
}

func (t *Trigger) hoverIdle() {
	if t.open && !t.disabled {
		t.logger.Debug("hover left both surfaces, closing")
		t.bus.Send(bus.Close)
	}
}

// Destroy unsubscribes from the bus
func (t *Trigger) Destroy() {
	t.hover.Reset()
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
}
