package popover

import (
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/floatui/internal/core/bus"
	"github.com/riordanpawley/floatui/internal/core/placement"
	"github.com/riordanpawley/floatui/internal/core/tick"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/services/affix"
	"github.com/riordanpawley/floatui/internal/ui/overlay"
)

// OverlayState is the externally visible state of the floating content.
// Visible is only ever true while Open is.
type OverlayState struct {
	Open    bool
	Visible bool
}

// Measurer is implemented by content views whose natural size differs from
// what View currently renders, e.g. while shown fullscreen.
type Measurer interface {
	Measure() domain.Size
}

// ContentOptions configures a Content controller
type ContentOptions struct {
	// Name identifies the overlay in logs
	Name     string
	Request  placement.Request
	Resolver placement.Resolver
	// Gap is the number of cells between trigger and content
	Gap int
	// AutoFitContext bounds the fit test. Empty means the whole viewport.
	AutoFitContext domain.Rect
	// CloseOnBackdrop closes the content on clicks outside it
	CloseOnBackdrop bool
	// Anchor returns the trigger rectangle for opens that arrive over the
	// bus. It is also re-read on every reposition.
	Anchor func() domain.Rect
	// ArrowGlyph returns the glyph drawn for a placement; empty hides it
	ArrowGlyph func(domain.Placement) string
	Logger     *slog.Logger
}

// Content controls the floating surface: mounting it into the overlay
// layer, measuring it one tick later, binding it to the affixer and
// committing resolved placements.
type Content struct {
	bus     *bus.Bus
	sched   *tick.Scheduler
	affixer affix.Affixer
	layer   *overlay.Layer
	view    overlay.Content
	opts    ContentOptions

	state    OverlayState
	focused  bool
	disabled bool
	trigger  domain.Rect
	req      placement.Request
	result   placement.Result
	gen      int

	// Live only while open
	overlay *overlay.Overlay
	handle  affix.Handle
	unsubs  []func()

	unsubscribe func()
	logger      *slog.Logger
}

// NewContent creates a content controller for view and subscribes it to b
func NewContent(b *bus.Bus, sched *tick.Scheduler, affixer affix.Affixer, layer *overlay.Layer, view overlay.Content, opts ContentOptions) *Content {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Resolver.ArrowSize == (domain.Size{}) {
		opts.Resolver.ArrowSize = domain.Size{W: 1, H: 1}
	}

	c := &Content{
		bus:     b,
		sched:   sched,
		affixer: affixer,
		layer:   layer,
		view:    view,
		opts:    opts,
		req:     opts.Request,
		logger:  logger,
	}
	c.unsubscribe = b.Subscribe(c.onCommand)
	return c
}

func (c *Content) onCommand(cmd bus.Command) {
	switch cmd {
	case bus.Open:
		c.Open(c.anchor(), c.opts.Request)
	case bus.Close:
		c.Close()
	case bus.Reposition:
		c.Reposition()
	case bus.FocusFirstItem, bus.FocusNextItem, bus.FocusPreviousItem:
		c.ApplyFocus()
	case bus.FocusTriggerButton:
		c.focused = false
	}
}

func (c *Content) anchor() domain.Rect {
	if c.opts.Anchor == nil {
		return c.trigger
	}
	return c.opts.Anchor()
}

// State returns the open and visible flags
func (c *Content) State() OverlayState {
	return c.state
}

// Result returns the last committed placement
func (c *Content) Result() placement.Result {
	return c.result
}

// Rect returns the committed content rectangle
func (c *Content) Rect() domain.Rect {
	return c.result.Rect()
}

// Focused reports whether keyboard focus is inside the content
func (c *Content) Focused() bool {
	return c.focused
}

// SetDisabled makes Open and Close no-ops
func (c *Content) SetDisabled(disabled bool) {
	c.disabled = disabled
}

// Overlay returns the mounted overlay, nil while closed
func (c *Content) Overlay() *overlay.Overlay {
	return c.overlay
}

// Open mounts the content invisibly and measures it on the next tick. Opening
// while already open updates the trigger and request and repositions.
func (c *Content) Open(trigger domain.Rect, req placement.Request) {
	if c.disabled {
		return
	}
	c.trigger = trigger
	c.req = req
	if c.state.Open {
		c.Reposition()
		return
	}

	c.state = OverlayState{Open: true}
	c.gen++
	gen := c.gen

	c.overlay = c.layer.Create(overlay.Options{
		Name:     c.opts.Name,
		Backdrop: c.opts.CloseOnBackdrop,
	})
	c.overlay.Attach(c.view)
	if c.opts.CloseOnBackdrop {
		c.unsubs = append(c.unsubs, c.overlay.OnBackdropClick(func() {
			c.logger.Debug("backdrop click", "overlay", c.opts.Name)
			c.bus.Send(bus.Close)
		}))
	}

	c.logger.Debug("overlay mounted", "overlay", c.opts.Name, "trigger", trigger.String())
	c.sched.Defer(func() { c.measure(gen) })
}

// measure runs one tick after Open, once the content has been rendered
func (c *Content) measure(gen int) {
	if !c.state.Open || gen != c.gen {
		return
	}

	c.handle = c.affixer.AffixTo(c.trigger, c.size(), c.affixConfig())
	c.unsubs = append(c.unsubs,
		c.handle.OnPlacementChange(func(domain.Placement) { c.commit() }),
		c.handle.OnOffsetChange(func(domain.Point) { c.refreshArrow() }),
		c.handle.OnOverflowScroll(c.refreshArrow),
	)
	c.commit()
	c.logger.Debug("overlay opened",
		"overlay", c.opts.Name,
		"placement", c.result.Placement.String(),
		"visible", c.result.Visible,
	)
}

func (c *Content) size() domain.Size {
	if m, ok := c.view.(Measurer); ok {
		return m.Measure()
	}
	w, h := lipgloss.Size(c.view.View())
	return domain.Size{W: w, H: h}
}

func (c *Content) affixConfig() affix.Config {
	return affix.Config{
		Placement:      c.req.Preferred,
		Alignment:      c.req.Alignment,
		AutoFit:        c.req.AutoFit,
		Sticky:         c.req.Sticky,
		AutoFitContext: c.opts.AutoFitContext,
		Gap:            c.opts.Gap,
	}
}

// commit resolves the handle's current position and applies it to the
// overlay
func (c *Content) commit() {
	if c.handle == nil {
		return
	}
	c.result = c.opts.Resolver.Resolve(placement.Input{
		Placement: c.handle.Placement(),
		Content:   c.handle.Rect(),
		Trigger:   c.handle.Target(),
		Viewport:  c.handle.Viewport(),
	})
	c.state.Visible = c.result.Visible
	c.apply()
}

// refreshArrow follows a moved handle without resolving the placement again
func (c *Content) refreshArrow() {
	if c.handle == nil || !c.result.Placement.Directional() {
		return
	}
	r := c.handle.Rect()
	c.result.Left, c.result.Top = r.X, r.Y
	c.result.Arrow = c.opts.Resolver.ArrowFor(c.result.Placement, c.handle.Target(), r)
	c.apply()
}

func (c *Content) apply() {
	if c.overlay == nil {
		return
	}
	c.overlay.SetRect(c.result.Rect())
	c.overlay.SetVisible(c.result.Visible)

	glyph := ""
	if c.result.Arrow.Visible && c.opts.ArrowGlyph != nil {
		glyph = c.opts.ArrowGlyph(c.result.Placement)
	}
	if glyph == "" {
		c.overlay.SetArrow(nil)
		return
	}
	c.overlay.SetArrow(&overlay.ArrowGlyph{
		At:    domain.Point{X: c.result.Arrow.Left, Y: c.result.Arrow.Top},
		Glyph: glyph,
	})
}

// Reposition re-runs affixing from the preferred placement with a fresh
// measurement. Before the first measurement it does nothing; the pending
// measurement will read the current state anyway.
func (c *Content) Reposition() {
	if !c.state.Open || c.handle == nil {
		return
	}
	if c.opts.Anchor != nil {
		c.trigger = c.opts.Anchor()
	}
	c.handle.Update(c.trigger, c.size(), c.affixConfig())
	c.commit()
}

// ApplyFocus moves keyboard focus into the open content
func (c *Content) ApplyFocus() {
	if c.state.Open {
		c.focused = true
	}
}

// Close unmounts the content. Closing a closed overlay does nothing.
func (c *Content) Close() {
	if c.disabled || !c.state.Open {
		return
	}
	c.teardown()
	c.logger.Debug("overlay closed", "overlay", c.opts.Name)
}

// teardown releases everything bound while open: listeners first, then the
// handle, then the overlay.
func (c *Content) teardown() {
	c.state = OverlayState{}
	c.focused = false
	c.result = placement.Result{}

	for _, unsub := range c.unsubs {
		unsub()
	}
	c.unsubs = nil

	if c.handle != nil {
		c.handle.Destroy()
		c.handle = nil
	}
	if c.overlay != nil {
		c.layer.Close(c.overlay)
		c.overlay = nil
	}
}

// Destroy releases the content whatever its state and unsubscribes from the
// bus.
func (c *Content) Destroy() {
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	c.gen++
	c.teardown()
}
