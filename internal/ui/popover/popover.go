// Package popover wires a trigger button to floating content.
//
// A Popover owns one command bus. The trigger, the content controller and
// the optional menu navigator each subscribe to it and react to the commands
// they care about; none of them calls another directly. Input arrives as
// bubbletea messages through Update, which also returns the host-facing
// SelectionMsg and OpenChangedMsg notifications.
package popover

import (
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/riordanpawley/floatui/internal/core/bus"
	"github.com/riordanpawley/floatui/internal/core/placement"
	"github.com/riordanpawley/floatui/internal/core/tick"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/services/affix"
	"github.com/riordanpawley/floatui/internal/ui/input"
	"github.com/riordanpawley/floatui/internal/ui/menu"
	"github.com/riordanpawley/floatui/internal/ui/overlay"
	"github.com/riordanpawley/floatui/internal/ui/styles"
)

// SelectionMsg is sent when a menu item is chosen
type SelectionMsg struct {
	PopoverID string
	MenuID    string
	Item      menu.Item
	Index     int
}

// OpenChangedMsg is sent on every open/closed transition
type OpenChangedMsg struct {
	ID   string
	Open bool
}

// Options configures a Popover
type Options struct {
	// ID identifies the popover in messages. Empty means a generated id.
	ID    string
	Label string
	Mode  domain.TriggerMode

	Request         placement.Request
	Gap             int
	AllowFullscreen bool
	ArrowTolerance  int
	AutoFitContext  domain.Rect
	CloseOnBackdrop bool
	Disabled        bool

	// Items makes the content a menu. Without items Text is shown as a
	// tooltip.
	Items []menu.Item
	Text  string

	Keys        input.KeyMap
	IDGenerator menu.IDGenerator
	Styles      *styles.Styles
	Logger      *slog.Logger
}

// Popover is a trigger plus its floating content
type Popover struct {
	id      string
	label   string
	text    string
	rect    domain.Rect
	bus     *bus.Bus
	sched   *tick.Scheduler
	layer   *overlay.Layer
	trigger *Trigger
	content *Content
	menu    *menu.Navigator
	styles  *styles.Styles

	hoverTrigger bool
	hoverContent bool
	outbox       []tea.Msg
	logger       *slog.Logger
}

// New creates a popover whose content is mounted into layer and positioned
// by affixer
func New(layer *overlay.Layer, affixer affix.Affixer, opts Options) *Popover {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	st := opts.Styles
	if st == nil {
		st = styles.New()
	}
	keys := opts.Keys
	if len(keys.Open.Keys()) == 0 {
		keys = input.DefaultKeyMap()
	}
	gen := opts.IDGenerator
	if gen == nil {
		gen = uuid.NewString
	}
	id := opts.ID
	if id == "" {
		id = gen()
	}
	logger = logger.With("popover", id)

	p := &Popover{
		id:     id,
		label:  opts.Label,
		text:   opts.Text,
		bus:    bus.New(logger),
		sched:  tick.NewScheduler(),
		layer:  layer,
		styles: st,
		logger: logger,
	}

	p.trigger = NewTrigger(p.bus, p.sched, TriggerOptions{
		Mode:         opts.Mode,
		Keys:         keys,
		Disabled:     opts.Disabled,
		OnOpenChange: p.openChanged,
		Logger:       logger,
	})

	resolver := placement.NewResolver(opts.AllowFullscreen)
	if opts.ArrowTolerance > 0 {
		resolver.Tolerance = opts.ArrowTolerance
	}
	p.content = NewContent(p.bus, p.sched, affixer, layer, contentView{p}, ContentOptions{
		Name:            id,
		Request:         opts.Request,
		Resolver:        resolver,
		Gap:             opts.Gap,
		AutoFitContext:  opts.AutoFitContext,
		CloseOnBackdrop: opts.CloseOnBackdrop,
		Anchor:          p.TriggerRect,
		ArrowGlyph:      p.arrowGlyph,
		Logger:          logger,
	})
	p.content.SetDisabled(opts.Disabled)

	if len(opts.Items) > 0 {
		p.menu = menu.NewNavigator(p.bus, opts.Items, menu.Options{
			IDGenerator: gen,
			Keys:        keys,
			OnSelect:    p.selected,
			Logger:      logger,
		})
	}
	return p
}

func (p *Popover) openChanged(open bool) {
	p.outbox = append(p.outbox, OpenChangedMsg{ID: p.id, Open: open})
}

func (p *Popover) selected(sel menu.Selection) {
	p.outbox = append(p.outbox, SelectionMsg{
		PopoverID: p.id,
		MenuID:    sel.MenuID,
		Item:      sel.Item,
		Index:     sel.Index,
	})
}

func (p *Popover) arrowGlyph(pl domain.Placement) string {
	g := styles.ArrowGlyph(pl)
	if g == "" {
		return ""
	}
	return p.styles.Arrow.Render(g)
}

// ID returns the popover id
func (p *Popover) ID() string {
	return p.id
}

// Label returns the trigger text
func (p *Popover) Label() string {
	return p.label
}

// Bus returns the command stream. Hosts push Open, Close and Reposition
// here and may subscribe to observe every command.
func (p *Popover) Bus() *bus.Bus {
	return p.bus
}

// Trigger returns the trigger controller
func (p *Popover) Trigger() *Trigger {
	return p.trigger
}

// Content returns the content controller
func (p *Popover) Content() *Content {
	return p.content
}

// Menu returns the navigator, nil for tooltips
func (p *Popover) Menu() *menu.Navigator {
	return p.menu
}

// Scheduler returns the popover's tick scheduler
func (p *Popover) Scheduler() *tick.Scheduler {
	return p.sched
}

// TriggerRect returns where the host last laid out the trigger
func (p *Popover) TriggerRect() domain.Rect {
	return p.rect
}

// SetRect records where the host laid out the trigger. Moving the trigger
// of an open popover repositions its content.
func (p *Popover) SetRect(r domain.Rect) {
	if r == p.rect {
		return
	}
	p.rect = r
	if p.content.State().Open {
		p.bus.Send(bus.Reposition)
	}
}

// Open opens the content as if a manual command arrived
func (p *Popover) Open() {
	p.bus.Send(bus.Open)
}

// Close closes the content
func (p *Popover) Close() {
	p.bus.Send(bus.Close)
}

// Reposition re-runs placement from the preferred side
func (p *Popover) Reposition() {
	p.bus.Send(bus.Reposition)
}

// IsOpen reports whether the content is open
func (p *Popover) IsOpen() bool {
	return p.trigger.IsOpen()
}

// State returns the content state
func (p *Popover) State() OverlayState {
	return p.content.State()
}

// Focus gives the trigger keyboard focus
func (p *Popover) Focus() {
	p.trigger.Focus()
}

// Blur removes keyboard focus from trigger and content
func (p *Popover) Blur() {
	p.trigger.Blur()
	p.content.focused = false
}

// Focused reports whether the trigger or its content has keyboard focus
func (p *Popover) Focused() bool {
	return p.trigger.Focused() || p.content.Focused()
}

// SetDisabled enables or disables the popover. Disabling closes it.
func (p *Popover) SetDisabled(disabled bool) {
	p.trigger.SetDisabled(disabled)
	p.content.SetDisabled(disabled)
}

// SetItems replaces the menu items. It has no effect on tooltips.
func (p *Popover) SetItems(items []menu.Item) {
	if p.menu == nil {
		return
	}
	p.menu.SetItems(items)
}

// SetText replaces the tooltip text
func (p *Popover) SetText(text string) {
	if text == p.text {
		return
	}
	p.text = text
	if p.content.State().Open {
		p.bus.Send(bus.Reposition)
	}
}

// Update handles flush, key and mouse messages. The bool reports whether the
// message was consumed; unconsumed keys should continue to the host.
func (p *Popover) Update(msg tea.Msg) (tea.Cmd, bool) {
	handled := false
	switch msg := msg.(type) {
	case tick.FlushMsg:
		if msg.For(p.sched) {
			p.sched.Flush()
			handled = true
		}
	case tea.KeyMsg:
		handled = p.HandleKey(input.NewKeyEvent(msg))
	case tea.MouseMsg:
		handled = p.HandleMouse(msg)
	}
	return p.Cmd(), handled
}

// Cmd drains pending notifications and requests a flush when work is
// deferred. Hosts call it after driving the popover directly, e.g. after
// Open.
func (p *Popover) Cmd() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(p.outbox)+1)
	for _, m := range p.outbox {
		cmds = append(cmds, func() tea.Msg { return m })
	}
	p.outbox = nil
	cmds = append(cmds, p.sched.Cmd())
	return tea.Batch(cmds...)
}

// HandleKey routes a key to the menu first and then to the trigger. It
// returns true when the key was consumed.
func (p *Popover) HandleKey(ev *input.KeyEvent) bool {
	if p.menu != nil && p.content.Focused() {
		p.menu.HandleKey(ev)
	}
	if !ev.PropagationStopped() && p.Focused() {
		p.trigger.HandleKey(ev)
	}
	return ev.PropagationStopped()
}

// HandleMouse tracks hover over both surfaces and handles left clicks on the
// trigger and on menu rows. Clicks elsewhere are left to the host, which
// reports them to the overlay layer as backdrop clicks. A trigger cell
// covered by a visible overlay belongs to that overlay.
func (p *Popover) HandleMouse(msg tea.MouseMsg) bool {
	overTrigger := p.rect.Contains(msg.X, msg.Y) && p.layer.Hit(msg.X, msg.Y) == nil
	overContent := p.overContent(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionMotion:
		p.setHover(overTrigger, overContent)
		if overContent && p.menu != nil {
			p.menu.Hover(p.itemAt(msg.Y))
		}
		return overTrigger || overContent
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return false
		}
		if overContent {
			if p.menu != nil {
				p.menu.Select(p.itemAt(msg.Y))
			}
			return true
		}
		if overTrigger {
			p.trigger.Click()
			return true
		}
	}
	return false
}

func (p *Popover) overContent(x, y int) bool {
	o := p.content.Overlay()
	return o != nil && p.layer.Hit(x, y) == o
}

func (p *Popover) setHover(trigger, content bool) {
	if trigger != p.hoverTrigger {
		p.hoverTrigger = trigger
		if trigger {
			p.trigger.MouseEnter()
		} else {
			p.trigger.MouseLeave()
		}
	}
	if content != p.hoverContent {
		p.hoverContent = content
		if content {
			p.trigger.ContentMouseEnter()
		} else {
			p.trigger.ContentMouseLeave()
		}
	}
}

// itemAt maps a screen row inside the content to a menu index, -1 outside
// the rows
func (p *Popover) itemAt(y int) int {
	st := p.frameStyle()
	row := y - p.content.Rect().Y - st.GetBorderTopSize() - st.GetPaddingTop()
	if p.menu == nil || row < 0 || row >= p.menu.Len() {
		return -1
	}
	return row
}

// Destroy closes the content and unsubscribes everything from the bus
func (p *Popover) Destroy() {
	if p.menu != nil {
		p.menu.Destroy()
	}
	p.content.Destroy()
	p.trigger.Destroy()
	p.outbox = nil
}

// TriggerView renders the trigger button
func (p *Popover) TriggerView() string {
	st := p.styles.Trigger
	switch {
	case p.trigger.Disabled():
		st = p.styles.TriggerDisabled
	case p.trigger.IsOpen():
		st = p.styles.TriggerOpen
	case p.Focused():
		st = p.styles.TriggerFocused
	}
	return st.Render(p.label)
}

// TriggerSize returns the rendered trigger dimensions
func (p *Popover) TriggerSize() (width, height int) {
	return lipgloss.Size(p.TriggerView())
}

func (p *Popover) body() string {
	if p.menu != nil {
		return p.menu.View(p.styles)
	}
	return p.text
}

func (p *Popover) fullscreen() bool {
	return p.content.Result().Placement == domain.PlacementFullscreen
}

func (p *Popover) frameStyle() lipgloss.Style {
	switch {
	case p.fullscreen():
		return p.styles.Fullscreen
	case p.menu != nil:
		return p.styles.Popover
	default:
		return p.styles.Tooltip
	}
}

// contentView is what the overlay layer paints for this popover
type contentView struct {
	p *Popover
}

func (v contentView) View() string {
	st := v.p.frameStyle()
	if v.p.fullscreen() {
		r := v.p.content.Rect()
		st = st.
			Width(max(0, r.W-st.GetHorizontalBorderSize())).
			Height(max(0, r.H-st.GetVerticalBorderSize()))
	}
	return st.Render(v.p.body())
}

// Measure returns the natural size, ignoring any fullscreen stretch
func (v contentView) Measure() domain.Size {
	if v.p.menu != nil {
		st := v.p.styles.Popover
		w, h := v.p.menu.Size(v.p.styles)
		return domain.Size{W: w + st.GetHorizontalFrameSize(), H: h + st.GetVerticalFrameSize()}
	}
	w, h := lipgloss.Size(v.p.styles.Tooltip.Render(v.p.text))
	return domain.Size{W: w, H: h}
}
