// Package app contains the demo host: a bubbletea model that lays out a
// few triggers, routes input to their popovers and composes the floating
// content over the background.
package app

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/floatui/internal/config"
	"github.com/riordanpawley/floatui/internal/core/tick"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/services/affix"
	"github.com/riordanpawley/floatui/internal/ui/input"
	"github.com/riordanpawley/floatui/internal/ui/overlay"
	"github.com/riordanpawley/floatui/internal/ui/popover"
	"github.com/riordanpawley/floatui/internal/ui/statusbar"
	"github.com/riordanpawley/floatui/internal/ui/styles"
	"github.com/riordanpawley/floatui/internal/ui/toast"
)

const (
	// minRow is the first row below the title
	minRow = 2

	toastLimit = 4
	toastTTL   = 3 * time.Second
	errorTTL   = 8 * time.Second
	tickEvery  = time.Second
)

type tickMsg time.Time

type reloadMsg config.Reload

// staticView is pre-rendered overlay content
type staticView string

func (s staticView) View() string { return string(s) }

// Model is the demo application state
type Model struct {
	popovers []*popover.Popover
	focus    int

	// row is the y of the movable trigger row
	row int

	layer   *overlay.Layer
	affixer *affix.CellAffixer

	// Toasts live on their own layer so they never take backdrop clicks
	toasts       *toast.Queue
	toastLayer   *overlay.Layer
	toastOverlay *overlay.Overlay

	lastSelection string

	width  int
	height int

	styles   *styles.Styles
	config   *config.Config
	keys     input.KeyMap
	hostKeys hostKeyMap

	reloads <-chan config.Reload
	now     func() time.Time
	logger  *slog.Logger
}

// New creates the demo model. reloads may be nil when the config is not
// watched.
func New(cfg *config.Config, reloads <-chan config.Reload, logger *slog.Logger) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	toastLayer := overlay.NewLayer(logger)
	m := Model{
		row:          minRow,
		layer:        overlay.NewLayer(logger),
		affixer:      affix.NewCellAffixer(0, 0, logger),
		toasts:       toast.NewQueue(toastLimit),
		toastLayer:   toastLayer,
		toastOverlay: toastLayer.Create(overlay.Options{Name: "toasts"}),
		styles:       styles.New(),
		config:       cfg,
		keys:         cfg.KeyMap(),
		hostKeys:     defaultHostKeys(),
		reloads:      reloads,
		now:          time.Now,
		logger:       logger,
	}
	m.buildPopovers(cfg)
	m.popovers[m.focus].Focus()
	return m
}

// Init starts the toast ticker and, when configured, the config watcher
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForReload())
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickEvery, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) waitForReload() tea.Cmd {
	if m.reloads == nil {
		return nil
	}
	ch := m.reloads
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return nil
		}
		return reloadMsg(r)
	}
}

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layer.Resize(msg.Width, msg.Height)
		m.toastLayer.Resize(msg.Width, msg.Height)
		// The status bar row is off limits to floating content
		m.affixer.SetViewport(msg.Width, max(0, msg.Height-1))
		m.row = clamp(m.row, minRow, m.maxRow())
		m.layout()
		cmd = m.drain()

	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)

	case tea.MouseMsg:
		m, cmd = m.handleMouse(msg)

	case tick.FlushMsg:
		cmds := make([]tea.Cmd, 0, len(m.popovers))
		for _, p := range m.popovers {
			c, _ := p.Update(msg)
			cmds = append(cmds, c)
		}
		cmd = tea.Batch(cmds...)

	case popover.SelectionMsg:
		m.lastSelection = m.labelOf(msg.PopoverID) + " › " + msg.Item.Label
		m.logger.Info("menu selection", "popover", msg.PopoverID, "item", msg.Item.ID, "index", msg.Index)
		m.toasts.Push(toast.Success, m.lastSelection, toastTTL, m.now())

	case popover.OpenChangedMsg:
		m.logger.Debug("open changed", "popover", msg.ID, "open", msg.Open)

	case reloadMsg:
		m, cmd = m.applyReload(config.Reload(msg))

	case tickMsg:
		m.toasts.Expire(time.Time(msg))
		cmd = tickCmd()
	}

	m.keepFocus()
	m.syncToasts()
	return m, cmd
}

// keepFocus hands focus back to the trigger when its content closed while
// focused, e.g. after a selection
func (m Model) keepFocus() {
	if p := m.focused(); p != nil && !p.Focused() && !p.IsOpen() {
		p.Focus()
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var pending tea.Cmd
	if p := m.focused(); p != nil {
		cmd, handled := p.Update(msg)
		if handled {
			return m, cmd
		}
		pending = cmd
	}
	return m.hostKey(msg, pending)
}

// hostKey handles keys no popover consumed. pending carries commands the
// popover produced on its way past, e.g. a Tab that closed it.
func (m Model) hostKey(msg tea.KeyMsg, pending tea.Cmd) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.hostKeys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.hostKeys.Next):
		m.moveFocus(1)
	case key.Matches(msg, m.hostKeys.Prev):
		m.moveFocus(-1)
	case key.Matches(msg, m.hostKeys.Pin):
		if p := m.popoverByID(idPin); p != nil {
			if p.IsOpen() {
				p.Close()
			} else {
				p.Open()
			}
		}
	}
	return m, tea.Batch(pending, m.drain())
}

func (m *Model) moveFocus(delta int) {
	if len(m.popovers) == 0 {
		return
	}
	m.popovers[m.focus].Blur()
	m.focus = (m.focus + delta + len(m.popovers)) % len(m.popovers)
	m.popovers[m.focus].Focus()
}

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if msg.Action == tea.MouseActionPress {
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m.scroll(-1)
		case tea.MouseButtonWheelDown:
			return m.scroll(1)
		}
	}

	handled := false
	cmds := make([]tea.Cmd, 0, len(m.popovers)+1)
	for i, p := range m.popovers {
		if handled && msg.Action == tea.MouseActionPress {
			break
		}
		cmd, ok := p.Update(msg)
		cmds = append(cmds, cmd)
		if !ok {
			continue
		}
		handled = true
		if msg.Action == tea.MouseActionPress && i != m.focus && p.Focused() {
			m.popovers[m.focus].Blur()
			m.focus = i
		}
	}

	if !handled && msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
		m.layer.Click(msg.X, msg.Y)
	}
	cmds = append(cmds, m.drain())
	return m, tea.Batch(cmds...)
}

// scroll moves the trigger row. Open content follows its trigger.
func (m Model) scroll(delta int) (Model, tea.Cmd) {
	next := clamp(m.row+delta, minRow, m.maxRow())
	if next == m.row {
		return m, nil
	}
	m.affixer.ScrollBy(0, next-m.row)
	m.row = next
	m.layout()
	// The corner trigger does not scroll
	if c := m.cornerPopover(); c != nil && c.IsOpen() {
		c.Reposition()
	}
	return m, m.drain()
}

func (m Model) applyReload(r config.Reload) (Model, tea.Cmd) {
	if r.Err != nil {
		m.toasts.Push(toast.Error, "config: "+r.Err.Error(), errorTTL, m.now())
		return m, m.waitForReload()
	}

	m.destroyPopovers()
	m.config = r.Config
	m.keys = r.Config.KeyMap()
	m.buildPopovers(r.Config)
	m.focus = clamp(m.focus, 0, len(m.popovers)-1)
	m.popovers[m.focus].Focus()
	m.layout()

	m.toasts.Push(toast.Info, "config reloaded", toastTTL, m.now())
	return m, tea.Batch(m.drain(), m.waitForReload())
}

// drain collects the pending notifications and flush requests of every
// popover
func (m Model) drain() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.popovers))
	for _, p := range m.popovers {
		cmds = append(cmds, p.Cmd())
	}
	return tea.Batch(cmds...)
}

func (m Model) focused() *popover.Popover {
	if m.focus < 0 || m.focus >= len(m.popovers) {
		return nil
	}
	return m.popovers[m.focus]
}

func (m Model) labelOf(id string) string {
	if p := m.popoverByID(id); p != nil {
		return p.Label()
	}
	return id
}

// syncToasts re-renders the toast stack into its overlay, bottom-right and
// above the status bar
func (m Model) syncToasts() {
	items := m.toasts.Items()
	if len(items) == 0 || m.width == 0 {
		m.toastOverlay.SetVisible(false)
		return
	}
	view := toast.New(m.styles).Render(items, m.width)
	w, h := lipgloss.Size(view)
	m.toastOverlay.Attach(staticView(view))
	m.toastOverlay.SetRect(domain.Rect{X: max(0, m.width-w-1), Y: max(0, m.height-1-h), W: w, H: h})
	m.toastOverlay.SetVisible(true)
}

// View renders the background, then toasts, then floating content
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}
	return m.layer.Compose(m.toastLayer.Compose(m.renderBackground()))
}

func (m Model) renderBackground() string {
	lines := make([]string, m.height)

	title := m.styles.Title.Render("floatui")
	help := m.styles.Hint.Render("  tab: next trigger  wheel: move row  p: pin note  q: quit")
	lines[0] = " " + title + help

	if m.row < len(lines) {
		views := make([]string, 0, len(m.popovers))
		for _, p := range m.rowPopovers() {
			views = append(views, p.TriggerView())
		}
		gap := strings.Repeat(" ", triggerGap)
		lines[m.row] = gap + strings.Join(views, gap)
	}

	if corner := m.cornerPopover(); corner != nil && m.cornerRow() < m.height-1 {
		lines[m.cornerRow()] = lipgloss.PlaceHorizontal(m.width, lipgloss.Right,
			corner.TriggerView()+strings.Repeat(" ", triggerGap))
	}

	if m.lastSelection != "" && m.height >= 2 {
		lines[m.height-2] = m.styles.Hint.Render(" last: " + m.lastSelection)
	}

	lines[m.height-1] = m.renderStatusBar()
	return strings.Join(lines, "\n")
}

func (m Model) renderStatusBar() string {
	mode, info := m.status()
	hints := statusbar.Hints(mode, m.keys, m.hostKeys.Next, m.hostKeys.Quit)
	return statusbar.New(mode, info, m.width, hints, m.styles).Render()
}

// status describes the focused popover for the status bar
func (m Model) status() (statusbar.Mode, string) {
	p := m.focused()
	if p == nil {
		return statusbar.ModeIdle, ""
	}
	switch {
	case p.Trigger().Disabled():
		return statusbar.ModeDisabled, ""
	case !p.IsOpen():
		return statusbar.ModeIdle, ""
	}

	info := fmt.Sprintf("%s %s", p.Label(), p.Content().Result().Placement)

	switch {
	case p.Menu() == nil:
		return statusbar.ModeTooltip, info
	case p.Content().Focused():
		return statusbar.ModeMenu, info
	default:
		return statusbar.ModeOpen, info
	}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return min(max(v, lo), hi)
}
