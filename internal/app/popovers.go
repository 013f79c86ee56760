package app

import (
	"github.com/riordanpawley/floatui/internal/config"
	"github.com/riordanpawley/floatui/internal/domain"
	"github.com/riordanpawley/floatui/internal/ui/menu"
	"github.com/riordanpawley/floatui/internal/ui/popover"
)

// Popover ids used by the demo
const (
	idFile    = "file"
	idEdit    = "edit"
	idHelp    = "help"
	idLocked  = "locked"
	idPin     = "pin"
	idActions = "actions"
)

// triggerGap is the number of blank cells between triggers in a row
const triggerGap = 2

// buildPopovers creates the demo triggers from cfg. The last one sits in
// the bottom-right corner; the rest share the movable top row.
func (m *Model) buildPopovers(cfg *config.Config) {
	base := popover.Options{
		Mode:            cfg.TriggerMode(),
		Request:         cfg.Request(),
		Gap:             cfg.Placement.Gap,
		AllowFullscreen: cfg.Placement.AllowFullscreen,
		ArrowTolerance:  cfg.Placement.ArrowTolerance,
		CloseOnBackdrop: cfg.Trigger.CloseOnBackdrop,
		Keys:            cfg.KeyMap(),
		Styles:          m.styles,
		Logger:          m.logger,
	}

	with := func(id, label string, edit func(*popover.Options)) *popover.Popover {
		opts := base
		opts.ID = id
		opts.Label = label
		if edit != nil {
			edit(&opts)
		}
		return popover.New(m.layer, m.affixer, opts)
	}

	m.popovers = []*popover.Popover{
		with(idFile, "File", func(o *popover.Options) {
			o.Items = []menu.Item{
				{ID: "new", Label: "New", Key: "n"},
				{ID: "open", Label: "Open…", Key: "o"},
				{ID: "save", Label: "Save", Key: "s"},
				{Separator: true},
				{ID: "close", Label: "Close", Key: "c"},
			}
		}),
		with(idEdit, "Edit", func(o *popover.Options) {
			o.Items = []menu.Item{
				{ID: "undo", Label: "Undo", Key: "u", Disabled: true},
				{ID: "cut", Label: "Cut", Key: "x"},
				{ID: "copy", Label: "Copy", Key: "y"},
				{ID: "paste", Label: "Paste", Key: "p"},
			}
		}),
		with(idHelp, "Help", func(o *popover.Options) {
			o.Mode = domain.TriggerHover
			o.Text = "Point at a trigger to peek"
		}),
		with(idLocked, "Locked", func(o *popover.Options) {
			o.Disabled = true
			o.Text = "You should never see this"
		}),
		with(idPin, "Note", func(o *popover.Options) {
			o.Mode = domain.TriggerManual
			o.Text = "Pinned with p"
			o.CloseOnBackdrop = false
		}),
		with(idActions, "Actions", func(o *popover.Options) {
			// Hug the right edge so the menu stays on screen
			o.Request.Alignment = domain.AlignRight
			o.Items = []menu.Item{
				{ID: "refresh", Label: "Refresh", Key: "r"},
				{ID: "share", Label: "Share", Key: "s"},
				{ID: "delete", Label: "Delete", Key: "d", Disabled: true},
			}
		}),
	}
}

// destroyPopovers tears every popover down, closing any open content
func (m *Model) destroyPopovers() {
	for _, p := range m.popovers {
		p.Destroy()
	}
	m.popovers = nil
}

// popoverByID returns the popover with id, or nil
func (m Model) popoverByID(id string) *popover.Popover {
	for _, p := range m.popovers {
		if p.ID() == id {
			return p
		}
	}
	return nil
}

// rowPopovers returns the popovers laid out in the top row
func (m Model) rowPopovers() []*popover.Popover {
	if len(m.popovers) == 0 {
		return nil
	}
	return m.popovers[:len(m.popovers)-1]
}

// cornerPopover returns the popover pinned to the bottom-right corner
func (m Model) cornerPopover() *popover.Popover {
	if len(m.popovers) == 0 {
		return nil
	}
	return m.popovers[len(m.popovers)-1]
}

// maxRow is the lowest row the trigger row may scroll to, leaving room for
// the corner trigger and the status bar
func (m Model) maxRow() int {
	return max(minRow, m.height-4)
}

// cornerRow is the row of the corner trigger
func (m Model) cornerRow() int {
	return max(minRow, m.height-3)
}

// layout tells every popover where its trigger was drawn
func (m Model) layout() {
	x := triggerGap
	for _, p := range m.rowPopovers() {
		w, h := p.TriggerSize()
		p.SetRect(domain.Rect{X: x, Y: m.row, W: w, H: h})
		x += w + triggerGap
	}
	if p := m.cornerPopover(); p != nil {
		w, h := p.TriggerSize()
		p.SetRect(domain.Rect{X: max(0, m.width-w-triggerGap), Y: m.cornerRow(), W: w, H: h})
	}
}
