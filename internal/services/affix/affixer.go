// Package affix positions floating content against a target rectangle in
// terminal cells and keeps it positioned as the viewport changes.
//
// A Handle is the live binding between one piece of content and its target.
// It reports three signals: the auto-fit placement changed, the content's
// offset changed, and the auto-fit context scrolled underneath it.
package affix

import (
	"log/slog"

	"github.com/riordanpawley/floatui/internal/core/placement"
	"github.com/riordanpawley/floatui/internal/domain"
)

// Config is the positioning request for one handle.
type Config struct {
	Placement domain.Placement
	Alignment domain.Alignment
	AutoFit   bool
	Sticky    bool
	// AutoFitContext bounds the fit test. Empty means the affixer viewport.
	AutoFitContext domain.Rect
	// Gap is the number of cells left between target and content.
	Gap int
}

// Request converts the config into a placement request.
func (c Config) Request() placement.Request {
	return placement.Request{
		Preferred: c.Placement,
		Alignment: c.Alignment,
		AutoFit:   c.AutoFit,
		Sticky:    c.Sticky,
	}
}

// Affixer binds content to a target.
type Affixer interface {
	AffixTo(target domain.Rect, content domain.Size, cfg Config) Handle
}

// Handle is a live positioning binding. All methods are no-ops after Destroy.
type Handle interface {
	// OnPlacementChange fires with the new placement, PlacementNone when
	// nothing fits.
	OnPlacementChange(fn func(domain.Placement)) (unsubscribe func())
	// OnOffsetChange fires when the content's top-left cell moves.
	OnOffsetChange(fn func(domain.Point)) (unsubscribe func())
	// OnOverflowScroll fires when the auto-fit context scrolls.
	OnOverflowScroll(fn func()) (unsubscribe func())

	Placement() domain.Placement
	Rect() domain.Rect
	Target() domain.Rect
	Viewport() domain.Rect

	// SetTarget moves the target and reaffixes.
	SetTarget(target domain.Rect)
	// Resize records new content dimensions and reaffixes.
	Resize(size domain.Size)
	// Update replaces target, size and request in one step and reaffixes
	// once, starting again from the preferred placement.
	Update(target domain.Rect, size domain.Size, cfg Config)
	Reaffix()
	Destroy()
}

// CellAffixer is the terminal Affixer. It owns the viewport and every live
// handle so window resizes and scrolling reach all of them.
type CellAffixer struct {
	viewport domain.Rect
	handles  []*cellHandle
	logger   *slog.Logger
}

// NewCellAffixer creates an affixer for a viewport of the given size
func NewCellAffixer(width, height int, logger *slog.Logger) *CellAffixer {
	if logger == nil {
		logger = slog.Default()
	}
	return &CellAffixer{
		viewport: domain.Rect{W: width, H: height},
		logger:   logger,
	}
}

// AffixTo creates a handle and computes its initial position. The initial
// position is read through Placement and Rect; signals only report later
// changes.
func (a *CellAffixer) AffixTo(target domain.Rect, content domain.Size, cfg Config) Handle {
	h := &cellHandle{
		owner:  a,
		target: target,
		size:   content,
		cfg:    cfg,
	}
	h.placement, h.rect = h.fit()
	a.handles = append(a.handles, h)

	a.logger.Debug("affixed",
		"target", target.String(),
		"requested", cfg.Placement.String(),
		"placement", h.placement.String(),
		"rect", h.rect.String(),
	)
	return h
}

// Viewport returns the current viewport
func (a *CellAffixer) Viewport() domain.Rect {
	return a.viewport
}

// SetViewport updates the viewport and reaffixes every live handle.
func (a *CellAffixer) SetViewport(width, height int) {
	next := domain.Rect{X: a.viewport.X, Y: a.viewport.Y, W: width, H: height}
	if next == a.viewport {
		return
	}
	a.viewport = next
	for _, h := range a.live() {
		h.Reaffix()
	}
}

// ScrollBy moves every target by (dx, dy), as when the container holding
// the triggers scrolls, then reports the scroll and reaffixes.
func (a *CellAffixer) ScrollBy(dx, dy int) {
	if dx == 0 && dy == 0 {
		return
	}
	for _, h := range a.live() {
		h.target = h.target.Translate(dx, dy)
		h.overflow.emit(struct{}{})
		h.Reaffix()
	}
}

// Live returns the number of handles not yet destroyed
func (a *CellAffixer) Live() int {
	return len(a.handles)
}

func (a *CellAffixer) live() []*cellHandle {
	out := make([]*cellHandle, len(a.handles))
	copy(out, a.handles)
	return out
}

func (a *CellAffixer) remove(h *cellHandle) {
	for i, other := range a.handles {
		if other == h {
			a.handles = append(a.handles[:i], a.handles[i+1:]...)
			return
		}
	}
}

type cellHandle struct {
	owner     *CellAffixer
	target    domain.Rect
	size      domain.Size
	cfg       Config
	placement domain.Placement
	rect      domain.Rect
	destroyed bool

	placementChanged signal[domain.Placement]
	offsetChanged    signal[domain.Point]
	overflow         signal[struct{}]
}

func (h *cellHandle) context() domain.Rect {
	if h.cfg.AutoFitContext.Empty() {
		return h.owner.viewport
	}
	return h.cfg.AutoFitContext
}

func (h *cellHandle) fit() (domain.Placement, domain.Rect) {
	return placement.Fit(h.cfg.Request(), h.target, h.size, h.cfg.Gap, h.context())
}

func (h *cellHandle) OnPlacementChange(fn func(domain.Placement)) func() {
	if h.destroyed {
		return func() {}
	}
	return h.placementChanged.subscribe(fn)
}

func (h *cellHandle) OnOffsetChange(fn func(domain.Point)) func() {
	if h.destroyed {
		return func() {}
	}
	return h.offsetChanged.subscribe(fn)
}

func (h *cellHandle) OnOverflowScroll(fn func()) func() {
	if h.destroyed {
		return func() {}
	}
	return h.overflow.subscribe(func(struct{}) { fn() })
}

func (h *cellHandle) Placement() domain.Placement { return h.placement }
func (h *cellHandle) Rect() domain.Rect           { return h.rect }
func (h *cellHandle) Target() domain.Rect         { return h.target }
func (h *cellHandle) Viewport() domain.Rect       { return h.owner.viewport }

func (h *cellHandle) SetTarget(target domain.Rect) {
	if h.destroyed {
		return
	}
	h.target = target
	h.Reaffix()
}

func (h *cellHandle) Resize(size domain.Size) {
	if h.destroyed {
		return
	}
	h.size = size
	h.Reaffix()
}

func (h *cellHandle) Update(target domain.Rect, size domain.Size, cfg Config) {
	if h.destroyed {
		return
	}
	h.target = target
	h.size = size
	h.cfg = cfg
	h.Reaffix()
}

// Reaffix recomputes the position from the preferred placement. Both fields
// are updated before any listener runs so listeners see a consistent handle.
func (h *cellHandle) Reaffix() {
	if h.destroyed {
		return
	}

	p, r := h.fit()
	placementChanged := p != h.placement
	offsetChanged := r.X != h.rect.X || r.Y != h.rect.Y
	h.placement, h.rect = p, r

	if placementChanged {
		h.owner.logger.Debug("placement changed", "placement", p.String())
		h.placementChanged.emit(p)
	}
	if offsetChanged && !h.destroyed {
		h.offsetChanged.emit(domain.Point{X: r.X, Y: r.Y})
	}
}

func (h *cellHandle) Destroy() {
	if h.destroyed {
		return
	}
	h.destroyed = true
	h.placementChanged.clear()
	h.offsetChanged.clear()
	h.overflow.clear()
	h.owner.remove(h)
}
