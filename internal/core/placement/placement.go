// Package placement computes where floating content goes relative to its
// trigger.
//
// Fit walks the candidate placements (preferred first, then the fixed
// fallback order below, above, right, left) and returns the first one whose
// rectangle lies inside the auto-fit context. Resolver turns the outcome into
// a committed Result: fullscreen fallback, visibility and the arrow position.
package placement

import (
	"github.com/riordanpawley/floatui/internal/domain"
)

// DefaultArrowTolerance keeps the arrow this far inside the content edges.
const DefaultArrowTolerance = 20

// fallbackOrder is tried after the preferred placement.
var fallbackOrder = []domain.Placement{
	domain.PlacementBelow,
	domain.PlacementAbove,
	domain.PlacementRight,
	domain.PlacementLeft,
}

// Request is the caller's placement wish for one open. It is re-supplied on
// every reposition so resolution always starts from Preferred.
type Request struct {
	Preferred domain.Placement
	Alignment domain.Alignment
	AutoFit   bool
	Sticky    bool
}

// Candidates returns the placements to try, preferred first.
func Candidates(preferred domain.Placement) []domain.Placement {
	out := make([]domain.Placement, 0, len(fallbackOrder))
	if preferred.Directional() {
		out = append(out, preferred)
	}
	for _, p := range fallbackOrder {
		if p != preferred {
			out = append(out, p)
		}
	}
	return out
}

// Compute returns the content rectangle for placement p. gap is the space
// left between trigger and content for the arrow. ctx is only used by the
// fullscreen placement.
func Compute(p domain.Placement, a domain.Alignment, target domain.Rect, size domain.Size, gap int, ctx domain.Rect) domain.Rect {
	r := domain.Rect{W: size.W, H: size.H}

	switch p {
	case domain.PlacementAbove:
		r.Y = target.Y - gap - size.H
		r.X = alignAxis(a, target.X, target.W, size.W)
	case domain.PlacementBelow:
		r.Y = target.Bottom() + gap
		r.X = alignAxis(a, target.X, target.W, size.W)
	case domain.PlacementLeft:
		r.X = target.X - gap - size.W
		r.Y = alignAxis(a, target.Y, target.H, size.H)
	case domain.PlacementRight:
		r.X = target.Right() + gap
		r.Y = alignAxis(a, target.Y, target.H, size.H)
	case domain.PlacementFullscreen:
		return ctx
	}
	return r
}

func alignAxis(a domain.Alignment, start, length, size int) int {
	switch a {
	case domain.AlignCenter:
		return start + (length-size)/2
	case domain.AlignRight:
		return start + length - size
	default:
		return start
	}
}

// Stick clamps r into ctx along the secondary axis of p.
func Stick(r domain.Rect, p domain.Placement, ctx domain.Rect) domain.Rect {
	if p.Vertical() {
		r.X = clampStart(r.X, r.W, ctx.X, ctx.W)
	} else if p.Directional() {
		r.Y = clampStart(r.Y, r.H, ctx.Y, ctx.H)
	}
	return r
}

func clampStart(pos, size, lo, length int) int {
	hi := lo + length - size
	if pos > hi {
		pos = hi
	}
	if pos < lo {
		pos = lo
	}
	return pos
}

// Fit positions content of the given size against target. With AutoFit the
// candidates are tried in order and the first rectangle inside ctx wins; when
// none fits it returns PlacementNone with the last attempted rectangle.
// Without AutoFit the preferred placement is returned as-is.
func Fit(req Request, target domain.Rect, size domain.Size, gap int, ctx domain.Rect) (domain.Placement, domain.Rect) {
	if req.Preferred == domain.PlacementFullscreen {
		return domain.PlacementFullscreen, ctx
	}

	attempt := func(p domain.Placement) domain.Rect {
		r := Compute(p, req.Alignment, target, size, gap, ctx)
		if req.Sticky {
			r = Stick(r, p, ctx)
		}
		return r
	}

	if !req.AutoFit {
		preferred := req.Preferred
		if !preferred.Directional() {
			preferred = fallbackOrder[0]
		}
		return preferred, attempt(preferred)
	}

	var last domain.Rect
	for _, p := range Candidates(req.Preferred) {
		last = attempt(p)
		if last.Within(ctx) {
			return p, last
		}
	}
	return domain.PlacementNone, last
}
