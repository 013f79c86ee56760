package placement

import (
	"github.com/riordanpawley/floatui/internal/domain"
)

// Arrow is the pointer drawn between trigger and content.
type Arrow struct {
	Top     int
	Left    int
	Visible bool
}

// Result is a committed placement.
type Result struct {
	Placement domain.Placement
	Top       int
	Left      int
	Width     int
	Height    int
	Arrow     Arrow
	// Visible is false when nothing fits and fullscreen is not allowed; the
	// coordinates are then the last attempted ones.
	Visible bool
}

// Rect returns the content rectangle of the result.
func (r Result) Rect() domain.Rect {
	return domain.Rect{X: r.Left, Y: r.Top, W: r.Width, H: r.Height}
}

// Input is what the resolver needs from one affixing pass.
type Input struct {
	// Placement reported by the affixer; PlacementNone when nothing fits.
	Placement domain.Placement
	Content   domain.Rect
	Trigger   domain.Rect
	Viewport  domain.Rect
}

// Resolver applies the fallback policy and computes the arrow.
type Resolver struct {
	AllowFullscreen bool
	Tolerance       int
	ArrowSize       domain.Size
}

// NewResolver returns a resolver with the default arrow tolerance and a 1x1
// arrow.
func NewResolver(allowFullscreen bool) Resolver {
	return Resolver{
		AllowFullscreen: allowFullscreen,
		Tolerance:       DefaultArrowTolerance,
		ArrowSize:       domain.Size{W: 1, H: 1},
	}
}

// Resolve commits an affixing outcome.
//
// Content as large as the viewport in either dimension always goes
// fullscreen, whatever was resolved. A PlacementNone outcome goes fullscreen
// when allowed and is hidden otherwise.
func (r Resolver) Resolve(in Input) Result {
	res := Result{
		Placement: in.Placement,
		Top:       in.Content.Y,
		Left:      in.Content.X,
		Width:     in.Content.W,
		Height:    in.Content.H,
	}

	if !in.Viewport.Empty() && (in.Content.W >= in.Viewport.W || in.Content.H >= in.Viewport.H) {
		return fullscreen(in.Viewport)
	}

	switch in.Placement {
	case domain.PlacementFullscreen:
		return fullscreen(in.Viewport)
	case domain.PlacementNone:
		if r.AllowFullscreen {
			return fullscreen(in.Viewport)
		}
		res.Visible = false
		return res
	}

	res.Visible = true
	res.Arrow = r.ArrowFor(in.Placement, in.Trigger, in.Content)
	return res
}

// ArrowFor computes the arrow for a directional placement. The arrow follows
// the trigger center but never leaves the content edges by less than the
// tolerance.
func (r Resolver) ArrowFor(p domain.Placement, trigger, content domain.Rect) Arrow {
	switch p {
	case domain.PlacementAbove:
		return Arrow{
			Left:    clampInto(trigger.CenterX(), content.Left(), content.Right(), r.Tolerance),
			Top:     trigger.Top() - r.ArrowSize.H,
			Visible: true,
		}
	case domain.PlacementBelow:
		return Arrow{
			Left:    clampInto(trigger.CenterX(), content.Left(), content.Right(), r.Tolerance),
			Top:     trigger.Bottom(),
			Visible: true,
		}
	case domain.PlacementLeft:
		return Arrow{
			Top:     clampInto(trigger.CenterY(), content.Top(), content.Bottom(), r.Tolerance),
			Left:    trigger.Left() - r.ArrowSize.W,
			Visible: true,
		}
	case domain.PlacementRight:
		return Arrow{
			Top:     clampInto(trigger.CenterY(), content.Top(), content.Bottom(), r.Tolerance),
			Left:    trigger.Right(),
			Visible: true,
		}
	}
	return Arrow{}
}

// clampInto clamps v into [start+tol, end-tol]. An empty interval collapses
// to the midpoint of start..end.
func clampInto(v, start, end, tol int) int {
	lo, hi := start+tol, end-tol
	if lo > hi {
		return start + (end-start)/2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func fullscreen(viewport domain.Rect) Result {
	return Result{
		Placement: domain.PlacementFullscreen,
		Top:       viewport.Y,
		Left:      viewport.X,
		Width:     viewport.W,
		Height:    viewport.H,
		Visible:   true,
	}
}
