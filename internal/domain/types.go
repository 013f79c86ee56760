// Package domain contains the core geometry and placement types shared by the
// overlay controllers, the affixer and the overlay host.
package domain

import (
	"fmt"
	"strings"
)

// Placement is the side of the trigger the content is positioned against.
// PlacementNone is the "no placement fits" result.
type Placement int

const (
	PlacementNone Placement = iota
	PlacementAbove
	PlacementBelow
	PlacementLeft
	PlacementRight
	PlacementFullscreen
)

func (p Placement) String() string {
	switch p {
	case PlacementAbove:
		return "above"
	case PlacementBelow:
		return "below"
	case PlacementLeft:
		return "left"
	case PlacementRight:
		return "right"
	case PlacementFullscreen:
		return "fullscreen"
	default:
		return "none"
	}
}

// Directional reports whether the placement is one of the four sides.
func (p Placement) Directional() bool {
	return p >= PlacementAbove && p <= PlacementRight
}

// Vertical reports whether the content sits above or below the trigger.
func (p Placement) Vertical() bool {
	return p == PlacementAbove || p == PlacementBelow
}

// ParsePlacement converts a config value into a Placement. Unknown values are
// rejected rather than coerced.
func ParsePlacement(s string) (Placement, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "above", "top":
		return PlacementAbove, nil
	case "below", "bottom":
		return PlacementBelow, nil
	case "left":
		return PlacementLeft, nil
	case "right":
		return PlacementRight, nil
	case "fullscreen":
		return PlacementFullscreen, nil
	}
	return PlacementNone, &ConfigError{Field: "placement", Value: s, Err: ErrInvalidPlacement}
}

// Alignment is the secondary-axis offset of content relative to the trigger.
// For left/right placements Left reads as top and Right as bottom.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "unknown"
	}
}

// ParseAlignment converts a config value into an Alignment.
func ParseAlignment(s string) (Alignment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "start":
		return AlignLeft, nil
	case "center", "middle":
		return AlignCenter, nil
	case "right", "end":
		return AlignRight, nil
	}
	return AlignLeft, &ConfigError{Field: "alignment", Value: s, Err: ErrInvalidAlignment}
}

// TriggerMode selects which input opens the overlay.
type TriggerMode int

const (
	TriggerClick TriggerMode = iota
	TriggerHover
	TriggerManual
)

func (m TriggerMode) String() string {
	switch m {
	case TriggerClick:
		return "click"
	case TriggerHover:
		return "hover"
	case TriggerManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseTriggerMode converts a config value into a TriggerMode.
func ParseTriggerMode(s string) (TriggerMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "click":
		return TriggerClick, nil
	case "hover":
		return TriggerHover, nil
	case "manual":
		return TriggerManual, nil
	}
	return TriggerClick, &ConfigError{Field: "trigger.mode", Value: s, Err: ErrInvalidTriggerMode}
}

// Point is a cell coordinate.
type Point struct {
	X, Y int
}

// Size is a width/height pair in cells.
type Size struct {
	W, H int
}

// Rect is a cell rectangle. Right and Bottom are exclusive.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// CenterX is the horizontal center, rounded down.
func (r Rect) CenterX() int { return r.X + r.W/2 }

// CenterY is the vertical center, rounded down.
func (r Rect) CenterY() int { return r.Y + r.H/2 }

func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Within reports whether r lies entirely inside outer.
func (r Rect) Within(outer Rect) bool {
	return r.X >= outer.X && r.Y >= outer.Y && r.Right() <= outer.Right() && r.Bottom() <= outer.Bottom()
}

// Translate returns r moved by (dx, dy).
func (r Rect) Translate(dx, dy int) Rect {
	r.X += dx
	r.Y += dy
	return r
}

func (r Rect) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}
