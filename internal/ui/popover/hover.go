package popover

import (
	"github.com/riordanpawley/floatui/internal/core/tick"
	"github.com/riordanpawley/floatui/internal/ui/input"
)

// Hover tracks whether the pointer is over the trigger or the content.
//
// Moving from the trigger into the content produces a leave followed by an
// enter, so a leave never closes immediately. It schedules one check for the
// next tick, and the check calls onIdle only if neither surface is hovered
// by then. Leaves arriving while a check is pending share it.
type Hover struct {
	hovered [2]bool
	pending bool
	sched   *tick.Scheduler
	onIdle  func()
}

// NewHover creates hover tracking that calls onIdle when the pointer has
// left both surfaces
func NewHover(sched *tick.Scheduler, onIdle func()) *Hover {
	return &Hover{sched: sched, onIdle: onIdle}
}

// Enter records the pointer entering s
func (h *Hover) Enter(s input.Surface) {
	h.hovered[s] = true
}

// Leave records the pointer leaving s and schedules the idle check
func (h *Hover) Leave(s input.Surface) {
	h.hovered[s] = false
	if h.pending {
		return
	}
	h.pending = true
	h.sched.Defer(h.check)
}

// Hovered reports whether the pointer is over s
func (h *Hover) Hovered(s input.Surface) bool {
	return h.hovered[s]
}

// Any reports whether the pointer is over either surface
func (h *Hover) Any() bool {
	return h.hovered[input.SurfaceTrigger] || h.hovered[input.SurfaceContent]
}

// Pending reports whether an idle check is scheduled
func (h *Hover) Pending() bool {
	return h.pending
}

// Reset forgets both surfaces. A pending check still runs but finds nothing
// hovered.
func (h *Hover) Reset() {
	h.hovered = [2]bool{}
}

func (h *Hover) check() {
	h.pending = false
	if h.Any() || h.onIdle == nil {
		return
	}
	h.onIdle()
}
