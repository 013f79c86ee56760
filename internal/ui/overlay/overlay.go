// Package overlay is the top-level layer floating content is mounted into.
//
// The layer keeps overlays in opening order; the most recently created one
// is on top, is painted last and is the only one told about backdrop clicks.
// Compose paints the visible overlays over a background view using
// ANSI-aware cutting so styled background text survives around them.
package overlay

import (
	"github.com/riordanpawley/floatui/internal/domain"
)

// Content is anything the layer can paint
type Content interface {
	View() string
}

// Options configures a new overlay
type Options struct {
	// Name identifies the overlay in logs
	Name string
	// Backdrop makes clicks outside the overlay report a backdrop click
	Backdrop bool
}

// ArrowGlyph is a single decoration cell painted after the content
type ArrowGlyph struct {
	At    domain.Point
	Glyph string
}

// Overlay is one mounted floating surface
type Overlay struct {
	opts     Options
	content  Content
	rect     domain.Rect
	visible  bool
	arrow    *ArrowGlyph
	closed   bool
	backdrop []*backdropListener
}

type backdropListener struct {
	fn      func()
	removed bool
}

// Name returns the overlay name
func (o *Overlay) Name() string {
	return o.opts.Name
}

// Attach sets the content painted by the overlay
func (o *Overlay) Attach(c Content) {
	o.content = c
}

// Attached reports whether content has been attached and the overlay is
// still mounted
func (o *Overlay) Attached() bool {
	return o.content != nil && !o.closed
}

// Closed reports whether the overlay was removed from its layer
func (o *Overlay) Closed() bool {
	return o.closed
}

// SetRect positions the overlay
func (o *Overlay) SetRect(r domain.Rect) {
	o.rect = r
}

// Rect returns the overlay position
func (o *Overlay) Rect() domain.Rect {
	return o.rect
}

// SetVisible shows or hides the overlay without unmounting it
func (o *Overlay) SetVisible(v bool) {
	o.visible = v
}

// Visible reports whether the overlay is painted
func (o *Overlay) Visible() bool {
	return o.visible && o.Attached()
}

// SetArrow sets or clears (nil) the arrow decoration
func (o *Overlay) SetArrow(a *ArrowGlyph) {
	o.arrow = a
}

// Arrow returns the arrow decoration, nil when hidden
func (o *Overlay) Arrow() *ArrowGlyph {
	return o.arrow
}

// OnBackdropClick registers fn for clicks outside the overlay while it is
// on top. The returned function unsubscribes.
func (o *Overlay) OnBackdropClick(fn func()) func() {
	l := &backdropListener{fn: fn}
	o.backdrop = append(o.backdrop, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		for i, other := range o.backdrop {
			if other == l {
				o.backdrop = append(o.backdrop[:i:i], o.backdrop[i+1:]...)
				return
			}
		}
	}
}

func (o *Overlay) emitBackdrop() {
	snapshot := make([]*backdropListener, len(o.backdrop))
	copy(snapshot, o.backdrop)
	for _, l := range snapshot {
		if !l.removed {
			l.fn()
		}
	}
}
