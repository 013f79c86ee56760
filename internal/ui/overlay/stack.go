package overlay

import (
	"log/slog"
)

// Layer manages the mounted overlays in opening order
type Layer struct {
	overlays []*Overlay
	width    int
	height   int
	logger   *slog.Logger
}

// NewLayer creates an empty layer
func NewLayer(logger *slog.Logger) *Layer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Layer{
		overlays: make([]*Overlay, 0),
		logger:   logger,
	}
}

// Create mounts a new overlay on top of the layer
func (l *Layer) Create(opts Options) *Overlay {
	o := &Overlay{opts: opts}
	l.overlays = append(l.overlays, o)
	l.logger.Debug("overlay mounted", "name", opts.Name, "depth", len(l.overlays))
	return o
}

// Close unmounts the overlay wherever it sits in the layer. Closing an
// overlay twice is harmless.
func (l *Layer) Close(o *Overlay) {
	if o == nil || o.closed {
		return
	}
	o.closed = true
	o.backdrop = nil
	for i, other := range l.overlays {
		if other == o {
			l.overlays = append(l.overlays[:i], l.overlays[i+1:]...)
			break
		}
	}
	l.logger.Debug("overlay unmounted", "name", o.opts.Name, "depth", len(l.overlays))
}

// Top returns the most recently created overlay without removing it
// Returns nil if the layer is empty
func (l *Layer) Top() *Overlay {
	if len(l.overlays) == 0 {
		return nil
	}
	return l.overlays[len(l.overlays)-1]
}

// IsEmpty returns true if the layer has no overlays
func (l *Layer) IsEmpty() bool {
	return len(l.overlays) == 0
}

// Len returns the number of mounted overlays
func (l *Layer) Len() int {
	return len(l.overlays)
}

// Clear unmounts every overlay
func (l *Layer) Clear() {
	for len(l.overlays) > 0 {
		l.Close(l.overlays[len(l.overlays)-1])
	}
}

// Resize records the screen size used by Compose
func (l *Layer) Resize(width, height int) {
	l.width = width
	l.height = height
}

// Size returns the screen size
func (l *Layer) Size() (width, height int) {
	return l.width, l.height
}

// Hit returns the topmost visible overlay containing (x, y), or nil
func (l *Layer) Hit(x, y int) *Overlay {
	for i := len(l.overlays) - 1; i >= 0; i-- {
		o := l.overlays[i]
		if o.Visible() && o.rect.Contains(x, y) {
			return o
		}
	}
	return nil
}

// Click reports a pointer press. A press outside the top overlay is a
// backdrop click for that overlay when it asked for one. Returns true when a
// backdrop click was delivered.
func (l *Layer) Click(x, y int) bool {
	top := l.Top()
	if top == nil || !top.opts.Backdrop || !top.Attached() {
		return false
	}
	if top.Visible() && top.rect.Contains(x, y) {
		return false
	}
	l.logger.Debug("backdrop click", "name", top.opts.Name, "x", x, "y", y)
	top.emitBackdrop()
	return true
}
