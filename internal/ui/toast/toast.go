// Package toast renders short-lived notifications for the demo host, such as
// menu selections and config reloads.
package toast

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/riordanpawley/floatui/internal/ui/styles"
)

// Level indicates the severity of a toast
type Level int

const (
	Info Level = iota
	Success
	Warning
	Error
)

// Toast represents a notification message
type Toast struct {
	Level   Level
	Message string
	Expires time.Time
}

// Queue holds the live toasts, oldest first
type Queue struct {
	toasts []Toast
	max    int
}

// NewQueue creates a queue keeping at most limit toasts
func NewQueue(limit int) *Queue {
	return &Queue{max: limit}
}

// Push adds a toast expiring ttl after now. The oldest toast is dropped when
// the queue is full.
func (q *Queue) Push(level Level, message string, ttl time.Duration, now time.Time) {
	q.toasts = append(q.toasts, Toast{Level: level, Message: message, Expires: now.Add(ttl)})
	if q.max > 0 && len(q.toasts) > q.max {
		q.toasts = q.toasts[len(q.toasts)-q.max:]
	}
}

// Expire removes toasts that expired at or before now
func (q *Queue) Expire(now time.Time) {
	filtered := q.toasts[:0]
	for _, t := range q.toasts {
		if t.Expires.After(now) {
			filtered = append(filtered, t)
		}
	}
	q.toasts = filtered
}

// Items returns the live toasts
func (q *Queue) Items() []Toast {
	return q.toasts
}

// Len returns the number of live toasts
func (q *Queue) Len() int {
	return len(q.toasts)
}

// Renderer handles rendering of toast notifications
type Renderer struct {
	styles *styles.Styles
}

// New creates a new Renderer with the given styles
func New(styles *styles.Styles) *Renderer {
	return &Renderer{
		styles: styles,
	}
}

// Render stacks toasts vertically, right-aligned. Returns empty string if
// there is nothing to display.
func (r *Renderer) Render(toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	toastWidth := min(width/3, 40)

	rendered := make([]string, 0, len(toasts))
	for _, t := range toasts {
		style := r.styleForLevel(t.Level)
		rendered = append(rendered, style.Width(toastWidth).Render(t.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// styleForLevel returns the appropriate style for a toast level
func (r *Renderer) styleForLevel(level Level) lipgloss.Style {
	switch level {
	case Success:
		return r.styles.ToastSuccess
	case Warning:
		return r.styles.ToastWarning
	case Error:
		return r.styles.ToastError
	default:
		return r.styles.ToastInfo
	}
}
