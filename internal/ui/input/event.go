// Package input wraps bubbletea key and mouse messages in events that a
// handler can mark as consumed.
//
// Floating content is painted in a separate layer, so the same key can reach
// the content, the trigger and the host application. A handler that consumes
// a key calls PreventDefault (the host must not run its own action for it)
// and StopPropagation (no further handler sees it).
package input

import (
	tea "github.com/charmbracelet/bubbletea"
)

// KeyEvent is a key press travelling from the innermost handler outwards
type KeyEvent struct {
	Msg tea.KeyMsg

	defaultPrevented   bool
	propagationStopped bool
}

// NewKeyEvent wraps msg
func NewKeyEvent(msg tea.KeyMsg) *KeyEvent {
	return &KeyEvent{Msg: msg}
}

// String returns the key name, e.g. "enter" or "shift+tab"
func (e *KeyEvent) String() string {
	return e.Msg.String()
}

// PreventDefault suppresses the host's default action for the key
func (e *KeyEvent) PreventDefault() {
	e.defaultPrevented = true
}

// StopPropagation stops the key from reaching further handlers
func (e *KeyEvent) StopPropagation() {
	e.propagationStopped = true
}

// Consume is PreventDefault plus StopPropagation
func (e *KeyEvent) Consume() {
	e.PreventDefault()
	e.StopPropagation()
}

// DefaultPrevented reports whether PreventDefault was called
func (e *KeyEvent) DefaultPrevented() bool {
	return e.defaultPrevented
}

// PropagationStopped reports whether StopPropagation was called
func (e *KeyEvent) PropagationStopped() bool {
	return e.propagationStopped
}

// Surface identifies one of the two hoverable surfaces of an overlay
type Surface int

const (
	SurfaceTrigger Surface = iota
	SurfaceContent
)

func (s Surface) String() string {
	switch s {
	case SurfaceTrigger:
		return "trigger"
	case SurfaceContent:
		return "content"
	default:
		return "unknown"
	}
}
