// Package tick provides the "after next render" scheduling primitive.
//
// Work deferred with Scheduler.Defer runs on the next Flush. Inside a
// bubbletea program Flush happens when the FlushMsg produced by Cmd comes back
// through Update, which is after the runtime has rendered the current View.
// That is the one point where freshly mounted content can be measured.
package tick

import (
	tea "github.com/charmbracelet/bubbletea"
)

// FlushMsg asks the owner of a Scheduler to run its deferred callbacks
type FlushMsg struct {
	scheduler *Scheduler
}

// For reports whether the message was produced by s.
func (m FlushMsg) For(s *Scheduler) bool {
	return m.scheduler == s
}

// Scheduler is a FIFO queue of deferred callbacks. It is not safe for
// concurrent use; everything runs on the bubbletea Update goroutine.
type Scheduler struct {
	queue     []func()
	requested bool
}

// NewScheduler creates an empty scheduler
func NewScheduler() *Scheduler {
	return &Scheduler{}
}

// Defer queues fn to run on the next flush.
func (s *Scheduler) Defer(fn func()) {
	if fn == nil {
		return
	}
	s.queue = append(s.queue, fn)
}

// Pending returns the number of queued callbacks
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Flush runs every callback queued before the call. Callbacks deferred while
// flushing wait for the following flush.
func (s *Scheduler) Flush() {
	s.requested = false
	batch := s.queue
	s.queue = nil
	for _, fn := range batch {
		fn()
	}
}

// Cmd returns a command that delivers a FlushMsg, or nil when nothing is
// queued or a flush is already on its way.
func (s *Scheduler) Cmd() tea.Cmd {
	if len(s.queue) == 0 || s.requested {
		return nil
	}
	s.requested = true
	return func() tea.Msg {
		return FlushMsg{scheduler: s}
	}
}
