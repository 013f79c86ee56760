// Package bus provides the per-overlay command stream shared by the trigger,
// the floating content, the menu navigator and the host application.
//
// Delivery is synchronous and strictly FIFO: a command sent from inside a
// handler is queued and delivered only after the current command has reached
// every subscriber. Nothing is dropped or reordered.
package bus

import "log/slog"

// Command is a stateless overlay command. It carries no payload.
type Command int

const (
	Open Command = iota + 1
	Close
	Reposition
	FocusFirstItem
	FocusNextItem
	FocusPreviousItem
	FocusTriggerButton
)

// String returns the string representation of the command
func (c Command) String() string {
	switch c {
	case Open:
		return "Open"
	case Close:
		return "Close"
	case Reposition:
		return "Reposition"
	case FocusFirstItem:
		return "FocusFirstItem"
	case FocusNextItem:
		return "FocusNextItem"
	case FocusPreviousItem:
		return "FocusPreviousItem"
	case FocusTriggerButton:
		return "FocusTriggerButton"
	default:
		return "Unknown"
	}
}

// Valid reports whether c is one of the known commands. Subscribers ignore
// anything else.
func (c Command) Valid() bool {
	return c >= Open && c <= FocusTriggerButton
}

// Handler observes commands. Each handler switches over the cases it cares
// about and ignores the rest.
type Handler func(Command)

type subscriber struct {
	id      int
	handler Handler
	removed bool
}

// Bus is a single ordered command stream for one overlay instance.
type Bus struct {
	subs       []*subscriber
	queue      []Command
	delivering bool
	nextID     int
	logger     *slog.Logger
}

// New creates an empty bus
func New(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{logger: logger}
}

// Subscribe registers h and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (b *Bus) Subscribe(h Handler) func() {
	b.nextID++
	sub := &subscriber{id: b.nextID, handler: h}
	b.subs = append(b.subs, sub)

	return func() {
		if sub.removed {
			return
		}
		sub.removed = true
		for i, s := range b.subs {
			if s == sub {
				b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
				return
			}
		}
	}
}

// Send delivers c to every subscriber. When called re-entrantly from a handler
// the command is queued behind the one being delivered.
func (b *Bus) Send(c Command) {
	b.queue = append(b.queue, c)
	if b.delivering {
		return
	}

	b.delivering = true
	defer func() { b.delivering = false }()

	for len(b.queue) > 0 {
		next := b.queue[0]
		b.queue = b.queue[1:]
		b.deliver(next)
	}
}

func (b *Bus) deliver(c Command) {
	b.logger.Debug("bus command", "command", c.String(), "subscribers", len(b.subs))

	// Snapshot so subscriptions added mid-delivery start with the next command.
	subs := make([]*subscriber, len(b.subs))
	copy(subs, b.subs)

	for _, s := range subs {
		if s.removed {
			continue
		}
		s.handler(c)
	}
}

// Len returns the number of live subscribers
func (b *Bus) Len() int {
	return len(b.subs)
}
