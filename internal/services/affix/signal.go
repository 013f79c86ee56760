package affix

// signal is a small listener list. Emission works on a snapshot so a
// listener may unsubscribe itself or others while being notified.
type signal[T any] struct {
	listeners []*listener[T]
}

type listener[T any] struct {
	fn      func(T)
	removed bool
}

func (s *signal[T]) subscribe(fn func(T)) func() {
	l := &listener[T]{fn: fn}
	s.listeners = append(s.listeners, l)
	return func() {
		if l.removed {
			return
		}
		l.removed = true
		for i, other := range s.listeners {
			if other == l {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *signal[T]) emit(v T) {
	snapshot := make([]*listener[T], len(s.listeners))
	copy(snapshot, s.listeners)
	for _, l := range snapshot {
		if !l.removed {
			l.fn(v)
		}
	}
}

func (s *signal[T]) len() int {
	return len(s.listeners)
}

func (s *signal[T]) clear() {
	for _, l := range s.listeners {
		l.removed = true
	}
	s.listeners = nil
}
