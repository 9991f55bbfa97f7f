package platform

// Subscription is a registered event handler. Cancel is idempotent.
type Subscription interface {
	Cancel()
}

type subscription struct {
	cancel func()
}

func (s *subscription) Cancel() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// CancelAll cancels every subscription in subs.
func CancelAll(subs []Subscription) {
	for _, s := range subs {
		if s != nil {
			s.Cancel()
		}
	}
}

type handler[T any] struct {
	fn   func(T)
	live bool
}

// Signal is a synchronous observer list. Handlers run in subscription order
// on the goroutine that calls Emit. Not safe for concurrent use; hosts own
// their signals on the event-dispatch goroutine.
type Signal[T any] struct {
	handlers []*handler[T]
}

// Subscribe registers fn and returns a handle that removes it.
func (s *Signal[T]) Subscribe(fn func(T)) Subscription {
	h := &handler[T]{fn: fn, live: true}
	s.handlers = append(s.handlers, h)
	return &subscription{cancel: func() {
		h.live = false
		for i, cur := range s.handlers {
			if cur == h {
				s.handlers = append(s.handlers[:i], s.handlers[i+1:]...)
				break
			}
		}
	}}
}

// Emit delivers v to every handler that is subscribed when Emit starts and
// still subscribed when its turn comes.
func (s *Signal[T]) Emit(v T) {
	snapshot := append([]*handler[T](nil), s.handlers...)
	for _, h := range snapshot {
		if h.live {
			h.fn(v)
		}
	}
}

// Len returns the number of live handlers.
func (s *Signal[T]) Len() int {
	return len(s.handlers)
}
