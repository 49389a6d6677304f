package identity

import (
	"sync"

	"github.com/homenest/homenest-bff-go/internal/port"
)

// streamBuffer bounds each subscriber channel; sign-in bursts beyond this
// block the publisher rather than drop events.
const streamBuffer = 64

// Stream is the auth-state change stream. Handlers publish sign-in and
// sign-out events; the session manager subscribes. Implements
// port.IdentityEvents.
type Stream struct {
	mu     sync.Mutex
	subs   map[int]chan port.IdentityEvent
	nextID int
	closed bool
}

// NewStream creates an empty stream.
func NewStream() *Stream {
	return &Stream{subs: make(map[int]chan port.IdentityEvent)}
}

// Subscribe registers a subscriber. The returned func unsubscribes and
// closes the channel; call it on teardown.
func (s *Stream) Subscribe() (<-chan port.IdentityEvent, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	ch := make(chan port.IdentityEvent, streamBuffer)
	s.subs[id] = ch

	unsubscribe := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[id]; ok {
			delete(s.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

// Publish delivers an event to all current subscribers. The lock is held
// across delivery so an unsubscribe or Close cannot close a channel
// mid-send; the per-subscriber buffer absorbs bursts.
func (s *Stream) Publish(ev port.IdentityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for _, ch := range s.subs {
		ch <- ev
	}
}

// Close tears the stream down and closes all subscriber channels.
func (s *Stream) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
}
