package player

import (
	"errors"
	"sync"
)

// Sink receives broadcast events. Send must not block; a non-nil error
// marks the subscriber as dead and it is removed from the registry.
type Sink interface {
	Send(Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Event) error

func (f SinkFunc) Send(e Event) error { return f(e) }

var (
	ErrSinkClosed = errors.New("sink closed")
	ErrSinkFull   = errors.New("sink buffer full")
)

// ChanSink delivers events on a buffered channel. A subscriber that lets
// the buffer fill up is considered gone: the channel is closed once the
// pending events are drained.
type ChanSink struct {
	mu     sync.Mutex
	ch     chan Event
	closed bool
}

// NewChanSink creates a sink with room for size pending events.
func NewChanSink(size int) *ChanSink {
	if size <= 0 {
		size = 1
	}
	return &ChanSink{ch: make(chan Event, size)}
}

// Events returns the channel events are delivered on. It is closed by Close.
func (s *ChanSink) Events() <-chan Event { return s.ch }

// Send implements Sink.
func (s *ChanSink) Send(e Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSinkClosed
	}
	select {
	case s.ch <- e:
		return nil
	default:
		s.closed = true
		close(s.ch)
		return ErrSinkFull
	}
}

// Close stops delivery and closes the events channel. Safe to call twice.
func (s *ChanSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}

var (
	_ Sink = SinkFunc(nil)
	_ Sink = (*ChanSink)(nil)
)
