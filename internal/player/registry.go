package player

import (
	"sync"

	"github.com/google/uuid"
)

// SubscriberID identifies a subscription. It is unique for the lifetime of
// the process.
type SubscriberID string

type subscriber struct {
	id   SubscriberID
	sink Sink
}

// Registry maps subscriber ids to sinks. It is shared between the
// broadcaster, which reads it for every event, and callers subscribing or
// unsubscribing.
type Registry struct {
	mu    sync.Mutex
	sinks map[SubscriberID]Sink
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{sinks: make(map[SubscriberID]Sink)}
}

// Subscribe registers sink and returns its new id.
func (r *Registry) Subscribe(sink Sink) SubscriberID {
	id := SubscriberID(uuid.NewString())
	r.mu.Lock()
	r.sinks[id] = sink
	r.mu.Unlock()
	return id
}

// Unsubscribe removes the subscription. It returns false if id was unknown
// or already removed.
func (r *Registry) Unsubscribe(id SubscriberID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[id]; !ok {
		return false
	}
	delete(r.sinks, id)
	return true
}

// Len returns the number of live subscriptions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sinks)
}

// snapshot copies the current subscriptions so delivery can happen
// without holding the lock.
func (r *Registry) snapshot() []subscriber {
	r.mu.Lock()
	defer r.mu.Unlock()
	subs := make([]subscriber, 0, len(r.sinks))
	for id, sink := range r.sinks {
		subs = append(subs, subscriber{id: id, sink: sink})
	}
	return subs
}
