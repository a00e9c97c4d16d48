// Package stream drives browser renderers over server-sent events.
//
// A [Hub] fans events out to every connected browser. The renderer built by
// [Factory] publishes a "graph" event carrying the vis-network payload on
// every data or option change, a "stabilize" event for Reorganize, and a
// "destroy" event on teardown. The browser page in package visjs applies
// them to its vis.Network, which makes the browser the renderer behind a
// render.Session.
package stream

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Event names.
const (
	EventGraph     = "graph"
	EventStabilize = "stabilize"
	EventDestroy   = "destroy"
)

// BufferSize is the per-subscriber queue length. Events to a full queue
// are dropped for that subscriber.
const BufferSize = 64

// Event is one server-sent event.
type Event struct {
	Name string
	Data []byte
}

// Hub broadcasts events to subscribers. The most recent graph event is
// retained and replayed to new subscribers so a fresh page starts with the
// current dataset.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscription
	current     *Event
	closed      bool
	done        chan struct{}
}

// Subscription is one connected client.
type Subscription struct {
	ID string

	hub       *Hub
	ch        chan Event
	closeOnce sync.Once
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]*Subscription), done: make(chan struct{})}
}

// Subscribe registers a client until ctx is done. It returns nil after
// Shutdown.
func (h *Hub) Subscribe(ctx context.Context) *Subscription {
	sub := &Subscription{
		ID:  uuid.NewString(),
		hub: h,
		ch:  make(chan Event, BufferSize),
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	if h.current != nil {
		sub.ch <- *h.current
	}
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			sub.Unsubscribe()
		case <-h.done:
		}
	}()
	return sub
}

// Publish sends e to every subscriber without blocking.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	switch e.Name {
	case EventGraph:
		retained := e
		h.current = &retained
	case EventDestroy:
		h.current = nil
	}
	for _, sub := range h.subscribers {
		select {
		case sub.ch <- e:
		default:
		}
	}
}

// Subscribers returns the number of connected clients.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Current returns the retained graph event.
func (h *Hub) Current() (Event, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.current == nil {
		return Event{}, false
	}
	return *h.current, true
}

// Shutdown closes every subscription. Later publishes are ignored.
func (h *Hub) Shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.done)
	for id, sub := range h.subscribers {
		sub.close()
		delete(h.subscribers, id)
	}
}

// Events returns the subscription's channel. It is closed on Unsubscribe.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Unsubscribe removes the subscription from its hub.
func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	delete(s.hub.subscribers, s.ID)
	s.close()
}

// close must be called with the hub lock held.
func (s *Subscription) close() {
	s.closeOnce.Do(func() { close(s.ch) })
}
