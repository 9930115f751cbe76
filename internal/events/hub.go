package events

import (
	"log"
	"sync"
	"time"

	"github.com/linskybing/nephra/internal/domain/review"
	"github.com/linskybing/nephra/internal/metrics"
)

// Event announces a change to one application.
type Event struct {
	Type    string        `json:"type"`
	Origin  review.Origin `json:"origin"`
	ID      string        `json:"id"`
	Status  review.Status `json:"status,omitempty"`
	Percent int           `json:"percent,omitempty"`
	Actor   string        `json:"actor,omitempty"`
	At      time.Time     `json:"at"`
}

const (
	EventApproved = "approved"
	EventRejected = "rejected"
	EventProgress = "progress"
	EventDeleted  = "deleted"
	EventCreated  = "created"
)

// Publisher is what mutating services need from the hub.
type Publisher interface {
	Publish(ev Event)
}

// Hub fans events out to subscribers. Slow subscribers miss events rather
// than block publishers.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan Event]struct{}
	closed bool
}

func NewHub() *Hub {
	return &Hub{subs: make(map[chan Event]struct{})}
}

func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			log.Printf("[events] subscriber buffer full, dropping %s event for %s", ev.Type, ev.ID)
		}
	}
}

// Subscribe registers a new listener. The returned cancel func unregisters it
// and closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe(buffer int) (<-chan Event, func()) {
	ch := make(chan Event, buffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()
	metrics.EventSubscribers.Inc()

	var once sync.Once
	return ch, func() {
		once.Do(func() { h.remove(ch) })
	}
}

func (h *Hub) remove(ch chan Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subs[ch]; !ok {
		return
	}
	delete(h.subs, ch)
	close(ch)
	metrics.EventSubscribers.Dec()
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
		metrics.EventSubscribers.Dec()
	}
}

// Len reports the number of live subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
