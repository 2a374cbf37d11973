package notification

import (
	"sync"
	"time"
)

// EventDormsChanged tells clients to re-fetch dorm listings. It carries no payload.
const EventDormsChanged = "dorms_changed"

// Event is a broadcast signal. Only Type goes on the wire; At stays local for
// delivery bookkeeping.
type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"-"`
}

// Publisher announces listing changes. Publishing never blocks on subscribers.
type Publisher interface {
	PublishDormsChanged()
}

// Hub fans events out to in-process subscribers and listeners. Subscribers that
// are not keeping up miss events; they re-fetch on their next read anyway.
type Hub struct {
	mu        sync.RWMutex
	subs      map[chan Event]struct{}
	listeners []func(Event)
	buffer    int
	now       func() time.Time
}

// NewHub creates a hub whose subscriber channels hold up to buffer pending events.
func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[chan Event]struct{}),
		buffer: buffer,
		now:    time.Now,
	}
}

// Subscribe registers a new subscriber. Call the returned func to unsubscribe;
// it closes the channel.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)
	h.mu.Lock()
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			h.mu.Unlock()
			close(ch)
		})
	}
}

// OnPublish registers a listener called synchronously for every event.
// Listeners must not block.
func (h *Hub) OnPublish(fn func(Event)) {
	h.mu.Lock()
	h.listeners = append(h.listeners, fn)
	h.mu.Unlock()
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// PublishDormsChanged broadcasts EventDormsChanged.
func (h *Hub) PublishDormsChanged() {
	h.publish(Event{Type: EventDormsChanged, At: h.now().UTC()})
}

func (h *Hub) publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
		}
	}
	for _, fn := range h.listeners {
		fn(ev)
	}
}
