package ws

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Asadganteng/ruang-iklim-scada/entities"
)

// Hub is the change-notification channel for reading insertions. Every
// persisted reading is published once; subscribers are the in-process live
// feed and one goroutine per dashboard websocket connection.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]chan entities.Reading
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]chan entities.Reading)}
}

// Subscription is one registered listener. Receive from C; call Close when
// done. After Close returns, no further readings are delivered.
type Subscription struct {
	C <-chan entities.Reading

	id   string
	ch   chan entities.Reading
	hub  *Hub
	once sync.Once
}

// Subscribe registers a listener with the given channel buffer.
func (h *Hub) Subscribe(buffer int) *Subscription {
	ch := make(chan entities.Reading, buffer)
	sub := &Subscription{
		C:   ch,
		id:  uuid.New().String(),
		ch:  ch,
		hub: h,
	}
	h.mu.Lock()
	h.subs[sub.id] = ch
	h.mu.Unlock()
	return sub
}

// Close removes the subscription and closes its channel. It is synchronous:
// any Publish in flight completes before the channel closes, and later
// publishes do not see this subscriber.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		close(s.ch)
		s.hub.mu.Unlock()
	})
}

// Publish delivers the reading to every subscriber. Delivery is best effort:
// a subscriber whose buffer is full misses the reading rather than blocking
// the ingest path.
func (h *Hub) Publish(reading entities.Reading) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- reading:
		default:
		}
	}
}

// Count returns the number of active subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
