// Package notify fans out page-change events to WebSocket subscribers.
// Each book key is a group; a connection may belong to many groups and
// receives one "updated" event per successful page replacement in each.
package notify

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/JaimeStill/bookshelf/pkg/lifecycle"
)

// ErrClosed is returned when connecting to a hub that has shut down.
var ErrClosed = errors.New("notify: hub closed")

// Subscriber is one connection's membership in the hub.
type Subscriber struct {
	ID   uuid.UUID
	send chan []byte

	// guarded by Hub.mu
	keys   map[string]struct{}
	closed bool
}

// Messages returns the encoded events queued for the subscriber.
// The channel is closed on Disconnect or hub shutdown.
func (s *Subscriber) Messages() <-chan []byte {
	return s.send
}

// Hub owns the subscriber membership map.
type Hub struct {
	mu          sync.RWMutex
	groups      map[string]map[*Subscriber]struct{}
	subscribers map[*Subscriber]struct{}
	closed      bool
	buffer      int
	logger      *slog.Logger
}

// NewHub creates a hub whose subscribers queue up to buffer events each.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer < 1 {
		buffer = 1
	}
	return &Hub{
		groups:      make(map[string]map[*Subscriber]struct{}),
		subscribers: make(map[*Subscriber]struct{}),
		buffer:      buffer,
		logger:      logger.With("system", "notify"),
	}
}

// Start registers hub shutdown with the lifecycle coordinator. On shutdown
// every subscriber channel is closed so connections drain and exit.
func (h *Hub) Start(lc *lifecycle.Coordinator) error {
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		h.Close()
	})
	return nil
}

// Connect registers a new subscriber without group memberships.
func (h *Hub) Connect() (*Subscriber, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	s := &Subscriber{
		ID:   uuid.New(),
		send: make(chan []byte, h.buffer),
		keys: make(map[string]struct{}),
	}
	h.subscribers[s] = struct{}{}

	h.logger.Debug("subscriber connected", "subscriber", s.ID, "connections", len(h.subscribers))
	return s, nil
}

// Subscribe adds s to the group for key and queues a connected event.
func (h *Hub) Subscribe(s *Subscriber, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if s.closed {
		return
	}

	group, ok := h.groups[key]
	if !ok {
		group = make(map[*Subscriber]struct{})
		h.groups[key] = group
	}
	group[s] = struct{}{}
	s.keys[key] = struct{}{}

	if frame, err := newEvent(EventConnected, key).encode(); err == nil {
		h.deliver(s, key, frame)
	}
}

// Unsubscribe removes s from the group for key.
func (h *Hub) Unsubscribe(s *Subscriber, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leave(s, key)
}

// Disconnect removes every membership of s and closes its channel. Idempotent.
func (h *Hub) Disconnect(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.disconnect(s)
}

// Notify delivers an updated event to every subscriber of key. Delivery is
// best-effort: a subscriber whose queue is full misses the event.
func (h *Hub) Notify(key string) {
	frame, err := newEvent(EventUpdated, key).encode()
	if err != nil {
		h.logger.Error("encode event failed", "key", key, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for s := range h.groups[key] {
		if h.deliver(s, key, frame) {
			delivered++
		}
	}

	h.logger.Debug("notification sent", "key", key, "delivered", delivered)
}

// Subscribers reports the number of connections subscribed to key.
func (h *Hub) Subscribers(key string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groups[key])
}

// Close disconnects every subscriber and rejects further connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for s := range h.subscribers {
		h.disconnect(s)
	}
	h.logger.Info("notification hub closed")
}

// deliver requires h.mu held (read or write).
func (h *Hub) deliver(s *Subscriber, key string, frame []byte) bool {
	select {
	case s.send <- frame:
		return true
	default:
		h.logger.Warn("subscriber queue full, dropping event", "subscriber", s.ID, "key", key)
		return false
	}
}

// leave requires h.mu held for writing.
func (h *Hub) leave(s *Subscriber, key string) {
	if group, ok := h.groups[key]; ok {
		delete(group, s)
		if len(group) == 0 {
			delete(h.groups, key)
		}
	}
	delete(s.keys, key)
}

// disconnect requires h.mu held for writing.
func (h *Hub) disconnect(s *Subscriber) {
	if s.closed {
		return
	}
	for key := range s.keys {
		h.leave(s, key)
	}
	delete(h.subscribers, s)
	s.closed = true
	close(s.send)

	h.logger.Debug("subscriber disconnected", "subscriber", s.ID, "connections", len(h.subscribers))
}
