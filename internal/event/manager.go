// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/inkwell/internal/logger"
)

// Handler defines the function signature for event subscribers.
// It returns true if the event was consumed; remaining handlers are skipped.
type Handler func(e Event) bool

type subscription struct {
	id      uint64
	handler Handler
}

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	nextID   uint64
	handlers map[Type][]subscription
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler function for a specific event type. The returned
// function removes the subscription again.
func (m *Manager) Subscribe(eventType Type, handler Handler) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: id, handler: handler})
	logger.DebugTagf("event", "Handler %d subscribed to %v", id, eventType)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		subs := m.handlers[eventType]
		for i, s := range subs {
			if s.id == id {
				m.handlers[eventType] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Dispatch sends an event to all registered handlers for its type, in
// subscription order, synchronously.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	m.mu.RLock()
	subs := make([]subscription, len(m.handlers[eventType]))
	copy(subs, m.handlers[eventType])
	m.mu.RUnlock()

	if len(subs) == 0 {
		return
	}
	logger.DebugTagf("event", "Dispatching %v to %d handler(s)", eventType, len(subs))

	e := Event{Type: eventType, Data: data}
	for _, s := range subs {
		if s.handler(e) {
			break
		}
	}
}
