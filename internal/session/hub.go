// Package session broadcasts sign-in and sign-out transitions to interested
// services. The auth service publishes; consumers such as the notification
// engine register handlers at wiring time and dispatch on the specific edge
// (login vs logout) rather than polling shared state.
package session

import (
	"sync"

	"github.com/google/uuid"

	"mantenimiento-equipos/internal/domain"
)

type EventType int

const (
	EventLogin EventType = iota
	EventLogout
)

type Event struct {
	Type    EventType
	UserID  uuid.UUID
	Profile *domain.Profile // set on login events only
}

type Handler func(Event)

// Hub is constructed once at process start. Dispatch is synchronous and in
// registration order; handlers that do network work are expected to spawn
// their own goroutines.
type Hub struct {
	mu       sync.RWMutex
	handlers []Handler
}

func NewHub() *Hub {
	return &Hub{}
}

func (h *Hub) Subscribe(fn Handler) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers = append(h.handlers, fn)
}

func (h *Hub) PublishLogin(profile *domain.Profile) {
	h.publish(Event{Type: EventLogin, UserID: profile.UserID, Profile: profile})
}

func (h *Hub) PublishLogout(userID uuid.UUID) {
	h.publish(Event{Type: EventLogout, UserID: userID})
}

func (h *Hub) publish(ev Event) {
	h.mu.RLock()
	handlers := make([]Handler, len(h.handlers))
	copy(handlers, h.handlers)
	h.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}
