package websocket

import "github.com/google/uuid"

// EventPublisher delivers account-scoped change events
type EventPublisher interface {
	Publish(accountID uuid.UUID, event Event)
}

var _ EventPublisher = (*Hub)(nil)

// Publish broadcasts the event to the account's connections
func (h *Hub) Publish(accountID uuid.UUID, event Event) {
	h.Broadcast(accountID, event)
}

// NoOpPublisher drops every event
type NoOpPublisher struct{}

// Publish does nothing
func (n *NoOpPublisher) Publish(accountID uuid.UUID, event Event) {}

// MultiPublisher fans an event out to several publishers in order
type MultiPublisher []EventPublisher

// Publish forwards the event to each non-nil publisher
func (m MultiPublisher) Publish(accountID uuid.UUID, event Event) {
	for _, p := range m {
		if p != nil {
			p.Publish(accountID, event)
		}
	}
}
