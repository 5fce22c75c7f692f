package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dafibh/spendwise/spendwise-backend/internal/websocket"
	"github.com/google/uuid"
)

// EventMessage is the body published for every change event
type EventMessage struct {
	AccountID uuid.UUID            `json:"accountId"`
	Type      string               `json:"type"`
	Entity    websocket.EntityType `json:"entity"`
	Payload   interface{}          `json:"payload"`
	Timestamp time.Time            `json:"timestamp"`
}

// NewEventMessage wraps an account-scoped event
func NewEventMessage(accountID uuid.UUID, event websocket.Event) EventMessage {
	return EventMessage{
		AccountID: accountID,
		Type:      event.Type,
		Entity:    event.Entity,
		Payload:   event.Payload,
		Timestamp: event.Timestamp,
	}
}

// ToJSON serializes the message
func (m EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// EventMessageFromJSON decodes a published message. Payload is left as generic JSON.
func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("unmarshal event message: %w", err)
	}
	return &msg, nil
}

// RoutingKey is the event name, so consumers can bind on "expense.*" or "#"
func (m EventMessage) RoutingKey() string {
	return m.Type
}
