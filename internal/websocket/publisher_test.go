package websocket

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingPublisher) Publish(accountID uuid.UUID, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub()
	accountID := uuid.New()
	client := newMockClient("client-1", accountID)
	hub.Register(client)

	var publisher EventPublisher = hub
	publisher.Publish(accountID, ExpenseCreated(map[string]interface{}{"id": float64(42)}))

	require.Eventually(t, func() bool {
		return len(client.GetMessages()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestNoOpPublisher_Publish(t *testing.T) {
	publisher := &NoOpPublisher{}
	assert.NotPanics(t, func() {
		publisher.Publish(uuid.New(), ExpenseCreated(nil))
	})
}

func TestMultiPublisher_Publish(t *testing.T) {
	first := &recordingPublisher{}
	second := &recordingPublisher{}
	multi := MultiPublisher{first, nil, second}

	multi.Publish(uuid.New(), BudgetUpdated(map[string]interface{}{"amount": 500}))

	require.Len(t, first.events, 1)
	require.Len(t, second.events, 1)
	assert.Equal(t, "budget.updated", first.events[0].Type)
}
