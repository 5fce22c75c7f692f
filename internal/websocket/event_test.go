package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{"id": 1, "description": "Coffee"}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeExpense, payload)
	after := time.Now()

	assert.Equal(t, "expense.created", evt.Type)
	assert.Equal(t, EntityTypeExpense, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := BudgetUpdated(map[string]interface{}{"amount": 500})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "budget.updated", decoded["type"])
	assert.Equal(t, "budget", decoded["entity"])
	assert.NotNil(t, decoded["payload"])
	assert.NotNil(t, decoded["timestamp"])
}

func TestEventHelpers(t *testing.T) {
	payload := map[string]interface{}{"id": float64(7)}

	tests := []struct {
		name     string
		evt      Event
		expected string
		entity   EntityType
	}{
		{"ExpenseCreated", ExpenseCreated(payload), "expense.created", EntityTypeExpense},
		{"ExpenseUpdated", ExpenseUpdated(payload), "expense.updated", EntityTypeExpense},
		{"ExpenseDeleted", ExpenseDeleted(payload), "expense.deleted", EntityTypeExpense},
		{"BudgetUpdated", BudgetUpdated(payload), "budget.updated", EntityTypeBudget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.evt.Type)
			assert.Equal(t, tt.entity, tt.evt.Entity)
			assert.Equal(t, payload, tt.evt.Payload)
		})
	}
}
