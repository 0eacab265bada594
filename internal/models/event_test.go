package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_JSON(t *testing.T) {
	wait := 12

	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{
			name:     "rate limit update with capacity",
			event:    NewRateLimitUpdate(5, nil),
			expected: `{"action":"rateLimitUpdate","remainingRequests":5}`,
		},
		{
			name:     "rate limit update at capacity",
			event:    NewRateLimitUpdate(0, &wait),
			expected: `{"action":"rateLimitUpdate","remainingRequests":0,"waitSeconds":12}`,
		},
		{
			name:     "error message",
			event:    NewErrorMessage("API Error (403): Forbidden"),
			expected: `{"action":"showMessage","message":"API Error (403): Forbidden","type":"error"}`,
		},
		{
			name:     "plugin inactive",
			event:    NewPluginStatus(false),
			expected: `{"action":"updatePluginStatus","isActive":false}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.event)
			require.NoError(t, err)
			assert.JSONEq(t, tt.expected, string(data))
		})
	}
}

func TestNewRateLimitUpdate_CopiesRemaining(t *testing.T) {
	remaining := 3
	event := NewRateLimitUpdate(remaining, nil)
	remaining = 7

	require.NotNil(t, event.RemainingRequests)
	assert.Equal(t, 3, *event.RemainingRequests)
}
