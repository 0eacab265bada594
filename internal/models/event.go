package models

// EventAction identifies an outbound notification.
type EventAction string

const (
	EventRateLimitUpdate    EventAction = "rateLimitUpdate"
	EventShowMessage        EventAction = "showMessage"
	EventUpdatePluginStatus EventAction = "updatePluginStatus"
)

// MessageTypeError is the only severity the relay emits.
const MessageTypeError = "error"

// Event is a notification pushed to every observer. Only the fields that
// belong to Action are set.
type Event struct {
	Action            EventAction `json:"action"`
	RemainingRequests *int        `json:"remainingRequests,omitempty"`
	WaitSeconds       *int        `json:"waitSeconds,omitempty"`
	Message           string      `json:"message,omitempty"`
	Type              string      `json:"type,omitempty"`
	IsActive          *bool       `json:"isActive,omitempty"`
}

// NewRateLimitUpdate builds a status event. waitSeconds is nil while
// capacity remains.
func NewRateLimitUpdate(remaining int, waitSeconds *int) Event {
	return Event{
		Action:            EventRateLimitUpdate,
		RemainingRequests: &remaining,
		WaitSeconds:       waitSeconds,
	}
}

func NewErrorMessage(message string) Event {
	return Event{
		Action:  EventShowMessage,
		Message: message,
		Type:    MessageTypeError,
	}
}

func NewPluginStatus(active bool) Event {
	return Event{
		Action:   EventUpdatePluginStatus,
		IsActive: &active,
	}
}
