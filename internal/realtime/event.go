package realtime

import (
	"encoding/json"
	"time"
)

// Outbound event name for action-boundary failures. The domain events
// (new_message, message_sent, messages_read, new_group_message,
// new_notification) are named by the packages that emit them.
const EventMessageError = "message_error"

// Event is the outbound frame envelope.
type Event struct {
	Event     string `json:"event"`
	Data      any    `json:"data"`
	Timestamp int64  `json:"timestamp"`
}

// ErrorData is the message_error payload. The rate-limit fields are only set
// when Code is "RATE_LIMITED".
type ErrorData struct {
	Code             string     `json:"code"`
	Message          string     `json:"message"`
	Reason           string     `json:"reason,omitempty"`
	BlockedUntil     *time.Time `json:"blockedUntil,omitempty"`
	RemainingSeconds int        `json:"remainingSeconds,omitempty"`
}

func marshalEvent(event string, payload any) ([]byte, error) {
	return json.Marshal(&Event{
		Event:     event,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	})
}
