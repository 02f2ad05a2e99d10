// models/webhook.go
package models

import "encoding/json"

// WebhookEvent is the payload the wearable vendor posts to our ingress when
// new data lands for the connected user.
type WebhookEvent struct {
	EventType string          `json:"event_type"`
	UserID    string          `json:"user_id"`
	Timestamp string          `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// webhookEventTypes maps vendor event names to the data type whose goals
// should be re-verified.
var webhookEventTypes = map[string]HealthDataType{
	"sleep_completed":   DataTypeSleep,
	"workout_completed": DataTypeSteps,
	"recovery_updated":  DataTypeRecovery,
	"strain_updated":    DataTypeStrain,
}

// DataTypeForEvent resolves a vendor event type to the goal data type it
// affects. ok is false for event types we don't act on.
func DataTypeForEvent(eventType string) (HealthDataType, bool) {
	t, ok := webhookEventTypes[eventType]
	return t, ok
}
