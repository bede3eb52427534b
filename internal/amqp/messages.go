package amqp

import (
	"encoding/json"
	"time"
)

// ScopeAll invalidates every cached view.
const ScopeAll = "all"

// InvalidateMessage tells running dashboard instances to drop cached
// views because the underlying dataset changed. Scope is either a
// single cache key or ScopeAll.
type InvalidateMessage struct {
	Scope     string    `json:"scope"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// NewInvalidateMessage creates an invalidation message for a scope
func NewInvalidateMessage(scope, reason string) *InvalidateMessage {
	return &InvalidateMessage{
		Scope:     scope,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *InvalidateMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// InvalidateMessageFromJSON creates a message from JSON bytes
func InvalidateMessageFromJSON(data []byte) (*InvalidateMessage, error) {
	var msg InvalidateMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
