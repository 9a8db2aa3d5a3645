package hub

import (
	"time"

	"github.com/XavierBriggs/fortuna/services/pick-service/pkg/models"
)

// Message types for WebSocket communication
const (
	MessageTypeSlate       = "slate"
	MessageTypeStrategy    = "strategy"
	MessageTypeSubscribe   = "subscribe"
	MessageTypeUnsubscribe = "unsubscribe"
	MessageTypeHeartbeat   = "heartbeat"
	MessageTypeError       = "error"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type    string             `json:"type"`
	Payload SubscriptionFilter `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Update is one broadcast item. SportKey is empty for cross-sport updates.
type Update struct {
	Type     string
	SportKey string
	Payload  interface{}
}

// SlateUpdate carries a freshly analyzed slate for one sport
type SlateUpdate struct {
	SportKey string                 `json:"sport_key"`
	Date     string                 `json:"date"`
	Picks    []*models.PickAnalysis `json:"picks"`
	Failed   int                    `json:"failed"`
}

// SubscriptionFilter represents client subscription preferences
type SubscriptionFilter struct {
	Sports []string `json:"sports,omitempty"`
	Types  []string `json:"types,omitempty"`
}

// ConnectionStats represents connection statistics
type ConnectionStats struct {
	ClientID         string    `json:"client_id"`
	ConnectedAt      time.Time `json:"connected_at"`
	MessagesSent     int64     `json:"messages_sent"`
	MessagesReceived int64     `json:"messages_received"`
}

// ErrorMessage represents an error message
type ErrorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
