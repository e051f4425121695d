package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dkovacev/ripple/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeAnnounce    = "announce"
	EventTypeMessageSend = "message.send"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeMessageDeliver   = "message.deliver"
	EventTypePresenceSnapshot = "presence.snapshot"
	EventTypeNotificationNew  = "notification.new"
	EventTypePong             = "pong"
	EventTypeError            = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"ts,omitempty"`
}

// --- Client → Server payloads ---

// AnnouncePayload binds the connection to a user. UserID may be omitted, in
// which case the identity from the connection token is used.
type AnnouncePayload struct {
	UserID uuid.UUID `json:"user_id"`
}

type SendPayload struct {
	ConversationID *uuid.UUID `json:"conversation_id,omitempty"`
	RecipientID    *uuid.UUID `json:"recipient_id,omitempty"`
	Text           string     `json:"text"`
}

// --- Server → Client payloads ---

type DeliverPayload struct {
	domain.Message
}

type PresenceSnapshotPayload struct {
	OnlineUserIDs []uuid.UUID `json:"online_user_ids"`
}

type NotificationPayload struct {
	domain.Notification
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:      eventType,
		Payload:   data,
		Timestamp: time.Now().Unix(),
	}, nil
}
