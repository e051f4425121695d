package service

import (
	"github.com/google/uuid"

	"github.com/dkovacev/ripple/internal/domain"
)

// Notifier pushes events to a user's live session, if one exists. Implemented
// by the WebSocket hub; services treat a missed delivery as a non-event
// because every payload is already persisted before delivery is attempted.
type Notifier interface {
	// DeliverMessage pushes a chat message to the recipient's session.
	// Reports whether the recipient had a live session.
	DeliverMessage(recipientID uuid.UUID, msg *domain.Message) bool

	// DeliverNotification pushes a social notification to the recipient's
	// session. Reports whether the recipient had a live session.
	DeliverNotification(recipientID uuid.UUID, n *domain.Notification) bool
}
