package ws

import (
	"github.com/google/uuid"

	"github.com/dkovacev/ripple/internal/domain"
)

// HubNotifier implements service.Notifier on top of the Hub.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) DeliverMessage(recipientID uuid.UUID, msg *domain.Message) bool {
	return n.hub.DeliverMessage(recipientID, msg)
}

func (n *HubNotifier) DeliverNotification(recipientID uuid.UUID, notification *domain.Notification) bool {
	return n.hub.DeliverNotification(recipientID, notification)
}
