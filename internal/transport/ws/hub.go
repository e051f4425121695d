package ws

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"nhooyr.io/websocket"

	"github.com/dkovacev/ripple/internal/domain"
	"github.com/dkovacev/ripple/internal/service"
)

// Hub is the session gateway: it owns the presence registry, processes
// register/unregister transitions one at a time, and broadcasts the online
// set after every change.
type Hub struct {
	registry *Registry
	chat     *service.ChatService
	log      zerolog.Logger

	register   chan *Client
	unregister chan *Client
}

func NewHub(chat *service.ChatService, log zerolog.Logger) *Hub {
	return &Hub{
		registry:   NewRegistry(),
		chat:       chat,
		log:        log.With().Str("component", "ws").Logger(),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Registry exposes presence lookups to the delivery path.
func (h *Hub) Registry() *Registry {
	return h.registry
}

// Run processes registration transitions. Call this in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			replaced := h.registry.Register(client.userID, client)
			if replaced != nil {
				// The newer session wins; the displaced one is torn down
				// so the user never has two live entries.
				replaced.shutdown(websocket.StatusPolicyViolation, "session superseded")
			}
			h.log.Info().
				Stringer("user", client.userID).
				Int("online", h.registry.Len()).
				Msg("user registered")
			h.broadcastPresence()

		case client := <-h.unregister:
			if h.registry.Unregister(client.userID, client) {
				h.log.Info().
					Stringer("user", client.userID).
					Int("online", h.registry.Len()).
					Msg("user unregistered")
				h.broadcastPresence()
			}
		}
	}
}

// DeliverMessage pushes a chat message to the recipient's session, if one is
// registered. A stale or missing session is a delivery miss, not an error.
func (h *Hub) DeliverMessage(recipientID uuid.UUID, msg *domain.Message) bool {
	evt, err := NewEvent(EventTypeMessageDeliver, DeliverPayload{Message: *msg})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal deliver event")
		return false
	}
	return h.sendToUser(recipientID, evt)
}

// DeliverNotification pushes a social notification to the recipient's
// session, if one is registered.
func (h *Hub) DeliverNotification(recipientID uuid.UUID, n *domain.Notification) bool {
	evt, err := NewEvent(EventTypeNotificationNew, NotificationPayload{Notification: *n})
	if err != nil {
		h.log.Error().Err(err).Msg("marshal notification event")
		return false
	}
	return h.sendToUser(recipientID, evt)
}

func (h *Hub) sendToUser(userID uuid.UUID, evt *Event) bool {
	client, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return false
	}
	return client.trySend(data)
}

// broadcastPresence sends the full online-user set to every registered
// session, including the one that just changed state.
func (h *Hub) broadcastPresence() {
	evt, err := NewEvent(EventTypePresenceSnapshot, PresenceSnapshotPayload{
		OnlineUserIDs: h.registry.OnlineUserIDs(),
	})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	for _, client := range h.registry.Clients() {
		client.trySend(data)
	}
}
