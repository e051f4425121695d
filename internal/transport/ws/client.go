package ws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/dkovacev/ripple/internal/service"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	sendTimeout    = 10 * time.Second
	maxMessageSize = 4096
	sendBufSize    = 256
)

// Client represents a single WebSocket connection. It starts unregistered:
// the connection can neither send nor receive until the client announces a
// user identity, which enters it into the presence registry.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID

	// registered is only touched from the ReadPump goroutine.
	registered bool

	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

// UserID returns the identity bound to this connection.
func (c *Client) UserID() uuid.UUID {
	return c.userID
}

// shutdown tears the connection down exactly once. Safe to call from any
// goroutine; the pumps observe done and exit.
func (c *Client) shutdown(code websocket.StatusCode, reason string) {
	c.once.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close(code, reason)
		}
	})
}

// trySend queues an event for the write pump without blocking. A client with
// a full buffer or a closed connection simply misses the event; persisted
// state is the source of truth for anything it missed.
func (c *Client) trySend(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// ReadPump reads events from the WebSocket and handles them sequentially, so
// sends from this client are persisted and delivered in the order they
// arrived.
func (c *Client) ReadPump() {
	defer func() {
		if c.registered {
			c.hub.unregister <- c
		}
		c.shutdown(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var event Event
		err := wsjson.Read(context.Background(), c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.hub.log.Debug().Stringer("user", c.userID).Msg("client disconnected")
			} else {
				c.hub.log.Debug().Stringer("user", c.userID).Err(err).Msg("read error")
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes queued events to the WebSocket and keeps the connection
// alive with pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.shutdown(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.hub.log.Debug().Stringer("user", c.userID).Err(err).Msg("write error")
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				c.hub.log.Debug().Stringer("user", c.userID).Err(err).Msg("ping error")
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event through the session state
// machine: announce registers, send routes a message, anything else before
// registration is rejected.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeAnnounce:
		c.handleAnnounce(event)

	case EventTypeMessageSend:
		if !c.registered {
			c.sendError("NOT_REGISTERED", "announce before sending")
			return
		}
		c.handleSend(event)

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) handleAnnounce(event *Event) {
	var p AnnouncePayload
	if len(event.Payload) > 0 {
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid announce payload")
			return
		}
	}

	// The connection token already pins the identity; an announce for a
	// different user is a protocol violation, not a takeover.
	if p.UserID != uuid.Nil && p.UserID != c.userID {
		c.sendError("FORBIDDEN", "announced user does not match connection identity")
		return
	}

	if c.registered {
		return
	}
	c.registered = true
	c.hub.register <- c
}

func (c *Client) handleSend(event *Event) {
	var p SendPayload
	if err := json.Unmarshal(event.Payload, &p); err != nil {
		c.sendError("INVALID_PAYLOAD", "invalid message.send payload")
		return
	}

	// Deliberately not tied to the connection: a disconnect mid-send must
	// not cancel persistence, only live delivery is forgone.
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_, err := c.hub.chat.SendMessage(ctx, service.SendInput{
		SenderID:       c.userID,
		ConversationID: p.ConversationID,
		RecipientID:    p.RecipientID,
		Text:           p.Text,
	})
	if err != nil {
		c.sendError(sendErrorCode(err), err.Error())
	}
}

func sendErrorCode(err error) string {
	switch {
	case errors.Is(err, service.ErrEmptyMessage):
		return "EMPTY_MESSAGE"
	case errors.Is(err, service.ErrMessageTooLong):
		return "MESSAGE_TOO_LONG"
	case errors.Is(err, service.ErrRecipientRequired):
		return "RECIPIENT_REQUIRED"
	case errors.Is(err, service.ErrCannotChatSelf):
		return "CANNOT_CHAT_SELF"
	case errors.Is(err, service.ErrConversationNotFound), errors.Is(err, service.ErrUserNotFound):
		return "NOT_FOUND"
	case errors.Is(err, service.ErrNotParticipant):
		return "FORBIDDEN"
	default:
		return "INTERNAL"
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong})
	c.trySend(data)
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	c.trySend(data)
}
