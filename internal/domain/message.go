package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message is a single chat message. Messages are append-only: once written
// they are never edited or deleted. Seq is assigned by the store and gives
// the total creation order within the message log.
type Message struct {
	ID             uuid.UUID `json:"id"`
	Seq            int64     `json:"-"`
	ConversationID uuid.UUID `json:"conversation_id"`
	SenderID       uuid.UUID `json:"sender_id"`
	Text           string    `json:"text"`
	CreatedAt      time.Time `json:"created_at"`
}
