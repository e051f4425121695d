package domain

import (
	"time"

	"github.com/google/uuid"
)

// Conversation is the durable two-party grouping for direct messages.
// UserA and UserB are stored in canonical (sorted) order so the unordered
// pair maps to exactly one row.
type Conversation struct {
	ID        uuid.UUID `json:"id"`
	UserA     uuid.UUID `json:"user_a"`
	UserB     uuid.UUID `json:"user_b"`
	CreatedAt time.Time `json:"created_at"`

	// Joined field for listing: the member that is not the requesting user.
	Other *ProfileSummary `json:"other,omitempty"`
}

// CanonicalPair returns the two user IDs in canonical storage order.
func CanonicalPair(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}

// OtherMember returns the member of the conversation that is not userID.
func (c *Conversation) OtherMember(userID uuid.UUID) uuid.UUID {
	if c.UserA == userID {
		return c.UserB
	}
	return c.UserA
}

// HasMember reports whether userID is one of the two members.
func (c *Conversation) HasMember(userID uuid.UUID) bool {
	return c.UserA == userID || c.UserB == userID
}
