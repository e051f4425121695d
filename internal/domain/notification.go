package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	NotificationTypeLike    = "like"
	NotificationTypeComment = "comment"
	NotificationTypeFollow  = "follow"
)

type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	SenderID  uuid.UUID  `json:"sender_id"`
	Type      string     `json:"type"`
	PostID    *uuid.UUID `json:"post_id,omitempty"`
	IsRead    bool       `json:"is_read"`
	CreatedAt time.Time  `json:"created_at"`

	// Joined field
	Sender *ProfileSummary `json:"sender,omitempty"`
}
