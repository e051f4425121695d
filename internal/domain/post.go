package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Caption   string    `json:"caption"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	// Joined fields
	Author       *ProfileSummary `json:"author,omitempty"`
	LikeCount    int             `json:"like_count"`
	CommentCount int             `json:"comment_count"`
	LikedByMe    bool            `json:"liked_by_me"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	PostID    uuid.UUID `json:"post_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`

	// Joined field
	Author *ProfileSummary `json:"author,omitempty"`
}
