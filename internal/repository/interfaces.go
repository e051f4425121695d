package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/dkovacev/ripple/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	Search(ctx context.Context, query string, limit int) ([]domain.User, error)
	UpdateProfile(ctx context.Context, user *domain.User) error
}

type FollowRepository interface {
	Follow(ctx context.Context, followerID, followeeID uuid.UUID) (created bool, err error)
	Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.ProfileSummary, error)
	ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.ProfileSummary, error)
	ListFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// ChatRepository is the conversation/message persistence contract the
// delivery router depends on.
type ChatRepository interface {
	// FindOrCreateConversation is idempotent under concurrent calls with the
	// same unordered pair: at most one conversation row ever exists per pair.
	FindOrCreateConversation(ctx context.Context, memberA, memberB uuid.UUID) (*domain.Conversation, error)
	GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error)
	// ListConversations annotates each conversation with the member other
	// than userID. A member that no longer resolves yields a placeholder
	// instead of failing the whole list.
	ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error)
	AppendMessage(ctx context.Context, msg *domain.Message) error
	// ListMessages returns messages in ascending creation order.
	ListMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]domain.Message, error)
}

type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id, viewerID uuid.UUID) (*domain.Post, error)
	ListFeed(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID, offset, limit int) ([]domain.Post, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Like(ctx context.Context, postID, userID uuid.UUID) (created bool, err error)
	Unlike(ctx context.Context, postID, userID uuid.UUID) error
	CreateComment(ctx context.Context, comment *domain.Comment) error
	ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, id, userID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
