package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovacev/ripple/internal/domain"
)

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

// FindOrCreateConversation resolves the conversation for an unordered user
// pair. The pair is canonicalized before hitting the unique constraint, and a
// conflicting concurrent insert falls through to re-reading the winner's row,
// so the same pair can never produce two conversations.
func (r *ChatRepo) FindOrCreateConversation(ctx context.Context, memberA, memberB uuid.UUID) (*domain.Conversation, error) {
	a, b := domain.CanonicalPair(memberA, memberB)

	conv, err := r.getByPair(ctx, a, b)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	query := `
		INSERT INTO conversations (id, user_a, user_b, created_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (user_a, user_b) DO NOTHING
		RETURNING id, user_a, user_b, created_at`

	var c domain.Conversation
	err = r.pool.QueryRow(ctx, query, uuid.New(), a, b).Scan(
		&c.ID, &c.UserA, &c.UserB, &c.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// Lost the race: someone else just created it.
		conv, err = r.getByPair(ctx, a, b)
		if err != nil {
			return nil, err
		}
		if conv == nil {
			return nil, fmt.Errorf("conversation for pair %s/%s vanished after conflict", a, b)
		}
		return conv, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepo) getByPair(ctx context.Context, a, b uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, user_a, user_b, created_at
		FROM conversations
		WHERE user_a = $1 AND user_b = $2`

	var c domain.Conversation
	err := r.pool.QueryRow(ctx, query, a, b).Scan(&c.ID, &c.UserA, &c.UserB, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ChatRepo) GetConversation(ctx context.Context, id uuid.UUID) (*domain.Conversation, error) {
	query := `
		SELECT id, user_a, user_b, created_at
		FROM conversations
		WHERE id = $1`

	var c domain.Conversation
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.UserA, &c.UserB, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return &c, err
}

func (r *ChatRepo) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	// LEFT JOIN so a conversation whose other member is gone still lists;
	// the service substitutes a placeholder for the missing profile.
	query := `
		SELECT c.id, c.user_a, c.user_b, c.created_at,
			CASE WHEN c.user_a = $1 THEN c.user_b ELSE c.user_a END AS other_id,
			u.username, u.name, u.avatar_url
		FROM conversations c
		LEFT JOIN users u ON u.id = CASE WHEN c.user_a = $1 THEN c.user_b ELSE c.user_a END
		WHERE c.user_a = $1 OR c.user_b = $1
		ORDER BY c.created_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var convs []domain.Conversation
	for rows.Next() {
		var (
			c         domain.Conversation
			otherID   uuid.UUID
			username  *string
			name      *string
			avatarURL *string
		)
		if err := rows.Scan(&c.ID, &c.UserA, &c.UserB, &c.CreatedAt, &otherID, &username, &name, &avatarURL); err != nil {
			return nil, err
		}
		other := domain.ProfileSummary{ID: otherID}
		if username != nil {
			other.Username = *username
			other.AvatarURL = avatarURL
		}
		if name != nil {
			other.Name = *name
		}
		c.Other = &other
		convs = append(convs, c)
	}
	return convs, rows.Err()
}

func (r *ChatRepo) AppendMessage(ctx context.Context, msg *domain.Message) error {
	query := `
		INSERT INTO messages (id, conversation_id, sender_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING seq`
	return r.pool.QueryRow(ctx, query,
		msg.ID, msg.ConversationID, msg.SenderID, msg.Text, msg.CreatedAt,
	).Scan(&msg.Seq)
}

func (r *ChatRepo) ListMessages(ctx context.Context, conversationID uuid.UUID, limit int) ([]domain.Message, error) {
	query := `
		SELECT id, seq, conversation_id, sender_id, text, created_at
		FROM messages
		WHERE conversation_id = $1
		ORDER BY seq`
	args := []any{conversationID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.Seq, &m.ConversationID, &m.SenderID, &m.Text, &m.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}
