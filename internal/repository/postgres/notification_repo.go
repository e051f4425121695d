package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovacev/ripple/internal/domain"
)

type NotificationRepo struct {
	pool *pgxpool.Pool
}

func NewNotificationRepo(pool *pgxpool.Pool) *NotificationRepo {
	return &NotificationRepo{pool: pool}
}

func (r *NotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, sender_id, type, post_id, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.pool.Exec(ctx, query,
		n.ID, n.UserID, n.SenderID, n.Type, n.PostID, n.IsRead, n.CreatedAt,
	)
	return err
}

func (r *NotificationRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	query := `
		SELECT n.id, n.user_id, n.sender_id, n.type, n.post_id, n.is_read, n.created_at,
			u.id, u.username, u.name, u.avatar_url
		FROM notifications n
		JOIN users u ON u.id = n.sender_id
		WHERE n.user_id = $1
		ORDER BY n.created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []domain.Notification
	for rows.Next() {
		var (
			n      domain.Notification
			sender domain.ProfileSummary
		)
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.SenderID, &n.Type, &n.PostID, &n.IsRead, &n.CreatedAt,
			&sender.ID, &sender.Username, &sender.Name, &sender.AvatarURL,
		); err != nil {
			return nil, err
		}
		n.Sender = &sender
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}

func (r *NotificationRepo) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	).Scan(&count)
	return count, err
}

func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return err
}

func (r *NotificationRepo) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)
	return err
}
