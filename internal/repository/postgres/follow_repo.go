package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovacev/ripple/internal/domain"
)

type FollowRepo struct {
	pool *pgxpool.Pool
}

func NewFollowRepo(pool *pgxpool.Pool) *FollowRepo {
	return &FollowRepo{pool: pool}
}

func (r *FollowRepo) Follow(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, followee_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (follower_id, followee_id) DO NOTHING`
	tag, err := r.pool.Exec(ctx, query, followerID, followeeID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *FollowRepo) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND followee_id = $2`,
		followerID, followeeID,
	)
	return err
}

func (r *FollowRepo) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followee_id = $2)`,
		followerID, followeeID,
	).Scan(&exists)
	return exists, err
}

func (r *FollowRepo) ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.ProfileSummary, error) {
	query := `
		SELECT u.id, u.username, u.name, u.avatar_url
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.followee_id = $1
		ORDER BY f.created_at DESC`
	return r.listSummaries(ctx, query, userID)
}

func (r *FollowRepo) ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.ProfileSummary, error) {
	query := `
		SELECT u.id, u.username, u.name, u.avatar_url
		FROM follows f
		JOIN users u ON u.id = f.followee_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC`
	return r.listSummaries(ctx, query, userID)
}

func (r *FollowRepo) ListFollowingIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT followee_id FROM follows WHERE follower_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *FollowRepo) listSummaries(ctx context.Context, query string, arg any) ([]domain.ProfileSummary, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.ProfileSummary
	for rows.Next() {
		var u domain.ProfileSummary
		if err := rows.Scan(&u.ID, &u.Username, &u.Name, &u.AvatarURL); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}
