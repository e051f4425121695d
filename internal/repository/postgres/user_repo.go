package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovacev/ripple/internal/domain"
)

const userColumns = `
	u.id, u.email, u.username, u.name, u.password_hash, u.bio, u.avatar_url,
	u.created_at, u.updated_at,
	(SELECT count(*) FROM follows WHERE followee_id = u.id) AS follower_count,
	(SELECT count(*) FROM follows WHERE follower_id = u.id) AS following_count`

type UserRepo struct {
	pool *pgxpool.Pool
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, email, username, name, password_hash, bio, avatar_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.pool.Exec(ctx, query,
		user.ID, user.Email, user.Username, user.Name,
		user.PasswordHash, user.Bio, user.AvatarURL, user.CreatedAt, user.UpdatedAt,
	)
	return err
}

func (r *UserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users u WHERE u.id = $1", id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users u WHERE u.email = $1", email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.scanUser(ctx, "SELECT "+userColumns+" FROM users u WHERE u.username = $1", username)
}

func (r *UserRepo) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	sql := "SELECT " + userColumns + ` FROM users u
		WHERE u.username ILIKE '%' || $1 || '%' OR u.name ILIKE '%' || $1 || '%'
		ORDER BY u.username
		LIMIT $2`

	rows, err := r.pool.Query(ctx, sql, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.Username, &u.Name, &u.PasswordHash, &u.Bio,
			&u.AvatarURL, &u.CreatedAt, &u.UpdatedAt,
			&u.FollowerCount, &u.FollowingCount,
		); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepo) UpdateProfile(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users
		SET name = $1, bio = $2, avatar_url = $3, updated_at = now()
		WHERE id = $4`
	_, err := r.pool.Exec(ctx, query, user.Name, user.Bio, user.AvatarURL, user.ID)
	return err
}

func (r *UserRepo) scanUser(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.Name, &u.PasswordHash, &u.Bio,
		&u.AvatarURL, &u.CreatedAt, &u.UpdatedAt,
		&u.FollowerCount, &u.FollowingCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
