package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dkovacev/ripple/internal/domain"
)

const postColumns = `
	p.id, p.author_id, p.caption, p.image_url, p.created_at,
	u.username, u.name, u.avatar_url,
	(SELECT count(*) FROM post_likes WHERE post_id = p.id) AS like_count,
	(SELECT count(*) FROM comments WHERE post_id = p.id) AS comment_count,
	EXISTS (SELECT 1 FROM post_likes WHERE post_id = p.id AND user_id = $1) AS liked_by_me`

type PostRepo struct {
	pool *pgxpool.Pool
}

func NewPostRepo(pool *pgxpool.Pool) *PostRepo {
	return &PostRepo{pool: pool}
}

func (r *PostRepo) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (id, author_id, caption, image_url, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		post.ID, post.AuthorID, post.Caption, post.ImageURL, post.CreatedAt,
	)
	return err
}

func (r *PostRepo) GetByID(ctx context.Context, id, viewerID uuid.UUID) (*domain.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $2`

	rows, err := r.pool.Query(ctx, query, viewerID, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts, err := scanPosts(rows)
	if err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, nil
	}
	return &posts[0], nil
}

func (r *PostRepo) ListFeed(ctx context.Context, viewerID uuid.UUID, authorIDs []uuid.UUID, offset, limit int) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + `
		FROM posts p
		JOIN users u ON u.id = p.author_id`
	args := []any{viewerID}

	if authorIDs != nil {
		query += ` WHERE p.author_id = ANY($2)
		ORDER BY p.created_at DESC
		OFFSET $3 LIMIT $4`
		args = append(args, authorIDs, offset, limit)
	} else {
		query += `
		ORDER BY p.created_at DESC
		OFFSET $2 LIMIT $3`
		args = append(args, offset, limit)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanPosts(rows)
}

func (r *PostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	return err
}

func (r *PostRepo) Like(ctx context.Context, postID, userID uuid.UUID) (bool, error) {
	query := `
		INSERT INTO post_likes (post_id, user_id, created_at)
		VALUES ($1, $2, now())
		ON CONFLICT (post_id, user_id) DO NOTHING`
	tag, err := r.pool.Exec(ctx, query, postID, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PostRepo) Unlike(ctx context.Context, postID, userID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
	return err
}

func (r *PostRepo) CreateComment(ctx context.Context, comment *domain.Comment) error {
	query := `
		INSERT INTO comments (id, post_id, author_id, body, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.pool.Exec(ctx, query,
		comment.ID, comment.PostID, comment.AuthorID, comment.Body, comment.CreatedAt,
	)
	return err
}

func (r *PostRepo) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	query := `
		SELECT c.id, c.post_id, c.author_id, c.body, c.created_at,
			u.id, u.username, u.name, u.avatar_url
		FROM comments c
		JOIN users u ON u.id = c.author_id
		WHERE c.post_id = $1
		ORDER BY c.created_at`

	rows, err := r.pool.Query(ctx, query, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []domain.Comment
	for rows.Next() {
		var (
			c      domain.Comment
			author domain.ProfileSummary
		)
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorID, &c.Body, &c.CreatedAt,
			&author.ID, &author.Username, &author.Name, &author.AvatarURL,
		); err != nil {
			return nil, err
		}
		c.Author = &author
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func scanPosts(rows pgx.Rows) ([]domain.Post, error) {
	var posts []domain.Post
	for rows.Next() {
		var (
			p      domain.Post
			author domain.ProfileSummary
		)
		if err := rows.Scan(
			&p.ID, &p.AuthorID, &p.Caption, &p.ImageURL, &p.CreatedAt,
			&author.Username, &author.Name, &author.AvatarURL,
			&p.LikeCount, &p.CommentCount, &p.LikedByMe,
		); err != nil {
			return nil, err
		}
		author.ID = p.AuthorID
		p.Author = &author
		posts = append(posts, p)
	}
	return posts, rows.Err()
}
