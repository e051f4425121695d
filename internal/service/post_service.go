package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dkovacev/ripple/internal/domain"
	"github.com/dkovacev/ripple/internal/repository"
)

var (
	ErrPostNotFound  = errors.New("post not found")
	ErrNotPostAuthor = errors.New("only the post author can perform this action")
	ErrEmptyCaption  = errors.New("post caption is empty")
	ErrEmptyComment  = errors.New("comment body is empty")
)

type PostService struct {
	postRepo     repository.PostRepository
	followRepo   repository.FollowRepository
	notification *NotificationService
}

func NewPostService(postRepo repository.PostRepository, followRepo repository.FollowRepository, notification *NotificationService) *PostService {
	return &PostService{
		postRepo:     postRepo,
		followRepo:   followRepo,
		notification: notification,
	}
}

func (s *PostService) Create(ctx context.Context, authorID uuid.UUID, caption string, imageURL *string) (*domain.Post, error) {
	caption = strings.TrimSpace(caption)
	if caption == "" {
		return nil, ErrEmptyCaption
	}

	post := &domain.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Caption:   caption,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	return s.postRepo.GetByID(ctx, post.ID, authorID)
}

func (s *PostService) Get(ctx context.Context, id, viewerID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, id, viewerID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

// Feed returns the global feed, or only posts from followed users when
// followingOnly is set.
func (s *PostService) Feed(ctx context.Context, viewerID uuid.UUID, followingOnly bool, page, limit int) ([]domain.Post, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	var authorIDs []uuid.UUID
	if followingOnly {
		ids, err := s.followRepo.ListFollowingIDs(ctx, viewerID)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []domain.Post{}, nil
		}
		authorIDs = ids
	}

	posts, err := s.postRepo.ListFeed(ctx, viewerID, authorIDs, (page-1)*limit, limit)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []domain.Post{}
	}
	return posts, nil
}

func (s *PostService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.AuthorID != userID {
		return ErrNotPostAuthor
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *PostService) Like(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}

	created, err := s.postRepo.Like(ctx, postID, userID)
	if err != nil {
		return fmt.Errorf("creating like: %w", err)
	}

	if created && s.notification != nil {
		s.notification.Notify(ctx, post.AuthorID, userID, domain.NotificationTypeLike, &postID)
	}
	return nil
}

func (s *PostService) Unlike(ctx context.Context, userID, postID uuid.UUID) error {
	return s.postRepo.Unlike(ctx, postID, userID)
}

func (s *PostService) Comment(ctx context.Context, userID, postID uuid.UUID, body string) (*domain.Comment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyComment
	}

	post, err := s.postRepo.GetByID(ctx, postID, userID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}

	comment := &domain.Comment{
		ID:        uuid.New(),
		PostID:    postID,
		AuthorID:  userID,
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.postRepo.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("creating comment: %w", err)
	}

	if s.notification != nil {
		s.notification.Notify(ctx, post.AuthorID, userID, domain.NotificationTypeComment, &postID)
	}
	return comment, nil
}

func (s *PostService) ListComments(ctx context.Context, postID uuid.UUID) ([]domain.Comment, error) {
	comments, err := s.postRepo.ListComments(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []domain.Comment{}
	}
	return comments, nil
}
