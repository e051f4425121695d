package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/dkovacev/ripple/internal/domain"
	"github.com/dkovacev/ripple/internal/repository"
)

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCannotFollowSelf = errors.New("cannot follow yourself")
)

// UserService covers the identity directory plus the follow graph.
type UserService struct {
	userRepo     repository.UserRepository
	followRepo   repository.FollowRepository
	notification *NotificationService
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository, notification *NotificationService) *UserService {
	return &UserService{
		userRepo:     userRepo,
		followRepo:   followRepo,
		notification: notification,
	}
}

func (s *UserService) GetProfile(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ResolveUser looks a user up by durable identifier.
func (s *UserService) ResolveUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

type UpdateProfileInput struct {
	Name      string  `json:"name"`
	Bio       string  `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.ResolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Name = input.Name
	user.Bio = input.Bio
	user.AvatarURL = input.AvatarURL

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("updating profile: %w", err)
	}
	return user, nil
}

func (s *UserService) Search(ctx context.Context, query string, limit int) ([]domain.User, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	users, err := s.userRepo.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (s *UserService) Follow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	if followerID == followeeID {
		return ErrCannotFollowSelf
	}

	followee, err := s.userRepo.GetByID(ctx, followeeID)
	if err != nil {
		return err
	}
	if followee == nil {
		return ErrUserNotFound
	}

	created, err := s.followRepo.Follow(ctx, followerID, followeeID)
	if err != nil {
		return fmt.Errorf("creating follow: %w", err)
	}

	// Only a new follow generates a notification; re-following is a no-op.
	if created && s.notification != nil {
		s.notification.Notify(ctx, followeeID, followerID, domain.NotificationTypeFollow, nil)
	}
	return nil
}

func (s *UserService) Unfollow(ctx context.Context, followerID, followeeID uuid.UUID) error {
	return s.followRepo.Unfollow(ctx, followerID, followeeID)
}

func (s *UserService) ListFollowers(ctx context.Context, userID uuid.UUID) ([]domain.ProfileSummary, error) {
	followers, err := s.followRepo.ListFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}
	if followers == nil {
		followers = []domain.ProfileSummary{}
	}
	return followers, nil
}

func (s *UserService) ListFollowing(ctx context.Context, userID uuid.UUID) ([]domain.ProfileSummary, error) {
	following, err := s.followRepo.ListFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}
	if following == nil {
		following = []domain.ProfileSummary{}
	}
	return following, nil
}
