package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dkovacev/ripple/internal/domain"
	"github.com/dkovacev/ripple/internal/repository"
)

const notificationPageSize = 20

type NotificationService struct {
	repo     repository.NotificationRepository
	notifier Notifier
	log      zerolog.Logger
}

func NewNotificationService(repo repository.NotificationRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{
		repo: repo,
		log:  log.With().Str("component", "notifications").Logger(),
	}
}

func (s *NotificationService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Notify records a notification for userID and pushes it live if they are
// online. Self-actions never notify. Persistence failures are logged and
// swallowed: a notification is best-effort decoration of the primary action.
func (s *NotificationService) Notify(ctx context.Context, userID, senderID uuid.UUID, kind string, postID *uuid.UUID) {
	if userID == senderID {
		return
	}

	n := &domain.Notification{
		ID:        uuid.New(),
		UserID:    userID,
		SenderID:  senderID,
		Type:      kind,
		PostID:    postID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.log.Error().Err(err).Str("type", kind).Msg("storing notification failed")
		return
	}

	if s.notifier != nil {
		s.notifier.DeliverNotification(userID, n)
	}
}

// ListRecent returns the most recent notifications and marks them read,
// mirroring the client behavior of opening the notification tray.
func (s *NotificationService) ListRecent(ctx context.Context, userID uuid.UUID) ([]domain.Notification, error) {
	notifications, err := s.repo.ListRecent(ctx, userID, notificationPageSize)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		s.log.Error().Err(err).Msg("marking notifications read failed")
	}

	if notifications == nil {
		notifications = []domain.Notification{}
	}
	return notifications, nil
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkRead(ctx, id, userID)
}
