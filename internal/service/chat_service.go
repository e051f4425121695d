package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dkovacev/ripple/internal/domain"
	"github.com/dkovacev/ripple/internal/repository"
)

var (
	ErrEmptyMessage         = errors.New("message text is empty")
	ErrMessageTooLong       = errors.New("message text is too long")
	ErrRecipientRequired    = errors.New("recipient is required when no conversation is given")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrNotParticipant       = errors.New("you are not a participant of this conversation")
	ErrCannotChatSelf       = errors.New("cannot start a conversation with yourself")
)

const maxMessageLen = 2000

// ChatService is the delivery router: it persists a message, then attempts
// live delivery to the recipient's session. Persistence always happens
// before delivery, and a delivery miss is never an error.
type ChatService struct {
	chatRepo repository.ChatRepository
	userRepo repository.UserRepository
	notifier Notifier
	log      zerolog.Logger
}

func NewChatService(chatRepo repository.ChatRepository, userRepo repository.UserRepository, log zerolog.Logger) *ChatService {
	return &ChatService{
		chatRepo: chatRepo,
		userRepo: userRepo,
		log:      log.With().Str("component", "chat").Logger(),
	}
}

// SetNotifier wires the live-delivery sink. Set after construction because
// the hub itself depends on the service for inbound sends.
func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SendInput carries a send-intent. ConversationID may be nil on first
// contact, in which case RecipientID must identify the other member.
type SendInput struct {
	SenderID       uuid.UUID
	ConversationID *uuid.UUID
	RecipientID    *uuid.UUID
	Text           string
}

// SendMessage validates, persists and then routes a message. The message is
// durable once this returns without error, whether or not the recipient was
// online to receive it live.
func (s *ChatService) SendMessage(ctx context.Context, input SendInput) (*domain.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if len(text) > maxMessageLen {
		return nil, ErrMessageTooLong
	}

	conv, err := s.resolveConversation(ctx, input)
	if err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ID:             uuid.New(),
		ConversationID: conv.ID,
		SenderID:       input.SenderID,
		Text:           text,
		CreatedAt:      time.Now().UTC(),
	}

	// Durability before delivery: a message that fails to persist must never
	// reach the recipient's session.
	if err := s.chatRepo.AppendMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("appending message: %w", err)
	}

	// Presence is checked only after the persistence call returns, so a
	// recipient who connected while the write was in flight still gets the
	// live push.
	recipientID := conv.OtherMember(input.SenderID)
	if s.notifier != nil {
		if delivered := s.notifier.DeliverMessage(recipientID, msg); !delivered {
			s.log.Debug().
				Stringer("recipient", recipientID).
				Stringer("conversation", conv.ID).
				Msg("recipient offline, message stored for later fetch")
		}
	}

	return msg, nil
}

// GetOrCreateConversation resolves the conversation between the caller and
// another user, creating it on first contact.
func (s *ChatService) GetOrCreateConversation(ctx context.Context, userID, otherID uuid.UUID) (*domain.Conversation, error) {
	if userID == otherID {
		return nil, ErrCannotChatSelf
	}

	other, err := s.userRepo.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrUserNotFound
	}

	conv, err := s.chatRepo.FindOrCreateConversation(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("resolving conversation: %w", err)
	}

	summary := other.Summary()
	conv.Other = &summary
	return conv, nil
}

// ListConversations returns every conversation the user is a member of,
// annotated with the other member. A member that no longer resolves is
// replaced with a placeholder instead of failing the list.
func (s *ChatService) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.Conversation, error) {
	convs, err := s.chatRepo.ListConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range convs {
		if other := convs[i].Other; other != nil && other.Username == "" {
			other.Username = "deleted_user"
			other.Name = "Deleted User"
		}
	}

	if convs == nil {
		convs = []domain.Conversation{}
	}
	return convs, nil
}

// ListMessages returns the conversation's messages in creation order.
func (s *ChatService) ListMessages(ctx context.Context, userID, conversationID uuid.UUID, limit int) ([]domain.Message, error) {
	if _, err := s.requireParticipant(ctx, userID, conversationID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > 500 {
		limit = 200
	}

	messages, err := s.chatRepo.ListMessages(ctx, conversationID, limit)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

func (s *ChatService) resolveConversation(ctx context.Context, input SendInput) (*domain.Conversation, error) {
	if input.ConversationID != nil {
		return s.requireParticipant(ctx, input.SenderID, *input.ConversationID)
	}

	if input.RecipientID == nil {
		return nil, ErrRecipientRequired
	}
	if *input.RecipientID == input.SenderID {
		return nil, ErrCannotChatSelf
	}

	// First contact creates the conversation, so the recipient must resolve
	// before anything is written.
	recipient, err := s.userRepo.GetByID(ctx, *input.RecipientID)
	if err != nil {
		return nil, err
	}
	if recipient == nil {
		return nil, ErrUserNotFound
	}

	conv, err := s.chatRepo.FindOrCreateConversation(ctx, input.SenderID, *input.RecipientID)
	if err != nil {
		return nil, fmt.Errorf("resolving conversation: %w", err)
	}
	return conv, nil
}

func (s *ChatService) requireParticipant(ctx context.Context, userID, conversationID uuid.UUID) (*domain.Conversation, error) {
	conv, err := s.chatRepo.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, ErrConversationNotFound
	}
	if !conv.HasMember(userID) {
		return nil, ErrNotParticipant
	}
	return conv, nil
}
