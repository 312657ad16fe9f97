package service

import (
	"context"
	"strings"

	"warbler/internal/middleware"
	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// MessageService handles posting, reading, and deleting warbles.
type MessageService struct {
	messageRepo repository.MessageRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(messageRepo repository.MessageRepository) *MessageService {
	return &MessageService{messageRepo: messageRepo}
}

// CreateMessage posts a new warble for the user.
func (s *MessageService) CreateMessage(ctx context.Context, userID uint, text string) (*models.Message, error) {
	span, ctx := observability.NewSpan(ctx, "MessageService.CreateMessage")
	defer span.End()

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Message text is required")
	}
	if len([]rune(text)) > models.MaxMessageLength {
		return nil, models.NewValidationError("Message must be 140 characters or fewer")
	}

	message := &models.Message{
		Text:   text,
		UserID: userID,
	}
	if err := s.messageRepo.Create(ctx, message); err != nil {
		span.SetError(err)
		return nil, err
	}
	span.AddAttributes(attribute.Int("message.id", int(message.ID)))

	observability.WarblesCreated.Inc()
	middleware.Logger.DebugContext(ctx, "warble created",
		"message_id", message.ID, "trace_id", span.TraceID())
	return message, nil
}

// GetMessage fetches a single warble with its author.
func (s *MessageService) GetMessage(ctx context.Context, id uint) (*models.Message, error) {
	return s.messageRepo.GetByID(ctx, id)
}

// GetTimeline returns the home timeline for the user.
func (s *MessageService) GetTimeline(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.messageRepo.GetTimeline(ctx, userID)
}

// GetRecent returns the newest warbles across all users.
func (s *MessageService) GetRecent(ctx context.Context, limit int) ([]models.Message, error) {
	return s.messageRepo.GetRecent(ctx, limit)
}

// DeleteMessage removes a warble. Only the author may delete it.
func (s *MessageService) DeleteMessage(ctx context.Context, userID, messageID uint) error {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if message.UserID != userID {
		return models.NewForbiddenError("You can only delete your own warbles")
	}
	return s.messageRepo.Delete(ctx, messageID)
}
