package repository

import (
	"context"
	"errors"

	"warbler/internal/cache"
	"warbler/internal/models"
	"warbler/internal/observability"

	"gorm.io/gorm"
)

// TimelineLimit caps how many messages the home timeline returns.
const TimelineLimit = 100

// MessageRepository defines persistence operations for warbles.
type MessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	GetByID(ctx context.Context, id uint) (*models.Message, error)
	GetByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error)
	GetTimeline(ctx context.Context, userID uint) ([]models.Message, error)
	GetRecent(ctx context.Context, limit int) ([]models.Message, error)
	Delete(ctx context.Context, id uint) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository returns a new MessageRepository implementation.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, message *models.Message) error {
	defer observability.TrackQuery("insert", "messages")()
	if err := r.db.WithContext(ctx).Create(message).Error; err != nil {
		return models.NewInternalError(err)
	}
	// The author's own timeline includes the new warble immediately.
	cache.InvalidateTimeline(ctx, message.UserID)
	return nil
}

func (r *messageRepository) GetByID(ctx context.Context, id uint) (*models.Message, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetByID", "messages")
	defer span.End()

	var message models.Message
	err := cache.Aside(ctx, cache.MessageKey(id), &message, cache.MessageTTL, func() error {
		defer observability.TrackQuery("select", "messages")()
		if err := r.db.WithContext(ctx).Preload("User").First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Message", id)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) GetByUser(ctx context.Context, userID uint, limit int) ([]models.Message, error) {
	var messages []models.Message
	if limit <= 0 {
		limit = TimelineLimit
	}
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

// GetTimeline returns the most recent warbles from the user and the
// accounts the user follows, newest first.
func (r *messageRepository) GetTimeline(ctx context.Context, userID uint) ([]models.Message, error) {
	ctx, span := observability.TraceRepositoryMethod(ctx, "GetTimeline", "messages")
	defer span.End()

	// Short-lived per-viewer cache; new warbles by the viewer and follow
	// changes invalidate it, the TTL bounds staleness from everyone else.
	var messages []models.Message
	err := cache.Aside(ctx, cache.TimelineKey(userID), &messages, cache.TimelineTTL, func() error {
		defer observability.TrackQuery("select", "messages")()

		followedIDs := r.db.Model(&models.Follow{}).
			Select("user_being_followed_id").
			Where("user_following_id = ?", userID)

		if err := r.db.WithContext(ctx).
			Preload("User").
			Where("user_id = ? OR user_id IN (?)", userID, followedIDs).
			Order("created_at DESC").
			Limit(TimelineLimit).
			Find(&messages).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *messageRepository) GetRecent(ctx context.Context, limit int) ([]models.Message, error) {
	var messages []models.Message
	if limit <= 0 {
		limit = TimelineLimit
	}
	if err := r.db.WithContext(ctx).
		Preload("User").
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return messages, nil
}

func (r *messageRepository) Delete(ctx context.Context, id uint) error {
	var authorID uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var message models.Message
		if err := tx.Select("user_id").First(&message, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		authorID = message.UserID
		if err := tx.Where("message_id = ?", id).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Message{}, id).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateMessage(ctx, id)
	if authorID != 0 {
		cache.InvalidateTimeline(ctx, authorID)
	}
	return nil
}
