package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

// LikeService handles liking and unliking warbles.
type LikeService struct {
	likeRepo    repository.LikeRepository
	messageRepo repository.MessageRepository
}

// NewLikeService returns a new LikeService.
func NewLikeService(likeRepo repository.LikeRepository, messageRepo repository.MessageRepository) *LikeService {
	return &LikeService{likeRepo: likeRepo, messageRepo: messageRepo}
}

// ToggleLike likes the message if it is not liked, and unlikes it otherwise.
// It returns true when the message ends up liked. Users cannot like their
// own warbles.
func (s *LikeService) ToggleLike(ctx context.Context, userID, messageID uint) (bool, error) {
	message, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return false, err
	}
	if message.UserID == userID {
		return false, models.NewForbiddenError("You cannot like your own warble")
	}

	liked, err := s.likeRepo.Exists(ctx, userID, messageID)
	if err != nil {
		return false, err
	}

	if liked {
		if err := s.likeRepo.Delete(ctx, userID, messageID); err != nil {
			return false, err
		}
		observability.LikeToggles.WithLabelValues("unliked").Inc()
		return false, nil
	}

	like := &models.Like{UserID: userID, MessageID: messageID}
	if err := s.likeRepo.Create(ctx, like); err != nil {
		return false, err
	}
	observability.LikeToggles.WithLabelValues("liked").Inc()
	return true, nil
}

// GetLikedMessages returns the warbles userID has liked, newest first.
func (s *LikeService) GetLikedMessages(ctx context.Context, userID uint) ([]models.Message, error) {
	return s.likeRepo.GetLikedMessages(ctx, userID)
}

// CountForUser returns how many warbles userID has liked.
func (s *LikeService) CountForUser(ctx context.Context, userID uint) (int64, error) {
	return s.likeRepo.CountForUser(ctx, userID)
}

// IsLiked reports whether userID has liked the message.
func (s *LikeService) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, messageID)
}
