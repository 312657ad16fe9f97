package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/observability"
	"warbler/internal/repository"
)

// FollowService handles the follow graph.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow makes followerID follow targetID. Following an already-followed
// user is a no-op.
func (s *FollowService) Follow(ctx context.Context, followerID, targetID uint) error {
	if followerID == targetID {
		return models.NewValidationError("You cannot follow yourself")
	}

	// Confirm the target exists so a dangling edge is never created.
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}

	follow := &models.Follow{
		UserBeingFollowedID: targetID,
		UserFollowingID:     followerID,
	}
	if err := s.followRepo.Create(ctx, follow); err != nil {
		return err
	}

	observability.FollowChanges.WithLabelValues("follow").Inc()
	return nil
}

// Unfollow removes the edge. Unfollowing a user who is not followed is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID, targetID uint) error {
	if err := s.followRepo.Delete(ctx, targetID, followerID); err != nil {
		return err
	}
	observability.FollowChanges.WithLabelValues("unfollow").Inc()
	return nil
}

// IsFollowing reports whether followerID follows targetID.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, targetID, followerID)
}

// IsFollowedBy reports whether targetID follows followerID.
func (s *FollowService) IsFollowedBy(ctx context.Context, followerID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, followerID, targetID)
}

// GetFollowing returns the users that userID follows.
func (s *FollowService) GetFollowing(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.GetFollowing(ctx, userID)
}

// GetFollowers returns the users following userID.
func (s *FollowService) GetFollowers(ctx context.Context, userID uint) ([]models.User, error) {
	return s.followRepo.GetFollowers(ctx, userID)
}
