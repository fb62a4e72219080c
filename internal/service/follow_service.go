package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/policy"
	"warbler/internal/repository"
)

// FollowService manages follow edges between users.
type FollowService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

// NewFollowService returns a new FollowService.
func NewFollowService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *FollowService {
	return &FollowService{
		userRepo:   userRepo,
		followRepo: followRepo,
	}
}

// FollowUser creates a follow edge from the caller to the target user.
// Following someone already followed is a no-op.
func (s *FollowService) FollowUser(ctx context.Context, ident policy.Identity, targetID uint) error {
	if err := policy.RequireAuth(ident); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Create(ctx, ident.UserID, targetID)
}

// UnfollowUser removes the follow edge from the caller to the target user.
// Unfollowing someone not followed is a no-op.
func (s *FollowService) UnfollowUser(ctx context.Context, ident policy.Identity, targetID uint) error {
	if err := policy.RequireAuth(ident); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.followRepo.Delete(ctx, ident.UserID, targetID)
}

// IsFollowing reports whether userID follows targetID.
func (s *FollowService) IsFollowing(ctx context.Context, userID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, userID, targetID)
}

// IsFollowedBy reports whether targetID follows userID.
func (s *FollowService) IsFollowedBy(ctx context.Context, userID, targetID uint) (bool, error) {
	return s.followRepo.Exists(ctx, targetID, userID)
}

// Followers returns the users following the given user.
func (s *FollowService) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Followers(ctx, userID)
}

// Following returns the users the given user follows.
func (s *FollowService) Following(ctx context.Context, userID uint) ([]models.User, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.followRepo.Following(ctx, userID)
}
