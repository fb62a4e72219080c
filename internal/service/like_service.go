package service

import (
	"context"

	"warbler/internal/models"
	"warbler/internal/policy"
	"warbler/internal/repository"
)

// LikeService manages likes on warbles.
type LikeService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	likeRepo    repository.LikeRepository
}

// NewLikeService returns a new LikeService.
func NewLikeService(userRepo repository.UserRepository, messageRepo repository.MessageRepository, likeRepo repository.LikeRepository) *LikeService {
	return &LikeService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		likeRepo:    likeRepo,
	}
}

// LikeMessage records a like by the caller on the given warble. Users cannot
// like their own warbles. Liking an already-liked warble is a no-op.
func (s *LikeService) LikeMessage(ctx context.Context, ident policy.Identity, messageID uint) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if err := policy.CanLikeMessage(ident, msg); err != nil {
		return err
	}
	return s.likeRepo.Create(ctx, ident.UserID, messageID)
}

// UnlikeMessage removes the caller's like from the given warble. Removing a
// like that does not exist is a no-op.
func (s *LikeService) UnlikeMessage(ctx context.Context, ident policy.Identity, messageID uint) error {
	if err := policy.RequireAuth(ident); err != nil {
		return err
	}
	if _, err := s.messageRepo.GetByID(ctx, messageID); err != nil {
		return err
	}
	return s.likeRepo.Delete(ctx, ident.UserID, messageID)
}

// IsLiked reports whether the user has liked the warble.
func (s *LikeService) IsLiked(ctx context.Context, userID, messageID uint) (bool, error) {
	return s.likeRepo.Exists(ctx, userID, messageID)
}

// LikedMessagesBy returns the warbles a user has liked, most recent like
// first.
func (s *LikeService) LikedMessagesBy(ctx context.Context, userID uint) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.likeRepo.LikedMessages(ctx, userID)
}
