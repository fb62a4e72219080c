package service

import (
	"context"
	"strings"

	"warbler/internal/models"
	"warbler/internal/policy"
	"warbler/internal/repository"
)

// MessageService provides warble posting, reading, and deletion.
type MessageService struct {
	userRepo    repository.UserRepository
	messageRepo repository.MessageRepository
	likeRepo    repository.LikeRepository
}

// NewMessageService returns a new MessageService.
func NewMessageService(userRepo repository.UserRepository, messageRepo repository.MessageRepository, likeRepo repository.LikeRepository) *MessageService {
	return &MessageService{
		userRepo:    userRepo,
		messageRepo: messageRepo,
		likeRepo:    likeRepo,
	}
}

// PostMessage validates and stores a new warble for the authenticated caller.
func (s *MessageService) PostMessage(ctx context.Context, ident policy.Identity, text string) (*models.Message, error) {
	if err := policy.RequireAuth(ident); err != nil {
		return nil, err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.NewValidationError("Message text is required")
	}
	if len([]rune(text)) > models.MaxMessageLength {
		return nil, models.NewValidationError("Message must be 140 characters or fewer")
	}

	msg := &models.Message{
		Text:   text,
		UserID: ident.UserID,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetMessage returns a single warble, annotated with its like count and
// whether the viewer has liked it.
func (s *MessageService) GetMessage(ctx context.Context, ident policy.Identity, id uint) (*models.Message, error) {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.likeRepo.CountByMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	msg.LikesCount = int(count)
	if ident.Authenticated {
		liked, err := s.likeRepo.Exists(ctx, ident.UserID, id)
		if err != nil {
			return nil, err
		}
		msg.Liked = liked
	}
	return msg, nil
}

// DeleteMessage removes a warble. Only its author may do so.
func (s *MessageService) DeleteMessage(ctx context.Context, ident policy.Identity, id uint) error {
	msg, err := s.messageRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := policy.CanDeleteMessage(ident, msg); err != nil {
		return err
	}
	return s.messageRepo.Delete(ctx, id)
}

// MessagesBy returns a user's warbles, newest first, annotated for the viewer.
func (s *MessageService) MessagesBy(ctx context.Context, ident policy.Identity, userID uint, limit, offset int) ([]models.Message, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return nil, err
	}
	msgs, err := s.messageRepo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, ident, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// Feed returns the home timeline for the caller: their own warbles plus
// those of the users they follow, newest first.
func (s *MessageService) Feed(ctx context.Context, ident policy.Identity, limit int) ([]models.Message, error) {
	if err := policy.RequireAuth(ident); err != nil {
		return nil, err
	}
	msgs, err := s.messageRepo.Feed(ctx, ident.UserID, limit)
	if err != nil {
		return nil, err
	}
	if err := s.annotate(ctx, ident, msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

// annotate sets the Liked flag on each message for an authenticated viewer.
func (s *MessageService) annotate(ctx context.Context, ident policy.Identity, msgs []models.Message) error {
	if !ident.Authenticated || len(msgs) == 0 {
		return nil
	}
	ids := make([]uint, len(msgs))
	for i := range msgs {
		ids[i] = msgs[i].ID
	}
	likedIDs, err := s.likeRepo.LikedMessageIDs(ctx, ident.UserID, ids)
	if err != nil {
		return err
	}
	likedSet := make(map[uint]struct{}, len(likedIDs))
	for _, id := range likedIDs {
		likedSet[id] = struct{}{}
	}
	for i := range msgs {
		_, liked := likedSet[msgs[i].ID]
		msgs[i].Liked = liked
	}
	return nil
}
