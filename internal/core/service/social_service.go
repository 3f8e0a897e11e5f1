package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"github.com/eventify/eventify-api/internal/core/domain"
	"github.com/eventify/eventify-api/internal/core/ports"
)

// SocialService maintains the follow/unfollow relation between users.
type SocialService struct {
	users ports.UserRepository
	log   zerolog.Logger
}

func NewSocialService(users ports.UserRepository, log zerolog.Logger) *SocialService {
	return &SocialService{users: users, log: log}
}

// Follow adds the target to the caller's following set and the caller to the
// target's followers set. Both writes use set semantics, so repeating a follow
// is a no-op.
func (s *SocialService) Follow(ctx context.Context, caller *domain.User, targetID string) error {
	if targetID == caller.ID {
		return domain.ErrSelfFollow
	}
	if err := s.ensureTarget(ctx, targetID); err != nil {
		return err
	}

	if err := s.users.Follow(ctx, caller.ID, targetID); err != nil {
		return err
	}
	s.log.Info().Str("follower_id", caller.ID).Str("target_id", targetID).Msg("user followed")
	return nil
}

// Unfollow removes the edge in both directions. Unfollowing a user that was
// never followed is a no-op.
func (s *SocialService) Unfollow(ctx context.Context, caller *domain.User, targetID string) error {
	if err := s.ensureTarget(ctx, targetID); err != nil {
		return err
	}

	if err := s.users.Unfollow(ctx, caller.ID, targetID); err != nil {
		return err
	}
	s.log.Info().Str("follower_id", caller.ID).Str("target_id", targetID).Msg("user unfollowed")
	return nil
}

func (s *SocialService) ensureTarget(ctx context.Context, targetID string) error {
	_, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}
