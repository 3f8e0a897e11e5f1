package ports

import (
	"context"

	"github.com/eventify/eventify-api/internal/core/domain"
)

// SocialService maintains the follow/unfollow relation between users.
type SocialService interface {
	Follow(ctx context.Context, caller *domain.User, targetID string) error
	Unfollow(ctx context.Context, caller *domain.User, targetID string) error
}
