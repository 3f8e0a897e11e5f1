package ports

import (
	"context"
	"time"

	"github.com/eventify/eventify-api/internal/core/domain"
)

// UserRepository defines persistence for user accounts and their embedded
// sessions. The session token behaves as a secondary unique key: FindByToken
// must be an exact-match lookup.
type UserRepository interface {
	// Create inserts a new user. A duplicate email yields domain.ErrEmailInUse.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByToken(ctx context.Context, token string) (*domain.User, error)

	// UpdateSession sets the session token and expiry on the user, replacing
	// any previous session.
	UpdateSession(ctx context.Context, userID, token string, expiresAt time.Time) error
	// ClearSessionByToken unsets the session fields on whichever user holds
	// the token. Clearing an unknown token is not an error.
	ClearSessionByToken(ctx context.Context, token string) error

	// Follow and Unfollow maintain the follower/following edge sets with
	// set semantics on both documents.
	Follow(ctx context.Context, followerID, targetID string) error
	Unfollow(ctx context.Context, followerID, targetID string) error
}
