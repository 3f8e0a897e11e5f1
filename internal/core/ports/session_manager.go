package ports

import (
	"context"

	"github.com/eventify/eventify-api/internal/core/domain"
)

// SessionManager issues, validates, and invalidates opaque bearer tokens.
// Session state lives entirely on the user record in the shared store; the
// manager holds no state of its own.
type SessionManager interface {
	// Issue generates a fresh opaque token for the user and persists it,
	// replacing any previous session.
	Issue(ctx context.Context, userID string) (Credentials, error)
	// Validate resolves a presented token to its user. An unknown token and
	// an expired one fail identically with domain.ErrSessionInvalid.
	Validate(ctx context.Context, token string) (*domain.User, error)
	// Invalidate clears the session holding the token. Idempotent.
	Invalidate(ctx context.Context, token string) error
}
