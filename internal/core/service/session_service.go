package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventify/eventify-api/internal/core/domain"
	"github.com/eventify/eventify-api/internal/core/ports"
)

const tokenBytes = 32

// SessionService manages opaque bearer-token sessions. Tokens and their expiry
// live on the user document; this service never caches them.
type SessionService struct {
	users ports.UserRepository
	ttl   time.Duration
	log   zerolog.Logger
	now   func() time.Time
}

func NewSessionService(users ports.UserRepository, ttl time.Duration, log zerolog.Logger) *SessionService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SessionService{users: users, ttl: ttl, log: log, now: time.Now}
}

// Issue generates a random opaque token, persists it on the user record with
// expiry now+TTL, and returns it. Any prior session is overwritten, so a user
// holds at most one active session.
func (s *SessionService) Issue(ctx context.Context, userID string) (ports.Credentials, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return ports.Credentials{}, fmt.Errorf("generate session token: %w", err)
	}
	token := hex.EncodeToString(b)
	expiresAt := s.now().UTC().Add(s.ttl)

	if err := s.users.UpdateSession(ctx, userID, token, expiresAt); err != nil {
		return ports.Credentials{}, fmt.Errorf("persist session: %w", err)
	}
	return ports.Credentials{Token: token, ExpiresAt: expiresAt}, nil
}

// Validate resolves the token to its user via exact-match lookup. A missing,
// unknown, or expired token all fail with domain.ErrSessionInvalid; validation
// never renews the expiry.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrSessionInvalid
	}

	user, err := s.users.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrSessionInvalid
		}
		return nil, err
	}

	if !user.HasActiveSession(s.now().UTC()) {
		return nil, domain.ErrSessionInvalid
	}
	return user, nil
}

// Invalidate clears the session fields on whichever user holds the token.
// Invalidating an unknown or already-cleared token is a no-op.
func (s *SessionService) Invalidate(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.users.ClearSessionByToken(ctx, token); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Debug().Msg("session invalidated")
	return nil
}
