package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventify/eventify-api/internal/api/metrics"
	"github.com/eventify/eventify-api/internal/core/domain"
	"github.com/eventify/eventify-api/internal/core/ports"
	"github.com/eventify/eventify-api/internal/pkg/hash"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// AuthService implements registration, login, and logout on top of the user
// repository and the session manager.
type AuthService struct {
	users    ports.UserRepository
	sessions ports.SessionManager
	log      zerolog.Logger
}

func NewAuthService(users ports.UserRepository, sessions ports.SessionManager, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, log: log}
}

// validateRegistration returns the first violated rule, or nil.
func validateRegistration(in ports.RegisterInput) *domain.Error {
	if len(in.Username) < 3 {
		return domain.NewValidationError("username must be at least 3 characters long")
	}
	if !emailPattern.MatchString(in.Email) {
		return domain.NewValidationError("invalid email format")
	}
	if len(in.Password) < 6 {
		return domain.NewValidationError("password must be at least 6 characters long")
	}
	return nil
}

// Register creates a new account and logs it in immediately: the returned
// credentials are a freshly issued session for the new user.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.User, ports.Credentials, error) {
	if verr := validateRegistration(in); verr != nil {
		return nil, ports.Credentials{}, verr
	}

	passwordHash, salt, err := hash.Derive(in.Password)
	if err != nil {
		return nil, ports.Credentials{}, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PhotoURL:     in.PhotoURL,
		PasswordHash: passwordHash,
		Salt:         salt,
		Followers:    []string{},
		Following:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, ports.Credentials{}, err
	}

	creds, err := s.sessions.Issue(ctx, created.ID)
	if err != nil {
		return nil, ports.Credentials{}, err
	}

	metrics.RegistrationsTotal.Inc()
	s.log.Info().Str("user_id", created.ID).Msg("user registered")
	return created, creds, nil
}

// Login verifies credentials and rotates the session. Unknown email and wrong
// password fail identically to avoid account enumeration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, ports.Credentials, error) {
	if email == "" || password == "" {
		return nil, ports.Credentials{}, domain.NewValidationError("email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			return nil, ports.Credentials{}, domain.ErrInvalidCredentials
		}
		return nil, ports.Credentials{}, err
	}

	if !hash.Verify(password, user.Salt, user.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		return nil, ports.Credentials{}, domain.ErrInvalidCredentials
	}

	creds, err := s.sessions.Issue(ctx, user.ID)
	if err != nil {
		return nil, ports.Credentials{}, err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, creds, nil
}

// Logout invalidates the presented session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Invalidate(ctx, token)
}
