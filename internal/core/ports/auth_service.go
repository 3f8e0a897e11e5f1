package ports

import (
	"context"
	"time"

	"github.com/eventify/eventify-api/internal/core/domain"
)

// RegisterInput carries the validated registration fields.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	PhotoURL string
}

// Credentials is a session handed to the transport layer for cookie delivery.
type Credentials struct {
	Token     string
	ExpiresAt time.Time
}

// AuthService orchestrates registration, login, and logout.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, Credentials, error)
	Login(ctx context.Context, email, password string) (*domain.User, Credentials, error)
	Logout(ctx context.Context, token string) error
}
