package ports

import (
	"context"
	"time"

	"github.com/eventify/eventify-api/internal/core/domain"
)

// CreateEventInput carries the validated fields for creating an event.
type CreateEventInput struct {
	Title       string
	Description string
	Location    string
	DateTime    time.Time
}

// JoinResult is the outcome of a successful join: the updated membership.
type JoinResult struct {
	EventID       string
	AttendeeCount int
	Attendees     []string
}

// EventService orchestrates event CRUD and the idempotent join operation.
type EventService interface {
	Create(ctx context.Context, creator *domain.User, in CreateEventInput) (*domain.Event, error)
	ListAll(ctx context.Context) ([]*domain.Event, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.Event, error)
	Update(ctx context.Context, caller *domain.User, eventID string, upd EventUpdate) (*domain.Event, error)
	Delete(ctx context.Context, caller *domain.User, eventID string) error
	// Join adds the caller to the event's attendee set. joinEmail is the
	// identifier presented in the request body; it must match the caller's
	// own email or the join is rejected with domain.ErrJoinIdentityMismatch.
	Join(ctx context.Context, caller *domain.User, eventID, joinEmail string) (*JoinResult, error)
}
