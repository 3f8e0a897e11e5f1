package ports

import (
	"context"
	"time"

	"github.com/eventify/eventify-api/internal/core/domain"
)

// EventUpdate carries the creator-editable fields for an event update.
type EventUpdate struct {
	Title       string
	Description string
	Location    string
	DateTime    time.Time
}

// EventRepository defines persistence for event records.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	FindByID(ctx context.Context, id string) (*domain.Event, error)
	FindAll(ctx context.Context) ([]*domain.Event, error)
	FindByCreator(ctx context.Context, creatorID string) ([]*domain.Event, error)
	// Update applies upd to the event and stamps updated_at. Returns the
	// updated record or domain.ErrEventNotFound.
	Update(ctx context.Context, id string, upd EventUpdate) (*domain.Event, error)
	Delete(ctx context.Context, id string) error

	// AddAttendee adds userID to the event's attendee set and increments the
	// attendee counter as one atomic store mutation. It returns the updated
	// event, domain.ErrEventNotFound if the event does not exist, or
	// domain.ErrAlreadyJoined if userID was already a member. Implementations
	// must not use a read-then-write pair: the membership check and the
	// set-add + counter increment are a single serialization point.
	AddAttendee(ctx context.Context, eventID, userID string) (*domain.Event, error)
}
