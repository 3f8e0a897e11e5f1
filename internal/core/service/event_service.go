package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventify/eventify-api/internal/api/metrics"
	"github.com/eventify/eventify-api/internal/core/domain"
	"github.com/eventify/eventify-api/internal/core/ports"
)

// ListingCache abstracts the cached public event listing (Redis). A nil-safe
// no-op implementation is acceptable; cache failures must never fail a request.
type ListingCache interface {
	Get(ctx context.Context) ([]*domain.Event, bool)
	Set(ctx context.Context, events []*domain.Event)
	Invalidate(ctx context.Context)
}

// EventService implements event CRUD, ownership checks, and the idempotent
// join operation.
type EventService struct {
	events ports.EventRepository
	cache  ListingCache
	log    zerolog.Logger
	now    func() time.Time
}

func NewEventService(events ports.EventRepository, cache ListingCache, log zerolog.Logger) *EventService {
	return &EventService{events: events, cache: cache, log: log, now: time.Now}
}

// Create inserts a new event owned by creator. The scheduled date must be
// strictly in the future.
func (s *EventService) Create(ctx context.Context, creator *domain.User, in ports.CreateEventInput) (*domain.Event, error) {
	now := s.now().UTC()
	if !in.DateTime.After(now) {
		return nil, domain.NewValidationError("event date must be in the future")
	}

	event := &domain.Event{
		Title:         in.Title,
		Description:   in.Description,
		Location:      in.Location,
		DateTime:      in.DateTime.UTC(),
		CreatorID:     creator.ID,
		AttendeeCount: 0,
		Attendees:     []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.events.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx)
	metrics.EventsCreatedTotal.Inc()
	s.log.Info().Str("event_id", created.ID).Str("creator_id", creator.ID).Msg("event created")
	return created, nil
}

// ListAll returns every event, serving from the listing cache when possible.
func (s *EventService) ListAll(ctx context.Context) ([]*domain.Event, error) {
	if s.cache != nil {
		if events, ok := s.cache.Get(ctx); ok {
			metrics.ListingCacheTotal.WithLabelValues("hit").Inc()
			return events, nil
		}
		metrics.ListingCacheTotal.WithLabelValues("miss").Inc()
	}

	events, err := s.events.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, events)
	}
	return events, nil
}

// ListByCreator returns the events created by the given user.
func (s *EventService) ListByCreator(ctx context.Context, creatorID string) ([]*domain.Event, error) {
	return s.events.FindByCreator(ctx, creatorID)
}

// Update applies upd to the event after checking the caller owns it.
func (s *EventService) Update(ctx context.Context, caller *domain.User, eventID string, upd ports.EventUpdate) (*domain.Event, error) {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if !event.IsCreator(caller.ID) {
		return nil, domain.ErrNotEventCreator
	}

	updated, err := s.events.Update(ctx, eventID, upd)
	if err != nil {
		return nil, err
	}

	s.invalidateListing(ctx)
	return updated, nil
}

// Delete removes the event after checking the caller owns it.
func (s *EventService) Delete(ctx context.Context, caller *domain.User, eventID string) error {
	event, err := s.events.FindByID(ctx, eventID)
	if err != nil {
		return err
	}
	if !event.IsCreator(caller.ID) {
		return domain.ErrNotEventCreator
	}

	if err := s.events.Delete(ctx, eventID); err != nil {
		return err
	}

	s.invalidateListing(ctx)
	s.log.Info().Str("event_id", eventID).Msg("event deleted")
	return nil
}

// Join adds the caller to the event's attendee set, keyed by user ID. The
// email presented in the request must be the caller's own; joining on behalf
// of someone else is forbidden. The membership check and the set-add/count
// increment happen inside a single atomic repository mutation, so concurrent
// joins by the same user resolve to exactly one success and duplicates always
// surface as domain.ErrAlreadyJoined.
func (s *EventService) Join(ctx context.Context, caller *domain.User, eventID, joinEmail string) (*ports.JoinResult, error) {
	if joinEmail == "" || !emailPattern.MatchString(joinEmail) {
		return nil, domain.NewValidationError("valid email is required")
	}
	if joinEmail != caller.Email {
		return nil, domain.ErrJoinIdentityMismatch
	}

	event, err := s.events.AddAttendee(ctx, eventID, caller.ID)
	if err != nil {
		metrics.EventJoinsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	s.invalidateListing(ctx)
	metrics.EventJoinsTotal.WithLabelValues("joined").Inc()
	s.log.Info().Str("event_id", eventID).Str("user_id", caller.ID).Msg("user joined event")

	return &ports.JoinResult{
		EventID:       event.ID,
		AttendeeCount: event.AttendeeCount,
		Attendees:     event.Attendees,
	}, nil
}

func (s *EventService) invalidateListing(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}
