package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventify/eventify-api/internal/core/domain"
	"github.com/eventify/eventify-api/internal/core/ports"
)

// stubEventRepo is an in-memory ports.EventRepository. AddAttendee performs
// the membership check and the set-add/increment under one lock, mirroring the
// atomicity the Mongo implementation gets from its filtered FindOneAndUpdate.
type stubEventRepo struct {
	mu     sync.Mutex
	seq    int
	events map[string]*domain.Event
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{events: make(map[string]*domain.Event)}
}

func cloneEvent(e *domain.Event) *domain.Event {
	clone := *e
	clone.Attendees = append([]string(nil), e.Attendees...)
	return &clone
}

func (r *stubEventRepo) Create(_ context.Context, event *domain.Event) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	clone := cloneEvent(event)
	clone.ID = fmt.Sprintf("event-%d", r.seq)
	r.events[clone.ID] = clone
	return cloneEvent(clone), nil
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.events[id]; ok {
		return cloneEvent(e), nil
	}
	return nil, domain.ErrEventNotFound
}

func (r *stubEventRepo) FindAll(_ context.Context) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Event{}
	for _, e := range r.events {
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

func (r *stubEventRepo) FindByCreator(_ context.Context, creatorID string) ([]*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.Event{}
	for _, e := range r.events {
		if e.CreatorID == creatorID {
			out = append(out, cloneEvent(e))
		}
	}
	return out, nil
}

func (r *stubEventRepo) Update(_ context.Context, id string, upd ports.EventUpdate) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e.Title = upd.Title
	e.Description = upd.Description
	e.Location = upd.Location
	e.DateTime = upd.DateTime
	e.UpdatedAt = time.Now().UTC()
	return cloneEvent(e), nil
}

func (r *stubEventRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *stubEventRepo) AddAttendee(_ context.Context, eventID, userID string) (*domain.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[eventID]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if e.HasAttendee(userID) {
		return nil, domain.ErrAlreadyJoined
	}
	e.Attendees = append(e.Attendees, userID)
	e.AttendeeCount++
	e.UpdatedAt = time.Now().UTC()
	return cloneEvent(e), nil
}

// recordingCache tracks cache traffic for the listing tests.
type recordingCache struct {
	mu          sync.Mutex
	cached      []*domain.Event
	sets, drops int
}

func (c *recordingCache) Get(context.Context) ([]*domain.Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cached == nil {
		return nil, false
	}
	return c.cached, true
}

func (c *recordingCache) Set(_ context.Context, events []*domain.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = events
	c.sets++
}

func (c *recordingCache) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cached = nil
	c.drops++
}

func testUser(id, email string) *domain.User {
	return &domain.User{ID: id, Username: "u-" + id, Email: email}
}

func futureInput() ports.CreateEventInput {
	return ports.CreateEventInput{
		Title:       "Go meetup",
		Description: "Talks and pizza",
		Location:    "Springfield",
		DateTime:    time.Now().Add(48 * time.Hour),
	}
}

func TestEventService_Create(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, nil, zerolog.Nop())
	alice := testUser("u1", "alice@x.com")

	event, err := svc.Create(context.Background(), alice, futureInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if event.CreatorID != "u1" {
		t.Fatalf("creator not set: %+v", event)
	}
	if event.AttendeeCount != 0 || len(event.Attendees) != 0 {
		t.Fatalf("new event must start with no attendees")
	}
}

func TestEventService_Create_RejectsPastDate(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, nil, zerolog.Nop())

	in := futureInput()
	in.DateTime = time.Now().Add(-time.Hour)
	_, err := svc.Create(context.Background(), testUser("u1", "alice@x.com"), in)

	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindValidation {
		t.Fatalf("expected validation error for past date, got %v", err)
	}
	if len(repo.events) != 0 {
		t.Fatalf("rejected event was persisted")
	}
}

func TestEventService_Join_IdempotentSequential(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, nil, zerolog.Nop())
	alice := testUser("u1", "alice@x.com")
	bob := testUser("u2", "bob@x.com")

	event, err := svc.Create(context.Background(), alice, futureInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	result, err := svc.Join(context.Background(), bob, event.ID, bob.Email)
	if err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if result.AttendeeCount != 1 || len(result.Attendees) != 1 || result.Attendees[0] != "u2" {
		t.Fatalf("unexpected join result: %+v", result)
	}

	if _, err := svc.Join(context.Background(), bob, event.ID, bob.Email); !errors.Is(err, domain.ErrAlreadyJoined) {
		t.Fatalf("second join: expected ErrAlreadyJoined, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), event.ID)
	if stored.AttendeeCount != 1 {
		t.Fatalf("count drifted after duplicate join: %d", stored.AttendeeCount)
	}
}

func TestEventService_Join_ConcurrentDistinctUsers(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, nil, zerolog.Nop())
	creator := testUser("creator", "creator@x.com")

	event, err := svc.Create(context.Background(), creator, futureInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	const n = 32
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			u := testUser(fmt.Sprintf("u%d", i), fmt.Sprintf("u%d@x.com", i))
			_, errs[i] = svc.Join(context.Background(), u, event.ID, u.Email)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
	}

	stored, _ := repo.FindByID(context.Background(), event.ID)
	if stored.AttendeeCount != n {
		t.Fatalf("expected count %d, got %d", n, stored.AttendeeCount)
	}
	distinct := make(map[string]bool)
	for _, id := range stored.Attendees {
		distinct[id] = true
	}
	if len(distinct) != n {
		t.Fatalf("expected %d distinct attendees, got %d", n, len(distinct))
	}
}

func TestEventService_Join_IdentityMismatch(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, nil, zerolog.Nop())
	alice := testUser("u1", "alice@x.com")
	bob := testUser("u2", "bob@x.com")

	event, err := svc.Create(context.Background(), alice, futureInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// Bob presents Alice's email: forbidden, nothing mutated.
	if _, err := svc.Join(context.Background(), bob, event.ID, alice.Email); !errors.Is(err, domain.ErrJoinIdentityMismatch) {
		t.Fatalf("expected ErrJoinIdentityMismatch, got %v", err)
	}
	stored, _ := repo.FindByID(context.Background(), event.ID)
	if stored.AttendeeCount != 0 {
		t.Fatalf("mismatched join mutated the event")
	}
}

func TestEventService_Join_EventNotFound(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, nil, zerolog.Nop())
	bob := testUser("u2", "bob@x.com")

	if _, err := svc.Join(context.Background(), bob, "missing", bob.Email); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound, got %v", err)
	}
}

func TestEventService_UpdateDelete_OwnershipEnforced(t *testing.T) {
	repo := newStubEventRepo()
	svc := NewEventService(repo, nil, zerolog.Nop())
	alice := testUser("u1", "alice@x.com")
	mallory := testUser("u9", "mallory@x.com")

	event, err := svc.Create(context.Background(), alice, futureInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	upd := ports.EventUpdate{Title: "hijacked", Description: "d", Location: "l", DateTime: event.DateTime}
	if _, err := svc.Update(context.Background(), mallory, event.ID, upd); !errors.Is(err, domain.ErrNotEventCreator) {
		t.Fatalf("expected ErrNotEventCreator on update, got %v", err)
	}
	if err := svc.Delete(context.Background(), mallory, event.ID); !errors.Is(err, domain.ErrNotEventCreator) {
		t.Fatalf("expected ErrNotEventCreator on delete, got %v", err)
	}

	stored, _ := repo.FindByID(context.Background(), event.ID)
	if stored.Title != "Go meetup" {
		t.Fatalf("record was modified by a non-creator")
	}

	// The creator can do both.
	upd.Title = "Go meetup v2"
	updated, err := svc.Update(context.Background(), alice, event.ID, upd)
	if err != nil {
		t.Fatalf("creator update failed: %v", err)
	}
	if updated.Title != "Go meetup v2" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if err := svc.Delete(context.Background(), alice, event.ID); err != nil {
		t.Fatalf("creator delete failed: %v", err)
	}
}

func TestEventService_ListAll_UsesCache(t *testing.T) {
	repo := newStubEventRepo()
	cache := &recordingCache{}
	svc := NewEventService(repo, cache, zerolog.Nop())
	alice := testUser("u1", "alice@x.com")

	event, err := svc.Create(context.Background(), alice, futureInput())
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	// First list misses and populates; second is served from the cache.
	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("expected one cache fill, got %d", cache.sets)
	}
	if _, err := svc.ListAll(context.Background()); err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if cache.sets != 1 {
		t.Fatalf("cache hit must not re-fill, sets=%d", cache.sets)
	}

	// A mutation invalidates the cached listing.
	bob := testUser("u2", "bob@x.com")
	if _, err := svc.Join(context.Background(), bob, event.ID, bob.Email); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if cache.cached != nil {
		t.Fatalf("join did not invalidate the listing cache")
	}
}
