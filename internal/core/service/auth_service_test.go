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
	"github.com/eventify/eventify-api/internal/pkg/hash"
)

// stubUserRepo is an in-memory ports.UserRepository shared by the auth,
// session, and social service tests.
type stubUserRepo struct {
	mu    sync.Mutex
	seq   int
	users map[string]*domain.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	if u.TokenExpiresAt != nil {
		exp := *u.TokenExpiresAt
		clone.TokenExpiresAt = &exp
	}
	clone.Followers = append([]string(nil), u.Followers...)
	clone.Following = append([]string(nil), u.Following...)
	return &clone
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, domain.ErrEmailInUse
		}
	}
	r.seq++
	clone := cloneUser(user)
	clone.ID = fmt.Sprintf("user-%d", r.seq)
	r.users[clone.ID] = clone
	return cloneUser(clone), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		return cloneUser(u), nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) FindByToken(_ context.Context, token string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.SessionToken != "" && u.SessionToken == token {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) UpdateSession(_ context.Context, userID, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.SessionToken = token
	u.TokenExpiresAt = &expiresAt
	return nil
}

func (r *stubUserRepo) ClearSessionByToken(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.SessionToken == token {
			u.SessionToken = ""
			u.TokenExpiresAt = nil
		}
	}
	return nil
}

func (r *stubUserRepo) Follow(_ context.Context, followerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	addToSet(&r.users[followerID].Following, targetID)
	addToSet(&r.users[targetID].Followers, followerID)
	return nil
}

func (r *stubUserRepo) Unfollow(_ context.Context, followerID, targetID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	removeFromSet(&r.users[followerID].Following, targetID)
	removeFromSet(&r.users[targetID].Followers, followerID)
	return nil
}

func addToSet(set *[]string, v string) {
	for _, s := range *set {
		if s == v {
			return
		}
	}
	*set = append(*set, v)
}

func removeFromSet(set *[]string, v string) {
	out := (*set)[:0]
	for _, s := range *set {
		if s != v {
			out = append(out, s)
		}
	}
	*set = out
}

func newAuthService(repo *stubUserRepo) (*AuthService, *SessionService) {
	sessions := NewSessionService(repo, time.Hour, zerolog.Nop())
	return NewAuthService(repo, sessions, zerolog.Nop()), sessions
}

func TestAuthService_Register_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	user, creds, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Email: "alice@x.com", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.ID == "" {
		t.Fatalf("expected assigned user ID")
	}
	if creds.Token == "" {
		t.Fatalf("expected session token to be issued on registration")
	}
	if user.PasswordHash == "secret1" || user.PasswordHash == "" {
		t.Fatalf("password was not hashed")
	}
	if !hash.Verify("secret1", user.Salt, user.PasswordHash) {
		t.Fatalf("stored hash does not verify against the password")
	}
	if len(user.Followers) != 0 || len(user.Following) != 0 {
		t.Fatalf("expected empty social sets, got %v / %v", user.Followers, user.Following)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	cases := []struct {
		name string
		in   ports.RegisterInput
	}{
		{"short username", ports.RegisterInput{Username: "ab", Email: "a@x.com", Password: "secret1"}},
		{"bad email", ports.RegisterInput{Username: "alice", Email: "not-an-email", Password: "secret1"}},
		{"short password", ports.RegisterInput{Username: "alice", Email: "a@x.com", Password: "abc"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Register(context.Background(), tc.in)
			var de *domain.Error
			if !errors.As(err, &de) || de.Kind != domain.KindValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
	if len(repo.users) != 0 {
		t.Fatalf("validation failures must not create users")
	}
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	if _, _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	_, _, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice2", Email: "alice@x.com", Password: "secret2"})
	if !errors.Is(err, domain.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestAuthService_Login_RotatesSession(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	_, regCreds, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, loginCreds, err := svc.Login(context.Background(), "alice@x.com", "secret1")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if user.Username != "alice" {
		t.Fatalf("unexpected user: %+v", user)
	}
	if loginCreds.Token == "" || loginCreds.Token == regCreds.Token {
		t.Fatalf("login must issue a fresh token")
	}

	// The registration token was overwritten: only one active session.
	stored, err := repo.FindByEmail(context.Background(), "alice@x.com")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}
	if stored.SessionToken != loginCreds.Token {
		t.Fatalf("stored token is not the latest issued token")
	}
}

func TestAuthService_Login_BadCredentials(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newAuthService(repo)

	_, _, _ = svc.Register(context.Background(), ports.RegisterInput{Username: "dave", Email: "dave@x.com", Password: "goodpass"})

	// Wrong password and unknown email fail identically so accounts cannot
	// be enumerated.
	if _, _, err := svc.Login(context.Background(), "dave@x.com", "badpass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, _, err := svc.Login(context.Background(), "ghost@x.com", "whatever"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestAuthService_Logout(t *testing.T) {
	repo := newStubUserRepo()
	svc, sessions := newAuthService(repo)

	_, creds, err := svc.Register(context.Background(), ports.RegisterInput{Username: "alice", Email: "alice@x.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	if err := svc.Logout(context.Background(), creds.Token); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if _, err := sessions.Validate(context.Background(), creds.Token); !errors.Is(err, domain.ErrSessionInvalid) {
		t.Fatalf("token still valid after logout: %v", err)
	}

	// Logging out again is a no-op, not an error.
	if err := svc.Logout(context.Background(), creds.Token); err != nil {
		t.Fatalf("repeated logout failed: %v", err)
	}
}
