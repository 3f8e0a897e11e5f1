package domain

import "time"

// User models an authenticated account, including its embedded session.
// The session lives on the user document itself so that any server instance
// sharing the store sees the same session state.
type User struct {
	ID             string     `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	PhotoURL       string     `json:"photoURL,omitempty"`
	PasswordHash   string     `json:"-"`
	Salt           string     `json:"-"`
	SessionToken   string     `json:"-"`
	TokenExpiresAt *time.Time `json:"-"`
	Followers      []string   `json:"followers"`
	Following      []string   `json:"following"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// HasActiveSession reports whether the user carries a non-expired session token.
func (u *User) HasActiveSession(now time.Time) bool {
	return u.SessionToken != "" && u.TokenExpiresAt != nil && now.Before(*u.TokenExpiresAt)
}

// Profile is the public projection of a user returned by the API.
// It never exposes credentials or session fields.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	PhotoURL string `json:"photoURL,omitempty"`
}

// PublicProfile projects the user onto its API-safe fields.
func (u *User) PublicProfile() Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		PhotoURL: u.PhotoURL,
	}
}
