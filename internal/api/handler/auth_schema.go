package handler

import "github.com/eventify/eventify-api/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Request / Response types ---

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	PhotoURL string `json:"photoURL" validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Message string         `json:"message"`
	User    domain.Profile `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type verifyTokenResponse struct {
	Valid   bool            `json:"valid"`
	User    *domain.Profile `json:"user,omitempty"`
	Message string          `json:"message,omitempty"`
}
