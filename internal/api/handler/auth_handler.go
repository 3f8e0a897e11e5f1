package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventify/eventify-api/internal/api/middleware"
	"github.com/eventify/eventify-api/internal/core/domain"
	"github.com/eventify/eventify-api/internal/core/ports"
)

// AuthHandler serves registration, login, logout, and token verification.
type AuthHandler struct {
	auth          ports.AuthService
	sessions      ports.SessionManager
	secureCookies bool
}

func NewAuthHandler(auth ports.AuthService, sessions ports.SessionManager, secureCookies bool) *AuthHandler {
	return &AuthHandler{auth: auth, sessions: sessions, secureCookies: secureCookies}
}

// setSessionCookie delivers the session token as an HTTP-only, same-site-strict
// cookie expiring together with the session.
func (h *AuthHandler) setSessionCookie(c echo.Context, creds ports.Credentials) {
	c.SetCookie(&http.Cookie{
		Name:     middleware.CookieName,
		Value:    creds.Token,
		Path:     "/",
		Expires:  creds.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

// Register creates a new account and logs it in.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, creds, err := h.auth.Register(c.Request().Context(), ports.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		PhotoURL: req.PhotoURL,
	})
	if err != nil {
		return err
	}

	h.setSessionCookie(c, creds)
	return c.JSON(http.StatusCreated, authResponse{
		Message: "User registered and logged in",
		User:    user.PublicProfile(),
	})
}

// Login authenticates a user and rotates their session.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  authResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, creds, err := h.auth.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.setSessionCookie(c, creds)
	return c.JSON(http.StatusOK, authResponse{
		Message: "Login successful",
		User:    user.PublicProfile(),
	})
}

// Logout invalidates the caller's session and clears the cookie.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.auth.Logout(c.Request().Context(), currentToken(c)); err != nil {
		return err
	}

	middleware.ClearSessionCookie(c)
	return c.JSON(http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// VerifyToken reports whether the presented session token is valid, returning
// the public profile when it is. Runs without the Session middleware so it can
// answer 401 with a {valid:false} body instead of the error envelope.
//
// @Summary      Verify the current session token
// @Tags         auth
// @Produce      json
// @Success      200  {object}  verifyTokenResponse
// @Failure      401  {object}  verifyTokenResponse
// @Router       /verify-token [get]
func (h *AuthHandler) VerifyToken(c echo.Context) error {
	token := middleware.ExtractToken(c)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, verifyTokenResponse{Valid: false, Message: "no token provided"})
	}

	user, err := h.sessions.Validate(c.Request().Context(), token)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionInvalid) {
			return err
		}
		middleware.ClearSessionCookie(c)
		return c.JSON(http.StatusUnauthorized, verifyTokenResponse{Valid: false, Message: "invalid or expired token"})
	}

	profile := user.PublicProfile()
	return c.JSON(http.StatusOK, verifyTokenResponse{Valid: true, User: &profile})
}
