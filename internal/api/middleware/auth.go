package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventify/eventify-api/internal/core/domain"
	"github.com/eventify/eventify-api/internal/core/ports"
)

const (
	// CookieName is the session cookie carrying the opaque token.
	CookieName = "authToken"
	// ContextUserKey is where the authenticated user is stored on the echo context.
	ContextUserKey = "auth.user"
	// ContextTokenKey is where the presented session token is stored.
	ContextTokenKey = "auth.token"
)

// ExtractToken reads the session token from the authToken cookie, falling back
// to an Authorization: Bearer header. Returns "" when neither is present.
func ExtractToken(c echo.Context) string {
	if cookie, err := c.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}

// ClearSessionCookie expires the session cookie on the response. Called
// whenever a presented token turns out to be invalid or expired, and on logout.
func ClearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

// Session validates the presented session token and injects the resolved user
// into the request context. A missing, unknown, or expired token fails with
// 401 and clears the cookie so clients drop stale sessions.
func Session(sessions ports.SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ExtractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}

			user, err := sessions.Validate(c.Request().Context(), token)
			if err != nil {
				if !errors.Is(err, domain.ErrSessionInvalid) {
					// Store failure, not a bad token. Keep the cookie and let
					// the central handler answer 500.
					return err
				}
				ClearSessionCookie(c)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(ContextUserKey, user)
			c.Set(ContextTokenKey, token)
			return next(c)
		}
	}
}
