package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventify/eventify-api/internal/api/middleware"
	"github.com/eventify/eventify-api/internal/core/domain"
)

// currentUser extracts the authenticated user injected by the Session
// middleware. A missing user means the route was wired without the middleware;
// fail closed with 401 rather than proceeding unauthenticated.
func currentUser(c echo.Context) (*domain.User, error) {
	user, ok := c.Get(middleware.ContextUserKey).(*domain.User)
	if !ok || user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication")
	}
	return user, nil
}

// currentToken extracts the session token the caller presented.
func currentToken(c echo.Context) string {
	token, _ := c.Get(middleware.ContextTokenKey).(string)
	return token
}
