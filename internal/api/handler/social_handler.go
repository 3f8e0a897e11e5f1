package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventify/eventify-api/internal/core/ports"
)

// SocialHandler serves the follow/unfollow endpoints.
type SocialHandler struct {
	social ports.SocialService
}

func NewSocialHandler(social ports.SocialService) *SocialHandler {
	return &SocialHandler{social: social}
}

// Follow adds the target user to the caller's following set.
//
// @Summary      Follow a user
// @Tags         social
// @Produce      json
// @Param        userId  path      string  true  "Target user ID"
// @Success      200     {object}  messageResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /follow/{userId} [post]
func (h *SocialHandler) Follow(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.social.Follow(c.Request().Context(), user, c.Param("userId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Followed successfully"})
}

// Unfollow removes the target user from the caller's following set.
//
// @Summary      Unfollow a user
// @Tags         social
// @Produce      json
// @Param        userId  path      string  true  "Target user ID"
// @Success      200     {object}  messageResponse
// @Failure      400     {object}  errorResponse
// @Failure      404     {object}  errorResponse
// @Router       /unfollow/{userId} [post]
func (h *SocialHandler) Unfollow(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	if err := h.social.Unfollow(c.Request().Context(), user, c.Param("userId")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Unfollowed successfully"})
}
