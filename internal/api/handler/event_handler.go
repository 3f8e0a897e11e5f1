package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eventify/eventify-api/internal/core/ports"
)

// EventHandler serves event CRUD and the attendee-join endpoint.
type EventHandler struct {
	events ports.EventService
}

func NewEventHandler(events ports.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// ListAll returns every listed event. Public.
//
// @Summary      List all events
// @Tags         events
// @Produce      json
// @Success      200  {array}  domain.Event
// @Router       /events/all [get]
func (h *EventHandler) ListAll(c echo.Context) error {
	events, err := h.events.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// ListMine returns the events created by the authenticated caller.
//
// @Summary      List the caller's events
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  errorResponse
// @Router       /events [get]
func (h *EventHandler) ListMine(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	events, err := h.events.ListByCreator(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Create adds a new event owned by the caller.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        body  body      createEventRequest  true  "Event details"
// @Success      201   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /events [post]
func (h *EventHandler) Create(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req createEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.events.Create(c.Request().Context(), user, ports.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		DateTime:    req.DateTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

// Update modifies an event; only the creator may do so.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id    path      string              true  "Event ID"
// @Param        body  body      updateEventRequest  true  "Updated fields"
// @Success      200   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /events/{id} [put]
func (h *EventHandler) Update(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req updateEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	event, err := h.events.Update(c.Request().Context(), user, c.Param("id"), ports.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		DateTime:    req.DateTime,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// Delete removes an event; only the creator may do so.
//
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Param        id  path      string  true  "Event ID"
// @Success      200  {object}  deleteEventResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /events/{id} [delete]
func (h *EventHandler) Delete(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	eventID := c.Param("id")
	if err := h.events.Delete(c.Request().Context(), user, eventID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, deleteEventResponse{Success: true, EventID: eventID})
}

// Join adds the caller to the event's attendee set. Joining twice yields a 400
// "already joined"; presenting another user's email yields 403.
//
// @Summary      Join an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Event ID"
// @Param        body  body      joinEventRequest  true  "Joining identity"
// @Success      200   {object}  joinEventResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /events/all/{id} [patch]
func (h *EventHandler) Join(c echo.Context) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}

	var req joinEventRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.events.Join(c.Request().Context(), user, c.Param("id"), req.Email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, joinEventResponse{
		EventID:       result.EventID,
		AttendeeCount: result.AttendeeCount,
		Attendees:     result.Attendees,
	})
}
