package handler

import "time"

type createEventRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location"    validate:"required"`
	DateTime    time.Time `json:"dateTime"    validate:"required"`
}

type updateEventRequest struct {
	Title       string    `json:"title"       validate:"required"`
	Description string    `json:"description" validate:"required"`
	Location    string    `json:"location"    validate:"required"`
	DateTime    time.Time `json:"dateTime"    validate:"required"`
}

type joinEventRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type joinEventResponse struct {
	EventID       string   `json:"eventId"`
	AttendeeCount int      `json:"attendeeCount"`
	Attendees     []string `json:"attendees"`
}

type deleteEventResponse struct {
	Success bool   `json:"success"`
	EventID string `json:"eventId"`
}
