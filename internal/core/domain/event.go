package domain

import "time"

// Event is the core aggregate: a listed happening that users can join.
//
// Attendees is a set keyed by user ID (the canonical attendee identifier).
// AttendeeCount must always equal len(Attendees); both are maintained by a
// single atomic store mutation, never by separate writes.
type Event struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Location      string    `json:"location"`
	DateTime      time.Time `json:"dateTime"`
	CreatorID     string    `json:"creatorId"`
	AttendeeCount int       `json:"attendeeCount"`
	Attendees     []string  `json:"attendees"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsCreator reports whether the given user created this event.
func (e *Event) IsCreator(userID string) bool {
	return e.CreatorID == userID
}

// HasAttendee reports whether the given user already joined this event.
func (e *Event) HasAttendee(userID string) bool {
	for _, id := range e.Attendees {
		if id == userID {
			return true
		}
	}
	return false
}
