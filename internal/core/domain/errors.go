package domain

import "fmt"

// ErrorKind classifies a domain failure. The transport layer maps each kind to
// an HTTP status exactly once; nothing anywhere matches on error message text.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindInternal
)

// Error is the tagged error type carried across the service boundary.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Is lets errors.Is match two domain errors by kind and message, so the
// sentinel values below behave like classic sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Sentinel domain conditions.
var (
	ErrInvalidCredentials   = &Error{Kind: KindUnauthorized, Message: "invalid credentials"}
	ErrSessionInvalid       = &Error{Kind: KindUnauthorized, Message: "invalid or expired token"}
	ErrEmailInUse           = &Error{Kind: KindConflict, Message: "email already in use"}
	ErrAlreadyJoined        = &Error{Kind: KindConflict, Message: "user has already joined this event"}
	ErrEventNotFound        = &Error{Kind: KindNotFound, Message: "event not found"}
	ErrUserNotFound         = &Error{Kind: KindNotFound, Message: "user not found"}
	ErrNotEventCreator      = &Error{Kind: KindForbidden, Message: "only the event creator may modify this event"}
	ErrJoinIdentityMismatch = &Error{Kind: KindForbidden, Message: "cannot join on behalf of another user"}
	ErrInvalidID            = &Error{Kind: KindValidation, Message: "invalid id"}
	ErrSelfFollow           = &Error{Kind: KindValidation, Message: "cannot follow yourself"}
)
