package domain

import "errors"

// Kind classifies engine errors for the transport boundary.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindForbidden           Kind = "forbidden"
	KindInvalidState        Kind = "invalid_state"
	KindInvalidParticipants Kind = "invalid_participants"
	KindInternal            Kind = "internal"
)

// Error tags a message with a kind so the boundary never has to
// match on message text.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(msg string) error  { return &Error{Kind: KindNotFound, Message: msg} }
func Forbidden(msg string) error { return &Error{Kind: KindForbidden, Message: msg} }
func InvalidState(msg string) error {
	return &Error{Kind: KindInvalidState, Message: msg}
}
func InvalidParticipants(msg string) error {
	return &Error{Kind: KindInvalidParticipants, Message: msg}
}

// KindOf returns the kind of err, or KindInternal for anything unmapped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}
