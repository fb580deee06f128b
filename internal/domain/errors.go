package domain

import (
	"errors"
)

// Kind classifies every failure a service operation can report.
type Kind int

const (
	KindUnexpected Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not found"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is the single error type returned across service boundaries.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) error     { return &Error{Kind: KindValidation, Msg: msg} }
func Authentication(msg string) error { return &Error{Kind: KindAuthentication, Msg: msg} }
func Authorization(msg string) error  { return &Error{Kind: KindAuthorization, Msg: msg} }
func NotFound(msg string) error       { return &Error{Kind: KindNotFound, Msg: msg} }
func Conflict(msg string) error       { return &Error{Kind: KindConflict, Msg: msg} }

// Unexpected wraps an unclassified failure. The message shown to callers is only the kind.
func Unexpected(op string, err error) error {
	return &Error{Kind: KindUnexpected, Msg: op, Err: err}
}

// KindOf returns the kind of err, KindUnexpected for anything outside the taxonomy.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindUnexpected
}

// IsKind reports whether err is a domain error of kind k.
func IsKind(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// Message returns the caller-facing message for err.
func Message(err error) string {
	var de *Error
	if errors.As(err, &de) && de.Kind != KindUnexpected {
		return de.Msg
	}
	return "internal error"
}

// Common messages. Ownership-masked lookups reuse the same not-found text.
var (
	ErrSongNotFound     = NotFound("song not found")
	ErrPlaylistNotFound = NotFound("playlist not found")
	ErrUserNotFound     = NotFound("user not found")
	ErrArtistNotFound   = NotFound("artist not found")
	ErrDuplicateMember  = Conflict("song already in playlist")
	ErrInvalidSession   = Authentication("invalid session")
	ErrUnauthenticated  = Authentication("authentication required")
)
