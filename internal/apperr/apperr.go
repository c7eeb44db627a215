package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies failures so controllers can map them to HTTP statuses and
// callers can decide whether a retry makes sense.
type Kind int

const (
	// Validation covers malformed or out-of-range input. Never retried.
	Validation Kind = iota
	// State covers lifecycle transitions attempted from the wrong state.
	State
	// Duplicate covers uniqueness violations on answers or results.
	// Idempotent callers should treat it as "already done".
	Duplicate
	// NotFound covers unknown sessions, questions or results.
	NotFound
	// Upstream covers evaluator/behavioral collaborator failures. Scoring
	// paths recover from it locally; it only surfaces from non-scoring
	// operations such as question generation.
	Upstream
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case State:
		return "state"
	case Duplicate:
		return "duplicate"
	case NotFound:
		return "not_found"
	case Upstream:
		return "upstream"
	default:
		return "unknown"
	}
}

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf reports the Kind of err, or ok=false when err is not an *Error.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
