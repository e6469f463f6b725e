package tuleap

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when the service answers a read with an
	// empty body.
	ErrEmptyResponse = errors.New("empty response body")

	// ErrUnknownTracker is returned when an artifact read references a
	// tracker whose structure could not be fetched.
	ErrUnknownTracker = errors.New("unknown tracker structure")
)

// StatusError reports a non-success HTTP status from the tracker service.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: status %d", e.Method, e.Path, e.Code)
}

// EncodeError reports a field whose kind cannot be encoded into a write
// fragment. It indicates schema drift rather than bad user input and fails
// the single write operation that triggered it.
type EncodeError struct {
	Field string
	Kind  FieldKind
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("field %q: kind %s is not encodable", e.Field, e.Kind)
}
