package catalogue

import "errors"

var (
	// ErrNotFound reports an unknown stop or bus, or a missing distance lookup.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput reports an ingested record with a missing or malformed field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrMissingDistance reports a route hop between two different stops with
	// no road distance recorded in either direction.
	ErrMissingDistance = errors.New("missing distance")
)
