// Package deck holds the typed input-deck document: materials, pin cells,
// assembly lattices, root geometry, meshes, tallies and run settings. The
// Controller owns the current document and is the only place it changes.
package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalid wraps every validation failure.
	ErrInvalid = errors.New("invalid deck entry")
	// ErrNotFound is returned when a named entry does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInUse is returned when deleting an entry other entries refer to.
	ErrInUse = errors.New("in use")
)

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

func notFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
