package criteria

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownDisorder is matched by every lookup failure for a key absent from the catalog.
	ErrUnknownDisorder = errors.New("unknown disorder")
	ErrInvalidEntry    = errors.New("invalid catalog entry")
)

type UnknownDisorderError struct {
	Key string
}

func (e *UnknownDisorderError) Error() string {
	return fmt.Sprintf("unknown disorder %q", e.Key)
}

func (e *UnknownDisorderError) Is(target error) bool {
	return target == ErrUnknownDisorder
}

func invalidEntry(key, format string, args ...interface{}) error {
	return fmt.Errorf("%w %q: %s", ErrInvalidEntry, key, fmt.Sprintf(format, args...))
}
