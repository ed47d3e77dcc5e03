package catalog

import (
	"errors"
	"fmt"
)

// Catalog errors.
var (
	// ErrDuplicateScript is returned when a name is registered twice for the
	// same kind of script.
	ErrDuplicateScript = errors.New("duplicate script name")

	// ErrEmptyName is returned when a factory is registered without a name.
	ErrEmptyName = errors.New("script name is empty")

	// ErrNilFactory is returned when a nil factory is registered.
	ErrNilFactory = errors.New("script factory is nil")

	// ErrAlreadyLoaded is returned when Load is called twice.
	ErrAlreadyLoaded = errors.New("catalog is already loaded")

	// ErrUnknownScript is reported for bindings naming no registered script.
	ErrUnknownScript = errors.New("unknown script")
)

// ParseError describes a failure to decode a bindings file.
type ParseError struct {
	Path    string
	Index   int
	Message string
	Err     error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: binding %d: %s", e.Path, e.Index, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
