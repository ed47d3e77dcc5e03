package spell

import (
	"errors"
	"fmt"
)

// Spell data errors.
var (
	// ErrDuplicateSpell is returned when two definitions share an id.
	ErrDuplicateSpell = errors.New("duplicate spell id")

	// ErrInvalidSpellID is returned for a definition with id zero.
	ErrInvalidSpellID = errors.New("spell id must be non-zero")

	// ErrTooManyEffects is returned when a definition has more than MaxEffects slots.
	ErrTooManyEffects = errors.New("too many effect slots")
)

// ParseError describes a failure to decode a spell data file.
type ParseError struct {
	Path    string
	Spell   uint32
	Message string
	Err     error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Spell != 0 {
		return fmt.Sprintf("%s: spell %d: %s", e.Path, e.Spell, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}
