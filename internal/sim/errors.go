package sim

import "errors"

// Engine errors.
var (
	// ErrUnknownSpell is returned when casting an undefined spell.
	ErrUnknownSpell = errors.New("unknown spell")

	// ErrUnknownUnit is returned when the caster does not exist.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrTriggerDepth is returned when triggered spells nest too deeply.
	ErrTriggerDepth = errors.New("triggered spell depth exceeded")
)
