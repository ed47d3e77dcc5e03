package hook

import "errors"

// Registry errors.
var (
	// ErrNotRegistering indicates a hook was registered outside the
	// registration phase of its script.
	ErrNotRegistering = errors.New("hook registration outside registration phase")

	// ErrInvalidKind indicates a binding was registered with an unknown kind.
	ErrInvalidKind = errors.New("invalid hook kind")

	// ErrNilCallback indicates a binding without a callback.
	ErrNilCallback = errors.New("nil hook callback")

	// ErrInvalidSlot indicates an effect index outside the slot range.
	ErrInvalidSlot = errors.New("invalid effect index")
)
