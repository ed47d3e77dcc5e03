package script

import "errors"

// Script errors.
var (
	// ErrNotLoaded indicates an operation that requires a loaded script.
	ErrNotLoaded = errors.New("script not loaded")

	// ErrRegisterFailed indicates Register attached an invalid hook or
	// panicked.
	ErrRegisterFailed = errors.New("script registration failed")

	// ErrLoadFailed indicates Load returned false or panicked.
	ErrLoadFailed = errors.New("script load failed")

	// ErrUnknownSpell indicates the script's spell is not defined.
	ErrUnknownSpell = errors.New("unknown spell")
)
