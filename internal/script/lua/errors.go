package lua

import "errors"

// Errors for the Lua runtime.
var (
	// ErrStateClosed is returned when operating on a closed state.
	ErrStateClosed = errors.New("lua state is closed")

	// ErrInvalidDefinition is returned when spell_script or aura_script is
	// called with bad arguments.
	ErrInvalidDefinition = errors.New("invalid script definition")

	// ErrDuplicateDefinition is returned when two files define the same
	// script name and kind.
	ErrDuplicateDefinition = errors.New("duplicate script definition")
)

// CompileError is a Lua file that failed to parse or compile.
type CompileError struct {
	Path string
	Err  error
}

func (e *CompileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
