package app

import (
	"errors"
	"fmt"
)

// Application errors.
var (
	// ErrNoScriptsDir indicates the configured scripts directory is missing.
	ErrNoScriptsDir = errors.New("scripts directory not found")

	// ErrClosed indicates the snapshot's Lua runtime was released.
	ErrClosed = errors.New("snapshot closed")
)

// InitError reports the component that failed to load.
type InitError struct {
	Component string
	Err       error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("loading %s: %v", e.Component, e.Err)
}

func (e *InitError) Unwrap() error {
	return e.Err
}
