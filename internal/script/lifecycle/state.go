// Package lifecycle tracks the lifecycle of a script instance and the stack
// of hook frames active while it is being dispatched to.
package lifecycle

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition indicates a lifecycle transition not allowed from
// the current state.
var ErrInvalidTransition = errors.New("invalid lifecycle transition")

// State represents the lifecycle state of a script instance.
type State int

// Script states.
const (
	// StateNone - Instance created, Register not yet called.
	StateNone State = iota

	// StateRegistering - Register is running; hooks may be attached.
	StateRegistering

	// StateRegistered - Register finished; waiting to be loaded.
	StateRegistered

	// StateLoaded - Attached to its engine object; hooks are dispatched.
	StateLoaded

	// StateUnloading - Unload is running.
	StateUnloading

	// StateDestroyed - Torn down; nothing more is dispatched.
	StateDestroyed
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateNone:
		return "none"
	case StateRegistering:
		return "registering"
	case StateRegistered:
		return "registered"
	case StateLoaded:
		return "loaded"
	case StateUnloading:
		return "unloading"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// IsTerminal returns true if no further transition is possible.
func (s State) IsTerminal() bool {
	return s == StateDestroyed
}

// Machine is the lifecycle state machine of one script instance.
// The zero value is in StateNone.
type Machine struct {
	state State
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// CanRegister reports whether hooks may be registered.
func (m *Machine) CanRegister() bool {
	return m.state == StateRegistering
}

// IsLoaded reports whether hooks may be dispatched.
func (m *Machine) IsLoaded() bool {
	return m.state == StateLoaded
}

// BeginRegister moves None to Registering.
func (m *Machine) BeginRegister() error {
	return m.transition(StateNone, StateRegistering)
}

// FinishRegister moves Registering to Registered.
func (m *Machine) FinishRegister() error {
	return m.transition(StateRegistering, StateRegistered)
}

// Load moves Registered to Loaded.
func (m *Machine) Load() error {
	return m.transition(StateRegistered, StateLoaded)
}

// BeginUnload moves Loaded to Unloading.
func (m *Machine) BeginUnload() error {
	return m.transition(StateLoaded, StateUnloading)
}

// FinishUnload moves Unloading to Destroyed.
func (m *Machine) FinishUnload() error {
	return m.transition(StateUnloading, StateDestroyed)
}

// Fail destroys the instance from any state. It is used when registration
// or loading fails.
func (m *Machine) Fail() {
	m.state = StateDestroyed
}

func (m *Machine) transition(from, to State) error {
	if m.state != from {
		return fmt.Errorf("%w: %s -> %s (in %s)", ErrInvalidTransition, from, to, m.state)
	}
	m.state = to
	return nil
}
