package lua

import (
	"context"
	"fmt"
	"time"

	lua "github.com/yuin/gopher-lua"
)

// DefaultCallTimeout bounds a single call from Go into Lua, nested calls
// included.
const DefaultCallTimeout = 250 * time.Millisecond

// State wraps a sandboxed gopher-lua state.
//
// gopher-lua's LState is not goroutine-safe and script callbacks may call
// back into Lua while a call is in progress, so a State is owned by one
// goroutine and takes no locks.
type State struct {
	L *lua.LState

	timeout time.Duration
	depth   int
	closed  bool
}

// StateOption configures a State.
type StateOption func(*State)

// WithStateCallTimeout sets the timeout of an outermost call. Zero disables it.
func WithStateCallTimeout(d time.Duration) StateOption {
	return func(s *State) {
		s.timeout = d
	}
}

// NewState creates a sandboxed Lua state.
func NewState(opts ...StateOption) *State {
	s := &State{timeout: DefaultCallTimeout}
	for _, opt := range opts {
		opt(s)
	}
	s.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(s.L)
	removeUnsafeGlobals(s.L)
	return s
}

// Run executes a compiled chunk.
func (s *State) Run(proto *lua.FunctionProto) error {
	if s.closed {
		return ErrStateClosed
	}
	_, err := s.Call(s.L.NewFunctionFromProto(proto), 0)
	return err
}

// DoString compiles and executes code.
func (s *State) DoString(code string) error {
	if s.closed {
		return ErrStateClosed
	}
	fn, err := s.L.LoadString(code)
	if err != nil {
		return err
	}
	_, err = s.Call(fn, 0)
	return err
}

// Call calls fn in protected mode and returns its first nret results.
func (s *State) Call(fn *lua.LFunction, nret int, args ...lua.LValue) (results []lua.LValue, err error) {
	if s.closed {
		return nil, ErrStateClosed
	}
	if s.depth == 0 && s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		s.L.SetContext(ctx)
		defer func() {
			s.L.RemoveContext()
			cancel()
		}()
	}
	s.depth++
	defer func() {
		s.depth--
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()

	top := s.L.GetTop()
	if err := s.L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
		return nil, err
	}
	n := s.L.GetTop() - top
	results = make([]lua.LValue, n)
	for i := 0; i < n; i++ {
		results[i] = s.L.Get(top + i + 1)
	}
	s.L.Pop(n)
	return results, nil
}

// IsClosed reports whether Close was called.
func (s *State) IsClosed() bool {
	return s.closed
}

// Close releases the Lua state.
func (s *State) Close() error {
	if s.closed {
		return nil
	}
	s.L.Close()
	s.closed = true
	return nil
}
