package lifecycle

import (
	"errors"

	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script/hook"
)

// ErrEmptyStack indicates a pop without a matching push.
var ErrEmptyStack = errors.New("pop from empty frame stack")

// Frame is the context of one active hook dispatch.
type Frame struct {
	Hook hook.Kind

	// Slot is the effect slot being dispatched, or -1.
	Slot int

	Target      combat.ObjectID
	Application combat.Application

	// DefaultPrevented is set when a callback suppresses the default
	// engine action that follows the hook.
	DefaultPrevented bool
}

// Stack is a LIFO stack of frames. Its depth equals the number of nested
// dispatches in progress.
type Stack struct {
	frames []Frame
}

// Push enters a hook.
func (s *Stack) Push(f Frame) {
	s.frames = append(s.frames, f)
}

// Pop leaves the innermost hook and returns its frame.
func (s *Stack) Pop() (Frame, error) {
	n := len(s.frames)
	if n == 0 {
		return Frame{}, ErrEmptyStack
	}
	f := s.frames[n-1]
	s.frames = s.frames[:n-1]
	return f, nil
}

// Top returns the innermost frame, or nil outside any hook. The pointer is
// valid until the next Push or Pop.
func (s *Stack) Top() *Frame {
	if len(s.frames) == 0 {
		return nil
	}
	return &s.frames[len(s.frames)-1]
}

// Depth returns the number of active frames.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Current returns the kind of the innermost hook, or hook.KindNone.
func (s *Stack) Current() hook.Kind {
	if f := s.Top(); f != nil {
		return f.Hook
	}
	return hook.KindNone
}

// InHook reports whether the innermost hook satisfies pred.
func (s *Stack) InHook(pred func(hook.Kind) bool) bool {
	f := s.Top()
	return f != nil && pred(f.Hook)
}
