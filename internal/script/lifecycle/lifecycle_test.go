package lifecycle_test

import (
	"errors"
	"testing"

	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/script/lifecycle"
)

// TestMachineHappyPath verifies the full lifecycle in order.
func TestMachineHappyPath(t *testing.T) {
	var m lifecycle.Machine
	if m.State() != lifecycle.StateNone {
		t.Fatalf("expected none, got %s", m.State())
	}

	steps := []struct {
		name string
		fn   func() error
		want lifecycle.State
	}{
		{"BeginRegister", m.BeginRegister, lifecycle.StateRegistering},
		{"FinishRegister", m.FinishRegister, lifecycle.StateRegistered},
		{"Load", m.Load, lifecycle.StateLoaded},
		{"BeginUnload", m.BeginUnload, lifecycle.StateUnloading},
		{"FinishUnload", m.FinishUnload, lifecycle.StateDestroyed},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			t.Fatalf("%s: unexpected error: %v", s.name, err)
		}
		if m.State() != s.want {
			t.Fatalf("%s: expected %s, got %s", s.name, s.want, m.State())
		}
	}
	if !m.State().IsTerminal() {
		t.Error("expected destroyed to be terminal")
	}
}

// TestMachineInvalidTransitions verifies out of order transitions are refused.
func TestMachineInvalidTransitions(t *testing.T) {
	var m lifecycle.Machine

	if err := m.Load(); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("Load from none: expected ErrInvalidTransition, got %v", err)
	}
	if err := m.BeginUnload(); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("BeginUnload from none: expected ErrInvalidTransition, got %v", err)
	}
	if m.State() != lifecycle.StateNone {
		t.Errorf("failed transition changed state to %s", m.State())
	}

	_ = m.BeginRegister()
	if err := m.BeginRegister(); !errors.Is(err, lifecycle.ErrInvalidTransition) {
		t.Errorf("double BeginRegister: expected ErrInvalidTransition, got %v", err)
	}
}

// TestMachineRegisterGate verifies CanRegister is true only while registering.
func TestMachineRegisterGate(t *testing.T) {
	var m lifecycle.Machine
	r := hook.NewRegistry(&m)
	fn := func() {}

	if err := r.Register(hook.BeforeCast, hook.Binding{Fn: fn}); !errors.Is(err, hook.ErrNotRegistering) {
		t.Errorf("before registering: expected ErrNotRegistering, got %v", err)
	}
	_ = m.BeginRegister()
	if err := r.Register(hook.BeforeCast, hook.Binding{Fn: fn}); err != nil {
		t.Errorf("while registering: unexpected error %v", err)
	}
	_ = m.FinishRegister()
	if err := r.Register(hook.BeforeCast, hook.Binding{Fn: fn}); !errors.Is(err, hook.ErrNotRegistering) {
		t.Errorf("after registering: expected ErrNotRegistering, got %v", err)
	}
}

// TestMachineFail verifies Fail destroys from any state.
func TestMachineFail(t *testing.T) {
	var m lifecycle.Machine
	_ = m.BeginRegister()
	m.Fail()
	if m.State() != lifecycle.StateDestroyed {
		t.Errorf("expected destroyed, got %s", m.State())
	}
	if m.IsLoaded() || m.CanRegister() {
		t.Error("destroyed machine should neither load nor register")
	}
}

// TestStackLIFO verifies frames unwind in reverse order.
func TestStackLIFO(t *testing.T) {
	var s lifecycle.Stack
	if s.Top() != nil || s.Current() != hook.KindNone {
		t.Fatal("expected empty stack")
	}

	s.Push(lifecycle.Frame{Hook: hook.Dispel, Slot: -1})
	s.Push(lifecycle.Frame{Hook: hook.EffectRemove, Slot: 0})
	if s.Depth() != 2 {
		t.Fatalf("expected depth 2, got %d", s.Depth())
	}
	if s.Current() != hook.EffectRemove {
		t.Errorf("expected effect-remove on top, got %s", s.Current())
	}
	if !s.InHook(hook.Kind.CanPreventDefault) {
		t.Error("expected effect-remove to allow preventing default")
	}

	s.Top().DefaultPrevented = true
	f, err := s.Pop()
	if err != nil {
		t.Fatal(err)
	}
	if f.Hook != hook.EffectRemove || !f.DefaultPrevented {
		t.Errorf("unexpected frame %+v", f)
	}
	if s.Top().DefaultPrevented {
		t.Error("flag leaked into outer frame")
	}

	f, _ = s.Pop()
	if f.Hook != hook.Dispel {
		t.Errorf("expected dispel, got %s", f.Hook)
	}
	if s.Depth() != 0 {
		t.Errorf("expected empty stack, got depth %d", s.Depth())
	}
}

// TestStackPopEmpty verifies popping an empty stack reports an error.
func TestStackPopEmpty(t *testing.T) {
	var s lifecycle.Stack
	if _, err := s.Pop(); !errors.Is(err, lifecycle.ErrEmptyStack) {
		t.Errorf("expected ErrEmptyStack, got %v", err)
	}
}
