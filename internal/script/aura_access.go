package script

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
)

func (s *AuraScript) attached(op string) bool {
	if s.aura != nil {
		return true
	}
	s.fault(op, "no aura attached")
	return false
}

// Aura returns the aura the script is attached to.
func (s *AuraScript) Aura() combat.Aura { return s.aura }

// SpellInfo returns the definition of the aura's spell.
func (s *AuraScript) SpellInfo() *spell.Info { return s.info }

// ID returns the spell id of the aura.
func (s *AuraScript) ID() uint32 {
	if !s.attached("ID") {
		return 0
	}
	return s.aura.ID()
}

// CasterID returns the unit that cast the aura.
func (s *AuraScript) CasterID() combat.ObjectID {
	if !s.attached("CasterID") {
		return combat.NoObject
	}
	return s.aura.CasterID()
}

// Owner returns the object that owns the aura.
func (s *AuraScript) Owner() combat.ObjectID {
	if !s.attached("Owner") {
		return combat.NoObject
	}
	return s.aura.Owner()
}

// Duration returns the remaining duration in milliseconds.
func (s *AuraScript) Duration() int32 {
	if !s.attached("Duration") {
		return 0
	}
	return s.aura.Duration()
}

// SetDuration sets the remaining duration in milliseconds.
func (s *AuraScript) SetDuration(ms int32) {
	if s.attached("SetDuration") {
		s.aura.SetDuration(ms)
	}
}

// RefreshDuration resets the duration to its maximum.
func (s *AuraScript) RefreshDuration() {
	if s.attached("RefreshDuration") {
		s.aura.RefreshDuration()
	}
}

// MaxDuration returns the full duration in milliseconds.
func (s *AuraScript) MaxDuration() int32 {
	if !s.attached("MaxDuration") {
		return 0
	}
	return s.aura.MaxDuration()
}

// SetMaxDuration sets the full duration in milliseconds.
func (s *AuraScript) SetMaxDuration(ms int32) {
	if s.attached("SetMaxDuration") {
		s.aura.SetMaxDuration(ms)
	}
}

// IsExpired reports whether the aura ran out.
func (s *AuraScript) IsExpired() bool {
	return s.attached("IsExpired") && s.aura.IsExpired()
}

// IsPermanent reports whether the aura never expires on its own.
func (s *AuraScript) IsPermanent() bool {
	return s.info.IsPermanent()
}

// IsPassive reports whether the aura is passive.
func (s *AuraScript) IsPassive() bool {
	return s.attached("IsPassive") && s.aura.IsPassive()
}

// Charges returns the remaining proc charges.
func (s *AuraScript) Charges() uint8 {
	if !s.attached("Charges") {
		return 0
	}
	return s.aura.Charges()
}

// SetCharges sets the remaining proc charges.
func (s *AuraScript) SetCharges(n uint8) {
	if s.attached("SetCharges") {
		s.aura.SetCharges(n)
	}
}

// ModCharges adds delta to the charges. Reaching zero removes the aura.
func (s *AuraScript) ModCharges(delta int) {
	if !s.attached("ModCharges") {
		return
	}
	n := int(s.aura.Charges()) + delta
	if n <= 0 {
		s.aura.SetCharges(0)
		s.aura.Remove(combat.RemoveByExpire)
		return
	}
	s.aura.SetCharges(uint8(min(n, 255)))
}

// DropCharge consumes one charge.
func (s *AuraScript) DropCharge() { s.ModCharges(-1) }

// StackAmount returns the number of stacks.
func (s *AuraScript) StackAmount() uint8 {
	if !s.attached("StackAmount") {
		return 0
	}
	return s.aura.StackAmount()
}

// SetStackAmount sets the number of stacks.
func (s *AuraScript) SetStackAmount(n uint8) {
	if s.attached("SetStackAmount") {
		s.aura.SetStackAmount(n)
	}
}

// ModStackAmount adds delta to the stacks, capped at the spell's maximum.
// Reaching zero removes the aura.
func (s *AuraScript) ModStackAmount(delta int) {
	if !s.attached("ModStackAmount") {
		return
	}
	n := int(s.aura.StackAmount()) + delta
	if n <= 0 {
		s.aura.Remove(combat.RemoveByDefault)
		return
	}
	if limit := int(s.info.MaxStack); limit > 0 && n > limit {
		n = limit
	}
	s.aura.SetStackAmount(uint8(min(n, 255)))
}

// HasEffect reports whether the aura has a live effect in slot.
func (s *AuraScript) HasEffect(slot int) bool {
	return s.attached("HasEffect") && s.aura.Effect(slot) != nil
}

// Effect returns the live effect in slot, or nil.
func (s *AuraScript) Effect(slot int) *combat.AuraEffect {
	if !s.attached("Effect") {
		return nil
	}
	return s.aura.Effect(slot)
}

// Remove removes the aura from every target.
func (s *AuraScript) Remove(mode combat.RemoveMode) {
	if s.attached("Remove") {
		s.aura.Remove(mode)
	}
}

// Target returns the unit of the application being handled.
func (s *AuraScript) Target() combat.ObjectID {
	if !s.inHook("Target", hook.Kind.HasApplication) {
		return combat.NoObject
	}
	f := s.frames.Top()
	if f.Application != nil {
		return f.Application.Target()
	}
	return f.Target
}

// TargetApplication returns the application being handled.
func (s *AuraScript) TargetApplication() combat.Application {
	if !s.inHook("TargetApplication", hook.Kind.HasApplication) {
		return nil
	}
	return s.frames.Top().Application
}

// PreventDefaultAction suppresses the engine's default handling of the
// current hook.
func (s *AuraScript) PreventDefaultAction() {
	if s.inHook("PreventDefaultAction", hook.Kind.CanPreventDefault) {
		s.frames.Top().DefaultPrevented = true
	}
}

// IsDefaultActionPrevented reports whether the default action of the
// current hook, or outside any hook of the last one, was suppressed.
func (s *AuraScript) IsDefaultActionPrevented() bool {
	if f := s.frames.Top(); f != nil {
		return f.DefaultPrevented
	}
	return s.lastPrevented
}
