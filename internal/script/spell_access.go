package script

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
)

func (s *SpellScript) attached(op string) bool {
	if s.cast != nil {
		return true
	}
	s.fault(op, "no cast attached")
	return false
}

func (s *SpellScript) usable(op string, pred func(hook.Kind) bool) bool {
	return s.attached(op) && s.inHook(op, pred)
}

// Cast returns the cast the script is attached to.
func (s *SpellScript) Cast() combat.Cast { return s.cast }

// SpellInfo returns the definition of the script's spell.
func (s *SpellScript) SpellInfo() *spell.Info { return s.info }

// EffectInfo returns slot of the script's spell.
func (s *SpellScript) EffectInfo(slot int) spell.EffectInfo { return s.info.Effect(slot) }

// Caster returns the unit casting the spell.
func (s *SpellScript) Caster() combat.ObjectID {
	if !s.attached("Caster") {
		return combat.NoObject
	}
	return s.cast.Caster()
}

// OriginalCaster returns the unit the cast originates from, which differs
// from Caster for spells cast by totems and similar objects.
func (s *SpellScript) OriginalCaster() combat.ObjectID {
	if !s.attached("OriginalCaster") {
		return combat.NoObject
	}
	return s.cast.OriginalCaster()
}

// TriggeringSpell returns the spell that triggered this cast, or nil.
func (s *SpellScript) TriggeringSpell() *spell.Info {
	if !s.attached("TriggeringSpell") {
		return nil
	}
	return s.cast.TriggeringSpell()
}

// CastItem returns the item the spell is cast from, or NoObject.
func (s *SpellScript) CastItem() combat.ObjectID {
	if !s.attached("CastItem") {
		return combat.NoObject
	}
	return s.cast.CastItem()
}

// ExplTargetUnit returns the unit the caster explicitly targeted.
func (s *SpellScript) ExplTargetUnit() combat.ObjectID {
	if !s.attached("ExplTargetUnit") {
		return combat.NoObject
	}
	return s.cast.ExplTargetUnit()
}

// ExplTargetDest returns the explicitly targeted destination.
func (s *SpellScript) ExplTargetDest() (combat.Position, bool) {
	if !s.attached("ExplTargetDest") {
		return combat.Position{}, false
	}
	return s.cast.ExplTargetDest()
}

// SetExplTargetDest replaces the explicitly targeted destination.
func (s *SpellScript) SetExplTargetDest(pos combat.Position) {
	if s.attached("SetExplTargetDest") {
		s.cast.SetExplTargetDest(pos)
	}
}

// HitUnit returns the unit being hit.
func (s *SpellScript) HitUnit() combat.ObjectID {
	if !s.usable("HitUnit", hook.Kind.HasHitTarget) {
		return combat.NoObject
	}
	return s.cast.HitUnit()
}

// HitDest returns the destination being hit.
func (s *SpellScript) HitDest() (combat.Position, bool) {
	if !s.usable("HitDest", hook.Kind.IsEffectHook) {
		return combat.Position{}, false
	}
	return s.cast.HitDest()
}

// HitDamage returns the damage about to be dealt to the hit unit.
func (s *SpellScript) HitDamage() int32 {
	if !s.usable("HitDamage", hook.Kind.HasHitTarget) {
		return 0
	}
	return s.cast.HitDamage()
}

// SetHitDamage replaces the damage dealt to the hit unit.
func (s *SpellScript) SetHitDamage(dmg int32) {
	if s.usable("SetHitDamage", hook.Kind.CanModifyHit) {
		s.cast.SetHitDamage(dmg)
	}
}

// PreventHitDamage drops the damage dealt to the hit unit.
func (s *SpellScript) PreventHitDamage() { s.SetHitDamage(0) }

// HitHeal returns the healing about to be done to the hit unit.
func (s *SpellScript) HitHeal() int32 {
	if !s.usable("HitHeal", hook.Kind.HasHitTarget) {
		return 0
	}
	return s.cast.HitHeal()
}

// SetHitHeal replaces the healing done to the hit unit.
func (s *SpellScript) SetHitHeal(heal int32) {
	if s.usable("SetHitHeal", hook.Kind.CanModifyHit) {
		s.cast.SetHitHeal(heal)
	}
}

// PreventHitHeal drops the healing done to the hit unit.
func (s *SpellScript) PreventHitHeal() { s.SetHitHeal(0) }

// HitAura returns the aura being applied to the hit unit, or nil.
func (s *SpellScript) HitAura() combat.Aura {
	if !s.usable("HitAura", hook.Kind.HasHitTarget) {
		return nil
	}
	return s.cast.HitAura()
}

// PreventHitAura stops the aura from being applied to the hit unit.
func (s *SpellScript) PreventHitAura() {
	if s.usable("PreventHitAura", hook.Kind.HasHitTarget) {
		s.cast.PreventHitAura()
	}
}

// PreventHitEffect stops slot, including its default handling, from
// affecting the current target.
func (s *SpellScript) PreventHitEffect(slot int) {
	if !s.inHook("PreventHitEffect", hook.Kind.IsHitPhase) {
		return
	}
	s.hitPreventEffect = s.hitPreventEffect.Set(slot)
	s.hitPreventDefaultEffect = s.hitPreventDefaultEffect.Set(slot)
}

// PreventHitDefaultEffect stops the default handling of slot for the
// current target; callbacks still run.
func (s *SpellScript) PreventHitDefaultEffect(slot int) {
	if s.inHook("PreventHitDefaultEffect", hook.Kind.IsHitPhase) {
		s.hitPreventDefaultEffect = s.hitPreventDefaultEffect.Set(slot)
	}
}

// EffectValue returns the value of the effect being handled.
func (s *SpellScript) EffectValue() int32 {
	if !s.usable("EffectValue", hook.Kind.IsEffectHook) {
		return 0
	}
	return s.cast.EffectValue()
}

// SetEffectValue replaces the value of the effect being handled.
func (s *SpellScript) SetEffectValue(v int32) {
	if s.usable("SetEffectValue", hook.Kind.IsEffectHook) {
		s.cast.SetEffectValue(v)
	}
}

// CurrentEffectInfo returns the effect being handled.
func (s *SpellScript) CurrentEffectInfo() spell.EffectInfo {
	if !s.inHook("CurrentEffectInfo", hook.Kind.IsEffectHook) {
		return spell.EffectInfo{}
	}
	return s.info.Effect(s.frames.Top().Slot)
}

// FinishCast ends the cast.
func (s *SpellScript) FinishCast(ok bool) {
	if s.attached("FinishCast") {
		s.cast.Finish(ok)
	}
}

// SetCustomCastResult sets the failure the client is shown for a failed
// cast check.
func (s *SpellScript) SetCustomCastResult(r combat.CastResult) {
	if s.usable("SetCustomCastResult", hook.Kind.IsCheckCast) {
		s.cast.SetCustomCastResult(r)
	}
}

// InitHit clears the hit prevention flags before a new target is hit.
func (s *SpellScript) InitHit() {
	s.hitPreventEffect = 0
	s.hitPreventDefaultEffect = 0
}

// IsEffectPrevented reports whether a callback prevented slot for the
// current target.
func (s *SpellScript) IsEffectPrevented(slot int) bool {
	return s.hitPreventEffect.Has(slot)
}

// IsDefaultEffectPrevented reports whether a callback prevented the default
// handling of slot for the current target.
func (s *SpellScript) IsDefaultEffectPrevented(slot int) bool {
	return s.hitPreventDefaultEffect.Has(slot)
}
