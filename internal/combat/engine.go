package combat

import "github.com/dshills/spellhook/internal/spell"

// Cast is the transient state of a spell being cast. Scripts reach it
// through the accessors of a spell script.
type Cast interface {
	SpellInfo() *spell.Info
	Caster() ObjectID
	OriginalCaster() ObjectID
	TriggeringSpell() *spell.Info
	CastItem() ObjectID

	ExplTargetUnit() ObjectID
	ExplTargetDest() (Position, bool)
	SetExplTargetDest(Position)

	// EffectValue is the value of the effect slot being handled.
	EffectValue() int32
	SetEffectValue(int32)

	HitUnit() ObjectID
	HitDest() (Position, bool)
	HitDamage() int32
	SetHitDamage(int32)
	HitHeal() int32
	SetHitHeal(int32)

	// HitAura returns the aura the spell is applying to the current hit
	// unit, or nil.
	HitAura() Aura
	PreventHitAura()

	Finish(ok bool)
	SetCustomCastResult(CastResult)
}

// Aura is a live aura created by a spell.
type Aura interface {
	SpellInfo() *spell.Info
	ID() uint32
	CasterID() ObjectID
	Owner() ObjectID

	Duration() int32
	SetDuration(int32)
	RefreshDuration()
	MaxDuration() int32
	SetMaxDuration(int32)

	Charges() uint8
	SetCharges(uint8)
	StackAmount() uint8
	SetStackAmount(uint8)

	IsPassive() bool
	IsExpired() bool

	// Effect returns the live effect in slot, or nil.
	Effect(slot int) *AuraEffect

	// Application returns the application of the aura on target, or nil.
	Application(target ObjectID) Application

	Remove(mode RemoveMode)
}

// Application is an aura applied to one target.
type Application interface {
	Aura() Aura
	Target() ObjectID
	EffectMask() spell.Mask
	RemoveMode() RemoveMode
}
