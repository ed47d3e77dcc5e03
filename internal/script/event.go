package script

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/spell"
)

// Event is the context the engine passes to Notify. Only the fields the
// hook kind uses need to be set; pointer fields are written through by
// callbacks and read back by the engine.
type Event struct {
	// Slots limits per-effect hooks to these slots. Zero means every slot.
	Slots spell.Mask

	// Target is the unit being hit, or the unit checked by
	// CheckAreaTarget.
	Target      combat.ObjectID
	Application combat.Application

	Miss   combat.MissInfo
	Damage *combat.DamageInfo
	Resist *uint32
	Absorb *int32

	Targets *[]combat.ObjectID
	Object  *combat.ObjectID
	Dest    *combat.Position

	Mode   combat.HandleMode
	Dispel *combat.DispelInfo
	Proc   *combat.ProcEventInfo

	Amount         *int32
	CanRecalculate *bool
	Periodic       *bool
	Amplitude      *int32
	SpellMod       **combat.SpellModifier

	// AbsorbAmount is the amount absorbed, mana shielded, or split.
	AbsorbAmount *uint32
}

// Result summarizes a dispatch.
type Result struct {
	// Invoked counts the callbacks that ran.
	Invoked int

	// CastResult is the first failing result returned by a CheckCast
	// callback, or combat.CastOK.
	CastResult combat.CastResult

	// Allowed is the conjunction of check callback votes. It is true when
	// no check callback ran.
	Allowed bool

	// DefaultPrevented is set when a callback suppressed the default
	// action following the hook.
	DefaultPrevented bool

	// Faults counts faults raised while dispatching.
	Faults int
}

func newResult() Result {
	return Result{CastResult: combat.CastOK, Allowed: true}
}

// Merge combines r with other: counts add, the first failing cast result
// wins, votes AND-combine and suppression flags OR-combine.
func (r Result) Merge(other Result) Result {
	r.Invoked += other.Invoked
	r.Faults += other.Faults
	if r.CastResult.OK() {
		r.CastResult = other.CastResult
	}
	r.Allowed = r.Allowed && other.Allowed
	r.DefaultPrevented = r.DefaultPrevented || other.DefaultPrevented
	return r
}

// call is the context handed to an invoker.
type call struct {
	ev   *Event
	slot int
	res  *Result
	eff  *combat.AuraEffect
}

// invoker adapts a typed handler to the dispatcher.
type invoker func(c *call)

func (c *call) castResult(r combat.CastResult) {
	if c.res.CastResult.OK() {
		c.res.CastResult = r
	}
}

func (c *call) vote(ok bool) {
	if !ok {
		c.res.Allowed = false
	}
}
