package hook

import (
	"fmt"

	"github.com/dshills/spellhook/internal/spell"
)

// EffectIndex selects the effect slots a per-effect binding applies to.
// Values below spell.MaxEffects name a single slot.
type EffectIndex uint8

const (
	// EffectFirstFound matches only the lowest slot satisfying the constraint.
	EffectFirstFound EffectIndex = 254

	// EffectAll matches every slot satisfying the constraint.
	EffectAll EffectIndex = 255
)

// Slot returns the EffectIndex for a specific slot.
func Slot(i int) EffectIndex {
	return EffectIndex(i)
}

// Valid reports whether idx is a slot in range or one of the wildcards.
func (idx EffectIndex) Valid() bool {
	return idx == EffectFirstFound || idx == EffectAll || int(idx) < spell.MaxEffects
}

func (idx EffectIndex) String() string {
	switch idx {
	case EffectFirstFound:
		return "first"
	case EffectAll:
		return "all"
	default:
		return fmt.Sprintf("%d", uint8(idx))
	}
}

// ConstraintKind tags the type constraint a Constraint carries.
type ConstraintKind uint8

const (
	// ConstrainNone matches any non-empty slot.
	ConstrainNone ConstraintKind = iota
	// ConstrainEffect matches slots by effect type.
	ConstrainEffect
	// ConstrainAura matches slots that apply an aura of the given type.
	ConstrainAura
	// ConstrainTarget matches slots by implicit target.
	ConstrainTarget
)

// Constraint is the type half of a Filter.
type Constraint struct {
	Kind   ConstraintKind
	Effect spell.EffectType
	Aura   spell.AuraType
	Target spell.Target

	// Area and Dest select which role the target must play in the slot for
	// ConstrainTarget: an area selection, a destination, or, when both are
	// false, a single object.
	Area bool
	Dest bool
}

// EffectName constrains slots to an effect type; spell.EffectAny matches
// any non-empty slot.
func EffectName(e spell.EffectType) Constraint {
	return Constraint{Kind: ConstrainEffect, Effect: e}
}

// AuraName constrains slots to aura effects of a type; spell.AuraAny
// matches any aura effect.
func AuraName(a spell.AuraType) Constraint {
	return Constraint{Kind: ConstrainAura, Aura: a}
}

// TargetType constrains slots to those that use t in the given role.
func TargetType(t spell.Target, area, dest bool) Constraint {
	return Constraint{Kind: ConstrainTarget, Target: t, Area: area, Dest: dest}
}

// Check reports whether slot of info satisfies c.
func (c Constraint) Check(info *spell.Info, slot int) bool {
	if info == nil {
		return false
	}
	eff := info.Effect(slot)
	if eff.IsEmpty() {
		return false
	}
	switch c.Kind {
	case ConstrainNone:
		return true
	case ConstrainEffect:
		return c.Effect == spell.EffectAny || eff.Effect == c.Effect
	case ConstrainAura:
		if eff.Aura == spell.AuraNone {
			return false
		}
		return c.Aura == spell.AuraAny || eff.Aura == c.Aura
	case ConstrainTarget:
		return checkTarget(eff, c)
	}
	return false
}

func checkTarget(eff spell.EffectInfo, c Constraint) bool {
	if c.Target == spell.TargetNone || !eff.HasTarget(c.Target) {
		return false
	}
	switch {
	case c.Dest:
		return c.Target.SelectsDest()
	case c.Area:
		return c.Target.SelectsArea()
	default:
		return c.Target.SelectsObject()
	}
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstrainEffect:
		return "effect " + c.Effect.String()
	case ConstrainAura:
		return "aura " + c.Aura.String()
	case ConstrainTarget:
		role := "object"
		if c.Dest {
			role = "dest"
		} else if c.Area {
			role = "area"
		}
		return fmt.Sprintf("target %s (%s)", c.Target, role)
	}
	return "any"
}

// Filter decides which effect slots of a spell a per-effect binding runs for.
type Filter struct {
	Index      EffectIndex
	Constraint Constraint
}

// Mask returns the slots of info the filter matches.
func (f Filter) Mask(info *spell.Info) spell.Mask {
	var m spell.Mask
	switch f.Index {
	case EffectAll:
		for slot := 0; slot < spell.MaxEffects; slot++ {
			if f.Constraint.Check(info, slot) {
				m = m.Set(slot)
			}
		}
	case EffectFirstFound:
		for slot := 0; slot < spell.MaxEffects; slot++ {
			if f.Constraint.Check(info, slot) {
				return spell.MaskOf(slot)
			}
		}
	default:
		slot := int(f.Index)
		if slot < spell.MaxEffects && f.Constraint.Check(info, slot) {
			m = m.Set(slot)
		}
	}
	return m
}

// Matches reports whether the filter matches slot of info.
func (f Filter) Matches(info *spell.Info, slot int) bool {
	return f.Mask(info).Has(slot)
}

func (f Filter) String() string {
	return fmt.Sprintf("slot %s, %s", f.Index, f.Constraint)
}
