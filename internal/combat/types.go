package combat

import (
	"fmt"

	"github.com/dshills/spellhook/internal/spell"
)

// ObjectID identifies a world object (unit, game object, item).
type ObjectID uint64

// NoObject is the zero object id, returned when no object is available.
const NoObject ObjectID = 0

// Position is a point in the world with an orientation.
type Position struct {
	X, Y, Z float32
	O       float32
}

func (p Position) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", p.X, p.Y, p.Z)
}

// CastResult is the outcome of a cast check.
type CastResult uint8

// Cast results.
const (
	CastOK CastResult = iota
	CastFailedUnknown
	CastFailedBadTargets
	CastFailedNoPower
	CastFailedNotReady
	CastFailedOutOfRange
	CastFailedTargetAuraState
	CastFailedCasterAuraState
	CastFailedNoValidTargets
	CastFailedDontReport
	CastFailedCustomError
)

var castResultNames = [...]string{
	CastOK:                    "ok",
	CastFailedUnknown:         "failed: unknown",
	CastFailedBadTargets:      "failed: bad targets",
	CastFailedNoPower:         "failed: no power",
	CastFailedNotReady:        "failed: not ready",
	CastFailedOutOfRange:      "failed: out of range",
	CastFailedTargetAuraState: "failed: target aura state",
	CastFailedCasterAuraState: "failed: caster aura state",
	CastFailedNoValidTargets:  "failed: no valid targets",
	CastFailedDontReport:      "failed: silent",
	CastFailedCustomError:     "failed: custom error",
}

func (r CastResult) String() string {
	if int(r) < len(castResultNames) {
		return castResultNames[r]
	}
	return fmt.Sprintf("failed: %d", uint8(r))
}

// OK reports whether r allows the cast to proceed.
func (r CastResult) OK() bool {
	return r == CastOK
}

// MissInfo is the hit outcome of a spell on one target.
type MissInfo uint8

// Miss outcomes.
const (
	MissNone MissInfo = iota
	MissMiss
	MissResist
	MissDodge
	MissParry
	MissBlock
	MissEvade
	MissImmune
	MissDeflect
	MissAbsorb
	MissReflect
)

func (m MissInfo) String() string {
	switch m {
	case MissNone:
		return "hit"
	case MissMiss:
		return "miss"
	case MissResist:
		return "resist"
	case MissDodge:
		return "dodge"
	case MissParry:
		return "parry"
	case MissBlock:
		return "block"
	case MissEvade:
		return "evade"
	case MissImmune:
		return "immune"
	case MissDeflect:
		return "deflect"
	case MissAbsorb:
		return "absorb"
	case MissReflect:
		return "reflect"
	default:
		return "unknown"
	}
}

// DamageInfo describes one damage event.
type DamageInfo struct {
	Attacker ObjectID
	Victim   ObjectID
	SpellID  uint32
	School   uint8
	Damage   uint32
	Absorb   uint32
	Resist   uint32
}

// AbsorbDamage moves up to amount from Damage into Absorb.
func (d *DamageInfo) AbsorbDamage(amount uint32) {
	amount = min(amount, d.Damage)
	d.Damage -= amount
	d.Absorb += amount
}

// ResistDamage moves up to amount from Damage into Resist.
func (d *DamageInfo) ResistDamage(amount uint32) {
	amount = min(amount, d.Damage)
	d.Damage -= amount
	d.Resist += amount
}

// ModifyDamage adds delta to Damage, clamping at zero.
func (d *DamageInfo) ModifyDamage(delta int32) {
	if delta < 0 && uint32(-delta) > d.Damage {
		d.Damage = 0
		return
	}
	d.Damage = uint32(int64(d.Damage) + int64(delta))
}

// DispelInfo describes a dispel of an aura.
type DispelInfo struct {
	Dispeller      ObjectID
	DispellerSpell uint32
	RemovedCharges uint8
}

// ProcFlags describe the event that triggered a proc.
type ProcFlags uint32

// Proc flags.
const (
	ProcDealMeleeSwing ProcFlags = 1 << iota
	ProcTakeMeleeSwing
	ProcDealSpellDamage
	ProcTakeSpellDamage
	ProcDealHeal
	ProcTakeHeal
	ProcKill
	ProcDeath
)

// ProcEventInfo describes the event an aura is checked and procs against.
type ProcEventInfo struct {
	Actor        ObjectID
	ActionTarget ObjectID
	ProcTarget   ObjectID
	TypeMask     ProcFlags
	SpellID      uint32
	Damage       *DamageInfo
	Heal         uint32
}

// HandleMode is the mask of reasons an aura effect is applied or removed.
type HandleMode uint8

// Handle modes.
const (
	ModeDefault       HandleMode = 0
	ModeReal          HandleMode = 0x01
	ModeSendForClient HandleMode = 0x02
	ModeChangeAmount  HandleMode = 0x04
	ModeReapply       HandleMode = 0x08
	ModeStat          HandleMode = 0x10

	ModeRealOrReapply = ModeReal | ModeReapply
)

// Has reports whether any bit of other is set in m.
func (m HandleMode) Has(other HandleMode) bool {
	return m&other != 0
}

// RemoveMode is the reason an aura application is removed.
type RemoveMode uint8

// Remove modes.
const (
	RemoveNone RemoveMode = iota
	RemoveByDefault
	RemoveByInterrupt
	RemoveByCancel
	RemoveByEnemySpell
	RemoveByExpire
	RemoveByDeath
)

func (m RemoveMode) String() string {
	switch m {
	case RemoveNone:
		return "none"
	case RemoveByDefault:
		return "default"
	case RemoveByInterrupt:
		return "interrupt"
	case RemoveByCancel:
		return "cancel"
	case RemoveByEnemySpell:
		return "enemy-spell"
	case RemoveByExpire:
		return "expire"
	case RemoveByDeath:
		return "death"
	default:
		return "unknown"
	}
}

// ModifierKind selects how a SpellModifier applies its value.
type ModifierKind uint8

// Modifier kinds.
const (
	ModifierFlat ModifierKind = iota
	ModifierPct
)

// SpellModifier changes a property of other spells while an aura is active.
type SpellModifier struct {
	Kind    ModifierKind
	Op      uint8
	Value   int32
	SpellID uint32
}

// AuraEffect is the live state of one effect slot of an aura.
type AuraEffect struct {
	Slot              int
	Aura              spell.AuraType
	BaseAmount        int32
	Amount            int32
	AmplitudeMs       int32
	PeriodicTimerMs   int32
	TickNumber        uint32
	Periodic          bool
	CanBeRecalculated bool
	SpellMod          *SpellModifier
}
