package sim

import (
	"fmt"

	"github.com/dshills/spellhook/internal/catalog"
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/logging"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/spell"
)

// maxTriggerDepth bounds chains of spells triggering spells.
const maxTriggerDepth = 8

// Unit is a world object spells can target.
type Unit struct {
	ID        combat.ObjectID
	Name      string
	Health    int64
	MaxHealth int64
	Pos       combat.Position
}

// Engine runs casts and auras against a set of units.
// It is not safe for concurrent use.
type Engine struct {
	spells  spell.Lookup
	catalog *catalog.Catalog
	log     *logging.Logger

	trace Trace
	units map[combat.ObjectID]*Unit
	order []combat.ObjectID
	auras []*Aura
	depth int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(log *logging.Logger) Option {
	return func(e *Engine) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an engine that takes spell definitions from spells and
// scripts from cat.
func New(spells spell.Lookup, cat *catalog.Catalog, opts ...Option) *Engine {
	e := &Engine{
		spells:  spells,
		catalog: cat,
		log:     logging.NewNull(),
		units:   make(map[combat.ObjectID]*Unit),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = e.log.WithComponent("sim")
	return e
}

// AddUnit adds or replaces a unit.
func (e *Engine) AddUnit(u Unit) *Unit {
	if u.MaxHealth == 0 {
		u.MaxHealth = u.Health
	}
	if _, ok := e.units[u.ID]; !ok {
		e.order = append(e.order, u.ID)
	}
	p := &u
	e.units[u.ID] = p
	return p
}

// Unit returns the unit with id, or nil.
func (e *Engine) Unit(id combat.ObjectID) *Unit {
	return e.units[id]
}

// Trace returns the dispatch trace.
func (e *Engine) Trace() *Trace {
	return &e.trace
}

// Auras returns the live auras applied to target.
func (e *Engine) Auras(target combat.ObjectID) []*Aura {
	var out []*Aura
	for _, a := range e.auras {
		if a.app(target) != nil {
			out = append(out, a)
		}
	}
	return out
}

// Outcome summarizes a cast.
type Outcome struct {
	Spell   uint32
	Result  combat.CastResult
	Custom  combat.CastResult
	Targets []combat.ObjectID
	Damage  int64
	Healing int64
	Auras   []*Aura
}

// Cast casts spellID from caster at target.
func (e *Engine) Cast(spellID uint32, caster, target combat.ObjectID) (*Outcome, error) {
	return e.cast(spellID, caster, target, nil)
}

func (e *Engine) cast(spellID uint32, caster, target combat.ObjectID, triggering *spell.Info) (*Outcome, error) {
	info := e.spells.Get(spellID)
	if info == nil {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSpell, spellID)
	}
	if e.units[caster] == nil {
		return nil, fmt.Errorf("%w: caster %d", ErrUnknownUnit, caster)
	}
	if e.depth >= maxTriggerDepth {
		return nil, fmt.Errorf("%w: spell %d", ErrTriggerDepth, spellID)
	}
	e.depth++
	defer func() { e.depth-- }()

	c := &castState{
		engine:     e,
		info:       info,
		caster:     caster,
		explTarget: target,
		triggering: triggering,
		targets:    make(map[combat.ObjectID]*targetInfo),
	}
	for _, s := range e.catalog.SpellScripts(spellID) {
		if script.LoadSpell(s, c) {
			c.scripts = append(c.scripts, s)
		}
	}
	defer func() {
		for _, s := range c.scripts {
			script.UnloadScript(s)
		}
	}()

	out := &Outcome{Spell: spellID, Result: combat.CastOK}
	c.run(out)
	return out, nil
}

// trigger casts a triggered spell, logging failures.
func (e *Engine) trigger(spellID uint32, caster, target combat.ObjectID, by *spell.Info) {
	if _, err := e.cast(spellID, caster, target, by); err != nil {
		e.log.Warn("spell %d: trigger %d: %v", by.ID, spellID, err)
	}
}

func (e *Engine) areaTargets(caster combat.ObjectID) []combat.ObjectID {
	var out []combat.ObjectID
	for _, id := range e.order {
		if id != caster {
			out = append(out, id)
		}
	}
	return out
}

func (e *Engine) objectTarget(caster, expl combat.ObjectID, t spell.Target) combat.ObjectID {
	if t == spell.TargetUnitCaster {
		return caster
	}
	if e.units[expl] != nil {
		return expl
	}
	return combat.NoObject
}

func (e *Engine) destination(caster, expl combat.ObjectID, t spell.Target) combat.Position {
	if u := e.units[expl]; u != nil && t != spell.TargetDestCaster {
		return u.Pos
	}
	if u := e.units[caster]; u != nil {
		return u.Pos
	}
	return combat.Position{}
}

// dealDamage runs the victim's absorb, mana shield and split auras and
// subtracts what is left from its health.
func (e *Engine) dealDamage(attacker, victim combat.ObjectID, spellID uint32, amount uint32) uint32 {
	u := e.units[victim]
	if u == nil || amount == 0 {
		return 0
	}
	dmg := &combat.DamageInfo{Attacker: attacker, Victim: victim, SpellID: spellID, Damage: amount}
	for _, a := range e.Auras(victim) {
		a.absorb(victim, dmg)
	}
	u.Health -= int64(dmg.Damage)
	return dmg.Damage
}

func (e *Engine) heal(target combat.ObjectID, amount int64) int64 {
	u := e.units[target]
	if u == nil || amount <= 0 {
		return 0
	}
	amount = min(amount, u.MaxHealth-u.Health)
	u.Health += amount
	return amount
}

func (e *Engine) findAura(target combat.ObjectID, spellID uint32) *Aura {
	for _, a := range e.auras {
		if a.info.ID == spellID && a.app(target) != nil {
			return a
		}
	}
	return nil
}

func (e *Engine) dropAura(a *Aura) {
	for i, x := range e.auras {
		if x == a {
			e.auras = append(e.auras[:i], e.auras[i+1:]...)
			return
		}
	}
}

// Tick advances every aura by ms milliseconds: periodic effects tick and
// expired auras are removed.
func (e *Engine) Tick(ms int32) {
	for _, a := range append([]*Aura(nil), e.auras...) {
		a.tick(ms)
	}
}

// Proc offers ev to every aura on target and returns how many procced.
func (e *Engine) Proc(target combat.ObjectID, ev *combat.ProcEventInfo) int {
	n := 0
	for _, a := range e.Auras(target) {
		if a.proc(target, ev) {
			n++
		}
	}
	return n
}

// Dispel dispels the aura of spellID from target. It reports whether an
// aura was found.
func (e *Engine) Dispel(target combat.ObjectID, spellID uint32, dispeller combat.ObjectID, by uint32) bool {
	a := e.findAura(target, spellID)
	if a == nil {
		return false
	}
	a.dispel(target, &combat.DispelInfo{Dispeller: dispeller, DispellerSpell: by, RemovedCharges: 1})
	return true
}

// dispelAll dispels every aura on target not cast by dispeller and returns
// the number removed.
func (e *Engine) dispelAll(target, dispeller combat.ObjectID, by uint32) int {
	n := 0
	for _, a := range e.Auras(target) {
		if a.caster == dispeller || a.info.Passive {
			continue
		}
		a.dispel(target, &combat.DispelInfo{Dispeller: dispeller, DispellerSpell: by, RemovedCharges: 1})
		n++
	}
	return n
}
