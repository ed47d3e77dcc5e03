package sim

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
)

// targetInfo is one unit hit by a cast.
type targetInfo struct {
	id     combat.ObjectID
	mask   spell.Mask
	damage int32
	heal   int32

	// share of damage and heal contributed by each slot
	slotDamage [spell.MaxEffects]int32
	slotHeal   [spell.MaxEffects]int32
}

// castState is the combat.Cast handed to spell scripts.
type castState struct {
	engine     *Engine
	info       *spell.Info
	caster     combat.ObjectID
	explTarget combat.ObjectID
	explDest   combat.Position
	hasDest    bool
	triggering *spell.Info
	scripts    []script.SpellScripter

	values  [spell.MaxEffects]int32
	slot    int
	order   []*targetInfo
	targets map[combat.ObjectID]*targetInfo
	cur     *targetInfo
	dest    combat.Position

	hitAura       *Aura
	auraPrevented bool

	finished bool
	ok       bool
	custom   combat.CastResult
}

var _ combat.Cast = (*castState)(nil)

func (c *castState) SpellInfo() *spell.Info          { return c.info }
func (c *castState) Caster() combat.ObjectID         { return c.caster }
func (c *castState) OriginalCaster() combat.ObjectID { return c.caster }
func (c *castState) TriggeringSpell() *spell.Info    { return c.triggering }
func (c *castState) CastItem() combat.ObjectID       { return combat.NoObject }
func (c *castState) ExplTargetUnit() combat.ObjectID { return c.explTarget }

func (c *castState) ExplTargetDest() (combat.Position, bool) {
	return c.explDest, c.hasDest
}

func (c *castState) SetExplTargetDest(p combat.Position) {
	c.explDest, c.hasDest = p, true
}

func (c *castState) EffectValue() int32 {
	if c.slot < 0 || c.slot >= spell.MaxEffects {
		return 0
	}
	return c.values[c.slot]
}

func (c *castState) SetEffectValue(v int32) {
	if c.slot >= 0 && c.slot < spell.MaxEffects {
		c.values[c.slot] = v
	}
}

func (c *castState) HitUnit() combat.ObjectID {
	if c.cur == nil {
		return combat.NoObject
	}
	return c.cur.id
}

func (c *castState) HitDest() (combat.Position, bool) {
	return c.dest, c.hasDest
}

func (c *castState) HitDamage() int32 {
	if c.cur == nil {
		return 0
	}
	return c.cur.damage
}

func (c *castState) SetHitDamage(v int32) {
	if c.cur != nil {
		c.cur.damage = v
	}
}

func (c *castState) HitHeal() int32 {
	if c.cur == nil {
		return 0
	}
	return c.cur.heal
}

func (c *castState) SetHitHeal(v int32) {
	if c.cur != nil {
		c.cur.heal = v
	}
}

func (c *castState) HitAura() combat.Aura {
	if c.hitAura == nil {
		return nil
	}
	return c.hitAura
}

func (c *castState) PreventHitAura() { c.auraPrevented = true }

func (c *castState) Finish(ok bool) {
	c.finished, c.ok = true, ok
}

func (c *castState) SetCustomCastResult(r combat.CastResult) { c.custom = r }

// aborted reports whether a script finished the cast early with a failure.
func (c *castState) aborted() bool {
	return c.finished && !c.ok
}

func (c *castState) notify(kind hook.Kind, slot int, target combat.ObjectID, ev *script.Event) script.Result {
	if ev == nil {
		ev = &script.Event{}
	}
	if slot >= 0 {
		ev.Slots = spell.MaskOf(slot)
		c.slot = slot
	}
	ev.Target = target
	res := script.NotifyAll(c.scripts, kind, ev)
	c.engine.trace.record(c.info.ID, kind, slot, target, res)
	return res
}

func (c *castState) run(out *Outcome) {
	c.notify(hook.BeforeCast, -1, combat.NoObject, nil)
	res := c.notify(hook.CheckCast, -1, combat.NoObject, nil)
	if !res.CastResult.OK() {
		out.Result, out.Custom = res.CastResult, c.custom
		return
	}
	if c.fail(out) {
		return
	}

	c.selectTargets()
	c.notify(hook.OnCast, -1, combat.NoObject, nil)
	c.notify(hook.AfterCast, -1, combat.NoObject, nil)
	if c.fail(out) {
		return
	}

	c.launch()
	c.hit(out)
	for _, t := range c.order {
		out.Targets = append(out.Targets, t.id)
	}
}

func (c *castState) fail(out *Outcome) bool {
	if !c.aborted() {
		return false
	}
	out.Result, out.Custom = combat.CastFailedUnknown, c.custom
	if c.custom != combat.CastOK {
		out.Result = combat.CastFailedCustomError
	}
	return true
}

// selectTargets runs the area, object and destination selections in
// that order, each over every slot.
func (c *castState) selectTargets() {
	used := c.info.UsedSlots().Slots()
	targets := func(slot int) []spell.Target {
		eff := c.info.Effect(slot)
		return []spell.Target{eff.TargetA, eff.TargetB}
	}
	for _, slot := range used {
		for _, t := range targets(slot) {
			if !t.SelectsArea() {
				continue
			}
			list := c.engine.areaTargets(c.caster)
			c.notify(hook.ObjectAreaTargetSelect, slot, combat.NoObject, &script.Event{Targets: &list})
			for _, id := range list {
				c.addTarget(id, slot)
			}
		}
	}
	for _, slot := range used {
		for _, t := range targets(slot) {
			if t.SelectsArea() || !t.SelectsObject() {
				continue
			}
			obj := c.engine.objectTarget(c.caster, c.explTarget, t)
			c.notify(hook.ObjectTargetSelect, slot, combat.NoObject, &script.Event{Object: &obj})
			c.addTarget(obj, slot)
		}
	}
	for _, slot := range used {
		for _, t := range targets(slot) {
			if !t.SelectsDest() {
				continue
			}
			pos := c.engine.destination(c.caster, c.explTarget, t)
			c.notify(hook.DestinationTargetSelect, slot, combat.NoObject, &script.Event{Dest: &pos})
			c.dest, c.hasDest = pos, true
		}
	}
}

func (c *castState) addTarget(id combat.ObjectID, slot int) {
	if id == combat.NoObject || c.engine.units[id] == nil {
		return
	}
	t := c.targets[id]
	if t == nil {
		t = &targetInfo{id: id}
		c.targets[id] = t
		c.order = append(c.order, t)
	}
	t.mask = t.mask.Set(slot)
}

func (c *castState) launch() {
	used := c.info.UsedSlots().Slots()
	for _, slot := range used {
		c.values[slot] = c.info.Effect(slot).BasePoints
	}
	for _, slot := range used {
		c.notify(hook.EffectLaunch, slot, combat.NoObject, nil)
	}
	for _, t := range c.order {
		c.cur = t
		for _, slot := range t.mask.Slots() {
			c.notify(hook.EffectLaunchTarget, slot, t.id, nil)
			v := c.values[slot]
			switch c.info.Effect(slot).Effect {
			case spell.EffectSchoolDamage, spell.EffectHealthLeech, spell.EffectWeaponPctDamage:
				t.damage += v
				t.slotDamage[slot] = v
			case spell.EffectHeal:
				t.heal += v
				t.slotHeal[slot] = v
			}
		}
		if t.damage > 0 {
			c.mitigate(t)
		}
	}
	c.cur = nil
	for _, slot := range used {
		c.notify(hook.EffectHit, slot, combat.NoObject, nil)
	}
}

// mitigate lets scripts resist or absorb part of the precomputed damage.
func (c *castState) mitigate(t *targetInfo) {
	dmg := &combat.DamageInfo{
		Attacker: c.caster,
		Victim:   t.id,
		SpellID:  c.info.ID,
		Damage:   uint32(t.damage),
	}
	var resist uint32
	var absorb int32
	c.notify(hook.CalcResistAbsorb, -1, t.id, &script.Event{Damage: dmg, Resist: &resist, Absorb: &absorb})
	left := int64(dmg.Damage) - int64(resist) - int64(absorb)
	t.damage = int32(max(left, 0))
}

func (c *castState) hit(out *Outcome) {
	for _, t := range c.order {
		c.cur = t
		c.hitAura, c.auraPrevented = nil, false
		for _, s := range c.scripts {
			s.InitHit()
		}
		c.notify(hook.BeforeHit, -1, t.id, &script.Event{Miss: combat.MissNone})

		var auraMask spell.Mask
		var dispels, triggers []int
		for _, slot := range t.mask.Slots() {
			if !c.effectPrevented(slot) {
				c.notify(hook.EffectHitTarget, slot, t.id, nil)
			}
			if c.effectPrevented(slot) || c.defaultPrevented(slot) {
				t.damage = max(t.damage-t.slotDamage[slot], 0)
				t.heal = max(t.heal-t.slotHeal[slot], 0)
				continue
			}
			eff := c.info.Effect(slot)
			switch {
			case eff.Effect.AppliesAura():
				auraMask = auraMask.Set(slot)
				if c.hitAura == nil {
					c.hitAura = c.engine.newAura(c.info, c.caster, t.id)
				}
			case eff.Effect == spell.EffectDispel:
				dispels = append(dispels, slot)
			case eff.Effect == spell.EffectTriggerSpell && eff.TriggerSpell != 0:
				triggers = append(triggers, slot)
			}
		}
		for _, slot := range dispels {
			if c.engine.dispelAll(t.id, c.caster, c.info.ID) > 0 {
				c.notify(hook.EffectSuccessfulDispel, slot, t.id, nil)
			}
		}

		c.notify(hook.Hit, -1, t.id, nil)
		if t.damage > 0 {
			out.Damage += int64(c.engine.dealDamage(c.caster, t.id, c.info.ID, uint32(t.damage)))
		}
		if t.heal > 0 {
			out.Healing += c.engine.heal(t.id, int64(t.heal))
		}
		if a := c.hitAura; a != nil {
			if c.auraPrevented {
				a.unload()
			} else if applied := c.engine.applyAura(a, t.id, auraMask); applied != nil {
				out.Auras = append(out.Auras, applied)
			}
		}
		c.notify(hook.AfterHit, -1, t.id, nil)

		for _, slot := range triggers {
			c.engine.trigger(c.info.Effect(slot).TriggerSpell, c.caster, t.id, c.info)
		}
	}
	c.cur, c.hitAura = nil, nil
}

func (c *castState) effectPrevented(slot int) bool {
	for _, s := range c.scripts {
		if s.IsEffectPrevented(slot) {
			return true
		}
	}
	return false
}

func (c *castState) defaultPrevented(slot int) bool {
	for _, s := range c.scripts {
		if s.IsDefaultEffectPrevented(slot) {
			return true
		}
	}
	return false
}
