package sim

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
)

// Application is an aura applied to one unit.
type Application struct {
	aura   *Aura
	target combat.ObjectID
	// mask holds the slots applied to the target; slots whose apply
	// default was prevented are left out.
	mask       spell.Mask
	removeMode combat.RemoveMode
}

var _ combat.Application = (*Application)(nil)

func (p *Application) Aura() combat.Aura { return p.aura }

func (p *Application) Target() combat.ObjectID { return p.target }

func (p *Application) EffectMask() spell.Mask { return p.mask }

func (p *Application) RemoveMode() combat.RemoveMode { return p.removeMode }

// Aura is a live aura created by a cast.
type Aura struct {
	engine  *Engine
	info    *spell.Info
	caster  combat.ObjectID
	owner   combat.ObjectID
	effects [spell.MaxEffects]*combat.AuraEffect
	apps    []*Application
	scripts []script.AuraScripter

	duration    int32
	maxDuration int32
	charges     uint8
	stacks      uint8

	// dispatching counts notifications in flight; unloading waits for it
	// to drop to zero.
	dispatching int
	removed     bool
	unloaded    bool
}

var _ combat.Aura = (*Aura)(nil)

// newAura creates an aura of info, loads its scripts and runs the
// calculation hooks.
func (e *Engine) newAura(info *spell.Info, caster, owner combat.ObjectID) *Aura {
	a := &Aura{
		engine:      e,
		info:        info,
		caster:      caster,
		owner:       owner,
		duration:    info.DurationMs,
		maxDuration: info.DurationMs,
		charges:     info.ProcCharges,
		stacks:      1,
	}
	for slot := 0; slot < info.EffectCount(); slot++ {
		eff := info.Effect(slot)
		if !eff.Effect.AppliesAura() || eff.Aura == spell.AuraNone {
			continue
		}
		a.effects[slot] = &combat.AuraEffect{
			Slot:              slot,
			Aura:              eff.Aura,
			BaseAmount:        eff.BasePoints,
			Amount:            eff.BasePoints,
			AmplitudeMs:       eff.AmplitudeMs,
			Periodic:          eff.Aura.IsPeriodic(),
			CanBeRecalculated: true,
		}
	}
	for _, s := range e.catalog.AuraScripts(info.ID) {
		if script.LoadAura(s, a) {
			a.scripts = append(a.scripts, s)
		}
	}
	a.calculate()
	return a
}

func (a *Aura) SpellInfo() *spell.Info { return a.info }

func (a *Aura) ID() uint32 { return a.info.ID }

func (a *Aura) CasterID() combat.ObjectID { return a.caster }

func (a *Aura) Owner() combat.ObjectID { return a.owner }

func (a *Aura) Duration() int32 { return a.duration }

func (a *Aura) SetDuration(ms int32) { a.duration = min(ms, a.maxDuration) }

func (a *Aura) RefreshDuration() { a.duration = a.maxDuration }

func (a *Aura) MaxDuration() int32 { return a.maxDuration }

func (a *Aura) SetMaxDuration(ms int32) { a.maxDuration = ms }

func (a *Aura) Charges() uint8 { return a.charges }

func (a *Aura) SetCharges(n uint8) { a.charges = n }

func (a *Aura) StackAmount() uint8 { return a.stacks }

func (a *Aura) SetStackAmount(n uint8) { a.stacks = n }

func (a *Aura) IsPassive() bool { return a.info.Passive }

// IsExpired reports whether a timed aura ran out.
func (a *Aura) IsExpired() bool {
	return !a.info.IsPermanent() && a.duration <= 0
}

func (a *Aura) Effect(slot int) *combat.AuraEffect {
	if slot < 0 || slot >= spell.MaxEffects {
		return nil
	}
	return a.effects[slot]
}

func (a *Aura) Application(target combat.ObjectID) combat.Application {
	if p := a.app(target); p != nil {
		return p
	}
	return nil
}

// Remove removes the aura from every target and unloads its scripts.
func (a *Aura) Remove(mode combat.RemoveMode) {
	a.detach(mode)
	a.unload()
}

// Removed reports whether the aura was removed.
func (a *Aura) Removed() bool { return a.removed }

func (a *Aura) app(target combat.ObjectID) *Application {
	for _, p := range a.apps {
		if p.target == target {
			return p
		}
	}
	return nil
}

func (a *Aura) slots() spell.Mask {
	var m spell.Mask
	for slot, eff := range a.effects {
		if eff != nil {
			m = m.Set(slot)
		}
	}
	return m
}

func (a *Aura) notify(kind hook.Kind, slot int, app *Application, ev *script.Event) script.Result {
	if ev == nil {
		ev = &script.Event{}
	}
	if slot >= 0 {
		ev.Slots = spell.MaskOf(slot)
	}
	target := a.owner
	if app != nil {
		ev.Application = app
		target = app.target
	}
	ev.Target = target

	a.dispatching++
	res := script.NotifyAll(a.scripts, kind, ev)
	a.dispatching--
	a.engine.trace.record(a.info.ID, kind, slot, target, res)
	if a.removed && a.dispatching == 0 {
		a.unload()
	}
	return res
}

// calculate runs the amount, periodic and spell modifier hooks, each over
// every effect.
func (a *Aura) calculate() {
	for _, slot := range a.slots().Slots() {
		eff := a.effects[slot]
		amount, recalc := eff.BaseAmount, eff.CanBeRecalculated
		a.notify(hook.EffectCalcAmount, slot, nil, &script.Event{Amount: &amount, CanRecalculate: &recalc})
		eff.Amount, eff.CanBeRecalculated = amount, recalc
	}
	for _, slot := range a.slots().Slots() {
		eff := a.effects[slot]
		periodic, amp := eff.Periodic, eff.AmplitudeMs
		a.notify(hook.EffectCalcPeriodic, slot, nil, &script.Event{Periodic: &periodic, Amplitude: &amp})
		eff.Periodic, eff.AmplitudeMs = periodic, amp
	}
	for _, slot := range a.slots().Slots() {
		eff := a.effects[slot]
		var kind combat.ModifierKind
		switch eff.Aura {
		case spell.AuraAddFlatModifier:
			kind = combat.ModifierFlat
		case spell.AuraAddPctModifier:
			kind = combat.ModifierPct
		default:
			continue
		}
		mod := &combat.SpellModifier{Kind: kind, Value: eff.Amount, SpellID: a.info.ID}
		a.notify(hook.EffectCalcSpellMod, slot, nil, &script.Event{SpellMod: &mod})
		eff.SpellMod = mod
	}
}

// applyAura applies a to target. An aura of the same spell and caster
// already on the target is refreshed and stacked instead, and a is
// discarded. It returns the aura now on the target, or nil when an area
// check rejected it.
func (e *Engine) applyAura(a *Aura, target combat.ObjectID, mask spell.Mask) *Aura {
	if target != a.caster && (a.info.HasEffect(spell.EffectApplyAreaAuraParty) || a.info.HasEffect(spell.EffectApplyAreaAuraRaid)) {
		if res := a.notify(hook.CheckAreaTarget, -1, nil, nil); !res.Allowed {
			a.unload()
			return nil
		}
	}
	for _, old := range e.Auras(target) {
		if old.info.ID == a.info.ID && old.caster == a.caster {
			a.unload()
			old.RefreshDuration()
			if limit := max(old.info.MaxStack, 1); old.stacks < limit {
				old.stacks++
			}
			return old
		}
	}

	app := &Application{aura: a, target: target, mask: mask}
	a.apps = append(a.apps, app)
	e.auras = append(e.auras, a)
	for _, slot := range mask.Slots() {
		if res := a.notify(hook.EffectApply, slot, app, &script.Event{Mode: combat.ModeReal}); res.DefaultPrevented {
			app.mask &^= spell.MaskOf(slot)
		}
		a.notify(hook.EffectAfterApply, slot, app, &script.Event{Mode: combat.ModeReal})
	}
	return a
}

// detach runs the remove hooks for every application and drops the aura
// from the engine without unloading its scripts.
func (a *Aura) detach(mode combat.RemoveMode) {
	if a.removed {
		return
	}
	a.removed = true
	a.dispatching++
	for _, app := range a.apps {
		app.removeMode = mode
		for _, slot := range app.mask.Slots() {
			a.notify(hook.EffectRemove, slot, app, &script.Event{Mode: combat.ModeReal})
			a.notify(hook.EffectAfterRemove, slot, app, &script.Event{Mode: combat.ModeReal})
		}
	}
	a.dispatching--
	a.engine.dropAura(a)
}

func (a *Aura) unload() {
	if a.unloaded || a.dispatching > 0 {
		return
	}
	a.unloaded = true
	for _, s := range a.scripts {
		script.UnloadScript(s)
	}
}

func (a *Aura) tick(ms int32) {
	if a.removed {
		return
	}
	for _, app := range a.apps {
		for _, slot := range app.mask.Slots() {
			eff := a.effects[slot]
			if eff == nil || !eff.Periodic || eff.AmplitudeMs <= 0 {
				continue
			}
			eff.PeriodicTimerMs += ms
			for eff.PeriodicTimerMs >= eff.AmplitudeMs && !a.removed {
				eff.PeriodicTimerMs -= eff.AmplitudeMs
				eff.TickNumber++
				if res := a.notify(hook.EffectPeriodic, slot, app, nil); !res.DefaultPrevented {
					a.periodic(app, slot)
				}
				a.notify(hook.EffectUpdatePeriodic, slot, app, nil)
			}
		}
	}
	if a.removed || a.info.IsPermanent() {
		return
	}
	a.duration -= ms
	if a.duration <= 0 {
		a.duration = 0
		a.Remove(combat.RemoveByExpire)
	}
}

func (a *Aura) periodic(app *Application, slot int) {
	eff := a.effects[slot]
	switch eff.Aura {
	case spell.AuraPeriodicDamage:
		if eff.Amount > 0 {
			a.engine.dealDamage(a.caster, app.target, a.info.ID, uint32(eff.Amount))
		}
	case spell.AuraPeriodicHeal:
		a.engine.heal(app.target, int64(eff.Amount))
	case spell.AuraPeriodicTriggerSpell:
		if id := a.info.Effect(slot).TriggerSpell; id != 0 {
			a.engine.trigger(id, a.caster, app.target, a.info)
		}
	}
}

// absorb runs the absorb, mana shield and split effects of a against dmg.
func (a *Aura) absorb(victim combat.ObjectID, dmg *combat.DamageInfo) {
	app := a.app(victim)
	if app == nil {
		return
	}
	for _, slot := range app.mask.Slots() {
		eff := a.effects[slot]
		if eff == nil || dmg.Damage == 0 || a.removed {
			continue
		}
		switch eff.Aura {
		case spell.AuraSchoolAbsorb:
			a.shield(app, eff, dmg, hook.EffectAbsorb, hook.EffectAfterAbsorb)
		case spell.AuraManaShield:
			a.shield(app, eff, dmg, hook.EffectManaShield, hook.EffectAfterManaShield)
		case spell.AuraSplitDamagePct:
			split := dmg.Damage * uint32(max(eff.Amount, 0)) / 100
			res := a.notify(hook.EffectSplit, slot, app, &script.Event{Damage: dmg, AbsorbAmount: &split})
			if res.DefaultPrevented {
				continue
			}
			split = min(split, dmg.Damage)
			dmg.Damage -= split
			if u := a.engine.units[a.caster]; u != nil && a.caster != victim {
				u.Health -= int64(split)
			}
		}
	}
}

func (a *Aura) shield(app *Application, eff *combat.AuraEffect, dmg *combat.DamageInfo, on, after hook.Kind) {
	amount := min(uint32(max(eff.Amount, 0)), dmg.Damage)
	ev := &script.Event{Damage: dmg, AbsorbAmount: &amount}
	if res := a.notify(on, eff.Slot, app, ev); !res.DefaultPrevented {
		amount = min(amount, dmg.Damage)
		dmg.AbsorbDamage(amount)
		eff.Amount -= int32(amount)
	}
	a.notify(after, eff.Slot, app, ev)
	if eff.Amount <= 0 && !a.removed {
		a.Remove(combat.RemoveByEnemySpell)
	}
}

// proc runs the proc hooks for ev and reports whether the aura procced.
func (a *Aura) proc(target combat.ObjectID, ev *combat.ProcEventInfo) bool {
	app := a.app(target)
	if app == nil || a.removed {
		return false
	}
	if res := a.notify(hook.CheckProc, -1, app, &script.Event{Proc: ev}); !res.Allowed {
		return false
	}
	var procMask spell.Mask
	for _, slot := range app.mask.Slots() {
		if res := a.notify(hook.CheckEffectProc, slot, app, &script.Event{Proc: ev}); res.Allowed {
			procMask = procMask.Set(slot)
		}
	}
	if procMask == 0 {
		return false
	}

	prepared := !a.notify(hook.PrepareProc, -1, app, &script.Event{Proc: ev}).DefaultPrevented
	var triggers []uint32
	if res := a.notify(hook.Proc, -1, app, &script.Event{Proc: ev}); !res.DefaultPrevented {
		for _, slot := range procMask.Slots() {
			res := a.notify(hook.EffectProc, slot, app, &script.Event{Proc: ev})
			if res.DefaultPrevented || a.effects[slot].Aura != spell.AuraProcTriggerSpell {
				continue
			}
			if id := a.info.Effect(slot).TriggerSpell; id != 0 {
				triggers = append(triggers, id)
			}
		}
	}
	for _, slot := range procMask.Slots() {
		a.notify(hook.EffectAfterProc, slot, app, &script.Event{Proc: ev})
	}
	a.notify(hook.AfterProc, -1, app, &script.Event{Proc: ev})

	victim := ev.Actor
	if victim == combat.NoObject || victim == target {
		victim = ev.ActionTarget
	}
	for _, id := range triggers {
		a.engine.trigger(id, target, victim, a.info)
	}
	if prepared && a.charges > 0 && !a.removed {
		a.charges--
		if a.charges == 0 {
			a.Remove(combat.RemoveByExpire)
		}
	}
	return true
}

// dispel runs the dispel hooks. When the charges run out the aura is
// removed between Dispel and AfterDispel.
func (a *Aura) dispel(target combat.ObjectID, info *combat.DispelInfo) {
	app := a.app(target)
	if app == nil || a.removed {
		return
	}
	a.notify(hook.Dispel, -1, app, &script.Event{Dispel: info})
	if info.RemovedCharges > 0 {
		if a.charges > info.RemovedCharges {
			a.charges -= info.RemovedCharges
		} else {
			a.detach(combat.RemoveByEnemySpell)
		}
	}
	a.dispatching++
	a.notify(hook.AfterDispel, -1, app, &script.Event{Dispel: info})
	a.dispatching--
	if a.removed {
		a.unload()
	}
}
