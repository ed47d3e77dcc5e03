package script

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/script/lifecycle"
	"github.com/dshills/spellhook/internal/spell"
)

// Notify runs the callbacks s registered for kind.
//
// Per-effect kinds visit the slots of ev.Slots in ascending order and, for
// each slot, the bindings in registration order whose filter matches it.
// Other kinds run every binding once, in registration order. A panicking
// callback is reported as a fault and ends dispatch to s for this event.
// Once a spell script prevents a slot during the hit phase, its later
// per-target effect callbacks for that slot are skipped.
// The frame pushed for the dispatch is always popped before Notify returns.
func Notify(s Script, kind hook.Kind, ev *Event) (res Result) {
	res = newResult()
	b := s.scriptBase()
	b.lastPrevented = false
	if !b.machine.IsLoaded() {
		return res
	}
	list := b.hooks.Lookup(kind)
	if len(list) == 0 {
		return res
	}
	if ev == nil {
		ev = &Event{}
	}

	faults := b.faults
	b.frames.Push(lifecycle.Frame{
		Hook:        kind,
		Slot:        -1,
		Target:      ev.Target,
		Application: ev.Application,
	})
	defer func() {
		f, err := b.frames.Pop()
		if err != nil {
			b.fault("notify", "%v", err)
		}
		b.lastPrevented = f.DefaultPrevented
		res.DefaultPrevented = res.DefaultPrevented || f.DefaultPrevented
		res.Faults = b.faults - faults
	}()

	b.invoke(s, kind, list, ev, &res)
	return res
}

// NotifyAll runs Notify for every script and merges the results.
func NotifyAll[S Script](scripts []S, kind hook.Kind, ev *Event) Result {
	res := newResult()
	for _, s := range scripts {
		res = res.Merge(Notify(s, kind, ev))
	}
	return res
}

func (b *base) invoke(s Script, kind hook.Kind, list hook.List, ev *Event, res *Result) {
	defer func() {
		if r := recover(); r != nil {
			b.fault("callback", "panic: %v", r)
			b.log.Warn("%s aborted: %v", kind, r)
		}
	}()

	if !kind.PerEffect() {
		for _, e := range list {
			e.Binding.Fn.(invoker)(&call{ev: ev, slot: -1, res: res})
			res.Invoked++
		}
		return
	}

	slots := ev.Slots
	if slots == 0 {
		slots = spell.AllSlots
	}
	as, _ := s.(AuraScripter)
	var prevented func(int) bool
	if ss, ok := s.(SpellScripter); ok && skipsPrevented(kind) {
		prevented = ss.IsEffectPrevented
	}
	for slot := 0; slot < spell.MaxEffects; slot++ {
		if !slots.Has(slot) || !list.Mask().Has(slot) {
			continue
		}
		if prevented != nil && prevented(slot) {
			continue
		}
		b.frames.Top().Slot = slot
		c := &call{ev: ev, slot: slot, res: res}
		if as != nil {
			c.eff = as.auraScript().effect(slot)
		}
		for _, e := range list {
			if !e.Matches(slot) || !modeMatches(e.Binding.Mode, ev.Mode) {
				continue
			}
			if prevented != nil && prevented(slot) {
				break
			}
			e.Binding.Fn.(invoker)(c)
			res.Invoked++
		}
	}
}

// skipsPrevented reports whether kind runs per hit target and effect, so a
// slot prevented earlier in the hit must not reach it.
func skipsPrevented(kind hook.Kind) bool {
	return kind == hook.EffectHitTarget || kind == hook.EffectSuccessfulDispel
}

func modeMatches(want, got combat.HandleMode) bool {
	return want == combat.ModeDefault || got.Has(want)
}
