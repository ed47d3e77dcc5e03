package script_test

import (
	"testing"

	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/spell"
)

const (
	casterID combat.ObjectID = 1
	targetID combat.ObjectID = 2
)

// fireball has a damage effect, a periodic damage aura and a dummy.
func fireball() *spell.Info {
	return &spell.Info{
		ID:         133,
		Name:       "Fireball",
		DurationMs: 8000,
		MaxStack:   3,
		Effects: []spell.EffectInfo{
			{Effect: spell.EffectSchoolDamage, TargetA: spell.TargetUnitTargetEnemy, BasePoints: 50},
			{Effect: spell.EffectApplyAura, Aura: spell.AuraPeriodicDamage, TargetA: spell.TargetUnitTargetEnemy, BasePoints: 5, AmplitudeMs: 2000},
			{Effect: spell.EffectDummy, TargetA: spell.TargetUnitCaster},
		},
	}
}

func storeOf(t *testing.T, infos ...*spell.Info) *spell.Store {
	t.Helper()
	store := spell.NewStore()
	for _, info := range infos {
		if err := store.Add(info); err != nil {
			t.Fatalf("Add(%d): %v", info.ID, err)
		}
	}
	return store
}

type fakeCast struct {
	info    *spell.Info
	damage  int32
	heal    int32
	value   int32
	dest    combat.Position
	hasDest bool

	finished      bool
	custom        combat.CastResult
	auraPrevented bool
}

func (c *fakeCast) SpellInfo() *spell.Info                  { return c.info }
func (c *fakeCast) Caster() combat.ObjectID                 { return casterID }
func (c *fakeCast) OriginalCaster() combat.ObjectID         { return casterID }
func (c *fakeCast) TriggeringSpell() *spell.Info            { return nil }
func (c *fakeCast) CastItem() combat.ObjectID               { return combat.NoObject }
func (c *fakeCast) ExplTargetUnit() combat.ObjectID         { return targetID }
func (c *fakeCast) ExplTargetDest() (combat.Position, bool) { return c.dest, c.hasDest }
func (c *fakeCast) SetExplTargetDest(p combat.Position)     { c.dest, c.hasDest = p, true }
func (c *fakeCast) EffectValue() int32                      { return c.value }
func (c *fakeCast) SetEffectValue(v int32)                  { c.value = v }
func (c *fakeCast) HitUnit() combat.ObjectID                { return targetID }
func (c *fakeCast) HitDest() (combat.Position, bool)        { return c.dest, c.hasDest }
func (c *fakeCast) HitDamage() int32                        { return c.damage }
func (c *fakeCast) SetHitDamage(v int32)                    { c.damage = v }
func (c *fakeCast) HitHeal() int32                          { return c.heal }
func (c *fakeCast) SetHitHeal(v int32)                      { c.heal = v }
func (c *fakeCast) HitAura() combat.Aura                    { return nil }
func (c *fakeCast) PreventHitAura()                         { c.auraPrevented = true }
func (c *fakeCast) Finish(bool)                             { c.finished = true }
func (c *fakeCast) SetCustomCastResult(r combat.CastResult) { c.custom = r }

type fakeAura struct {
	info     *spell.Info
	effects  map[int]*combat.AuraEffect
	duration int32
	charges  uint8
	stacks   uint8
	removed  combat.RemoveMode
}

func newFakeAura(info *spell.Info) *fakeAura {
	a := &fakeAura{info: info, effects: make(map[int]*combat.AuraEffect), duration: info.DurationMs, stacks: 1}
	for slot, eff := range info.Effects {
		if eff.Effect.AppliesAura() {
			a.effects[slot] = &combat.AuraEffect{Slot: slot, Aura: eff.Aura, Amount: eff.BasePoints}
		}
	}
	return a
}

func (a *fakeAura) SpellInfo() *spell.Info    { return a.info }
func (a *fakeAura) ID() uint32                { return a.info.ID }
func (a *fakeAura) CasterID() combat.ObjectID { return casterID }
func (a *fakeAura) Owner() combat.ObjectID    { return targetID }
func (a *fakeAura) Duration() int32           { return a.duration }
func (a *fakeAura) SetDuration(ms int32)      { a.duration = ms }
func (a *fakeAura) RefreshDuration()          { a.duration = a.info.DurationMs }
func (a *fakeAura) MaxDuration() int32        { return a.info.DurationMs }
func (a *fakeAura) SetMaxDuration(int32) {}
func (a *fakeAura) Charges() uint8         { return a.charges }
func (a *fakeAura) SetCharges(n uint8)     { a.charges = n }
func (a *fakeAura) StackAmount() uint8     { return a.stacks }
func (a *fakeAura) SetStackAmount(n uint8) { a.stacks = n }
func (a *fakeAura) IsPassive() bool        { return false }
func (a *fakeAura) IsExpired() bool        { return a.duration == 0 }
func (a *fakeAura) Effect(slot int) *combat.AuraEffect {
	return a.effects[slot]
}
func (a *fakeAura) Application(target combat.ObjectID) combat.Application {
	return &fakeApp{aura: a, target: target}
}
func (a *fakeAura) Remove(mode combat.RemoveMode) { a.removed = mode }

type fakeApp struct {
	aura   *fakeAura
	target combat.ObjectID
}

func (p *fakeApp) Aura() combat.Aura             { return p.aura }
func (p *fakeApp) Target() combat.ObjectID       { return p.target }
func (p *fakeApp) EffectMask() spell.Mask        { return p.aura.info.UsedSlots() }
func (p *fakeApp) RemoveMode() combat.RemoveMode { return p.aura.removed }

// testSpell is a spell script whose Register is supplied by the test.
type testSpell struct {
	script.SpellScript
	reg     func(*testSpell)
	load    bool
	valid   bool
	flag    bool
	unloads int
}

func (s *testSpell) Register()                 { s.reg(s) }
func (s *testSpell) Load() bool                { return s.load }
func (s *testSpell) Validate(*spell.Info) bool { return s.valid }
func (s *testSpell) Unload()                   { s.unloads++ }

// testAura is an aura script whose Register is supplied by the test.
type testAura struct {
	script.AuraScript
	reg func(*testAura)
}

func (s *testAura) Register() { s.reg(s) }

func newEnv(t *testing.T, faults *script.FaultReporter) script.Env {
	return script.Env{Spells: storeOf(t, fireball()), Faults: faults}
}

// registered returns a registered but not loaded spell script.
func registered(t *testing.T, env script.Env, reg func(*testSpell)) *testSpell {
	t.Helper()
	s := &testSpell{reg: reg, load: true, valid: true}
	script.Init(s, "test_spell", 133, env)
	if err := script.RegisterScript(s); err != nil {
		t.Fatalf("RegisterScript: %v", err)
	}
	return s
}

// loadedSpell returns a spell script loaded on cast.
func loadedSpell(t *testing.T, cast *fakeCast, reg func(*testSpell)) *testSpell {
	t.Helper()
	s := registered(t, newEnv(t, nil), reg)
	if !script.LoadSpell(s, cast) {
		t.Fatal("LoadSpell failed")
	}
	return s
}

// loadedAura returns an aura script loaded on aura.
func loadedAura(t *testing.T, aura *fakeAura, reg func(*testAura)) *testAura {
	t.Helper()
	s := &testAura{reg: reg}
	script.Init(s, "test_aura", aura.info.ID, newEnv(t, nil))
	if err := script.RegisterScript(s); err != nil {
		t.Fatalf("RegisterScript: %v", err)
	}
	if !script.LoadAura(s, aura) {
		t.Fatal("LoadAura failed")
	}
	return s
}
