// Package script implements spell and aura scripts: the bases script
// authors embed, the accessor layer that exposes the live cast or aura to
// callbacks, and the dispatcher the effect engine calls at every hook.
//
// # Writing a Script
//
// A script is a struct that embeds SpellScript or AuraScript and implements
// Register. Register attaches callbacks with the registration methods of the
// base; it is the only place they may be called.
//
//	type fireball struct {
//		script.SpellScript
//		crit bool
//	}
//
//	func (s *fireball) Register() {
//		s.BeforeCast(func() { s.crit = false })
//		s.OnEffectHitTarget(s.hit, hook.Slot(0), spell.EffectSchoolDamage)
//	}
//
//	func (s *fireball) hit(slot int) {
//		s.SetHitDamage(s.HitDamage() * 2)
//	}
//
// Validate, Load and Unload may be overridden; by default Validate and
// Load succeed and Unload does nothing.
//
// # Lifecycle
//
// The engine (or the catalog on its behalf) drives an instance through
// Init, RegisterScript, LoadSpell or LoadAura, any number of Notify calls,
// and UnloadScript. Notify on an instance that is not loaded does nothing.
//
// # Faults
//
// Calling an accessor outside the hooks it is valid in, registering outside
// Register, and panicking inside a callback are faults. Faults are reported
// through the FaultReporter and never escape Notify. Accessors called at
// the wrong time return their zero value.
package script
