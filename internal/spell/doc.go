// Package spell holds the static spell definition table.
//
// Definitions are loaded once at startup (see LoadFile) and are read-only
// afterwards. Every spell carries up to MaxEffects effect slots; each slot has
// an effect type, an optional aura type, and two implicit target types. The
// script framework filters hook bindings against this data and never mutates
// it, so a Store may be shared by any number of readers once loading is done.
//
// A spell data file looks like:
//
//	spells:
//	  - id: 133
//	    name: Fireball
//	    duration_ms: 8000
//	    effects:
//	      - effect: SchoolDamage
//	        target_a: UnitTargetEnemy
//	        base_points: 888
//	      - effect: ApplyAura
//	        aura: PeriodicDamage
//	        target_a: UnitTargetEnemy
//	        base_points: 29
//	        amplitude_ms: 2000
//
// Enum values may be written by name or by number.
package spell
