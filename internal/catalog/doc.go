// Package catalog maps spells to the scripts attached to them.
//
// Script factories are registered by name, in Go with RegisterSpellScript
// and RegisterAuraScript or from Lua through internal/script/lua. A
// bindings file then attaches names to spell ids:
//
//	bindings:
//	  - spell: 133
//	    script: spell_mage_fireball
//	  - spell: 133
//	    script: spell_generic_burn
//
// Load validates every binding once: the spell must exist, the name must
// be registered, and the script must register and validate against the
// spell. Failed bindings are logged and skipped; they never stop the load.
// The resulting reports are immutable and safe to read from any goroutine.
//
// SpellScripts and AuraScripts create fresh, registered instances in
// binding order for every cast or aura.
package catalog
