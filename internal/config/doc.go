// Package config loads the spellhook configuration.
//
// Settings are resolved in layers, highest priority first:
//
//  1. Overrides passed by the caller (command line flags)
//  2. SPELLHOOK_* environment variables
//  3. The TOML config file
//  4. Built-in defaults
//
// A config file looks like:
//
//	[logging]
//	level = "debug"
//
//	[data]
//	spells = "data/spells.yaml"
//	bindings = "data/bindings.yaml"
//
//	[scripts]
//	dir = "data/scripts"
//	pattern = "**/*.lua"
//	workers = 4
//	call_timeout = "250ms"
//	watch = true
//
//	[faults]
//	rate = 1.0
//	burst = 5
//
// Unknown sections and keys are rejected.
package config
