// Package sim is a small in-memory effect engine. It owns script instances
// for casts and auras and calls them at every hook in the documented order,
// honoring the suppression flags scripts set.
//
// The combat rules are deliberately trivial: damage and healing are the
// effects' base points, area selection returns every other unit, and a
// destination is the target's position. The engine exists to exercise
// scripts, not to model a game.
//
// Every dispatch point is recorded in a Trace, which tests and the
// spellhook cast command use to check hook ordering.
package sim
