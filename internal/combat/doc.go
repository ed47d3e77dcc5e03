// Package combat defines the engine-side types and interfaces that spell
// and aura scripts read and write through their accessors: object ids,
// cast results, damage and proc information, and the live cast and aura
// objects the effect engine owns.
//
// Nothing in this package performs combat math. Implementations of Cast,
// Aura and Application belong to the effect engine; internal/sim provides a
// small in-memory one.
package combat
