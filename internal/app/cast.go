package app

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/sim"
)

// CastRequest describes a cast to run on the reference engine.
type CastRequest struct {
	Spell  uint32
	Caster combat.ObjectID
	Target combat.ObjectID

	// Health is the starting health of both units.
	Health int64
	// TickMs advances auras after the cast.
	TickMs int32
}

// CastResult is what a simulated cast produced.
type CastResult struct {
	Outcome *sim.Outcome
	Trace   *sim.Trace
	Caster  sim.Unit
	Target  sim.Unit
	Auras   int
}

// Cast runs req against a fresh engine that shares the snapshot's scripts.
func (s *Snapshot) Cast(req CastRequest) (*CastResult, error) {
	if s.runtime == nil {
		return nil, ErrClosed
	}
	if req.Caster == combat.NoObject {
		req.Caster = 1
	}
	if req.Target == combat.NoObject {
		req.Target = 2
	}
	if req.Health <= 0 {
		req.Health = 1000
	}

	e := sim.New(s.Spells, s.Catalog, sim.WithLogger(s.log))
	e.AddUnit(sim.Unit{ID: req.Caster, Name: "caster", Health: req.Health})
	if req.Target != req.Caster {
		e.AddUnit(sim.Unit{ID: req.Target, Name: "target", Health: req.Health})
	}

	out, err := e.Cast(req.Spell, req.Caster, req.Target)
	if err != nil {
		return nil, err
	}
	if req.TickMs > 0 {
		e.Tick(req.TickMs)
	}
	return &CastResult{
		Outcome: out,
		Trace:   e.Trace(),
		Caster:  *e.Unit(req.Caster),
		Target:  *e.Unit(req.Target),
		Auras:   len(e.Auras(req.Target)),
	}, nil
}
