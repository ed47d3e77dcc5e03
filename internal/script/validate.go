package script

import (
	"github.com/dshills/spellhook/internal/script/lifecycle"
	"github.com/dshills/spellhook/internal/spell"
)

// Report is the outcome of validating a script against a spell. Reports
// are built once at startup and never modified afterwards.
type Report struct {
	Script  string
	SpellID uint32

	// Valid is false when the script must not be attached to the spell.
	Valid  bool
	Reason string

	// Unmatched lists the bindings that match no effect slot of the spell.
	// They never run, but do not make the script invalid.
	Unmatched []string
}

// Validate checks a registered instance against info. Bindings whose
// filter matches no slot are reported and stay inert; the script as a
// whole is rejected only when it failed to register, or when its own
// Validate returns false.
func Validate(s Script, info *spell.Info) Report {
	b := s.scriptBase()
	r := Report{Script: b.name, SpellID: b.spellID}

	switch {
	case info == nil:
		r.Reason = ErrUnknownSpell.Error()
		b.log.Error("spell %d does not exist", b.spellID)
		return r
	case b.machine.State() != lifecycle.StateRegistered:
		r.Reason = "not registered (" + b.machine.State().String() + ")"
		return r
	}

	for _, e := range b.hooks.Resolve(info) {
		r.Unmatched = append(r.Unmatched, e.Binding.String())
		b.log.Error("hook %s matches no effect of spell %d (%s)", e.Binding, info.ID, info.Name)
	}

	ok := false
	if !b.safeCall("Validate", func() { ok = s.Validate(info) }) {
		r.Reason = "Validate panicked"
		return r
	}
	if !ok {
		r.Reason = "rejected by Validate"
		b.log.Error("script rejected spell %d (%s)", info.ID, info.Name)
		return r
	}
	r.Valid = true
	return r
}
