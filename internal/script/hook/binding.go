package hook

import (
	"fmt"

	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/spell"
)

// Binding is one registered callback. It is immutable once registered.
type Binding struct {
	Kind   Kind
	Filter Filter

	// Mode restricts aura apply/remove bindings to the given handle modes.
	// Zero means any mode.
	Mode combat.HandleMode

	// Label names the binding in logs and validation reports.
	Label string

	// Fn is the callback. Its type depends on Kind and is opaque here.
	Fn any
}

func (b Binding) String() string {
	label := b.Label
	if label == "" {
		label = b.Kind.String()
	}
	if !b.Kind.PerEffect() {
		return label
	}
	return fmt.Sprintf("%s [%s]", label, b.Filter)
}

// Entry is a Binding within a List together with its resolved slot mask.
type Entry struct {
	Binding  Binding
	mask     spell.Mask
	resolved bool
}

// Mask returns the slots resolved for the entry. Entries of kinds that are
// not per-effect, and entries not yet resolved, report an empty mask.
func (e *Entry) Mask() spell.Mask {
	return e.mask
}

// Resolved reports whether the entry's mask has been computed.
func (e *Entry) Resolved() bool {
	return e.resolved
}

// Matches reports whether the entry runs for slot. Non per-effect entries
// always match; per-effect entries match only resolved slots.
func (e *Entry) Matches(slot int) bool {
	if !e.Binding.Kind.PerEffect() {
		return true
	}
	return e.resolved && e.mask.Has(slot)
}

// Inert reports whether a resolved per-effect entry matches no slot and
// therefore never runs.
func (e *Entry) Inert() bool {
	return e.Binding.Kind.PerEffect() && e.resolved && e.mask == 0
}

func (e *Entry) resolve(info *spell.Info) {
	if e.Binding.Kind.PerEffect() {
		e.mask = e.Binding.Filter.Mask(info)
	}
	e.resolved = true
}

// List is the ordered set of entries registered for one kind. Order is
// registration order and is the invocation order.
type List []*Entry

// Len returns the number of entries.
func (l List) Len() int {
	return len(l)
}

// Bindings returns the bindings in order.
func (l List) Bindings() []Binding {
	out := make([]Binding, len(l))
	for i, e := range l {
		out[i] = e.Binding
	}
	return out
}

// Mask returns the union of the entries' resolved masks.
func (l List) Mask() spell.Mask {
	var m spell.Mask
	for _, e := range l {
		m |= e.mask
	}
	return m
}
