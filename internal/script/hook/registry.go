package hook

import (
	"fmt"
	"sort"

	"github.com/dshills/spellhook/internal/spell"
)

// Gate reports whether the owner of a registry accepts registrations.
type Gate interface {
	CanRegister() bool
}

// GateFunc adapts a function to Gate.
type GateFunc func() bool

// CanRegister calls f.
func (f GateFunc) CanRegister() bool {
	return f()
}

// Registry holds the bindings of one script instance.
type Registry struct {
	gate  Gate
	lists map[Kind]List
	count int
}

// NewRegistry creates a registry guarded by gate. A nil gate always accepts.
func NewRegistry(gate Gate) *Registry {
	return &Registry{
		gate:  gate,
		lists: make(map[Kind]List),
	}
}

// Register appends b to the list for kind. The binding's Kind is set to kind.
func (r *Registry) Register(kind Kind, b Binding) error {
	if r.gate != nil && !r.gate.CanRegister() {
		return fmt.Errorf("%s: %w", kind, ErrNotRegistering)
	}
	if !kind.Valid() {
		return fmt.Errorf("%d: %w", kind, ErrInvalidKind)
	}
	if b.Fn == nil {
		return fmt.Errorf("%s: %w", kind, ErrNilCallback)
	}
	if kind.PerEffect() && !b.Filter.Index.Valid() {
		return fmt.Errorf("%s: %w: %d", kind, ErrInvalidSlot, b.Filter.Index)
	}

	b.Kind = kind
	r.lists[kind] = append(r.lists[kind], &Entry{Binding: b})
	r.count++
	return nil
}

// Lookup returns the list registered for kind, in registration order.
func (r *Registry) Lookup(kind Kind) List {
	return r.lists[kind]
}

// Has reports whether any binding is registered for kind.
func (r *Registry) Has(kind Kind) bool {
	return len(r.lists[kind]) > 0
}

// Resolve computes the slot mask of every entry against info and returns
// the per-effect entries that match no slot. It is called once per
// instance when the script is attached to its spell.
func (r *Registry) Resolve(info *spell.Info) []*Entry {
	var unmatched []*Entry
	for _, kind := range r.Kinds() {
		for _, e := range r.lists[kind] {
			e.resolve(info)
			if e.Inert() {
				unmatched = append(unmatched, e)
			}
		}
	}
	return unmatched
}

// Unmatched returns the resolved per-effect entries that match no slot.
func (r *Registry) Unmatched() []*Entry {
	var unmatched []*Entry
	for _, kind := range r.Kinds() {
		for _, e := range r.lists[kind] {
			if e.Inert() {
				unmatched = append(unmatched, e)
			}
		}
	}
	return unmatched
}

// Len returns the total number of bindings.
func (r *Registry) Len() int {
	return r.count
}

// Kinds returns the kinds with at least one binding, in kind order.
func (r *Registry) Kinds() []Kind {
	kinds := make([]Kind, 0, len(r.lists))
	for k, l := range r.lists {
		if len(l) > 0 {
			kinds = append(kinds, k)
		}
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}
