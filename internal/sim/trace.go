package sim

import (
	"fmt"
	"strings"

	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/script/hook"
)

// TraceEntry is one dispatch point visited by the engine.
type TraceEntry struct {
	Spell   uint32
	Hook    hook.Kind
	Slot    int
	Target  combat.ObjectID
	Invoked int
	Faults  int
}

func (e TraceEntry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d %s", e.Spell, e.Hook)
	if e.Slot >= 0 {
		fmt.Fprintf(&b, " slot=%d", e.Slot)
	}
	if e.Target != combat.NoObject {
		fmt.Fprintf(&b, " target=%d", e.Target)
	}
	fmt.Fprintf(&b, " invoked=%d", e.Invoked)
	if e.Faults > 0 {
		fmt.Fprintf(&b, " faults=%d", e.Faults)
	}
	return b.String()
}

// Trace records dispatch points in order.
type Trace struct {
	entries []TraceEntry
}

func (t *Trace) record(spellID uint32, kind hook.Kind, slot int, target combat.ObjectID, res script.Result) {
	t.entries = append(t.entries, TraceEntry{
		Spell:   spellID,
		Hook:    kind,
		Slot:    slot,
		Target:  target,
		Invoked: res.Invoked,
		Faults:  res.Faults,
	})
}

// Entries returns the recorded entries.
func (t *Trace) Entries() []TraceEntry {
	return append([]TraceEntry(nil), t.entries...)
}

// Kinds returns the hook kinds in the order they were visited, with
// consecutive repeats collapsed.
func (t *Trace) Kinds() []hook.Kind {
	var kinds []hook.Kind
	for _, e := range t.entries {
		if n := len(kinds); n > 0 && kinds[n-1] == e.Hook {
			continue
		}
		kinds = append(kinds, e.Hook)
	}
	return kinds
}

// Invoked returns the number of callbacks run at kind.
func (t *Trace) Invoked(kind hook.Kind) int {
	n := 0
	for _, e := range t.entries {
		if e.Hook == kind {
			n += e.Invoked
		}
	}
	return n
}

// Len returns the number of entries.
func (t *Trace) Len() int {
	return len(t.entries)
}

// Reset clears the trace.
func (t *Trace) Reset() {
	t.entries = t.entries[:0]
}

func (t *Trace) String() string {
	var b strings.Builder
	for _, e := range t.entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}
