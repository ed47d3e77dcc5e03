package spell

import (
	"fmt"
	"sort"

	"github.com/dshills/spellhook/internal/logging"
)

// Lookup resolves spell ids to definitions.
type Lookup interface {
	// Get returns the definition for id, or nil.
	Get(id uint32) *Info
}

// Store is the spell definition table.
//
// Add is only safe during loading; afterwards the store is read-only and
// may be read from any goroutine.
type Store struct {
	spells map[uint32]*Info
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{spells: make(map[uint32]*Info)}
}

// Add inserts a definition.
func (s *Store) Add(info *Info) error {
	if info == nil || info.ID == 0 {
		return ErrInvalidSpellID
	}
	if len(info.Effects) > MaxEffects {
		return fmt.Errorf("spell %d: %w (%d > %d)", info.ID, ErrTooManyEffects, len(info.Effects), MaxEffects)
	}
	if _, exists := s.spells[info.ID]; exists {
		return fmt.Errorf("spell %d: %w", info.ID, ErrDuplicateSpell)
	}
	s.spells[info.ID] = info
	return nil
}

// Get returns the definition for id, or nil.
func (s *Store) Get(id uint32) *Info {
	if s == nil {
		return nil
	}
	return s.spells[id]
}

// Exists reports whether id is defined.
func (s *Store) Exists(id uint32) bool {
	return s.Get(id) != nil
}

// Len returns the number of definitions.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.spells)
}

// IDs returns all defined ids in ascending order.
func (s *Store) IDs() []uint32 {
	ids := make([]uint32, 0, s.Len())
	if s == nil {
		return ids
	}
	for id := range s.spells {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// MissingIDs returns the ids that are not defined, in input order.
func (s *Store) MissingIDs(ids ...uint32) []uint32 {
	var missing []uint32
	for _, id := range ids {
		if !s.Exists(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// ValidateIDs checks that every id is defined in the store. See ValidateIDs.
func (s *Store) ValidateIDs(log *logging.Logger, ids ...uint32) bool {
	return ValidateIDs(s, log, ids...)
}

// ValidateIDs checks that every id resolves in l. Each missing id is logged;
// the check never stops at the first failure. It returns true only when all
// ids exist.
func ValidateIDs(l Lookup, log *logging.Logger, ids ...uint32) bool {
	allValid := true
	for _, id := range ids {
		if l != nil && l.Get(id) != nil {
			continue
		}
		allValid = false
		if log != nil {
			log.Error("spell %d does not exist", id)
		}
	}
	return allValid
}
