package spell

import (
	"math/bits"
	"strconv"
	"strings"
)

// MaxEffects is the number of effect slots a spell definition can carry.
const MaxEffects = 8

// Mask is a bitset over effect slots; bit i set means slot i.
type Mask uint8

// AllSlots has every effect slot set.
const AllSlots Mask = 1<<MaxEffects - 1

// MaskOf returns a mask with the given slots set. Out of range slots are ignored.
func MaskOf(slots ...int) Mask {
	var m Mask
	for _, s := range slots {
		m = m.Set(s)
	}
	return m
}

// Has reports whether slot is set.
func (m Mask) Has(slot int) bool {
	if slot < 0 || slot >= MaxEffects {
		return false
	}
	return m&(1<<uint(slot)) != 0
}

// Set returns m with slot set.
func (m Mask) Set(slot int) Mask {
	if slot < 0 || slot >= MaxEffects {
		return m
	}
	return m | 1<<uint(slot)
}

// Count returns the number of set slots.
func (m Mask) Count() int {
	return bits.OnesCount8(uint8(m))
}

// Lowest returns the lowest set slot, or -1 when the mask is empty.
func (m Mask) Lowest() int {
	if m == 0 {
		return -1
	}
	return bits.TrailingZeros8(uint8(m))
}

// Slots returns the set slots in ascending order.
func (m Mask) Slots() []int {
	slots := make([]int, 0, m.Count())
	for i := 0; i < MaxEffects; i++ {
		if m.Has(i) {
			slots = append(slots, i)
		}
	}
	return slots
}

// String renders the mask as a slot list, e.g. "{0,2}".
func (m Mask) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, s := range m.Slots() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s))
	}
	b.WriteByte('}')
	return b.String()
}
