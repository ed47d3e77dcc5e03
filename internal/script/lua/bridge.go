package lua

import (
	"github.com/dshills/spellhook/internal/combat"
	lua "github.com/yuin/gopher-lua"
)

// bridge converts engine values to and from Lua tables.
type bridge struct {
	L *lua.LState
}

func (b bridge) position(p combat.Position) *lua.LTable {
	t := b.L.NewTable()
	t.RawSetString("x", lua.LNumber(p.X))
	t.RawSetString("y", lua.LNumber(p.Y))
	t.RawSetString("z", lua.LNumber(p.Z))
	t.RawSetString("o", lua.LNumber(p.O))
	return t
}

// toPosition reads a position table. Missing fields keep the values of p.
func (b bridge) toPosition(v lua.LValue, p combat.Position) combat.Position {
	t, ok := v.(*lua.LTable)
	if !ok {
		return p
	}
	field := func(name string, cur float32) float32 {
		if n, ok := t.RawGetString(name).(lua.LNumber); ok {
			return float32(n)
		}
		return cur
	}
	return combat.Position{X: field("x", p.X), Y: field("y", p.Y), Z: field("z", p.Z), O: field("o", p.O)}
}

func (b bridge) ids(ids []combat.ObjectID) *lua.LTable {
	t := b.L.CreateTable(len(ids), 0)
	for _, id := range ids {
		t.Append(lua.LNumber(id))
	}
	return t
}

// toIDs reads an array of object ids. Non-numeric entries are skipped.
func (b bridge) toIDs(v lua.LValue) ([]combat.ObjectID, bool) {
	t, ok := v.(*lua.LTable)
	if !ok {
		return nil, false
	}
	out := make([]combat.ObjectID, 0, t.Len())
	for i := 1; i <= t.Len(); i++ {
		if n, ok := t.RawGetInt(i).(lua.LNumber); ok && n > 0 {
			out = append(out, combat.ObjectID(n))
		}
	}
	return out, true
}

func (b bridge) damage(d *combat.DamageInfo) *lua.LTable {
	t := b.L.NewTable()
	if d == nil {
		return t
	}
	t.RawSetString("attacker", lua.LNumber(d.Attacker))
	t.RawSetString("victim", lua.LNumber(d.Victim))
	t.RawSetString("spell", lua.LNumber(d.SpellID))
	t.RawSetString("school", lua.LNumber(d.School))
	t.RawSetString("damage", lua.LNumber(d.Damage))
	t.RawSetString("absorb", lua.LNumber(d.Absorb))
	t.RawSetString("resist", lua.LNumber(d.Resist))
	return t
}

func (b bridge) dispel(d *combat.DispelInfo) *lua.LTable {
	t := b.L.NewTable()
	if d == nil {
		return t
	}
	t.RawSetString("dispeller", lua.LNumber(d.Dispeller))
	t.RawSetString("spell", lua.LNumber(d.DispellerSpell))
	t.RawSetString("charges", lua.LNumber(d.RemovedCharges))
	return t
}

// syncDispel copies a changed charge count back from the table.
func (b bridge) syncDispel(t *lua.LTable, d *combat.DispelInfo) {
	if d == nil {
		return
	}
	if n, ok := t.RawGetString("charges").(lua.LNumber); ok && n >= 0 {
		d.RemovedCharges = uint8(n)
	}
}

func (b bridge) proc(p *combat.ProcEventInfo) *lua.LTable {
	t := b.L.NewTable()
	if p == nil {
		return t
	}
	t.RawSetString("actor", lua.LNumber(p.Actor))
	t.RawSetString("action_target", lua.LNumber(p.ActionTarget))
	t.RawSetString("proc_target", lua.LNumber(p.ProcTarget))
	t.RawSetString("type_mask", lua.LNumber(p.TypeMask))
	t.RawSetString("spell", lua.LNumber(p.SpellID))
	t.RawSetString("heal", lua.LNumber(p.Heal))
	if p.Damage != nil {
		t.RawSetString("damage", b.damage(p.Damage))
	}
	return t
}

// number returns the value as an int64 and whether it was a number.
func number(v lua.LValue) (int64, bool) {
	n, ok := v.(lua.LNumber)
	return int64(n), ok
}

// truthy follows Lua truthiness, except that nil counts as true so that
// callbacks without a return value agree.
func truthy(v lua.LValue) bool {
	return v == lua.LNil || lua.LVAsBool(v)
}
