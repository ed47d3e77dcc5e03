package lua

import (
	"strings"

	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
	lua "github.com/yuin/gopher-lua"
)

// slotArg reads an effect index: a slot number, EFFECT_ALL, EFFECT_FIRST_FOUND,
// "all" or "first". It defaults to EFFECT_ALL.
func slotArg(L *lua.LState, n int) hook.EffectIndex {
	switch v := L.Get(n).(type) {
	case *lua.LNilType:
		return hook.EffectAll
	case lua.LNumber:
		idx := hook.EffectIndex(v)
		if v < 0 || v > 255 || !idx.Valid() {
			L.ArgError(n, "invalid effect index")
		}
		return idx
	case lua.LString:
		switch strings.ToLower(string(v)) {
		case "all":
			return hook.EffectAll
		case "first":
			return hook.EffectFirstFound
		}
	}
	L.ArgError(n, "effect index expected")
	return hook.EffectAll
}

func effectArg(L *lua.LState, n int) spell.EffectType {
	e, err := spell.ParseEffectType(L.OptString(n, "Any"))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return e
}

func auraArg(L *lua.LState, n int) spell.AuraType {
	a, err := spell.ParseAuraType(L.OptString(n, "Any"))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return a
}

func targetArg(L *lua.LState, n int) spell.Target {
	t, err := spell.ParseTarget(L.CheckString(n))
	if err != nil {
		L.ArgError(n, err.Error())
	}
	return t
}

func modeArg(L *lua.LState, n int) combat.HandleMode {
	return combat.HandleMode(L.OptInt(n, int(combat.ModeDefault)))
}

func pushID(L *lua.LState, id combat.ObjectID) int {
	if id == combat.NoObject {
		L.Push(lua.LNil)
	} else {
		L.Push(lua.LNumber(id))
	}
	return 1
}

func pushNumber[T ~int32 | ~uint8 | ~uint32](L *lua.LState, v T) int {
	L.Push(lua.LNumber(v))
	return 1
}

func pushBool(L *lua.LState, v bool) int {
	L.Push(lua.LBool(v))
	return 1
}

// slotOf returns the slot of eff, or -1.
func slotOf(eff *combat.AuraEffect) lua.LNumber {
	if eff == nil {
		return -1
	}
	return lua.LNumber(eff.Slot)
}
