package lua

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
	lua "github.com/yuin/gopher-lua"
)

const spellTypeName = "spellhook.spell_script"

// SpellScript is a spell script whose body is a Lua definition.
type SpellScript struct {
	script.SpellScript

	rt  *Runtime
	def *definition
	ud  *lua.LUserData
}

func (rt *Runtime) newSpellScript(def *definition) *SpellScript {
	s := &SpellScript{rt: rt, def: def}
	s.ud = rt.userdata(s, spellTypeName)
	return s
}

func (s *SpellScript) Register() {
	s.rt.call(s.def, s.def.register, 0, s.ud)
}

func (s *SpellScript) Load() bool {
	return s.rt.decide(s.def, s.def.load, true, s.ud)
}

func (s *SpellScript) Unload() {
	if s.def.unload != nil {
		s.rt.call(s.def, s.def.unload, 0, s.ud)
	}
}

func (s *SpellScript) Validate(info *spell.Info) bool {
	return s.rt.decide(s.def, s.def.validate, true, s.ud, lua.LNumber(info.ID))
}

// invoke calls a registered Lua callback with the script as first argument.
func (s *SpellScript) invoke(fn *lua.LFunction, nret int, args ...lua.LValue) []lua.LValue {
	return s.rt.call(s.def, fn, nret, append([]lua.LValue{s.ud}, args...)...)
}

func (s *SpellScript) bridge() bridge {
	return bridge{L: s.rt.state.L}
}

func checkSpell(L *lua.LState) *SpellScript {
	if s, ok := L.CheckUserData(1).Value.(*SpellScript); ok {
		return s
	}
	L.ArgError(1, "spell script expected")
	return nil
}

func registerSpellType(L *lua.LState) {
	mt := L.NewTypeMetatable(spellTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), spellMethods))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("spell_script(" + checkSpell(L).def.name + ")"))
		return 1
	}))
}

func castHook(register func(*SpellScript, script.CastHandler)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		register(s, func() { s.invoke(fn, 0) })
		return 0
	}
}

func effectHook(register func(*SpellScript, script.EffectHandler, hook.EffectIndex, spell.EffectType)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		register(s, func(slot int) { s.invoke(fn, 0, lua.LNumber(slot)) }, slotArg(L, 3), effectArg(L, 4))
		return 0
	}
}

func hitHook(register func(*SpellScript, script.HitHandler)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		register(s, func() { s.invoke(fn, 0) })
		return 0
	}
}

var spellMethods = map[string]lua.LGFunction{
	"before_cast": castHook((*SpellScript).BeforeCast),
	"on_cast":     castHook((*SpellScript).OnCast),
	"after_cast":  castHook((*SpellScript).AfterCast),

	"on_check_cast": func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		s.OnCheckCast(func() combat.CastResult {
			if n, ok := number(s.invoke(fn, 1)[0]); ok {
				return combat.CastResult(n)
			}
			return combat.CastOK
		})
		return 0
	},

	"on_object_area_target_select": func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		s.OnObjectAreaTargetSelect(func(targets *[]combat.ObjectID) {
			if targets == nil {
				return
			}
			b := s.bridge()
			if ids, ok := b.toIDs(s.invoke(fn, 1, b.ids(*targets))[0]); ok {
				*targets = ids
			}
		}, slotArg(L, 3), targetArg(L, 4))
		return 0
	},

	"on_object_target_select": func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		s.OnObjectTargetSelect(func(target *combat.ObjectID) {
			if target == nil {
				return
			}
			if n, ok := number(s.invoke(fn, 1, lua.LNumber(*target))[0]); ok {
				*target = combat.ObjectID(n)
			}
		}, slotArg(L, 3), targetArg(L, 4))
		return 0
	},

	"on_destination_target_select": func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		s.OnDestinationTargetSelect(func(dest *combat.Position) {
			if dest == nil {
				return
			}
			b := s.bridge()
			*dest = b.toPosition(s.invoke(fn, 1, b.position(*dest))[0], *dest)
		}, slotArg(L, 3), targetArg(L, 4))
		return 0
	},

	"on_effect_launch":            effectHook((*SpellScript).OnEffectLaunch),
	"on_effect_launch_target":     effectHook((*SpellScript).OnEffectLaunchTarget),
	"on_effect_hit":               effectHook((*SpellScript).OnEffectHit),
	"on_effect_hit_target":        effectHook((*SpellScript).OnEffectHitTarget),
	"on_effect_successful_dispel": effectHook((*SpellScript).OnEffectSuccessfulDispel),

	"on_calc_resist_absorb": func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		s.OnCalcResistAbsorb(func(dmg *combat.DamageInfo, resist *uint32, absorb *int32) {
			if resist == nil || absorb == nil {
				return
			}
			res := s.invoke(fn, 2, s.bridge().damage(dmg), lua.LNumber(*resist), lua.LNumber(*absorb))
			if n, ok := number(res[0]); ok && n >= 0 {
				*resist = uint32(n)
			}
			if n, ok := number(res[1]); ok {
				*absorb = int32(n)
			}
		})
		return 0
	},

	"before_hit": func(L *lua.LState) int {
		s, fn := checkSpell(L), L.CheckFunction(2)
		s.BeforeHit(func(miss combat.MissInfo) { s.invoke(fn, 0, lua.LString(miss.String())) })
		return 0
	},
	"on_hit":    hitHook((*SpellScript).OnHit),
	"after_hit": hitHook((*SpellScript).AfterHit),

	"spell_id":        func(L *lua.LState) int { return pushNumber(L, checkSpell(L).ScriptSpellID()) },
	"caster":          func(L *lua.LState) int { return pushID(L, checkSpell(L).Caster()) },
	"original_caster": func(L *lua.LState) int { return pushID(L, checkSpell(L).OriginalCaster()) },
	"expl_target":     func(L *lua.LState) int { return pushID(L, checkSpell(L).ExplTargetUnit()) },
	"hit_unit":        func(L *lua.LState) int { return pushID(L, checkSpell(L).HitUnit()) },
	"hit_damage":      func(L *lua.LState) int { return pushNumber(L, checkSpell(L).HitDamage()) },
	"hit_heal":        func(L *lua.LState) int { return pushNumber(L, checkSpell(L).HitHeal()) },
	"effect_value":    func(L *lua.LState) int { return pushNumber(L, checkSpell(L).EffectValue()) },
	"has_hit_aura":    func(L *lua.LState) int { return pushBool(L, checkSpell(L).HitAura() != nil) },

	"triggering_spell": func(L *lua.LState) int {
		if info := checkSpell(L).TriggeringSpell(); info != nil {
			return pushNumber(L, info.ID)
		}
		L.Push(lua.LNil)
		return 1
	},
	"expl_dest": func(L *lua.LState) int {
		s := checkSpell(L)
		if pos, ok := s.ExplTargetDest(); ok {
			L.Push(s.bridge().position(pos))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	},
	"hit_dest": func(L *lua.LState) int {
		s := checkSpell(L)
		if pos, ok := s.HitDest(); ok {
			L.Push(s.bridge().position(pos))
		} else {
			L.Push(lua.LNil)
		}
		return 1
	},

	"set_hit_damage": func(L *lua.LState) int {
		checkSpell(L).SetHitDamage(int32(L.CheckInt(2)))
		return 0
	},
	"set_hit_heal": func(L *lua.LState) int {
		checkSpell(L).SetHitHeal(int32(L.CheckInt(2)))
		return 0
	},
	"set_effect_value": func(L *lua.LState) int {
		checkSpell(L).SetEffectValue(int32(L.CheckInt(2)))
		return 0
	},
	"prevent_hit_damage": func(L *lua.LState) int {
		checkSpell(L).PreventHitDamage()
		return 0
	},
	"prevent_hit_heal": func(L *lua.LState) int {
		checkSpell(L).PreventHitHeal()
		return 0
	},
	"prevent_hit_aura": func(L *lua.LState) int {
		checkSpell(L).PreventHitAura()
		return 0
	},
	"prevent_hit_effect": func(L *lua.LState) int {
		checkSpell(L).PreventHitEffect(L.CheckInt(2))
		return 0
	},
	"prevent_hit_default_effect": func(L *lua.LState) int {
		checkSpell(L).PreventHitDefaultEffect(L.CheckInt(2))
		return 0
	},
	"finish_cast": func(L *lua.LState) int {
		checkSpell(L).FinishCast(L.OptBool(2, true))
		return 0
	},
	"set_custom_cast_result": func(L *lua.LState) int {
		checkSpell(L).SetCustomCastResult(combat.CastResult(L.CheckInt(2)))
		return 0
	},
	"log": func(L *lua.LState) int {
		checkSpell(L).Logger().Info("%s", L.CheckString(2))
		return 0
	},
}
