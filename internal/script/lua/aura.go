package lua

import (
	"github.com/dshills/spellhook/internal/combat"
	"github.com/dshills/spellhook/internal/script"
	"github.com/dshills/spellhook/internal/script/hook"
	"github.com/dshills/spellhook/internal/spell"
	lua "github.com/yuin/gopher-lua"
)

const auraTypeName = "spellhook.aura_script"

// AuraScript is an aura script whose body is a Lua definition.
type AuraScript struct {
	script.AuraScript

	rt  *Runtime
	def *definition
	ud  *lua.LUserData
}

func (rt *Runtime) newAuraScript(def *definition) *AuraScript {
	s := &AuraScript{rt: rt, def: def}
	s.ud = rt.userdata(s, auraTypeName)
	return s
}

func (s *AuraScript) Register() {
	s.rt.call(s.def, s.def.register, 0, s.ud)
}

func (s *AuraScript) Load() bool {
	return s.rt.decide(s.def, s.def.load, true, s.ud)
}

func (s *AuraScript) Unload() {
	if s.def.unload != nil {
		s.rt.call(s.def, s.def.unload, 0, s.ud)
	}
}

func (s *AuraScript) Validate(info *spell.Info) bool {
	return s.rt.decide(s.def, s.def.validate, true, s.ud, lua.LNumber(info.ID))
}

func (s *AuraScript) invoke(fn *lua.LFunction, nret int, args ...lua.LValue) []lua.LValue {
	return s.rt.call(s.def, fn, nret, append([]lua.LValue{s.ud}, args...)...)
}

func (s *AuraScript) bridge() bridge {
	return bridge{L: s.rt.state.L}
}

func checkAura(L *lua.LState) *AuraScript {
	if s, ok := L.CheckUserData(1).Value.(*AuraScript); ok {
		return s
	}
	L.ArgError(1, "aura script expected")
	return nil
}

func registerAuraType(L *lua.LState) {
	mt := L.NewTypeMetatable(auraTypeName)
	L.SetField(mt, "__index", L.SetFuncs(L.NewTable(), auraMethods))
	L.SetField(mt, "__tostring", L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LString("aura_script(" + checkAura(L).def.name + ")"))
		return 1
	}))
}

func applyHook(register func(*AuraScript, script.EffectApplyHandler, hook.EffectIndex, spell.AuraType, combat.HandleMode)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		register(s, func(eff *combat.AuraEffect, mode combat.HandleMode) {
			s.invoke(fn, 0, slotOf(eff), lua.LNumber(mode))
		}, slotArg(L, 3), auraArg(L, 4), modeArg(L, 5))
		return 0
	}
}

func periodicHook(register func(*AuraScript, script.EffectPeriodicHandler, hook.EffectIndex, spell.AuraType)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		register(s, func(eff *combat.AuraEffect) { s.invoke(fn, 0, slotOf(eff)) }, slotArg(L, 3), auraArg(L, 4))
		return 0
	}
}

// absorbHook passes the damage and the amount to soak; a number returned
// replaces the amount.
func absorbHook(register func(*AuraScript, script.EffectAbsorbHandler, hook.EffectIndex)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		register(s, func(eff *combat.AuraEffect, dmg *combat.DamageInfo, amount *uint32) {
			if amount == nil {
				return
			}
			res := s.invoke(fn, 1, slotOf(eff), s.bridge().damage(dmg), lua.LNumber(*amount))
			if n, ok := number(res[0]); ok && n >= 0 {
				*amount = uint32(n)
			}
		}, slotArg(L, 3))
		return 0
	}
}

func dispelHook(register func(*AuraScript, script.DispelHandler)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		register(s, func(info *combat.DispelInfo) {
			b := s.bridge()
			t := b.dispel(info)
			s.invoke(fn, 0, t)
			b.syncDispel(t, info)
		})
		return 0
	}
}

func procHook(register func(*AuraScript, script.ProcHandler)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		register(s, func(info *combat.ProcEventInfo) { s.invoke(fn, 0, s.bridge().proc(info)) })
		return 0
	}
}

func effectProcHook(register func(*AuraScript, script.EffectProcHandler, hook.EffectIndex, spell.AuraType)) lua.LGFunction {
	return func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		register(s, func(eff *combat.AuraEffect, info *combat.ProcEventInfo) {
			s.invoke(fn, 0, slotOf(eff), s.bridge().proc(info))
		}, slotArg(L, 3), auraArg(L, 4))
		return 0
	}
}

var auraMethods = map[string]lua.LGFunction{
	"do_check_area_target": func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		s.DoCheckAreaTarget(func(target combat.ObjectID) bool {
			return truthy(s.invoke(fn, 1, lua.LNumber(target))[0])
		})
		return 0
	},
	"on_dispel":    dispelHook((*AuraScript).OnDispel),
	"after_dispel": dispelHook((*AuraScript).AfterDispel),

	"on_effect_apply":           applyHook((*AuraScript).OnEffectApply),
	"after_effect_apply":        applyHook((*AuraScript).AfterEffectApply),
	"on_effect_remove":          applyHook((*AuraScript).OnEffectRemove),
	"after_effect_remove":       applyHook((*AuraScript).AfterEffectRemove),
	"on_effect_periodic":        periodicHook((*AuraScript).OnEffectPeriodic),
	"on_effect_update_periodic": periodicHook((*AuraScript).OnEffectUpdatePeriodic),

	"do_effect_calc_amount": func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		s.DoEffectCalcAmount(func(eff *combat.AuraEffect, amount *int32, canBeRecalculated *bool) {
			if amount == nil {
				return
			}
			res := s.invoke(fn, 2, slotOf(eff), lua.LNumber(*amount))
			if n, ok := number(res[0]); ok {
				*amount = int32(n)
			}
			if b, ok := res[1].(lua.LBool); ok && canBeRecalculated != nil {
				*canBeRecalculated = bool(b)
			}
		}, slotArg(L, 3), auraArg(L, 4))
		return 0
	},
	"do_effect_calc_periodic": func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		s.DoEffectCalcPeriodic(func(eff *combat.AuraEffect, isPeriodic *bool, amplitude *int32) {
			if isPeriodic == nil || amplitude == nil {
				return
			}
			res := s.invoke(fn, 2, slotOf(eff), lua.LBool(*isPeriodic), lua.LNumber(*amplitude))
			if b, ok := res[0].(lua.LBool); ok {
				*isPeriodic = bool(b)
			}
			if n, ok := number(res[1]); ok {
				*amplitude = int32(n)
			}
		}, slotArg(L, 3), auraArg(L, 4))
		return 0
	},
	"do_effect_calc_spell_mod": func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		s.DoEffectCalcSpellMod(func(eff *combat.AuraEffect, mod **combat.SpellModifier) {
			if mod == nil || *mod == nil {
				return
			}
			if n, ok := number(s.invoke(fn, 1, slotOf(eff), lua.LNumber((*mod).Value))[0]); ok {
				(*mod).Value = int32(n)
			}
		}, slotArg(L, 3), auraArg(L, 4))
		return 0
	},

	"on_effect_absorb":         absorbHook((*AuraScript).OnEffectAbsorb),
	"after_effect_absorb":      absorbHook((*AuraScript).AfterEffectAbsorb),
	"on_effect_mana_shield":    absorbHook((*AuraScript).OnEffectManaShield),
	"after_effect_mana_shield": absorbHook((*AuraScript).AfterEffectManaShield),
	"on_effect_split":          absorbHook((*AuraScript).OnEffectSplit),

	"do_check_proc": func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		s.DoCheckProc(func(info *combat.ProcEventInfo) bool {
			return truthy(s.invoke(fn, 1, s.bridge().proc(info))[0])
		})
		return 0
	},
	"do_check_effect_proc": func(L *lua.LState) int {
		s, fn := checkAura(L), L.CheckFunction(2)
		s.DoCheckEffectProc(func(eff *combat.AuraEffect, info *combat.ProcEventInfo) bool {
			return truthy(s.invoke(fn, 1, slotOf(eff), s.bridge().proc(info))[0])
		}, slotArg(L, 3), auraArg(L, 4))
		return 0
	},
	"do_prepare_proc":   procHook((*AuraScript).DoPrepareProc),
	"on_proc":           procHook((*AuraScript).OnProc),
	"after_proc":        procHook((*AuraScript).AfterProc),
	"on_effect_proc":    effectProcHook((*AuraScript).OnEffectProc),
	"after_effect_proc": effectProcHook((*AuraScript).AfterEffectProc),

	"id":           func(L *lua.LState) int { return pushNumber(L, checkAura(L).ID()) },
	"caster":       func(L *lua.LState) int { return pushID(L, checkAura(L).CasterID()) },
	"owner":        func(L *lua.LState) int { return pushID(L, checkAura(L).Owner()) },
	"target":       func(L *lua.LState) int { return pushID(L, checkAura(L).Target()) },
	"duration":     func(L *lua.LState) int { return pushNumber(L, checkAura(L).Duration()) },
	"max_duration": func(L *lua.LState) int { return pushNumber(L, checkAura(L).MaxDuration()) },
	"charges":      func(L *lua.LState) int { return pushNumber(L, checkAura(L).Charges()) },
	"stack_amount": func(L *lua.LState) int { return pushNumber(L, checkAura(L).StackAmount()) },
	"is_expired":   func(L *lua.LState) int { return pushBool(L, checkAura(L).IsExpired()) },
	"is_permanent": func(L *lua.LState) int { return pushBool(L, checkAura(L).IsPermanent()) },
	"is_passive":   func(L *lua.LState) int { return pushBool(L, checkAura(L).IsPassive()) },

	"is_default_action_prevented": func(L *lua.LState) int {
		return pushBool(L, checkAura(L).IsDefaultActionPrevented())
	},
	"effect_amount": func(L *lua.LState) int {
		if eff := checkAura(L).Effect(L.CheckInt(2)); eff != nil {
			return pushNumber(L, eff.Amount)
		}
		L.Push(lua.LNil)
		return 1
	},
	"set_effect_amount": func(L *lua.LState) int {
		if eff := checkAura(L).Effect(L.CheckInt(2)); eff != nil {
			eff.Amount = int32(L.CheckInt(3))
		}
		return 0
	},

	"set_duration": func(L *lua.LState) int {
		checkAura(L).SetDuration(int32(L.CheckInt(2)))
		return 0
	},
	"set_max_duration": func(L *lua.LState) int {
		checkAura(L).SetMaxDuration(int32(L.CheckInt(2)))
		return 0
	},
	"refresh_duration": func(L *lua.LState) int {
		checkAura(L).RefreshDuration()
		return 0
	},
	"set_charges": func(L *lua.LState) int {
		checkAura(L).SetCharges(uint8(L.CheckInt(2)))
		return 0
	},
	"mod_charges": func(L *lua.LState) int {
		checkAura(L).ModCharges(L.CheckInt(2))
		return 0
	},
	"drop_charge": func(L *lua.LState) int {
		checkAura(L).DropCharge()
		return 0
	},
	"set_stack_amount": func(L *lua.LState) int {
		checkAura(L).SetStackAmount(uint8(L.CheckInt(2)))
		return 0
	},
	"mod_stack_amount": func(L *lua.LState) int {
		checkAura(L).ModStackAmount(L.CheckInt(2))
		return 0
	},
	"remove": func(L *lua.LState) int {
		checkAura(L).Remove(combat.RemoveMode(L.OptInt(2, int(combat.RemoveByDefault))))
		return 0
	},
	"prevent_default_action": func(L *lua.LState) int {
		checkAura(L).PreventDefaultAction()
		return 0
	},
	"log": func(L *lua.LState) int {
		checkAura(L).Logger().Info("%s", L.CheckString(2))
		return 0
	},
}
