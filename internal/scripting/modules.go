package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/battletower/internal/game/creature"
	"github.com/cory-johannsen/battletower/internal/game/element"
)

// registerModules defines the battle global in L:
//
//	battle.effectiveness(attacker, defender) -> number   element names, e.g. "fire"
//	battle.log(msg)                                        debug-level log line
//
// Precondition: L must be from NewSandboxedState; eff and logger must be non-nil.
func registerModules(L *lua.LState, eff creature.Effectiveness, logger *zap.Logger) {
	mod := L.NewTable()
	L.SetField(mod, "effectiveness", L.NewFunction(func(L *lua.LState) int {
		att, err := element.Parse(L.CheckString(1))
		if err != nil {
			L.ArgError(1, err.Error())
			return 0
		}
		def, err := element.Parse(L.CheckString(2))
		if err != nil {
			L.ArgError(2, err.Error())
			return 0
		}
		L.Push(lua.LNumber(eff(att, def)))
		return 1
	}))
	L.SetField(mod, "log", L.NewFunction(func(L *lua.LState) int {
		logger.Debug("policy script", zap.String("msg", L.CheckString(1)))
		return 0
	}))
	L.SetGlobal("battle", mod)
}

// creatureTable snapshots c into a read-only view for scripts.
func creatureTable(L *lua.LState, c *creature.Creature) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "name", lua.LString(c.Name()))
	L.SetField(t, "element", lua.LString(c.Element().String()))
	L.SetField(t, "level", lua.LNumber(c.Level()))
	L.SetField(t, "hp", lua.LNumber(c.HP()))
	L.SetField(t, "max_hp", lua.LNumber(c.MaxHP()))
	L.SetField(t, "attack", lua.LNumber(c.Attack()))
	L.SetField(t, "defense", lua.LNumber(c.Defense()))
	L.SetField(t, "speed", lua.LNumber(c.Speed()))
	return t
}
