package lua

import (
	"strings"

	"github.com/dshills/spellhook/internal/logging"
	lua "github.com/yuin/gopher-lua"
)

// openSafeLibraries opens only the base, table, string and math libraries.
// io, os, debug and package stay closed.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	// Each Open* leaves its module table on the stack.
	L.SetTop(0)
}

// removeUnsafeGlobals drops the base functions that load code from disk or
// strings.
func removeUnsafeGlobals(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// installPrint routes print to log at info level.
func installPrint(L *lua.LState, log *logging.Logger) {
	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, L.GetTop())
		for i := range parts {
			parts[i] = L.ToStringMeta(L.Get(i + 1)).String()
		}
		log.Info("%s", strings.Join(parts, "\t"))
		return 0
	}))
}
