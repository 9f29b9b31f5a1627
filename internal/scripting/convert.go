package scripting

import (
	"strconv"

	lua "github.com/yuin/gopher-lua"
)

// maxTableDepth bounds how deeply nested a script table may be. No command
// argument needs more than a few levels.
const maxTableDepth = 16

// toGo converts a Lua value to the dynamic form the command bridge accepts.
// Tables with keys 1..n become []any, other tables become map[string]any.
// Commands and functions have no dynamic form and become nil, as does a
// table that refers back to itself or nests deeper than maxTableDepth.
func toGo(v lua.LValue) any {
	out, ok := convert(v, make(map[*lua.LTable]bool), 0)
	if !ok {
		return nil
	}
	return out
}

func convert(v lua.LValue, visiting map[*lua.LTable]bool, depth int) (any, bool) {
	switch value := v.(type) {
	case lua.LString:
		return string(value), true
	case lua.LNumber:
		return float64(value), true
	case lua.LBool:
		return bool(value), true
	case *lua.LTable:
		return tableToGo(value, visiting, depth+1)
	default:
		return nil, true
	}
}

func tableToGo(t *lua.LTable, visiting map[*lua.LTable]bool, depth int) (any, bool) {
	if depth > maxTableDepth || visiting[t] {
		return nil, false
	}
	visiting[t] = true
	defer delete(visiting, t)

	n := t.MaxN()
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })

	if n > 0 && n == count {
		out := make([]any, n)
		for i := 1; i <= n; i++ {
			elem, ok := convert(t.RawGetInt(i), visiting, depth)
			if !ok {
				return nil, false
			}
			out[i-1] = elem
		}
		return out, true
	}

	out := make(map[string]any, count)
	valid := true
	t.ForEach(func(k, v lua.LValue) {
		if !valid {
			return
		}
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = strconv.FormatFloat(float64(kv), 'f', -1, 64)
		default:
			return
		}
		elem, ok := convert(v, visiting, depth)
		if !ok {
			valid = false
			return
		}
		out[key] = elem
	})
	if !valid {
		return nil, false
	}
	return out, true
}
