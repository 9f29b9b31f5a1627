// Package scripting exposes the command surface to Lua scripts.
//
// Scripts build commands through constructor globals and hand them to the
// store with submit. Constructors never raise: an invalid argument returns
// nil plus the validation message, so scripts can recover.
package scripting

import (
	"context"
	"log/slog"

	lua "github.com/yuin/gopher-lua"

	"github.com/KirkDiggler/rpg-gameplay/internal/commands"
	"github.com/KirkDiggler/rpg-gameplay/internal/errors"
)

const commandTypeName = "gameplay.command"

//go:generate mockgen -destination=mock/mock.go -package=mockscripting github.com/KirkDiggler/rpg-gameplay/internal/scripting Sink

// Sink accepts validated commands, normally the world store's queue
type Sink interface {
	Submit(cmd commands.Command) error
}

// Config holds the dependencies for a host
type Config struct {
	Sink   Sink
	Bridge commands.Bridge
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Sink == nil {
		vb.RequiredField("Sink")
	}

	return vb.Build()
}

// Host is a sandboxed Lua state bound to a command sink. A Host is not safe
// for concurrent use; run one per script context.
type Host struct {
	state  *lua.LState
	sink   Sink
	bridge commands.Bridge
}

// NewHost creates a Lua state with the base, table, string and math
// libraries and the command globals installed
func NewHost(cfg *Config) (*Host, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, lib := range []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.open))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}

	h := &Host{state: L, sink: cfg.Sink, bridge: cfg.Bridge}
	h.registerCommandType()
	h.registerGlobals()
	return h, nil
}

// Close releases the Lua state
func (h *Host) Close() {
	h.state.Close()
}

// DoString runs a chunk of Lua source
func (h *Host) DoString(ctx context.Context, source string) error {
	h.state.SetContext(ctx)
	defer h.state.RemoveContext()

	if err := h.state.DoString(source); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "script failed")
	}
	return nil
}

// DoFile runs a Lua file
func (h *Host) DoFile(ctx context.Context, path string) error {
	h.state.SetContext(ctx)
	defer h.state.RemoveContext()

	slog.Debug("Running script", "path", path)
	if err := h.state.DoFile(path); err != nil {
		return errors.WrapWithCode(err, errors.CodeInvalidArgument, "script failed").
			WithMeta("path", path)
	}
	return nil
}

func (h *Host) registerCommandType() {
	mt := h.state.NewTypeMetatable(commandTypeName)
	h.state.SetField(mt, "__index", h.state.SetFuncs(h.state.NewTable(), map[string]lua.LGFunction{
		"kind":         commandKind,
		"component_id": commandComponentID,
	}))
	h.state.SetField(mt, "__tostring", h.state.NewFunction(commandString))
}

func (h *Host) registerGlobals() {
	globals := map[string]lua.LGFunction{
		"new_set_position": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.SetPosition(argString(L, 1), toGo(L.Get(2)))
		}),
		"new_add_item": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.AddItem(argString(L, 1), toGo(L.Get(2)))
		}),
		"new_equip_weapon": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.EquipWeapon(argString(L, 1), toGo(L.Get(2)))
		}),
		"new_equip_armor": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.EquipArmor(argString(L, 1), toGo(L.Get(2)))
		}),
		"new_play_animation": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.PlayAnimation(argString(L, 1), toGo(L.Get(2)), toGo(L.Get(3)))
		}),
		"new_pause_animation": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.PauseAnimation(argString(L, 1))
		}),
		"new_open_dialogue": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.OpenDialogue(argString(L, 1), toGo(L.Get(2)), toGo(L.Get(3)), toGo(L.Get(4)))
		}),
		"new_select_option": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.SelectDialogueOption(argString(L, 1), toGo(L.Get(2)))
		}),
		"new_close_dialogue": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.CloseDialogue(argString(L, 1))
		}),
		"new_unequip": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.Unequip(argString(L, 1), toGo(L.Get(2)))
		}),
		"new_remove_item": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.RemoveItem(argString(L, 1), toGo(L.Get(2)))
		}),
		"new_resume_animation": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.ResumeAnimation(argString(L, 1))
		}),
		"new_move_cursor": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.MoveDialogueCursor(argString(L, 1), toGo(L.Get(2)))
		}),
		"new_confirm_option": h.constructor(func(L *lua.LState) (commands.Command, error) {
			return h.bridge.ConfirmDialogue(argString(L, 1))
		}),
		"submit": h.submit,
	}

	for name, fn := range globals {
		h.state.SetGlobal(name, h.state.NewFunction(fn))
	}
}

// constructor adapts a command builder to the cmd or nil, message convention
func (h *Host) constructor(build func(L *lua.LState) (commands.Command, error)) lua.LGFunction {
	return func(L *lua.LState) int {
		cmd, err := build(L)
		if err != nil {
			L.Push(lua.LNil)
			L.Push(lua.LString(errors.GetMessage(err)))
			return 2
		}

		ud := L.NewUserData()
		ud.Value = cmd
		L.SetMetatable(ud, L.GetTypeMetatable(commandTypeName))
		L.Push(ud)
		return 1
	}
}

func (h *Host) submit(L *lua.LState) int {
	cmd, ok := checkCommand(L, 1)
	if !ok {
		L.Push(lua.LNil)
		L.Push(lua.LString("submit expects a command"))
		return 2
	}

	if err := h.sink.Submit(cmd); err != nil {
		L.Push(lua.LNil)
		L.Push(lua.LString(errors.GetMessage(err)))
		return 2
	}

	L.Push(lua.LTrue)
	return 1
}

func checkCommand(L *lua.LState, idx int) (commands.Command, bool) {
	ud, ok := L.Get(idx).(*lua.LUserData)
	if !ok {
		return nil, false
	}
	cmd, ok := ud.Value.(commands.Command)
	return cmd, ok
}

func commandKind(L *lua.LState) int {
	cmd, ok := checkCommand(L, 1)
	if !ok {
		L.ArgError(1, "command expected")
		return 0
	}
	L.Push(lua.LString(cmd.Kind()))
	return 1
}

func commandComponentID(L *lua.LState) int {
	cmd, ok := checkCommand(L, 1)
	if !ok {
		L.ArgError(1, "command expected")
		return 0
	}
	L.Push(lua.LString(cmd.ComponentID()))
	return 1
}

func commandString(L *lua.LState) int {
	cmd, ok := checkCommand(L, 1)
	if !ok {
		L.Push(lua.LString("command<invalid>"))
		return 1
	}
	L.Push(lua.LString("command<" + string(cmd.Kind()) + " " + cmd.ComponentID() + ">"))
	return 1
}

// argString reads a string argument without raising. Anything else becomes
// the empty string and is rejected by the bridge.
func argString(L *lua.LState, idx int) string {
	if s, ok := L.Get(idx).(lua.LString); ok {
		return string(s)
	}
	return ""
}
