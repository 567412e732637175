package shell

import (
	"errors"
	"strings"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

type handler func(*ShellController, *shellcmd) (*Response, error)

// scriptCommands are the shell commands a script may call, as
// qubic_<name>("args").
var scriptCommands = map[string]handler{
	"new":   (*ShellController).newGame,
	"play":  (*ShellController).play,
	"show":  (*ShellController).show,
	"hint":  (*ShellController).hint,
	"clock": (*ShellController).clock,
	"set":   (*ShellController).set,
}

func getShell(L *lua.LState) *ShellController {
	shell := L.GetGlobal("qubic_shell")
	ud, ok := shell.(*lua.LUserData)
	if !ok {
		panic("luserdata not right type")
	}
	sc, ok := ud.Value.(*ShellController)
	if !ok {
		panic("shellcontroller not right type")
	}
	return sc
}

// luaCommand runs one shell command and pushes its message, or the error
// prefixed with "ERROR: ".
func luaCommand(name string, h handler) lua.LGFunction {
	return func(L *lua.LState) int {
		sc := getShell(L)
		cmd, err := extractFields(strings.TrimSpace(name + " " + L.OptString(1, "")))
		if err == nil {
			var r *Response
			r, err = h(sc, cmd)
			if err == nil {
				var m string
				if r != nil {
					m = r.message
				}
				L.Push(lua.LString(m))
				return 1
			}
		}
		log.Err(err).Str("command", name).Msg("error-executing-script-command")
		L.Push(lua.LString("ERROR: " + err.Error()))
		return 1
	}
}

func (sc *ShellController) script(cmd *shellcmd) (*Response, error) {
	if cmd.args == nil {
		return nil, errors.New("need arguments for script")
	}
	filepath := cmd.args[0]

	L := lua.NewState()
	defer L.Close()

	lsc := L.NewUserData()
	lsc.Value = sc
	L.SetGlobal("qubic_shell", lsc)
	for name, h := range scriptCommands {
		L.SetGlobal("qubic_"+name, L.NewFunction(luaCommand(name, h)))
	}

	if err := L.DoFile(filepath); err != nil {
		log.Err(err).Str("script", filepath).Msg("script-failed")
		return nil, err
	}
	return nil, nil
}
