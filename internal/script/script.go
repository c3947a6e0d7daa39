// Package script loads Lua scripts into interpreter states, caching compiled bytecode per path.
package script

import (
	"sync"

	"github.com/vlog-app/vlog/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var bytecodeCache sync.Map

// Compile parses the script at path once and reuses the prototype afterwards.
func Compile(path string) (*lua.FunctionProto, error) {
	if cached, ok := bytecodeCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	file, err := filesystem.API().Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	bytecodeCache.Store(path, proto)
	return proto, nil
}

// Run executes the script at path in L.
func Run(L *lua.LState, path string) error {
	proto, err := Compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Forget drops the cached bytecode for path, e.g. after the script was edited.
func Forget(path string) {
	bytecodeCache.Delete(path)
}
