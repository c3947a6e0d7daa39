package playlist

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/samber/mo"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/internal/script"
	"github.com/vlog-app/vlog/media"
	"github.com/vlog-app/vlog/util"
	"github.com/vlog-app/vlog/where"
	lua "github.com/yuin/gopher-lua"
)

// ScriptExt is the extension of playlist scripts.
const ScriptExt = ".lua"

// Lua runs a user script whose Playlist function returns a table of items.
type Lua struct {
	path string
	name string
}

// NewLua returns a source for the script at path.
func NewLua(path string) *Lua {
	return &Lua{path: path, name: util.FileStem(path)}
}

// FindLua resolves a script by name in the playlists directory.
func FindLua(name string) (*Lua, error) {
	path := filepath.Join(where.Playlists(), strings.TrimSuffix(name, ScriptExt)+ScriptExt)
	exists, err := filesystem.API().Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("playlist script %q not found in %s", name, where.Playlists())
	}
	return NewLua(path), nil
}

// Installed lists the scripts in the playlists directory.
func Installed() ([]*Lua, error) {
	entries, err := filesystem.API().ReadDir(where.Playlists())
	if err != nil {
		return nil, err
	}

	var scripts []*Lua
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ScriptExt {
			continue
		}
		scripts = append(scripts, NewLua(filepath.Join(where.Playlists(), entry.Name())))
	}
	return scripts, nil
}

func (l *Lua) Name() string { return l.name }

func (l *Lua) Path() string { return l.path }

func (l *Lua) Playlist(ctx context.Context) (Playlist, error) {
	L := lua.NewState()
	defer L.Close()
	L.SetContext(ctx)

	libs.Preload(L)
	registerHTTP(L)

	if err := script.Run(L, l.path); err != nil {
		return Playlist{}, fmt.Errorf("%s: %w", l.name, err)
	}

	fn := L.GetGlobal(constant.PlaylistFn)
	if fn.Type() != lua.LTFunction {
		return Playlist{}, fmt.Errorf("function %s is required but not defined in %s", constant.PlaylistFn, l.name)
	}

	if err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}); err != nil {
		return Playlist{}, fmt.Errorf("%s: %w", l.name, err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	table, ok := ret.(*lua.LTable)
	if !ok {
		return Playlist{}, fmt.Errorf("%s: %s must return a table, got %s", l.name, constant.PlaylistFn, ret.Type())
	}

	items, err := itemsFromTable(table)
	if err != nil {
		return Playlist{}, fmt.Errorf("%s: %w", l.name, err)
	}
	if len(items) == 0 {
		return Playlist{}, fmt.Errorf("%s: %w", l.name, ErrEmpty)
	}
	return New(l.name, items...), nil
}

func getString(table *lua.LTable, key string) string {
	if val := table.RawGetString(key); val.Type() == lua.LTString {
		return val.String()
	}
	return ""
}

func getStringMap(table *lua.LTable, key string) map[string]string {
	tbl, ok := table.RawGetString(key).(*lua.LTable)
	if !ok {
		return nil
	}

	m := make(map[string]string)
	tbl.ForEach(func(k, v lua.LValue) {
		m[k.String()] = v.String()
	})
	return m
}

func itemsFromTable(table *lua.LTable) ([]media.Reference, error) {
	var (
		items []media.Reference
		errs  []error
	)

	table.ForEach(func(k, v lua.LValue) {
		entry, ok := v.(*lua.LTable)
		if !ok {
			errs = append(errs, fmt.Errorf("item %s is a %s, not a table", k, v.Type()))
			return
		}

		ref, err := referenceFromTable(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("item %s: %w", k, err))
			return
		}
		items = append(items, ref)
	})

	return items, errors.Join(errs...)
}

func referenceFromTable(table *lua.LTable) (media.Reference, error) {
	url := strings.TrimSpace(getString(table, "url"))
	if url == "" {
		return media.Reference{}, errors.New("url is required")
	}

	ref := media.NewReference(url).
		WithTitle(getString(table, "title")).
		WithHeaders(getStringMap(table, "headers"))

	ref.MimeType = getString(table, "mime")
	if id := getString(table, "id"); id != "" {
		ref.ID = id
	}

	if drm := getStringMap(table, "drm"); drm["scheme"] != "" {
		ref.DRM = mo.Some(media.DRM{Scheme: drm["scheme"], LicenseURL: drm["license_url"]})
	}

	return ref, nil
}
