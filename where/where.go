// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/samber/lo"
	"github.com/vlog-app/vlog/constant"
	"github.com/vlog-app/vlog/filesystem"
)

// EnvConfigPath overrides the configuration directory.
const EnvConfigPath = "VLOG_CONFIG_PATH"

func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the application configuration directory.
// It honors VLOG_CONFIG_PATH before falling back to the platform user config directory.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Vlog))
}

// Cache resolves the persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Vlog))
}

// Logs resolves the directory holding daily log files.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// Playlists resolves the directory containing user playlist scripts.
func Playlists() string {
	return ensureDir(filepath.Join(Config(), "playlists"))
}

// History resolves the resume position store.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Queries resolves the library filter suggestion store.
func Queries() string {
	return filepath.Join(Cache(), "queries.json")
}

// Videos resolves the default library root. The directory is not created.
func Videos() string {
	if xdg.UserDirs.Videos != "" {
		return xdg.UserDirs.Videos
	}
	return filepath.Join(xdg.Home, "Videos")
}

// Temp resolves a directory for transient artifacts such as engine IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Vlog))
}
