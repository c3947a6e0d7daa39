// Package cache keeps short-lived JSON blobs, such as HTTP responses fetched by playlist scripts, under the cache directory.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vlog-app/vlog/filesystem"
	"github.com/vlog-app/vlog/where"
)

// TTL bounds how long an entry is served.
const TTL = 24 * time.Hour

func dir() string {
	path := filepath.Join(where.Cache(), "http")
	_ = filesystem.API().MkdirAll(path, os.ModePerm)
	return path
}

// Key derives a file-safe identifier from the request parts.
func Key(parts ...string) string {
	hash := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(hash[:])
}

// Read decodes the entry into target and reports whether a fresh entry existed.
func Read(key string, target any) bool {
	path := filepath.Join(dir(), key)

	info, err := filesystem.API().Stat(path)
	if err != nil || time.Since(info.ModTime()) > TTL {
		return false
	}

	data, err := filesystem.API().ReadFile(path)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, target) == nil
}

// Write stores data through a temporary file swap.
func Write(key string, data any) error {
	path := filepath.Join(dir(), key)
	tmp := path + ".tmp"

	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}

	if err := filesystem.API().WriteFile(tmp, encoded, 0o644); err != nil {
		return err
	}
	return filesystem.API().Rename(tmp, path)
}

// Prune removes expired entries and returns how many were deleted.
func Prune() int {
	var removed int
	_ = filesystem.API().Walk(dir(), func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if time.Since(info.ModTime()) > TTL {
			if filesystem.API().Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed
}
