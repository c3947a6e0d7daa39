// Package filesystem provides a virtualized abstraction layer for all filesystem operations.
//
// Library scanning, permission probing and persistence all go through API so tests can swap in an in-memory backend.
package filesystem

import (
	"errors"
	"io"

	"github.com/spf13/afero"
)

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the native operating system backend.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs installs a volatile in-memory backend.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// SetReadOnly wraps the active backend so every write fails.
func SetReadOnly() {
	backend = afero.Afero{Fs: afero.NewReadOnlyFs(backend.Fs)}
}

// ReadDir probes whether the directory at path can be listed through API.
func ReadDir(path string) error {
	return Probe(API(), path)
}

// Probe reports whether the directory at path can be listed on fs.
// An empty directory is readable.
func Probe(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err = f.Readdirnames(1); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
