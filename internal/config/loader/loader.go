// Package loader reads spellhook configuration sources.
//
// TOML files are decoded strictly into a caller-supplied struct, and
// SPELLHOOK_* environment variables are collected into a nested map that
// is decoded over the same struct, so the environment wins over the file.
package loader

import (
	"io/fs"
	"os"
)

// FileSystem is the file access the loaders need. testing/fstest.MapFS
// satisfies it.
type FileSystem interface {
	fs.FS
	ReadFile(path string) ([]byte, error)
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// DefaultFS returns the OS file system.
func DefaultFS() FileSystem {
	return OSFS{}
}
