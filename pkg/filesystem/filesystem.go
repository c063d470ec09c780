// Package filesystem provides the filesystem capability consumed by the
// loader, walker and resolver. Production code uses the OS implementation;
// tests substitute an in-memory one.
package filesystem

import (
	"io/fs"
	"os"

	"github.com/bmatcuk/doublestar/v4"
)

// FS is the narrow filesystem surface the translator needs: reading
// configuration files, checking what a path is, and expanding glob
// patterns.
type FS interface {
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
	// Glob expands a glob pattern to matching paths. Patterns follow
	// doublestar syntax, a superset of filepath.Match.
	Glob(pattern string) ([]string, error)
}

// osFS implements FS using the OS filesystem
type osFS struct{}

// NewOS creates a new OS filesystem implementation
func NewOS() FS {
	return &osFS{}
}

func (o *osFS) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (o *osFS) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (o *osFS) Glob(pattern string) ([]string, error) {
	return doublestar.FilepathGlob(pattern)
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.IsDir()
}

// IsRegularFile reports whether path exists and is a regular file.
func IsRegularFile(fsys FS, path string) bool {
	info, err := fsys.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Exists reports whether path exists at all.
func Exists(fsys FS, path string) bool {
	_, err := fsys.Stat(path)
	return err == nil
}
