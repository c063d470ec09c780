// Package resolver locates executables for external build tools, preferring
// a system-wide install over a locally cached copy.
package resolver

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/logging"
)

// Resolver finds an invocation string for a named tool. Lookup order: the
// system search path first, then <Home>/<name> when it is a regular file.
type Resolver struct {
	FS   filesystem.FS
	Home string

	// LookPath searches the system path; defaults to exec.LookPath.
	LookPath func(name string) (string, error)

	// WindowsFamily selects the escript invocation wrapping; defaults to
	// the current platform.
	WindowsFamily bool
}

// New creates a resolver with a local cache at home.
func New(fsys filesystem.FS, home string) *Resolver {
	return &Resolver{
		FS:            fsys,
		Home:          home,
		LookPath:      exec.LookPath,
		WindowsFamily: runtime.GOOS == "windows",
	}
}

// Resolve returns the invocation string for name, or false when the tool is
// installed neither on the system path nor in the local cache.
func (r *Resolver) Resolve(name string) (string, bool) {
	logger := logging.GetLogger("resolver")

	if path, err := r.LookPath(name); err == nil {
		logger.Debug().Str("tool", name).Str("path", path).Msg("Tool found on system path")
		return r.wrap(path), true
	}

	local := filepath.Join(r.Home, name)
	if filesystem.IsRegularFile(r.FS, local) {
		logger.Debug().Str("tool", name).Str("path", local).Msg("Tool found in local cache")
		return r.wrap(local), true
	}

	logger.Debug().Str("tool", name).Msg("Tool not found")
	return "", false
}

// wrap adapts a path for the current platform. Windows cannot execute
// escripts directly, so anything that is not already a .cmd shim is run
// through escript.exe.
func (r *Resolver) wrap(path string) string {
	if r.WindowsFamily && !strings.HasSuffix(path, ".cmd") {
		return fmt.Sprintf("escript.exe \"%s\"", path)
	}
	return path
}
