// Package walker discovers and traverses the configuration tree of a rebar
// project: a directory's configuration declares subdirectory glob patterns
// under sub_dirs, and every matching directory is walked in turn.
package walker

import (
	"path/filepath"

	"github.com/rebarcfg/rebarcfg/pkg/config"
	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/logging"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

// ConfigKey is the configuration key subdirectory patterns live under.
const ConfigKey = "sub_dirs"

// Transform maps one directory's configuration to a per-directory result.
type Transform[T any] func(cfg config.Raw) (T, error)

// Walk loads the configuration of dir and traverses its subdirectory tree,
// applying transform to every reachable configuration. Results come back in
// pre-order: a directory's own result first, then each subdirectory's full
// result sequence, with siblings in glob-expansion order. Any error aborts
// the whole traversal.
//
// Traversal follows sub_dirs declarations blindly; a pattern chain that
// re-enters an ancestor (e.g. through a symlink) recurses without bound.
func Walk[T any](ld *config.Loader, dir string, transform Transform[T]) ([]T, error) {
	cfg, err := ld.Load(dir)
	if err != nil {
		return nil, err
	}
	return WalkConfig(ld, dir, cfg, transform)
}

// WalkConfig is Walk starting from an already-loaded configuration rooted
// at dir.
func WalkConfig[T any](ld *config.Loader, dir string, cfg config.Raw, transform Transform[T]) ([]T, error) {
	logger := logging.GetLogger("walker")

	self, err := transform(cfg)
	if err != nil {
		return nil, err
	}
	results := []T{self}

	for _, dirEntry := range subDirs(ld.FS, dir, cfg) {
		if err := dirEntry.err; err != nil {
			return nil, err
		}
		logger.Trace().Str("dir", dirEntry.path).Msg("Descending into subdirectory")
		sub, err := Walk(ld, dirEntry.path, transform)
		if err != nil {
			return nil, err
		}
		results = append(results, sub...)
	}
	return results, nil
}

type entry struct {
	path string
	err  error
}

// subDirs expands every sub_dirs pattern relative to dir, in declaration
// order, keeping only matches that are directories at expansion time.
// Matches that vanished or point at files are silently dropped.
func subDirs(fsys filesystem.FS, dir string, cfg config.Raw) []entry {
	var out []entry
	for _, pattern := range cfg.GetList(ConfigKey) {
		matches, err := fsys.Glob(filepath.Join(dir, terms.Stringify(pattern)))
		if err != nil {
			out = append(out, entry{err: errors.Wrapf(err, errors.ErrInvalidInput,
				"invalid sub_dirs pattern %s", terms.Format(pattern))})
			continue
		}
		for _, m := range matches {
			if filesystem.IsDir(fsys, m) {
				out = append(out, entry{path: m})
			}
		}
	}
	return out
}
