package main

import (
	"path/filepath"

	"github.com/rebarcfg/rebarcfg/pkg/config"
	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/paths"
	"github.com/rebarcfg/rebarcfg/pkg/script"
	"github.com/rebarcfg/rebarcfg/pkg/settings"
)

// newLoader wires the production pipeline: OS filesystem, goja script
// evaluator (unless disabled by settings or --no-scripts) and user-facing
// warnings for non-fatal script failures.
func newLoader(s *settings.Settings, fsys filesystem.FS) *config.Loader {
	var eval script.Evaluator
	if s.EvalScripts && !noScripts {
		g := script.NewGoja(fsys)
		g.Timeout = s.ScriptTimeout
		eval = g
	}
	ld := config.NewLoader(fsys, eval)
	ld.Warn = warnUser
	return ld
}

// rebarHome resolves the local executable cache directory, settings first.
func rebarHome(s *settings.Settings) string {
	if s.RebarHome != "" {
		return s.RebarHome
	}
	return paths.RebarHome()
}

// outputFormat resolves the output format, flag over settings.
func outputFormat(s *settings.Settings) string {
	if formatFlag != "" {
		return formatFlag
	}
	return s.Format
}

// appScope resolves the application name override directives are scoped
// by: the --app flag when given, otherwise the base name of the project
// directory.
func appScope(flag, dir string) string {
	if flag != "" {
		return flag
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Base(dir)
	}
	return filepath.Base(abs)
}
