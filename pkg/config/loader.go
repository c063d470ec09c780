package config

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	stderrors "errors"

	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/logging"
	"github.com/rebarcfg/rebarcfg/pkg/script"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

const (
	// ConfigFile is the configuration file name rebar projects use.
	ConfigFile = "rebar.config"

	// ScriptSuffix turns a configuration file name into its companion
	// script name, i.e. rebar.config.script.
	ScriptSuffix = ".script"
)

// Loader reads a directory's rebar configuration and, when a companion
// script exists, lets the evaluator rewrite it.
type Loader struct {
	FS   filesystem.FS
	Eval script.Evaluator

	// Warn receives the diagnostic for a failed script evaluation. Script
	// failures are not fatal: the unevaluated configuration is used and
	// loading continues. Defaults to the component logger.
	Warn func(msg string)
}

// NewLoader creates a loader over fsys. eval may be nil, in which case
// companion scripts are ignored.
func NewLoader(fsys filesystem.FS, eval script.Evaluator) *Loader {
	return &Loader{FS: fsys, Eval: eval}
}

// Load reads dir/rebar.config. An absent file yields an empty
// configuration; a malformed one is fatal. If dir/rebar.config.script
// exists and an evaluator is configured, its result replaces the loaded
// configuration; evaluation failure falls back to the loaded one.
func (l *Loader) Load(dir string) (Raw, error) {
	logger := logging.GetLogger("config")
	path := filepath.Join(dir, ConfigFile)

	parsed, err := l.readTerms(path)
	if err != nil {
		return nil, err
	}

	cfg, err := FromTerms(parsed)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot load %s", path).
			WithDetail("path", path)
	}
	logger.Debug().Str("path", path).Int("entries", len(cfg)).Msg("Configuration loaded")

	scriptPath := path + ScriptSuffix
	if l.Eval == nil || !filesystem.IsRegularFile(l.FS, scriptPath) {
		return cfg, nil
	}

	evaluated, err := l.evalScript(scriptPath, parsed)
	if err != nil {
		l.warnf(scriptFailure(scriptPath, err))
		logger.Warn().Err(err).Str("script", scriptPath).Msg("Script evaluation failed, using unevaluated configuration")
		return cfg, nil
	}
	logger.Debug().Str("script", scriptPath).Msg("Configuration replaced by script result")
	return evaluated, nil
}

// readTerms parses the configuration file; a missing file is an empty
// configuration, anything unreadable or unparsable is fatal.
func (l *Loader) readTerms(path string) ([]terms.Term, error) {
	data, err := l.FS.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "cannot read %s", path)
	}
	parsed, err := terms.ParseAll(string(data))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "cannot parse %s", path).
			WithDetail("path", path)
	}
	return parsed, nil
}

// evalScript runs the companion script with the working directory set to the
// script's own directory for the duration of the call.
func (l *Loader) evalScript(scriptPath string, loaded []terms.Term) (Raw, error) {
	restore := pushd(filepath.Dir(scriptPath))
	defer restore()

	result, err := l.Eval.Eval(scriptPath, script.Bindings{
		Config: loaded,
		Script: filepath.Base(scriptPath),
	})
	if err != nil {
		return nil, err
	}
	cfg, err := FromTerms(result)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// pushd changes the working directory, returning a restore func. A failed
// chdir (e.g. the directory only exists in a test filesystem) is tolerated:
// evaluation proceeds from the current directory.
func pushd(dir string) func() {
	prev, err := os.Getwd()
	if err != nil {
		return func() {}
	}
	if err := os.Chdir(dir); err != nil {
		return func() {}
	}
	return func() { _ = os.Chdir(prev) }
}

func (l *Loader) warnf(msg string) {
	if l.Warn != nil {
		l.Warn(msg)
		return
	}
	logger := logging.GetLogger("config")
	logger.Warn().Msg(msg)
}

func scriptFailure(path string, err error) string {
	return fmt.Sprintf(`Evaluating config script %s failed:

%v

The script result is ignored and the unevaluated rebar.config is used
instead. Note that any dependencies the script itself requires are not
available to this loader.`, path, err)
}
