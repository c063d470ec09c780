package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/script"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
	"github.com/rebarcfg/rebarcfg/pkg/testutil"
)

func TestLoadMissingFileIsEmptyConfig(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.MkdirAll("/proj")

	cfg, err := NewLoader(fs, nil).Load("/proj")
	require.NoError(t, err)
	assert.Empty(t, cfg)
}

func TestLoadParsesConfig(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WriteFile("/proj/rebar.config", []byte(`
{deps, [{app, "1.0.*"}]}.
{sub_dirs, ["apps/*"]}.
`))

	cfg, err := NewLoader(fs, nil).Load("/proj")
	require.NoError(t, err)

	require.Len(t, cfg, 2)
	assert.Equal(t, "deps", cfg[0].Key)
	assert.Equal(t, terms.List{terms.String("apps/*")}, cfg.GetList("sub_dirs"))
}

func TestLoadMalformedConfigIsFatal(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WriteFile("/proj/rebar.config", []byte(`{deps, [}.`))

	_, err := NewLoader(fs, nil).Load("/proj")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
	assert.Equal(t, "/proj/rebar.config", errors.GetErrorDetails(err)["path"])
}

func TestLoadScriptReplacesConfig(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WriteFile("/proj/rebar.config", []byte(`{deps, []}.`))
	fs.WriteFile("/proj/rebar.config.script", []byte(`ignored by stub`))

	var gotPath string
	var gotBindings script.Bindings
	stub := script.Func(func(path string, b script.Bindings) ([]terms.Term, error) {
		gotPath = path
		gotBindings = b
		return []terms.Term{
			terms.Tuple{terms.Atom("deps"), terms.List{terms.Atom("extra_app")}},
		}, nil
	})

	cfg, err := NewLoader(fs, stub).Load("/proj")
	require.NoError(t, err)

	assert.Equal(t, "/proj/rebar.config.script", gotPath)
	assert.Equal(t, "rebar.config.script", gotBindings.Script)
	require.Len(t, gotBindings.Config, 1)
	assert.Equal(t, terms.List{terms.Atom("extra_app")}, cfg.GetList("deps"))
}

func TestLoadScriptFailureFallsBack(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WriteFile("/proj/rebar.config", []byte(`{deps, [app1]}.`))
	fs.WriteFile("/proj/rebar.config.script", []byte(`x`))

	stub := script.Func(func(string, script.Bindings) ([]terms.Term, error) {
		return nil, fmt.Errorf("undefined function frobnicate/0")
	})

	var warning string
	loader := NewLoader(fs, stub)
	loader.Warn = func(msg string) { warning = msg }

	cfg, err := loader.Load("/proj")
	require.NoError(t, err, "script failure must not be fatal")

	assert.Equal(t, terms.List{terms.Atom("app1")}, cfg.GetList("deps"))
	assert.Contains(t, warning, "/proj/rebar.config.script")
	assert.Contains(t, warning, "frobnicate")
	assert.Contains(t, warning, "not\navailable", "warning carries the guidance text")
}

func TestLoadScriptFailureWithoutWarnHook(t *testing.T) {
	// With no Warn hook the diagnostic goes to the component logger;
	// loading still falls back to the unevaluated configuration.
	fs := testutil.NewMemoryFS()
	fs.WriteFile("/proj/rebar.config", []byte(`{deps, [app1]}.`))
	fs.WriteFile("/proj/rebar.config.script", []byte(`x`))

	stub := script.Func(func(string, script.Bindings) ([]terms.Term, error) {
		return nil, fmt.Errorf("boom")
	})

	cfg, err := NewLoader(fs, stub).Load("/proj")
	require.NoError(t, err)
	assert.Equal(t, terms.List{terms.Atom("app1")}, cfg.GetList("deps"))
}

func TestLoadScriptBadShapeFallsBack(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WriteFile("/proj/rebar.config", []byte(`{deps, [app1]}.`))
	fs.WriteFile("/proj/rebar.config.script", []byte(`x`))

	stub := script.Func(func(string, script.Bindings) ([]terms.Term, error) {
		return []terms.Term{terms.Int(42)}, nil
	})

	var warned bool
	loader := NewLoader(fs, stub)
	loader.Warn = func(string) { warned = true }

	cfg, err := loader.Load("/proj")
	require.NoError(t, err)
	assert.True(t, warned)
	assert.Equal(t, terms.List{terms.Atom("app1")}, cfg.GetList("deps"))
}

func TestLoadScriptRunsInScriptDir(t *testing.T) {
	// Uses the real filesystem: the working directory is scoped to the
	// script's directory for the duration of evaluation and restored
	// afterwards, whether evaluation succeeds or fails.
	project := t.TempDir()
	testutil.WriteTree(t, project, map[string]string{
		"rebar.config":        `{deps, []}.`,
		"rebar.config.script": `x`,
	})

	orig, err := os.Getwd()
	require.NoError(t, err)

	var scriptWd string
	stub := script.Func(func(string, script.Bindings) ([]terms.Term, error) {
		wd, err := os.Getwd()
		require.NoError(t, err)
		scriptWd = wd
		return []terms.Term{terms.Tuple{terms.Atom("deps"), terms.List{}}}, nil
	})

	_, err = NewLoader(filesystem.NewOS(), stub).Load(project)
	require.NoError(t, err)

	// t.TempDir may sit behind a symlink; compare resolved paths.
	want, err := filepath.EvalSymlinks(project)
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(scriptWd)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	after, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, orig, after)

	failing := script.Func(func(string, script.Bindings) ([]terms.Term, error) {
		return nil, fmt.Errorf("boom")
	})
	loader := NewLoader(filesystem.NewOS(), failing)
	loader.Warn = func(string) {}
	_, err = loader.Load(project)
	require.NoError(t, err)

	after, err = os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, orig, after, "restored after a failed evaluation too")
}

func TestLoadScriptIgnoredWithoutEvaluator(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WriteFile("/proj/rebar.config", []byte(`{deps, []}.`))
	fs.WriteFile("/proj/rebar.config.script", []byte(`x`))

	cfg, err := NewLoader(fs, nil).Load("/proj")
	require.NoError(t, err)
	assert.Equal(t, terms.List{}, cfg.GetList("deps"))
}

func TestLoadScriptWithoutConfigFile(t *testing.T) {
	fs := testutil.NewMemoryFS()
	fs.WriteFile("/proj/rebar.config.script", []byte(`x`))

	stub := script.Func(func(_ string, b script.Bindings) ([]terms.Term, error) {
		assert.Empty(t, b.Config)
		return []terms.Term{terms.Tuple{terms.Atom("deps"), terms.List{}}}, nil
	})

	cfg, err := NewLoader(fs, stub).Load("/proj")
	require.NoError(t, err)
	_, ok := cfg.Lookup("deps")
	assert.True(t, ok)
}
