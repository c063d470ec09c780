package script

import (
	"fmt"
	"time"

	"github.com/dop251/goja"

	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/filesystem"
	"github.com/rebarcfg/rebarcfg/pkg/logging"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

// GojaEvaluator evaluates configuration scripts as JavaScript in a fresh
// goja VM per call. The script sees CONFIG (the loaded configuration),
// SCRIPT (its own base filename) and the constructors atom(name) and
// tuple(...) for building terms JavaScript has no literal for. The value
// of the script's final expression becomes the new configuration; it must
// map to a list of top-level terms.
type GojaEvaluator struct {
	FS filesystem.FS
	// Timeout interrupts runaway scripts; zero means no limit.
	Timeout time.Duration
}

// NewGoja creates an evaluator reading scripts through fsys.
func NewGoja(fsys filesystem.FS) *GojaEvaluator {
	return &GojaEvaluator{FS: fsys}
}

// Eval implements Evaluator.
func (e *GojaEvaluator) Eval(path string, bindings Bindings) ([]terms.Term, error) {
	logger := logging.GetLogger("script")

	src, err := e.FS.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptEval, "cannot read script %s", path)
	}

	vm := goja.New()
	if err := e.bindGlobals(vm, bindings); err != nil {
		return nil, err
	}

	if e.Timeout > 0 {
		timer := time.AfterFunc(e.Timeout, func() {
			vm.Interrupt("script timed out")
		})
		defer timer.Stop()
	}

	logger.Debug().Str("script", path).Msg("Evaluating configuration script")

	prog, err := goja.Compile(path, string(src), true)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptEval, "cannot compile %s", path)
	}
	value, err := vm.RunProgram(prog)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptEval, "evaluation of %s failed", path)
	}

	result, err := configFromJS(value.Export())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrScriptEval, "script %s returned an invalid configuration", path)
	}

	logger.Debug().Str("script", path).Int("terms", len(result)).Msg("Script produced configuration")
	return result, nil
}

func (e *GojaEvaluator) bindGlobals(vm *goja.Runtime, bindings Bindings) error {
	config := make([]interface{}, len(bindings.Config))
	for i, t := range bindings.Config {
		config[i] = &termBox{t}
	}

	for name, v := range map[string]interface{}{
		"CONFIG": config,
		"SCRIPT": bindings.Script,
		"atom": func(name string) *termBox {
			return &termBox{terms.Atom(name)}
		},
		"tuple": func(items ...interface{}) (*termBox, error) {
			tuple := make(terms.Tuple, len(items))
			for i, item := range items {
				t, err := termFromJS(item)
				if err != nil {
					return nil, err
				}
				tuple[i] = t
			}
			return &termBox{tuple}, nil
		},
	} {
		if err := vm.Set(name, v); err != nil {
			return errors.Wrapf(err, errors.ErrScriptEval, "cannot bind %s", name)
		}
	}
	return nil
}

// termBox carries a term through the VM untouched.
type termBox struct {
	term terms.Term
}

func (b *termBox) String() string { return terms.Format(b.term) }

func configFromJS(v interface{}) ([]terms.Term, error) {
	items, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("expected an array of terms, got %T", v)
	}
	out := make([]terms.Term, len(items))
	for i, item := range items {
		t, err := termFromJS(item)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// termFromJS maps an exported JavaScript value to a term: strings become
// charlists, booleans the corresponding atoms, numbers integers or floats,
// arrays lists. Tuples and atoms only exist via the bound constructors.
func termFromJS(v interface{}) (terms.Term, error) {
	switch val := v.(type) {
	case *termBox:
		return val.term, nil
	case string:
		return terms.String(val), nil
	case bool:
		if val {
			return terms.Atom("true"), nil
		}
		return terms.Atom("false"), nil
	case int64:
		return terms.Int(val), nil
	case float64:
		return terms.Float(val), nil
	case []interface{}:
		list := make(terms.List, len(val))
		for i, item := range val {
			t, err := termFromJS(item)
			if err != nil {
				return nil, err
			}
			list[i] = t
		}
		return list, nil
	default:
		return nil, fmt.Errorf("value %v (%T) has no term representation", v, v)
	}
}
