// Package script defines the configuration-script evaluation capability.
//
// A rebar project may ship a rebar.config.script next to its rebar.config;
// evaluating it yields a replacement configuration. Script evaluation is
// arbitrary code execution and therefore lives behind the Evaluator
// interface: production code injects the goja-backed implementation, tests
// inject a deterministic stub.
package script

import (
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

// Bindings are the two values every configuration script sees.
type Bindings struct {
	// Config is the configuration loaded from rebar.config, as parsed
	// top-level terms. Empty when the file is absent.
	Config []terms.Term
	// Script is the base filename of the script being evaluated.
	Script string
}

// Evaluator evaluates a configuration script. The returned terms replace
// the loaded configuration entirely. Implementations are responsible for
// sandboxing; the caller is responsible for working-directory scoping and
// for treating failure as non-fatal.
type Evaluator interface {
	Eval(path string, bindings Bindings) ([]terms.Term, error)
}

// Func adapts a function to the Evaluator interface.
type Func func(path string, bindings Bindings) ([]terms.Term, error)

func (f Func) Eval(path string, bindings Bindings) ([]terms.Term, error) {
	return f(path, bindings)
}
