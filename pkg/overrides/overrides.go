// Package overrides implements the three-phase override protocol: global
// overrides, per-application overrides and per-application additions, in
// that order, each as an independent pass over the full directive list.
package overrides

import (
	"github.com/rebarcfg/rebarcfg/pkg/config"
	"github.com/rebarcfg/rebarcfg/pkg/logging"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

// Directive is one override instruction.
type Directive interface {
	isDirective()
}

// Global applies its changes to every application.
type Global struct {
	Changes config.Raw
}

// AppScoped applies its changes to one application, after all global
// changes.
type AppScoped struct {
	App     string
	Changes config.Raw
}

// AppAdd prepends its change values to whatever the keys already hold, for
// one application, after all overrides.
type AppAdd struct {
	App     string
	Changes config.Raw
}

// Unknown preserves a directive of unrecognized shape. It is inert in every
// pass.
type Unknown struct {
	Term terms.Term
}

func (Global) isDirective()    {}
func (AppScoped) isDirective() {}
func (AppAdd) isDirective()    {}
func (Unknown) isDirective()   {}

// Configuration keys directives live under at the top level of a
// rebar.config: {override, Changes}, {override, App, Changes} and
// {add, App, Changes}.
const (
	KeyOverride = "override"
	KeyAdd      = "add"
)

// FromConfig extracts the directive list from a configuration: every
// top-level override and add entry, in declaration order. Entries under
// those keys that do not match any directive shape are preserved as
// Unknown.
func FromConfig(cfg config.Raw) []Directive {
	var out []Directive
	for _, p := range cfg {
		if p.Key != KeyOverride && p.Key != KeyAdd {
			continue
		}
		out = append(out, parseDirective(p))
	}
	return out
}

func parseDirective(p config.Pair) Directive {
	switch {
	case p.Key == KeyOverride && len(p.Extra) == 0:
		if changes, ok := changeSet(p.Value); ok {
			return Global{Changes: changes}
		}
	case p.Key == KeyOverride && len(p.Extra) == 1:
		if app, changes, ok := scopedChangeSet(p); ok {
			return AppScoped{App: app, Changes: changes}
		}
	case p.Key == KeyAdd && len(p.Extra) == 1:
		if app, changes, ok := scopedChangeSet(p); ok {
			return AppAdd{App: app, Changes: changes}
		}
	}
	return Unknown{Term: p.Term()}
}

func scopedChangeSet(p config.Pair) (string, config.Raw, bool) {
	app, ok := p.Value.(terms.Atom)
	if !ok {
		return "", nil, false
	}
	changes, ok := changeSet(p.Extra[0])
	if !ok {
		return "", nil, false
	}
	return string(app), changes, true
}

func changeSet(t terms.Term) (config.Raw, bool) {
	list, ok := t.(terms.List)
	if !ok {
		return nil, false
	}
	changes, err := config.FromTerms(list)
	if err != nil {
		return nil, false
	}
	return changes, true
}

// Apply runs the three passes for app over cfg and returns the merged
// configuration. The input is not mutated. Each pass scans the whole
// directive list so that every per-application override sees the fully
// globally-merged configuration and every addition sees the fully
// overridden one, regardless of directive interleaving.
func Apply(app string, cfg config.Raw, directives []Directive) config.Raw {
	logger := logging.GetLogger("overrides")
	out := cfg.Clone()

	for _, d := range directives {
		if g, ok := d.(Global); ok {
			for _, p := range g.Changes {
				out.Set(p.Key, p.Value)
			}
		}
	}

	for _, d := range directives {
		if o, ok := d.(AppScoped); ok && o.App == app {
			for _, p := range o.Changes {
				out.Set(p.Key, p.Value)
			}
		}
	}

	for _, d := range directives {
		a, ok := d.(AppAdd)
		if !ok || a.App != app {
			continue
		}
		for _, p := range a.Changes {
			out.Set(p.Key, prepend(p.Value, out.GetList(p.Key)))
		}
	}

	logger.Trace().Str("app", app).Int("directives", len(directives)).Msg("Overrides applied")
	return out
}

// prepend joins an addition onto the current value of its key: new ++ old,
// with a missing or non-list old value treated as empty. A non-list
// addition simply replaces the value.
func prepend(addition terms.Term, old terms.List) terms.Term {
	newList, ok := addition.(terms.List)
	if !ok {
		return addition
	}
	merged := make(terms.List, 0, len(newList)+len(old))
	merged = append(merged, newList...)
	return append(merged, old...)
}
