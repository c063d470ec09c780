// Package deps translates rebar dependency declarations into canonical
// dependency descriptors.
//
// A declaration in a rebar.config comes in five shapes of increasing
// arity, from a bare application name up to {name, requirement, source,
// options}. Each shape desugars into the next by supplying defaults, so a
// single translation path handles all of them.
package deps

import (
	"regexp"

	"github.com/rebarcfg/rebarcfg/pkg/config"
	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

// ConfigKey is the configuration key dependency declarations live under.
const ConfigKey = "deps"

// Descriptor is the canonical form of one dependency: a name, an optional
// compiled version requirement, and ordered source/build options for the
// host package manager.
type Descriptor struct {
	Name        string
	Requirement *Requirement
	Options     config.Raw
}

// Requirement is a compiled version-matching pattern. A descriptor never
// carries an uncompiled pattern: compilation failure fails the whole
// translation.
type Requirement struct {
	Pattern string
	re      *regexp.Regexp
}

// Match reports whether a concrete version satisfies the requirement.
func (r *Requirement) Match(version string) bool {
	return r.re.MatchString(version)
}

func (r *Requirement) String() string { return r.Pattern }

// Ref selects which revision of a source to fetch.
type Ref struct {
	Kind  string // branch, tag or ref
	Value string
}

// SourceSpec is the decomposed source tuple of a dependency: the SCM kind,
// the repository URL, and an optional ref.
type SourceSpec struct {
	SCM string
	URL string
	Ref *Ref
}

// Translate maps one raw dependency entry to its canonical descriptor.
func Translate(entry terms.Term) (*Descriptor, error) {
	name, req, source, opts, err := desugar(entry)
	if err != nil {
		return nil, err
	}

	d := &Descriptor{Name: name, Options: config.Raw{}}

	if req != nil {
		compiled, err := compileRequirement(req)
		if err != nil {
			return nil, err
		}
		d.Requirement = compiled
	}

	if source != nil {
		spec, err := ParseSource(source)
		if err != nil {
			return nil, err
		}
		d.Options = append(d.Options, spec.options()...)
	}

	if rawOption(opts) {
		d.Options = append(d.Options, config.Pair{Key: "compile", Value: terms.Atom("false")})
	}

	return d, nil
}

// TranslateAll translates every entry under the deps key of a
// configuration. A missing deps key yields an empty list.
func TranslateAll(cfg config.Raw) ([]*Descriptor, error) {
	entries := cfg.GetList(ConfigKey)
	out := make([]*Descriptor, 0, len(entries))
	for _, entry := range entries {
		d, err := Translate(entry)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// desugar normalizes the five entry shapes to the full form. Lower arities
// reduce to higher ones by supplying defaults: no requirement, no source,
// no options.
func desugar(entry terms.Term) (name string, req terms.Term, source terms.Tuple, opts terms.List, err error) {
	switch v := entry.(type) {
	case terms.Atom:
		return string(v), nil, nil, nil, nil
	case terms.Tuple:
		if len(v) < 2 || len(v) > 4 {
			return "", nil, nil, nil, invalidEntry(entry)
		}
		atom, ok := v[0].(terms.Atom)
		if !ok {
			return "", nil, nil, nil, invalidEntry(entry)
		}
		name = string(atom)

		if len(v) == 2 {
			// {name, "requirement"} or {name, {scm, ...}}.
			if src, ok := v[1].(terms.Tuple); ok {
				return name, nil, src, nil, nil
			}
			return name, v[1], nil, nil, nil
		}

		src, ok := v[2].(terms.Tuple)
		if !ok {
			return "", nil, nil, nil, invalidEntry(entry)
		}
		if len(v) == 4 {
			optList, ok := v[3].(terms.List)
			if !ok {
				return "", nil, nil, nil, invalidEntry(entry)
			}
			opts = optList
		}
		return name, v[1], src, opts, nil
	default:
		return "", nil, nil, nil, invalidEntry(entry)
	}
}

func invalidEntry(entry terms.Term) error {
	return errors.Newf(errors.ErrDepInvalid,
		"unrecognized dependency entry %s", terms.Format(entry))
}

func compileRequirement(req terms.Term) (*Requirement, error) {
	var pattern string
	switch v := req.(type) {
	case terms.String:
		pattern = string(v)
	case terms.Binary:
		pattern = string(v)
	default:
		return nil, errors.Newf(errors.ErrDepInvalid,
			"version requirement must be a string, got %s", terms.Format(req))
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrPatternCompile,
			"invalid version requirement %q", pattern).
			WithDetail("pattern", pattern)
	}
	return &Requirement{Pattern: pattern, re: re}, nil
}

// ParseSource decomposes a source tuple {scm, url, ...refTail}. Only the
// first element of the ref tail is significant.
func ParseSource(source terms.Tuple) (*SourceSpec, error) {
	if len(source) < 2 {
		return nil, errors.Newf(errors.ErrDepInvalid,
			"malformed dependency source %s", terms.Format(source))
	}
	scm, ok := source[0].(terms.Atom)
	if !ok {
		return nil, errors.Newf(errors.ErrDepInvalid,
			"dependency source kind must be an atom, got %s", terms.Format(source[0]))
	}

	spec := &SourceSpec{SCM: string(scm), URL: terms.Stringify(source[1])}
	if len(source) > 2 {
		spec.Ref = parseRef(source[2])
	}
	return spec, nil
}

// parseRef maps the head of the ref tail to a ref selector. An empty
// string selects the branch HEAD; {branch, B}, {tag, T} and {ref, R} select
// explicitly; any other value is taken as a raw revision.
func parseRef(t terms.Term) *Ref {
	if s, ok := t.(terms.String); ok && string(s) == "" {
		return &Ref{Kind: "branch", Value: "HEAD"}
	}
	if tuple, ok := t.(terms.Tuple); ok && len(tuple) == 2 {
		if kind, ok := tuple[0].(terms.Atom); ok {
			switch kind {
			case "branch", "tag", "ref":
				return &Ref{Kind: string(kind), Value: terms.Stringify(tuple[1])}
			}
		}
	}
	return &Ref{Kind: "ref", Value: terms.Stringify(t)}
}

// options renders the spec as descriptor options, SCM pair first.
func (s *SourceSpec) options() config.Raw {
	opts := config.Raw{{Key: s.SCM, Value: terms.String(s.URL)}}
	if s.Ref != nil {
		opts = append(opts, config.Pair{Key: s.Ref.Kind, Value: terms.String(s.Ref.Value)})
	}
	return opts
}

// rawOption reports whether the entry options request a raw (non-compiled)
// dependency. Absent defaults to false.
func rawOption(opts terms.List) bool {
	for _, o := range opts {
		tuple, ok := o.(terms.Tuple)
		if !ok || len(tuple) != 2 {
			continue
		}
		if key, ok := tuple[0].(terms.Atom); ok && key == "raw" {
			value, ok := tuple[1].(terms.Atom)
			return ok && value == "true"
		}
	}
	return false
}
