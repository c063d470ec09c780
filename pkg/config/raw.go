// Package config loads rebar project configuration.
//
// A rebar.config file is an ordered sequence of {key, value} terms. Order
// and duplicate keys are meaningful and preserved: lookup returns the first
// match, merges overwrite the first occurrence in place and otherwise
// append. The package also runs the optional rebar.config.script through
// the injected script evaluator.
package config

import (
	"strings"

	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

// Pair is one configuration entry. Most entries are {key, value} tuples;
// entries with more positions, like the {override, App, Changes} directive,
// keep the remaining elements in Extra so they survive a round trip.
type Pair struct {
	Key   string
	Value terms.Term
	Extra []terms.Term
}

// Term renders the pair back to its source tuple.
func (p Pair) Term() terms.Term {
	tuple := make(terms.Tuple, 0, 2+len(p.Extra))
	tuple = append(tuple, terms.Atom(p.Key), p.Value)
	return append(tuple, p.Extra...)
}

// Raw is an ordered, duplicate-preserving configuration.
type Raw []Pair

// FromTerms builds a configuration from parsed top-level terms. A tuple
// with an atom key and at least one argument becomes a pair, any elements
// past the first argument landing in Extra; a bare atom becomes a flag set
// to true. Anything else is a shape error.
func FromTerms(ts []terms.Term) (Raw, error) {
	cfg := make(Raw, 0, len(ts))
	for _, t := range ts {
		switch v := t.(type) {
		case terms.Atom:
			cfg = append(cfg, Pair{Key: string(v), Value: terms.Atom("true")})
		case terms.Tuple:
			if len(v) >= 2 {
				if key, ok := v[0].(terms.Atom); ok {
					p := Pair{Key: string(key), Value: v[1]}
					if len(v) > 2 {
						p.Extra = v[2:]
					}
					cfg = append(cfg, p)
					continue
				}
			}
			return nil, errors.Newf(errors.ErrConfigShape,
				"expected a {key, value} term, got %s", terms.Format(t))
		default:
			return nil, errors.Newf(errors.ErrConfigShape,
				"expected a {key, value} term, got %s", terms.Format(t))
		}
	}
	return cfg, nil
}

// Lookup returns the value of the first pair with the given key.
func (r Raw) Lookup(key string) (terms.Term, bool) {
	for _, p := range r {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// GetList returns the value of key as a list, or an empty list when the key
// is absent or its value is not a list.
func (r Raw) GetList(key string) terms.List {
	v, ok := r.Lookup(key)
	if !ok {
		return terms.List{}
	}
	if l, ok := v.(terms.List); ok {
		return l
	}
	return terms.List{}
}

// Set overwrites the value of the first pair with the given key, or appends
// a new pair when the key is absent. When a key occurs more than once only
// the first occurrence is touched, matching first-match lookup.
func (r *Raw) Set(key string, value terms.Term) {
	for i, p := range *r {
		if p.Key == key {
			(*r)[i].Value = value
			return
		}
	}
	*r = append(*r, Pair{Key: key, Value: value})
}

// Clone returns a copy sharing no pair storage with the original.
func (r Raw) Clone() Raw {
	out := make(Raw, len(r))
	copy(out, r)
	return out
}

// ToTerms renders the configuration back to top-level terms.
func (r Raw) ToTerms() []terms.Term {
	out := make([]terms.Term, len(r))
	for i, p := range r {
		out[i] = p.Term()
	}
	return out
}

// Serialize renders the configuration as rebar.config source, one dotted
// term per line, so a rewritten configuration can be handed to a real rebar
// invocation.
func (r Raw) Serialize() string {
	var b strings.Builder
	for _, t := range r.ToTerms() {
		b.WriteString(terms.Format(t))
		b.WriteString(".\n")
	}
	return b.String()
}
