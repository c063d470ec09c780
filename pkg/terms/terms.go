// Package terms implements parsing and formatting of textual Erlang terms,
// the grammar rebar configuration files are written in.
//
// Only the subset of the grammar that occurs in configuration files is
// supported: atoms (plain and quoted), double-quoted strings, binaries with
// a string payload, integers, floats, tuples and lists. Variables and the
// full expression language are out of scope; a configuration file is a
// sequence of dot-terminated terms, nothing more.
package terms

import (
	"fmt"
	"strconv"
	"strings"
)

// Term is one parsed Erlang term.
type Term interface {
	isTerm()
}

// Atom is a symbolic name, e.g. `deps` or `'my-app'`.
type Atom string

// String is a double-quoted character list, e.g. `"1.0.*"`.
type String string

// Binary is a binary with a string payload, e.g. `<<"url">>`.
type Binary string

// Int is an integer literal.
type Int int64

// Float is a floating point literal.
type Float float64

// Tuple is a fixed-shape sequence, e.g. `{git, "url", {tag, "v1"}}`.
type Tuple []Term

// List is a variable-length sequence, e.g. `[a, b, c]`.
type List []Term

func (Atom) isTerm()   {}
func (String) isTerm() {}
func (Binary) isTerm() {}
func (Int) isTerm()    {}
func (Float) isTerm()  {}
func (Tuple) isTerm()  {}
func (List) isTerm()   {}

// Format renders a term back to Erlang source syntax.
func Format(t Term) string {
	var b strings.Builder
	writeTerm(&b, t)
	return b.String()
}

func writeTerm(b *strings.Builder, t Term) {
	switch v := t.(type) {
	case Atom:
		b.WriteString(formatAtom(string(v)))
	case String:
		b.WriteString(quote(string(v)))
	case Binary:
		b.WriteString("<<")
		b.WriteString(quote(string(v)))
		b.WriteString(">>")
	case Int:
		b.WriteString(strconv.FormatInt(int64(v), 10))
	case Float:
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 64))
	case Tuple:
		writeSeq(b, "{", "}", v)
	case List:
		writeSeq(b, "[", "]", v)
	default:
		fmt.Fprintf(b, "%v", t)
	}
}

func writeSeq(b *strings.Builder, open, close string, items []Term) {
	b.WriteString(open)
	for i, item := range items {
		if i > 0 {
			b.WriteString(", ")
		}
		writeTerm(b, item)
	}
	b.WriteString(close)
}

// formatAtom quotes an atom only when its spelling requires it.
func formatAtom(s string) string {
	if s == "" {
		return "''"
	}
	plain := s[0] >= 'a' && s[0] <= 'z'
	for i := 0; plain && i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '_' || c == '@':
		default:
			plain = false
		}
	}
	if plain {
		return s
	}
	return "'" + escape(s, '\'') + "'"
}

func quote(s string) string {
	return `"` + escape(s, '"') + `"`
}

func escape(s string, delim byte) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\', delim:
			b.WriteByte('\\')
			b.WriteByte(c)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Stringify converts a term to its bare text form: atoms, strings and
// binaries yield their contents, numbers their decimal spelling, and
// composite terms fall back to source syntax. Used when a loosely-typed
// configuration value (an atom, a charlist or a binary) must become a
// plain string, e.g. a repository URL or a ref name.
func Stringify(t Term) string {
	switch v := t.(type) {
	case Atom:
		return string(v)
	case String:
		return string(v)
	case Binary:
		return string(v)
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return strconv.FormatFloat(float64(v), 'g', -1, 64)
	default:
		return Format(t)
	}
}
