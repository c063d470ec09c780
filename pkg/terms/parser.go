package terms

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SyntaxError reports a malformed term with its position in the input.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ParseAll parses a complete configuration source: a sequence of
// dot-terminated terms. Comments (% to end of line) and whitespace are
// skipped. An empty or comment-only input yields an empty sequence.
func ParseAll(src string) ([]Term, error) {
	p := &parser{src: src, line: 1}
	var out []Term
	for {
		p.skipSpace()
		if p.eof() {
			return out, nil
		}
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume('.') {
			return nil, p.errf("expected '.' after term")
		}
		out = append(out, t)
	}
}

// Parse parses a single term; trailing input (other than whitespace, an
// optional terminating dot and comments) is an error.
func Parse(src string) (Term, error) {
	p := &parser{src: src, line: 1}
	p.skipSpace()
	t, err := p.term()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	p.consume('.')
	p.skipSpace()
	if !p.eof() {
		return nil, p.errf("unexpected trailing input")
	}
	return t, nil
}

type parser struct {
	src  string
	pos  int
	line int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) consume(c byte) bool {
	if !p.eof() && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) errf(format string, args ...interface{}) error {
	return &SyntaxError{Line: p.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch c := p.src[p.pos]; {
		case c == '\n':
			p.line++
			p.pos++
		case c == ' ' || c == '\t' || c == '\r':
			p.pos++
		case c == '%':
			for !p.eof() && p.src[p.pos] != '\n' {
				p.pos++
			}
		default:
			return
		}
	}
}

func (p *parser) term() (Term, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errf("unexpected end of input")
	}
	switch c := p.peek(); {
	case c == '{':
		p.pos++
		items, err := p.seq('}')
		if err != nil {
			return nil, err
		}
		return Tuple(items), nil
	case c == '[':
		p.pos++
		items, err := p.seq(']')
		if err != nil {
			return nil, err
		}
		return List(items), nil
	case c == '"':
		s, err := p.quoted('"')
		if err != nil {
			return nil, err
		}
		return String(s), nil
	case c == '\'':
		s, err := p.quoted('\'')
		if err != nil {
			return nil, err
		}
		return Atom(s), nil
	case c == '<':
		return p.binary()
	case c == '-' || c == '+' || (c >= '0' && c <= '9'):
		return p.number()
	default:
		return p.atom()
	}
}

func (p *parser) seq(close byte) ([]Term, error) {
	p.skipSpace()
	if p.consume(close) {
		return []Term{}, nil
	}
	var items []Term
	for {
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		items = append(items, t)
		p.skipSpace()
		if p.consume(close) {
			return items, nil
		}
		if !p.consume(',') {
			return nil, p.errf("expected ',' or %q", string(close))
		}
	}
}

func (p *parser) quoted(delim byte) (string, error) {
	p.pos++ // opening delimiter
	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errf("unterminated %q", string(delim))
		}
		c := p.src[p.pos]
		p.pos++
		switch c {
		case delim:
			return b.String(), nil
		case '\n':
			p.line++
			b.WriteByte(c)
		case '\\':
			if p.eof() {
				return "", p.errf("unterminated escape")
			}
			e := p.src[p.pos]
			p.pos++
			switch e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			default:
				b.WriteByte(e)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func (p *parser) binary() (Term, error) {
	if !strings.HasPrefix(p.src[p.pos:], "<<") {
		return nil, p.errf("unexpected '<'")
	}
	p.pos += 2
	p.skipSpace()
	if p.consume('>') {
		if p.consume('>') {
			return Binary(""), nil
		}
		return nil, p.errf("malformed binary")
	}
	if p.peek() != '"' {
		return nil, p.errf("only string binaries are supported")
	}
	s, err := p.quoted('"')
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.consume('>') || !p.consume('>') {
		return nil, p.errf("expected '>>' to close binary")
	}
	return Binary(s), nil
}

func (p *parser) number() (Term, error) {
	start := p.pos
	if p.peek() == '-' || p.peek() == '+' {
		p.pos++
	}
	digits := 0
	for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
		digits++
	}
	if digits == 0 {
		return nil, p.errf("malformed number")
	}
	isFloat := false
	if !p.eof() && p.peek() == '.' && p.pos+1 < len(p.src) &&
		p.src[p.pos+1] >= '0' && p.src[p.pos+1] <= '9' {
		// A dot followed by a digit is a fraction; a bare dot terminates
		// the term.
		isFloat = true
		p.pos++
		for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		if !p.eof() && (p.peek() == 'e' || p.peek() == 'E') {
			p.pos++
			if p.peek() == '-' || p.peek() == '+' {
				p.pos++
			}
			for !p.eof() && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
				p.pos++
			}
		}
	}
	text := p.src[start:p.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, p.errf("malformed float %q", text)
		}
		return Float(f), nil
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errf("malformed integer %q", text)
	}
	return Int(n), nil
}

func (p *parser) atom() (Term, error) {
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	if !unicode.IsLower(r) {
		return nil, p.errf("unexpected character %q", string(r))
	}
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
			(c >= '0' && c <= '9') || c == '_' || c == '@' {
			p.pos++
			continue
		}
		break
	}
	return Atom(p.src[start:p.pos]), nil
}
