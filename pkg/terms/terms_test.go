package terms

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAll(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Term
	}{
		{
			name:     "empty input",
			input:    "",
			expected: nil,
		},
		{
			name:     "comment only",
			input:    "% nothing here\n",
			expected: nil,
		},
		{
			name:  "single pair",
			input: `{deps, []}.`,
			expected: []Term{
				Tuple{Atom("deps"), List{}},
			},
		},
		{
			name: "dependency list",
			input: `{deps, [
				app1,
				{app2, "1.0.*"},
				{app3, ".*", {git, "https://example.com/app3.git", {tag, "v0.1"}}}
			]}.`,
			expected: []Term{
				Tuple{Atom("deps"), List{
					Atom("app1"),
					Tuple{Atom("app2"), String("1.0.*")},
					Tuple{Atom("app3"), String(".*"), Tuple{
						Atom("git"),
						String("https://example.com/app3.git"),
						Tuple{Atom("tag"), String("v0.1")},
					}},
				}},
			},
		},
		{
			name:  "multiple terms",
			input: "{sub_dirs, [\"apps/*\"]}.\n{erl_opts, [debug_info]}.\n",
			expected: []Term{
				Tuple{Atom("sub_dirs"), List{String("apps/*")}},
				Tuple{Atom("erl_opts"), List{Atom("debug_info")}},
			},
		},
		{
			name:  "quoted atom and binary",
			input: `{'my-app', <<"https://example.com">>}.`,
			expected: []Term{
				Tuple{Atom("my-app"), Binary("https://example.com")},
			},
		},
		{
			name:  "numbers",
			input: `{timeouts, [30, -1, 2.5]}.`,
			expected: []Term{
				Tuple{Atom("timeouts"), List{Int(30), Int(-1), Float(2.5)}},
			},
		},
		{
			name:  "trailing comment after term",
			input: "{minimum_otp_vsn, \"21\"}. % keep in sync with CI",
			expected: []Term{
				Tuple{Atom("minimum_otp_vsn"), String("21")},
			},
		},
		{
			name:  "string escapes",
			input: `{greeting, "a\"b\\c\nd"}.`,
			expected: []Term{
				Tuple{Atom("greeting"), String("a\"b\\c\nd")},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAll(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseAllErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing dot", `{deps, []}`},
		{"unbalanced tuple", `{deps, [}.`},
		{"unterminated string", `{a, "oops}.`},
		{"variable not supported", `{a, Config}.`},
		{"unterminated binary", `{a, <<"x"}.`},
		{"bare garbage", `???`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAll(tt.input)
			require.Error(t, err)
			var syntaxErr *SyntaxError
			assert.ErrorAs(t, err, &syntaxErr)
		})
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := ParseAll("{a, b}.\n{c, ]}.\n")
	require.Error(t, err)
	var syntaxErr *SyntaxError
	require.ErrorAs(t, err, &syntaxErr)
	assert.Equal(t, 2, syntaxErr.Line)
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		term     Term
		expected string
	}{
		{"plain atom", Atom("deps"), "deps"},
		{"quoted atom", Atom("my-app"), "'my-app'"},
		{"empty atom", Atom(""), "''"},
		{"string", String("1.0.*"), `"1.0.*"`},
		{"string with quote", String(`a"b`), `"a\"b"`},
		{"binary", Binary("url"), `<<"url">>`},
		{"int", Int(-7), "-7"},
		{"float", Float(2.5), "2.5"},
		{
			"nested",
			Tuple{Atom("deps"), List{Tuple{Atom("app"), String(".*")}}},
			`{deps, [{app, ".*"}]}`,
		},
		{"empty list", List{}, "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.term))
		})
	}
}

func TestFormatParseRoundTrip(t *testing.T) {
	original := Tuple{
		Atom("deps"),
		List{
			Atom("app1"),
			Tuple{Atom("app2"), String("1.0.*"), Tuple{
				Atom("git"), Binary("https://example.com/app2.git"),
				Tuple{Atom("branch"), String("main")},
			}},
		},
	}

	parsed, err := Parse(Format(original))
	require.NoError(t, err)
	assert.Equal(t, Term(original), parsed)
}

func TestStringify(t *testing.T) {
	tests := []struct {
		name     string
		term     Term
		expected string
	}{
		{"atom", Atom("git"), "git"},
		{"string", String("https://example.com"), "https://example.com"},
		{"binary", Binary("v1.2"), "v1.2"},
		{"int", Int(42), "42"},
		{"tuple falls back to syntax", Tuple{Atom("a"), Int(1)}, "{a, 1}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Stringify(tt.term))
		})
	}
}
