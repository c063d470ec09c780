package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rebarcfg/rebarcfg/pkg/errors"
	"github.com/rebarcfg/rebarcfg/pkg/terms"
)

func TestFromTerms(t *testing.T) {
	tests := []struct {
		name     string
		input    []terms.Term
		expected Raw
		wantErr  bool
	}{
		{
			name:     "empty",
			input:    nil,
			expected: Raw{},
		},
		{
			name: "pairs",
			input: []terms.Term{
				terms.Tuple{terms.Atom("deps"), terms.List{}},
				terms.Tuple{terms.Atom("sub_dirs"), terms.List{terms.String("apps/*")}},
			},
			expected: Raw{
				{Key: "deps", Value: terms.List{}},
				{Key: "sub_dirs", Value: terms.List{terms.String("apps/*")}},
			},
		},
		{
			name:  "bare atom becomes flag",
			input: []terms.Term{terms.Atom("cover_enabled")},
			expected: Raw{
				{Key: "cover_enabled", Value: terms.Atom("true")},
			},
		},
		{
			name:  "wide tuple keeps trailing elements",
			input: []terms.Term{terms.Tuple{terms.Atom("override"), terms.Atom("app_a"), terms.List{}}},
			expected: Raw{
				{Key: "override", Value: terms.Atom("app_a"), Extra: []terms.Term{terms.List{}}},
			},
		},
		{
			name:    "one element tuple rejected",
			input:   []terms.Term{terms.Tuple{terms.Atom("a")}},
			wantErr: true,
		},
		{
			name:    "non-atom key rejected",
			input:   []terms.Term{terms.Tuple{terms.String("a"), terms.Int(1)}},
			wantErr: true,
		},
		{
			name:    "bare list rejected",
			input:   []terms.Term{terms.List{}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromTerms(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrConfigShape))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLookupFirstMatch(t *testing.T) {
	cfg := Raw{
		{Key: "deps", Value: terms.Atom("first")},
		{Key: "erl_opts", Value: terms.List{}},
		{Key: "deps", Value: terms.Atom("second")},
	}

	v, ok := cfg.Lookup("deps")
	require.True(t, ok)
	assert.Equal(t, terms.Term(terms.Atom("first")), v)

	_, ok = cfg.Lookup("missing")
	assert.False(t, ok)
}

func TestSet(t *testing.T) {
	t.Run("overwrites first occurrence only", func(t *testing.T) {
		cfg := Raw{
			{Key: "deps", Value: terms.Atom("first")},
			{Key: "deps", Value: terms.Atom("second")},
		}
		cfg.Set("deps", terms.Atom("new"))

		assert.Equal(t, Raw{
			{Key: "deps", Value: terms.Atom("new")},
			{Key: "deps", Value: terms.Atom("second")},
		}, cfg)
	})

	t.Run("appends missing key", func(t *testing.T) {
		cfg := Raw{{Key: "deps", Value: terms.List{}}}
		cfg.Set("sub_dirs", terms.List{terms.String("apps/*")})

		require.Len(t, cfg, 2)
		assert.Equal(t, "sub_dirs", cfg[1].Key)
	})
}

func TestGetList(t *testing.T) {
	cfg := Raw{
		{Key: "sub_dirs", Value: terms.List{terms.String("apps/*")}},
		{Key: "flag", Value: terms.Atom("true")},
	}

	assert.Equal(t, terms.List{terms.String("apps/*")}, cfg.GetList("sub_dirs"))
	assert.Equal(t, terms.List{}, cfg.GetList("missing"))
	assert.Equal(t, terms.List{}, cfg.GetList("flag"), "non-list value yields empty list")
}

func TestCloneIsIndependent(t *testing.T) {
	cfg := Raw{{Key: "deps", Value: terms.Atom("a")}}
	clone := cfg.Clone()
	clone.Set("deps", terms.Atom("b"))

	v, _ := cfg.Lookup("deps")
	assert.Equal(t, terms.Term(terms.Atom("a")), v)
}

func TestSerialize(t *testing.T) {
	cfg := Raw{
		{Key: "deps", Value: terms.List{terms.Tuple{terms.Atom("app"), terms.String(".*")}}},
		{Key: "sub_dirs", Value: terms.List{terms.String("apps/*")}},
	}

	expected := "{deps, [{app, \".*\"}]}.\n{sub_dirs, [\"apps/*\"]}.\n"
	assert.Equal(t, expected, cfg.Serialize())

	// Wide entries serialize back to their original arity.
	wide := Raw{{Key: "override", Value: terms.Atom("app_a"), Extra: []terms.Term{terms.List{}}}}
	assert.Equal(t, "{override, app_a, []}.\n", wide.Serialize())

	// Serialized output parses back to the same configuration.
	parsed, err := terms.ParseAll(cfg.Serialize())
	require.NoError(t, err)
	back, err := FromTerms(parsed)
	require.NoError(t, err)
	assert.Equal(t, cfg, back)
}
