// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package pp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/lexer"
	"github.com/EngFlow/ccfront/token"
)

// fakeLookup is a minimal Lookup for testing CondExpr.Eval without pulling
// in the macro package (which would create an import cycle were this code
// to live there instead).
type fakeLookup map[string]int

func (f fakeLookup) Value(name string) (int, bool) {
	v, ok := f[name]
	return v, ok
}

func condTokens(t *testing.T, text string) []token.Token {
	t.Helper()
	toks, err := lexer.NewLexer(token.NewSource("cond", []byte(text))).All()
	require.NoError(t, err)
	// Strip the trailing EOF; condition token slices never carry one.
	return toks[:len(toks)-1]
}

func TestParseAndEvalCondExpr(t *testing.T) {
	testCases := []struct {
		name     string
		cond     string
		lookup   fakeLookup
		expected int
	}{
		{"integer constant", "1", nil, 1},
		{"defined true", "defined(FOO)", fakeLookup{"FOO": 1}, 1},
		{"defined false", "defined(FOO)", fakeLookup{}, 0},
		{"identifier value", "FOO", fakeLookup{"FOO": 5}, 5},
		{"undefined identifier is 0", "FOO", fakeLookup{}, 0},
		{"negation", "!0", nil, 1},
		{"conjunction short circuits", "0 && FOO", fakeLookup{}, 0},
		{"disjunction short circuits", "1 || FOO", fakeLookup{}, 1},
		{"equality", "FOO == 2", fakeLookup{"FOO": 2}, 1},
		{"relational", "FOO < 2", fakeLookup{"FOO": 1}, 1},
		{"parenthesized", "(1 || 0) && 1", nil, 1},
		{"precedence: && binds tighter than ||", "1 || 0 && 0", nil, 1},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			expr, err := ParseCondExpr(condTokens(t, tc.cond))
			require.NoError(t, err)
			lookup := tc.lookup
			if lookup == nil {
				lookup = fakeLookup{}
			}
			v, err := expr.Eval(lookup)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}
}

func TestParseCondExprTrailingTokenIsError(t *testing.T) {
	_, err := ParseCondExpr(condTokens(t, "1 1"))
	assert.Error(t, err)
}

func TestCondExprString(t *testing.T) {
	expr, err := ParseCondExpr(condTokens(t, "defined(FOO) && BAR == 1"))
	require.NoError(t, err)
	assert.Equal(t, "defined(FOO) && BAR == 1", expr.String())
}
