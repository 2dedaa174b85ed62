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

package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/EngFlow/ccfront/token"
)

func lexAll(t *testing.T, text string) []token.Token {
	t.Helper()
	src := token.NewSource("test.c", []byte(text))
	toks, err := NewLexer(src).All()
	assert.NoError(t, err)
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestLexerKinds(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []token.Kind
	}{
		{
			name:     "empty input is just EOF",
			input:    "",
			expected: []token.Kind{token.KindEOF},
		},
		{
			name:     "identifier and keyword",
			input:    "foo return",
			expected: []token.Kind{token.KindIdentifier, token.KindReturn, token.KindEOF},
		},
		{
			name:     "int and float literals",
			input:    "42 3.14 .5 1e10 2.0f",
			expected: []token.Kind{token.KindIntLiteral, token.KindFloatLiteral, token.KindFloatLiteral, token.KindFloatLiteral, token.KindFloatLiteral, token.KindEOF},
		},
		{
			name:     "lone dot is its own token",
			input:    "a.b",
			expected: []token.Kind{token.KindIdentifier, token.KindDot, token.KindIdentifier, token.KindEOF},
		},
		{
			name:     "ellipsis is three dots",
			input:    "...",
			expected: []token.Kind{token.KindDot, token.KindDot, token.KindDot, token.KindEOF},
		},
		{
			name:     "string literal",
			input:    `"hello\n"`,
			expected: []token.Kind{token.KindStringLiteral, token.KindEOF},
		},
		{
			name:  "multi-char punctuation preferred over single-char",
			input: "a == b != c <= d >= e && f || g++ h--",
			expected: []token.Kind{
				token.KindIdentifier, token.KindEqual,
				token.KindIdentifier, token.KindNotEqual,
				token.KindIdentifier, token.KindLessEqual,
				token.KindIdentifier, token.KindGreaterEqual,
				token.KindIdentifier, token.KindLogicalAnd,
				token.KindIdentifier, token.KindLogicalOr,
				token.KindIdentifier, token.KindIncrement,
				token.KindIdentifier, token.KindDecrement,
				token.KindEOF,
			},
		},
		{
			name:  "directive hash only recognized at beginning of line",
			input: "#define\nint x;",
			expected: []token.Kind{
				token.KindDirectiveHash, token.KindIdentifier,
				token.KindIdentifier, token.KindIdentifier, token.KindSemicolon,
				token.KindEOF,
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks := lexAll(t, tc.input)
			assert.Equal(t, tc.expected, kinds(toks))
		})
	}
}

func TestTokenAtLineStart(t *testing.T) {
	toks := lexAll(t, "int x;\nint y;")
	// toks: int(0) x(1) ;(2) int(3) y(4) ;(5) EOF(6)
	assert.False(t, toks[1].AtLineStart())
	assert.True(t, toks[3].AtLineStart())
}

func TestLexerLexemeReconstruction(t *testing.T) {
	text := "int   x = 42; // comment\n"
	src := token.NewSource("test.c", []byte(text))
	toks, err := NewLexer(src).All()
	assert.NoError(t, err)

	var rebuilt string
	for _, tok := range toks {
		for _, tr := range tok.LeadingTrivia {
			rebuilt += src.Slice(tr.Start, tr.Length)
		}
		rebuilt += tok.Lexeme()
	}
	assert.Equal(t, text, rebuilt)
}

func TestLexerUnterminatedStringIsFatal(t *testing.T) {
	src := token.NewSource("test.c", []byte(`"unterminated`))
	_, err := NewLexer(src).All()
	assert.Error(t, err)
}

func TestLexerUnterminatedBlockCommentIsFatal(t *testing.T) {
	src := token.NewSource("test.c", []byte("/* never closed"))
	_, err := NewLexer(src).All()
	assert.Error(t, err)
}

func TestLexerUnexpectedCharacterIsFatal(t *testing.T) {
	src := token.NewSource("test.c", []byte("@"))
	_, err := NewLexer(src).All()
	assert.Error(t, err)
}

func TestLexerTokensDoNotOverlap(t *testing.T) {
	toks := lexAll(t, "int foo(int a, int b) { return a + b; }")
	for i := 1; i < len(toks); i++ {
		prev, cur := toks[i-1], toks[i]
		assert.LessOrEqual(t, prev.End(), cur.Start, "token %d overlaps token %d", i-1, i)
	}
}
