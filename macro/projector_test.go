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

package macro

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/lexer"
	"github.com/EngFlow/ccfront/pp"
	"github.com/EngFlow/ccfront/token"
)

func projectText(t *testing.T, src string) string {
	t.Helper()
	toks, err := lexer.NewLexer(token.NewSource("test.c", []byte(src))).All()
	require.NoError(t, err)
	tu, err := pp.Parse(toks)
	require.NoError(t, err)
	out, _, err := Project(tu)
	require.NoError(t, err)
	lexemes := make([]string, len(out))
	for i, tok := range out {
		lexemes[i] = tok.Lexeme()
	}
	return strings.Join(lexemes, " ")
}

func TestProjectObjectMacroExpansion(t *testing.T) {
	got := projectText(t, "#define SIZE 10\nint x = SIZE;\n")
	assert.Equal(t, "int x = 10 ;", got)
}

func TestProjectFunctionLikeMacroLeftUnexpanded(t *testing.T) {
	got := projectText(t, "#define ADD(a, b) ((a) + (b))\nint x = ADD(1, 2);\n")
	assert.Contains(t, got, "ADD ( 1 , 2 )")
}

func TestProjectUndefStopsExpansion(t *testing.T) {
	got := projectText(t, "#define FOO 1\n#undef FOO\nint x = FOO;\n")
	assert.Contains(t, got, "x = FOO")
}

func TestProjectRedefineUsesLatestBinding(t *testing.T) {
	got := projectText(t, "#define FOO 1\n#define FOO 2\nint x = FOO;\n")
	assert.Contains(t, got, "x = 2")
}

func TestProjectSelfReferentialMacroDropsInnerOccurrence(t *testing.T) {
	// A macro that references itself must not recurse forever; the inner
	// occurrence is dropped, so the replacement expands minus the
	// self-reference.
	got := projectText(t, "#define FOO (FOO + 1)\nint x = FOO;\n")
	assert.Contains(t, got, "x = ( + 1 )")
}

func TestProjectMutuallyRecursiveMacrosTerminate(t *testing.T) {
	// A expands to B, B's replacement is A again: the re-entry is dropped
	// and both names vanish from the output instead of looping.
	got := projectText(t, "#define A B\n#define B A\nint x = A;\n")
	assert.Equal(t, "int x = ;", got)
}

func TestProjectIfSectionAlwaysTakesIfBranch(t *testing.T) {
	got := projectText(t, "#if 0\nint a;\n#else\nint b;\n#endif\n")
	assert.Equal(t, "int a ;", got)
}

func TestProjectIncludeEmitsNoText(t *testing.T) {
	got := projectText(t, "#include <stdio.h>\nint x;\n")
	assert.Equal(t, "int x ;", got)
}

func TestProjectWithoutMacrosIsIdentity(t *testing.T) {
	// With no macros defined, projection is exactly the flattening of the
	// text runs.
	src := "int a;\nint b = a + 1;\n"
	toks, err := lexer.NewLexer(token.NewSource("test.c", []byte(src))).All()
	require.NoError(t, err)
	tu, err := pp.Parse(toks)
	require.NoError(t, err)
	out, _, err := Project(tu)
	require.NoError(t, err)

	var want []token.Token
	for _, part := range tu.Parts {
		text, ok := part.(pp.Text)
		require.True(t, ok)
		want = append(want, text.Tokens...)
	}
	assert.Equal(t, want, out)
}

func TestProjectNestedExpansion(t *testing.T) {
	got := projectText(t, "#define A 1\n#define B (A + A)\nint x = B;\n")
	assert.Contains(t, got, "x = ( 1 + 1 )")
}
