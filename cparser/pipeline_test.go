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

package cparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EngFlow/ccfront/ast"
	"github.com/EngFlow/ccfront/lexer"
	"github.com/EngFlow/ccfront/macro"
	"github.com/EngFlow/ccfront/pp"
	"github.com/EngFlow/ccfront/token"
)

// compileSource runs the full lexer -> pp -> macro -> cparser pipeline,
// the same composition cmd/ccfront performs per input file.
func compileSource(t *testing.T, text string) *ast.TranslationUnit {
	t.Helper()
	toks, err := lexer.NewLexer(token.NewSource("test.c", []byte(text))).All()
	require.NoError(t, err)
	ppTU, err := pp.Parse(toks)
	require.NoError(t, err)
	projected, _, err := macro.Project(ppTU)
	require.NoError(t, err)
	tu, err := Parse(projected)
	require.NoError(t, err)
	return tu
}

func TestPipelineArithmeticProgram(t *testing.T) {
	tu := compileSource(t, "int add(int a,int b){return a+b;} int main(int argc){return add(3,4);}")
	require.Len(t, tu.Decls, 2)

	mainDecl := tu.Decls[1].(*ast.FuncDecl)
	ret := mainDecl.Body.Stmts[0].(ast.ReturnStmt)
	call := ret.Value.(ast.Call)
	assert.Equal(t, "add", call.Callee.(ast.Ident).Name)
	require.Len(t, call.Args, 2)
	assert.Equal(t, int64(3), call.Args[0].(ast.IntLit).Value)
	assert.Equal(t, int64(4), call.Args[1].(ast.IntLit).Value)
}

func TestPipelineForWithBreakContinue(t *testing.T) {
	tu := compileSource(t, "int main(int argc){for(int i=0;i<10;i++){ if(i==3) continue; if(i==7) break; } return 0;}")
	mainDecl := tu.Decls[0].(*ast.FuncDecl)
	forStmt := mainDecl.Body.Stmts[0].(ast.ForStmt)

	initDecl := forStmt.Init.(ast.DeclStmt)
	assert.Equal(t, "i", initDecl.Decl.Name)
	assert.Equal(t, int64(0), initDecl.Decl.Init.(ast.IntLit).Value)
	assert.Equal(t, "(i < 10)", forStmt.Cond.String())
	assert.Equal(t, "(i++)", forStmt.Post.String())

	body := forStmt.Body.(*ast.CompoundStmt)
	require.Len(t, body.Stmts, 2)
	first := body.Stmts[0].(ast.IfStmt)
	assert.IsType(t, ast.ContinueStmt{}, first.Then)
	second := body.Stmts[1].(ast.IfStmt)
	assert.IsType(t, ast.BreakStmt{}, second.Then)
}

func TestPipelineTypedefDisambiguation(t *testing.T) {
	tu := compileSource(t, "typedef int my_int; my_int x = 5; int main(int argc){ my_int y = x + 1; return y; }")
	require.Len(t, tu.Decls, 3)

	globalVar := tu.Decls[1].(*ast.VarDecl)
	assert.Equal(t, "x", globalVar.Name)
	assert.Equal(t, "my_int", globalVar.Type.Name)

	mainDecl := tu.Decls[2].(*ast.FuncDecl)
	localDecl := mainDecl.Body.Stmts[0].(ast.DeclStmt)
	assert.Equal(t, "y", localDecl.Decl.Name)
	assert.Equal(t, "my_int", localDecl.Decl.Type.Name)
}

func TestPipelineObjectMacroExpandedFunctionMacroNot(t *testing.T) {
	tu := compileSource(t, "#define A 1\n#define B(x) x\nint f(int a){ return A; }\n")
	require.Len(t, tu.Decls, 1)

	f := tu.Decls[0].(*ast.FuncDecl)
	ret := f.Body.Stmts[0].(ast.ReturnStmt)
	lit, ok := ret.Value.(ast.IntLit)
	require.True(t, ok, "A should project to its replacement literal")
	assert.Equal(t, int64(1), lit.Value)
}

func TestPipelineOpaqueStructPointerTypedef(t *testing.T) {
	tu := compileSource(t, "struct GLFWwindow; typedef struct GLFWwindow* GLFWwindowPtr;")
	require.Len(t, tu.Decls, 2)

	forward := tu.Decls[0].(*ast.StructDecl)
	assert.Equal(t, "GLFWwindow", forward.Tag)
	assert.Nil(t, forward.Fields)

	typedefDecl := tu.Decls[1].(*ast.TypedefDecl)
	assert.Equal(t, "GLFWwindowPtr", typedefDecl.Name)
	assert.True(t, typedefDecl.Type.IsStruct)
	assert.Equal(t, "GLFWwindow", typedefDecl.Type.Name)
	assert.Equal(t, 1, typedefDecl.Type.Pointer)
}
