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
	"github.com/EngFlow/ccfront/ast"
	"github.com/EngFlow/ccfront/ccerr"
	"github.com/EngFlow/ccfront/internal/collections"
	"github.com/EngFlow/ccfront/token"
)

// builtinTypeNames seeds the typedef-name table with the C base type names
// plus the fixed-width aliases a translation unit conventionally gets from
// <stdint.h> and the Khronos headers, since this front end never resolves
// headers itself.
var builtinTypeNames = []string{
	"void", "char", "short", "int", "long", "float", "double", "signed",
	"size_t", "ssize_t", "ptrdiff_t", "wchar_t",
	"int8_t", "int16_t", "int32_t", "int64_t",
	"uint8_t", "uint16_t", "uint32_t", "uint64_t",
	"intptr_t", "uintptr_t", "bool",
	"khronos_int8_t", "khronos_uint8_t", "khronos_int16_t", "khronos_uint16_t",
	"khronos_int32_t", "khronos_uint32_t", "khronos_int64_t", "khronos_uint64_t",
	"khronos_intptr_t", "khronos_uintptr_t", "khronos_ssize_t", "khronos_usize_t",
	"khronos_float_t",
}

type parser struct {
	r            *reader
	typedefNames collections.Set[string]
	structTags   collections.Set[string]
}

// Parse parses a fully lexed and macro-expanded token stream (as produced
// by lexer.Lexer and macro.Project) into a declaration-level C AST.
func Parse(tokens []token.Token) (*ast.TranslationUnit, error) {
	p := &parser{
		r:            newReader(tokens),
		typedefNames: collections.SetOf(builtinTypeNames...),
		structTags:   collections.Set[string]{},
	}
	tu := &ast.TranslationUnit{Pos_: p.r.peek().Pos()}
	for !p.r.atEOF() {
		decl, err := p.parseExternalDeclaration()
		if err != nil {
			return nil, err
		}
		if decl != nil {
			tu.Decls = append(tu.Decls, decl)
		}
	}
	return tu, nil
}

func (p *parser) expect(k token.Kind) (token.Token, error) {
	if !p.r.check(k) {
		return token.Token{}, ccerr.At(p.r.peek(), "expected %s, found %q", k, p.r.peek().Lexeme())
	}
	return p.r.consume(), nil
}

func (p *parser) expectIdent() (token.Token, error) {
	if !p.r.check(token.KindIdentifier) {
		return token.Token{}, ccerr.At(p.r.peek(), "expected identifier, found %q", p.r.peek().Lexeme())
	}
	return p.r.consume(), nil
}

// parseExternalDeclaration dispatches one top-level declaration: extern
// "C" wrappers, __attribute__ annotations, typedef, struct declarations,
// and the function-definition-vs-global-variable backtracking choice.
func (p *parser) parseExternalDeclaration() (ast.Decl, error) {
	pos := p.r.peek().Pos()

	if p.r.check(token.KindExtern) && p.r.la(1).Kind == token.KindStringLiteral {
		p.r.consume() // extern
		p.r.consume() // "C" / "C++"
		if p.r.match(token.KindLBrace) {
			var decls []ast.Decl
			for !p.r.check(token.KindRBrace) && !p.r.atEOF() {
				decl, err := p.parseExternalDeclaration()
				if err != nil {
					return nil, err
				}
				if decl != nil {
					decls = append(decls, decl)
				}
			}
			if _, err := p.expect(token.KindRBrace); err != nil {
				return nil, err
			}
			// A linkage-specification block carries no semantics of its
			// own; its contents are returned as a nested unit rather than
			// a dedicated wrapper node.
			return &ast.TranslationUnit{Decls: decls, Pos_: pos}, nil
		}
		return p.parseExternalDeclaration()
	}

	attr := p.parseAttributeOpt()

	isExtern := p.r.match(token.KindExtern)

	if p.r.match(token.KindTypedef) {
		return p.parseTypedef(pos)
	}

	if p.r.check(token.KindStruct) {
		if decl, ok, err := p.tryParseStructDecl(pos, attr, isExtern); ok || err != nil {
			return decl, err
		}
	}

	return p.parseFuncOrVarDecl(pos, attr, isExtern)
}

// parseAttributeOpt recognizes `__attribute__((dllimport))` and
// `__attribute__((dllexport))`; any other attribute argument is accepted
// and discarded, since only import/export linkage is distinguished.
func (p *parser) parseAttributeOpt() ast.Attribute {
	if !p.r.match(token.KindAttribute) {
		return ast.AttrNone
	}
	attr := ast.AttrNone
	depth := 0
	for !p.r.atEOF() {
		tok := p.r.consume()
		switch tok.Kind {
		case token.KindLParen:
			depth++
		case token.KindRParen:
			depth--
			if depth == 0 {
				return attr
			}
		case token.KindIdentifier:
			switch tok.Lexeme() {
			case "dllimport":
				attr = ast.AttrImport
			case "dllexport":
				attr = ast.AttrExport
			}
		}
	}
	return attr
}

func (p *parser) parseTypedef(pos token.Cursor) (ast.Decl, error) {
	base, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}
	if decl, ok, err := p.tryParseFuncPtrTypedef(pos, base); ok || err != nil {
		return decl, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}
	p.typedefNames.Add(name.Lexeme())
	return &ast.TypedefDecl{Name: name.Lexeme(), Type: base, Pos_: pos}, nil
}

// tryParseFuncPtrTypedef recognizes the `typedef RetType (*Name)(Params);`
// shape. On any mismatch the reader is reset and the caller falls back to
// the plain `typedef Type Name;` form.
func (p *parser) tryParseFuncPtrTypedef(pos token.Cursor, ret *ast.TypeRef) (ast.Decl, bool, error) {
	mark := p.r.mark()
	if !p.r.match(token.KindLParen) || !p.r.match(token.KindStar) || !p.r.check(token.KindIdentifier) {
		p.r.reset(mark)
		return nil, false, nil
	}
	name := p.r.consume()
	if !p.r.match(token.KindRParen) || !p.r.check(token.KindLParen) {
		p.r.reset(mark)
		return nil, false, nil
	}
	p.r.consume() // '('
	params, variadic, err := p.parseParamList()
	if err != nil {
		return nil, true, err
	}
	if _, err := p.expect(token.KindRParen); err != nil {
		return nil, true, err
	}
	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, true, err
	}
	paramTypes := make([]*ast.TypeRef, len(params))
	for i, param := range params {
		paramTypes[i] = param.Type
	}
	typeRef := &ast.TypeRef{
		Pointer: 1,
		FuncPtr: &ast.FuncPtrTypeRef{Return: ret, Parameters: paramTypes, Variadic: variadic},
		Pos_:    pos,
	}
	p.typedefNames.Add(name.Lexeme())
	return &ast.TypedefDecl{Name: name.Lexeme(), Type: typeRef, Pos_: pos}, true, nil
}

// tryParseStructDecl handles `struct Tag;` and `struct Tag { fields... }
// [Name2];`. It returns ok=false (with the reader unmoved) when the
// `struct` keyword instead introduces a variable/field type (e.g. `struct
// Foo x;`), so the caller falls through to parseFuncOrVarDecl.
func (p *parser) tryParseStructDecl(pos token.Cursor, attr ast.Attribute, isExtern bool) (ast.Decl, bool, error) {
	mark := p.r.mark()
	p.r.consume() // struct
	if !p.r.check(token.KindIdentifier) {
		p.r.reset(mark)
		return nil, false, nil
	}
	tag := p.r.consume().Lexeme()

	if p.r.match(token.KindSemicolon) {
		p.structTags.Add(tag)
		return &ast.StructDecl{Tag: tag, Attribute: attr, Extern: isExtern, Pos_: pos}, true, nil
	}

	if !p.r.check(token.KindLBrace) {
		p.r.reset(mark)
		return nil, false, nil
	}
	p.r.consume() // '{'
	// Registered before the fields parse so a field may refer to the tag
	// (e.g. a self-referential pointer).
	p.structTags.Add(tag)

	var fields []ast.StructField
	for !p.r.check(token.KindRBrace) && !p.r.atEOF() {
		fieldType, err := p.parseTypeRef()
		if err != nil {
			return nil, true, err
		}
		fieldName, err := p.expectIdent()
		if err != nil {
			return nil, true, err
		}
		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, true, err
		}
		fields = append(fields, ast.StructField{Name: fieldName.Lexeme(), Type: fieldType})
	}
	if _, err := p.expect(token.KindRBrace); err != nil {
		return nil, true, err
	}
	name2 := ""
	if p.r.check(token.KindIdentifier) {
		name2 = p.r.consume().Lexeme()
	}
	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, true, err
	}
	if fields == nil {
		fields = []ast.StructField{}
	}
	return &ast.StructDecl{Tag: tag, Name2: name2, Fields: fields, Attribute: attr, Extern: isExtern, Pos_: pos}, true, nil
}

// parseFuncOrVarDecl disambiguates a function definition/prototype from a
// global variable declaration: parse a type and a name, then look at what
// follows. A '(' there means a function; anything else means a variable.
// That one-token lookahead is the whole decision: no function parse is
// attempted and then rewound.
func (p *parser) parseFuncOrVarDecl(pos token.Cursor, attr ast.Attribute, isExtern bool) (ast.Decl, error) {
	base, err := p.parseTypeRef()
	if err != nil {
		return nil, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
	}

	if p.r.check(token.KindLParen) {
		return p.parseFuncDecl(pos, base, name, attr, isExtern)
	}

	var init ast.Expr
	if p.r.match(token.KindAssign) {
		init, err = p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}
	return &ast.VarDecl{
		Name: name.Lexeme(), Type: base, Init: init,
		Attribute: attr, Extern: isExtern, Pos_: pos,
	}, nil
}

func (p *parser) parseFuncDecl(pos token.Cursor, ret *ast.TypeRef, name token.Token, attr ast.Attribute, isExtern bool) (ast.Decl, error) {
	if _, err := p.expect(token.KindLParen); err != nil {
		return nil, err
	}
	params, variadic, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KindRParen); err != nil {
		return nil, err
	}

	decl := &ast.FuncDecl{
		Name: name.Lexeme(), ReturnType: ret, Params: params, Variadic: variadic,
		Attribute: attr, Extern: isExtern, Pos_: pos,
	}

	if p.r.match(token.KindSemicolon) {
		return decl, nil
	}
	body, err := p.parseCompoundStmt()
	if err != nil {
		return nil, err
	}
	decl.Body = body
	return decl, nil
}

func (p *parser) parseParamList() ([]ast.Param, bool, error) {
	var params []ast.Param
	if p.r.check(token.KindRParen) {
		return nil, false, nil
	}
	// `(void)` is a zero-parameter list, not a single `void` parameter.
	if p.r.peek().Kind == token.KindIdentifier && p.r.peek().Lexeme() == "void" && p.r.la(1).Kind == token.KindRParen {
		p.r.consume()
		return nil, false, nil
	}
	for {
		if p.isEllipsisAt() {
			p.r.consume()
			p.r.consume()
			p.r.consume()
			return params, true, nil
		}
		typeRef, err := p.parseTypeRef()
		if err != nil {
			return nil, false, err
		}
		paramName := ""
		if p.r.check(token.KindIdentifier) {
			paramName = p.r.consume().Lexeme()
		}
		params = append(params, ast.Param{Name: paramName, Type: typeRef})
		if p.r.match(token.KindComma) {
			continue
		}
		return params, false, nil
	}
}

func (p *parser) isEllipsisAt() bool {
	a, b, c := p.r.la(0), p.r.la(1), p.r.la(2)
	return a.Kind == token.KindDot && b.Kind == token.KindDot && c.Kind == token.KindDot &&
		token.Adjacent(a, b) && token.Adjacent(b, c)
}
