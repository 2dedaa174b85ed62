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
	"github.com/EngFlow/ccfront/token"
)

func (p *parser) parseCompoundStmt() (*ast.CompoundStmt, error) {
	pos := p.r.peek().Pos()
	if _, err := p.expect(token.KindLBrace); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.r.check(token.KindRBrace) && !p.r.atEOF() {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(token.KindRBrace); err != nil {
		return nil, err
	}
	return &ast.CompoundStmt{Stmts: stmts, Pos_: pos}, nil
}

// parseStmt parses one statement. The declaration-vs-expression choice at
// the head of a compound-body item runs tryParseTypeRef first and falls
// back to an expression statement when no type is present.
func (p *parser) parseStmt() (ast.Stmt, error) {
	pos := p.r.peek().Pos()

	switch {
	case p.r.check(token.KindLBrace):
		return p.parseCompoundStmt()

	case p.r.match(token.KindReturn):
		if p.r.match(token.KindSemicolon) {
			return ast.ReturnStmt{Pos_: pos}, nil
		}
		value, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}
		return ast.ReturnStmt{Value: value, Pos_: pos}, nil

	case p.r.match(token.KindIf):
		return p.parseIfRest(pos)

	case p.r.match(token.KindWhile):
		return p.parseWhileRest(pos)

	case p.r.match(token.KindFor):
		return p.parseForRest(pos)

	case p.r.match(token.KindBreak):
		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}
		return ast.BreakStmt{Pos_: pos}, nil

	case p.r.match(token.KindContinue):
		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}
		return ast.ContinueStmt{Pos_: pos}, nil
	}

	if typeRef, ok := p.tryParseTypeRef(); ok {
		return p.parseLocalVarDeclRest(pos, typeRef)
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}
	return ast.ExprStmt{X: expr, Pos_: pos}, nil
}

func (p *parser) parseIfRest(pos token.Cursor) (ast.Stmt, error) {
	if _, err := p.expect(token.KindLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KindRParen); err != nil {
		return nil, err
	}
	then, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	var elseStmt ast.Stmt
	if p.r.match(token.KindElse) {
		elseStmt, err = p.parseStmt()
		if err != nil {
			return nil, err
		}
	}
	return ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Pos_: pos}, nil
}

func (p *parser) parseWhileRest(pos token.Cursor) (ast.Stmt, error) {
	if _, err := p.expect(token.KindLParen); err != nil {
		return nil, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.KindRParen); err != nil {
		return nil, err
	}
	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.WhileStmt{Cond: cond, Body: body, Pos_: pos}, nil
}

// parseForRest parses `for (init; cond?; post?) body`, where init is
// either a type-led local declaration or an expression statement.
func (p *parser) parseForRest(pos token.Cursor) (ast.Stmt, error) {
	if _, err := p.expect(token.KindLParen); err != nil {
		return nil, err
	}

	var init ast.Stmt
	if p.r.match(token.KindSemicolon) {
		// no initializer
	} else if typeRef, ok := p.tryParseTypeRef(); ok {
		declStmt, err := p.parseLocalVarDeclRest(p.r.peek().Pos(), typeRef)
		if err != nil {
			return nil, err
		}
		init = declStmt
	} else {
		exprPos := p.r.peek().Pos()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KindSemicolon); err != nil {
			return nil, err
		}
		init = ast.ExprStmt{X: expr, Pos_: exprPos}
	}

	var cond ast.Expr
	if !p.r.check(token.KindSemicolon) {
		var err error
		cond, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.KindSemicolon); err != nil {
		return nil, err
	}

	var post ast.Expr
	if !p.r.check(token.KindRParen) {
		var err error
		post, err = p.parseExpr()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(token.KindRParen); err != nil {
		return nil, err
	}

	body, err := p.parseStmt()
	if err != nil {
		return nil, err
	}
	return ast.ForStmt{Init: init, Cond: cond, Post: post, Body: body, Pos_: pos}, nil
}

// parseLocalVarDeclRest parses the `name [= assignment-expr] ;` tail of a
// local declaration once tryParseTypeRef has already consumed its leading
// type, wrapping the result in a DeclStmt for use in statement position.
func (p *parser) parseLocalVarDeclRest(pos token.Cursor, typeRef *ast.TypeRef) (ast.Stmt, error) {
	name, err := p.expectIdent()
	if err != nil {
		return nil, err
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
	decl := &ast.VarDecl{Name: name.Lexeme(), Type: typeRef, Init: init, Pos_: pos}
	return ast.DeclStmt{Decl: decl, Pos_: pos}, nil
}
