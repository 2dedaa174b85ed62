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
	"strconv"
	"strings"

	"github.com/EngFlow/ccfront/ast"
	"github.com/EngFlow/ccfront/ccerr"
	"github.com/EngFlow/ccfront/token"
)

// bindingPower orders the infix operators from loosest (||) to tightest
// (* /); the binaryOps table below maps each operator token to its power.
type bindingPower int

const (
	bpLowest bindingPower = iota
	bpOr
	bpAnd
	bpEquality
	bpRelational
	bpAdditive
	bpMultiplicative
)

type binaryOp struct {
	text string
	bp   bindingPower
}

var binaryOps = map[token.Kind]binaryOp{
	token.KindLogicalOr:    {"||", bpOr},
	token.KindLogicalAnd:   {"&&", bpAnd},
	token.KindEqual:        {"==", bpEquality},
	token.KindNotEqual:     {"!=", bpEquality},
	token.KindLess:         {"<", bpRelational},
	token.KindGreater:      {">", bpRelational},
	token.KindLessEqual:    {"<=", bpRelational},
	token.KindGreaterEqual: {">=", bpRelational},
	token.KindPlus:         {"+", bpAdditive},
	token.KindMinus:        {"-", bpAdditive},
	token.KindStar:         {"*", bpMultiplicative},
	token.KindSlash:        {"/", bpMultiplicative},
}

// parseExpr is the general expression entry point used by statement
// contexts (return/if/while/for); there is no comma operator, so it is
// simply an alias of the assignment-expression production.
func (p *parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignExpr()
}

// parseAssignExpr parses the `=` production: right associative, binding
// looser than every infix operator.
func (p *parser) parseAssignExpr() (ast.Expr, error) {
	left, err := p.parseBinaryExpr(bpLowest)
	if err != nil {
		return nil, err
	}
	if p.r.check(token.KindAssign) {
		pos := p.r.consume().Pos()
		value, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		return ast.Assign{Target: left, Value: value, Pos_: pos}, nil
	}
	return left, nil
}

// parseBinaryExpr is standard precedence-climbing: it only consumes an
// infix operator whose binding power is at least min, and recurses with
// bp+1 on the right operand so equal-precedence operators associate left
// to right.
func (p *parser) parseBinaryExpr(min bindingPower) (ast.Expr, error) {
	left, err := p.parseUnaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := binaryOps[p.r.peek().Kind]
		if !ok || op.bp < min {
			return left, nil
		}
		opTok := p.r.consume()
		right, err := p.parseBinaryExpr(op.bp + 1)
		if err != nil {
			return nil, err
		}
		left = ast.Binary{Op: op.text, L: left, R: right, Pos_: opTok.Pos()}
	}
}

var unaryPrefixKinds = map[token.Kind]bool{
	token.KindIncrement: true,
	token.KindDecrement: true,
	token.KindPlus:      true,
	token.KindMinus:     true,
	token.KindBang:      true,
	token.KindAmp:       true,
	token.KindStar:      true,
}

// parseUnaryExpr handles the prefix operators `++ -- + - ! & *`; a unary
// operator is always the tight right operand of any infix operator, which
// this recursive-descent structure gives for free since parseBinaryExpr
// bottoms out here.
func (p *parser) parseUnaryExpr() (ast.Expr, error) {
	tok := p.r.peek()
	if unaryPrefixKinds[tok.Kind] {
		p.r.consume()
		x, err := p.parseUnaryExpr()
		if err != nil {
			return nil, err
		}
		return ast.Unary{Op: tok.Lexeme(), X: x, Pos_: tok.Pos()}, nil
	}
	return p.parsePostfixExpr()
}

// parsePostfixExpr handles call expressions and postfix `++`/`--`.
func (p *parser) parsePostfixExpr() (ast.Expr, error) {
	expr, err := p.parsePrimaryExpr()
	if err != nil {
		return nil, err
	}
	for {
		switch p.r.peek().Kind {
		case token.KindLParen:
			pos := p.r.consume().Pos()
			args, err := p.parseArgList()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(token.KindRParen); err != nil {
				return nil, err
			}
			expr = ast.Call{Callee: expr, Args: args, Pos_: pos}

		case token.KindIncrement, token.KindDecrement:
			tok := p.r.consume()
			expr = ast.Unary{Op: tok.Lexeme(), X: expr, Postfix: true, Pos_: tok.Pos()}

		default:
			return expr, nil
		}
	}
}

func (p *parser) parseArgList() ([]ast.Expr, error) {
	var args []ast.Expr
	if p.r.check(token.KindRParen) {
		return args, nil
	}
	for {
		arg, err := p.parseAssignExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.r.match(token.KindComma) {
			continue
		}
		return args, nil
	}
}

// parsePrimaryExpr handles integer/float/string literals, NULL,
// identifiers, and parenthesized sub-expressions.
func (p *parser) parsePrimaryExpr() (ast.Expr, error) {
	tok := p.r.peek()
	switch tok.Kind {
	case token.KindIntLiteral:
		p.r.consume()
		v, err := strconv.ParseInt(tok.Lexeme(), 0, 64)
		if err != nil {
			return nil, ccerr.At(tok, "malformed integer literal %q", tok.Lexeme())
		}
		return ast.IntLit{Value: v, Pos_: tok.Pos()}, nil

	case token.KindFloatLiteral:
		p.r.consume()
		lex := strings.TrimSuffix(strings.TrimSuffix(tok.Lexeme(), "f"), "F")
		v, err := strconv.ParseFloat(lex, 64)
		if err != nil {
			return nil, ccerr.At(tok, "malformed float literal %q", tok.Lexeme())
		}
		return ast.FloatLit{Value: v, Pos_: tok.Pos()}, nil

	case token.KindStringLiteral:
		p.r.consume()
		lex := tok.Lexeme()
		if len(lex) >= 2 {
			lex = lex[1 : len(lex)-1]
		}
		return ast.StringLit{Value: lex, Pos_: tok.Pos()}, nil

	case token.KindNull:
		p.r.consume()
		return ast.NullLit{Pos_: tok.Pos()}, nil

	case token.KindIdentifier:
		p.r.consume()
		return ast.Ident{Name: tok.Lexeme(), Pos_: tok.Pos()}, nil

	case token.KindLParen:
		p.r.consume()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.KindRParen); err != nil {
			return nil, err
		}
		return expr, nil

	default:
		return nil, ccerr.At(tok, "expected expression, found %q", tok.Lexeme())
	}
}
