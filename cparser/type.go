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
	"github.com/EngFlow/ccfront/token"
)

// parseTypeRef parses a leading type reference, failing hard (a real parse
// error) if none is present. Callers that must disambiguate a type from an
// expression -- statement heads, for-loop initializers -- use
// tryParseTypeRef instead, which reports failure by returning ok=false with
// the reader reset rather than an error.
func (p *parser) parseTypeRef() (*ast.TypeRef, error) {
	if tr, ok := p.tryParseTypeRef(); ok {
		return tr, nil
	}
	return nil, ccerr.At(p.r.peek(), "type specifier expected, found %q", p.r.peek().Lexeme())
}

// tryParseTypeRef parses a leading type reference: an optional `struct`
// prefix, an optional `unsigned` qualifier fused into the name, a run of
// const/volatile/restrict qualifiers in any position around those, then an
// identifier that must already be in typedefNames or structTags (unless it
// follows `struct`, in which case any identifier is accepted as the tag),
// then a run of `*` tokens counted as pointer depth. On any mismatch the
// reader is left exactly where it started and ok is false -- this is the
// parser's primary backtracking point.
func (p *parser) tryParseTypeRef() (*ast.TypeRef, bool) {
	mark := p.r.mark()
	pos := p.r.peek().Pos()

	var quals []string
	p.consumeQualifiers(&quals)

	isStruct := false
	name := ""
	if p.r.match(token.KindStruct) {
		isStruct = true
		if !p.r.check(token.KindIdentifier) {
			p.r.reset(mark)
			return nil, false
		}
		name = p.r.consume().Lexeme()
	}

	unsigned := p.r.match(token.KindUnsigned)
	p.consumeQualifiers(&quals)

	if !isStruct {
		// Bare `unsigned` with no following type name is not a type
		// reference here; the identifier is required.
		if !p.r.check(token.KindIdentifier) {
			p.r.reset(mark)
			return nil, false
		}
		lexeme := p.r.peek().Lexeme()
		if !p.typedefNames.Contains(lexeme) && !p.structTags.Contains(lexeme) {
			p.r.reset(mark)
			return nil, false
		}
		p.r.consume()
		if unsigned {
			name = "unsigned " + lexeme
		} else {
			name = lexeme
		}
	}

	pointer := 0
	for p.r.match(token.KindStar) {
		pointer++
	}

	return &ast.TypeRef{Qualifiers: quals, IsStruct: isStruct, Name: name, Pointer: pointer, Pos_: pos}, true
}

// consumeQualifiers greedily consumes any number of const/volatile/restrict
// tokens, appending their lexemes to quals in source order.
func (p *parser) consumeQualifiers(quals *[]string) {
	for {
		switch p.r.peek().Kind {
		case token.KindConst, token.KindVolatile, token.KindRestrict:
			*quals = append(*quals, p.r.consume().Lexeme())
		default:
			return
		}
	}
}
