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

// Package cparser parses a macro-expanded, flat token stream into a
// declaration-level C AST (package ast): external declarations, statements,
// and expressions. It resolves type-vs-expression ambiguities by bounded
// backtracking (mark/reset) over a live table of known type names, and
// function-definition-vs-global-variable by looking for '(' after the
// declarator name.
package cparser

import "github.com/EngFlow/ccfront/token"

// reader is a buffered cursor over a token slice supporting unlimited
// lookahead and mark/reset backtracking. Because the whole token slice
// already lives in memory (the lexer has already run to completion),
// mark/reset is simply saving and restoring an index.
type reader struct {
	toks []token.Token
	pos  int
}

func newReader(toks []token.Token) *reader {
	if len(toks) == 0 || toks[len(toks)-1].Kind != token.KindEOF {
		toks = append(toks, token.Token{Kind: token.KindEOF})
	}
	return &reader{toks: toks}
}

// la returns the token n positions ahead of the current one ("look ahead"),
// clamped to the trailing EOF.
func (r *reader) la(n int) token.Token {
	i := r.pos + n
	if i >= len(r.toks) {
		i = len(r.toks) - 1
	}
	return r.toks[i]
}

func (r *reader) peek() token.Token { return r.la(0) }

func (r *reader) atEOF() bool { return r.peek().Kind == token.KindEOF }

// consume returns the current token and advances, without advancing past
// the trailing EOF.
func (r *reader) consume() token.Token {
	t := r.peek()
	if r.pos < len(r.toks)-1 {
		r.pos++
	}
	return t
}

func (r *reader) check(k token.Kind) bool { return r.peek().Kind == k }

// match consumes and returns true if the current token has kind k;
// otherwise it leaves the reader unmoved and returns false.
func (r *reader) match(k token.Kind) bool {
	if r.check(k) {
		r.consume()
		return true
	}
	return false
}

// mark returns a checkpoint that reset can rewind the reader to. Rewinds
// happen only at designated disambiguation sites (type-vs-expression
// heads, struct declaration vs struct-typed variable, function-pointer
// typedefs) and never cross a statement boundary.
func (r *reader) mark() int { return r.pos }

func (r *reader) reset(mark int) { r.pos = mark }
