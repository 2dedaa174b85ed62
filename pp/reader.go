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

import "github.com/EngFlow/ccfront/token"

// reader is a small lookahead cursor over an already-lexed token slice.
// Line starts are detected from each token's leading trivia rather than a
// sentinel end-of-line token.
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

func (r *reader) atEOF() bool { return r.toks[r.pos].Kind == token.KindEOF }

// peek returns the current (not yet consumed) token.
func (r *reader) peek() token.Token { return r.toks[r.pos] }

// peekAt returns the token n positions ahead of the current one, clamped
// to the trailing EOF token.
func (r *reader) peekAt(n int) token.Token {
	i := r.pos + n
	if i >= len(r.toks) {
		i = len(r.toks) - 1
	}
	return r.toks[i]
}

// next consumes and returns the current token. Calling next() at EOF
// keeps returning the EOF token without panicking, matching the lexer's
// own end-of-stream behavior.
func (r *reader) next() token.Token {
	t := r.toks[r.pos]
	if r.pos < len(r.toks)-1 {
		r.pos++
	}
	return t
}
