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

// Package lexer provides a trivia-preserving, byte-oriented scanner for the
// C-like source language. It breaks the input into a sequence of tokens
// carrying leading whitespace/comment trivia and a beginning-of-line flag,
// so that later layers can recognize `#`-directives and reconstruct the
// original source byte-for-byte from token lexemes plus trivia.
package lexer

import (
	"regexp"

	"github.com/EngFlow/ccfront/ccerr"
	"github.com/EngFlow/ccfront/token"
)

var (
	reIdentifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*`)
	reDigits     = regexp.MustCompile(`^[0-9]+`)
)

// Lexer scans one Source into a flat token stream. It is single-use and
// single-threaded: Next() advances monotonically and must not be
// called concurrently.
type Lexer struct {
	src   *token.Source
	data  []byte
	pos   int
	atBOL bool
}

// NewLexer constructs a Lexer over src, ready to emit the first token.
func NewLexer(src *token.Source) *Lexer {
	return &Lexer{src: src, data: src.Text, pos: 0, atBOL: true}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.data) }

func (l *Lexer) byteAt(i int) byte {
	if i < 0 || i >= len(l.data) {
		return 0
	}
	return l.data[i]
}

func (l *Lexer) hasPrefixAt(i int, s string) bool {
	end := i + len(s)
	if end > len(l.data) {
		return false
	}
	return string(l.data[i:end]) == s
}

// collectTrivia consumes whitespace, newlines, and comments starting at
// l.pos, returning them as an ordered trivia slice. It flips atBOL true on
// every newline encountered. An unterminated block comment is fatal.
func (l *Lexer) collectTrivia() ([]token.Trivia, error) {
	var trivia []token.Trivia
	for !l.eof() {
		start := l.pos
		switch {
		case l.hasPrefixAt(l.pos, "\r\n"):
			l.pos += 2
			trivia = append(trivia, token.Trivia{Kind: token.TriviaNewline, Start: start, Length: 2})
			l.atBOL = true

		case l.byteAt(l.pos) == '\n':
			l.pos++
			trivia = append(trivia, token.Trivia{Kind: token.TriviaNewline, Start: start, Length: 1})
			l.atBOL = true

		case isHorizontalSpace(l.byteAt(l.pos)):
			for !l.eof() && isHorizontalSpace(l.byteAt(l.pos)) {
				l.pos++
			}
			trivia = append(trivia, token.Trivia{Kind: token.TriviaSpace, Start: start, Length: l.pos - start})

		case l.hasPrefixAt(l.pos, "//"):
			l.pos += 2
			for !l.eof() && l.byteAt(l.pos) != '\n' {
				l.pos++
			}
			trivia = append(trivia, token.Trivia{Kind: token.TriviaLineComment, Start: start, Length: l.pos - start})

		case l.hasPrefixAt(l.pos, "/*"):
			l.pos += 2
			closed := false
			for !l.eof() {
				if l.hasPrefixAt(l.pos, "*/") {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				return trivia, ccerr.New(l.src, l.src.Position(start), "unterminated block comment")
			}
			trivia = append(trivia, token.Trivia{Kind: token.TriviaBlockComment, Start: start, Length: l.pos - start})

		default:
			return trivia, nil
		}
	}
	return trivia, nil
}

func isHorizontalSpace(b byte) bool {
	switch b {
	case '\t', '\v', '\f', ' ':
		return true
	default:
		return false
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Next scans and returns the next token, advancing the lexer. Once the end
// of input is reached, every subsequent call returns a zero-length EOF
// token positioned at the end of the buffer.
func (l *Lexer) Next() (token.Token, error) {
	leading, err := l.collectTrivia()
	if err != nil {
		return token.Token{}, err
	}

	if l.eof() {
		return token.New(l.src, token.KindEOF, len(l.data), 0, leading, token.PPOther), nil
	}

	start := l.pos
	wasBOL := l.atBOL
	l.atBOL = false

	b := l.data[start]

	if wasBOL && b == '#' {
		l.pos++
		return token.New(l.src, token.KindDirectiveHash, start, 1, leading, token.PPOther), nil
	}

	switch {
	case isIdentStart(b):
		return l.scanIdentifier(start, leading), nil
	case isDigit(b):
		return l.scanNumber(start, leading), nil
	case b == '.':
		return l.scanDotOrNumber(start, leading), nil
	case b == '"':
		return l.scanString(start, leading)
	default:
		if tok, ok := l.scanPunctuation(start, leading); ok {
			return tok, nil
		}
		return token.Token{}, ccerr.New(l.src, l.src.Position(start), "unexpected character %q", string(b))
	}
}

// All drains the lexer into a slice ending with exactly one EOF token.
func (l *Lexer) All() ([]token.Token, error) {
	var out []token.Token
	for {
		tok, err := l.Next()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Kind == token.KindEOF {
			return out, nil
		}
	}
}

func (l *Lexer) scanIdentifier(start int, leading []token.Trivia) token.Token {
	match := reIdentifier.FindString(string(l.data[start:]))
	l.pos = start + len(match)
	kind := token.KindIdentifier
	if k, ok := token.Keywords[match]; ok {
		kind = k
	}
	ppKind := token.PPOther
	if pk, ok := token.PPKeywords[match]; ok {
		ppKind = pk
	}
	return token.New(l.src, kind, start, l.pos-start, leading, ppKind)
}

// scanNumber implements: digits (. digits)? ([eE][+-]? digits)? [fF]?
func (l *Lexer) scanNumber(start int, leading []token.Trivia) token.Token {
	i := start
	for i < len(l.data) && isDigit(l.data[i]) {
		i++
	}
	isFloat := false

	if i < len(l.data) && l.data[i] == '.' {
		after := i + 1
		digits := reDigits.FindString(string(l.data[after:]))
		if digits != "" {
			isFloat = true
			i = after + len(digits)
		}
		// Else: the "(. digits)?" group does not match; leave the '.'
		// unconsumed so it lexes as its own Dot token next.
	}

	if i < len(l.data) && (l.data[i] == 'e' || l.data[i] == 'E') {
		save := i
		j := i + 1
		if j < len(l.data) && (l.data[j] == '+' || l.data[j] == '-') {
			j++
		}
		digits := reDigits.FindString(string(l.data[j:]))
		if digits != "" {
			isFloat = true
			i = j + len(digits)
		} else {
			// Missing exponent digits: roll back the exponent scan.
			i = save
		}
	}

	if i < len(l.data) && (l.data[i] == 'f' || l.data[i] == 'F') {
		isFloat = true
		i++
	}

	kind := token.KindIntLiteral
	if isFloat {
		kind = token.KindFloatLiteral
	}
	l.pos = i
	return token.New(l.src, kind, start, l.pos-start, leading, token.PPOther)
}

// scanDotOrNumber handles a leading '.': if followed by digits it is a
// float literal with no integer part; otherwise it is a lone Dot token.
func (l *Lexer) scanDotOrNumber(start int, leading []token.Trivia) token.Token {
	digits := reDigits.FindString(string(l.data[start+1:]))
	if digits == "" {
		l.pos = start + 1
		return token.New(l.src, token.KindDot, start, 1, leading, token.PPOther)
	}
	return l.scanNumber(start, leading)
}

func (l *Lexer) scanString(start int, leading []token.Trivia) (token.Token, error) {
	i := start + 1
	for i < len(l.data) {
		switch l.data[i] {
		case '\\':
			i += 2
			continue
		case '"':
			l.pos = i + 1
			return token.New(l.src, token.KindStringLiteral, start, l.pos-start, leading, token.PPOther), nil
		}
		i++
	}
	return token.Token{}, ccerr.New(l.src, l.src.Position(start), "unterminated string literal")
}

type punct struct {
	text string
	kind token.Kind
}

// Longer sequences first so the greedy match below prefers them.
var punctuation = []punct{
	{"++", token.KindIncrement},
	{"--", token.KindDecrement},
	{"==", token.KindEqual},
	{"!=", token.KindNotEqual},
	{"<=", token.KindLessEqual},
	{">=", token.KindGreaterEqual},
	{"&&", token.KindLogicalAnd},
	{"||", token.KindLogicalOr},
	{"(", token.KindLParen},
	{")", token.KindRParen},
	{"{", token.KindLBrace},
	{"}", token.KindRBrace},
	{",", token.KindComma},
	{";", token.KindSemicolon},
	{"+", token.KindPlus},
	{"-", token.KindMinus},
	{"*", token.KindStar},
	{"/", token.KindSlash},
	{"!", token.KindBang},
	{"&", token.KindAmp},
	{"=", token.KindAssign},
	{"<", token.KindLess},
	{">", token.KindGreater},
}

func (l *Lexer) scanPunctuation(start int, leading []token.Trivia) (token.Token, bool) {
	for _, p := range punctuation {
		if l.hasPrefixAt(start, p.text) {
			l.pos = start + len(p.text)
			return token.New(l.src, p.kind, start, len(p.text), leading, token.PPOther), true
		}
	}
	return token.Token{}, false
}
