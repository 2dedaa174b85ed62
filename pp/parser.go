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

import (
	"github.com/EngFlow/ccfront/ccerr"
	"github.com/EngFlow/ccfront/token"
)

type parser struct {
	r *reader
}

// Parse groups a flat, already-lexed token stream into a preprocessor
// tree. Conditions of #if/#elif sections are captured as raw token slices
// and never evaluated; #include arguments are captured raw. Any unmatched
// #elif/#else/#endif, or a missing #endif at end of input, is fatal.
func Parse(tokens []token.Token) (*TranslationUnit, error) {
	p := &parser{r: newReader(tokens)}
	parts, err := p.parseGroupUntil(func(token.PPKind) bool { return false })
	if err != nil {
		return nil, err
	}
	return &TranslationUnit{Parts: parts}, nil
}

// collectRestOfLine accumulates tokens until the next token begins a new
// source line (or input ends), without consuming that lookahead token.
func (p *parser) collectRestOfLine() []token.Token {
	var out []token.Token
	for {
		if p.r.atEOF() || p.r.peek().AtLineStart() {
			return out
		}
		out = append(out, p.r.next())
	}
}

// parseGroupUntil collects GroupParts (text runs and directives) until a
// directive whose PP keyword satisfies stop is encountered (that
// directive's `#` is left unconsumed) or input ends.
func (p *parser) parseGroupUntil(stop func(token.PPKind) bool) ([]GroupPart, error) {
	var parts []GroupPart
	var textRun []token.Token

	flushText := func() {
		if len(textRun) > 0 {
			parts = append(parts, Text{Tokens: textRun})
			textRun = nil
		}
	}

	for {
		if p.r.atEOF() {
			flushText()
			return parts, nil
		}
		tok := p.r.peek()
		if tok.Kind != token.KindDirectiveHash {
			textRun = append(textRun, p.r.next())
			continue
		}

		// The classification only counts if the candidate keyword token
		// is actually on the hash's own line; otherwise the hash is a
		// bare/null directive and this token belongs to the next line.
		kind := token.PPOther
		if next := p.r.peekAt(1); !next.AtLineStart() {
			kind = next.PPKind
		}
		if stop(kind) {
			flushText()
			return parts, nil
		}

		flushText()
		part, err := p.parseDirective()
		if err != nil {
			return nil, err
		}
		if part != nil {
			parts = append(parts, part)
		}
	}
}

// parseDirective consumes one `#`-introduced directive, dispatching on
// the following token's PP keyword classification.
func (p *parser) parseDirective() (GroupPart, error) {
	hash := p.r.next()

	if p.r.atEOF() || p.r.peek().AtLineStart() {
		// A bare '#' with nothing else on its line is a legal null
		// directive: nothing to dispatch on.
		return SimpleDirective{Keyword: token.Token{}}, nil
	}

	kw := p.r.peek()
	switch kw.PPKind {
	case token.PPInclude:
		p.r.next()
		return p.parseIncludeDirective(), nil

	case token.PPDefine:
		p.r.next()
		return p.parseDefineDirective()

	case token.PPUndef:
		p.r.next()
		name, err := p.expectIdentifier()
		if err != nil {
			return nil, err
		}
		p.collectRestOfLine() // discard garbage after the name
		return UndefDirective{Name: name}, nil

	case token.PPIf, token.PPIfdef, token.PPIfndef:
		p.r.next()
		return p.parseIfSection(kw.PPKind)

	case token.PPElif, token.PPElse, token.PPEndif:
		return nil, ccerr.At(hash, "unmatched directive #%s", kw.PPKind)

	default:
		p.r.next()
		rest := p.collectRestOfLine()
		return SimpleDirective{Keyword: kw, Rest: rest}, nil
	}
}

func (p *parser) expectIdentifier() (token.Token, error) {
	tok := p.r.peek()
	if p.r.atEOF() || tok.AtLineStart() || tok.Kind != token.KindIdentifier {
		return token.Token{}, ccerr.At(tok, "expected identifier")
	}
	return p.r.next(), nil
}

func (p *parser) parseIncludeDirective() GroupPart {
	raw := p.collectRestOfLine()
	path, system := parseIncludeArgument(raw)
	return IncludeDirective{Raw: raw, Path: path, System: system}
}

// parseIncludeArgument recognizes the two conventional #include shapes,
// `<name>` and `"name"`, without performing any path resolution.
func parseIncludeArgument(raw []token.Token) (path string, system bool) {
	if len(raw) == 0 {
		return "", false
	}
	if raw[0].Kind == token.KindLess {
		var lexemes []string
		for _, t := range raw[1:] {
			if t.Kind == token.KindGreater {
				return joinNoSpace(lexemes), true
			}
			lexemes = append(lexemes, t.Lexeme())
		}
		return "", false
	}
	if raw[0].Kind == token.KindStringLiteral {
		lex := raw[0].Lexeme()
		if len(lex) >= 2 && lex[0] == '"' && lex[len(lex)-1] == '"' {
			return lex[1 : len(lex)-1], false
		}
	}
	return "", false
}

func joinNoSpace(parts []string) string {
	out := ""
	for _, s := range parts {
		out += s
	}
	return out
}

// parseDefineDirective parses `#define NAME ...`, switching to the
// function-like form only when a '(' immediately follows the name with no
// trivia between them.
func (p *parser) parseDefineDirective() (GroupPart, error) {
	name, err := p.expectIdentifier()
	if err != nil {
		return nil, err
	}

	lparen := p.r.peek()
	isFunctionLike := !p.r.atEOF() && !lparen.AtLineStart() && lparen.Kind == token.KindLParen && token.Adjacent(name, lparen)

	if !isFunctionLike {
		return DefineDirective{Name: name, ReplacementTokens: p.collectRestOfLine()}, nil
	}

	p.r.next() // consume '('
	params, variadic, err := p.parseMacroParameters()
	if err != nil {
		return nil, err
	}
	if err := p.expectPunct(token.KindRParen); err != nil {
		return nil, err
	}
	return DefineDirective{
		Name:              name,
		IsFunctionLike:    true,
		Parameters:        params,
		IsVariadic:        variadic,
		ReplacementTokens: p.collectRestOfLine(),
	}, nil
}

func (p *parser) expectPunct(kind token.Kind) error {
	tok := p.r.peek()
	if p.r.atEOF() || tok.AtLineStart() || tok.Kind != kind {
		return ccerr.At(tok, "expected %s in macro parameter list", kind)
	}
	p.r.next()
	return nil
}

// isEllipsisAt reports whether three pairwise-adjacent Dot tokens start at
// the reader's current position; only that shape counts as `...`.
func (p *parser) isEllipsisAt() bool {
	a, b, c := p.r.peekAt(0), p.r.peekAt(1), p.r.peekAt(2)
	return a.Kind == token.KindDot && b.Kind == token.KindDot && c.Kind == token.KindDot &&
		token.Adjacent(a, b) && token.Adjacent(b, c)
}

// parseMacroParameters parses zero or more identifier parameters
// separated by commas, where `...` (three adjacent Dots) in parameter
// position, or immediately following an identifier parameter, marks the
// macro variadic and terminates the parameter list.
func (p *parser) parseMacroParameters() (params []token.Token, variadic bool, err error) {
	if p.r.peek().Kind == token.KindRParen {
		return nil, false, nil
	}
	for {
		if p.isEllipsisAt() {
			p.r.next()
			p.r.next()
			p.r.next()
			return params, true, nil
		}
		tok := p.r.peek()
		if p.r.atEOF() || tok.AtLineStart() || tok.Kind != token.KindIdentifier {
			return nil, false, ccerr.At(tok, "malformed macro parameter list")
		}
		params = append(params, p.r.next())

		// GCC-style `name...` (no comma) also ends the list variadic.
		if p.isEllipsisAt() {
			p.r.next()
			p.r.next()
			p.r.next()
			return params, true, nil
		}
		if p.r.peek().Kind == token.KindComma {
			p.r.next()
			continue
		}
		return params, false, nil
	}
}

// parseIfSection parses a full `#if`/`#ifdef`/`#ifndef` section: the
// leading branch, any `#elif` branches, at most one `#else`, and the
// mandatory `#endif`.
func (p *parser) parseIfSection(kind token.PPKind) (GroupPart, error) {
	ifBranch, err := p.parseBranch(BranchIf, kind)
	if err != nil {
		return nil, err
	}

	section := IfSection{If: ifBranch}
	for {
		if p.r.atEOF() {
			return nil, ccerr.At(p.r.peek(), "missing #endif")
		}
		// parseGroupUntil guarantees the reader is positioned on a
		// DirectiveHash whose following keyword is Elif, Else, or Endif.
		hashTok := p.r.next()
		kw := p.r.next()

		switch kw.PPKind {
		case token.PPElif:
			if section.Else != nil {
				return nil, ccerr.At(hashTok, "#elif after #else")
			}
			branch, err := p.parseBranch(BranchElif, token.PPElif)
			if err != nil {
				return nil, err
			}
			section.Elifs = append(section.Elifs, branch)

		case token.PPElse:
			if section.Else != nil {
				return nil, ccerr.At(hashTok, "duplicate #else")
			}
			p.collectRestOfLine() // discard garbage after `#else`
			body, err := p.parseGroupUntil(isBranchTerminator)
			if err != nil {
				return nil, err
			}
			section.Else = &ConditionalBranch{Kind: BranchElse, Body: body}

		case token.PPEndif:
			p.collectRestOfLine() // discard mandatory-but-unused rest of line
			return section, nil

		default:
			return nil, ccerr.At(hashTok, "unexpected directive inside #if section")
		}
	}
}

func (p *parser) parseBranch(branchKind BranchKind, directiveKind token.PPKind) (ConditionalBranch, error) {
	condition := p.collectRestOfLine()
	body, err := p.parseGroupUntil(isBranchTerminator)
	if err != nil {
		return ConditionalBranch{}, err
	}
	return ConditionalBranch{Kind: branchKind, DirectiveKind: directiveKind, Condition: condition, Body: body}, nil
}

func isBranchTerminator(k token.PPKind) bool {
	return k == token.PPElif || k == token.PPElse || k == token.PPEndif
}
