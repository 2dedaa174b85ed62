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

// Package pp groups a flat, lexed token stream into a preprocessor tree:
// directives (#define, #undef, #include, conditional sections) and the raw
// text runs between them. It does not evaluate conditions and does not
// resolve #include paths; both are left to consumers.
package pp

import (
	"fmt"
	"strings"

	"github.com/EngFlow/ccfront/token"
)

// GroupPart is one element of a preprocessor tree: either a raw text run
// or a directive. It is a closed sum type; every implementation also
// implements fmt.Stringer for debugging (directives print in their `#`
// form, text runs as space-joined lexemes).
type GroupPart interface {
	fmt.Stringer
	isGroupPart()
	// Pos returns the source position of the part's first token.
	Pos() token.Cursor
}

// TranslationUnit is the top-level parse result: an ordered list of
// GroupParts covering the entire source.
type TranslationUnit struct {
	Parts []GroupPart
}

// Text is a maximal run of tokens that are not a directive.
type Text struct {
	Tokens []token.Token
}

// IncludeDirective represents `#include` to end of line, captured but
// never resolved. Path is populated only when the raw tokens have the
// recognizable `<name>`/`"name"` shape; otherwise it is empty and callers
// should fall back to Raw.
type IncludeDirective struct {
	Raw    []token.Token
	Path   string
	System bool
}

// DefineDirective represents `#define`, either object-like or
// function-like. Parameters and IsVariadic are only meaningful when
// IsFunctionLike is true.
type DefineDirective struct {
	Name              token.Token
	IsFunctionLike    bool
	Parameters        []token.Token
	IsVariadic        bool
	ReplacementTokens []token.Token
}

// UndefDirective represents `#undef NAME`.
type UndefDirective struct {
	Name token.Token
}

// BranchKind identifies which branch of a conditional section a
// ConditionalBranch represents.
type BranchKind int

const (
	BranchIf BranchKind = iota
	BranchElif
	BranchElse
)

// ConditionalBranch is one `#if`/`#elif`/`#else`-shaped branch: an
// unevaluated condition token slice (empty for #else) plus its nested
// group parts.
type ConditionalBranch struct {
	Kind BranchKind
	// DirectiveKind is the originating PP keyword (If, Ifdef, Ifndef,
	// Elif) so consumers can tell `#ifdef X` apart from `#if defined(X)`
	// without re-parsing the condition tokens.
	DirectiveKind token.PPKind
	Condition     []token.Token
	Body          []GroupPart
}

// IfSection represents a full #if/#ifdef/#ifndef conditional group: one
// leading branch, zero or more #elif branches, and an optional #else.
type IfSection struct {
	If    ConditionalBranch
	Elifs []ConditionalBranch
	Else  *ConditionalBranch
}

// SimpleDirective is the catch-all for any directive keyword the parser
// does not special-case (e.g. `#pragma`, `#error`, or a bare `#`).
type SimpleDirective struct {
	Keyword token.Token
	Rest    []token.Token
}

func (Text) isGroupPart()             {}
func (IncludeDirective) isGroupPart() {}
func (DefineDirective) isGroupPart()  {}
func (UndefDirective) isGroupPart()   {}
func (IfSection) isGroupPart()        {}
func (SimpleDirective) isGroupPart()  {}

func (t Text) Pos() token.Cursor {
	if len(t.Tokens) == 0 {
		return token.CursorInit
	}
	return t.Tokens[0].Pos()
}
func (d IncludeDirective) Pos() token.Cursor { return firstPos(d.Raw) }
func (d DefineDirective) Pos() token.Cursor  { return d.Name.Pos() }
func (d UndefDirective) Pos() token.Cursor   { return d.Name.Pos() }
func (d IfSection) Pos() token.Cursor        { return d.If.Pos() }
func (d SimpleDirective) Pos() token.Cursor  { return d.Keyword.Pos() }
func (b ConditionalBranch) Pos() token.Cursor {
	if len(b.Condition) > 0 {
		return b.Condition[0].Pos()
	}
	if len(b.Body) > 0 {
		return b.Body[0].Pos()
	}
	return token.CursorInit
}

func firstPos(toks []token.Token) token.Cursor {
	if len(toks) == 0 {
		return token.CursorInit
	}
	return toks[0].Pos()
}

func joinLexemes(toks []token.Token) string {
	parts := make([]string, len(toks))
	for i, t := range toks {
		parts[i] = t.Lexeme()
	}
	return strings.Join(parts, " ")
}

func (t Text) String() string { return joinLexemes(t.Tokens) }

func (d IncludeDirective) String() string {
	if d.Path != "" {
		if d.System {
			return fmt.Sprintf("#include <%s>", d.Path)
		}
		return fmt.Sprintf("#include %q", d.Path)
	}
	return "#include " + joinLexemes(d.Raw)
}

func (d DefineDirective) String() string {
	if !d.IsFunctionLike {
		return fmt.Sprintf("#define %s %s", d.Name.Lexeme(), joinLexemes(d.ReplacementTokens))
	}
	params := make([]string, len(d.Parameters))
	for i, p := range d.Parameters {
		params[i] = p.Lexeme()
	}
	if d.IsVariadic {
		params = append(params, "...")
	}
	return fmt.Sprintf("#define %s(%s) %s", d.Name.Lexeme(), strings.Join(params, ", "), joinLexemes(d.ReplacementTokens))
}

func (d UndefDirective) String() string { return "#undef " + d.Name.Lexeme() }

func (d SimpleDirective) String() string {
	kw := d.Keyword.Lexeme()
	if kw == "" {
		return "#"
	}
	return "#" + kw + " " + joinLexemes(d.Rest)
}

func (b ConditionalBranch) String() string {
	var prefix string
	switch b.Kind {
	case BranchIf:
		prefix = "#" + b.DirectiveKind.String()
	case BranchElif:
		prefix = "#" + b.DirectiveKind.String()
	case BranchElse:
		prefix = "#else"
	}
	var out strings.Builder
	out.WriteString(prefix)
	if len(b.Condition) > 0 {
		out.WriteString(" ")
		out.WriteString(joinLexemes(b.Condition))
	}
	out.WriteString("\n")
	for _, part := range b.Body {
		out.WriteString(part.String())
		out.WriteString("\n")
	}
	return out.String()
}

func (s IfSection) String() string {
	var out strings.Builder
	out.WriteString(s.If.String())
	for _, e := range s.Elifs {
		out.WriteString(e.String())
	}
	if s.Else != nil {
		out.WriteString(s.Else.String())
	}
	out.WriteString("#endif")
	return out.String()
}
