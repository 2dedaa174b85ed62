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

package macro

import (
	"github.com/EngFlow/ccfront/pp"
	"github.com/EngFlow/ccfront/token"
)

// Project walks tu in document order: it registers #define, removes on
// #undef, and unconditionally descends into the If branch of every
// IfSection -- never the Elif or Else branches, and never evaluating the
// condition. Conditional compilation is deliberately left unevaluated in
// this revision; see pp.CondExpr for the evaluator a later revision could
// wire in here.
//
// The returned token slice is the projected text: all Text runs with
// object-macro invocations expanded, in document order, with #include and
// other directive content omitted (they carry no emittable text of their
// own). The returned Environment reflects the macro state after processing
// the entire unit.
func Project(tu *pp.TranslationUnit) ([]token.Token, *Environment, error) {
	return ProjectWithEnvironment(tu, NewEnvironment())
}

// ProjectWithEnvironment is Project, seeded with env instead of an empty
// environment, so a caller (e.g. cmd/ccfront's `-D NAME[=VALUE]` flag) can
// pre-define macros before the document-order walk begins.
func ProjectWithEnvironment(tu *pp.TranslationUnit, env *Environment) ([]token.Token, *Environment, error) {
	var out []token.Token
	if err := projectParts(tu.Parts, env, &out); err != nil {
		return nil, nil, err
	}
	return out, env, nil
}

func projectParts(parts []pp.GroupPart, env *Environment, out *[]token.Token) error {
	for _, part := range parts {
		if err := projectPart(part, env, out); err != nil {
			return err
		}
	}
	return nil
}

func projectPart(part pp.GroupPart, env *Environment, out *[]token.Token) error {
	switch p := part.(type) {
	case pp.Text:
		expanded, err := expandRun(p.Tokens, env)
		if err != nil {
			return err
		}
		*out = append(*out, expanded...)

	case pp.DefineDirective:
		params := make([]string, len(p.Parameters))
		for i, t := range p.Parameters {
			params[i] = t.Lexeme()
		}
		env.Define(Macro{
			Name:           p.Name.Lexeme(),
			IsFunctionLike: p.IsFunctionLike,
			Parameters:     params,
			IsVariadic:     p.IsVariadic,
			Replacement:    p.ReplacementTokens,
		})

	case pp.UndefDirective:
		env.Undef(p.Name.Lexeme())

	case pp.IfSection:
		// Unconditionally take the If branch; Elif/Else are structurally
		// present in the tree but never walked.
		return projectParts(p.If.Body, env, out)

	case pp.IncludeDirective, pp.SimpleDirective:
		// No emittable text; #include resolution never happens here, the
		// driver pre-inlines any headers it wants parsed.
	}
	return nil
}

// expandRun expands object-macro invocations in toks in order, recursively
// expanding a macro's own replacement list before substituting it. A
// per-expansion "currently expanding" guard keyed by macro name keeps the
// recursion finite: a name referencing itself (directly or through another
// macro) is dropped at the inner occurrence. Function-like macro
// invocations pass through verbatim as identifiers.
func expandRun(toks []token.Token, env *Environment) ([]token.Token, error) {
	return expand(toks, env, map[string]bool{})
}

func expand(toks []token.Token, env *Environment, expanding map[string]bool) ([]token.Token, error) {
	var out []token.Token
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.Kind != token.KindIdentifier {
			out = append(out, t)
			continue
		}
		name := t.Lexeme()
		m, ok := env.Lookup(name)
		if !ok || m.IsFunctionLike {
			out = append(out, t)
			continue
		}
		if expanding[name] {
			continue
		}

		expanding[name] = true
		replaced, err := expand(m.Replacement, env, expanding)
		delete(expanding, name)
		if err != nil {
			return nil, err
		}
		out = append(out, replaced...)
	}
	return out, nil
}
