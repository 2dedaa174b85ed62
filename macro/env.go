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

// Package macro tracks #define/#undef state across a document-order walk of
// a preprocessor tree and projects it into a flat, macro-expanded token
// stream. Conditional sections are never evaluated: Project unconditionally
// descends into every section's If branch.
package macro

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/EngFlow/ccfront/token"
)

// Macro is a single #define binding: either object-like or function-like.
// Function-like macros are tracked (so defined() and #undef see them) but
// never expanded -- their invocations pass through the projection
// unchanged.
type Macro struct {
	Name           string
	IsFunctionLike bool
	Parameters     []string
	IsVariadic     bool
	Replacement    []token.Token
}

// Environment is the ordered name -> Macro table built by a document-order
// walk. It carries full macro bodies, not just integer values, since this
// layer must support object-macro replacement rather than only #if
// constant folding.
type Environment struct {
	names  []string
	macros map[string]Macro
}

// NewEnvironment returns an empty macro environment.
func NewEnvironment() *Environment {
	return &Environment{macros: map[string]Macro{}}
}

// Define records m, overwriting any prior definition of the same name in
// place (preserving its original position in iteration order), matching
// the C rule that a re-#define replaces the previous binding.
func (e *Environment) Define(m Macro) {
	if _, exists := e.macros[m.Name]; !exists {
		e.names = append(e.names, m.Name)
	}
	e.macros[m.Name] = m
}

// Undef removes name's binding, if any.
func (e *Environment) Undef(name string) {
	if _, exists := e.macros[name]; !exists {
		return
	}
	delete(e.macros, name)
	for i, n := range e.names {
		if n == name {
			e.names = append(e.names[:i], e.names[i+1:]...)
			break
		}
	}
}

// Lookup returns the macro bound to name, if defined.
func (e *Environment) Lookup(name string) (Macro, bool) {
	m, ok := e.macros[name]
	return m, ok
}

// Names returns the currently defined macro names in definition order.
func (e *Environment) Names() []string {
	out := make([]string, len(e.names))
	copy(out, e.names)
	return out
}

// Clone returns an independent copy of e, preserving definition order.
func (e *Environment) Clone() *Environment {
	clone := &Environment{
		names:  append([]string(nil), e.names...),
		macros: make(map[string]Macro, len(e.macros)),
	}
	for k, v := range e.macros {
		clone.macros[k] = v
	}
	return clone
}

// Value implements pp.Lookup so an Environment can feed pp.CondExpr.Eval:
// an object-like macro whose replacement is a single integer literal has
// that literal's value; any other defined name (including function-like
// macros and object-like macros with any other replacement) counts as
// defined with value 1.
func (e *Environment) Value(name string) (int, bool) {
	m, ok := e.macros[name]
	if !ok {
		return 0, false
	}
	if m.IsFunctionLike || len(m.Replacement) != 1 || m.Replacement[0].Kind != token.KindIntLiteral {
		return 1, true
	}
	v, err := parseIntLiteral(m.Replacement[0].Lexeme())
	if err != nil {
		return 1, true
	}
	return v, true
}

var macroIdentifierRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseDefinition parses a `-D NAME[=VALUE]` style command-line macro
// definition into an object-like Macro. A bare NAME is equivalent to
// NAME=1; VALUE must be an integer literal.
func ParseDefinition(definition string) (Macro, error) {
	name, stringValue, hasValue := strings.Cut(definition, "=")
	if !macroIdentifierRegex.MatchString(name) {
		return Macro{}, fmt.Errorf("invalid macro name %q", name)
	}
	value := "1"
	if hasValue {
		value = stringValue
	}
	if _, err := parseIntLiteral(value); err != nil {
		return Macro{}, fmt.Errorf("macro %s=%s: only integer literal values are allowed", name, value)
	}
	// The replacement token needs its own tiny backing Source so Lexeme()
	// can slice it like any lexed token; command-line definitions have no
	// place in a real translation unit's source buffer.
	src := token.NewSource("-D "+name, []byte(value))
	return Macro{
		Name:        name,
		Replacement: []token.Token{token.New(src, token.KindIntLiteral, 0, len(value), nil, token.PPOther)},
	}, nil
}

func parseIntLiteral(s string) (int, error) {
	s = strings.TrimRightFunc(s, func(r rune) bool {
		return r == 'u' || r == 'U' || r == 'l' || r == 'L'
	})
	v, err := strconv.ParseInt(s, 0, 64)
	return int(v), err
}
