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

// Command ccfront drives the four pipeline stages over each input file --
// lexer, pp, macro, cparser -- and prints the resulting declaration AST.
// Inputs may be literal paths or doublestar glob patterns, e.g.
// `ccfront 'src/**/*.c'`.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/EngFlow/ccfront/ast"
	"github.com/EngFlow/ccfront/cparser"
	"github.com/EngFlow/ccfront/lexer"
	"github.com/EngFlow/ccfront/macro"
	"github.com/EngFlow/ccfront/pp"
	"github.com/EngFlow/ccfront/token"
)

// defines collects repeated `-D NAME[=VALUE]` flags.
type defines []string

func (d *defines) String() string { return strings.Join(*d, ",") }
func (d *defines) Set(v string) error {
	*d = append(*d, v)
	return nil
}

func main() {
	var macroDefs defines
	flag.Var(&macroDefs, "D", "define a macro as NAME or NAME=VALUE; may be repeated")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		log.Fatalf("ccfront requires at least 1 argument: a C source file path or glob pattern")
	}

	paths, err := expandArgs(flag.Args())
	if err != nil {
		log.Fatalf("%v", err)
	}

	for i, path := range paths {
		text, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("reading %s: %v", path, err)
		}
		tu, err := compile(path, text, macroDefs)
		if err != nil {
			log.Fatalf("%v", err)
		}
		if len(paths) > 1 {
			if i > 0 {
				fmt.Println()
			}
			fmt.Printf("// %s\n", path)
		}
		fmt.Println(tu.String())
	}
}

// expandArgs resolves each argument that is a glob pattern against the
// filesystem; a literal path passes through untouched. Each translation
// unit is compiled independently, so matching many files just repeats the
// pipeline per match.
func expandArgs(args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			paths = append(paths, arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("pattern %q matched no files", arg)
		}
		paths = append(paths, matches...)
	}
	return paths, nil
}

// compile runs the full lexer -> pp -> macro -> cparser pipeline over src,
// seeding the macro environment from defs before the document-order walk.
func compile(path string, src []byte, defs defines) (*ast.TranslationUnit, error) {
	source := token.NewSource(path, src)
	toks, err := lexer.NewLexer(source).All()
	if err != nil {
		return nil, fmt.Errorf("lexing %s: %w", path, err)
	}

	ppTU, err := pp.Parse(toks)
	if err != nil {
		return nil, fmt.Errorf("preprocessing %s: %w", path, err)
	}

	env := macro.NewEnvironment()
	for _, def := range defs {
		m, err := macro.ParseDefinition(def)
		if err != nil {
			return nil, fmt.Errorf("parsing -D %s: %w", def, err)
		}
		env.Define(m)
	}

	projected, _, err := macro.ProjectWithEnvironment(ppTU, env)
	if err != nil {
		return nil, fmt.Errorf("expanding macros in %s: %w", path, err)
	}

	tu, err := cparser.Parse(projected)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return tu, nil
}
