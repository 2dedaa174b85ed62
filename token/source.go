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

// Package token defines the shared token, trivia, and source-position data
// model consumed by every later stage of the C front end: the lexer, the
// preprocessor parser, the macro projector, and the declaration parser.
package token

import "fmt"

// Cursor is a 1-based (line, column) position in a Source, natural for
// human-facing error messages.
type Cursor struct {
	Line, Column int
}

// CursorInit is the position of the first byte of any source.
var CursorInit = Cursor{Line: 1, Column: 1}

func (c Cursor) String() string {
	return fmt.Sprintf("%d:%d", c.Line, c.Column)
}

// Source is the immutable text of a single translation unit. Tokens and
// trivia never copy from it; they refer to it by (start, length) offsets
// for the lifetime of the pipeline.
type Source struct {
	Name string
	Text []byte
}

// NewSource wraps raw bytes as a translation unit's source buffer.
func NewSource(name string, text []byte) *Source {
	return &Source{Name: name, Text: text}
}

// Len returns the number of bytes in the source.
func (s *Source) Len() int { return len(s.Text) }

// Slice returns the substring [start, start+length) without copying beyond
// the single string conversion required to hand the caller a string value.
func (s *Source) Slice(start, length int) string {
	return string(s.Text[start : start+length])
}

// Position computes the (line, col) of a byte offset by counting newlines
// up to it. It is computed on demand, never stored on a token.
func (s *Source) Position(offset int) Cursor {
	if offset > len(s.Text) {
		offset = len(s.Text)
	}
	cur := CursorInit
	lineStart := 0
	for i := 0; i < offset; i++ {
		if s.Text[i] == '\n' {
			cur.Line++
			lineStart = i + 1
		}
	}
	cur.Column = 1 + (offset - lineStart)
	return cur
}
