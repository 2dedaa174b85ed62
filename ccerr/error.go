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

// Package ccerr provides the single fatal-error representation shared by
// every stage of the front end. Every lex, preprocessor, and parse error
// unwinds to the pipeline driver carrying a source position, so the driver
// can report "(file, line, col): message" without each stage reinventing
// its own error formatting.
package ccerr

import (
	"fmt"

	"github.com/EngFlow/ccfront/token"
)

// Error is a fatal, position-carrying error raised by any pipeline stage.
// There is no partial-result recovery: any Error aborts the translation
// unit it was raised for.
type Error struct {
	File    string
	Pos     token.Cursor
	Message string
	Wrapped error
}

// New builds a positioned Error at pos, naming src's file.
func New(src *token.Source, pos token.Cursor, format string, args ...any) *Error {
	name := ""
	if src != nil {
		name = src.Name
	}
	return &Error{File: name, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// At builds a positioned Error rooted at a token's own location.
func At(tok token.Token, format string, args ...any) *Error {
	return &Error{Pos: tok.Pos(), Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	if e.File != "" {
		return fmt.Sprintf("%s:%s: %s", e.File, e.Pos, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Wrap attaches an underlying cause, preserving errors.Is/As chains.
func (e *Error) Wrap(cause error) *Error {
	e.Wrapped = cause
	return e
}
