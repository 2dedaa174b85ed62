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

// Package ast defines the declaration-level C AST produced by cparser: type
// references, expressions, statements, and top-level declarations. Every
// node implements fmt.Stringer so tests and cmd/ccfront can round-trip a
// tree to a readable form without a separate pretty-printer.
package ast

import (
	"fmt"
	"strings"

	"github.com/EngFlow/ccfront/token"
)

// Attribute is the closed set of linkage annotations recognized on a
// declaration via `__attribute__((...))`.
type Attribute int

const (
	AttrNone Attribute = iota
	AttrImport
	AttrExport
)

func (a Attribute) String() string {
	switch a {
	case AttrImport:
		return "__attribute__((dllimport))"
	case AttrExport:
		return "__attribute__((dllexport))"
	default:
		return ""
	}
}

// TypeRef is a type reference: a base type name plus pointer depth, const
// qualification, and function-pointer shape.
type TypeRef struct {
	// Qualifiers holds leading `const`/`volatile`/`restrict` keywords, in
	// source order.
	Qualifiers []string
	// IsStruct marks a `struct Tag` reference; Name then holds the bare tag.
	IsStruct bool
	Name     string // e.g. "int", "unsigned int", "MyTypedef", or a struct tag
	Pointer  int    // number of trailing '*'
	// FuncPtr is non-nil when this TypeRef is a function-pointer type:
	// `RetType (*)(ParamTypes...)`.
	FuncPtr *FuncPtrTypeRef
	Pos_    token.Cursor
}

// FuncPtrTypeRef is the callee-shape payload of a function-pointer
// TypeRef: `Return (*)(Params...)`.
type FuncPtrTypeRef struct {
	Return     *TypeRef
	Parameters []*TypeRef
	Variadic   bool
}

func (t *TypeRef) Pos() token.Cursor { return t.Pos_ }

func (t *TypeRef) String() string {
	if t.FuncPtr != nil {
		params := make([]string, len(t.FuncPtr.Parameters))
		for i, p := range t.FuncPtr.Parameters {
			params[i] = p.String()
		}
		if t.FuncPtr.Variadic {
			params = append(params, "...")
		}
		return fmt.Sprintf("%s (*)(%s)", t.FuncPtr.Return.String(), strings.Join(params, ", "))
	}
	var b strings.Builder
	for _, q := range t.Qualifiers {
		b.WriteString(q)
		b.WriteString(" ")
	}
	if t.IsStruct {
		b.WriteString("struct ")
	}
	b.WriteString(t.Name)
	for i := 0; i < t.Pointer; i++ {
		b.WriteString("*")
	}
	return b.String()
}

// Node is the common interface of every AST node.
type Node interface {
	fmt.Stringer
	Pos() token.Cursor
}

// Expr is the closed sum type of expression nodes.
type Expr interface {
	Node
	isExpr()
}

// Stmt is the closed sum type of statement nodes.
type Stmt interface {
	Node
	isStmt()
}

// Decl is the closed sum type of top-level and local declaration nodes.
type Decl interface {
	Node
	isDecl()
}

// --- Expressions -----------------------------------------------------

type (
	IntLit struct {
		Value int64
		Pos_  token.Cursor
	}
	FloatLit struct {
		Value float64
		Pos_  token.Cursor
	}
	StringLit struct {
		Value string
		Pos_  token.Cursor
	}
	NullLit struct {
		Pos_ token.Cursor
	}
	Ident struct {
		Name string
		Pos_ token.Cursor
	}
	// Unary covers prefix operators (!, -, *, &, ++, --) distinguished
	// from postfix inc/dec by Postfix.
	Unary struct {
		Op      string
		X       Expr
		Postfix bool
		Pos_    token.Cursor
	}
	Binary struct {
		Op   string
		L, R Expr
		Pos_ token.Cursor
	}
	// Assign is right-associative and binds looser than every infix operator.
	Assign struct {
		Target Expr
		Value  Expr
		Pos_   token.Cursor
	}
	Call struct {
		Callee Expr
		Args   []Expr
		Pos_   token.Cursor
	}
)

func (IntLit) isExpr()    {}
func (FloatLit) isExpr()  {}
func (StringLit) isExpr() {}
func (NullLit) isExpr()   {}
func (Ident) isExpr()     {}
func (Unary) isExpr()     {}
func (Binary) isExpr()    {}
func (Assign) isExpr()    {}
func (Call) isExpr()      {}

func (e IntLit) Pos() token.Cursor    { return e.Pos_ }
func (e FloatLit) Pos() token.Cursor  { return e.Pos_ }
func (e StringLit) Pos() token.Cursor { return e.Pos_ }
func (e NullLit) Pos() token.Cursor   { return e.Pos_ }
func (e Ident) Pos() token.Cursor     { return e.Pos_ }
func (e Unary) Pos() token.Cursor     { return e.Pos_ }
func (e Binary) Pos() token.Cursor    { return e.Pos_ }
func (e Assign) Pos() token.Cursor    { return e.Pos_ }
func (e Call) Pos() token.Cursor      { return e.Pos_ }

func (e IntLit) String() string    { return fmt.Sprintf("%d", e.Value) }
func (e FloatLit) String() string  { return fmt.Sprintf("%g", e.Value) }
func (e StringLit) String() string { return fmt.Sprintf("%q", e.Value) }
func (e NullLit) String() string   { return "NULL" }
func (e Ident) String() string     { return e.Name }
func (e Unary) String() string {
	if e.Postfix {
		return fmt.Sprintf("(%s%s)", e.X, e.Op)
	}
	return fmt.Sprintf("(%s%s)", e.Op, e.X)
}
func (e Binary) String() string { return fmt.Sprintf("(%s %s %s)", e.L, e.Op, e.R) }
func (e Assign) String() string { return fmt.Sprintf("(%s = %s)", e.Target, e.Value) }
func (e Call) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", e.Callee, strings.Join(args, ", "))
}

// --- Statements --------------------------------------------------------

type (
	ExprStmt struct {
		X    Expr
		Pos_ token.Cursor
	}
	ReturnStmt struct {
		Value Expr // nil for a bare `return;`
		Pos_  token.Cursor
	}
	CompoundStmt struct {
		Stmts []Stmt
		Pos_  token.Cursor
	}
	IfStmt struct {
		Cond Expr
		Then Stmt
		Else Stmt // nil when there is no else clause
		Pos_ token.Cursor
	}
	WhileStmt struct {
		Cond Expr
		Body Stmt
		Pos_ token.Cursor
	}
	ForStmt struct {
		// Init is either a DeclStmt or an Expr wrapped in ExprStmt, or nil.
		Init Stmt
		Cond Expr // nil means no condition (loops forever)
		Post Expr // nil means no post-expression
		Body Stmt
		Pos_ token.Cursor
	}
	BreakStmt struct {
		Pos_ token.Cursor
	}
	ContinueStmt struct {
		Pos_ token.Cursor
	}
	// DeclStmt wraps a local VarDecl appearing in statement position.
	DeclStmt struct {
		Decl *VarDecl
		Pos_ token.Cursor
	}
)

func (ExprStmt) isStmt()     {}
func (ReturnStmt) isStmt()   {}
func (CompoundStmt) isStmt() {}
func (IfStmt) isStmt()       {}
func (WhileStmt) isStmt()    {}
func (ForStmt) isStmt()      {}
func (BreakStmt) isStmt()    {}
func (ContinueStmt) isStmt() {}
func (DeclStmt) isStmt()     {}

func (s ExprStmt) Pos() token.Cursor     { return s.Pos_ }
func (s ReturnStmt) Pos() token.Cursor   { return s.Pos_ }
func (s CompoundStmt) Pos() token.Cursor { return s.Pos_ }
func (s IfStmt) Pos() token.Cursor       { return s.Pos_ }
func (s WhileStmt) Pos() token.Cursor    { return s.Pos_ }
func (s ForStmt) Pos() token.Cursor      { return s.Pos_ }
func (s BreakStmt) Pos() token.Cursor    { return s.Pos_ }
func (s ContinueStmt) Pos() token.Cursor { return s.Pos_ }
func (s DeclStmt) Pos() token.Cursor     { return s.Pos_ }

func (s ExprStmt) String() string { return s.X.String() + ";" }
func (s ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", s.Value)
}
func (s CompoundStmt) String() string {
	var b strings.Builder
	b.WriteString("{\n")
	for _, st := range s.Stmts {
		b.WriteString(st.String())
		b.WriteString("\n")
	}
	b.WriteString("}")
	return b.String()
}
func (s IfStmt) String() string {
	if s.Else == nil {
		return fmt.Sprintf("if (%s) %s", s.Cond, s.Then)
	}
	return fmt.Sprintf("if (%s) %s else %s", s.Cond, s.Then, s.Else)
}
func (s WhileStmt) String() string { return fmt.Sprintf("while (%s) %s", s.Cond, s.Body) }
func (s ForStmt) String() string {
	init, cond, post := "", "", ""
	if s.Init != nil {
		init = strings.TrimSuffix(s.Init.String(), ";")
	}
	if s.Cond != nil {
		cond = s.Cond.String()
	}
	if s.Post != nil {
		post = s.Post.String()
	}
	return fmt.Sprintf("for (%s; %s; %s) %s", init, cond, post, s.Body)
}
func (s BreakStmt) String() string    { return "break;" }
func (s ContinueStmt) String() string { return "continue;" }
func (s DeclStmt) String() string     { return s.Decl.String() }

// --- Declarations -------------------------------------------------------

type (
	VarDecl struct {
		Name      string
		Type      *TypeRef
		Init      Expr // nil when uninitialized
		Attribute Attribute
		Extern    bool
		Pos_      token.Cursor
	}
	Param struct {
		Name string // may be empty for an unnamed parameter
		Type *TypeRef
	}
	FuncDecl struct {
		Name       string
		ReturnType *TypeRef
		Params     []Param
		Variadic   bool
		// Body is nil for a declaration-only prototype.
		Body      *CompoundStmt
		Attribute Attribute
		Extern    bool
		Pos_      token.Cursor
	}
	TypedefDecl struct {
		Name string
		Type *TypeRef
		Pos_ token.Cursor
	}
	StructField struct {
		Name string
		Type *TypeRef
	}
	StructDecl struct {
		Tag string
		// Name2 holds the optional declarator between the closing brace
		// and the semicolon (`struct Tag { ... } Name2;`); empty otherwise.
		Name2 string
		// Fields is nil for a forward declaration (`struct Foo;`).
		Fields    []StructField
		Attribute Attribute
		Extern    bool
		Pos_      token.Cursor
	}
	TranslationUnit struct {
		Decls []Decl
		Pos_  token.Cursor
	}
)

func (*VarDecl) isDecl()         {}
func (*FuncDecl) isDecl()        {}
func (*TypedefDecl) isDecl()     {}
func (*StructDecl) isDecl()      {}
func (*TranslationUnit) isDecl() {}

func (d *VarDecl) Pos() token.Cursor         { return d.Pos_ }
func (d *FuncDecl) Pos() token.Cursor        { return d.Pos_ }
func (d *TypedefDecl) Pos() token.Cursor     { return d.Pos_ }
func (d *StructDecl) Pos() token.Cursor      { return d.Pos_ }
func (d *TranslationUnit) Pos() token.Cursor { return d.Pos_ }

func (d *VarDecl) String() string {
	prefix := ""
	if d.Extern {
		prefix = "extern "
	}
	if attr := d.Attribute.String(); attr != "" {
		prefix = attr + " " + prefix
	}
	if d.Init == nil {
		return fmt.Sprintf("%s%s %s;", prefix, d.Type, d.Name)
	}
	return fmt.Sprintf("%s%s %s = %s;", prefix, d.Type, d.Name, d.Init)
}

func (p Param) String() string {
	if p.Name == "" {
		return p.Type.String()
	}
	return fmt.Sprintf("%s %s", p.Type, p.Name)
}

func (d *FuncDecl) String() string {
	params := make([]string, len(d.Params))
	for i, p := range d.Params {
		params[i] = p.String()
	}
	if d.Variadic {
		params = append(params, "...")
	}
	prefix := ""
	if d.Extern {
		prefix = "extern "
	}
	if attr := d.Attribute.String(); attr != "" {
		prefix = attr + " " + prefix
	}
	sig := fmt.Sprintf("%s%s %s(%s)", prefix, d.ReturnType, d.Name, strings.Join(params, ", "))
	if d.Body == nil {
		return sig + ";"
	}
	return sig + " " + d.Body.String()
}

func (d *TypedefDecl) String() string {
	return fmt.Sprintf("typedef %s %s;", d.Type, d.Name)
}

func (d *StructDecl) String() string {
	prefix := ""
	if d.Extern {
		prefix = "extern "
	}
	if attr := d.Attribute.String(); attr != "" {
		prefix = attr + " " + prefix
	}
	if d.Fields == nil {
		return fmt.Sprintf("%sstruct %s;", prefix, d.Tag)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%sstruct %s {\n", prefix, d.Tag)
	for _, f := range d.Fields {
		fmt.Fprintf(&b, "%s %s;\n", f.Type, f.Name)
	}
	b.WriteString("}")
	if d.Name2 != "" {
		b.WriteString(" ")
		b.WriteString(d.Name2)
	}
	b.WriteString(";")
	return b.String()
}

func (d *TranslationUnit) String() string {
	parts := make([]string, len(d.Decls))
	for i, decl := range d.Decls {
		parts[i] = decl.String()
	}
	return strings.Join(parts, "\n\n")
}
