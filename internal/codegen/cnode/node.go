// Package cnode is the declaration tree handed to the lowering engine by a C
// front end. Providers in the scanner package build it; nothing in here parses C.
package cnode

import "fmt"

// Node is a declaration: the translation unit itself, a top-level
// declaration, or a member of a struct.
type Node struct {
	Kind     NodeKind
	Name     string
	Children []*Node

	// Type is the declared type of a field or the underlying type of a typedef.
	Type *Type

	// Definition is false for a struct declared without a body.
	Definition bool

	File string
	Line int
}

// Pos formats the source location of the node, or "" when unknown.
func (n *Node) Pos() string {
	if n == nil || n.File == "" {
		return ""
	}
	if n.Line == 0 {
		return n.File
	}
	return fmt.Sprintf("%s:%d", n.File, n.Line)
}

// Type is a type descriptor. Which fields are meaningful depends on Kind:
//
//	ConstantArray      Elem, Len
//	Pointer            Pointee
//	Typedef            Decl (the typedef), Spelling
//	Elaborated/Record  Decl (the struct, union or enum declaration)
//	FunctionProto      Params, Result, Variadic
type Type struct {
	Kind     TypeKind
	Spelling string
	Const    bool

	Elem *Type
	Len  int64

	Pointee *Type

	Decl *Node

	Params   []*Type
	Result   *Type
	Variadic bool
}

// Name returns the name a typedef reference resolves to: the declaration's
// name when known, otherwise the spelling.
func (t *Type) Name() string {
	if t.Decl != nil && t.Decl.Name != "" {
		return t.Decl.Name
	}
	return t.Spelling
}
