// Package model holds the Hades side of a translation: the closed set of
// target types and the declarations built from them. Every value prints
// itself in Hades syntax via String.
package model

import (
	"strconv"
	"strings"
)

// Type is one of Named, Array, Pointer, MutPointer or FuncPointer.
type Type interface {
	String() string
	isType()
}

// Named refers to a primitive or a declared type by its Hades identifier.
type Named struct {
	Name string
}

// Array is a fixed-size array. Len counts elements, not bytes.
type Array struct {
	Elem Type
	Len  int64
}

// Pointer is a pointer through which the pointee cannot be mutated.
type Pointer struct {
	Pointee Type
}

// MutPointer is a pointer through which the pointee can be mutated.
type MutPointer struct {
	Pointee Type
}

// FuncPointer is a pointer to a function with the given signature.
type FuncPointer struct {
	Params []Type
	Result Type
}

func (Named) isType()       {}
func (Array) isType()       {}
func (Pointer) isType()     {}
func (MutPointer) isType()  {}
func (FuncPointer) isType() {}

func (t Named) String() string { return t.Name }

func (t Array) String() string {
	return "[" + t.Elem.String() + "; " + strconv.FormatInt(t.Len, 10) + "]"
}

func (t Pointer) String() string { return "*" + t.Pointee.String() }

func (t MutPointer) String() string { return "*mut " + t.Pointee.String() }

func (t FuncPointer) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> " + t.Result.String()
}

// Primitives are the Named types that never need a declaration.
var Primitives = map[string]bool{
	"u8":   true,
	"i8":   true,
	"u16":  true,
	"i16":  true,
	"u32":  true,
	"i32":  true,
	"u64":  true,
	"i64":  true,
	"void": true,
}

// Walk calls fn for t and every type nested inside it, outermost first.
func Walk(t Type, fn func(Type)) {
	if t == nil {
		return
	}
	fn(t)
	switch t := t.(type) {
	case Array:
		Walk(t.Elem, fn)
	case Pointer:
		Walk(t.Pointee, fn)
	case MutPointer:
		Walk(t.Pointee, fn)
	case FuncPointer:
		for _, p := range t.Params {
			Walk(p, fn)
		}
		Walk(t.Result, fn)
	}
}
