package model

import "strings"

// Decl is either a StructDef or a TypeAlias.
type Decl interface {
	DeclName() string
	String() string
	isDecl()
}

// Field is a single struct member.
type Field struct {
	Name string
	Type Type
}

// StructDef is a struct definition. Fields keep C declaration order since
// the layout depends on it.
type StructDef struct {
	Name   string
	Fields []Field
}

// TypeAlias introduces Name as another name for Underlying.
type TypeAlias struct {
	Name       string
	Underlying Type
}

func (StructDef) isDecl() {}
func (TypeAlias) isDecl() {}

func (d StructDef) DeclName() string { return d.Name }
func (d TypeAlias) DeclName() string { return d.Name }

func (d StructDef) String() string {
	var b strings.Builder
	b.WriteString("struct ")
	b.WriteString(d.Name)
	b.WriteString(" {\n")
	for _, f := range d.Fields {
		b.WriteString("  val ")
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Type.String())
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func (d TypeAlias) String() string {
	return "type " + d.Name + " = " + d.Underlying.String() + ";"
}
