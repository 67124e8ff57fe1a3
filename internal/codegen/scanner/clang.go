//go:build libclang

package scanner

import (
	"fmt"

	"github.com/go-clang/clang-v13/clang"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
)

func init() {
	Register("clang", newClang)
}

type clangProvider struct {
	args          []string
	systemHeaders bool
}

func newClang(opts Options) (Provider, error) {
	args := make([]string, 0, len(opts.IncludeDirs)+len(opts.Defines))
	for _, dir := range opts.IncludeDirs {
		args = append(args, "-I"+dir)
	}
	for _, def := range opts.Defines {
		args = append(args, "-D"+def)
	}
	return &clangProvider{args: args, systemHeaders: opts.SystemHeaders}, nil
}

func (p *clangProvider) Parse(path string) (*cnode.Node, error) {
	idx := clang.NewIndex(0, 0)
	defer idx.Dispose()

	tu := idx.ParseTranslationUnit(path, p.args, nil, 0)
	defer tu.Dispose()

	for _, d := range tu.Diagnostics() {
		if d.Severity() >= clang.Diagnostic_Error {
			return nil, fmt.Errorf("parse %s: %s", path, d.Spelling())
		}
	}

	conv := &clangConverter{decls: make(map[string]*cnode.Node)}
	root := &cnode.Node{Kind: cnode.NodeTranslationUnit, Name: path, Definition: true, File: path}
	tu.TranslationUnitCursor().Visit(func(c, _ clang.Cursor) clang.ChildVisitResult {
		if !p.systemHeaders && c.Location().IsInSystemHeader() {
			return clang.ChildVisit_Continue
		}
		root.Children = append(root.Children, conv.cursor(c))
		return clang.ChildVisit_Continue
	})
	return root, nil
}

var clangCursorKinds = map[clang.CursorKind]cnode.NodeKind{
	clang.Cursor_TypedefDecl:  cnode.NodeTypedefDecl,
	clang.Cursor_StructDecl:   cnode.NodeStructDecl,
	clang.Cursor_FieldDecl:    cnode.NodeFieldDecl,
	clang.Cursor_UnionDecl:    cnode.NodeUnionDecl,
	clang.Cursor_EnumDecl:     cnode.NodeEnumDecl,
	clang.Cursor_FunctionDecl: cnode.NodeFunctionDecl,
	clang.Cursor_VarDecl:      cnode.NodeVarDecl,
}

var clangTypeKinds = map[clang.TypeKind]cnode.TypeKind{
	clang.Type_Void:            cnode.TypeVoid,
	clang.Type_Bool:            cnode.TypeBool,
	clang.Type_Char_S:          cnode.TypeCharS,
	clang.Type_Char_U:          cnode.TypeCharS,
	clang.Type_SChar:           cnode.TypeSChar,
	clang.Type_UChar:           cnode.TypeUChar,
	clang.Type_Short:           cnode.TypeShort,
	clang.Type_UShort:          cnode.TypeUShort,
	clang.Type_Int:             cnode.TypeInt,
	clang.Type_UInt:            cnode.TypeUInt,
	clang.Type_Long:            cnode.TypeLong,
	clang.Type_ULong:           cnode.TypeULong,
	clang.Type_LongLong:        cnode.TypeLongLong,
	clang.Type_ULongLong:       cnode.TypeULongLong,
	clang.Type_Int128:          cnode.TypeInt128,
	clang.Type_UInt128:         cnode.TypeUInt128,
	clang.Type_Float:           cnode.TypeFloat,
	clang.Type_Double:          cnode.TypeDouble,
	clang.Type_LongDouble:      cnode.TypeLongDouble,
	clang.Type_Typedef:         cnode.TypeTypedef,
	clang.Type_ConstantArray:   cnode.TypeConstantArray,
	clang.Type_IncompleteArray: cnode.TypeIncompleteArray,
	clang.Type_Pointer:         cnode.TypePointer,
	clang.Type_Elaborated:      cnode.TypeElaborated,
	clang.Type_Record:          cnode.TypeRecord,
	clang.Type_Enum:            cnode.TypeEnum,
	clang.Type_FunctionProto:   cnode.TypeFunctionProto,
	clang.Type_FunctionNoProto: cnode.TypeFunctionNoProto,
}

type clangConverter struct {
	// decls is keyed by USR so a struct referenced from many places maps to
	// one node, and self references close the loop instead of recursing.
	decls map[string]*cnode.Node
}

func (c *clangConverter) cursor(cur clang.Cursor) *cnode.Node {
	usr := cur.USR()
	n, cached := c.decls[usr]
	if cached && (n.Definition || !cur.IsCursorDefinition()) {
		return n
	}
	// A forward declaration seen first is filled in place once the
	// definition shows up, so earlier references see the fields too.
	if !cached {
		n = &cnode.Node{}
		if usr != "" {
			c.decls[usr] = n
		}
	}

	kind, ok := clangCursorKinds[cur.Kind()]
	if !ok {
		kind = cnode.NodeOther
	}
	file, line, _, _ := cur.Location().FileLocation()
	n.Kind = kind
	n.Name = cur.Spelling()
	n.Definition = cur.IsCursorDefinition()
	n.File = file.Name()
	n.Line = int(line)

	switch kind {
	case cnode.NodeTypedefDecl:
		n.Type = c.typ(cur.TypedefDeclUnderlyingType())
		nameAnonymous(n)
	case cnode.NodeFieldDecl:
		n.Type = c.typ(cur.Type())
	case cnode.NodeStructDecl, cnode.NodeUnionDecl:
		n.Children = nil
		cur.Visit(func(child, _ clang.Cursor) clang.ChildVisitResult {
			if child.Kind().IsAttribute() {
				return clang.ChildVisit_Continue
			}
			n.Children = append(n.Children, c.cursor(child))
			return clang.ChildVisit_Continue
		})
	}
	return n
}

func (c *clangConverter) typ(t clang.Type) *cnode.Type {
	k, ok := clangTypeKinds[t.Kind()]
	if !ok {
		k = cnode.TypeInvalid
	}
	out := &cnode.Type{Kind: k, Spelling: t.Spelling(), Const: t.IsConstQualified()}

	switch k {
	case cnode.TypePointer:
		out.Pointee = c.typ(t.PointeeType())
	case cnode.TypeConstantArray:
		out.Elem = c.typ(t.ArrayElementType())
		out.Len = t.ArraySize()
	case cnode.TypeIncompleteArray:
		out.Elem = c.typ(t.ArrayElementType())
	case cnode.TypeTypedef, cnode.TypeEnum:
		out.Decl = c.declOf(t)
	case cnode.TypeElaborated, cnode.TypeRecord:
		// Resolve to the definition when the file has one, so the lowered
		// struct carries its fields even when referenced before it is defined.
		out.Decl = c.declOf(t)
	case cnode.TypeFunctionProto:
		out.Result = c.typ(t.ResultType())
		for i := int32(0); i < t.NumArgTypes(); i++ {
			out.Params = append(out.Params, c.typ(t.ArgType(uint32(i))))
		}
		out.Variadic = t.IsFunctionTypeVariadic()
	}
	return out
}

func (c *clangConverter) declOf(t clang.Type) *cnode.Node {
	d := t.Declaration()
	if d.IsNull() {
		return nil
	}
	if def := d.Definition(); !def.IsNull() {
		d = def
	}
	return c.cursor(d)
}
