// Package testing builds C declaration trees for tests without a C parser.
package testing

import (
	"fmt"
	"time"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
)

func TU(decls ...*cnode.Node) *cnode.Node {
	return &cnode.Node{Kind: cnode.NodeTranslationUnit, Children: decls, Definition: true}
}

func Typedef(name string, underlying *cnode.Type) *cnode.Node {
	return &cnode.Node{Kind: cnode.NodeTypedefDecl, Name: name, Type: underlying, Definition: true}
}

func Struct(name string, members ...*cnode.Node) *cnode.Node {
	return &cnode.Node{Kind: cnode.NodeStructDecl, Name: name, Children: members, Definition: true}
}

// ForwardStruct is "struct name;" without a body.
func ForwardStruct(name string) *cnode.Node {
	return &cnode.Node{Kind: cnode.NodeStructDecl, Name: name}
}

func Field(name string, t *cnode.Type) *cnode.Node {
	return &cnode.Node{Kind: cnode.NodeFieldDecl, Name: name, Type: t, Definition: true}
}

func Decl(kind cnode.NodeKind, name string) *cnode.Node {
	return &cnode.Node{Kind: kind, Name: name, Definition: true}
}

func Prim(k cnode.TypeKind) *cnode.Type {
	return &cnode.Type{Kind: k}
}

// Const returns a const-qualified copy of t.
func Const(t *cnode.Type) *cnode.Type {
	c := *t
	c.Const = true
	return &c
}

func Ptr(pointee *cnode.Type) *cnode.Type {
	return &cnode.Type{Kind: cnode.TypePointer, Pointee: pointee}
}

func ArrayOf(elem *cnode.Type, n int64) *cnode.Type {
	return &cnode.Type{Kind: cnode.TypeConstantArray, Elem: elem, Len: n}
}

func TypedefRef(name string) *cnode.Type {
	return &cnode.Type{Kind: cnode.TypeTypedef, Spelling: name, Decl: &cnode.Node{Kind: cnode.NodeTypedefDecl, Name: name}}
}

// Ref is an elaborated reference ("struct Foo") to decl.
func Ref(decl *cnode.Node) *cnode.Type {
	return &cnode.Type{Kind: cnode.TypeElaborated, Spelling: "struct " + decl.Name, Decl: decl}
}

func Func(result *cnode.Type, params ...*cnode.Type) *cnode.Type {
	return &cnode.Type{Kind: cnode.TypeFunctionProto, Result: result, Params: params}
}

// MockProvider serves prebuilt trees by path.
type MockProvider struct {
	Files map[string]*cnode.Node
	// Delay holds Parse back per path, to shuffle completion order.
	Delay map[string]time.Duration
}

func (m *MockProvider) Parse(path string) (*cnode.Node, error) {
	if d := m.Delay[path]; d > 0 {
		time.Sleep(d)
	}
	root, ok := m.Files[path]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", path)
	}
	return root, nil
}
