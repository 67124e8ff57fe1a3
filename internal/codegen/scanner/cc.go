package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"rsc.io/c2go/cc"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
)

// ccProvider parses with rsc.io/c2go/cc. It does not preprocess, so headers
// must be self-contained: no #include, no macros in types.
type ccProvider struct{}

func newCC(opts Options) (Provider, error) {
	if len(opts.IncludeDirs) > 0 || len(opts.Defines) > 0 {
		return nil, errors.New("cc provider does not preprocess; include dirs and defines need the clang provider")
	}
	return ccProvider{}, nil
}

func (ccProvider) Parse(path string) (*cnode.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	src, err := prepareSource(path, raw)
	if err != nil {
		return nil, err
	}

	// cc reports errors as file:line.
	prog, err := cc.Read(path, bytes.NewReader(src))
	if err != nil {
		return nil, err
	}

	conv := &ccConverter{
		file:   path,
		src:    src,
		lines:  lineStarts(src),
		tagged: make(map[string]*cnode.Node),
	}
	root := &cnode.Node{Kind: cnode.NodeTranslationUnit, Name: path, Definition: true, File: path}
	for _, d := range prog.Decls {
		n, err := conv.topLevel(d)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, d.Span.Start.Line, err)
		}
		root.Children = append(root.Children, n)
	}
	return root, nil
}

var ccKinds = map[cc.TypeKind]cnode.TypeKind{
	cc.Void:      cnode.TypeVoid,
	cc.Char:      cnode.TypeCharS,
	cc.Uchar:     cnode.TypeUChar,
	cc.Short:     cnode.TypeShort,
	cc.Ushort:    cnode.TypeUShort,
	cc.Int:       cnode.TypeInt,
	cc.Uint:      cnode.TypeUInt,
	cc.Long:      cnode.TypeLong,
	cc.Ulong:     cnode.TypeULong,
	cc.Longlong:  cnode.TypeLongLong,
	cc.Ulonglong: cnode.TypeULongLong,
	cc.Float:     cnode.TypeFloat,
	cc.Double:    cnode.TypeDouble,
	cc.Enum:      cnode.TypeEnum,
}

type ccConverter struct {
	file string
	// src is the text cc parsed; spans index into it.
	src   []byte
	lines []int
	// tagged shares one node per struct/union/enum tag, so every reference
	// to a tag resolves to the same declaration and cycles terminate.
	tagged map[string]*cnode.Node
}

func (c *ccConverter) topLevel(d *cc.Decl) (*cnode.Node, error) {
	line := d.Span.Start.Line

	if d.Storage&cc.Typedef != 0 {
		isConst, err := c.specConst(d.Span)
		if err != nil {
			return nil, err
		}
		t, err := c.typ(d.Type, isConst)
		if err != nil {
			return nil, err
		}
		n := &cnode.Node{Kind: cnode.NodeTypedefDecl, Name: d.Name, Type: t, Definition: true, File: c.file, Line: line}
		nameAnonymous(n)
		return n, nil
	}

	if d.Type != nil && d.Name == "" {
		switch d.Type.Kind {
		case cc.Struct, cc.Union, cc.Enum:
			return c.tag(d.Type)
		}
	}

	kind := cnode.NodeVarDecl
	if d.Type != nil && d.Type.Kind == cc.Func {
		kind = cnode.NodeFunctionDecl
	}
	return &cnode.Node{Kind: kind, Name: d.Name, Definition: d.Body != nil, File: c.file, Line: line}, nil
}

func (c *ccConverter) tag(t *cc.Type) (*cnode.Node, error) {
	var kind cnode.NodeKind
	switch t.Kind {
	case cc.Struct:
		kind = cnode.NodeStructDecl
	case cc.Union:
		kind = cnode.NodeUnionDecl
	default:
		kind = cnode.NodeEnumDecl
	}

	key := kind.String() + " " + t.Tag
	n, seen := c.tagged[key]
	if t.Tag == "" || !seen {
		n = &cnode.Node{Kind: kind, Name: t.Tag, File: c.file, Line: t.Span.Start.Line}
		if t.Tag != "" {
			c.tagged[key] = n
		}
	}
	// A forward reference is upgraded in place once the body shows up.
	if n.Definition || t.Decls == nil || kind == cnode.NodeEnumDecl {
		n.Definition = n.Definition || t.Decls != nil
		return n, nil
	}
	n.Definition = true
	n.Line = t.Span.Start.Line

	for _, d := range t.Decls {
		isConst, err := c.specConst(d.Span)
		if err != nil {
			return nil, err
		}
		ft, err := c.typ(d.Type, isConst)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %w", t.Tag, d.Name, err)
		}
		n.Children = append(n.Children, &cnode.Node{
			Kind:       cnode.NodeFieldDecl,
			Name:       d.Name,
			Type:       ft,
			Definition: true,
			File:       c.file,
			Line:       d.Span.Start.Line,
		})
	}
	return n, nil
}

// specConst reports whether the declaration spanning s lists const among its
// specifiers, which cc parses but does not keep.
func (c *ccConverter) specConst(s cc.Span) (bool, error) {
	p := s.Start
	inLine := p.Line >= 1 && p.Line <= len(c.lines) && p.Byte >= c.lines[p.Line-1] &&
		(p.Line == len(c.lines) || p.Byte < c.lines[p.Line])
	if p.File != c.file || !inLine {
		return false, errors.New("cannot locate the declaration's specifiers")
	}
	return specConst(c.src, p.Byte), nil
}

// typ converts t. baseConst qualifies the specifier type at the bottom of the
// declarator chain, e.g. the char of "const char *".
func (c *ccConverter) typ(t *cc.Type, baseConst bool) (*cnode.Type, error) {
	if t == nil {
		return nil, errors.New("type specifiers cc cannot resolve")
	}

	out := &cnode.Type{Const: t.Qual&cc.Const != 0}
	switch t.Kind {
	case cc.Ptr, cc.Array, cc.Func:
	default:
		out.Const = out.Const || baseConst
	}
	if k, ok := ccKinds[t.Kind]; ok {
		out.Kind = k
		return out, nil
	}

	var err error
	switch t.Kind {
	case cc.Ptr:
		out.Kind = cnode.TypePointer
		out.Pointee, err = c.typ(t.Base, baseConst)

	case cc.Array:
		out.Kind = cnode.TypeIncompleteArray
		if t.Width != nil {
			out.Kind = cnode.TypeConstantArray
			if out.Len, err = arrayLen(t.Width); err != nil {
				return nil, err
			}
		}
		out.Elem, err = c.typ(t.Base, baseConst)

	case cc.Struct, cc.Union:
		out.Kind = cnode.TypeElaborated
		out.Spelling = "struct " + t.Tag
		if t.Kind == cc.Union {
			out.Spelling = "union " + t.Tag
		}
		out.Decl, err = c.tag(t)

	case cc.TypedefType:
		out.Kind = cnode.TypeTypedef
		out.Spelling = t.Name
		out.Decl = &cnode.Node{Kind: cnode.NodeTypedefDecl, Name: t.Name, Definition: true}

	case cc.Func:
		out.Kind = cnode.TypeFunctionProto
		if out.Result, err = c.typ(t.Base, baseConst); err != nil {
			return nil, err
		}
		for _, p := range t.Decls {
			if p.Name == "..." {
				out.Variadic = true
				continue
			}
			isConst, err := c.specConst(p.Span)
			if err != nil {
				return nil, err
			}
			pt, err := c.typ(p.Type, isConst)
			if err != nil {
				return nil, err
			}
			out.Params = append(out.Params, pt)
		}

	default:
		out.Kind = cnode.TypeInvalid
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

// arrayLen reads a constant array bound. Only integer literals are accepted
// since nothing here evaluates constant expressions.
func arrayLen(x *cc.Expr) (int64, error) {
	if x.Op != cc.Number {
		return 0, fmt.Errorf("array bound is not an integer literal")
	}
	text := strings.TrimRight(x.Text, "uUlL")
	n, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("array bound %q: %w", x.Text, err)
	}
	return n, nil
}
