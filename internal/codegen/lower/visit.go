package lower

import (
	"errors"
	"fmt"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
	"github.com/hades-lang/cstub/internal/codegen/model"
)

// VisitStruct registers the struct declared by n, together with every struct
// its fields reach, and returns its name. A struct already registered in this
// file is not visited again.
func (l *Lowerer) VisitStruct(n *cnode.Node) (string, error) {
	name := n.Name
	if name == "" {
		return "", fmt.Errorf("%w: struct", ErrMissingName)
	}
	if l.visited[name] {
		return name, nil
	}
	// Marked before the fields are lowered so a struct pointing to itself terminates.
	l.visited[name] = true

	if !n.Definition {
		l.trace("Registered opaque struct", "name", name)
		l.collector.Emit(model.StructDef{Name: name})
		return name, nil
	}

	fields := make([]model.Field, 0, len(n.Children))
	seen := make(map[string]bool, len(n.Children))
	for _, child := range n.Children {
		switch child.Kind {
		case cnode.NodeFieldDecl:
		case cnode.NodeStructDecl:
			if _, err := l.VisitStruct(child); err != nil {
				return "", fmt.Errorf("struct %s: %w", name, err)
			}
			continue
		default:
			return "", fmt.Errorf("struct %s: %w: unexpected %s %q", name, ErrMalformedStruct, child.Kind, child.Name)
		}

		if child.Name == "" {
			return "", fmt.Errorf("struct %s: %w", name, ErrMissingFieldName)
		}
		if seen[child.Name] {
			return "", fmt.Errorf("struct %s: %w: duplicate field %q", name, ErrMalformedStruct, child.Name)
		}
		seen[child.Name] = true

		ty, err := l.Lower(child.Type)
		if err != nil {
			return "", fmt.Errorf("struct %s: field %s: %w", name, child.Name, err)
		}
		fields = append(fields, model.Field{Name: child.Name, Type: ty})
	}

	l.trace("Registered struct", "name", name, "fields", len(fields))
	l.collector.Emit(model.StructDef{Name: name, Fields: fields})
	return name, nil
}

// VisitTypedef emits a TypeAlias for the typedef n. Lowering its underlying
// type may register structs first.
func (l *Lowerer) VisitTypedef(n *cnode.Node) error {
	if n.Name == "" {
		return fmt.Errorf("%w: typedef", ErrMissingName)
	}

	ty, err := l.Lower(n.Type)
	if err != nil {
		return fmt.Errorf("typedef %s: %w", n.Name, err)
	}

	// typedef struct Foo Foo; the struct already carries the name.
	if named, ok := ty.(model.Named); ok && named.Name == n.Name {
		l.trace("Dropped self alias", "name", n.Name)
		return nil
	}

	l.trace("Registered alias", "name", n.Name, "type", ty.String())
	l.collector.Emit(model.TypeAlias{Name: n.Name, Underlying: ty})
	return nil
}

// File lowers every top-level declaration under root with a fresh Collector
// and returns the declarations in emission order. The first failure aborts
// the file; its error starts with the declaration's position, or the file's
// when the declaration has none.
func File(root *cnode.Node, opts Options) ([]model.Decl, error) {
	c := NewCollector()
	l := New(c, opts)

	for _, n := range root.Children {
		if opts.Skip != nil && opts.Skip(n.Name) {
			l.trace("Skipped declaration", "kind", n.Kind, "name", n.Name)
			continue
		}

		var err error
		switch n.Kind {
		case cnode.NodeTypedefDecl:
			err = l.VisitTypedef(n)
		case cnode.NodeStructDecl:
			if !n.Definition {
				// The definition, if any, comes later; references resolve to it.
				l.logger.Debug("Skipping struct forward declaration", "name", n.Name, "pos", n.Pos())
				continue
			}
			_, err = l.VisitStruct(n)
		default:
			err = fmt.Errorf("%w: %s %q", ErrUnhandledTopLevelKind, n.Kind, n.Name)
		}

		if err != nil {
			pos := n.Pos()
			if pos == "" {
				pos = root.Pos()
			}
			if pos != "" {
				return nil, fmt.Errorf("%s: %w", pos, err)
			}
			return nil, err
		}
	}

	return c.All(), nil
}

// Verify checks that every named type used by decls is a primitive or one of
// decls. All unresolved references are reported.
func Verify(decls []model.Decl) error {
	declared := make(map[string]bool, len(decls))
	for _, d := range decls {
		declared[d.DeclName()] = true
	}

	var errs []error
	reported := make(map[[2]string]bool)
	for _, d := range decls {
		check := func(t model.Type) {
			model.Walk(t, func(t model.Type) {
				n, ok := t.(model.Named)
				if !ok || model.Primitives[n.Name] || declared[n.Name] {
					return
				}
				key := [2]string{d.DeclName(), n.Name}
				if reported[key] {
					return
				}
				reported[key] = true
				errs = append(errs, fmt.Errorf("%w: %s references %q", ErrUnresolvedReference, d.DeclName(), n.Name))
			})
		}

		switch d := d.(type) {
		case model.StructDef:
			for _, f := range d.Fields {
				check(f.Type)
			}
		case model.TypeAlias:
			check(d.Underlying)
		}
	}
	return errors.Join(errs...)
}
