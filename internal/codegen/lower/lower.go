// Package lower turns C declarations into Hades declarations.
//
// A Lowerer walks one file. Lowering a field or typedef type may discover a
// struct; that struct is registered with the file's Collector before the
// reference to it is returned, so a struct always precedes its first user in
// the output. Each struct name is registered at most once per file.
package lower

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
	"github.com/hades-lang/cstub/internal/codegen/model"
	"github.com/hades-lang/cstub/internal/log"
)

// Options tune a Lowerer. The zero value follows the default mapping.
type Options struct {
	// FunctionPointers lowers pointers to function prototypes to
	// model.FuncPointer instead of rejecting them.
	FunctionPointers bool

	// Skip reports whether a top-level declaration should be ignored.
	Skip func(name string) bool

	Logger *slog.Logger
}

// primitives maps the supported scalar kinds to their Hades names.
var primitives = map[cnode.TypeKind]string{
	cnode.TypeUChar:  "u8",
	cnode.TypeCharS:  "i8",
	cnode.TypeSChar:  "i8",
	cnode.TypeUShort: "u16",
	cnode.TypeShort:  "i16",
	cnode.TypeUInt:   "u32",
	cnode.TypeInt:    "i32",
	cnode.TypeULong:  "u64",
	cnode.TypeLong:   "i64",
	cnode.TypeVoid:   "void",
}

type Lowerer struct {
	opts      Options
	logger    *slog.Logger
	collector *Collector
	visited   map[string]bool
}

// New returns a Lowerer that emits into c.
func New(c *Collector, opts Options) *Lowerer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Lowerer{
		opts:      opts,
		logger:    logger,
		collector: c,
		visited:   make(map[string]bool),
	}
}

// Lower maps one C type descriptor to a Hades type.
func (l *Lowerer) Lower(t *cnode.Type) (model.Type, error) {
	if t == nil {
		return nil, fmt.Errorf("%w: missing type descriptor", ErrUnsupportedType)
	}

	if name, ok := primitives[t.Kind]; ok {
		return model.Named{Name: name}, nil
	}

	switch t.Kind {
	case cnode.TypeTypedef:
		name := t.Name()
		if name == "" {
			return nil, fmt.Errorf("%w: typedef reference", ErrMissingName)
		}
		return model.Named{Name: name}, nil

	case cnode.TypeConstantArray:
		if t.Len < 0 {
			return nil, fmt.Errorf("%w: array of negative length %d", ErrUnsupportedType, t.Len)
		}
		elem, err := l.Lower(t.Elem)
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		return model.Array{Elem: elem, Len: t.Len}, nil

	case cnode.TypePointer:
		if t.Pointee != nil && t.Pointee.Kind == cnode.TypeFunctionProto && l.opts.FunctionPointers {
			return l.lowerFuncPointer(t.Pointee)
		}
		pointee, err := l.Lower(t.Pointee)
		if err != nil {
			return nil, fmt.Errorf("pointee: %w", err)
		}
		// Only the pointee's qualifier matters; "int *const" is still mutable.
		if t.Pointee.Const {
			return model.Pointer{Pointee: pointee}, nil
		}
		return model.MutPointer{Pointee: pointee}, nil

	case cnode.TypeElaborated, cnode.TypeRecord:
		if t.Decl == nil {
			return nil, unsupported(t)
		}
		if t.Decl.Kind != cnode.NodeStructDecl {
			return nil, fmt.Errorf("%w: %s referring to %s %q", ErrUnsupportedType, t.Kind, t.Decl.Kind, t.Decl.Name)
		}
		name, err := l.VisitStruct(t.Decl)
		if err != nil {
			return nil, err
		}
		return model.Named{Name: name}, nil
	}

	return nil, unsupported(t)
}

func (l *Lowerer) lowerFuncPointer(fn *cnode.Type) (model.Type, error) {
	if fn.Variadic {
		return nil, fmt.Errorf("%w: variadic function pointer", ErrUnsupportedType)
	}

	params := fn.Params
	if len(params) == 1 && params[0] != nil && params[0].Kind == cnode.TypeVoid {
		params = nil
	}

	out := model.FuncPointer{Params: make([]model.Type, 0, len(params))}
	for i, p := range params {
		pt, err := l.Lower(p)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		out.Params = append(out.Params, pt)
	}

	result, err := l.Lower(fn.Result)
	if err != nil {
		return nil, fmt.Errorf("result: %w", err)
	}
	out.Result = result
	return out, nil
}

func unsupported(t *cnode.Type) error {
	if t.Spelling != "" {
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedType, t.Kind, t.Spelling)
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedType, t.Kind)
}

func (l *Lowerer) trace(msg string, args ...any) {
	l.logger.Log(context.Background(), log.LevelTrace, msg, args...)
}
