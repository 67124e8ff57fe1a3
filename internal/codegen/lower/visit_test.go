package lower_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
	"github.com/hades-lang/cstub/internal/codegen/lower"
	"github.com/hades-lang/cstub/internal/codegen/model"
	th "github.com/hades-lang/cstub/internal/testing"
)

func i32() *cnode.Type { return th.Prim(cnode.TypeInt) }

func TestFile(t *testing.T) {
	point := th.Struct("Point", th.Field("x", i32()), th.Field("y", i32()))
	pointDef := model.StructDef{Name: "Point", Fields: []model.Field{
		{Name: "x", Type: named("i32")},
		{Name: "y", Type: named("i32")},
	}}

	tests := []struct {
		name string
		root *cnode.Node
		want []model.Decl
	}{
		{
			name: "typedef unsigned char",
			root: th.TU(th.Typedef("byte_t", th.Prim(cnode.TypeUChar))),
			want: []model.Decl{model.TypeAlias{Name: "byte_t", Underlying: named("u8")}},
		},
		{
			name: "struct Point",
			root: th.TU(point),
			want: []model.Decl{pointDef},
		},
		{
			name: "struct Line referencing Point twice",
			root: th.TU(th.Struct("Line", th.Field("a", th.Ref(point)), th.Field("b", th.Ref(point)))),
			want: []model.Decl{
				pointDef,
				model.StructDef{Name: "Line", Fields: []model.Field{
					{Name: "a", Type: named("Point")},
					{Name: "b", Type: named("Point")},
				}},
			},
		},
		{
			name: "Point declared before Line",
			root: th.TU(point, th.Struct("Line", th.Field("a", th.Ref(point)), th.Field("b", th.Ref(point)))),
			want: []model.Decl{
				pointDef,
				model.StructDef{Name: "Line", Fields: []model.Field{
					{Name: "a", Type: named("Point")},
					{Name: "b", Type: named("Point")},
				}},
			},
		},
		{
			name: "char buffer",
			root: th.TU(th.Struct("Buf", th.Field("data", th.ArrayOf(th.Prim(cnode.TypeCharS), 16)))),
			want: []model.Decl{model.StructDef{Name: "Buf", Fields: []model.Field{
				{Name: "data", Type: model.Array{Elem: named("i8"), Len: 16}},
			}}},
		},
		{
			name: "const and mutable pointers",
			root: th.TU(th.Struct("Ptrs",
				th.Field("ro", th.Ptr(th.Const(i32()))),
				th.Field("rw", th.Ptr(i32())),
			)),
			want: []model.Decl{model.StructDef{Name: "Ptrs", Fields: []model.Field{
				{Name: "ro", Type: model.Pointer{Pointee: named("i32")}},
				{Name: "rw", Type: model.MutPointer{Pointee: named("i32")}},
			}}},
		},
		{
			name: "typedef of a struct registers the struct first",
			root: th.TU(th.Typedef("point_t", th.Ref(point))),
			want: []model.Decl{pointDef, model.TypeAlias{Name: "point_t", Underlying: named("Point")}},
		},
		{
			name: "self alias is dropped",
			root: th.TU(th.Typedef("Point", th.Ref(point))),
			want: []model.Decl{pointDef},
		},
		{
			name: "shared nested struct across two structs",
			root: th.TU(
				th.Struct("A", th.Field("p", th.Ref(point))),
				th.Struct("B", th.Field("p", th.Ptr(th.Ref(point)))),
			),
			want: []model.Decl{
				pointDef,
				model.StructDef{Name: "A", Fields: []model.Field{{Name: "p", Type: named("Point")}}},
				model.StructDef{Name: "B", Fields: []model.Field{{Name: "p", Type: model.MutPointer{Pointee: named("Point")}}}},
			},
		},
		{
			name: "empty file",
			root: th.TU(),
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lower.File(tt.root, lower.Options{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFieldOrderPreserved(t *testing.T) {
	s := th.Struct("S",
		th.Field("c", th.Prim(cnode.TypeUChar)),
		th.Field("a", th.Prim(cnode.TypeLong)),
		th.Field("b", th.Prim(cnode.TypeShort)),
	)
	got, err := lower.File(th.TU(s), lower.Options{})
	require.NoError(t, err)
	require.Len(t, got, 1)

	def := got[0].(model.StructDef)
	var names []string
	for _, f := range def.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"c", "a", "b"}, names)
}

func TestNestedStructDeclaration(t *testing.T) {
	inner := th.Struct("Inner", th.Field("v", th.Prim(cnode.TypeUInt)))
	outer := th.Struct("Outer", inner, th.Field("in", th.Ref(inner)), th.Field("n", i32()))

	got, err := lower.File(th.TU(outer), lower.Options{})
	require.NoError(t, err)
	assert.Equal(t, []model.Decl{
		model.StructDef{Name: "Inner", Fields: []model.Field{{Name: "v", Type: named("u32")}}},
		model.StructDef{Name: "Outer", Fields: []model.Field{
			{Name: "in", Type: named("Inner")},
			{Name: "n", Type: named("i32")},
		}},
	}, got)
}

func TestSelfReferentialStruct(t *testing.T) {
	node := th.Struct("Node", th.Field("value", i32()))
	node.Children = append(node.Children, th.Field("next", th.Ptr(th.Ref(node))))

	got, err := lower.File(th.TU(node), lower.Options{})
	require.NoError(t, err)
	assert.Equal(t, []model.Decl{
		model.StructDef{Name: "Node", Fields: []model.Field{
			{Name: "value", Type: named("i32")},
			{Name: "next", Type: model.MutPointer{Pointee: named("Node")}},
		}},
	}, got)
}

func TestForwardDeclarations(t *testing.T) {
	t.Run("top-level forward declaration does not shadow the definition", func(t *testing.T) {
		got, err := lower.File(th.TU(
			th.ForwardStruct("Point"),
			th.Struct("Point", th.Field("x", i32())),
		), lower.Options{})
		require.NoError(t, err)
		assert.Equal(t, []model.Decl{
			model.StructDef{Name: "Point", Fields: []model.Field{{Name: "x", Type: named("i32")}}},
		}, got)
	})

	t.Run("reference to an undefined struct is opaque", func(t *testing.T) {
		handle := th.ForwardStruct("handle")
		got, err := lower.File(th.TU(th.Typedef("handle_t", th.Ptr(th.Ref(handle)))), lower.Options{})
		require.NoError(t, err)
		assert.Equal(t, []model.Decl{
			model.StructDef{Name: "handle"},
			model.TypeAlias{Name: "handle_t", Underlying: model.MutPointer{Pointee: named("handle")}},
		}, got)
	})
}

func TestFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		root    *cnode.Node
		wantErr error
		msg     string
	}{
		{
			name:    "unsupported field type",
			root:    th.TU(th.Struct("S", th.Field("d", th.Prim(cnode.TypeDouble)))),
			wantErr: lower.ErrUnsupportedType,
			msg:     "struct S: field d",
		},
		{
			name:    "anonymous struct",
			root:    th.TU(th.Struct("", th.Field("x", i32()))),
			wantErr: lower.ErrMissingName,
		},
		{
			name:    "unnamed field",
			root:    th.TU(th.Struct("S", th.Field("", i32()))),
			wantErr: lower.ErrMissingFieldName,
			msg:     "struct S",
		},
		{
			name:    "non-field member",
			root:    th.TU(th.Struct("S", th.Decl(cnode.NodeUnionDecl, "u"))),
			wantErr: lower.ErrMalformedStruct,
			msg:     "UnionDecl",
		},
		{
			name:    "duplicate field",
			root:    th.TU(th.Struct("S", th.Field("x", i32()), th.Field("x", i32()))),
			wantErr: lower.ErrMalformedStruct,
			msg:     `duplicate field "x"`,
		},
		{
			name:    "function at top level",
			root:    th.TU(th.Decl(cnode.NodeFunctionDecl, "main")),
			wantErr: lower.ErrUnhandledTopLevelKind,
			msg:     `FunctionDecl "main"`,
		},
		{
			name:    "union at top level",
			root:    th.TU(th.Decl(cnode.NodeUnionDecl, "U")),
			wantErr: lower.ErrUnhandledTopLevelKind,
		},
		{
			name:    "typedef of a union",
			root:    th.TU(th.Typedef("u_t", th.Ref(th.Decl(cnode.NodeUnionDecl, "U")))),
			wantErr: lower.ErrUnsupportedType,
			msg:     "typedef u_t",
		},
		{
			name:    "unsupported type inside a nested struct",
			root:    th.TU(th.Struct("Outer", th.Field("in", th.Ref(th.Struct("Inner", th.Field("f", th.Prim(cnode.TypeFloat))))))),
			wantErr: lower.ErrUnsupportedType,
			msg:     "struct Outer: field in: struct Inner: field f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := lower.File(tt.root, lower.Options{})
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, got)
			if tt.msg != "" {
				assert.Contains(t, err.Error(), tt.msg)
			}
		})
	}
}

func TestFileErrorCarriesPosition(t *testing.T) {
	fn := th.Decl(cnode.NodeFunctionDecl, "f")
	fn.File, fn.Line = "api.h", 12

	_, err := lower.File(th.TU(fn), lower.Options{})
	require.ErrorIs(t, err, lower.ErrUnhandledTopLevelKind)
	assert.Contains(t, err.Error(), "api.h:12")
}

func TestFileErrorFallsBackToFilePosition(t *testing.T) {
	root := th.TU(th.Decl(cnode.NodeFunctionDecl, "f"))
	root.File = "api.h"

	_, err := lower.File(root, lower.Options{})
	require.ErrorIs(t, err, lower.ErrUnhandledTopLevelKind)
	assert.True(t, strings.HasPrefix(err.Error(), "api.h: "), err.Error())
}

func TestFileFailsFast(t *testing.T) {
	_, err := lower.File(th.TU(
		th.Decl(cnode.NodeVarDecl, "v"),
		th.Struct("S", th.Field("d", th.Prim(cnode.TypeDouble))),
	), lower.Options{})
	require.ErrorIs(t, err, lower.ErrUnhandledTopLevelKind)
	assert.False(t, errors.Is(err, lower.ErrUnsupportedType))
}

func TestFileSkip(t *testing.T) {
	got, err := lower.File(th.TU(
		th.Decl(cnode.NodeFunctionDecl, "__builtin_thing"),
		th.Typedef("byte_t", th.Prim(cnode.TypeUChar)),
	), lower.Options{Skip: func(name string) bool { return name == "__builtin_thing" }})
	require.NoError(t, err)
	assert.Equal(t, []model.Decl{model.TypeAlias{Name: "byte_t", Underlying: named("u8")}}, got)
}

func TestFilesDoNotShareState(t *testing.T) {
	point := th.Struct("Point", th.Field("x", i32()))
	for range 2 {
		got, err := lower.File(th.TU(th.Typedef("p", th.Ref(point))), lower.Options{})
		require.NoError(t, err)
		assert.Len(t, got, 2)
	}
}

func TestVerify(t *testing.T) {
	t.Run("resolved", func(t *testing.T) {
		decls := []model.Decl{
			model.StructDef{Name: "Point", Fields: []model.Field{{Name: "x", Type: named("i32")}}},
			model.TypeAlias{Name: "point_ptr", Underlying: model.Pointer{Pointee: named("Point")}},
			model.TypeAlias{Name: "points", Underlying: model.Array{Elem: named("point_ptr"), Len: 2}},
		}
		assert.NoError(t, lower.Verify(decls))
	})

	t.Run("unresolved", func(t *testing.T) {
		decls := []model.Decl{
			model.StructDef{Name: "S", Fields: []model.Field{
				{Name: "n", Type: named("size_t")},
				{Name: "m", Type: model.MutPointer{Pointee: named("size_t")}},
			}},
			model.TypeAlias{Name: "cb", Underlying: model.FuncPointer{Params: []model.Type{named("FILE")}, Result: named("void")}},
		}
		err := lower.Verify(decls)
		require.ErrorIs(t, err, lower.ErrUnresolvedReference)
		assert.Contains(t, err.Error(), `S references "size_t"`)
		assert.Contains(t, err.Error(), `cb references "FILE"`)
		assert.Equal(t, 1, strings.Count(err.Error(), `"size_t"`))
	})
}

