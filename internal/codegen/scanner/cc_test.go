package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
	"github.com/hades-lang/cstub/internal/codegen/lower"
	"github.com/hades-lang/cstub/internal/codegen/scanner"
)

func writeHeader(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.h")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func lowered(t *testing.T, src string) []string {
	t.Helper()
	return loweredWith(t, src, lower.Options{})
}

func loweredWith(t *testing.T, src string, opts lower.Options) []string {
	t.Helper()
	p, err := scanner.New("cc", scanner.Options{})
	require.NoError(t, err)
	root, err := p.Parse(writeHeader(t, src))
	require.NoError(t, err)
	decls, err := lower.File(root, opts)
	require.NoError(t, err)
	out := make([]string, 0, len(decls))
	for _, d := range decls {
		out = append(out, d.String())
	}
	return out
}

func TestCCProvider(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "typedef of primitive",
			src:  "typedef unsigned char byte_t;\n",
			want: []string{"type byte_t = u8;"},
		},
		{
			name: "struct with fields in order",
			src:  "struct Point { int x; int y; };\n",
			want: []string{"struct Point {\n  val x: i32;\n  val y: i32;\n}"},
		},
		{
			name: "pointers and arrays",
			src:  "struct Buf { const char *name; char *data; unsigned long len; short pad[4]; };\n",
			want: []string{"struct Buf {\n  val name: *i8;\n  val data: *mut i8;\n  val len: u64;\n  val pad: [i16; 4];\n}"},
		},
		{
			name: "typedef of struct defined first",
			src:  "struct Point { int x; int y; };\ntypedef struct Point Point2;\n",
			want: []string{
				"struct Point {\n  val x: i32;\n  val y: i32;\n}",
				"type Point2 = Point;",
			},
		},
		{
			name: "anonymous struct named by typedef",
			src:  "typedef struct { int a; } Wrapped;\n",
			want: []string{"struct Wrapped {\n  val a: i32;\n}"},
		},
		{
			name: "self referential struct",
			src:  "struct Node { int v; struct Node *next; };\n",
			want: []string{"struct Node {\n  val v: i32;\n  val next: *mut Node;\n}"},
		},
		{
			name: "typedef reference",
			src:  "typedef int handle_t;\nstruct Owner { handle_t h; };\n",
			want: []string{
				"type handle_t = i32;",
				"struct Owner {\n  val h: handle_t;\n}",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lowered(t, tt.src))
		})
	}
}

func TestCCProviderConst(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{
			name: "typedef of pointer to const",
			src:  "typedef const char *str_t;\n",
			want: []string{"type str_t = *i8;"},
		},
		{
			name: "const after the specifier",
			src:  "typedef int const *cip;\n",
			want: []string{"type cip = *i32;"},
		},
		{
			name: "field with const after the specifier",
			src:  "struct S { int const *p; };\n",
			want: []string{"struct S {\n  val p: *i32;\n}"},
		},
		{
			name: "const pointer to mutable data",
			src:  "struct S { char *const p; };\n",
			want: []string{"struct S {\n  val p: *mut i8;\n}"},
		},
		{
			name: "qualifiers per pointer level",
			src:  "struct Args { const char *const *argv; const char **envp; };\n",
			want: []string{"struct Args {\n  val argv: **i8;\n  val envp: *mut *i8;\n}"},
		},
		{
			name: "const struct pointee",
			src:  "struct P { int x; };\nstruct Q { const struct P *p; struct P *q; };\n",
			want: []string{
				"struct P {\n  val x: i32;\n}",
				"struct Q {\n  val p: *P;\n  val q: *mut P;\n}",
			},
		},
		{
			name: "const typedef pointee",
			src:  "typedef unsigned long size_t;\nstruct V { const size_t *len; };\n",
			want: []string{
				"type size_t = u64;",
				"struct V {\n  val len: *size_t;\n}",
			},
		},
		{
			name: "const inside a struct body stays with its field",
			src:  "typedef struct H { const int *a; int *b; } *handle_t;\n",
			want: []string{
				"struct H {\n  val a: *i32;\n  val b: *mut i32;\n}",
				"type handle_t = *mut H;",
			},
		},
		{
			name: "several declarators share the specifiers",
			src:  "struct M { const char *a, *b; char *c; };\n",
			want: []string{"struct M {\n  val a: *i8;\n  val b: *i8;\n  val c: *mut i8;\n}"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, lowered(t, tt.src))
		})
	}
}

func TestCCProviderFunctionPointerParams(t *testing.T) {
	got := loweredWith(t, "struct Log { void (*write)(const char *msg, char *buf); };\n", lower.Options{FunctionPointers: true})
	assert.Equal(t, []string{"struct Log {\n  val write: (*i8, *mut i8) -> void;\n}"}, got)
}

func TestCCProviderBareSign(t *testing.T) {
	src := "struct S { signed char a; unsigned b; signed c; unsigned const d; const unsigned e; unsigned /* bits */ f; };\n" +
		"typedef unsigned uint_t;\n"
	assert.Equal(t, []string{
		"struct S {\n  val a: i8;\n  val b: u32;\n  val c: i32;\n  val d: u32;\n  val e: u32;\n  val f: u32;\n}",
		"type uint_t = u32;",
	}, lowered(t, src))
}

func TestCCProviderPositions(t *testing.T) {
	p, err := scanner.New("cc", scanner.Options{})
	require.NoError(t, err)
	path := writeHeader(t, "struct S { int x; };\n\ntypedef int a_t;\n")

	root, err := p.Parse(path)
	require.NoError(t, err)
	require.Equal(t, cnode.NodeTranslationUnit, root.Kind)
	require.Len(t, root.Children, 2)

	assert.Equal(t, cnode.NodeStructDecl, root.Children[0].Kind)
	assert.Equal(t, cnode.NodeTypedefDecl, root.Children[1].Kind)
	assert.Equal(t, path, root.Children[1].File)
	assert.Equal(t, 3, root.Children[1].Line)
}

func TestCCProviderErrors(t *testing.T) {
	p, err := scanner.New("cc", scanner.Options{})
	require.NoError(t, err)

	_, err = p.Parse(filepath.Join(t.TempDir(), "missing.h"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = p.Parse(writeHeader(t, "struct { int;\n"))
	assert.Error(t, err)

	_, err = scanner.New("cc", scanner.Options{IncludeDirs: []string{"/usr/include"}})
	assert.Error(t, err)

	path := writeHeader(t, "struct S {\n  long double d;\n};\n")
	_, err = p.Parse(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":2: unsupported type specifiers \"long double\"")

	path = writeHeader(t, "#ifndef IN_H\n#include \"other.h\"\nstruct S { int x; };\n#endif\n")
	_, err = p.Parse(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path+":2: #include")
}

func TestNew(t *testing.T) {
	_, err := scanner.New("gcc", scanner.Options{})
	assert.ErrorIs(t, err, scanner.ErrUnknownProvider)
	assert.Contains(t, scanner.Names(), "cc")
}
