// Package hades renders lowered declarations as a Hades source file.
package hades

import (
	"io"
	"text/template"

	"github.com/hades-lang/cstub/internal/codegen/meta"
)

const Preamble = "import hades.ffi.c as c"

const fileTmpl = `{{.Preamble}}

{{range .Decls}}{{.}}

{{end}}`

var tmpl = template.Must(template.New("out.hds").Parse(fileTmpl))

// Emit writes the preamble and then every declaration of b, each followed by
// a blank line.
func Emit(w io.Writer, b *meta.Bundle) error {
	return tmpl.Execute(w, struct {
		Preamble string
		Decls    []string
	}{
		Preamble: Preamble,
		Decls:    declStrings(b),
	})
}

func declStrings(b *meta.Bundle) []string {
	decls := b.Decls()
	out := make([]string, len(decls))
	for i, d := range decls {
		out[i] = d.String()
	}
	return out
}
