package meta

import "github.com/hades-lang/cstub/internal/codegen/model"

// Unit holds the declarations lowered from one input file, in emission order.
type Unit struct {
	Path  string
	Decls []model.Decl
}

// Bundle holds every unit of one run in input order.
// Shared between the generator orchestrator and the emitters.
type Bundle struct {
	Units []Unit
}

// Decls flattens the bundle: input order first, then per-file emission order.
func (b *Bundle) Decls() []model.Decl {
	var out []model.Decl
	for _, u := range b.Units {
		out = append(out, u.Decls...)
	}
	return out
}

// Len is the number of declarations across all units.
func (b *Bundle) Len() int {
	n := 0
	for _, u := range b.Units {
		n += len(u.Decls)
	}
	return n
}
