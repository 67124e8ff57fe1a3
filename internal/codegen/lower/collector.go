package lower

import (
	"slices"

	"github.com/hades-lang/cstub/internal/codegen/model"
)

// Collector accumulates the declarations of one file in emission order.
// It is append-only and must not be shared between files.
type Collector struct {
	decls []model.Decl
}

func NewCollector() *Collector {
	return &Collector{}
}

// Emit appends d. It does not deduplicate.
func (c *Collector) Emit(d model.Decl) {
	c.decls = append(c.decls, d)
}

// All returns the declarations in the order they were emitted.
func (c *Collector) All() []model.Decl {
	return slices.Clone(c.decls)
}

func (c *Collector) Len() int {
	return len(c.decls)
}
