// Package scanner turns C headers into cnode declaration trees.
//
// The pure-Go "cc" provider is always available. The "clang" provider wraps
// libclang and is compiled in with the libclang build tag.
package scanner

import (
	"errors"
	"fmt"
	"sort"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
)

// Provider parses one file into a translation unit node whose children are
// the file's top-level declarations in source order. Parse errors name the
// file.
type Provider interface {
	Parse(path string) (*cnode.Node, error)
}

// Options configure a provider. Not every provider honours every option.
type Options struct {
	IncludeDirs []string
	Defines     []string
	// SystemHeaders keeps declarations that come from system headers.
	SystemHeaders bool
}

type Factory func(opts Options) (Provider, error)

var ErrUnknownProvider = errors.New("unknown provider")

var providers = map[string]Factory{
	"cc": newCC,
}

// Register makes a provider available under name.
func Register(name string, f Factory) {
	providers[name] = f
}

// New builds the named provider.
func New(name string, opts Options) (Provider, error) {
	f, ok := providers[name]
	if !ok {
		return nil, fmt.Errorf("%w '%s' (supported: %v)", ErrUnknownProvider, name, Names())
	}
	return f(opts)
}

// Names lists the registered providers.
func Names() []string {
	names := make([]string, 0, len(providers))
	for k := range providers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// nameAnonymous gives `typedef struct { ... } Name;` the typedef's name, the
// only name such a struct has.
func nameAnonymous(typedef *cnode.Node) {
	if typedef.Type == nil || typedef.Type.Decl == nil {
		return
	}
	d := typedef.Type.Decl
	if d.Name == "" && d.Kind == cnode.NodeStructDecl {
		d.Name = typedef.Name
	}
}
