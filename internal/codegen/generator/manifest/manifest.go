// Package manifest dumps lowered declarations as structured JSON or YAML,
// for tooling that wants the mapping without parsing Hades.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hades-lang/cstub/internal/codegen/common"
	"github.com/hades-lang/cstub/internal/codegen/meta"
	"github.com/hades-lang/cstub/internal/codegen/model"
)

type Manifest struct {
	Generator string `json:"generator" yaml:"generator"`
	Version   string `json:"version" yaml:"version"`
	Files     []File `json:"files" yaml:"files"`
}

type File struct {
	Path  string `json:"path" yaml:"path"`
	Decls []Decl `json:"decls" yaml:"decls"`
}

// Decl is either a struct (Kind "struct", Fields set) or an alias
// (Kind "alias", Type set). Types are spelled in Hades syntax.
type Decl struct {
	Kind   string  `json:"kind" yaml:"kind"`
	Name   string  `json:"name" yaml:"name"`
	Fields []Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	Type   string  `json:"type,omitempty" yaml:"type,omitempty"`
}

type Field struct {
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// Build converts b into its manifest form.
func Build(b *meta.Bundle) (*Manifest, error) {
	version, err := common.GetVersion()
	if err != nil {
		return nil, fmt.Errorf("get version: %w", err)
	}

	m := &Manifest{Generator: "cstub", Version: version, Files: make([]File, 0, len(b.Units))}
	for _, u := range b.Units {
		f := File{Path: u.Path, Decls: make([]Decl, 0, len(u.Decls))}
		for _, d := range u.Decls {
			switch d := d.(type) {
			case model.StructDef:
				sd := Decl{Kind: "struct", Name: d.Name, Fields: make([]Field, 0, len(d.Fields))}
				for _, fld := range d.Fields {
					sd.Fields = append(sd.Fields, Field{Name: fld.Name, Type: fld.Type.String()})
				}
				f.Decls = append(f.Decls, sd)
			case model.TypeAlias:
				f.Decls = append(f.Decls, Decl{Kind: "alias", Name: d.Name, Type: d.Underlying.String()})
			default:
				return nil, fmt.Errorf("unexpected declaration %T", d)
			}
		}
		m.Files = append(m.Files, f)
	}
	return m, nil
}

func JSON(w io.Writer, b *meta.Bundle) error {
	m, err := Build(b)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

func YAML(w io.Writer, b *meta.Bundle) error {
	m, err := Build(b)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}
