package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/hades-lang/cstub/internal/codegen/generator"
	"github.com/hades-lang/cstub/internal/codegen/generator/manifest"
	"github.com/hades-lang/cstub/internal/codegen/meta"
	"github.com/hades-lang/cstub/internal/codegen/model"
	"github.com/hades-lang/cstub/internal/util"
)

type Scan struct {
	Input string `arg:"" name:"input" help:"C header to inspect" type:"existingfile"`

	Frontend `embed:""`

	Format     string `help:"Output format: auto (tree on a terminal, json otherwise), tree, json or yaml" default:"auto" enum:"auto,tree,json,yaml" env:"CSTUB_SCAN_FORMAT"`
	FnPointers bool   `name:"fn-pointers" help:"Lower function pointer types instead of rejecting them" env:"CSTUB_FN_POINTERS"`
}

// Run is called by Kong when the scan command is executed.
func (s *Scan) Run(logger *slog.Logger) error {
	return s.Execute(context.Background(), logger, os.Stdout)
}

func (s *Scan) Execute(ctx context.Context, logger *slog.Logger, w io.Writer) error {
	provider, err := s.provider()
	if err != nil {
		return err
	}
	gen, err := generator.New(provider, generator.Options{FunctionPointers: s.FnPointers}, logger)
	if err != nil {
		return err
	}
	bundle, err := gen.Process(ctx, []string{s.Input})
	if err != nil {
		return err
	}

	switch resolveScanFormat(s.Format, w) {
	case "tree":
		return renderTree(w, bundle)
	case "yaml":
		return manifest.YAML(w, bundle)
	default:
		return manifest.JSON(w, bundle)
	}
}

func resolveScanFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if !util.EnableANSI(f) {
			pterm.DisableStyling()
		}
		return "tree"
	}
	return "json"
}

func declTree(b *meta.Bundle) pterm.TreeNode {
	var root pterm.TreeNode
	for _, u := range b.Units {
		file := pterm.TreeNode{Text: u.Path}
		for _, d := range u.Decls {
			switch d := d.(type) {
			case model.StructDef:
				node := pterm.TreeNode{Text: "struct " + d.Name}
				if len(d.Fields) == 0 {
					node.Text += " (opaque)"
				}
				for _, f := range d.Fields {
					node.Children = append(node.Children, pterm.TreeNode{Text: f.Name + ": " + f.Type.String()})
				}
				file.Children = append(file.Children, node)
			case model.TypeAlias:
				file.Children = append(file.Children, pterm.TreeNode{Text: "type " + d.Name + " = " + d.Underlying.String()})
			}
		}
		root.Children = append(root.Children, file)
	}
	return root
}

func renderTree(w io.Writer, b *meta.Bundle) error {
	out, err := pterm.DefaultTree.WithRoot(declTree(b)).Srender()
	if err != nil {
		return fmt.Errorf("render tree: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
