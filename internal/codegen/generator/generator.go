// Package generator drives a run: it parses and lowers every input file,
// then renders the combined result with one of the registered emitters.
package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"github.com/hades-lang/cstub/internal/codegen/cnode"
	"github.com/hades-lang/cstub/internal/codegen/generator/hades"
	"github.com/hades-lang/cstub/internal/codegen/generator/manifest"
	"github.com/hades-lang/cstub/internal/codegen/lower"
	"github.com/hades-lang/cstub/internal/codegen/meta"
	"github.com/hades-lang/cstub/internal/codegen/scanner"
	"github.com/hades-lang/cstub/internal/log"
)

// Emitter renders a bundle in one output format.
type Emitter func(w io.Writer, b *meta.Bundle) error

var emitters = map[string]Emitter{
	"hades": hades.Emit,
	"json":  manifest.JSON,
	"yaml":  manifest.YAML,
}

var (
	ErrUnknownFormat = errors.New("unknown output format")
	ErrStaleOutput   = errors.New("output is stale")
)

// Formats lists the registered emitters.
func Formats() []string {
	var names []string
	for k := range emitters {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

type Options struct {
	// Jobs bounds how many files are processed at once. Values below 1 mean 1.
	Jobs int
	// Format names the emitter; empty means "hades".
	Format string
	// Skip holds glob patterns of top-level declaration names to ignore.
	Skip []string
	// Verify rejects output that references undeclared names.
	Verify bool
	// FunctionPointers enables lowering of function pointer types.
	FunctionPointers bool
	// Raw, when set, receives each parsed tree before lowering.
	Raw log.RawLogger
}

type Generator struct {
	provider scanner.Provider
	opts     Options
	emit     Emitter
	skip     []glob.Glob
	logger   *slog.Logger
}

func New(provider scanner.Provider, opts Options, logger *slog.Logger) (*Generator, error) {
	if opts.Format == "" {
		opts.Format = "hades"
	}
	emit, ok := emitters[opts.Format]
	if !ok {
		return nil, fmt.Errorf("%w '%s' (supported: %v)", ErrUnknownFormat, opts.Format, Formats())
	}
	if opts.Jobs < 1 {
		opts.Jobs = 1
	}

	skip := make([]glob.Glob, 0, len(opts.Skip))
	for _, pattern := range opts.Skip {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("skip pattern %q: %w", pattern, err)
		}
		skip = append(skip, g)
	}

	return &Generator{
		provider: provider,
		opts:     opts,
		emit:     emit,
		skip:     skip,
		logger:   logger,
	}, nil
}

func (g *Generator) skipped(name string) bool {
	for _, p := range g.skip {
		if p.Match(name) {
			return true
		}
	}
	return false
}

// Process parses and lowers paths. Units come back in input order whatever
// order the workers finish in. The first failure cancels files not yet
// started and is returned alone.
func (g *Generator) Process(ctx context.Context, paths []string) (*meta.Bundle, error) {
	units := make([]meta.Unit, len(paths))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.opts.Jobs)
	for i, path := range paths {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			u, err := g.processFile(path)
			if err != nil {
				return err
			}
			units[i] = u
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	b := &meta.Bundle{Units: units}
	if g.opts.Verify {
		if err := lower.Verify(b.Decls()); err != nil {
			return nil, err
		}
	}
	return b, nil
}

func (g *Generator) processFile(path string) (meta.Unit, error) {
	g.logger.Info("Generating", "file", path)

	// Providers name the file in their own errors.
	root, err := g.provider.Parse(path)
	if err != nil {
		return meta.Unit{}, err
	}
	if g.opts.Raw != nil {
		g.opts.Raw.Log(path, cnode.Dump(root))
	}

	decls, err := lower.File(root, lower.Options{
		FunctionPointers: g.opts.FunctionPointers,
		Skip:             g.skipped,
		Logger:           g.logger.With("file", path),
	})
	if err != nil {
		if root.File == "" {
			err = fmt.Errorf("%s: %w", path, err)
		}
		return meta.Unit{}, err
	}

	g.logger.Debug("Lowered file", "file", path, "decls", len(decls))
	return meta.Unit{Path: path, Decls: decls}, nil
}

// Render encodes b with the configured emitter.
func (g *Generator) Render(b *meta.Bundle) ([]byte, error) {
	var buf bytes.Buffer
	if err := g.emit(&buf, b); err != nil {
		return nil, fmt.Errorf("render %s: %w", g.opts.Format, err)
	}
	return buf.Bytes(), nil
}

// Write stores data at output, creating parent directories. An output of
// "-" writes to stdout instead.
func Write(output string, data []byte, stdout io.Writer) error {
	if output == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	return nil
}
