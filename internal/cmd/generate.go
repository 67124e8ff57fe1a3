package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hades-lang/cstub/internal/codegen/generator"
	"github.com/hades-lang/cstub/internal/codegen/scanner"
	"github.com/hades-lang/cstub/internal/log"
)

// Frontend selects and configures the C parser.
type Frontend struct {
	Provider      string   `help:"C front end: cc (pure Go, no preprocessor) or clang (needs a libclang build)" default:"cc" env:"CSTUB_PROVIDER"`
	Include       []string `short:"I" help:"Include directory (clang provider)" env:"CSTUB_INCLUDE"`
	Define        []string `short:"D" help:"Preprocessor definition NAME[=VALUE] (clang provider)" env:"CSTUB_DEFINE"`
	SystemHeaders bool     `help:"Keep declarations that come from system headers" env:"CSTUB_SYSTEM_HEADERS"`
}

func (f *Frontend) provider() (scanner.Provider, error) {
	return scanner.New(f.Provider, scanner.Options{
		IncludeDirs:   f.Include,
		Defines:       f.Define,
		SystemHeaders: f.SystemHeaders,
	})
}

type Generate struct {
	Inputs []string `arg:"" name:"inputs" help:"C headers to translate, processed in order"`

	Frontend `embed:""`

	Output     string   `short:"o" help:"Destination file, '-' for stdout" default:"out.hds" env:"CSTUB_OUTPUT"`
	Format     string   `help:"Output format: hades, json or yaml" default:"hades" enum:"hades,json,yaml" env:"CSTUB_FORMAT"`
	Jobs       int      `short:"j" help:"Number of files processed in parallel" default:"1" env:"CSTUB_JOBS"`
	Verify     bool     `help:"Fail when a declaration references a name nothing declares" env:"CSTUB_VERIFY"`
	FnPointers bool     `name:"fn-pointers" help:"Lower function pointer types instead of rejecting them" env:"CSTUB_FN_POINTERS"`
	Skip       []string `help:"Glob of top-level declaration names to ignore" env:"CSTUB_SKIP"`
	Check      bool     `help:"Do not write; fail with a diff if the existing output is stale" env:"CSTUB_CHECK"`
}

// Run is called by Kong when the generate command is executed.
func (g *Generate) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return g.Execute(ctx, logger, rawLogger, os.Stdout)
}

func (g *Generate) Execute(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger, stdout io.Writer) error {
	if g.Check && g.Output == "-" {
		return errors.New("--check needs an output file")
	}

	provider, err := g.provider()
	if err != nil {
		return err
	}
	gen, err := generator.New(provider, generator.Options{
		Jobs:             g.Jobs,
		Format:           g.Format,
		Skip:             g.Skip,
		Verify:           g.Verify,
		FunctionPointers: g.FnPointers,
		Raw:              rawLogger,
	}, logger)
	if err != nil {
		return err
	}

	logger.Debug("Starting generation", "inputs", len(g.Inputs), "provider", g.Provider, "jobs", g.Jobs)
	bundle, err := gen.Process(ctx, g.Inputs)
	if err != nil {
		return err
	}
	data, err := gen.Render(bundle)
	if err != nil {
		return err
	}

	if g.Check {
		if err := generator.Check(g.Output, data); err != nil {
			return err
		}
		logger.Info("Output is up to date", "output", g.Output)
		return nil
	}

	if err := generator.Write(g.Output, data, stdout); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("Generation complete", "output", g.Output, "files", len(bundle.Units), "decls", bundle.Len())
	return nil
}
