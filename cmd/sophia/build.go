package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/mattn/go-isatty"
	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/funvibe/sophia/internal/analyzer"
	"github.com/funvibe/sophia/internal/backend"
	"github.com/funvibe/sophia/internal/buildcache"
	"github.com/funvibe/sophia/internal/codegen"
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/diagnostics"
	"github.com/funvibe/sophia/internal/pipeline"
	"github.com/funvibe/sophia/internal/prettyprinter"
	"github.com/funvibe/sophia/internal/treeio"
	"github.com/funvibe/sophia/internal/vm"
)

var ErrDiagnostics = errors.New("program has diagnostics")

// overrides are command line values that replace project file settings.
type overrides struct {
	Config string
	Entry  string
	Out    string
	Cache  string
	Color  string
}

func flagOverrides(c *cli.Command) overrides {
	return overrides{
		Config: c.String("config"),
		Entry:  c.String("entry"),
		Color:  c.String("color"),
	}
}

// loadProject finds the project file for the tree at path and applies o.
func loadProject(path string, o overrides) (*config.Project, error) {
	cfg := o.Config
	if cfg == "" {
		found, err := config.FindProject(filepath.Dir(path))
		if err != nil {
			return nil, err
		}
		cfg = found
	}

	p := config.DefaultProject()
	if cfg != "" {
		var err error
		p, err = config.LoadProject(cfg)
		if err != nil {
			return nil, err
		}
	}

	if o.Entry != "" {
		p.Entry = o.Entry
	}
	if o.Out != "" {
		p.Output = o.Out
	}
	if o.Cache != "" {
		p.Cache = o.Cache
	}

	switch o.Color {
	case "", "auto":
	case "always":
		on := true
		p.Color = &on
	case "never":
		off := false
		p.Color = &off
	default:
		return nil, errors.New("unknown color mode %q", o.Color)
	}

	return p, nil
}

// useColor decides whether diagnostics written to f are colored.
func useColor(p *config.Project, f *os.File) bool {
	if p.Color != nil {
		return *p.Color
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func rootContext(c *cli.Command) context.Context {
	if v := c.String("v"); v != "" {
		tlog.SetVerbosity(v)
	}
	return tlog.ContextWithSpan(context.Background(), tlog.Root())
}

// build runs the front stages on one tree and then the extra stages.
func build(ctx context.Context, path string, p *config.Project, stdout io.Writer, extra ...pipeline.Processor) (_ *pipeline.PipelineContext, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "build", "file", path)
	defer tr.Finish("err", &err)

	src, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read %v", path)
	}

	pc := pipeline.NewPipelineContext(ctx, path, src)
	pc.Project = p
	pc.Stdout = stdout

	stages := []pipeline.Processor{
		&treeio.TreeDecodeProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
	}
	stages = append(stages, extra...)

	pc = pipeline.New(stages...).Run(pc)

	if len(pc.Errors) != 0 {
		if rerr := diagnostics.Render(os.Stderr, pc.Errors, useColor(p, os.Stderr)); rerr != nil {
			return pc, rerr
		}
		return pc, errors.Wrap(ErrDiagnostics, "%v: %d", path, len(pc.Errors))
	}
	if pc.Err != nil {
		return pc, errors.Wrap(pc.Err, "%v", path)
	}

	return pc, nil
}

func checkAct(c *cli.Command) error {
	ctx := rootContext(c)
	o := flagOverrides(c)

	var failed error
	for _, a := range c.Args {
		p, err := loadProject(a, o)
		if err != nil {
			return err
		}
		if _, err := build(ctx, a, p, io.Discard); err != nil {
			if !errors.Is(err, ErrDiagnostics) {
				return err
			}
			failed = err
		}
	}

	return failed
}

func compileAct(c *cli.Command) error {
	ctx := rootContext(c)
	o := flagOverrides(c)
	o.Out = c.String("out")
	o.Cache = c.String("cache")

	for _, a := range c.Args {
		p, err := loadProject(a, o)
		if err != nil {
			return err
		}
		if err := compileFile(ctx, a, p); err != nil {
			return err
		}
	}

	return nil
}

func compileFile(ctx context.Context, path string, p *config.Project) error {
	w := &backend.UnitWriter{Dir: p.Output}

	if p.Cache != "" {
		cache, err := buildcache.Open(ctx, p.Cache)
		if err != nil {
			return err
		}
		defer cache.Close()

		src, err := os.ReadFile(path)
		if err != nil {
			return errors.Wrap(err, "read %v", path)
		}

		rendered, ok, err := cache.Get(ctx, backend.CacheDigest(src, p))
		if err != nil {
			return err
		}
		if ok {
			files, err := backend.WriteRendered(p.Output, rendered)
			if err != nil {
				return err
			}
			tlog.SpanFromContext(ctx).Printw("cache hit", "file", path, "units", len(files))
			return nil
		}

		w.Cache = cache
	}

	_, err := build(ctx, path, p, io.Discard,
		&codegen.CodegenProcessor{},
		backend.NewExecutionProcessor(w),
	)
	return err
}

func runAct(c *cli.Command) error {
	if len(c.Args) != 1 {
		return errors.New("run takes exactly one tree")
	}

	ctx := rootContext(c)

	p, err := loadProject(c.Args[0], flagOverrides(c))
	if err != nil {
		return err
	}

	_, err = build(ctx, c.Args[0], p, os.Stdout,
		&codegen.CodegenProcessor{},
		backend.NewExecutionProcessor(backend.NewVM(c.Bool("trace"))),
	)
	return err
}

func disasmAct(c *cli.Command) error {
	ctx := rootContext(c)
	o := flagOverrides(c)

	for _, a := range c.Args {
		p, err := loadProject(a, o)
		if err != nil {
			return err
		}

		pc, err := build(ctx, a, p, io.Discard, &codegen.CodegenProcessor{})
		if err != nil {
			return err
		}

		if err := printUnits(os.Stdout, pc.Units); err != nil {
			return err
		}
	}

	return nil
}

// printUnits writes the rendered units sorted by class name.
func printUnits(w io.Writer, units []*vm.Unit) error {
	rendered := backend.RenderUnits(units)

	classes := make([]string, 0, len(rendered))
	for class := range rendered {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	for _, class := range classes {
		if _, err := fmt.Fprintf(w, "; %s%s\n%s\n", class, config.UnitFileExt, rendered[class]); err != nil {
			return err
		}
	}

	return nil
}

func printAct(c *cli.Command) error {
	for _, a := range c.Args {
		prog, err := treeio.DecodeFile(a)
		if err != nil {
			return err
		}
		fmt.Print(prettyprinter.Print(prog))
	}
	return nil
}
