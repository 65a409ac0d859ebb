package codegen

import (
	"tlog.app/go/tlog"

	"github.com/funvibe/sophia/internal/pipeline"
	"github.com/funvibe/sophia/internal/symbols"
)

// CodegenProcessor lowers a checked program into ctx.Units.
// It does nothing when an earlier stage failed.
type CodegenProcessor struct{}

func (cp *CodegenProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil || ctx.Failed() {
		return ctx
	}

	table := ctx.Table
	if table == nil {
		table = symbols.NewClassTable(ctx.Program)
	}

	c := NewCompiler(table)
	if ctx.Project != nil {
		c.SetEntryClass(ctx.Project.Entry)
		c.SetLimits(ctx.Project.Limits)
	}

	units, err := c.Compile(ctx.Program, ctx.Sink)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Units = units

	tlog.SpanFromContext(ctx.Ctx).Printw("generated", "file", ctx.FilePath, "units", len(units), "labels", c.labels)

	return ctx
}
