package analyzer

import (
	"tlog.app/go/tlog"

	"github.com/funvibe/sophia/internal/pipeline"
	"github.com/funvibe/sophia/internal/symbols"
)

// SemanticAnalyzerProcessor indexes the class hierarchy and checks the program.
type SemanticAnalyzerProcessor struct{}

func (sap *SemanticAnalyzerProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Program == nil {
		return ctx
	}

	tr := tlog.SpanFromContext(ctx.Ctx)

	ctx.Table = symbols.NewClassTable(ctx.Program)

	a := New(ctx.Table)
	if ctx.Project != nil {
		a.SetEntryClass(ctx.Project.Entry)
	}
	a.Analyze(ctx.Program, ctx.Sink)

	ctx.Errors = append(ctx.Errors, ctx.Sink.Errors()...)

	tr.Printw("checked", "file", ctx.FilePath, "classes", len(ctx.Program.Classes), "diagnostics", ctx.Sink.Len())

	return ctx
}
