package treeio

import (
	"tlog.app/go/tlog"

	"github.com/funvibe/sophia/internal/pipeline"
)

// TreeDecodeProcessor turns ctx.Source into ctx.Program.
type TreeDecodeProcessor struct{}

func (tdp *TreeDecodeProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	if ctx.Err != nil {
		return ctx
	}

	prog, err := Decode(ctx.FilePath, ctx.Source)
	if err != nil {
		ctx.Err = err
		return ctx
	}
	ctx.Program = prog

	tlog.SpanFromContext(ctx.Ctx).Printw("decoded", "file", ctx.FilePath, "classes", len(prog.Classes))

	return ctx
}
