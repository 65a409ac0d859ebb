package backend

import (
	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/pipeline"
)

// ExecutionProcessor is the pipeline stage that hands units to a Backend.
type ExecutionProcessor struct {
	Backend Backend
}

// NewExecutionProcessor creates a new pipeline step for the given backend
func NewExecutionProcessor(b Backend) *ExecutionProcessor {
	return &ExecutionProcessor{Backend: b}
}

func (p *ExecutionProcessor) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	// If previous steps failed, there is nothing to deliver
	if ctx.Failed() || len(ctx.Units) == 0 {
		return ctx
	}

	if err := p.Backend.Run(ctx); err != nil {
		ctx.Err = errors.Wrap(err, "%s", p.Backend.Name())
	}

	return ctx
}
