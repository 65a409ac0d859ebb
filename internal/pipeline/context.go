package pipeline

import (
	"context"
	"io"
	"os"

	"tlog.app/go/tlog"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/diagnostics"
	"github.com/funvibe/sophia/internal/symbols"
	"github.com/funvibe/sophia/internal/vm"
)

// PipelineContext carries one compilation through the stages.
type PipelineContext struct {
	Ctx      context.Context
	FilePath string
	Source   []byte
	Project  *config.Project

	Program *ast.Program
	Table   *symbols.ClassTable
	Sink    *diagnostics.Sink

	// Errors are the diagnostics of the compilation, sorted by position.
	Errors []*diagnostics.DiagnosticError

	Units []*vm.Unit

	// Err is an operational failure: unreadable input, I/O, runtime faults.
	Err error

	// Stdout receives program output of the run stage.
	Stdout io.Writer
}

// NewPipelineContext prepares a context for the tree at path.
func NewPipelineContext(ctx context.Context, path string, source []byte) *PipelineContext {
	return &PipelineContext{
		Ctx:      ctx,
		FilePath: path,
		Source:   source,
		Project:  config.DefaultProject(),
		Sink:     diagnostics.NewSink(path),
		Stdout:   os.Stdout,
	}
}

// Failed reports whether any stage recorded diagnostics or an error.
func (c *PipelineContext) Failed() bool {
	return c.Err != nil || len(c.Errors) > 0 || c.Sink.HasErrors()
}

// Log returns the span of the compilation.
func (c *PipelineContext) Log() tlog.Span {
	return tlog.SpanFromContext(c.Ctx)
}
