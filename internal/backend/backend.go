// Package backend delivers generated units: to unit files on disk or to
// the reference interpreter.
package backend

import (
	"github.com/funvibe/sophia/internal/pipeline"
)

// Backend consumes the units of a successful compilation.
type Backend interface {
	Run(ctx *pipeline.PipelineContext) error

	// Name returns the backend name for display
	Name() string
}
