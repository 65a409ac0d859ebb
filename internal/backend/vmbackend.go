package backend

import (
	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/pipeline"
	"github.com/funvibe/sophia/internal/vm"
)

// VMBackend executes units with the reference interpreter.
type VMBackend struct {
	debugMode bool
}

// NewVM creates a new VM backend
func NewVM(debugMode ...bool) *VMBackend {
	debug := false
	if len(debugMode) > 0 {
		debug = debugMode[0]
	}
	return &VMBackend{debugMode: debug}
}

func (b *VMBackend) Name() string { return "vm" }

// Run starts the static entry point of the project's entry class.
func (b *VMBackend) Run(ctx *pipeline.PipelineContext) error {
	if len(ctx.Units) == 0 {
		return errors.New("no units to run")
	}

	entry := config.MainClassName
	if ctx.Project != nil {
		entry = ctx.Project.Entry
	}

	if b.debugMode {
		for _, u := range ctx.Units {
			for _, m := range u.Methods {
				ctx.Log().Printw("method", "listing", vm.Disassemble(m, u.Name+"."+m.Name))
			}
		}
	}

	machine := vm.New(ctx.Units)
	machine.SetOutput(ctx.Stdout)

	return machine.Run(ctx.Ctx, entry)
}
