package pipeline

import (
	"context"
	"testing"

	"tlog.app/go/errors"
)

type recordStep struct {
	name string
	seen *[]string
	fail bool
}

func (s recordStep) Process(ctx *PipelineContext) *PipelineContext {
	*s.seen = append(*s.seen, s.name)
	if s.fail {
		ctx.Err = errors.New("%s failed", s.name)
	}
	return ctx
}

func TestPipelineRunsEveryStage(t *testing.T) {
	var seen []string
	p := New(
		recordStep{name: "decode", seen: &seen},
		recordStep{name: "check", seen: &seen, fail: true},
		recordStep{name: "emit", seen: &seen},
	)

	ctx := p.Run(NewPipelineContext(context.Background(), "prog.yaml", nil))

	if len(seen) != 3 || seen[2] != "emit" {
		t.Fatalf("stages run: %v", seen)
	}
	if !ctx.Failed() {
		t.Error("context should report failure")
	}
	if ctx.Project == nil || ctx.Project.Entry != "Main" {
		t.Errorf("default project not set: %+v", ctx.Project)
	}
}
