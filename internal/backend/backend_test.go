package backend

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/sophia/internal/analyzer"
	"github.com/funvibe/sophia/internal/buildcache"
	"github.com/funvibe/sophia/internal/codegen"
	"github.com/funvibe/sophia/internal/pipeline"
	"github.com/funvibe/sophia/internal/treeio"
	"github.com/funvibe/sophia/internal/vm"
)

const counter = `
classes:
  - class: Main
    constructor:
      locals:
        - i: int
      body:
        - for:
            init: [i, 0]
            cond: {bin: ["<", i, 3]}
            update: [i, {bin: [+, i, 1]}]
            body:
              - print: i
        - print: "done"
  - class: Unused
    fields:
      - n: int
`

func compile(t *testing.T, source string, b Backend) *pipeline.PipelineContext {
	t.Helper()

	ctx := pipeline.NewPipelineContext(context.Background(), "prog.yaml", []byte(source))
	return pipeline.New(
		&treeio.TreeDecodeProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&codegen.CodegenProcessor{},
		NewExecutionProcessor(b),
	).Run(ctx)
}

func TestVMBackendRunsEntry(t *testing.T) {
	var out bytes.Buffer
	ctx := pipeline.NewPipelineContext(context.Background(), "prog.yaml", []byte(counter))
	ctx.Stdout = &out

	ctx = pipeline.New(
		&treeio.TreeDecodeProcessor{},
		&analyzer.SemanticAnalyzerProcessor{},
		&codegen.CodegenProcessor{},
		NewExecutionProcessor(NewVM()),
	).Run(ctx)

	require.NoError(t, ctx.Err)
	assert.Empty(t, ctx.Errors)
	assert.Equal(t, "012done", out.String())
}

func TestVMBackendReportsFaults(t *testing.T) {
	src := `
classes:
  - class: Main
    constructor:
      locals:
        - a: int
      body:
        - print: {bin: ["/", 1, a]}
`
	ctx := compile(t, src, NewVM())
	assert.ErrorIs(t, ctx.Err, vm.ErrDivisionByZero)
}

func TestDiagnosticsStopDelivery(t *testing.T) {
	dir := t.TempDir()
	src := `
classes:
  - class: Main
    constructor:
      body:
        - print: missing
`
	ctx := compile(t, src, &UnitWriter{Dir: dir})

	require.NoError(t, ctx.Err)
	require.Len(t, ctx.Errors, 1)
	assert.Nil(t, ctx.Units)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnitWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	ctx := compile(t, counter, &UnitWriter{Dir: dir})
	require.NoError(t, ctx.Err)

	for _, class := range []string{"Main", "Unused"} {
		data, err := os.ReadFile(filepath.Join(dir, class+".j"))
		require.NoError(t, err)
		assert.Contains(t, string(data), ".class public "+class+"\n")
	}

	data, err := os.ReadFile(filepath.Join(dir, "Unused.j"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".field n Ljava/lang/Integer;\n")
}

func TestUnitWriterStoresInCache(t *testing.T) {
	bg := context.Background()
	cache, err := buildcache.Open(bg, filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	defer cache.Close()

	dir := t.TempDir()
	ctx := compile(t, counter, &UnitWriter{Dir: dir, Cache: cache})
	require.NoError(t, ctx.Err)

	_, ok, err := cache.Get(bg, buildcache.Digest([]byte(counter)))
	require.NoError(t, err)
	assert.False(t, ok, "units keyed by the tree alone")

	got, ok, err := cache.Get(bg, CacheDigest([]byte(counter), ctx.Project))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, RenderUnits(ctx.Units), got)

	files, err := WriteRendered(t.TempDir(), got)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "Main.j", filepath.Base(files[0]))
}
