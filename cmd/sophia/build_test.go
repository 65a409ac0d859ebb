package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/vm"
)

const hello = `
classes:
  - class: Main
    constructor:
      body:
        - print: "hello"
`

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
}

func TestLoadProjectFindsFileAndOverrides(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, config.ProjectFileName), "entry: Program\noutput: build\ncolor: true\n")
	tree := filepath.Join(dir, "src", "prog.yaml")
	writeFile(t, tree, hello)

	p, err := loadProject(tree, overrides{})
	require.NoError(t, err)
	assert.Equal(t, "Program", p.Entry)
	assert.Equal(t, "build", p.Output)
	require.NotNil(t, p.Color)
	assert.True(t, *p.Color)

	p, err = loadProject(tree, overrides{Entry: "Main", Out: "gen", Cache: "c.db", Color: "never"})
	require.NoError(t, err)
	assert.Equal(t, "Main", p.Entry)
	assert.Equal(t, "gen", p.Output)
	assert.Equal(t, "c.db", p.Cache)
	assert.False(t, useColor(p, os.Stderr))

	_, err = loadProject(tree, overrides{Color: "sometimes"})
	assert.Error(t, err)
}

func TestBuildRunsExtraStages(t *testing.T) {
	dir := t.TempDir()
	tree := filepath.Join(dir, "prog.yaml")
	writeFile(t, tree, hello)

	p, err := loadProject(tree, overrides{Out: filepath.Join(dir, "out")})
	require.NoError(t, err)

	require.NoError(t, compileFile(context.Background(), tree, p))

	data, err := os.ReadFile(filepath.Join(dir, "out", "Main.j"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "ldc \"hello\"")
}

func TestCompileUsesCache(t *testing.T) {
	dir := t.TempDir()
	tree := filepath.Join(dir, "prog.yaml")
	writeFile(t, tree, hello)

	p, err := loadProject(tree, overrides{Out: filepath.Join(dir, "first"), Cache: filepath.Join(dir, "cache.db")})
	require.NoError(t, err)
	require.NoError(t, compileFile(context.Background(), tree, p))

	p.Output = filepath.Join(dir, "second")
	require.NoError(t, compileFile(context.Background(), tree, p))

	first, err := os.ReadFile(filepath.Join(dir, "first", "Main.j"))
	require.NoError(t, err)
	second, err := os.ReadFile(filepath.Join(dir, "second", "Main.j"))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCompileCacheKeyedBySettings(t *testing.T) {
	dir := t.TempDir()
	tree := filepath.Join(dir, "prog.yaml")
	writeFile(t, tree, hello)
	cache := filepath.Join(dir, "cache.db")
	off := false

	p, err := loadProject(tree, overrides{Out: filepath.Join(dir, "a"), Cache: cache})
	require.NoError(t, err)
	require.NoError(t, compileFile(context.Background(), tree, p))

	p, err = loadProject(tree, overrides{Out: filepath.Join(dir, "b"), Cache: cache, Entry: "Program"})
	require.NoError(t, err)
	p.Color = &off
	require.ErrorIs(t, compileFile(context.Background(), tree, p), ErrDiagnostics)
	assert.NoFileExists(t, filepath.Join(dir, "b", "Main.j"))

	p, err = loadProject(tree, overrides{Out: filepath.Join(dir, "c"), Cache: cache})
	require.NoError(t, err)
	p.Limits.Stack = 7
	require.NoError(t, compileFile(context.Background(), tree, p))

	data, err := os.ReadFile(filepath.Join(dir, "c", "Main.j"))
	require.NoError(t, err)
	assert.Contains(t, string(data), ".limit stack 7\n")
}

func TestBuildReportsDiagnostics(t *testing.T) {
	dir := t.TempDir()
	tree := filepath.Join(dir, "prog.yaml")
	writeFile(t, tree, `
classes:
  - class: Helper
`)
	off := false
	p := config.DefaultProject()
	p.Color = &off

	pc, err := build(context.Background(), tree, p, nil)
	require.ErrorIs(t, err, ErrDiagnostics)
	require.Len(t, pc.Errors, 1)
}

func TestPrintUnitsSorted(t *testing.T) {
	units := []*vm.Unit{
		{Name: "Zeta", Super: config.RootClassName},
		{Name: "Alpha", Super: config.RootClassName},
	}

	var out bytes.Buffer
	require.NoError(t, printUnits(&out, units))

	text := out.String()
	assert.Less(t, bytes.Index([]byte(text), []byte("; Alpha.j")), bytes.Index([]byte(text), []byte("; Zeta.j")))
	assert.Contains(t, text, ".class public Zeta\n.super java/lang/Object\n")
}
