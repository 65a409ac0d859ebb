package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProject_Defaults(t *testing.T) {
	p, err := ParseProject(nil, "sophia.yaml")
	require.NoError(t, err)

	assert.Equal(t, MainClassName, p.Entry)
	assert.Equal(t, ".", p.Output)
	assert.Equal(t, StackLimit, p.Limits.Stack)
	assert.Equal(t, LocalsLimit, p.Limits.Locals)
	assert.Nil(t, p.Color)
}

func TestParseProject_Full(t *testing.T) {
	data := `
entry: Program
output: build
limits:
  stack: 64
  locals: 32
cache: .sophia/cache.db
color: false
`
	p, err := ParseProject([]byte(data), "sophia.yaml")
	require.NoError(t, err)

	assert.Equal(t, "Program", p.Entry)
	assert.Equal(t, "build", p.Output)
	assert.Equal(t, Limits{Stack: 64, Locals: 32}, p.Limits)
	assert.Equal(t, ".sophia/cache.db", p.Cache)
	require.NotNil(t, p.Color)
	assert.False(t, *p.Color)
}

func TestParseProject_UnknownField(t *testing.T) {
	_, err := ParseProject([]byte("entry: Main\nstack: 3\n"), "sophia.yaml")
	assert.Error(t, err)
}

func TestParseProject_NegativeLimit(t *testing.T) {
	_, err := ParseProject([]byte("limits:\n  locals: -1\n"), "sophia.yaml")
	assert.ErrorContains(t, err, "limits.locals")
}

func TestFindProject(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	path, err := FindProject(nested)
	require.NoError(t, err)
	assert.Empty(t, path)

	want := filepath.Join(root, ProjectFileName)
	require.NoError(t, os.WriteFile(want, []byte("entry: Main\n"), 0o644))

	path, err = FindProject(nested)
	require.NoError(t, err)
	assert.Equal(t, want, path)

	p, err := LoadProject(path)
	require.NoError(t, err)
	assert.Equal(t, "Main", p.Entry)
}
