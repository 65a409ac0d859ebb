package config

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"
)

// ProjectFileName is looked up from the tree's directory upwards.
const ProjectFileName = "sophia.yaml"

// Project represents the sophia.yaml configuration.
type Project struct {
	// Entry names the class that must carry the program entry point.
	Entry string `yaml:"entry"`

	// Output is the directory emitted units are written to.
	Output string `yaml:"output"`

	Limits Limits `yaml:"limits"`

	// Cache is a sqlite database path for compiled units. Empty disables caching.
	Cache string `yaml:"cache,omitempty"`

	// Color forces colored diagnostics on or off. Unset means detect a terminal.
	Color *bool `yaml:"color,omitempty"`
}

// Limits bound the frame of every emitted method.
type Limits struct {
	Stack  int `yaml:"stack"`
	Locals int `yaml:"locals"`
}

// DefaultProject returns the configuration used when no sophia.yaml is found.
func DefaultProject() *Project {
	p := &Project{}
	p.setDefaults()
	return p
}

// LoadProject reads and parses a sophia.yaml file.
func LoadProject(path string) (*Project, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config %s", path)
	}
	return ParseProject(data, path)
}

// ParseProject parses sophia.yaml content from bytes.
// The path argument is used only for error messages.
func ParseProject(data []byte, path string) (*Project, error) {
	var p Project

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, "parse %s", path)
	}

	if err := p.validate(path); err != nil {
		return nil, err
	}
	p.setDefaults()

	return &p, nil
}

// FindProject searches for sophia.yaml starting from dir and walking up
// to parent directories. It returns "" with a nil error when none exists.
func FindProject(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(err, "resolve directory")
	}

	for {
		candidate := filepath.Join(dir, ProjectFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// CodegenSettings lists the settings emitted units depend on.
func (p *Project) CodegenSettings() []string {
	return []string{
		"entry=" + p.Entry,
		"stack=" + strconv.Itoa(p.Limits.Stack),
		"locals=" + strconv.Itoa(p.Limits.Locals),
	}
}

func (p *Project) validate(path string) error {
	if p.Limits.Stack < 0 {
		return errors.New("%s: limits.stack must not be negative", path)
	}
	if p.Limits.Locals < 0 {
		return errors.New("%s: limits.locals must not be negative", path)
	}
	return nil
}

func (p *Project) setDefaults() {
	if p.Entry == "" {
		p.Entry = MainClassName
	}
	if p.Output == "" {
		p.Output = "."
	}
	if p.Limits.Stack == 0 {
		p.Limits.Stack = StackLimit
	}
	if p.Limits.Locals == 0 {
		p.Limits.Locals = LocalsLimit
	}
}
