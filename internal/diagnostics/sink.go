package diagnostics

import (
	"sort"

	"github.com/funvibe/sophia/internal/ast"
)

// Sink accumulates diagnostics attached to tree nodes.
// A nil *Sink discards everything.
type Sink struct {
	File string

	errs   []*DiagnosticError
	byNode map[ast.TokenProvider][]*DiagnosticError
}

func NewSink(file string) *Sink {
	return &Sink{
		File:   file,
		byNode: make(map[ast.TokenProvider][]*DiagnosticError),
	}
}

// Attach records a diagnostic on node. Every call is recorded, so a node
// with two occurrences of the same problem carries two diagnostics.
func (s *Sink) Attach(node ast.TokenProvider, code ErrorCode, args ...interface{}) {
	if s == nil {
		return
	}
	err := NewError(code, node.GetToken(), args...)
	err.File = s.File

	s.errs = append(s.errs, err)
	s.byNode[node] = append(s.byNode[node], err)
}

// Add records a diagnostic that is not tied to a node.
func (s *Sink) Add(err *DiagnosticError) {
	if s == nil {
		return
	}
	if err.File == "" {
		err.File = s.File
	}
	s.errs = append(s.errs, err)
}

func (s *Sink) HasErrors() bool {
	return s != nil && len(s.errs) > 0
}

func (s *Sink) Len() int {
	if s == nil {
		return 0
	}
	return len(s.errs)
}

// Errors returns all diagnostics sorted by position.
// Diagnostics on the same position keep their recording order.
func (s *Sink) Errors() []*DiagnosticError {
	if s == nil {
		return nil
	}
	res := make([]*DiagnosticError, len(s.errs))
	copy(res, s.errs)
	sort.SliceStable(res, func(i, j int) bool {
		return res[i].Token.Before(res[j].Token)
	})
	return res
}

// For returns the diagnostics attached to node.
func (s *Sink) For(node ast.TokenProvider) []*DiagnosticError {
	if s == nil {
		return nil
	}
	return s.byNode[node]
}

// Count returns how many diagnostics of the code were recorded.
func (s *Sink) Count(code ErrorCode) int {
	if s == nil {
		return 0
	}
	n := 0
	for _, e := range s.errs {
		if e.Code == code {
			n++
		}
	}
	return n
}
