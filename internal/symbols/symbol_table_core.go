package symbols

import (
	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/typesystem"
)

type SymbolKind int

const (
	ParamSymbol SymbolKind = iota
	LocalSymbol
	FieldSymbol
	MethodSymbol
)

func (k SymbolKind) String() string {
	switch k {
	case ParamSymbol:
		return "param"
	case LocalSymbol:
		return "local"
	case FieldSymbol:
		return "field"
	case MethodSymbol:
		return "method"
	}
	return "unknown"
}

// Symbol is a resolved name. Slot is the frame slot for params and locals.
// Owner is the declaring class for fields and methods.
type Symbol struct {
	Name  string
	Kind  SymbolKind
	Slot  int
	Owner string

	Var    *ast.VarDeclaration
	Method *ast.MethodDeclaration
}

// Type reads the declared type through the declaration so that
// later downgrades by the checker are observed.
func (s Symbol) Type() typesystem.Type {
	switch {
	case s.Var != nil:
		if s.Var.Type == nil {
			return typesystem.TNoType{}
		}
		return s.Var.Type
	case s.Method != nil:
		return s.Method.FunctionType()
	}
	return typesystem.TNoType{}
}

// MethodScope resolves identifiers inside one method body.
// Slot 0 holds the receiver; params follow, then locals.
type MethodScope struct {
	Method  *ast.MethodDeclaration
	symbols map[string]Symbol
	next    int
}

func NewMethodScope(m *ast.MethodDeclaration) *MethodScope {
	s := &MethodScope{Method: m, symbols: make(map[string]Symbol), next: 1}
	if m == nil {
		return s
	}
	for _, a := range m.Args {
		s.define(a, ParamSymbol)
	}
	for _, l := range m.Locals {
		s.define(l, LocalSymbol)
	}
	return s
}

func (s *MethodScope) define(v *ast.VarDeclaration, kind SymbolKind) {
	slot := s.next
	s.next++
	if v == nil || v.Name == nil {
		return
	}
	// Params shadow locals of the same name.
	if _, ok := s.symbols[v.Name.Value]; ok {
		return
	}
	s.symbols[v.Name.Value] = Symbol{Name: v.Name.Value, Kind: kind, Slot: slot, Var: v}
}

// Find resolves a param or local by name.
func (s *MethodScope) Find(name string) (Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// SlotCount is the number of slots taken by the receiver, params and locals.
func (s *MethodScope) SlotCount() int {
	return s.next
}
