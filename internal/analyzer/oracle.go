package analyzer

import (
	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/symbols"
	"github.com/funvibe/sophia/internal/typesystem"
)

// Oracle recomputes static types of already checked expressions.
// It reports nothing.
type Oracle struct {
	w walker
}

func NewOracle(table *symbols.ClassTable) *Oracle {
	return &Oracle{w: walker{table: table}}
}

// In returns an oracle resolving names inside method of class.
func (o *Oracle) In(class *ast.ClassDeclaration, method *ast.MethodDeclaration) *Oracle {
	return &Oracle{w: *o.w.withClass(class).withMethod(method)}
}

// TypeOf returns the static type of e in value position.
func (o *Oracle) TypeOf(e ast.Expression) typesystem.Type {
	return o.w.typeOf(e)
}

// Lookup resolves a param or local of the current method.
func (o *Oracle) Lookup(name string) (symbols.Symbol, bool) {
	if o.w.scope == nil {
		return symbols.Symbol{}, false
	}
	return o.w.scope.Find(name)
}

// Table returns the class table the oracle resolves against.
func (o *Oracle) Table() *symbols.ClassTable {
	return o.w.table
}
