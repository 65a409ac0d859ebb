package analyzer

import (
	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/diagnostics"
	"github.com/funvibe/sophia/internal/symbols"
	"github.com/funvibe/sophia/internal/typesystem"
)

// Analyzer performs semantic analysis on the AST.
type Analyzer struct {
	table *symbols.ClassTable
	entry string
}

// New creates a new Analyzer over a fully built class table.
func New(table *symbols.ClassTable) *Analyzer {
	return &Analyzer{
		table: table,
		entry: config.MainClassName,
	}
}

// SetEntryClass changes the name of the class that must hold the entry point.
func (a *Analyzer) SetEntryClass(name string) {
	if name != "" {
		a.entry = name
	}
}

// Analyze checks the whole program, attaching every diagnostic to sink.
// Checking always visits every class.
func (a *Analyzer) Analyze(program *ast.Program, sink *diagnostics.Sink) {
	w := &walker{
		table: a.table,
		entry: a.entry,
		sink:  sink,
	}
	program.Accept(w)
}

// walker carries the checker context. It is copied, never mutated,
// when entering a class, a method or a loop body.
type walker struct {
	table *symbols.ClassTable
	entry string
	sink  *diagnostics.Sink

	class  *ast.ClassDeclaration
	method *ast.MethodDeclaration
	scope  *symbols.MethodScope
	inLoop bool
}

func (w *walker) report(node ast.TokenProvider, code diagnostics.ErrorCode, args ...interface{}) {
	w.sink.Attach(node, code, args...)
}

func (w *walker) withClass(cd *ast.ClassDeclaration) *walker {
	c := *w
	c.class = cd
	c.method = nil
	c.scope = nil
	c.inLoop = false
	return &c
}

func (w *walker) withMethod(md *ast.MethodDeclaration) *walker {
	c := *w
	c.method = md
	c.scope = symbols.NewMethodScope(md)
	c.inLoop = false
	return &c
}

func (w *walker) inLoopBody() *walker {
	c := *w
	c.inLoop = true
	return &c
}

func (w *walker) isSubtype(a, b typesystem.Type) bool {
	return typesystem.IsSubtype(w.table, a, b)
}

func (w *walker) equivalent(a, b typesystem.Type) bool {
	return typesystem.Equivalent(w.table, a, b)
}

func (w *walker) currentClassType() typesystem.Type {
	if w.class == nil || w.class.Name == nil {
		return typesystem.TNoType{}
	}
	return typesystem.TClass{Name: w.class.Name.Value}
}

func (w *walker) returnType() typesystem.Type {
	if w.method == nil || w.method.ReturnType == nil {
		return typesystem.TVoid{}
	}
	return w.method.ReturnType
}
