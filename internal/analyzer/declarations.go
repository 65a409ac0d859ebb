package analyzer

import (
	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/diagnostics"
	"github.com/funvibe/sophia/internal/typesystem"
)

func (w *walker) VisitProgram(p *ast.Program) {
	hasEntry := false

	for _, cd := range p.Classes {
		name := cd.Name.Value
		parent := cd.ParentName()

		if name == w.entry {
			hasEntry = true
			switch {
			case cd.Constructor == nil:
				w.report(cd, diagnostics.ErrD003, name)
			case len(cd.Constructor.Args) > 0:
				w.report(cd.Constructor, diagnostics.ErrD004, name)
			}
			if parent != "" {
				w.report(cd, diagnostics.ErrD005, name)
				if !w.table.ClassExists(parent) {
					w.report(cd.Parent, diagnostics.ErrD001, parent)
				}
			}
		} else if parent != "" {
			if parent == w.entry {
				w.report(cd, diagnostics.ErrD006, name, w.entry)
			} else if !w.table.ClassExists(parent) {
				w.report(cd.Parent, diagnostics.ErrD001, parent)
			}
		}

		cd.Accept(w.withClass(cd))
	}

	if !hasEntry {
		w.report(p, diagnostics.ErrD002, w.entry)
	}
}

func (w *walker) VisitClassDeclaration(cd *ast.ClassDeclaration) {
	for _, f := range cd.Fields {
		f.Accept(w)
	}

	if ctor := cd.Constructor; ctor != nil {
		if ctor.Name != nil && ctor.Name.Value != cd.Name.Value {
			w.report(ctor, diagnostics.ErrD007, ctor.Name.Value, cd.Name.Value)
		}
		ctor.Accept(w.withMethod(&ctor.MethodDeclaration))
	}

	for _, m := range cd.Methods {
		m.Accept(w.withMethod(m))
	}
}

func (w *walker) VisitFieldDeclaration(fd *ast.FieldDeclaration) {
	fd.Var.Accept(w)
}

// VisitVarDeclaration validates the declared type and replaces it with
// NoType if anything in it is wrong.
func (w *walker) VisitVarDeclaration(vd *ast.VarDeclaration) {
	if !w.checkDeclaredType(vd, vd.Type) {
		vd.Type = typesystem.TNoType{}
	}
}

func (w *walker) VisitConstructorDeclaration(cd *ast.ConstructorDeclaration) {
	w.checkMethodBody(&cd.MethodDeclaration)
}

func (w *walker) VisitMethodDeclaration(md *ast.MethodDeclaration) {
	if md.ReturnType != nil {
		w.checkDeclaredType(md, md.ReturnType)
	}

	w.checkMethodBody(md)

	if !typesystem.IsVoid(w.returnType()) && !md.HasTopLevelReturn() {
		w.report(md, diagnostics.ErrD010, md.Name.Value)
	}
}

func (w *walker) checkMethodBody(md *ast.MethodDeclaration) {
	for _, a := range md.Args {
		a.Accept(w)
	}
	for _, l := range md.Locals {
		l.Accept(w)
	}
	for _, s := range md.Body {
		s.Accept(w)
	}
}

// checkDeclaredType reports every problem of a declared type and
// downgrades duplicated list entries in place. It returns false on any problem.
func (w *walker) checkDeclaredType(node ast.TokenProvider, t typesystem.Type) bool {
	switch t := t.(type) {
	case typesystem.TClass:
		if !w.table.ClassExists(t.Name) {
			w.report(node, diagnostics.ErrD001, t.Name)
			return false
		}
		return true

	case typesystem.TFptr:
		ok := true
		for _, p := range t.Params {
			if !w.checkDeclaredType(node, p) {
				ok = false
			}
		}
		if t.Return != nil && !w.checkDeclaredType(node, t.Return) {
			ok = false
		}
		return ok

	case typesystem.TList:
		if len(t.Elements) == 0 {
			w.report(node, diagnostics.ErrD008, declName(node))
			return false
		}

		ok := true
		dup := make([]bool, len(t.Elements))
		reported := false
		for i, a := range t.Elements {
			if a.Name == "" {
				continue
			}
			for j, b := range t.Elements {
				if i != j && a.Name == b.Name {
					dup[j] = true
					if !reported {
						w.report(node, diagnostics.ErrD009, a.Name)
						reported = true
					}
				}
			}
		}
		for _, e := range t.Elements {
			if !w.checkDeclaredType(node, e.Type) {
				ok = false
			}
		}
		for i := range t.Elements {
			if dup[i] {
				t.Elements[i].Type = typesystem.TNoType{}
				ok = false
			}
		}
		return ok
	}

	return true
}

func declName(node ast.TokenProvider) string {
	switch n := node.(type) {
	case *ast.VarDeclaration:
		return n.Name.Value
	case *ast.MethodDeclaration:
		return n.Name.Value
	}
	return node.GetToken().Lexeme
}
