package analyzer

import (
	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/diagnostics"
	"github.com/funvibe/sophia/internal/typesystem"
)

func (w *walker) VisitAssignmentStatement(s *ast.AssignmentStatement) {
	w.checkAssignment(s, s.Left, s.Right)
}

func (w *walker) VisitBlockStatement(s *ast.BlockStatement) {
	for _, stmt := range s.Statements {
		stmt.Accept(w)
	}
}

func (w *walker) VisitConditionalStatement(s *ast.ConditionalStatement) {
	w.checkCondition(s.Condition)
	if s.Then != nil {
		s.Then.Accept(w)
	}
	if s.Else != nil {
		s.Else.Accept(w)
	}
}

func (w *walker) VisitMethodCallStatement(s *ast.MethodCallStatement) {
	w.checkCall(s.Call, callStatementPosition)
}

func (w *walker) VisitPrintStatement(s *ast.PrintStatement) {
	t := w.typeOf(s.Argument)
	switch t.(type) {
	case typesystem.TInt, typesystem.TBool, typesystem.TString, typesystem.TNoType:
		return
	}
	w.report(s, diagnostics.ErrS002, t)
}

func (w *walker) VisitReturnStatement(s *ast.ReturnStatement) {
	var t typesystem.Type = typesystem.TVoid{}
	if s.Value != nil {
		t = w.typeOf(s.Value)
	}
	if !w.isSubtype(t, w.returnType()) {
		w.report(s, diagnostics.ErrS003, t, w.returnType())
	}
}

func (w *walker) VisitBreakStatement(s *ast.BreakStatement) {
	if !w.inLoop {
		w.report(s, diagnostics.ErrS004, "break")
	}
}

func (w *walker) VisitContinueStatement(s *ast.ContinueStatement) {
	if !w.inLoop {
		w.report(s, diagnostics.ErrS004, "continue")
	}
}

func (w *walker) VisitForStatement(s *ast.ForStatement) {
	lw := w.inLoopBody()

	if s.Init != nil {
		s.Init.Accept(lw)
	}
	if s.Condition != nil {
		lw.checkCondition(s.Condition)
	}
	if s.Update != nil {
		s.Update.Accept(lw)
	}
	if s.Body != nil {
		s.Body.Accept(lw)
	}
}

func (w *walker) VisitForeachStatement(s *ast.ForeachStatement) {
	varType := w.typeOf(s.Variable)
	listType := w.typeOf(s.List)

	switch lt := listType.(type) {
	case typesystem.TNoType:
	case typesystem.TList:
		first := firstKnownElement(lt)
		if !w.sameElementTypes(lt, first) {
			w.report(s.List, diagnostics.ErrS006)
		}
		if !typesystem.IsNoType(first) && !typesystem.IsNoType(varType) && !w.equivalent(varType, first) {
			w.report(s.Variable, diagnostics.ErrS007, varType, first)
		}
	default:
		w.report(s.List, diagnostics.ErrS005, listType)
	}

	if s.Body != nil {
		s.Body.Accept(w.inLoopBody())
	}
}

func (w *walker) checkCondition(cond ast.Expression) {
	t := w.typeOf(cond)
	switch t.(type) {
	case typesystem.TBool, typesystem.TNoType:
		return
	}
	w.report(cond, diagnostics.ErrS001, t)
}

// firstKnownElement returns the first element type that is not NoType.
func firstKnownElement(l typesystem.TList) typesystem.Type {
	for _, e := range l.Elements {
		if !typesystem.IsNoType(e.Type) {
			return e.Type
		}
	}
	return typesystem.TNoType{}
}

// sameElementTypes reports whether every known element mutually subtypes first.
func (w *walker) sameElementTypes(l typesystem.TList, first typesystem.Type) bool {
	for _, e := range l.Elements {
		if typesystem.IsNoType(e.Type) {
			continue
		}
		if !w.equivalent(first, e.Type) {
			return false
		}
	}
	return true
}
