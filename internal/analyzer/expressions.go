package analyzer

import (
	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/diagnostics"
	"github.com/funvibe/sophia/internal/typesystem"
)

// position tells whether a call sits directly in statement position,
// where a void result is allowed.
type position int

const (
	valuePosition position = iota
	callStatementPosition
)

// result is the static type of an expression and whether it names storage.
type result struct {
	typ    typesystem.Type
	lvalue bool
}

func value(t typesystem.Type) result    { return result{typ: t} }
func location(t typesystem.Type) result { return result{typ: t, lvalue: true} }

var noType = typesystem.TNoType{}

func (w *walker) typeOf(e ast.Expression) typesystem.Type {
	return w.check(e).typ
}

// check computes the type of e in value position.
func (w *walker) check(e ast.Expression) result {
	switch e := e.(type) {
	case *ast.Identifier:
		return w.checkIdentifier(e)
	case *ast.MemberAccess:
		return w.checkMemberAccess(e)
	case *ast.IndexAccess:
		return w.checkIndexAccess(e)
	case *ast.BinaryExpression:
		return value(w.checkBinary(e))
	case *ast.UnaryExpression:
		return value(w.checkUnary(e))
	case *ast.MethodCall:
		return value(w.checkCall(e, valuePosition))
	case *ast.NewClassInstance:
		return value(w.checkNew(e))
	case *ast.ThisExpression:
		return value(w.currentClassType())
	case *ast.ListLiteral:
		l := typesystem.TList{Elements: make([]typesystem.ListElement, len(e.Elements))}
		for i, el := range e.Elements {
			l.Elements[i] = typesystem.ListElement{Type: w.typeOf(el)}
		}
		return value(l)
	case *ast.NullLiteral:
		return value(typesystem.TNull{})
	case *ast.IntegerLiteral:
		return value(typesystem.TInt{})
	case *ast.BooleanLiteral:
		return value(typesystem.TBool{})
	case *ast.StringLiteral:
		return value(typesystem.TString{})
	}
	return value(noType)
}

func (w *walker) checkIdentifier(e *ast.Identifier) result {
	if w.scope != nil {
		if sym, ok := w.scope.Find(e.Value); ok {
			return location(sym.Type())
		}
	}
	w.report(e, diagnostics.ErrE001, e.Value)
	return location(noType)
}

func (w *walker) checkMemberAccess(e *ast.MemberAccess) result {
	name := e.Member.Value

	switch it := w.typeOf(e.Instance).(type) {
	case typesystem.TNoType:
		return location(noType)

	case typesystem.TClass:
		if !w.table.ClassExists(it.Name) {
			w.report(e, diagnostics.ErrD001, it.Name)
			return location(noType)
		}
		if sym, ok := w.table.LookupField(it.Name, name); ok {
			return location(sym.Type())
		}
		if sym, ok := w.table.LookupMethod(it.Name, name); ok {
			return value(sym.Type())
		}
		w.report(e, diagnostics.ErrE002, it.Name, name)
		return location(noType)

	case typesystem.TList:
		for _, el := range it.Elements {
			if el.Name == name || typesystem.IsNoType(el.Type) {
				return location(el.Type)
			}
		}
		w.report(e, diagnostics.ErrE003, name)
		return location(noType)
	}

	w.report(e, diagnostics.ErrE004, name)
	return value(noType)
}

func (w *walker) checkIndexAccess(e *ast.IndexAccess) result {
	failed := false

	indexType := w.typeOf(e.Index)
	switch indexType.(type) {
	case typesystem.TInt, typesystem.TNoType:
	default:
		w.report(e.Index, diagnostics.ErrE005, indexType)
		failed = true
	}

	instanceType := w.typeOf(e.Instance)
	list, ok := instanceType.(typesystem.TList)
	if !ok {
		if !typesystem.IsNoType(instanceType) {
			w.report(e, diagnostics.ErrE006, instanceType)
		}
		return location(noType)
	}

	first := firstKnownElement(list)
	if w.sameElementTypes(list, first) {
		if failed || len(list.Elements) == 0 {
			return location(noType)
		}
		return location(first)
	}

	if typesystem.IsNoType(indexType) {
		return location(noType)
	}
	if lit, ok := e.Index.(*ast.IntegerLiteral); ok && lit.Value >= 0 && lit.Value < len(list.Elements) {
		if failed {
			return location(noType)
		}
		return location(list.Elements[lit.Value].Type)
	}

	w.report(e.Index, diagnostics.ErrE007)
	return location(noType)
}

func (w *walker) checkBinary(e *ast.BinaryExpression) typesystem.Type {
	if e.Operator == ast.OpAssign {
		return w.checkAssignment(e, e.Left, e.Right)
	}

	left := w.typeOf(e.Left)
	right := w.typeOf(e.Right)

	switch {
	case e.Operator.IsLogical():
		return w.checkOperands(e, left, right, typesystem.TBool{}, typesystem.TBool{})
	case e.Operator.IsArithmetic():
		return w.checkOperands(e, left, right, typesystem.TInt{}, typesystem.TInt{})
	case e.Operator.IsRelational():
		return w.checkOperands(e, left, right, typesystem.TInt{}, typesystem.TBool{})
	case e.Operator.IsEquality():
		return w.checkEquality(e, left, right)
	}

	w.report(e, diagnostics.ErrE008, e.Operator)
	return noType
}

// checkOperands accepts two operands of type want, or NoType for either.
func (w *walker) checkOperands(e *ast.BinaryExpression, left, right, want, res typesystem.Type) typesystem.Type {
	okLeft := typesystem.IsNoType(left) || left == want
	okRight := typesystem.IsNoType(right) || right == want
	if !okLeft || !okRight {
		w.report(e, diagnostics.ErrE008, e.Operator)
		return noType
	}
	if typesystem.IsNoType(left) || typesystem.IsNoType(right) {
		return noType
	}
	return res
}

func (w *walker) checkEquality(e *ast.BinaryExpression, left, right typesystem.Type) typesystem.Type {
	_, leftList := left.(typesystem.TList)
	_, rightList := right.(typesystem.TList)
	if leftList || rightList {
		w.report(e, diagnostics.ErrE008, e.Operator)
		return noType
	}

	if isNullComparable(left, right) || isNullComparable(right, left) {
		return typesystem.TBool{}
	}
	if w.equivalent(left, right) {
		return typesystem.TBool{}
	}
	if typesystem.IsNoType(left) || typesystem.IsNoType(right) {
		return noType
	}

	w.report(e, diagnostics.ErrE008, e.Operator)
	return noType
}

func isNullComparable(null, other typesystem.Type) bool {
	if _, ok := null.(typesystem.TNull); !ok {
		return false
	}
	switch other.(type) {
	case typesystem.TNull, typesystem.TClass, typesystem.TFptr:
		return true
	}
	return false
}

// checkAssignment is shared by assignment expressions and statements.
// The result is the assigned value's type.
func (w *walker) checkAssignment(node ast.TokenProvider, leftExpr, rightExpr ast.Expression) typesystem.Type {
	left := w.check(leftExpr)
	if !left.lvalue {
		w.report(node, diagnostics.ErrE009)
		w.typeOf(rightExpr)
		return noType
	}

	right := w.typeOf(rightExpr)
	if typesystem.IsNoType(left.typ) || typesystem.IsNoType(right) {
		return noType
	}
	if !w.isSubtype(right, left.typ) {
		w.report(node, diagnostics.ErrE008, ast.OpAssign)
		return noType
	}
	return right
}

func (w *walker) checkUnary(e *ast.UnaryExpression) typesystem.Type {
	if e.Operator.IsIncDec() {
		return w.checkIncDec(e)
	}

	t := w.typeOf(e.Operand)
	if typesystem.IsNoType(t) {
		return noType
	}

	var want typesystem.Type = typesystem.TInt{}
	if e.Operator == ast.OpNot {
		want = typesystem.TBool{}
	}
	if t != want {
		w.report(e, diagnostics.ErrE008, e.Operator)
		return noType
	}
	return t
}

func (w *walker) checkIncDec(e *ast.UnaryExpression) typesystem.Type {
	operand := w.check(e.Operand)
	if !operand.lvalue {
		w.report(e, diagnostics.ErrE010, e.Operator)
	}

	switch operand.typ.(type) {
	case typesystem.TNoType:
		return noType
	case typesystem.TInt:
		if operand.lvalue {
			return typesystem.TInt{}
		}
		return noType
	}

	w.report(e, diagnostics.ErrE008, e.Operator)
	return noType
}

// checkCall checks a bound method invocation. Arguments are always checked
// even after the first mismatch, but only one mismatch is reported.
func (w *walker) checkCall(e *ast.MethodCall, pos position) typesystem.Type {
	instance := w.typeOf(e.Instance)

	fptr, ok := instance.(typesystem.TFptr)
	if !ok {
		if !typesystem.IsNoType(instance) {
			w.report(e, diagnostics.ErrE011, instance)
		}
		for _, a := range e.Args {
			w.typeOf(a)
		}
		return noType
	}

	ret := fptr.Return
	if ret == nil {
		ret = typesystem.TVoid{}
	}

	failed := false
	if typesystem.IsVoid(ret) && pos != callStatementPosition {
		w.report(e, diagnostics.ErrE012)
		failed = true
	}
	if !w.checkArgs(e, diagnostics.ErrE013, fptr.Params, e.Args) {
		failed = true
	}

	if failed {
		return noType
	}
	return ret
}

func (w *walker) checkNew(e *ast.NewClassInstance) typesystem.Type {
	name := e.Class.Value
	if !w.table.ClassExists(name) {
		w.report(e, diagnostics.ErrD001, name)
		for _, a := range e.Args {
			w.typeOf(a)
		}
		return noType
	}

	var params []typesystem.Type
	if ctor := w.table.Constructor(name); ctor != nil {
		params = ctor.FunctionType().Params
	}
	if !w.checkArgs(e, diagnostics.ErrE014, params, e.Args, name) {
		return noType
	}
	return typesystem.TClass{Name: name}
}

// checkArgs checks every argument and reports code once on an arity or
// subtype mismatch. It returns false on mismatch.
func (w *walker) checkArgs(node ast.TokenProvider, code diagnostics.ErrorCode, params []typesystem.Type, args []ast.Expression, msgArgs ...interface{}) bool {
	ok := len(params) == len(args)
	for i, a := range args {
		t := w.typeOf(a)
		if ok && !w.isSubtype(t, params[i]) {
			ok = false
		}
	}
	if !ok {
		w.report(node, code, msgArgs...)
	}
	return ok
}
