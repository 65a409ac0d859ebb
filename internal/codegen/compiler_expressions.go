package codegen

import (
	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/typesystem"
	"github.com/funvibe/sophia/internal/vm"
)

// compileExpression leaves the value of expr on the stack.
// Ints and bools are left unboxed; everything else is a reference.
func (c *Compiler) compileExpression(expr ast.Expression) error {
	line := expr.GetToken().Line

	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		c.emitInt(vm.OP_LDC_INT, e.Value, line)
	case *ast.BooleanLiteral:
		v := 0
		if e.Value {
			v = 1
		}
		c.emitInt(vm.OP_LDC_INT, v, line)
	case *ast.StringLiteral:
		c.emitStr(vm.OP_LDC_STRING, e.Value, line)
	case *ast.NullLiteral:
		c.emit(vm.OP_ACONST_NULL, line)
	case *ast.ThisExpression:
		c.emitInt(vm.OP_ALOAD, 0, line)

	case *ast.Identifier:
		return c.compileIdentifier(e)
	case *ast.MemberAccess:
		return c.compileMemberAccess(e)
	case *ast.IndexAccess:
		return c.compileIndexAccess(e)
	case *ast.ListLiteral:
		return c.compileListLiteral(e)
	case *ast.NewClassInstance:
		return c.compileNewClassInstance(e)
	case *ast.MethodCall:
		return c.compileMethodCall(e)
	case *ast.BinaryExpression:
		if e.Operator == ast.OpAssign {
			return c.compileAssignExpression(e)
		}
		return c.compileInfixExpression(e)
	case *ast.UnaryExpression:
		if e.Operator.IsIncDec() {
			return c.compileIncDec(e)
		}
		return c.compilePrefixExpression(e)

	default:
		return errors.New("unsupported expression %T at line %d", expr, line)
	}

	return nil
}

func (c *Compiler) compileIdentifier(e *ast.Identifier) error {
	sym, ok := c.scope.Find(e.Value)
	if !ok {
		return errors.New("unresolved %s at line %d", e.Value, e.Token.Line)
	}
	c.emitInt(vm.OP_ALOAD, sym.Slot, e.Token.Line)
	c.emitUnbox(sym.Type(), e.Token.Line)
	return nil
}

func (c *Compiler) compileMemberAccess(e *ast.MemberAccess) error {
	line := e.Token.Line
	name := e.Member.Value

	switch it := c.types.TypeOf(e.Instance).(type) {
	case typesystem.TClass:
		if sym, ok := c.table.LookupField(it.Name, name); ok {
			if err := c.compileExpression(e.Instance); err != nil {
				return err
			}
			c.emitMember(vm.OP_GETFIELD, sym.Owner, name, typesystem.Descriptor(sym.Type()), line)
			c.emitUnbox(sym.Type(), line)
			return nil
		}
		if _, ok := c.table.LookupMethod(it.Name, name); ok {
			return c.compileBoundMethod(e)
		}
		return errors.New("no member %s in %s at line %d", name, it.Name, line)

	case typesystem.TList:
		idx, ok := it.Lookup(name)
		if !ok {
			return errors.New("no element %s at line %d", name, line)
		}
		if err := c.compileExpression(e.Instance); err != nil {
			return err
		}
		c.emitInt(vm.OP_LDC_INT, idx, line)
		c.emitRef(vm.OP_INVOKEVIRTUAL, listElementGet, line)
		c.emitNarrow(c.types.TypeOf(e), line)
		return nil
	}

	return errors.New("member access on %v at line %d", c.types.TypeOf(e.Instance), line)
}

// compileBoundMethod pairs the receiver with the method name.
func (c *Compiler) compileBoundMethod(e *ast.MemberAccess) error {
	line := e.Token.Line

	c.emitStr(vm.OP_NEW, config.FptrClassName, line)
	c.emit(vm.OP_DUP, line)
	if err := c.compileExpression(e.Instance); err != nil {
		return err
	}
	c.emitStr(vm.OP_LDC_STRING, e.Member.Value, line)
	c.emitMember(vm.OP_INVOKESPECIAL, config.FptrClassName, config.InitMethodName, "(Ljava/lang/Object;Ljava/lang/String;)V", line)
	return nil
}

func (c *Compiler) compileIndexAccess(e *ast.IndexAccess) error {
	line := e.Token.Line

	if err := c.compileExpression(e.Instance); err != nil {
		return err
	}
	if err := c.compileExpression(e.Index); err != nil {
		return err
	}
	c.emitRef(vm.OP_INVOKEVIRTUAL, listElementGet, line)
	c.emitNarrow(c.types.TypeOf(e), line)
	return nil
}

func (c *Compiler) compileListLiteral(e *ast.ListLiteral) error {
	line := e.Token.Line

	c.emitStr(vm.OP_NEW, config.ListClassName, line)
	c.emit(vm.OP_DUP, line)
	c.emitNewArrayList(line)

	for _, el := range e.Elements {
		c.emit(vm.OP_DUP, line)
		if err := c.compileBoxed(el); err != nil {
			return err
		}
		c.emitRef(vm.OP_INVOKEVIRTUAL, arrayListAdd, line)
		c.emit(vm.OP_POP, line)
	}

	c.emitMember(vm.OP_INVOKESPECIAL, config.ListClassName, config.InitMethodName, "(Ljava/util/ArrayList;)V", line)
	return nil
}

func (c *Compiler) compileNewClassInstance(e *ast.NewClassInstance) error {
	line := e.Token.Line
	name := e.Class.Value

	c.emitStr(vm.OP_NEW, name, line)
	c.emit(vm.OP_DUP, line)
	for _, a := range e.Args {
		if err := c.compileBoxed(a); err != nil {
			return err
		}
	}
	c.emitMember(vm.OP_INVOKESPECIAL, name, config.InitMethodName, constructorDescriptor(c.table.Constructor(name)), line)
	return nil
}

// compileMethodCall invokes a bound method with its arguments boxed into an ArrayList.
func (c *Compiler) compileMethodCall(e *ast.MethodCall) error {
	line := e.Token.Line

	if err := c.compileExpression(e.Instance); err != nil {
		return err
	}

	c.emitNewArrayList(line)
	for _, a := range e.Args {
		c.emit(vm.OP_DUP, line)
		if err := c.compileBoxed(a); err != nil {
			return err
		}
		c.emitRef(vm.OP_INVOKEVIRTUAL, arrayListAdd, line)
		c.emit(vm.OP_POP, line)
	}

	c.emitMember(vm.OP_INVOKEVIRTUAL, config.FptrClassName, config.InvokeMethodName, "(Ljava/util/ArrayList;)Ljava/lang/Object;", line)

	if f, ok := c.types.TypeOf(e.Instance).(typesystem.TFptr); ok && !typesystem.IsVoid(f.Return) {
		c.emitNarrow(f.Return, line)
	}
	return nil
}

// compileBoxed leaves the object form of expr on the stack.
func (c *Compiler) compileBoxed(expr ast.Expression) error {
	if err := c.compileExpression(expr); err != nil {
		return err
	}
	c.emitBox(c.types.TypeOf(expr), expr.GetToken().Line)
	return nil
}

func (c *Compiler) compilePrefixExpression(e *ast.UnaryExpression) error {
	line := e.Token.Line

	if err := c.compileExpression(e.Operand); err != nil {
		return err
	}

	switch e.Operator {
	case ast.OpNeg:
		c.emit(vm.OP_INEG, line)
	case ast.OpNot:
		c.emitBranchMerge(vm.OP_IFNE, 0, line)
	default:
		return errors.New("unsupported unary operator %s at line %d", e.Operator, line)
	}
	return nil
}

var arithOps = map[ast.Operator]vm.Opcode{
	ast.OpAdd: vm.OP_IADD,
	ast.OpSub: vm.OP_ISUB,
	ast.OpMul: vm.OP_IMUL,
	ast.OpDiv: vm.OP_IDIV,
	ast.OpMod: vm.OP_IREM,
}

func (c *Compiler) compileInfixExpression(e *ast.BinaryExpression) error {
	line := e.Token.Line

	if e.Operator.IsLogical() {
		return c.compileLogicalOp(e)
	}

	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}

	if op, ok := arithOps[e.Operator]; ok {
		c.emit(op, line)
		return nil
	}

	switch e.Operator {
	case ast.OpLt:
		c.emitBranchMerge(vm.OP_IF_ICMPLT, 1, line)
	case ast.OpGt:
		c.emitBranchMerge(vm.OP_IF_ICMPGT, 1, line)
	case ast.OpEq, ast.OpNotEq:
		op := vm.OP_IF_ACMPEQ
		if typesystem.IsPrimitive(c.types.TypeOf(e.Left)) {
			op = vm.OP_IF_ICMPEQ
		}
		if e.Operator == ast.OpNotEq {
			op++
		}
		c.emitBranchMerge(op, 1, line)
	default:
		return errors.New("unsupported operator %s at line %d", e.Operator, line)
	}
	return nil
}

// emitBranchMerge consumes the operands of jump and pushes taken
// when it jumps and 1-taken otherwise.
func (c *Compiler) emitBranchMerge(jump vm.Opcode, taken int, line int) {
	tl := c.newLabel()
	after := c.newLabel()

	c.emitStr(jump, tl, line)
	c.emitInt(vm.OP_LDC_INT, 1-taken, line)
	c.emitStr(vm.OP_GOTO, after, line)
	c.placeLabel(tl, line)
	c.emitInt(vm.OP_LDC_INT, taken, line)
	c.placeLabel(after, line)
}

// compileLogicalOp evaluates the right operand only when the left one
// does not decide the result.
func (c *Compiler) compileLogicalOp(e *ast.BinaryExpression) error {
	line := e.Token.Line

	exit := vm.OP_IFEQ
	decided := 0
	if e.Operator == ast.OpOr {
		exit = vm.OP_IFNE
		decided = 1
	}

	short := c.newLabel()
	after := c.newLabel()

	if err := c.compileExpression(e.Left); err != nil {
		return err
	}
	c.emitStr(exit, short, line)
	if err := c.compileExpression(e.Right); err != nil {
		return err
	}
	c.emitStr(exit, short, line)
	c.emitInt(vm.OP_LDC_INT, 1-decided, line)
	c.emitStr(vm.OP_GOTO, after, line)
	c.placeLabel(short, line)
	c.emitInt(vm.OP_LDC_INT, decided, line)
	c.placeLabel(after, line)
	return nil
}
