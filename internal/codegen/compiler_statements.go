package codegen

import (
	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/typesystem"
	"github.com/funvibe/sophia/internal/vm"
)

// compileStatement lowers one statement. Statements leave the stack as they found it.
func (c *Compiler) compileStatement(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case *ast.AssignmentStatement:
		return c.compileAssignmentStatement(s)

	case *ast.BlockStatement:
		return c.compileBlockStatement(s)

	case *ast.ConditionalStatement:
		return c.compileConditional(s)

	case *ast.MethodCallStatement:
		if err := c.compileMethodCall(s.Call); err != nil {
			return err
		}
		c.emit(vm.OP_POP, s.Token.Line)
		return nil

	case *ast.PrintStatement:
		return c.compilePrintStatement(s)

	case *ast.ReturnStatement:
		return c.compileReturnStatement(s)

	case *ast.BreakStatement:
		return c.compileBreakStatement(s)

	case *ast.ContinueStatement:
		return c.compileContinueStatement(s)

	case *ast.ForStatement:
		return c.compileForStatement(s)

	case *ast.ForeachStatement:
		return c.compileForeachStatement(s)
	}

	return errors.New("unsupported statement %T", stmt)
}

func (c *Compiler) compileAssignmentStatement(s *ast.AssignmentStatement) error {
	e := &ast.BinaryExpression{Token: s.Token, Operator: ast.OpAssign, Left: s.Left, Right: s.Right}
	if err := c.compileAssignExpression(e); err != nil {
		return err
	}
	c.emit(vm.OP_POP, s.Token.Line)
	return nil
}

func (c *Compiler) compileBlockStatement(block *ast.BlockStatement) error {
	for _, s := range block.Statements {
		if err := c.compileStatement(s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Compiler) compileConditional(s *ast.ConditionalStatement) error {
	line := s.Token.Line
	elseLabel := c.newLabel()
	after := c.newLabel()

	if err := c.compileExpression(s.Condition); err != nil {
		return err
	}
	c.emitStr(vm.OP_IFEQ, elseLabel, line)

	if err := c.compileStatement(s.Then); err != nil {
		return err
	}
	c.emitStr(vm.OP_GOTO, after, line)

	c.placeLabel(elseLabel, line)
	if s.Else != nil {
		if err := c.compileStatement(s.Else); err != nil {
			return err
		}
	}
	c.placeLabel(after, line)
	return nil
}

func (c *Compiler) compilePrintStatement(s *ast.PrintStatement) error {
	line := s.Token.Line

	var desc string
	switch t := c.types.TypeOf(s.Argument); t.(type) {
	case typesystem.TInt:
		desc = "(I)V"
	case typesystem.TBool:
		desc = "(Z)V"
	case typesystem.TString:
		desc = "(Ljava/lang/String;)V"
	default:
		return errors.New("cannot print %v at line %d", t, line)
	}

	c.emitMember(vm.OP_GETSTATIC, "java/lang/System", "out", "Ljava/io/PrintStream;", line)
	if err := c.compileExpression(s.Argument); err != nil {
		return err
	}
	c.emitMember(vm.OP_INVOKEVIRTUAL, "java/io/PrintStream", config.PrintMethodName, desc, line)
	return nil
}

func (c *Compiler) compileReturnStatement(s *ast.ReturnStatement) error {
	line := s.Token.Line

	if s.Value == nil {
		c.emit(vm.OP_RETURN, line)
		return nil
	}

	if err := c.compileExpression(s.Value); err != nil {
		return err
	}

	t := c.types.TypeOf(s.Value)
	if typesystem.IsVoid(t) {
		c.emit(vm.OP_POP, line)
		c.emit(vm.OP_RETURN, line)
		return nil
	}

	c.emitBox(t, line)
	c.emit(vm.OP_ARETURN, line)
	return nil
}
