package codegen

import (
	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/typesystem"
	"github.com/funvibe/sophia/internal/vm"
)

func (c *Compiler) pushLoop(cont, brk string) {
	c.loopStack = append(c.loopStack, loopContext{continueLabel: cont, breakLabel: brk})
}

func (c *Compiler) popLoop() {
	c.loopStack = c.loopStack[:len(c.loopStack)-1]
}

func (c *Compiler) compileBreakStatement(s *ast.BreakStatement) error {
	if len(c.loopStack) == 0 {
		return errors.New("break outside of a loop at line %d", s.Token.Line)
	}
	c.emitStr(vm.OP_GOTO, c.loopStack[len(c.loopStack)-1].breakLabel, s.Token.Line)
	return nil
}

func (c *Compiler) compileContinueStatement(s *ast.ContinueStatement) error {
	if len(c.loopStack) == 0 {
		return errors.New("continue outside of a loop at line %d", s.Token.Line)
	}
	c.emitStr(vm.OP_GOTO, c.loopStack[len(c.loopStack)-1].continueLabel, s.Token.Line)
	return nil
}

// compileForStatement lowers
//
//	init; START: cond ifeq BREAK; body; CONTINUE: update; goto START; BREAK:
func (c *Compiler) compileForStatement(s *ast.ForStatement) error {
	line := s.Token.Line
	start, cont, brk := c.newLabel(), c.newLabel(), c.newLabel()

	if s.Init != nil {
		if err := c.compileAssignmentStatement(s.Init); err != nil {
			return err
		}
	}

	c.placeLabel(start, line)
	if s.Condition != nil {
		if err := c.compileExpression(s.Condition); err != nil {
			return err
		}
		c.emitStr(vm.OP_IFEQ, brk, line)
	}

	c.pushLoop(cont, brk)
	err := c.compileStatement(s.Body)
	c.popLoop()
	if err != nil {
		return err
	}

	c.placeLabel(cont, line)
	if s.Update != nil {
		if err := c.compileAssignmentStatement(s.Update); err != nil {
			return err
		}
	}
	c.emitStr(vm.OP_GOTO, start, line)
	c.placeLabel(brk, line)
	return nil
}

// compileForeachStatement walks the list by index up to its static length.
func (c *Compiler) compileForeachStatement(s *ast.ForeachStatement) error {
	line := s.Token.Line

	list, ok := c.types.TypeOf(s.List).(typesystem.TList)
	if !ok {
		return errors.New("foreach over %v at line %d", c.types.TypeOf(s.List), line)
	}
	sym, ok := c.scope.Find(s.Variable.Value)
	if !ok {
		return errors.New("unresolved %s at line %d", s.Variable.Value, line)
	}

	start, cont, brk := c.newLabel(), c.newLabel(), c.newLabel()
	tList, tIter := c.allocTemp(), c.allocTemp()

	if err := c.compileExpression(s.List); err != nil {
		return err
	}
	c.emitInt(vm.OP_ASTORE, tList, line)
	c.emitInt(vm.OP_LDC_INT, 0, line)
	c.emitInt(vm.OP_ISTORE, tIter, line)

	c.placeLabel(start, line)
	c.emitInt(vm.OP_ILOAD, tIter, line)
	c.emitInt(vm.OP_LDC_INT, len(list.Elements), line)
	c.emitStr(vm.OP_IF_ICMPGE, brk, line)

	c.emitInt(vm.OP_ALOAD, tList, line)
	c.emitInt(vm.OP_ILOAD, tIter, line)
	c.emitRef(vm.OP_INVOKEVIRTUAL, listElementGet, line)
	if vt := sym.Type(); !typesystem.IsNoType(vt) {
		c.emitStr(vm.OP_CHECKCAST, typesystem.ClassRef(vt), line)
	}
	c.emitInt(vm.OP_ASTORE, sym.Slot, line)

	c.pushLoop(cont, brk)
	err := c.compileStatement(s.Body)
	c.popLoop()
	if err != nil {
		return err
	}

	c.placeLabel(cont, line)
	c.chunk.Emit(vm.Instruction{Op: vm.OP_IINC, Int: tIter, Delta: 1, Line: line})
	c.emitStr(vm.OP_GOTO, start, line)
	c.placeLabel(brk, line)
	return nil
}
