package codegen

import (
	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/typesystem"
	"github.com/funvibe/sophia/internal/vm"
)

// compileAssignExpression stores the right side into the target and
// leaves the stored value on the stack.
func (c *Compiler) compileAssignExpression(e *ast.BinaryExpression) error {
	line := e.Token.Line
	lt := c.types.TypeOf(e.Left)
	rt := c.types.TypeOf(e.Right)

	switch target := e.Left.(type) {
	case *ast.Identifier:
		sym, ok := c.scope.Find(target.Value)
		if !ok {
			return errors.New("unresolved %s at line %d", target.Value, line)
		}
		if err := c.compileStoredValue(e.Right, lt, rt); err != nil {
			return err
		}
		c.emit(vm.OP_DUP, line)
		c.emitBox(rt, line)
		c.emitInt(vm.OP_ASTORE, sym.Slot, line)
		return nil

	case *ast.IndexAccess:
		if err := c.compileExpression(target.Instance); err != nil {
			return err
		}
		c.emit(vm.OP_DUP, line)
		if err := c.compileExpression(target.Index); err != nil {
			return err
		}
		idx := c.allocTemp()
		c.emit(vm.OP_DUP, line)
		c.emitInt(vm.OP_ISTORE, idx, line)
		return c.finishListStore(e.Right, lt, rt, func() { c.emitInt(vm.OP_ILOAD, idx, line) }, line)

	case *ast.MemberAccess:
		switch it := c.types.TypeOf(target.Instance).(type) {
		case typesystem.TList:
			pos, ok := it.Lookup(target.Member.Value)
			if !ok {
				return errors.New("no element %s at line %d", target.Member.Value, line)
			}
			if err := c.compileExpression(target.Instance); err != nil {
				return err
			}
			c.emit(vm.OP_DUP, line)
			c.emitInt(vm.OP_LDC_INT, pos, line)
			return c.finishListStore(e.Right, lt, rt, func() { c.emitInt(vm.OP_LDC_INT, pos, line) }, line)

		case typesystem.TClass:
			sym, ok := c.table.LookupField(it.Name, target.Member.Value)
			if !ok {
				return errors.New("no field %s in %s at line %d", target.Member.Value, it.Name, line)
			}
			field := vm.MemberRef{Owner: sym.Owner, Name: sym.Name, Descriptor: typesystem.Descriptor(lt)}

			if err := c.compileExpression(target.Instance); err != nil {
				return err
			}
			c.emit(vm.OP_DUP, line)
			if err := c.compileStoredValue(e.Right, lt, rt); err != nil {
				return err
			}
			c.emitBox(rt, line)
			c.emitRef(vm.OP_PUTFIELD, field, line)
			c.emitRef(vm.OP_GETFIELD, field, line)
			c.emitUnbox(lt, line)
			return nil
		}
	}

	return errors.New("cannot assign to %T at line %d", e.Left, line)
}

// finishListStore expects list, list and index on the stack. It stores the
// value through setElement and reads it back through getElement.
func (c *Compiler) finishListStore(value ast.Expression, lt, rt typesystem.Type, index func(), line int) error {
	if err := c.compileStoredValue(value, lt, rt); err != nil {
		return err
	}
	c.emitBox(rt, line)
	c.emitRef(vm.OP_INVOKEVIRTUAL, listElementSet, line)

	index()
	c.emitRef(vm.OP_INVOKEVIRTUAL, listElementGet, line)

	cast := rt
	if _, ok := rt.(typesystem.TNull); ok {
		cast = lt
	}
	c.emitNarrow(cast, line)
	return nil
}

// compileStoredValue evaluates a value about to be stored. Lists stored
// into list locations are copied.
func (c *Compiler) compileStoredValue(value ast.Expression, lt, rt typesystem.Type) error {
	_, ll := lt.(typesystem.TList)
	_, rl := rt.(typesystem.TList)
	if !ll || !rl {
		return c.compileExpression(value)
	}

	line := value.GetToken().Line
	c.emitStr(vm.OP_NEW, config.ListClassName, line)
	c.emit(vm.OP_DUP, line)
	if err := c.compileExpression(value); err != nil {
		return err
	}
	c.emitMember(vm.OP_INVOKESPECIAL, config.ListClassName, config.InitMethodName, "(L"+config.ListClassName+";)V", line)
	return nil
}

// compileIncDec loads the target once, stores it once and leaves the
// new value for prefix forms and the old one for postfix forms.
func (c *Compiler) compileIncDec(e *ast.UnaryExpression) error {
	line := e.Token.Line

	delta := 1
	if e.Operator == ast.OpPreDec || e.Operator == ast.OpPostDec {
		delta = -1
	}
	prefix := e.Operator.IsPrefix()
	intType := typesystem.TInt{}

	// apply expects the old value on the stack, leaves the new one and
	// saves the result into slot.
	apply := func(slot int) {
		if !prefix {
			c.emit(vm.OP_DUP, line)
			c.emitInt(vm.OP_ISTORE, slot, line)
		}
		c.emitInt(vm.OP_LDC_INT, delta, line)
		c.emit(vm.OP_IADD, line)
		if prefix {
			c.emit(vm.OP_DUP, line)
			c.emitInt(vm.OP_ISTORE, slot, line)
		}
	}

	switch target := e.Operand.(type) {
	case *ast.Identifier:
		sym, ok := c.scope.Find(target.Value)
		if !ok {
			return errors.New("unresolved %s at line %d", target.Value, line)
		}
		c.emitInt(vm.OP_ALOAD, sym.Slot, line)
		c.emitUnbox(intType, line)
		if prefix {
			c.emitInt(vm.OP_LDC_INT, delta, line)
			c.emit(vm.OP_IADD, line)
			c.emit(vm.OP_DUP, line)
		} else {
			c.emit(vm.OP_DUP, line)
			c.emitInt(vm.OP_LDC_INT, delta, line)
			c.emit(vm.OP_IADD, line)
		}
		c.emitBox(intType, line)
		c.emitInt(vm.OP_ASTORE, sym.Slot, line)
		return nil

	case *ast.IndexAccess:
		list, idx, val := c.allocTemp(), c.allocTemp(), c.allocTemp()
		if err := c.compileExpression(target.Instance); err != nil {
			return err
		}
		c.emitInt(vm.OP_ASTORE, list, line)
		if err := c.compileExpression(target.Index); err != nil {
			return err
		}
		c.emitInt(vm.OP_ISTORE, idx, line)

		c.emitInt(vm.OP_ALOAD, list, line)
		c.emitInt(vm.OP_ILOAD, idx, line)
		c.emitInt(vm.OP_ALOAD, list, line)
		c.emitInt(vm.OP_ILOAD, idx, line)
		c.emitRef(vm.OP_INVOKEVIRTUAL, listElementGet, line)
		c.emitNarrow(intType, line)
		apply(val)
		c.emitBox(intType, line)
		c.emitRef(vm.OP_INVOKEVIRTUAL, listElementSet, line)
		c.emitInt(vm.OP_ILOAD, val, line)
		return nil

	case *ast.MemberAccess:
		switch it := c.types.TypeOf(target.Instance).(type) {
		case typesystem.TList:
			pos, ok := it.Lookup(target.Member.Value)
			if !ok {
				return errors.New("no element %s at line %d", target.Member.Value, line)
			}
			list, val := c.allocTemp(), c.allocTemp()
			if err := c.compileExpression(target.Instance); err != nil {
				return err
			}
			c.emitInt(vm.OP_ASTORE, list, line)

			c.emitInt(vm.OP_ALOAD, list, line)
			c.emitInt(vm.OP_LDC_INT, pos, line)
			c.emitInt(vm.OP_ALOAD, list, line)
			c.emitInt(vm.OP_LDC_INT, pos, line)
			c.emitRef(vm.OP_INVOKEVIRTUAL, listElementGet, line)
			c.emitNarrow(intType, line)
			apply(val)
			c.emitBox(intType, line)
			c.emitRef(vm.OP_INVOKEVIRTUAL, listElementSet, line)
			c.emitInt(vm.OP_ILOAD, val, line)
			return nil

		case typesystem.TClass:
			sym, ok := c.table.LookupField(it.Name, target.Member.Value)
			if !ok {
				return errors.New("no field %s in %s at line %d", target.Member.Value, it.Name, line)
			}
			field := vm.MemberRef{Owner: sym.Owner, Name: sym.Name, Descriptor: typesystem.Descriptor(intType)}

			obj, val := c.allocTemp(), c.allocTemp()
			if err := c.compileExpression(target.Instance); err != nil {
				return err
			}
			c.emitInt(vm.OP_ASTORE, obj, line)

			c.emitInt(vm.OP_ALOAD, obj, line)
			c.emitInt(vm.OP_ALOAD, obj, line)
			c.emitRef(vm.OP_GETFIELD, field, line)
			c.emitUnbox(intType, line)
			apply(val)
			c.emitBox(intType, line)
			c.emitRef(vm.OP_PUTFIELD, field, line)
			c.emitInt(vm.OP_ILOAD, val, line)
			return nil
		}
	}

	return errors.New("cannot increment %T at line %d", e.Operand, line)
}
