package vm

import (
	"tlog.app/go/errors"
)

// checkEvery is how many instructions run between context checks.
const checkEvery = 1 << 12

// execute runs the frame until it returns.
func (vm *VM) execute(f *CallFrame) (Value, error) {
	code := f.method.Chunk.Code
	steps := 0

	for f.pc < len(code) {
		steps++
		if steps%checkEvery == 0 {
			if err := vm.ctx.Err(); err != nil {
				return NullVal(), err
			}
		}

		in := code[f.pc]
		f.pc++

		switch in.Op {
		case OP_RETURN:
			return NullVal(), nil
		case OP_ARETURN:
			return f.pop()
		}

		if err := vm.step(f, in); err != nil {
			return NullVal(), errors.Wrap(err, "at %d %s", f.pc-1, FormatInstruction(in))
		}
	}

	return NullVal(), nil
}

func (vm *VM) step(f *CallFrame, in Instruction) error {
	switch in.Op {
	case OP_LDC_INT:
		return f.push(IntVal(int32(in.Int)))
	case OP_LDC_STRING:
		return f.push(ObjVal(vm.internString(in.Str)))
	case OP_ACONST_NULL:
		return f.push(NullVal())

	case OP_ALOAD, OP_ILOAD:
		s, err := f.slot(in.Int)
		if err != nil {
			return err
		}
		return f.push(*s)
	case OP_ASTORE, OP_ISTORE:
		s, err := f.slot(in.Int)
		if err != nil {
			return err
		}
		v, err := f.pop()
		if err != nil {
			return err
		}
		*s = v
		return nil
	case OP_IINC:
		s, err := f.slot(in.Int)
		if err != nil {
			return err
		}
		*s = IntVal(s.Int + int32(in.Delta))
		return nil

	case OP_DUP:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if err := f.push(v); err != nil {
			return err
		}
		return f.push(v)
	case OP_POP:
		_, err := f.pop()
		return err

	case OP_IADD, OP_ISUB, OP_IMUL, OP_IDIV, OP_IREM:
		return vm.arith(f, in.Op)
	case OP_INEG:
		v, err := f.pop()
		if err != nil {
			return err
		}
		return f.push(IntVal(-v.Int))

	case OP_GOTO:
		return vm.jump(f, in.Str)
	case OP_LABEL:
		return nil
	case OP_IFEQ, OP_IFNE:
		v, err := f.pop()
		if err != nil {
			return err
		}
		if (v.Int == 0) == (in.Op == OP_IFEQ) {
			return vm.jump(f, in.Str)
		}
		return nil
	case OP_IF_ICMPEQ, OP_IF_ICMPNE, OP_IF_ICMPLT, OP_IF_ICMPGT, OP_IF_ICMPGE:
		vals, err := f.popN(2)
		if err != nil {
			return err
		}
		if compareInts(in.Op, vals[0].Int, vals[1].Int) {
			return vm.jump(f, in.Str)
		}
		return nil
	case OP_IF_ACMPEQ, OP_IF_ACMPNE:
		vals, err := f.popN(2)
		if err != nil {
			return err
		}
		if vals[0].Same(vals[1]) == (in.Op == OP_IF_ACMPEQ) {
			return vm.jump(f, in.Str)
		}
		return nil

	case OP_NEW:
		o, err := vm.allocate(in.Str)
		if err != nil {
			return err
		}
		return f.push(ObjVal(o))
	case OP_CHECKCAST:
		if len(f.stack) == 0 {
			return ErrStackUnderflow
		}
		v := f.stack[len(f.stack)-1]
		if v.IsNull() {
			return nil
		}
		if v.Type != ValObj || !vm.instanceOf(v.Obj, in.Str) {
			return errors.Wrap(ErrCast, "%v to %s", v, in.Str)
		}
		return nil
	case OP_GETFIELD:
		obj, err := f.pop()
		if err != nil {
			return err
		}
		inst, err := asInstance(obj)
		if err != nil {
			return errors.Wrap(err, "get %s", in.Member.Name)
		}
		return f.push(inst.Fields[in.Member.Name])
	case OP_PUTFIELD:
		vals, err := f.popN(2)
		if err != nil {
			return err
		}
		inst, err := asInstance(vals[0])
		if err != nil {
			return errors.Wrap(err, "put %s", in.Member.Name)
		}
		inst.Fields[in.Member.Name] = vals[1]
		return nil
	case OP_GETSTATIC:
		return vm.getStatic(f, in.Member)

	case OP_INVOKESPECIAL:
		return vm.invokeSpecial(f, in.Member)
	case OP_INVOKEVIRTUAL:
		return vm.invokeVirtual(f, in.Member)
	case OP_INVOKESTATIC:
		return vm.invokeStatic(f, in.Member)
	}

	return errors.New("unsupported opcode %v", in.Op)
}

func (vm *VM) jump(f *CallFrame, label string) error {
	off, err := f.method.Chunk.Resolve(label)
	if err != nil {
		return err
	}
	f.pc = off
	return nil
}

func (vm *VM) arith(f *CallFrame, op Opcode) error {
	vals, err := f.popN(2)
	if err != nil {
		return err
	}
	a, b := vals[0].Int, vals[1].Int

	var r int32
	switch op {
	case OP_IADD:
		r = a + b
	case OP_ISUB:
		r = a - b
	case OP_IMUL:
		r = a * b
	case OP_IDIV, OP_IREM:
		if b == 0 {
			return ErrDivisionByZero
		}
		if op == OP_IDIV {
			r = a / b
		} else {
			r = a % b
		}
	}
	return f.push(IntVal(r))
}

func compareInts(op Opcode, a, b int32) bool {
	switch op {
	case OP_IF_ICMPEQ:
		return a == b
	case OP_IF_ICMPNE:
		return a != b
	case OP_IF_ICMPLT:
		return a < b
	case OP_IF_ICMPGT:
		return a > b
	case OP_IF_ICMPGE:
		return a >= b
	}
	return false
}

func asInstance(v Value) (*Instance, error) {
	if v.IsNull() {
		return nil, ErrNullReference
	}
	inst, ok := v.Obj.(*Instance)
	if !ok {
		return nil, errors.Wrap(ErrCast, "%v is not an object", v)
	}
	return inst, nil
}
