package vm

import (
	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/config"
)

// allocate handles new for runtime and user classes.
func (vm *VM) allocate(class string) (Object, error) {
	switch class {
	case config.ListClassName:
		return &List{}, nil
	case config.FptrClassName:
		return &Fptr{}, nil
	case config.ArrayListClass:
		return &ArrayList{}, nil
	}
	u, ok := vm.units[class]
	if !ok {
		return nil, errors.Wrap(ErrNoSuchClass, "%s", class)
	}
	return newInstance(u), nil
}

// instanceOf reports whether o can be narrowed to class.
func (vm *VM) instanceOf(o Object, class string) bool {
	if class == config.RootClassName {
		return true
	}
	inst, ok := o.(*Instance)
	if !ok {
		return o.ClassName() == class
	}
	seen := make(map[string]bool)
	for u := inst.Class; u != nil && !seen[u.Name]; u = vm.units[u.Super] {
		if u.Name == class {
			return true
		}
		seen[u.Name] = true
	}
	return false
}

// invokeSpecial runs constructors.
func (vm *VM) invokeSpecial(f *CallFrame, ref MemberRef) error {
	if ref.Name != config.InitMethodName {
		return errors.Wrap(ErrNoSuchMethod, "invokespecial %s/%s", ref.Owner, ref.Name)
	}

	n := ArgCount(ref.Descriptor)
	vals, err := f.popN(n + 1)
	if err != nil {
		return err
	}
	recv, args := vals[0], vals[1:]
	if recv.IsNull() {
		return ErrNullReference
	}

	if ok, err := vm.nativeConstructor(ref.Owner+"/"+ref.Descriptor, recv.Obj, args); ok {
		return err
	}
	if ref.Owner == config.RootClassName || ref.Owner == config.ArrayListClass {
		return nil
	}

	u, ok := vm.units[ref.Owner]
	if !ok {
		return errors.Wrap(ErrNoSuchClass, "%s", ref.Owner)
	}
	m := u.FindMethod(ref.Name, ref.Descriptor)
	if m == nil {
		return errors.Wrap(ErrNoSuchMethod, "%s/%s%s", ref.Owner, ref.Name, ref.Descriptor)
	}

	_, err = vm.invoke(u, m, vals)
	return err
}

// invokeVirtual runs runtime-class natives and user methods.
func (vm *VM) invokeVirtual(f *CallFrame, ref MemberRef) error {
	n := ArgCount(ref.Descriptor)
	vals, err := f.popN(n + 1)
	if err != nil {
		return err
	}
	recv, args := vals[0], vals[1:]
	if recv.IsNull() {
		return errors.Wrap(ErrNullReference, "call %s", ref.Name)
	}

	if res, ok, err := vm.nativeMethod(ref.Owner+"/"+ref.Name+ref.Descriptor, recv.Obj, args); ok {
		if err != nil {
			return err
		}
		if ReturnsVoid(ref.Descriptor) {
			return nil
		}
		return f.push(res)
	}

	inst, err := asInstance(recv)
	if err != nil {
		return err
	}
	u, m := vm.resolveVirtual(inst.Class, ref.Name, ref.Descriptor)
	if m == nil {
		return errors.Wrap(ErrNoSuchMethod, "%s/%s%s", inst.Class.Name, ref.Name, ref.Descriptor)
	}
	res, err := vm.invoke(u, m, vals)
	if err != nil {
		return err
	}
	if ReturnsVoid(ref.Descriptor) {
		return nil
	}
	return f.push(res)
}

func (vm *VM) invokeStatic(f *CallFrame, ref MemberRef) error {
	args, err := f.popN(ArgCount(ref.Descriptor))
	if err != nil {
		return err
	}
	res, ok, err := vm.nativeStatic(ref.Owner+"/"+ref.Name+ref.Descriptor, args)
	if !ok {
		return errors.Wrap(ErrNoSuchMethod, "static %s/%s%s", ref.Owner, ref.Name, ref.Descriptor)
	}
	if err != nil {
		return err
	}
	return f.push(res)
}

func (vm *VM) getStatic(f *CallFrame, ref MemberRef) error {
	if ref.Owner == "java/lang/System" && ref.Name == "out" {
		return f.push(ObjVal(&PrintStream{}))
	}
	return errors.Wrap(ErrNoSuchMethod, "static field %s/%s", ref.Owner, ref.Name)
}

// resolveVirtual walks from class up through its parents.
func (vm *VM) resolveVirtual(u *Unit, name, desc string) (*Unit, *Method) {
	seen := make(map[string]bool)
	for ; u != nil && !seen[u.Name]; u = vm.units[u.Super] {
		seen[u.Name] = true
		if m := u.FindMethod(name, desc); m != nil {
			return u, m
		}
	}
	return nil, nil
}

// dispatch invokes a bound method by name on its receiver.
func (vm *VM) dispatch(fp *Fptr, args []Value) (Value, error) {
	inst, err := asInstance(fp.Receiver)
	if err != nil {
		return NullVal(), errors.Wrap(err, "invoke %s", fp.Method)
	}

	owner, ok := inst.Class.MethodTable[fp.Method]
	if !ok {
		return NullVal(), errors.Wrap(ErrNoSuchMethod, "%s.%s", inst.Class.Name, fp.Method)
	}

	u, ok := vm.units[owner]
	if !ok {
		return NullVal(), errors.Wrap(ErrNoSuchClass, "%s", owner)
	}
	m := u.MethodByName(fp.Method)
	if m == nil {
		return NullVal(), errors.Wrap(ErrNoSuchMethod, "%s.%s", owner, fp.Method)
	}
	if n := ArgCount(m.Descriptor); n != len(args) {
		return NullVal(), errors.Wrap(ErrNoSuchMethod, "%s.%s takes %d args, got %d", u.Name, fp.Method, n, len(args))
	}

	frame := make([]Value, 0, len(args)+1)
	frame = append(frame, fp.Receiver)
	frame = append(frame, args...)

	return vm.invoke(u, m, frame)
}
