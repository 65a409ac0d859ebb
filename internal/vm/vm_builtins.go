package vm

import (
	"fmt"

	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/config"
)

// Natives of the runtime classes, keyed by owner, name and descriptor.
const (
	listFromArrayList = config.ListClassName + "/(Ljava/util/ArrayList;)V"
	listCopy          = config.ListClassName + "/(L" + config.ListClassName + ";)V"
	fptrBind          = config.FptrClassName + "/(Ljava/lang/Object;Ljava/lang/String;)V"

	intValue     = "java/lang/Integer/intValue()I"
	booleanValue = "java/lang/Boolean/booleanValue()Z"
	arrayListAdd = config.ArrayListClass + "/add(Ljava/lang/Object;)Z"
	getElement   = config.ListClassName + "/" + config.GetElementMethod + "(I)Ljava/lang/Object;"
	setElement   = config.ListClassName + "/" + config.SetElementMethod + "(ILjava/lang/Object;)V"
	fptrInvoke   = config.FptrClassName + "/" + config.InvokeMethodName + "(Ljava/util/ArrayList;)Ljava/lang/Object;"
	printInt     = "java/io/PrintStream/print(I)V"
	printBool    = "java/io/PrintStream/print(Z)V"
	printString  = "java/io/PrintStream/print(Ljava/lang/String;)V"

	integerValueOf = "java/lang/Integer/valueOf(I)Ljava/lang/Integer;"
	booleanValueOf = "java/lang/Boolean/valueOf(Z)Ljava/lang/Boolean;"
)

// nativeConstructor runs a runtime-class constructor. It reports false
// when key names no native.
func (vm *VM) nativeConstructor(key string, recv Object, args []Value) (bool, error) {
	switch key {
	case listFromArrayList:
		l, al, err := listAndArg[*ArrayList](recv, args)
		if err != nil {
			return true, err
		}
		l.Elements = append([]Value(nil), al.Elements...)
		return true, nil

	case listCopy:
		l, src, err := listAndArg[*List](recv, args)
		if err != nil {
			return true, err
		}
		l.Elements = append([]Value(nil), src.Elements...)
		return true, nil

	case fptrBind:
		fp, ok := recv.(*Fptr)
		if !ok {
			return true, errors.Wrap(ErrCast, "%s is not Fptr", recv.ClassName())
		}
		name, ok := args[1].Obj.(*String)
		if !ok {
			return true, errors.Wrap(ErrCast, "method name %v", args[1])
		}
		fp.Receiver = args[0]
		fp.Method = name.Value
		return true, nil
	}

	return false, nil
}

func listAndArg[T Object](recv Object, args []Value) (*List, T, error) {
	var zero T
	l, ok := recv.(*List)
	if !ok {
		return nil, zero, errors.Wrap(ErrCast, "%s is not List", recv.ClassName())
	}
	if args[0].IsNull() {
		return nil, zero, ErrNullReference
	}
	src, ok := args[0].Obj.(T)
	if !ok {
		return nil, zero, errors.Wrap(ErrCast, "%v", args[0])
	}
	return l, src, nil
}

// nativeMethod runs an instance method of a runtime class.
func (vm *VM) nativeMethod(key string, recv Object, args []Value) (Value, bool, error) {
	switch key {
	case intValue:
		o, ok := recv.(*Integer)
		if !ok {
			return NullVal(), true, errors.Wrap(ErrCast, "%s to Integer", recv.ClassName())
		}
		return IntVal(o.Value), true, nil

	case booleanValue:
		o, ok := recv.(*Boolean)
		if !ok {
			return NullVal(), true, errors.Wrap(ErrCast, "%s to Boolean", recv.ClassName())
		}
		return BoolVal(o.Value), true, nil

	case arrayListAdd:
		al, ok := recv.(*ArrayList)
		if !ok {
			return NullVal(), true, errors.Wrap(ErrCast, "%s to ArrayList", recv.ClassName())
		}
		al.Elements = append(al.Elements, args[0])
		return BoolVal(true), true, nil

	case getElement, setElement:
		l, ok := recv.(*List)
		if !ok {
			return NullVal(), true, errors.Wrap(ErrCast, "%s to List", recv.ClassName())
		}
		i := int(args[0].Int)
		if i < 0 || i >= len(l.Elements) {
			return NullVal(), true, errors.Wrap(ErrIndexOutOfRange, "%d of %d", i, len(l.Elements))
		}
		if key == getElement {
			return l.Elements[i], true, nil
		}
		l.Elements[i] = args[1]
		return NullVal(), true, nil

	case fptrInvoke:
		fp, ok := recv.(*Fptr)
		if !ok {
			return NullVal(), true, errors.Wrap(ErrCast, "%s to Fptr", recv.ClassName())
		}
		if args[0].IsNull() {
			return NullVal(), true, ErrNullReference
		}
		al, ok := args[0].Obj.(*ArrayList)
		if !ok {
			return NullVal(), true, errors.Wrap(ErrCast, "%v to ArrayList", args[0])
		}
		res, err := vm.dispatch(fp, al.Elements)
		return res, true, err

	case printInt:
		_, err := fmt.Fprint(vm.out, args[0].Int)
		return NullVal(), true, err

	case printBool:
		_, err := fmt.Fprint(vm.out, args[0].AsBool())
		return NullVal(), true, err

	case printString:
		_, err := fmt.Fprint(vm.out, args[0].String())
		return NullVal(), true, err
	}

	return NullVal(), false, nil
}

// nativeStatic runs a static method of a runtime class.
func (vm *VM) nativeStatic(key string, args []Value) (Value, bool, error) {
	switch key {
	case integerValueOf:
		return ObjVal(&Integer{Value: args[0].Int}), true, nil
	case booleanValueOf:
		return ObjVal(&Boolean{Value: args[0].AsBool()}), true, nil
	}
	return NullVal(), false, nil
}
