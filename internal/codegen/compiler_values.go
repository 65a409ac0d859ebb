package codegen

import (
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/typesystem"
	"github.com/funvibe/sophia/internal/vm"
)

const (
	integerClass = "java/lang/Integer"
	booleanClass = "java/lang/Boolean"
)

var (
	listElementGet = vm.MemberRef{Owner: config.ListClassName, Name: config.GetElementMethod, Descriptor: "(I)Ljava/lang/Object;"}
	listElementSet = vm.MemberRef{Owner: config.ListClassName, Name: config.SetElementMethod, Descriptor: "(ILjava/lang/Object;)V"}
	arrayListAdd   = vm.MemberRef{Owner: config.ArrayListClass, Name: "add", Descriptor: "(Ljava/lang/Object;)Z"}
)

func (c *Compiler) emitRef(op vm.Opcode, ref vm.MemberRef, line int) {
	c.chunk.Emit(vm.Instruction{Op: op, Member: ref, Line: line})
}

// emitBox turns a stack-native int or bool into its object form.
func (c *Compiler) emitBox(t typesystem.Type, line int) {
	switch t.(type) {
	case typesystem.TInt:
		c.emitMember(vm.OP_INVOKESTATIC, integerClass, config.ValueOfMethodName, "(I)Ljava/lang/Integer;", line)
	case typesystem.TBool:
		c.emitMember(vm.OP_INVOKESTATIC, booleanClass, config.ValueOfMethodName, "(Z)Ljava/lang/Boolean;", line)
	}
}

// emitUnbox turns a boxed int or bool back into its stack-native form.
func (c *Compiler) emitUnbox(t typesystem.Type, line int) {
	switch t.(type) {
	case typesystem.TInt:
		c.emitMember(vm.OP_INVOKEVIRTUAL, integerClass, "intValue", "()I", line)
	case typesystem.TBool:
		c.emitMember(vm.OP_INVOKEVIRTUAL, booleanClass, "booleanValue", "()Z", line)
	}
}

// emitNarrow casts an Object on the stack to t and unboxes primitives.
func (c *Compiler) emitNarrow(t typesystem.Type, line int) {
	switch t.(type) {
	case typesystem.TNull, typesystem.TNoType, typesystem.TVoid, nil:
		return
	}
	c.emitStr(vm.OP_CHECKCAST, typesystem.ClassRef(t), line)
	c.emitUnbox(t, line)
}

// emitDefault pushes the boxed zero value of t.
func (c *Compiler) emitDefault(t typesystem.Type, line int) {
	switch t := t.(type) {
	case typesystem.TInt:
		c.emitInt(vm.OP_LDC_INT, 0, line)
		c.emitBox(t, line)
	case typesystem.TBool:
		c.emitInt(vm.OP_LDC_INT, 0, line)
		c.emitBox(t, line)
	case typesystem.TString:
		c.emitStr(vm.OP_LDC_STRING, "", line)
	case typesystem.TList:
		c.emitStr(vm.OP_NEW, config.ListClassName, line)
		c.emit(vm.OP_DUP, line)
		c.emitNewArrayList(line)
		for _, el := range t.Elements {
			c.emit(vm.OP_DUP, line)
			c.emitDefault(el.Type, line)
			c.emitRef(vm.OP_INVOKEVIRTUAL, arrayListAdd, line)
			c.emit(vm.OP_POP, line)
		}
		c.emitMember(vm.OP_INVOKESPECIAL, config.ListClassName, config.InitMethodName, "(Ljava/util/ArrayList;)V", line)
	default:
		c.emit(vm.OP_ACONST_NULL, line)
	}
}

func (c *Compiler) emitNewArrayList(line int) {
	c.emitStr(vm.OP_NEW, config.ArrayListClass, line)
	c.emit(vm.OP_DUP, line)
	c.emitMember(vm.OP_INVOKESPECIAL, config.ArrayListClass, config.InitMethodName, "()V", line)
}
