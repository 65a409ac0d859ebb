// Package vm holds the emitted class units, their textual rendering and
// a reference interpreter that executes them.
package vm

// Opcode represents a single VM instruction
type Opcode byte

const (
	// Constants
	OP_LDC_INT     Opcode = iota // Push int constant
	OP_LDC_STRING                // Push string constant
	OP_ACONST_NULL               // Push null reference

	// Locals
	OP_ALOAD  // Push reference from slot
	OP_ASTORE // Pop reference into slot
	OP_ILOAD  // Push int from slot
	OP_ISTORE // Pop int into slot
	OP_IINC   // Add constant to int slot

	// Stack manipulation
	OP_DUP // Duplicate top of stack
	OP_POP // Discard top of stack

	// Arithmetic
	OP_IADD // +
	OP_ISUB // -
	OP_IMUL // *
	OP_IDIV // /
	OP_IREM // %
	OP_INEG // Unary minus

	// Branches
	OP_IFEQ      // Jump if int is zero
	OP_IFNE      // Jump if int is not zero
	OP_IF_ICMPEQ // Jump if ints equal
	OP_IF_ICMPNE // Jump if ints differ
	OP_IF_ICMPLT // Jump if a < b
	OP_IF_ICMPGT // Jump if a > b
	OP_IF_ICMPGE // Jump if a >= b
	OP_IF_ACMPEQ // Jump if references identical
	OP_IF_ACMPNE // Jump if references differ
	OP_GOTO      // Unconditional jump
	OP_LABEL     // Jump target, no effect

	// Objects
	OP_NEW       // Allocate instance of class
	OP_CHECKCAST // Runtime-checked narrowing
	OP_GETFIELD  // Push field of popped object
	OP_PUTFIELD  // Store value into field of object
	OP_GETSTATIC // Push static field

	// Calls
	OP_INVOKESPECIAL // Constructor call
	OP_INVOKEVIRTUAL // Instance method call
	OP_INVOKESTATIC  // Static method call
	OP_RETURN        // Return void
	OP_ARETURN       // Return reference
)

// OpcodeNames maps opcodes to their mnemonics
var OpcodeNames = map[Opcode]string{
	OP_LDC_INT:       "ldc",
	OP_LDC_STRING:    "ldc",
	OP_ACONST_NULL:   "aconst_null",
	OP_ALOAD:         "aload",
	OP_ASTORE:        "astore",
	OP_ILOAD:         "iload",
	OP_ISTORE:        "istore",
	OP_IINC:          "iinc",
	OP_DUP:           "dup",
	OP_POP:           "pop",
	OP_IADD:          "iadd",
	OP_ISUB:          "isub",
	OP_IMUL:          "imul",
	OP_IDIV:          "idiv",
	OP_IREM:          "irem",
	OP_INEG:          "ineg",
	OP_IFEQ:          "ifeq",
	OP_IFNE:          "ifne",
	OP_IF_ICMPEQ:     "if_icmpeq",
	OP_IF_ICMPNE:     "if_icmpne",
	OP_IF_ICMPLT:     "if_icmplt",
	OP_IF_ICMPGT:     "if_icmpgt",
	OP_IF_ICMPGE:     "if_icmpge",
	OP_IF_ACMPEQ:     "if_acmpeq",
	OP_IF_ACMPNE:     "if_acmpne",
	OP_GOTO:          "goto",
	OP_LABEL:         "label",
	OP_NEW:           "new",
	OP_CHECKCAST:     "checkcast",
	OP_GETFIELD:      "getfield",
	OP_PUTFIELD:      "putfield",
	OP_GETSTATIC:     "getstatic",
	OP_INVOKESPECIAL: "invokespecial",
	OP_INVOKEVIRTUAL: "invokevirtual",
	OP_INVOKESTATIC:  "invokestatic",
	OP_RETURN:        "return",
	OP_ARETURN:       "areturn",
}

func (op Opcode) String() string {
	if n, ok := OpcodeNames[op]; ok {
		return n
	}
	return "unknown"
}

// IsJump reports opcodes whose operand is a label.
func (op Opcode) IsJump() bool {
	switch op {
	case OP_IFEQ, OP_IFNE, OP_IF_ICMPEQ, OP_IF_ICMPNE, OP_IF_ICMPLT, OP_IF_ICMPGT,
		OP_IF_ICMPGE, OP_IF_ACMPEQ, OP_IF_ACMPNE, OP_GOTO:
		return true
	}
	return false
}
