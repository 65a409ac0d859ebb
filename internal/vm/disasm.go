package vm

import (
	"fmt"
	"strconv"
	"strings"
)

// Render serializes a unit as assembler text.
func Render(u *Unit) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, ".class public %s\n", u.Name)
	fmt.Fprintf(&sb, ".super %s\n", u.Super)

	for _, f := range u.Fields {
		fmt.Fprintf(&sb, ".field %s %s\n", f.Name, f.Descriptor)
	}

	for _, m := range u.Methods {
		sb.WriteString(".method public ")
		if m.Static {
			sb.WriteString("static ")
		}
		sb.WriteString(m.Name)
		sb.WriteString(m.Descriptor)
		sb.WriteString("\n")
		fmt.Fprintf(&sb, ".limit stack %d\n", m.StackLimit)
		fmt.Fprintf(&sb, ".limit locals %d\n", m.LocalsLimit)

		for _, in := range m.Chunk.Code {
			if in.Op == OP_LABEL {
				fmt.Fprintf(&sb, "\t%s:\n", in.Str)
				continue
			}
			sb.WriteString("\t\t")
			sb.WriteString(FormatInstruction(in))
			sb.WriteString("\n")
		}

		sb.WriteString(".end method\n")
	}

	return sb.String()
}

// FormatInstruction renders one instruction without indentation.
func FormatInstruction(in Instruction) string {
	name := in.Op.String()

	switch in.Op {
	case OP_ALOAD, OP_ASTORE, OP_ILOAD, OP_ISTORE:
		if in.Int <= 3 {
			return fmt.Sprintf("%s_%d", name, in.Int)
		}
	}

	if ops := operands(in); ops != "" {
		return name + " " + ops
	}
	return name
}

func operands(in Instruction) string {
	switch in.Op {
	case OP_LDC_INT:
		return strconv.Itoa(in.Int)
	case OP_LDC_STRING:
		return strconv.Quote(in.Str)
	case OP_ALOAD, OP_ASTORE, OP_ILOAD, OP_ISTORE:
		return strconv.Itoa(in.Int)
	case OP_IINC:
		return fmt.Sprintf("%d %d", in.Int, in.Delta)
	case OP_NEW, OP_CHECKCAST:
		return in.Str
	case OP_GETFIELD, OP_PUTFIELD, OP_GETSTATIC:
		return fmt.Sprintf("%s/%s %s", in.Member.Owner, in.Member.Name, in.Member.Descriptor)
	case OP_INVOKESPECIAL, OP_INVOKEVIRTUAL, OP_INVOKESTATIC:
		return fmt.Sprintf("%s/%s%s", in.Member.Owner, in.Member.Name, in.Member.Descriptor)
	}

	if in.Op.IsJump() {
		return in.Str
	}
	return ""
}

// Disassemble returns a numbered listing of a method for debugging.
func Disassemble(m *Method, name string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", name))

	for offset, in := range m.Chunk.Code {
		sb.WriteString(fmt.Sprintf("%04d ", offset))

		if offset > 0 && in.Line == m.Chunk.Code[offset-1].Line {
			sb.WriteString("   | ")
		} else {
			sb.WriteString(fmt.Sprintf("%4d ", in.Line))
		}

		if in.Op == OP_LABEL {
			sb.WriteString(in.Str + ":\n")
			continue
		}
		line := fmt.Sprintf("%-16s %s", strings.ToUpper(in.Op.String()), operands(in))
		sb.WriteString(strings.TrimRight(line, " ") + "\n")
	}

	return sb.String()
}
