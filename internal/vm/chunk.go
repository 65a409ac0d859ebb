package vm

import (
	"strings"

	"tlog.app/go/errors"
)

// MemberRef names a field or method of a class.
type MemberRef struct {
	Owner      string
	Name       string
	Descriptor string
}

// Instruction is one opcode with its typed operands.
// Only the operands the opcode uses are set.
type Instruction struct {
	Op     Opcode
	Int    int       // int constant or slot
	Delta  int       // iinc increment
	Str    string    // string constant, label or class name
	Member MemberRef // field and method references
	Line   int
}

// Chunk is the code of one method.
type Chunk struct {
	Code []Instruction

	labels map[string]int
}

// NewChunk creates a new empty chunk
func NewChunk() *Chunk {
	return &Chunk{Code: make([]Instruction, 0, 64)}
}

// Emit appends an instruction and returns its offset.
func (c *Chunk) Emit(in Instruction) int {
	c.Code = append(c.Code, in)
	c.labels = nil
	return len(c.Code) - 1
}

// Last returns the last emitted instruction, if any.
func (c *Chunk) Last() (Instruction, bool) {
	if len(c.Code) == 0 {
		return Instruction{}, false
	}
	return c.Code[len(c.Code)-1], true
}

// Resolve returns the offset of a label.
func (c *Chunk) Resolve(label string) (int, error) {
	if c.labels == nil {
		c.labels = make(map[string]int)
		for i, in := range c.Code {
			if in.Op == OP_LABEL {
				c.labels[in.Str] = i
			}
		}
	}
	off, ok := c.labels[label]
	if !ok {
		return 0, errors.Wrap(ErrUnknownLabel, "%s", label)
	}
	return off, nil
}

// Field is a declared instance field.
type Field struct {
	Name       string
	Descriptor string
}

// Method is one emitted method with its frame limits.
type Method struct {
	Name        string
	Descriptor  string
	Static      bool
	StackLimit  int
	LocalsLimit int
	Chunk       *Chunk
}

// Unit is the emitted form of one class.
type Unit struct {
	Name    string
	Super   string
	Fields  []Field
	Methods []*Method

	// MethodTable maps every callable method name to its declaring class.
	MethodTable map[string]string
}

// FindMethod returns the method with exactly this name and descriptor.
func (u *Unit) FindMethod(name, desc string) *Method {
	for _, m := range u.Methods {
		if m.Name == name && m.Descriptor == desc {
			return m
		}
	}
	return nil
}

// MethodByName returns the first non-static method called name.
func (u *Unit) MethodByName(name string) *Method {
	for _, m := range u.Methods {
		if m.Name == name && !m.Static {
			return m
		}
	}
	return nil
}

// ArgCount returns the number of parameters in a method descriptor.
func ArgCount(desc string) int {
	end := strings.IndexByte(desc, ')')
	if !strings.HasPrefix(desc, "(") || end < 0 {
		return 0
	}

	n := 0
	params := desc[1:end]
	for i := 0; i < len(params); i++ {
		switch params[i] {
		case '[':
			continue
		case 'L':
			semi := strings.IndexByte(params[i:], ';')
			if semi < 0 {
				return n
			}
			i += semi
		}
		n++
	}
	return n
}

// ReturnsVoid reports whether a method descriptor returns nothing.
func ReturnsVoid(desc string) bool {
	return strings.HasSuffix(desc, ")V")
}
