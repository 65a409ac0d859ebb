package typesystem

import (
	"strings"

	"github.com/funvibe/sophia/internal/config"
)

// Type is the interface for all types in our system.
// The set of implementations is closed.
type Type interface {
	String() string
	typeNode()
}

type TInt struct{}
type TBool struct{}
type TString struct{}

// TNull is the type of the null literal.
type TNull struct{}

// TVoid is the result type of methods that return nothing.
type TVoid struct{}

// TNoType marks an expression whose type could not be computed.
// A diagnostic has already been raised for it, so it silences further ones.
type TNoType struct{}

// TClass refers to a user class by name.
type TClass struct {
	Name string
}

// TFptr is the type of a method reference.
type TFptr struct {
	Params []Type
	Return Type
}

// ListElement is one position of a list type. Name is empty for unnamed positions.
type ListElement struct {
	Name string
	Type Type
}

// TList is a fixed-arity list. Elements may be renamed or downgraded in place.
type TList struct {
	Elements []ListElement
}

func (TInt) typeNode()    {}
func (TBool) typeNode()   {}
func (TString) typeNode() {}
func (TNull) typeNode()   {}
func (TVoid) typeNode()   {}
func (TNoType) typeNode() {}
func (TClass) typeNode()  {}
func (TFptr) typeNode()   {}
func (TList) typeNode()   {}

func (TInt) String() string    { return "int" }
func (TBool) String() string   { return "bool" }
func (TString) String() string { return "string" }
func (TNull) String() string   { return "null" }
func (TVoid) String() string   { return "void" }
func (TNoType) String() string { return "notype" }

func (t TClass) String() string { return t.Name }

func (t TFptr) String() string {
	var b strings.Builder
	b.WriteString("fptr(")
	for i, p := range t.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.String())
	}
	if len(t.Params) > 0 {
		b.WriteString(" ")
	}
	b.WriteString("-> ")
	if t.Return == nil {
		b.WriteString("void")
	} else {
		b.WriteString(t.Return.String())
	}
	b.WriteString(")")
	return b.String()
}

func (t TList) String() string {
	var b strings.Builder
	b.WriteString("list(")
	for i, e := range t.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		if e.Name != "" {
			b.WriteString(e.Name)
			b.WriteString(": ")
		}
		b.WriteString(e.Type.String())
	}
	b.WriteString(")")
	return b.String()
}

// IsNoType reports whether t is nil or the error sentinel.
func IsNoType(t Type) bool {
	if t == nil {
		return true
	}
	_, ok := t.(TNoType)
	return ok
}

func IsVoid(t Type) bool {
	_, ok := t.(TVoid)
	return ok
}

// IsPrimitive reports int and bool, the types kept unboxed on the operand stack.
func IsPrimitive(t Type) bool {
	switch t.(type) {
	case TInt, TBool:
		return true
	}
	return false
}

// Element returns the i-th element type of a list, or NoType when out of range.
func (t TList) Element(i int) Type {
	if i < 0 || i >= len(t.Elements) {
		return TNoType{}
	}
	return t.Elements[i].Type
}

// Lookup finds a named element position.
func (t TList) Lookup(name string) (int, bool) {
	for i, e := range t.Elements {
		if e.Name != "" && e.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Descriptor returns the boxed storage descriptor of a declared type.
func Descriptor(t Type) string {
	switch t := t.(type) {
	case TInt:
		return "Ljava/lang/Integer;"
	case TBool:
		return "Ljava/lang/Boolean;"
	case TString:
		return "Ljava/lang/String;"
	case TFptr:
		return "L" + config.FptrClassName + ";"
	case TList:
		return "L" + config.ListClassName + ";"
	case TClass:
		return "L" + t.Name + ";"
	case TVoid:
		return "V"
	}
	return "Ljava/lang/Object;"
}

// ClassRef returns the internal class name used by checkcast for t.
func ClassRef(t Type) string {
	switch t := t.(type) {
	case TInt:
		return "java/lang/Integer"
	case TBool:
		return "java/lang/Boolean"
	case TString:
		return "java/lang/String"
	case TFptr:
		return config.FptrClassName
	case TList:
		return config.ListClassName
	case TClass:
		return t.Name
	}
	return config.RootClassName
}
