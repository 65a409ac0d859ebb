package vm

import (
	"strconv"
	"strings"

	"github.com/funvibe/sophia/internal/config"
)

// Object is a heap value. ClassName is the internal name checkcast tests against.
type Object interface {
	ClassName() string
}

type Integer struct{ Value int32 }
type Boolean struct{ Value bool }
type String struct{ Value string }

// Instance is an object of a user class.
type Instance struct {
	Class  *Unit
	Fields map[string]Value
}

// List is the runtime backing of list values: boxed references by position.
type List struct {
	Elements []Value
}

// Fptr pairs a receiver with the name of the method to dispatch on it.
type Fptr struct {
	Receiver Value
	Method   string
}

// ArrayList collects boxed arguments and list literal elements.
type ArrayList struct {
	Elements []Value
}

type PrintStream struct{}

func (*Integer) ClassName() string     { return "java/lang/Integer" }
func (*Boolean) ClassName() string     { return "java/lang/Boolean" }
func (*String) ClassName() string      { return "java/lang/String" }
func (o *Instance) ClassName() string  { return o.Class.Name }
func (*List) ClassName() string        { return config.ListClassName }
func (*Fptr) ClassName() string        { return config.FptrClassName }
func (*ArrayList) ClassName() string   { return config.ArrayListClass }
func (*PrintStream) ClassName() string { return "java/io/PrintStream" }

func (o *Integer) String() string { return strconv.Itoa(int(o.Value)) }
func (o *Boolean) String() string { return strconv.FormatBool(o.Value) }
func (o *String) String() string  { return o.Value }

func (o *Instance) String() string { return o.Class.Name + "{}" }
func (o *Fptr) String() string     { return "fptr(" + o.Method + ")" }

func (o *List) String() string {
	parts := make([]string, len(o.Elements))
	for i, e := range o.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (o *ArrayList) String() string {
	return (&List{Elements: o.Elements}).String()
}

func newInstance(u *Unit) *Instance {
	return &Instance{Class: u, Fields: make(map[string]Value)}
}
