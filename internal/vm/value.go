package vm

import (
	"fmt"
	"strconv"
)

// ValueType identifies the type of value stored in the Value struct
type ValueType uint8

const (
	ValNull ValueType = iota
	ValInt            // int and bool on the operand stack
	ValObj            // heap reference
)

// Value is a stack-allocated tagged union.
type Value struct {
	Type ValueType
	Int  int32
	Obj  Object
}

func NullVal() Value          { return Value{Type: ValNull} }
func IntVal(v int32) Value    { return Value{Type: ValInt, Int: v} }
func ObjVal(o Object) Value   { return Value{Type: ValObj, Obj: o} }
func (v Value) IsNull() bool  { return v.Type == ValNull }
func (v Value) IsRef() bool   { return v.Type != ValInt }
func (v Value) AsBool() bool  { return v.Int != 0 }
func BoolVal(b bool) Value {
	if b {
		return IntVal(1)
	}
	return IntVal(0)
}

// Same reports reference identity.
func (v Value) Same(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ValNull:
		return true
	case ValInt:
		return v.Int == o.Int
	}
	return v.Obj == o.Obj
}

func (v Value) String() string {
	switch v.Type {
	case ValNull:
		return "null"
	case ValInt:
		return strconv.Itoa(int(v.Int))
	}
	return fmt.Sprint(v.Obj)
}
