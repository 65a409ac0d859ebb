package ast

import "github.com/funvibe/sophia/internal/token"

// Operator names a binary or unary operator.
type Operator string

const (
	OpAssign Operator = "="
	OpAdd    Operator = "+"
	OpSub    Operator = "-"
	OpMul    Operator = "*"
	OpDiv    Operator = "/"
	OpMod    Operator = "%"
	OpLt     Operator = "<"
	OpGt     Operator = ">"
	OpEq     Operator = "=="
	OpNotEq  Operator = "!="
	OpAnd    Operator = "and"
	OpOr     Operator = "or"

	OpNot     Operator = "not"
	OpNeg     Operator = "neg"
	OpPreInc  Operator = "++x"
	OpPreDec  Operator = "--x"
	OpPostInc Operator = "x++"
	OpPostDec Operator = "x--"
)

// IsArithmetic reports +, -, *, / and %.
func (op Operator) IsArithmetic() bool {
	switch op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMod:
		return true
	}
	return false
}

func (op Operator) IsRelational() bool { return op == OpLt || op == OpGt }
func (op Operator) IsEquality() bool   { return op == OpEq || op == OpNotEq }
func (op Operator) IsLogical() bool    { return op == OpAnd || op == OpOr }

// IsIncDec reports the four increment and decrement forms.
func (op Operator) IsIncDec() bool {
	switch op {
	case OpPreInc, OpPreDec, OpPostInc, OpPostDec:
		return true
	}
	return false
}

func (op Operator) IsPrefix() bool { return op == OpPreInc || op == OpPreDec }

type Identifier struct {
	Token token.Token
	Value string
}

func (e *Identifier) expressionNode()       {}
func (e *Identifier) GetToken() token.Token { return e.Token }

type BinaryExpression struct {
	Token    token.Token
	Operator Operator
	Left     Expression
	Right    Expression
}

func (e *BinaryExpression) expressionNode()       {}
func (e *BinaryExpression) GetToken() token.Token { return e.Token }

type UnaryExpression struct {
	Token    token.Token
	Operator Operator
	Operand  Expression
}

func (e *UnaryExpression) expressionNode()       {}
func (e *UnaryExpression) GetToken() token.Token { return e.Token }

// MemberAccess is instance.member on a class instance or a named list element.
type MemberAccess struct {
	Token    token.Token
	Instance Expression
	Member   *Identifier
}

func (e *MemberAccess) expressionNode()       {}
func (e *MemberAccess) GetToken() token.Token { return e.Token }

// IndexAccess is instance[index] on a list.
type IndexAccess struct {
	Token    token.Token
	Instance Expression
	Index    Expression
}

func (e *IndexAccess) expressionNode()       {}
func (e *IndexAccess) GetToken() token.Token { return e.Token }

// MethodCall invokes an fptr-typed instance expression.
type MethodCall struct {
	Token    token.Token
	Instance Expression
	Args     []Expression
}

func (e *MethodCall) expressionNode()       {}
func (e *MethodCall) GetToken() token.Token { return e.Token }

type NewClassInstance struct {
	Token token.Token
	Class *Identifier
	Args  []Expression
}

func (e *NewClassInstance) expressionNode()       {}
func (e *NewClassInstance) GetToken() token.Token { return e.Token }

type ThisExpression struct {
	Token token.Token
}

func (e *ThisExpression) expressionNode()       {}
func (e *ThisExpression) GetToken() token.Token { return e.Token }

// ListLiteral builds an unnamed list from its element values.
type ListLiteral struct {
	Token    token.Token
	Elements []Expression
}

func (e *ListLiteral) expressionNode()       {}
func (e *ListLiteral) GetToken() token.Token { return e.Token }

type NullLiteral struct {
	Token token.Token
}

func (e *NullLiteral) expressionNode()       {}
func (e *NullLiteral) GetToken() token.Token { return e.Token }

type IntegerLiteral struct {
	Token token.Token
	Value int
}

func (e *IntegerLiteral) expressionNode()       {}
func (e *IntegerLiteral) GetToken() token.Token { return e.Token }

type BooleanLiteral struct {
	Token token.Token
	Value bool
}

func (e *BooleanLiteral) expressionNode()       {}
func (e *BooleanLiteral) GetToken() token.Token { return e.Token }

type StringLiteral struct {
	Token token.Token
	Value string
}

func (e *StringLiteral) expressionNode()       {}
func (e *StringLiteral) GetToken() token.Token { return e.Token }
