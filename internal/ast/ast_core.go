package ast

import (
	"github.com/funvibe/sophia/internal/token"
	"github.com/funvibe/sophia/internal/typesystem"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all declaration and statement nodes.
type Node interface {
	TokenProvider
	Accept(v Visitor)
}

// Statement is a Node that represents a statement inside a method body.
type Statement interface {
	Node
	statementNode()
}

// Expression nodes are dispatched by type switch, never visited.
type Expression interface {
	TokenProvider
	expressionNode()
}

// Program is the root of a checked compilation.
type Program struct {
	File    string
	Classes []*ClassDeclaration
}

func (p *Program) Accept(v Visitor) { v.VisitProgram(p) }
func (p *Program) GetToken() token.Token {
	if p == nil || len(p.Classes) == 0 {
		return token.Token{}
	}
	return p.Classes[0].Token
}

// ClassDeclaration is one user class. Parent is nil for root classes.
type ClassDeclaration struct {
	Token       token.Token
	Name        *Identifier
	Parent      *Identifier
	Fields      []*FieldDeclaration
	Constructor *ConstructorDeclaration
	Methods     []*MethodDeclaration
}

func (cd *ClassDeclaration) Accept(v Visitor) { v.VisitClassDeclaration(cd) }
func (cd *ClassDeclaration) GetToken() token.Token {
	if cd == nil {
		return token.Token{}
	}
	return cd.Token
}

// ParentName returns the declared parent class name or "".
func (cd *ClassDeclaration) ParentName() string {
	if cd.Parent == nil {
		return ""
	}
	return cd.Parent.Value
}

// VarDeclaration binds a name to a declared type. The checker replaces
// Type with NoType when the declaration is rejected.
type VarDeclaration struct {
	Token token.Token
	Name  *Identifier
	Type  typesystem.Type
}

func (vd *VarDeclaration) Accept(v Visitor) { v.VisitVarDeclaration(vd) }
func (vd *VarDeclaration) GetToken() token.Token {
	if vd == nil {
		return token.Token{}
	}
	return vd.Token
}

type FieldDeclaration struct {
	Var *VarDeclaration
}

func (fd *FieldDeclaration) Accept(v Visitor) { v.VisitFieldDeclaration(fd) }
func (fd *FieldDeclaration) GetToken() token.Token {
	if fd == nil || fd.Var == nil {
		return token.Token{}
	}
	return fd.Var.Token
}

// MethodDeclaration holds a method signature, its locals and body.
type MethodDeclaration struct {
	Token      token.Token
	Name       *Identifier
	Args       []*VarDeclaration
	Locals     []*VarDeclaration
	ReturnType typesystem.Type
	Body       []Statement
}

func (md *MethodDeclaration) Accept(v Visitor) { v.VisitMethodDeclaration(md) }
func (md *MethodDeclaration) GetToken() token.Token {
	if md == nil {
		return token.Token{}
	}
	return md.Token
}

// FunctionType returns the fptr type a member access to this method yields.
func (md *MethodDeclaration) FunctionType() typesystem.TFptr {
	params := make([]typesystem.Type, len(md.Args))
	for i, a := range md.Args {
		params[i] = a.Type
	}
	ret := md.ReturnType
	if ret == nil {
		ret = typesystem.TVoid{}
	}
	return typesystem.TFptr{Params: params, Return: ret}
}

// HasTopLevelReturn reports whether a return statement appears directly in the body.
func (md *MethodDeclaration) HasTopLevelReturn() bool {
	for _, s := range md.Body {
		if _, ok := s.(*ReturnStatement); ok {
			return true
		}
	}
	return false
}

// EndsWithReturn reports whether the last top-level statement is a return.
func (md *MethodDeclaration) EndsWithReturn() bool {
	if len(md.Body) == 0 {
		return false
	}
	_, ok := md.Body[len(md.Body)-1].(*ReturnStatement)
	return ok
}

// ConstructorDeclaration is a method whose return type is always void.
type ConstructorDeclaration struct {
	MethodDeclaration
}

func (cd *ConstructorDeclaration) Accept(v Visitor) { v.VisitConstructorDeclaration(cd) }

// Visitor walks declarations and statements.
type Visitor interface {
	VisitProgram(n *Program)
	VisitClassDeclaration(n *ClassDeclaration)
	VisitFieldDeclaration(n *FieldDeclaration)
	VisitVarDeclaration(n *VarDeclaration)
	VisitMethodDeclaration(n *MethodDeclaration)
	VisitConstructorDeclaration(n *ConstructorDeclaration)

	VisitAssignmentStatement(n *AssignmentStatement)
	VisitBlockStatement(n *BlockStatement)
	VisitConditionalStatement(n *ConditionalStatement)
	VisitMethodCallStatement(n *MethodCallStatement)
	VisitPrintStatement(n *PrintStatement)
	VisitReturnStatement(n *ReturnStatement)
	VisitBreakStatement(n *BreakStatement)
	VisitContinueStatement(n *ContinueStatement)
	VisitForStatement(n *ForStatement)
	VisitForeachStatement(n *ForeachStatement)
}
