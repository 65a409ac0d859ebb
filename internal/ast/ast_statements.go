package ast

import "github.com/funvibe/sophia/internal/token"

// AssignmentStatement is `left = right;` where the value is discarded.
type AssignmentStatement struct {
	Token token.Token
	Left  Expression
	Right Expression
}

func (s *AssignmentStatement) Accept(v Visitor)      { v.VisitAssignmentStatement(s) }
func (s *AssignmentStatement) statementNode()        {}
func (s *AssignmentStatement) GetToken() token.Token { return s.Token }

type BlockStatement struct {
	Token      token.Token
	Statements []Statement
}

func (s *BlockStatement) Accept(v Visitor)      { v.VisitBlockStatement(s) }
func (s *BlockStatement) statementNode()        {}
func (s *BlockStatement) GetToken() token.Token { return s.Token }

// ConditionalStatement is if/else. Else may be nil.
type ConditionalStatement struct {
	Token     token.Token
	Condition Expression
	Then      Statement
	Else      Statement
}

func (s *ConditionalStatement) Accept(v Visitor)      { v.VisitConditionalStatement(s) }
func (s *ConditionalStatement) statementNode()        {}
func (s *ConditionalStatement) GetToken() token.Token { return s.Token }

// MethodCallStatement is a call in bare-statement position.
type MethodCallStatement struct {
	Token token.Token
	Call  *MethodCall
}

func (s *MethodCallStatement) Accept(v Visitor)      { v.VisitMethodCallStatement(s) }
func (s *MethodCallStatement) statementNode()        {}
func (s *MethodCallStatement) GetToken() token.Token { return s.Token }

type PrintStatement struct {
	Token    token.Token
	Argument Expression
}

func (s *PrintStatement) Accept(v Visitor)      { v.VisitPrintStatement(s) }
func (s *PrintStatement) statementNode()        {}
func (s *PrintStatement) GetToken() token.Token { return s.Token }

// ReturnStatement with a nil Value returns void.
type ReturnStatement struct {
	Token token.Token
	Value Expression
}

func (s *ReturnStatement) Accept(v Visitor)      { v.VisitReturnStatement(s) }
func (s *ReturnStatement) statementNode()        {}
func (s *ReturnStatement) GetToken() token.Token { return s.Token }

type BreakStatement struct {
	Token token.Token
}

func (s *BreakStatement) Accept(v Visitor)      { v.VisitBreakStatement(s) }
func (s *BreakStatement) statementNode()        {}
func (s *BreakStatement) GetToken() token.Token { return s.Token }

type ContinueStatement struct {
	Token token.Token
}

func (s *ContinueStatement) Accept(v Visitor)      { v.VisitContinueStatement(s) }
func (s *ContinueStatement) statementNode()        {}
func (s *ContinueStatement) GetToken() token.Token { return s.Token }

// ForStatement is for(init; cond; update) body. Every part but Body is optional.
type ForStatement struct {
	Token     token.Token
	Init      *AssignmentStatement
	Condition Expression
	Update    *AssignmentStatement
	Body      Statement
}

func (s *ForStatement) Accept(v Visitor)      { v.VisitForStatement(s) }
func (s *ForStatement) statementNode()        {}
func (s *ForStatement) GetToken() token.Token { return s.Token }

// ForeachStatement is foreach(var in list) body.
type ForeachStatement struct {
	Token    token.Token
	Variable *Identifier
	List     Expression
	Body     Statement
}

func (s *ForeachStatement) Accept(v Visitor)      { v.VisitForeachStatement(s) }
func (s *ForeachStatement) statementNode()        {}
func (s *ForeachStatement) GetToken() token.Token { return s.Token }
