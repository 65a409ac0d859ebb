// Package prettyprinter renders a program tree back as source text.
package prettyprinter

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/typesystem"
)

// --- Code Printer (Output looks like source code) ---

// Operator precedence (higher = binds tighter)
var operatorPrecedence = map[ast.Operator]int{
	ast.OpAssign: 1,
	ast.OpOr:     2,
	ast.OpAnd:    3,
	ast.OpEq:     4,
	ast.OpNotEq:  4,
	ast.OpLt:     5,
	ast.OpGt:     5,
	ast.OpAdd:    6,
	ast.OpSub:    6,
	ast.OpMul:    7,
	ast.OpDiv:    7,
	ast.OpMod:    7,
}

const (
	prefixPrec  = 8
	postfixPrec = 9
)

func getPrecedence(op ast.Operator) int {
	if p, ok := operatorPrecedence[op]; ok {
		return p
	}
	return 10 // Default high precedence for unknown ops
}

var prefixText = map[ast.Operator]string{
	ast.OpNot:    "not ",
	ast.OpNeg:    "-",
	ast.OpPreInc: "++",
	ast.OpPreDec: "--",
}

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders a whole program.
func Print(prog *ast.Program) string {
	p := NewCodePrinter()
	prog.Accept(p)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeln() {
	p.buf.WriteString("\n")
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

// line writes one indented line.
func (p *CodePrinter) line(s string) {
	p.writeIndent()
	p.write(s)
	p.writeln()
}

func typeName(t typesystem.Type) string {
	if t == nil {
		return "void"
	}
	return t.String()
}

// printExpr prints an expression, adding parentheses only if needed
func (p *CodePrinter) printExpr(expr ast.Expression, parentPrec int, isRight bool) {
	if expr == nil {
		p.write("<???>")
		return
	}

	switch e := expr.(type) {
	case *ast.BinaryExpression:
		prec := getPrecedence(e.Operator)
		needParens := prec < parentPrec
		// For same precedence, check associativity
		if prec == parentPrec {
			rightAssoc := e.Operator == ast.OpAssign
			needParens = isRight != rightAssoc
		}
		if needParens {
			p.write("(")
		}
		p.printExpr(e.Left, prec, false)
		p.write(" " + string(e.Operator) + " ")
		p.printExpr(e.Right, prec, true)
		if needParens {
			p.write(")")
		}

	case *ast.UnaryExpression:
		switch e.Operator {
		case ast.OpPostInc, ast.OpPostDec:
			p.printExpr(e.Operand, postfixPrec, false)
			p.write(strings.TrimPrefix(string(e.Operator), "x"))
		default:
			if prefixPrec < parentPrec {
				p.write("(")
			}
			p.write(prefixText[e.Operator])
			p.printExpr(e.Operand, prefixPrec, false)
			if prefixPrec < parentPrec {
				p.write(")")
			}
		}

	case *ast.MemberAccess:
		p.printExpr(e.Instance, postfixPrec, false)
		p.write(".")
		p.write(e.Member.Value)

	case *ast.IndexAccess:
		p.printExpr(e.Instance, postfixPrec, false)
		p.write("[")
		p.printExpr(e.Index, 0, false)
		p.write("]")

	case *ast.MethodCall:
		p.printExpr(e.Instance, postfixPrec, false)
		p.printArgs(e.Args)

	case *ast.NewClassInstance:
		p.write("new ")
		p.write(e.Class.Value)
		p.printArgs(e.Args)

	case *ast.ListLiteral:
		p.write("[")
		for i, el := range e.Elements {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(el, 0, false)
		}
		p.write("]")

	case *ast.Identifier:
		p.write(e.Value)
	case *ast.ThisExpression:
		p.write("this")
	case *ast.NullLiteral:
		p.write("null")
	case *ast.IntegerLiteral:
		p.write(strconv.Itoa(e.Value))
	case *ast.BooleanLiteral:
		p.write(strconv.FormatBool(e.Value))
	case *ast.StringLiteral:
		p.write(strconv.Quote(e.Value))

	default:
		p.write("<???>")
	}
}

func (p *CodePrinter) printArgs(args []ast.Expression) {
	p.write("(")
	for i, a := range args {
		if i > 0 {
			p.write(", ")
		}
		p.printExpr(a, 0, false)
	}
	p.write(")")
}

// printBody prints a statement as a braced block at the current position.
func (p *CodePrinter) printBody(s ast.Statement) {
	p.write("{")
	p.writeln()
	p.indent++
	if b, ok := s.(*ast.BlockStatement); ok {
		for _, st := range b.Statements {
			st.Accept(p)
		}
	} else if s != nil {
		s.Accept(p)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) VisitProgram(n *ast.Program) {
	for i, cd := range n.Classes {
		if i > 0 {
			p.writeln()
		}
		cd.Accept(p)
	}
}

func (p *CodePrinter) VisitClassDeclaration(n *ast.ClassDeclaration) {
	header := "class " + n.Name.Value
	if n.Parent != nil {
		header += " extends " + n.Parent.Value
	}
	p.line(header + " {")
	p.indent++

	for _, f := range n.Fields {
		f.Accept(p)
	}
	if n.Constructor != nil {
		if len(n.Fields) > 0 {
			p.writeln()
		}
		n.Constructor.Accept(p)
	}
	for i, m := range n.Methods {
		if i > 0 || n.Constructor != nil || len(n.Fields) > 0 {
			p.writeln()
		}
		m.Accept(p)
	}

	p.indent--
	p.line("}")
}

func (p *CodePrinter) VisitFieldDeclaration(n *ast.FieldDeclaration) {
	n.Var.Accept(p)
}

func (p *CodePrinter) VisitVarDeclaration(n *ast.VarDeclaration) {
	p.line(n.Name.Value + ": " + typeName(n.Type) + ";")
}

func (p *CodePrinter) printParams(args []*ast.VarDeclaration) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Name.Value + ": " + typeName(a.Type)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (p *CodePrinter) printMethodBody(md *ast.MethodDeclaration) {
	p.indent++
	for _, l := range md.Locals {
		l.Accept(p)
	}
	if len(md.Locals) > 0 && len(md.Body) > 0 {
		p.writeln()
	}
	for _, s := range md.Body {
		s.Accept(p)
	}
	p.indent--
	p.line("}")
}

func (p *CodePrinter) VisitMethodDeclaration(n *ast.MethodDeclaration) {
	p.line("def " + typeName(n.ReturnType) + " " + n.Name.Value + p.printParams(n.Args) + " {")
	p.printMethodBody(n)
}

func (p *CodePrinter) VisitConstructorDeclaration(n *ast.ConstructorDeclaration) {
	p.line("def " + n.Name.Value + p.printParams(n.Args) + " {")
	p.printMethodBody(&n.MethodDeclaration)
}

func (p *CodePrinter) assignment(n *ast.AssignmentStatement) {
	p.printExpr(n.Left, 0, false)
	p.write(" = ")
	p.printExpr(n.Right, getPrecedence(ast.OpAssign), true)
}

func (p *CodePrinter) VisitAssignmentStatement(n *ast.AssignmentStatement) {
	p.writeIndent()
	p.assignment(n)
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) VisitBlockStatement(n *ast.BlockStatement) {
	p.writeIndent()
	p.printBody(n)
	p.writeln()
}

func (p *CodePrinter) VisitConditionalStatement(n *ast.ConditionalStatement) {
	p.writeIndent()
	p.write("if (")
	p.printExpr(n.Condition, 0, false)
	p.write(") ")
	p.printBody(n.Then)
	if n.Else != nil {
		p.write(" else ")
		p.printBody(n.Else)
	}
	p.writeln()
}

func (p *CodePrinter) VisitMethodCallStatement(n *ast.MethodCallStatement) {
	p.writeIndent()
	p.printExpr(n.Call, 0, false)
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) VisitPrintStatement(n *ast.PrintStatement) {
	p.writeIndent()
	p.write("print(")
	p.printExpr(n.Argument, 0, false)
	p.write(");")
	p.writeln()
}

func (p *CodePrinter) VisitReturnStatement(n *ast.ReturnStatement) {
	p.writeIndent()
	p.write("return")
	if n.Value != nil {
		p.write(" ")
		p.printExpr(n.Value, 0, false)
	}
	p.write(";")
	p.writeln()
}

func (p *CodePrinter) VisitBreakStatement(n *ast.BreakStatement) {
	p.line("break;")
}

func (p *CodePrinter) VisitContinueStatement(n *ast.ContinueStatement) {
	p.line("continue;")
}

func (p *CodePrinter) VisitForStatement(n *ast.ForStatement) {
	p.writeIndent()
	p.write("for (")
	if n.Init != nil {
		p.assignment(n.Init)
	}
	p.write("; ")
	if n.Condition != nil {
		p.printExpr(n.Condition, 0, false)
	}
	p.write("; ")
	if n.Update != nil {
		p.assignment(n.Update)
	}
	p.write(") ")
	p.printBody(n.Body)
	p.writeln()
}

func (p *CodePrinter) VisitForeachStatement(n *ast.ForeachStatement) {
	p.writeIndent()
	p.write("foreach (" + n.Variable.Value + " in ")
	p.printExpr(n.List, 0, false)
	p.write(") ")
	p.printBody(n.Body)
	p.writeln()
}
