package treeio

import (
	"gopkg.in/yaml.v3"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/token"
)

func decodeStatements(n *yaml.Node) ([]ast.Statement, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, malformed(n, "expected a list of statements")
	}
	res := make([]ast.Statement, 0, len(n.Content))
	for _, item := range n.Content {
		s, err := decodeStatement(item)
		if err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, nil
}

// decodeBody accepts one statement or a list that becomes a block.
func decodeBody(n *yaml.Node) (ast.Statement, error) {
	if n.Kind == yaml.SequenceNode {
		stmts, err := decodeStatements(n)
		if err != nil {
			return nil, err
		}
		return &ast.BlockStatement{Token: tok(n, token.BLOCK, "block"), Statements: stmts}, nil
	}
	return decodeStatement(n)
}

func decodeStatement(n *yaml.Node) (ast.Statement, error) {
	k, v, err := single(n)
	if err != nil {
		return nil, err
	}

	switch k.Value {
	case "print":
		x, err := decodeExpression(v)
		if err != nil {
			return nil, err
		}
		return &ast.PrintStatement{Token: tok(k, token.PRINT, "print"), Argument: x}, nil

	case "assign":
		return decodeAssignment(k, v)

	case "call":
		call, err := decodeCall(k, v)
		if err != nil {
			return nil, err
		}
		return &ast.MethodCallStatement{Token: call.Token, Call: call}, nil

	case "return":
		s := &ast.ReturnStatement{Token: tok(k, token.RETURN, "return")}
		if isNull(v) {
			return s, nil
		}
		if s.Value, err = decodeExpression(v); err != nil {
			return nil, err
		}
		return s, nil

	case "block":
		stmts, err := decodeStatements(v)
		if err != nil {
			return nil, err
		}
		return &ast.BlockStatement{Token: tok(k, token.BLOCK, "block"), Statements: stmts}, nil

	case "break":
		return &ast.BreakStatement{Token: tok(k, token.BREAK, "break")}, nil
	case "continue":
		return &ast.ContinueStatement{Token: tok(k, token.CONTINUE, "continue")}, nil

	case "if":
		return decodeConditional(k, v)
	case "for":
		return decodeFor(k, v)
	case "foreach":
		return decodeForeach(k, v)
	}

	return nil, unknown(k)
}

func decodeAssignment(k, v *yaml.Node) (*ast.AssignmentStatement, error) {
	l, r, err := pair(v)
	if err != nil {
		return nil, err
	}
	s := &ast.AssignmentStatement{Token: tok(k, token.ASSIGN, "=")}
	if s.Left, err = decodeExpression(l); err != nil {
		return nil, err
	}
	if s.Right, err = decodeExpression(r); err != nil {
		return nil, err
	}
	return s, nil
}

func decodeConditional(k, v *yaml.Node) (ast.Statement, error) {
	s := &ast.ConditionalStatement{Token: tok(k, token.IF, "if")}

	err := fields(v, func(key string, kk, vv *yaml.Node) error {
		var err error
		switch key {
		case "cond":
			s.Condition, err = decodeExpression(vv)
		case "then":
			s.Then, err = decodeBody(vv)
		case "else":
			s.Else, err = decodeBody(vv)
		default:
			return unknown(kk)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.Condition == nil || s.Then == nil {
		return nil, malformed(k, "if needs cond and then")
	}
	return s, nil
}

func decodeFor(k, v *yaml.Node) (ast.Statement, error) {
	s := &ast.ForStatement{Token: tok(k, token.FOR, "for")}

	err := fields(v, func(key string, kk, vv *yaml.Node) error {
		var err error
		switch key {
		case "init":
			s.Init, err = decodeAssignment(kk, vv)
		case "cond":
			s.Condition, err = decodeExpression(vv)
		case "update":
			s.Update, err = decodeAssignment(kk, vv)
		case "body":
			s.Body, err = decodeBody(vv)
		default:
			return unknown(kk)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.Body == nil {
		s.Body = &ast.BlockStatement{Token: s.Token}
	}
	return s, nil
}

func decodeForeach(k, v *yaml.Node) (ast.Statement, error) {
	s := &ast.ForeachStatement{Token: tok(k, token.FOREACH, "foreach")}

	err := fields(v, func(key string, kk, vv *yaml.Node) error {
		var err error
		switch key {
		case "var":
			var name string
			if name, err = scalar(vv, "loop variable"); err == nil {
				s.Variable = &ast.Identifier{Token: tok(vv, token.IDENT_LOWER, name), Value: name}
			}
		case "in":
			s.List, err = decodeExpression(vv)
		case "body":
			s.Body, err = decodeBody(vv)
		default:
			return unknown(kk)
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	if s.Variable == nil || s.List == nil {
		return nil, malformed(k, "foreach needs var and in")
	}
	if s.Body == nil {
		s.Body = &ast.BlockStatement{Token: s.Token}
	}
	return s, nil
}

func pair(n *yaml.Node) (*yaml.Node, *yaml.Node, error) {
	if n.Kind != yaml.SequenceNode || len(n.Content) != 2 {
		return nil, nil, malformed(n, "expected [left, right]")
	}
	return n.Content[0], n.Content[1], nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}
