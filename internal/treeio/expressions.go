package treeio

import (
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/token"
)

var binaryOps = map[string]ast.Operator{
	"=":   ast.OpAssign,
	"+":   ast.OpAdd,
	"-":   ast.OpSub,
	"*":   ast.OpMul,
	"/":   ast.OpDiv,
	"%":   ast.OpMod,
	"<":   ast.OpLt,
	">":   ast.OpGt,
	"==":  ast.OpEq,
	"!=":  ast.OpNotEq,
	"and": ast.OpAnd,
	"or":  ast.OpOr,
}

var unaryOps = map[string]ast.Operator{
	"not":     ast.OpNot,
	"neg":     ast.OpNeg,
	"preinc":  ast.OpPreInc,
	"predec":  ast.OpPreDec,
	"postinc": ast.OpPostInc,
	"postdec": ast.OpPostDec,
}

func decodeExpression(n *yaml.Node) (ast.Expression, error) {
	if n.Kind == yaml.ScalarNode {
		return decodeScalar(n)
	}

	k, v, err := single(n)
	if err != nil {
		return nil, err
	}

	if op, ok := unaryOps[k.Value]; ok {
		x, err := decodeExpression(v)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Token: tok(k, token.TokenType(op), string(op)), Operator: op, Operand: x}, nil
	}

	switch k.Value {
	case "str":
		return &ast.StringLiteral{Token: tok(v, token.STRING, v.Value), Value: v.Value}, nil
	case "null":
		return &ast.NullLiteral{Token: tok(k, token.NULL, "null")}, nil

	case "bin":
		if v.Kind != yaml.SequenceNode || len(v.Content) != 3 {
			return nil, malformed(v, "expected [op, left, right]")
		}
		op, ok := binaryOps[v.Content[0].Value]
		if !ok {
			return nil, unknown(v.Content[0])
		}
		e := &ast.BinaryExpression{Token: tok(k, token.TokenType(op), string(op)), Operator: op}
		if e.Left, err = decodeExpression(v.Content[1]); err != nil {
			return nil, err
		}
		if e.Right, err = decodeExpression(v.Content[2]); err != nil {
			return nil, err
		}
		return e, nil

	case "assign":
		l, r, err := pair(v)
		if err != nil {
			return nil, err
		}
		e := &ast.BinaryExpression{Token: tok(k, token.ASSIGN, "="), Operator: ast.OpAssign}
		if e.Left, err = decodeExpression(l); err != nil {
			return nil, err
		}
		if e.Right, err = decodeExpression(r); err != nil {
			return nil, err
		}
		return e, nil

	case "dot":
		x, m, err := pair(v)
		if err != nil {
			return nil, err
		}
		name, err := scalar(m, "member")
		if err != nil {
			return nil, err
		}
		e := &ast.MemberAccess{Token: tok(k, token.DOT, "."), Member: &ast.Identifier{Token: tok(m, token.IDENT_LOWER, name), Value: name}}
		if e.Instance, err = decodeExpression(x); err != nil {
			return nil, err
		}
		return e, nil

	case "idx":
		x, i, err := pair(v)
		if err != nil {
			return nil, err
		}
		e := &ast.IndexAccess{Token: tok(k, token.LBRACKET, "[")}
		if e.Instance, err = decodeExpression(x); err != nil {
			return nil, err
		}
		if e.Index, err = decodeExpression(i); err != nil {
			return nil, err
		}
		return e, nil

	case "call":
		return decodeCall(k, v)

	case "new":
		if v.Kind != yaml.SequenceNode || len(v.Content) == 0 {
			return nil, malformed(v, "expected [Class, args...]")
		}
		name, err := scalar(v.Content[0], "class")
		if err != nil {
			return nil, err
		}
		e := &ast.NewClassInstance{
			Token: tok(k, token.NEW, "new"),
			Class: &ast.Identifier{Token: tok(v.Content[0], token.IDENT_LOWER, name), Value: name},
		}
		if e.Args, err = decodeExpressions(v.Content[1:]); err != nil {
			return nil, err
		}
		return e, nil

	case "list":
		if v.Kind != yaml.SequenceNode {
			return nil, malformed(v, "expected a list of elements")
		}
		elems, err := decodeExpressions(v.Content)
		if err != nil {
			return nil, err
		}
		return &ast.ListLiteral{Token: tok(k, token.LBRACKET, "["), Elements: elems}, nil
	}

	return nil, unknown(k)
}

// decodeCall reads [fn, args...].
func decodeCall(k, v *yaml.Node) (*ast.MethodCall, error) {
	if v.Kind != yaml.SequenceNode || len(v.Content) == 0 {
		return nil, malformed(v, "expected [fn, args...]")
	}
	fn, err := decodeExpression(v.Content[0])
	if err != nil {
		return nil, err
	}
	args, err := decodeExpressions(v.Content[1:])
	if err != nil {
		return nil, err
	}
	return &ast.MethodCall{Token: tok(k, token.LPAREN, "("), Instance: fn, Args: args}, nil
}

func decodeExpressions(nodes []*yaml.Node) ([]ast.Expression, error) {
	res := make([]ast.Expression, 0, len(nodes))
	for _, n := range nodes {
		x, err := decodeExpression(n)
		if err != nil {
			return nil, err
		}
		res = append(res, x)
	}
	return res, nil
}

func decodeScalar(n *yaml.Node) (ast.Expression, error) {
	if n.Style&(yaml.DoubleQuotedStyle|yaml.SingleQuotedStyle) != 0 {
		return &ast.StringLiteral{Token: tok(n, token.STRING, n.Value), Value: n.Value}, nil
	}

	switch n.Tag {
	case "!!int":
		v, err := strconv.ParseInt(n.Value, 0, 32)
		if err != nil {
			return nil, malformed(n, "int literal out of range")
		}
		return &ast.IntegerLiteral{Token: tok(n, token.INT, n.Value), Value: int(v)}, nil
	case "!!bool":
		b := n.Value == "true"
		var tt token.TokenType = token.FALSE
		if b {
			tt = token.TRUE
		}
		return &ast.BooleanLiteral{Token: tok(n, tt, n.Value), Value: b}, nil
	case "!!null":
		return &ast.NullLiteral{Token: tok(n, token.NULL, "null")}, nil
	case "!!float":
		return nil, malformed(n, "only int literals are supported")
	}

	if n.Value == "this" {
		return &ast.ThisExpression{Token: tok(n, token.THIS, "this")}, nil
	}
	if n.Value == "" {
		return nil, malformed(n, "empty expression")
	}
	return &ast.Identifier{Token: tok(n, token.IDENT_LOWER, n.Value), Value: n.Value}, nil
}
