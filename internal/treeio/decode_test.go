package treeio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/typesystem"
)

func TestDecodeClasses(t *testing.T) {
	src := `
classes:
  - class: Main
    constructor:
      locals:
        - s: Shape
      body:
        - assign: [s, {new: [Square, 4]}]
        - print: {call: [{dot: [s, area]}]}
  - class: Shape
    fields:
      - side: int
    methods:
      - name: area
        returns: int
        body:
          - return: 0
  - class: Square
    extends: Shape
    constructor:
      args:
        - n: int
      body:
        - assign: [{dot: [this, side]}, n]
    methods:
      - name: area
        returns: int
        body:
          - return: {bin: ["*", side, side]}
`
	p, err := Decode("shapes.yaml", []byte(src))
	require.NoError(t, err)
	require.Len(t, p.Classes, 3)
	assert.Equal(t, "shapes.yaml", p.File)

	main := p.Classes[0]
	assert.Equal(t, "Main", main.Name.Value)
	require.NotNil(t, main.Constructor)
	assert.Equal(t, "Main", main.Constructor.Name.Value)
	require.Len(t, main.Constructor.Locals, 1)
	assert.Equal(t, typesystem.TClass{Name: "Shape"}, main.Constructor.Locals[0].Type)
	require.Len(t, main.Constructor.Body, 2)

	as, ok := main.Constructor.Body[0].(*ast.AssignmentStatement)
	require.True(t, ok)
	nc, ok := as.Right.(*ast.NewClassInstance)
	require.True(t, ok)
	assert.Equal(t, "Square", nc.Class.Value)
	require.Len(t, nc.Args, 1)
	assert.Equal(t, 4, nc.Args[0].(*ast.IntegerLiteral).Value)

	ps := main.Constructor.Body[1].(*ast.PrintStatement)
	call, ok := ps.Argument.(*ast.MethodCall)
	require.True(t, ok)
	ma, ok := call.Instance.(*ast.MemberAccess)
	require.True(t, ok)
	assert.Equal(t, "area", ma.Member.Value)

	sq := p.Classes[2]
	assert.Equal(t, "Shape", sq.ParentName())
	assert.Equal(t, typesystem.TInt{}, sq.Methods[0].ReturnType)

	ret := sq.Methods[0].Body[0].(*ast.ReturnStatement)
	bin := ret.Value.(*ast.BinaryExpression)
	assert.Equal(t, ast.OpMul, bin.Operator)
}

func TestDecodeStatements(t *testing.T) {
	src := `
classes:
  - class: Main
    constructor:
      locals:
        - l: list(int, int)
        - i: int
      body:
        - foreach:
            var: i
            in: l
            body:
              - if:
                  cond: {bin: [">", i, 1]}
                  then: {break: ~}
                  else:
                    - continue: ~
        - for:
            init: [i, 0]
            cond: {bin: ["<", i, 3]}
            update: [i, {postinc: i}]
            body:
              print: "loop"
        - return: ~
`
	p, err := Decode("loops.yaml", []byte(src))
	require.NoError(t, err)

	body := p.Classes[0].Constructor.Body
	require.Len(t, body, 3)

	fe := body[0].(*ast.ForeachStatement)
	assert.Equal(t, "i", fe.Variable.Value)
	blk := fe.Body.(*ast.BlockStatement)
	cond := blk.Statements[0].(*ast.ConditionalStatement)
	assert.IsType(t, &ast.BreakStatement{}, cond.Then)
	assert.IsType(t, &ast.BlockStatement{}, cond.Else)

	fs := body[1].(*ast.ForStatement)
	require.NotNil(t, fs.Init)
	require.NotNil(t, fs.Update)
	inc := fs.Update.Right.(*ast.UnaryExpression)
	assert.Equal(t, ast.OpPostInc, inc.Operator)
	pr := fs.Body.(*ast.PrintStatement)
	assert.Equal(t, "loop", pr.Argument.(*ast.StringLiteral).Value)

	ret := body[2].(*ast.ReturnStatement)
	assert.Nil(t, ret.Value)
}

func TestDecodeScalars(t *testing.T) {
	src := `
classes:
  - class: Main
    constructor:
      body:
        - print: 7
        - print: true
        - print: "true"
        - print: this
        - print: name
        - print: null
        - print: {list: [1, {str: two}]}
        - print: {idx: [l, 0]}
        - print: {assign: [x, {neg: 3}]}
`
	p, err := Decode("s.yaml", []byte(src))
	require.NoError(t, err)

	var got []ast.Expression
	for _, s := range p.Classes[0].Constructor.Body {
		got = append(got, s.(*ast.PrintStatement).Argument)
	}

	assert.IsType(t, &ast.IntegerLiteral{}, got[0])
	assert.Equal(t, true, got[1].(*ast.BooleanLiteral).Value)
	assert.Equal(t, "true", got[2].(*ast.StringLiteral).Value)
	assert.IsType(t, &ast.ThisExpression{}, got[3])
	assert.Equal(t, "name", got[4].(*ast.Identifier).Value)
	assert.IsType(t, &ast.NullLiteral{}, got[5])
	assert.Len(t, got[6].(*ast.ListLiteral).Elements, 2)
	assert.IsType(t, &ast.IndexAccess{}, got[7])
	assert.Equal(t, ast.OpAssign, got[8].(*ast.BinaryExpression).Operator)
}

func TestDecodePositions(t *testing.T) {
	src := "classes:\n  - class: Main\n    constructor:\n      body:\n        - break: ~\n"
	p, err := Decode("p.yaml", []byte(src))
	require.NoError(t, err)

	tok := p.Classes[0].Constructor.Body[0].GetToken()
	assert.Equal(t, 5, tok.Line)
	assert.Equal(t, 11, tok.Column)
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want error
	}{
		{"top level key", "modules: []", ErrUnknownNode},
		{"statement kind", "classes:\n  - class: A\n    constructor:\n      body:\n        - jump: 1\n", ErrUnknownNode},
		{"binary op", "classes:\n  - class: A\n    constructor:\n      body:\n        - print: {bin: [\"^\", 1, 2]}\n", ErrUnknownNode},
		{"nameless class", "classes:\n  - fields: []\n", ErrMalformed},
		{"assign arity", "classes:\n  - class: A\n    constructor:\n      body:\n        - assign: [x]\n", ErrMalformed},
		{"constructor return", "classes:\n  - class: A\n    constructor:\n      returns: int\n", ErrMalformed},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode("bad.yaml", []byte(tc.src))
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestDecodeEmpty(t *testing.T) {
	p, err := Decode("empty.yaml", nil)
	require.NoError(t, err)
	assert.Empty(t, p.Classes)
}
