// Package treeio decodes program trees written as YAML documents.
//
// A document lists classes; statements and expressions are single-key
// mappings whose key names the node kind:
//
//	classes:
//	  - class: Main
//	    constructor:
//	      body:
//	        - print: {bin: [+, 1, 2]}
//
// Plain scalars are literals or identifiers: ints, true/false, null,
// this, quoted strings, and anything else names a variable.
package treeio

import (
	"os"

	"gopkg.in/yaml.v3"
	"tlog.app/go/errors"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/token"
	"github.com/funvibe/sophia/internal/typesystem"
)

var (
	ErrUnknownNode = errors.New("unknown node")
	ErrMalformed   = errors.New("malformed node")
)

// DecodeFile reads and decodes the tree at path.
func DecodeFile(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read tree")
	}
	return Decode(path, data)
}

// Decode decodes a program tree. name is recorded as the program file.
func Decode(name string, data []byte) (*ast.Program, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse yaml")
	}

	p := &ast.Program{File: name}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return p, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, malformed(root, "document must be a mapping")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], root.Content[i+1]
		if key.Value != "classes" {
			return nil, unknown(key)
		}
		if val.Kind != yaml.SequenceNode {
			return nil, malformed(val, "classes must be a list")
		}
		for _, c := range val.Content {
			cd, err := decodeClass(c)
			if err != nil {
				return nil, err
			}
			p.Classes = append(p.Classes, cd)
		}
	}

	return p, nil
}

func tok(n *yaml.Node, t token.TokenType, lexeme string) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Line: n.Line, Column: n.Column}
}

func unknown(n *yaml.Node) error {
	return errors.Wrap(ErrUnknownNode, "%d:%d: %q", n.Line, n.Column, n.Value)
}

func malformed(n *yaml.Node, msg string) error {
	return errors.Wrap(ErrMalformed, "%d:%d: %s", n.Line, n.Column, msg)
}

// fields iterates a mapping node.
func fields(n *yaml.Node, fn func(key string, k, v *yaml.Node) error) error {
	if n.Kind != yaml.MappingNode {
		return malformed(n, "expected a mapping")
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if err := fn(n.Content[i].Value, n.Content[i], n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// single splits a single-key mapping into its key and value.
func single(n *yaml.Node) (*yaml.Node, *yaml.Node, error) {
	if n.Kind != yaml.MappingNode || len(n.Content) != 2 {
		return nil, nil, malformed(n, "expected a single-key mapping")
	}
	return n.Content[0], n.Content[1], nil
}

func scalar(n *yaml.Node, what string) (string, error) {
	if n.Kind != yaml.ScalarNode || n.Value == "" {
		return "", malformed(n, what+" must be a name")
	}
	return n.Value, nil
}

func decodeClass(n *yaml.Node) (*ast.ClassDeclaration, error) {
	cd := &ast.ClassDeclaration{Token: tok(n, token.CLASS, "class")}

	err := fields(n, func(key string, k, v *yaml.Node) error {
		switch key {
		case "class":
			name, err := scalar(v, "class")
			if err != nil {
				return err
			}
			cd.Name = &ast.Identifier{Token: tok(v, token.IDENT_LOWER, name), Value: name}
			cd.Token.Lexeme = name
		case "extends":
			name, err := scalar(v, "parent")
			if err != nil {
				return err
			}
			cd.Parent = &ast.Identifier{Token: tok(v, token.IDENT_LOWER, name), Value: name}
		case "fields":
			vars, err := decodeVars(v, token.FIELD)
			if err != nil {
				return err
			}
			for _, vd := range vars {
				cd.Fields = append(cd.Fields, &ast.FieldDeclaration{Var: vd})
			}
		case "constructor":
			md, err := decodeMethod(v, token.CONSTRUCTOR)
			if err != nil {
				return err
			}
			cd.Constructor = &ast.ConstructorDeclaration{MethodDeclaration: *md}
		case "methods":
			if v.Kind != yaml.SequenceNode {
				return malformed(v, "methods must be a list")
			}
			for _, m := range v.Content {
				md, err := decodeMethod(m, token.METHOD)
				if err != nil {
					return err
				}
				cd.Methods = append(cd.Methods, md)
			}
		default:
			return unknown(k)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if cd.Name == nil {
		return nil, malformed(n, "class has no name")
	}
	if cd.Constructor != nil && cd.Constructor.Name == nil {
		cd.Constructor.Name = &ast.Identifier{Token: cd.Constructor.Token, Value: cd.Name.Value}
	}
	return cd, nil
}

func decodeMethod(n *yaml.Node, t token.TokenType) (*ast.MethodDeclaration, error) {
	md := &ast.MethodDeclaration{Token: tok(n, t, "")}
	if t == token.METHOD {
		md.ReturnType = typesystem.TVoid{}
	}

	err := fields(n, func(key string, k, v *yaml.Node) error {
		var err error
		switch key {
		case "name":
			var name string
			if name, err = scalar(v, "method"); err == nil {
				md.Name = &ast.Identifier{Token: tok(v, token.IDENT_LOWER, name), Value: name}
				md.Token.Lexeme = name
			}
		case "returns":
			if t == token.CONSTRUCTOR {
				return malformed(k, "constructors return nothing")
			}
			md.ReturnType, err = decodeType(v)
		case "args":
			md.Args, err = decodeVars(v, token.VAR)
		case "locals":
			md.Locals, err = decodeVars(v, token.VAR)
		case "body":
			md.Body, err = decodeStatements(v)
		default:
			return unknown(k)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if md.Name == nil && t == token.METHOD {
		return nil, malformed(n, "method has no name")
	}
	return md, nil
}

// decodeVars reads a list of single-key name: type mappings.
func decodeVars(n *yaml.Node, t token.TokenType) ([]*ast.VarDeclaration, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, malformed(n, "expected a list of name: type")
	}

	res := make([]*ast.VarDeclaration, 0, len(n.Content))
	for _, item := range n.Content {
		k, v, err := single(item)
		if err != nil {
			return nil, err
		}
		typ, err := decodeType(v)
		if err != nil {
			return nil, err
		}
		res = append(res, &ast.VarDeclaration{
			Token: tok(k, t, k.Value),
			Name:  &ast.Identifier{Token: tok(k, token.IDENT_LOWER, k.Value), Value: k.Value},
			Type:  typ,
		})
	}
	return res, nil
}

func decodeType(n *yaml.Node) (typesystem.Type, error) {
	if n.Kind != yaml.ScalarNode {
		return nil, malformed(n, "type must be a string")
	}
	t, err := typesystem.Parse(n.Value)
	if err != nil {
		return nil, errors.Wrap(err, "%d:%d", n.Line, n.Column)
	}
	return t, nil
}
