package token

import "fmt"

type TokenType string

type Token struct {
	Type    TokenType
	Lexeme  string
	Literal interface{}
	Line    int
	Column  int
}

const (
	ILLEGAL = "ILLEGAL"

	// Declarations
	CLASS       = "class"
	FIELD       = "field"
	VAR         = "var"
	METHOD      = "method"
	CONSTRUCTOR = "constructor"

	// Identifiers and literals
	IDENT_LOWER = "IDENT"
	INT         = "INT"
	STRING      = "STRING"
	TRUE        = "true"
	FALSE       = "false"
	NULL        = "null"
	THIS        = "this"
	NEW         = "new"

	// Operators
	ASSIGN   = "="
	PLUS     = "+"
	MINUS    = "-"
	ASTERISK = "*"
	SLASH    = "/"
	PERCENT  = "%"
	LT       = "<"
	GT       = ">"
	EQ       = "=="
	NOT_EQ   = "!="
	AND      = "and"
	OR       = "or"
	NOT      = "not"
	INCR     = "++"
	DECR     = "--"

	// Delimiters
	DOT      = "."
	LPAREN   = "("
	LBRACKET = "["

	// Statements
	PRINT    = "print"
	RETURN   = "return"
	IF       = "if"
	FOR      = "for"
	FOREACH  = "foreach"
	BREAK    = "break"
	CONTINUE = "continue"
	BLOCK    = "block"
)

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Type, t.Lexeme)
}

// Before orders tokens by source position.
func (t Token) Before(o Token) bool {
	if t.Line != o.Line {
		return t.Line < o.Line
	}
	return t.Column < o.Column
}
