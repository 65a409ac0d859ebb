package typesystem

import "fmt"

// SyntaxError reports a malformed type expression.
type SyntaxError struct {
	Input  string
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("type %q at %d: %s", e.Input, e.Offset, e.Msg)
}

func newSyntaxError(input string, offset int, format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Input: input, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}
