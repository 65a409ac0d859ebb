package diagnostics

import (
	"fmt"
	"io"
)

const (
	colorRed   = "\x1b[31m"
	colorBold  = "\x1b[1m"
	colorReset = "\x1b[0m"
)

// Format renders one diagnostic as file:line:col: CODE Kind: message.
func Format(e *DiagnosticError, color bool) string {
	pos := fmt.Sprintf("%d:%d", e.Token.Line, e.Token.Column)
	if e.File != "" {
		pos = e.File + ":" + pos
	}
	if !color {
		return fmt.Sprintf("%s: %s %s: %s", pos, e.Code, e.Code.Kind(), e.Message())
	}
	return fmt.Sprintf("%s%s:%s %s%s %s%s: %s", colorBold, pos, colorReset, colorRed, e.Code, e.Code.Kind(), colorReset, e.Message())
}

// Render writes every diagnostic on its own line.
func Render(w io.Writer, errs []*DiagnosticError, color bool) error {
	for _, e := range errs {
		if _, err := fmt.Fprintln(w, Format(e, color)); err != nil {
			return err
		}
	}
	return nil
}
