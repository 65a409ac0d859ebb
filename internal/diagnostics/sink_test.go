package diagnostics

import (
	"bytes"
	"strings"
	"testing"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/token"
)

func TestSinkAttach(t *testing.T) {
	s := NewSink("prog.yaml")
	late := &ast.Identifier{Token: token.Token{Line: 5, Column: 2}, Value: "x"}
	early := &ast.Identifier{Token: token.Token{Line: 2, Column: 7}, Value: "y"}

	s.Attach(late, ErrE001, "x")
	s.Attach(late, ErrE001, "x")
	s.Attach(early, ErrE001, "y")

	if s.Len() != 3 {
		t.Fatalf("expected 3 diagnostics, got %d", s.Len())
	}
	errs := s.Errors()
	if errs[0].Token.Line != 2 || errs[1].Token.Line != 5 || errs[2].Token.Line != 5 {
		t.Errorf("diagnostics not sorted by position: %v", errs)
	}
	if len(s.For(late)) != 2 {
		t.Errorf("expected both diagnostics on x, got %d", len(s.For(late)))
	}
	if errs[0].File != "prog.yaml" {
		t.Errorf("file = %q", errs[0].File)
	}
	if s.Count(ErrE001) != 3 {
		t.Errorf("Count = %d", s.Count(ErrE001))
	}
}

func TestNilSink(t *testing.T) {
	var s *Sink
	s.Attach(&ast.Identifier{}, ErrE001, "x")
	if s.HasErrors() || s.Len() != 0 || s.Errors() != nil {
		t.Error("nil sink must discard diagnostics")
	}
}

func TestFormat(t *testing.T) {
	e := NewError(ErrS004, token.Token{Line: 3, Column: 9}, "break")
	e.File = "a.yaml"

	if got := Format(e, false); got != "a.yaml:3:9: S004 ContinueBreakNotInLoop: break outside of a loop" {
		t.Errorf("Format = %q", got)
	}
	if got := Format(e, true); !strings.Contains(got, colorRed) {
		t.Errorf("colored format has no color: %q", got)
	}

	var buf bytes.Buffer
	if err := Render(&buf, []*DiagnosticError{e, e}, false); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 2 {
		t.Errorf("Render wrote %q", buf.String())
	}
}

func TestEveryCodeHasKindAndMessage(t *testing.T) {
	for code := range kindNames {
		if _, ok := errorMessages[code]; !ok {
			t.Errorf("%s has no message", code)
		}
	}
	if len(kindNames) != 31 {
		t.Errorf("expected 31 diagnostic kinds, got %d", len(kindNames))
	}
}
