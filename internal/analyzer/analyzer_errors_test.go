package analyzer

import (
	"strings"
	"testing"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/diagnostics"
	"github.com/funvibe/sophia/internal/symbols"
	"github.com/funvibe/sophia/internal/treeio"
	"github.com/funvibe/sophia/internal/typesystem"
)

func decodeSource(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := treeio.Decode("test.yaml", []byte(input))
	if err != nil {
		t.Fatalf("decode error: %v\ninput: %s", err, input)
	}
	return prog
}

func analyzeProgram(prog *ast.Program) *diagnostics.Sink {
	sink := diagnostics.NewSink(prog.File)
	New(symbols.NewClassTable(prog)).Analyze(prog, sink)
	return sink
}

func analyzeSource(t *testing.T, input string) []*diagnostics.DiagnosticError {
	t.Helper()
	return analyzeProgram(decodeSource(t, input)).Errors()
}

func expectAnalyzerError(t *testing.T, input string, code diagnostics.ErrorCode) *diagnostics.DiagnosticError {
	t.Helper()
	errs := analyzeSource(t, input)
	if len(errs) == 0 {
		t.Fatalf("expected error %s, but got none\ninput: %s", code, input)
	}
	for _, e := range errs {
		if e.Code == code {
			return e
		}
	}
	var msgs []string
	for _, e := range errs {
		msgs = append(msgs, e.Error())
	}
	t.Fatalf("expected error %s, got:\n%s\ninput: %s", code, strings.Join(msgs, "\n"), input)
	return nil
}

// expectAnalyzerErrorContains asserts an error with the given code whose message contains substr.
func expectAnalyzerErrorContains(t *testing.T, input string, code diagnostics.ErrorCode, substr string) {
	t.Helper()
	e := expectAnalyzerError(t, input, code)
	if !strings.Contains(e.Error(), substr) {
		t.Errorf("expected error message to contain %q, got: %s", substr, e.Error())
	}
}

// expectNoAnalyzerErrors asserts that analysis produces no errors.
func expectNoAnalyzerErrors(t *testing.T, input string) {
	t.Helper()
	errs := analyzeSource(t, input)
	if len(errs) > 0 {
		var msgs []string
		for _, e := range errs {
			msgs = append(msgs, e.Error())
		}
		t.Fatalf("expected no errors, got:\n%s\ninput: %s", strings.Join(msgs, "\n"), input)
	}
}

// mainWith wraps a constructor body of the entry class.
func mainWith(locals, body string) string {
	return "classes:\n  - class: Main\n    constructor:\n      locals: " + locals + "\n      body:\n" + body
}

// ---------------------------------------------------------------------------
// Declarations
// ---------------------------------------------------------------------------

func TestD001_UndeclaredClass(t *testing.T) {
	expectAnalyzerErrorContains(t, mainWith("[{x: Missing}]", ""), diagnostics.ErrD001, "Missing")

	input := `
classes:
  - class: Main
    constructor: {}
  - class: A
    extends: Ghost
`
	expectAnalyzerErrorContains(t, input, diagnostics.ErrD001, "Ghost")
}

func TestD001_EveryOccurrenceReported(t *testing.T) {
	errs := analyzeSource(t, mainWith(`[{f: "fptr(A, A -> int)"}]`, ""))

	n := 0
	for _, e := range errs {
		if e.Code == diagnostics.ErrD001 {
			n++
		}
	}
	if n != 2 {
		t.Errorf("expected 2 %s diagnostics, got %d: %v", diagnostics.ErrD001, n, errs)
	}
}

func TestD002_NoMainClass(t *testing.T) {
	input := `
classes:
  - class: A
`
	expectAnalyzerErrorContains(t, input, diagnostics.ErrD002, "Main")
}

func TestD002_CustomEntryClass(t *testing.T) {
	prog := decodeSource(t, "classes:\n  - class: App\n    constructor: {}\n")
	sink := diagnostics.NewSink(prog.File)
	a := New(symbols.NewClassTable(prog))
	a.SetEntryClass("App")
	a.Analyze(prog, sink)
	if sink.HasErrors() {
		t.Fatalf("expected no errors with entry App, got %v", sink.Errors())
	}
}

func TestD003_NoConstructorInMainClass(t *testing.T) {
	expectAnalyzerError(t, "classes:\n  - class: Main\n", diagnostics.ErrD003)
}

func TestD004_MainConstructorCantHaveArgs(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor:
      args:
        - n: int
`
	expectAnalyzerError(t, input, diagnostics.ErrD004)
}

func TestD005_MainClassCantExtend(t *testing.T) {
	input := `
classes:
  - class: A
  - class: Main
    extends: A
    constructor: {}
`
	expectAnalyzerError(t, input, diagnostics.ErrD005)
}

func TestD006_CannotExtendFromMainClass(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor: {}
  - class: B
    extends: Main
`
	expectAnalyzerErrorContains(t, input, diagnostics.ErrD006, "class B can't extend entry class Main")
}

func TestD007_ConstructorNotSameNameAsClass(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor:
      name: Start
`
	expectAnalyzerError(t, input, diagnostics.ErrD007)
}

func TestD008_CannotHaveEmptyList(t *testing.T) {
	expectAnalyzerErrorContains(t, mainWith(`[{l: "list()"}]`, ""), diagnostics.ErrD008, "of l")
}

func TestD009_DuplicateListId(t *testing.T) {
	prog := decodeSource(t, mainWith(`[{l: "list(a: int, a: bool)"}]`, ""))
	decl := prog.Classes[0].Constructor.Locals[0]
	list := decl.Type.(typesystem.TList)

	sink := analyzeProgram(prog)
	if n := sink.Count(diagnostics.ErrD009); n != 1 {
		t.Fatalf("expected exactly one D009, got %d: %v", n, sink.Errors())
	}
	for i, el := range list.Elements {
		if !typesystem.IsNoType(el.Type) {
			t.Errorf("duplicated element %d should be notype, got %s", i, el.Type)
		}
	}
	if !typesystem.IsNoType(decl.Type) {
		t.Errorf("rejected declaration should be notype, got %s", decl.Type)
	}
}

func TestD010_MissingReturnStatement(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor: {}
    methods:
      - name: f
        returns: int
        body:
          - print: 1
`
	errs := analyzeSource(t, input)
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrD010 {
		t.Fatalf("expected exactly one D010, got %v", errs)
	}

	// A top-level return anywhere satisfies the rule, reachable or not.
	expectNoAnalyzerErrors(t, `
classes:
  - class: Main
    constructor: {}
    methods:
      - name: f
        returns: int
        body:
          - return: 1
          - print: 2
`)
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

func TestE001_VarNotDeclared(t *testing.T) {
	expectAnalyzerErrorContains(t, mainWith("[]", "        - print: y\n"), diagnostics.ErrE001, "variable y")
}

func TestE002_MemberNotAvailableInClass(t *testing.T) {
	expectAnalyzerErrorContains(t, mainWith("[]", "        - print: {dot: [this, nope]}\n"), diagnostics.ErrE002, "class Main has no member nope")
}

func TestE003_ListMemberNotFound(t *testing.T) {
	expectAnalyzerError(t, mainWith(`[{l: "list(a: int)"}]`, "        - print: {dot: [l, b]}\n"), diagnostics.ErrE003)
}

func TestE004_MemberAccessOnNoneObjOrListType(t *testing.T) {
	expectAnalyzerError(t, mainWith("[{x: int}]", "        - print: {dot: [x, a]}\n"), diagnostics.ErrE004)
}

func TestE005_ListIndexNotInt(t *testing.T) {
	expectAnalyzerError(t, mainWith(`[{l: "list(int)"}]`, "        - print: {idx: [l, true]}\n"), diagnostics.ErrE005)
}

func TestE006_ListAccessByIndexOnNoneList(t *testing.T) {
	expectAnalyzerError(t, mainWith("[{x: int}]", "        - print: {idx: [x, 0]}\n"), diagnostics.ErrE006)
}

func TestE007_CantUseExprAsIndexOfMultiTypeList(t *testing.T) {
	locals := `[{l: "list(int, bool)"}, {i: int}]`
	expectAnalyzerError(t, mainWith(locals, "        - print: {idx: [l, i]}\n"), diagnostics.ErrE007)
	expectAnalyzerError(t, mainWith(locals, "        - print: {idx: [l, 5]}\n"), diagnostics.ErrE007)
	expectNoAnalyzerErrors(t, mainWith(locals, "        - print: {idx: [l, 1]}\n"))
}

func TestE008_UnsupportedOperandType(t *testing.T) {
	cases := []string{
		"        - print: {bin: [+, 1, true]}\n",
		"        - print: {bin: [and, 1, true]}\n",
		"        - print: {bin: [\"<\", \"a\", 1]}\n",
		"        - print: {bin: [\"==\", 1, true]}\n",
		"        - print: {not: 1}\n",
		"        - print: {neg: false}\n",
	}
	for _, body := range cases {
		expectAnalyzerError(t, mainWith("[]", body), diagnostics.ErrE008)
	}
}

func TestE009_LeftSideNotLvalue(t *testing.T) {
	expectAnalyzerError(t, mainWith("[]", "        - assign: [1, 2]\n"), diagnostics.ErrE009)
}

func TestE010_IncDecOperandNotLvalue(t *testing.T) {
	expectAnalyzerError(t, mainWith("[]", "        - print: {postinc: 1}\n"), diagnostics.ErrE010)
}

func TestE011_CallOnNoneFptrType(t *testing.T) {
	expectAnalyzerError(t, mainWith("[{x: int}]", "        - call: [x, 1]\n"), diagnostics.ErrE011)
}

func TestE012_CantUseValueOfVoidMethod(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor:
      locals:
        - x: int
      body:
        - call: [{dot: [this, m]}]
        - assign: [x, {call: [{dot: [this, m]}]}]
    methods:
      - name: m
`
	expectAnalyzerError(t, input, diagnostics.ErrE012)
}

func TestE013_MethodCallNotMatchDefinition(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor:
      body:
        - call: [{dot: [this, m]}, 1, 2]
        - call: [{dot: [this, m]}, true]
    methods:
      - name: m
        args:
          - a: int
`
	prog := decodeSource(t, input)
	if n := analyzeProgram(prog).Count(diagnostics.ErrE013); n != 2 {
		t.Fatalf("expected two E013, got %d", n)
	}
}

func TestE014_ConstructorArgsNotMatchDefinition(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor:
      locals:
        - p: Point
      body:
        - assign: [p, {new: [Point, 1]}]
  - class: Point
`
	expectAnalyzerError(t, input, diagnostics.ErrE014)
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

func TestS001_ConditionNotBool(t *testing.T) {
	expectAnalyzerError(t, mainWith("[]", "        - if: {cond: 1, then: {print: 1}}\n"), diagnostics.ErrS001)
	expectAnalyzerError(t, mainWith("[{i: int}]", "        - for: {init: [i, 0], cond: i, update: [i, 1], body: []}\n"), diagnostics.ErrS001)
}

func TestS002_UnsupportedTypeForPrint(t *testing.T) {
	expectAnalyzerError(t, mainWith("[]", "        - print: this\n"), diagnostics.ErrS002)
}

func TestS003_ReturnValueNotMatchMethodReturnType(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor: {}
    methods:
      - name: f
        returns: int
        body:
          - return: true
`
	expectAnalyzerErrorContains(t, input, diagnostics.ErrS003, "bool")
}

func TestS004_ContinueBreakNotInLoop(t *testing.T) {
	e := expectAnalyzerError(t, mainWith("[]", "        - break: ~\n"), diagnostics.ErrS004)
	if e.Token.Line != 6 {
		t.Errorf("expected diagnostic on line 6, got %d", e.Token.Line)
	}
	expectAnalyzerError(t, mainWith("[]", "        - if: {cond: true, then: {continue: ~}}\n"), diagnostics.ErrS004)
}

func TestS005_ForeachCantIterateNoneList(t *testing.T) {
	expectAnalyzerError(t, mainWith("[{x: int}]", "        - foreach: {var: x, in: x, body: []}\n"), diagnostics.ErrS005)
}

func TestS006_ForeachListElementsNotSameType(t *testing.T) {
	locals := `[{x: int}, {l: "list(int, bool)"}]`
	expectAnalyzerError(t, mainWith(locals, "        - foreach: {var: x, in: l, body: []}\n"), diagnostics.ErrS006)
}

func TestS007_ForeachVarNotMatchList(t *testing.T) {
	locals := `[{x: bool}, {l: "list(int, int)"}]`
	expectAnalyzerError(t, mainWith(locals, "        - foreach: {var: x, in: l, body: []}\n"), diagnostics.ErrS007)
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func TestLoopsNestBreakAndContinue(t *testing.T) {
	expectNoAnalyzerErrors(t, mainWith(`[{i: int}, {x: int}, {l: "list(int, int)"}]`, `
        - for:
            init: [i, 0]
            cond: {bin: ["<", i, 3]}
            update: [i, {bin: [+, i, 1]}]
            body:
              - foreach:
                  var: x
                  in: l
                  body:
                    - for:
                        body:
                          - break: ~
                    - continue: ~
              - break: ~
`))
}

func TestNoTypeDoesNotCascade(t *testing.T) {
	errs := analyzeSource(t, mainWith("[{x: int}]", "        - assign: [x, {bin: [+, y, 1]}]\n        - print: {bin: [\"<\", y, 2]}\n"))
	if len(errs) != 2 {
		t.Fatalf("expected two diagnostics, got %v", errs)
	}
	for _, e := range errs {
		if e.Code != diagnostics.ErrE001 {
			t.Errorf("expected only E001, got %s", e.Error())
		}
	}
}

func TestNullAssignment(t *testing.T) {
	locals := `[{p: Main}, {f: "fptr(int -> void)"}, {n: int}, {s: string}]`
	expectNoAnalyzerErrors(t, mainWith(locals, "        - assign: [p, null]\n        - assign: [f, null]\n"))
	expectAnalyzerError(t, mainWith(locals, "        - assign: [n, null]\n"), diagnostics.ErrE008)
	expectAnalyzerError(t, mainWith(locals, "        - assign: [s, null]\n"), diagnostics.ErrE008)
}

func TestSubclassAssignment(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor:
      locals:
        - a: Animal
        - d: Dog
      body:
        - assign: [a, {new: [Dog]}]
        - assign: [d, a]
  - class: Animal
  - class: Dog
    extends: Animal
`
	errs := analyzeSource(t, input)
	if len(errs) != 1 || errs[0].Code != diagnostics.ErrE008 || errs[0].Token.Line != 10 {
		t.Fatalf("expected one E008 on line 10, got %v", errs)
	}
}

func TestAssignmentExpressionType(t *testing.T) {
	prog := decodeSource(t, mainWith("[{x: int}, {y: int}]", "        - assign: [x, {assign: [y, 5]}]\n"))
	if sink := analyzeProgram(prog); sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}

	main := prog.Classes[0]
	o := NewOracle(symbols.NewClassTable(prog)).In(main, &main.Constructor.MethodDeclaration)
	s := main.Constructor.Body[0].(*ast.AssignmentStatement)
	if got := o.TypeOf(s.Right); got != (typesystem.TInt{}) {
		t.Errorf("expected int, got %s", got)
	}
	if sym, ok := o.Lookup("y"); !ok || sym.Slot != 2 {
		t.Errorf("expected y in slot 2, got %+v %v", sym, ok)
	}
}

func TestIdempotence(t *testing.T) {
	input := `
classes:
  - class: Main
    constructor:
      locals:
        - s: Shape
        - l: "list(a: int, b: bool)"
      body:
        - assign: [s, {new: [Shape]}]
        - print: {call: [{dot: [s, area]}, 2]}
        - print: {dot: [l, b]}
  - class: Shape
    methods:
      - name: area
        args:
          - k: int
        returns: int
        body:
          - return: {bin: ["*", k, k]}
`
	prog := decodeSource(t, input)
	if sink := analyzeProgram(prog); sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.Errors())
	}

	main := prog.Classes[0]
	types := func() []string {
		o := NewOracle(symbols.NewClassTable(prog)).In(main, &main.Constructor.MethodDeclaration)
		var res []string
		for _, s := range main.Constructor.Body {
			switch s := s.(type) {
			case *ast.AssignmentStatement:
				res = append(res, o.TypeOf(s.Right).String())
			case *ast.PrintStatement:
				res = append(res, o.TypeOf(s.Argument).String())
			}
		}
		return res
	}

	before := types()
	if sink := analyzeProgram(prog); sink.HasErrors() {
		t.Fatalf("second run reported: %v", sink.Errors())
	}
	after := types()

	want := []string{"Shape", "int", "bool"}
	for i := range want {
		if before[i] != want[i] || after[i] != want[i] {
			t.Errorf("type %d: want %s, got %s then %s", i, want[i], before[i], after[i])
		}
	}
}
