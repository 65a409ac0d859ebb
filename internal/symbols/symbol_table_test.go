package symbols

import (
	"testing"

	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/typesystem"
)

func ident(name string) *ast.Identifier { return &ast.Identifier{Value: name} }

func class(name, parent string, fields []string, methods ...string) *ast.ClassDeclaration {
	cd := &ast.ClassDeclaration{Name: ident(name)}
	if parent != "" {
		cd.Parent = ident(parent)
	}
	for _, f := range fields {
		cd.Fields = append(cd.Fields, &ast.FieldDeclaration{Var: &ast.VarDeclaration{Name: ident(f), Type: typesystem.TInt{}}})
	}
	for _, m := range methods {
		cd.Methods = append(cd.Methods, &ast.MethodDeclaration{Name: ident(m), ReturnType: typesystem.TVoid{}})
	}
	return cd
}

func TestClassTableHierarchy(t *testing.T) {
	program := &ast.Program{Classes: []*ast.ClassDeclaration{
		class("A", "", []string{"x"}, "f", "g"),
		class("B", "A", []string{"y"}, "g", "h"),
		class("C", "B", nil),
		class("Loop1", "Loop2", nil),
		class("Loop2", "Loop1", nil),
	}}
	table := NewClassTable(program)

	if !table.IsAncestorOrEqual("A", "C") {
		t.Error("A should be an ancestor of C")
	}
	if table.IsAncestorOrEqual("C", "A") {
		t.Error("C is not an ancestor of A")
	}
	if !table.IsAncestorOrEqual("B", "B") {
		t.Error("a class is its own ancestor")
	}
	if table.IsAncestorOrEqual("A", "Loop1") {
		t.Error("cyclic hierarchy must terminate")
	}

	sym, ok := table.LookupField("C", "x")
	if !ok || sym.Owner != "A" || sym.Kind != FieldSymbol {
		t.Errorf("inherited field lookup failed: %+v %v", sym, ok)
	}
	sym, ok = table.LookupMethod("C", "g")
	if !ok || sym.Owner != "B" {
		t.Errorf("override lookup should find B.g, got %+v", sym)
	}
	if _, ok := table.LookupMethod("A", "h"); ok {
		t.Error("A has no method h")
	}

	mt := table.MethodTable("C")
	want := map[string]string{"f": "A", "g": "B", "h": "B"}
	for k, v := range want {
		if mt[k] != v {
			t.Errorf("MethodTable[%s] = %s, want %s", k, mt[k], v)
		}
	}
	if got := table.MethodNames("C"); len(got) != 3 || got[0] != "f" {
		t.Errorf("MethodNames = %v", got)
	}
}

func TestMethodScopeSlots(t *testing.T) {
	m := &ast.MethodDeclaration{
		Args:   []*ast.VarDeclaration{{Name: ident("a"), Type: typesystem.TInt{}}, {Name: ident("b"), Type: typesystem.TBool{}}},
		Locals: []*ast.VarDeclaration{{Name: ident("c"), Type: typesystem.TString{}}},
	}
	scope := NewMethodScope(m)

	tests := map[string]int{"a": 1, "b": 2, "c": 3}
	for name, slot := range tests {
		sym, ok := scope.Find(name)
		if !ok || sym.Slot != slot {
			t.Errorf("%s: slot %d, want %d", name, sym.Slot, slot)
		}
	}
	if scope.SlotCount() != 4 {
		t.Errorf("SlotCount = %d, want 4", scope.SlotCount())
	}

	m.Locals[0].Type = typesystem.TNoType{}
	sym, _ := scope.Find("c")
	if !typesystem.IsNoType(sym.Type()) {
		t.Error("symbol type should follow the declaration")
	}
}
