package typesystem

import "testing"

type fakeHierarchy map[string]string

func (h fakeHierarchy) ClassExists(name string) bool {
	_, ok := h[name]
	return ok
}

func (h fakeHierarchy) IsAncestorOrEqual(ancestor, descendant string) bool {
	for c := descendant; c != ""; c = h[c] {
		if c == ancestor {
			return true
		}
	}
	return false
}

func TestIsSubtype(t *testing.T) {
	h := fakeHierarchy{"Animal": "", "Dog": "Animal", "Cat": "Animal"}

	tests := []struct {
		a, b string
		want bool
	}{
		{"int", "int", true},
		{"int", "bool", false},
		{"string", "string", true},
		{"Dog", "Animal", true},
		{"Animal", "Dog", false},
		{"Dog", "Cat", false},
		{"fptr(int -> Dog)", "fptr(int -> Animal)", true},
		{"fptr(Dog -> int)", "fptr(Animal -> int)", true},
		{"fptr(Animal -> int)", "fptr(Dog -> int)", false},
		{"fptr(int -> int)", "fptr(-> int)", false},
		{"list(int, Dog)", "list(int, Animal)", true},
		{"list(int)", "list(int, int)", false},
		{"list(a: int)", "list(b: int)", true},
		{"void", "void", true},
		{"void", "int", false},
	}

	for _, tt := range tests {
		got := IsSubtype(h, MustParse(tt.a), MustParse(tt.b))
		if got != tt.want {
			t.Errorf("IsSubtype(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNoTypeAndNull(t *testing.T) {
	if !IsSubtype(nil, TNoType{}, TInt{}) {
		t.Error("NoType must be a subtype of int")
	}
	if IsSubtype(nil, TInt{}, TNoType{}) {
		t.Error("int must not be a subtype of NoType")
	}
	if !IsSubtype(nil, TNoType{}, TNoType{}) {
		t.Error("NoType must be a subtype of itself")
	}
	for _, target := range []Type{TNull{}, TClass{Name: "A"}, MustParse("fptr(-> void)")} {
		if !IsSubtype(nil, TNull{}, target) {
			t.Errorf("null must be a subtype of %s", target)
		}
	}
	for _, target := range []Type{TInt{}, TBool{}, TString{}, MustParse("list(int)")} {
		if IsSubtype(nil, TNull{}, target) {
			t.Errorf("null must not be a subtype of %s", target)
		}
	}
}

func TestEquivalent(t *testing.T) {
	h := fakeHierarchy{"A": "", "B": "A"}
	if Equivalent(h, TClass{Name: "A"}, TClass{Name: "B"}) {
		t.Error("A and B are not equivalent")
	}
	if !Equivalent(h, MustParse("list(x: int, bool)"), MustParse("list(int, y: bool)")) {
		t.Error("lists with same element types are equivalent")
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"int", "int"},
		{" list( a : int , list(bool)) ", "list(a: int, list(bool))"},
		{"fptr(-> void)", "fptr(-> void)"},
		{"fptr(int, Dog -> list(string))", "fptr(int, Dog -> list(string))"},
		{"list()", "list()"},
		{"Shape", "Shape"},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q): %v", tt.in, err)
		}
		if got.String() != tt.want {
			t.Errorf("Parse(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}

	for _, bad := range []string{"", "list(int", "fptr(int)", "int int", "list(a:)"} {
		if _, err := Parse(bad); err == nil {
			t.Errorf("Parse(%q) expected error", bad)
		}
	}
}

func TestDescriptor(t *testing.T) {
	tests := map[string]string{
		"int":           "Ljava/lang/Integer;",
		"bool":          "Ljava/lang/Boolean;",
		"string":        "Ljava/lang/String;",
		"list(int)":     "LList;",
		"fptr(-> void)": "LFptr;",
		"Shape":         "LShape;",
		"void":          "V",
	}
	for in, want := range tests {
		if got := Descriptor(MustParse(in)); got != want {
			t.Errorf("Descriptor(%s) = %s, want %s", in, got, want)
		}
	}
}
