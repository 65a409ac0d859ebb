package symbols

import (
	"sort"

	"github.com/funvibe/sophia/internal/ast"
)

// ClassInfo indexes one class declaration.
type ClassInfo struct {
	Decl   *ast.ClassDeclaration
	Name   string
	Parent string

	fields  map[string]*ast.VarDeclaration
	methods map[string]*ast.MethodDeclaration
}

// ClassTable is the class hierarchy of a program. It satisfies typesystem.Hierarchy.
type ClassTable struct {
	classes map[string]*ClassInfo
	order   []string
}

// NewClassTable indexes every class of the program. When a name is
// declared twice the first declaration wins.
func NewClassTable(program *ast.Program) *ClassTable {
	t := &ClassTable{classes: make(map[string]*ClassInfo)}
	if program == nil {
		return t
	}

	for _, cd := range program.Classes {
		if cd == nil || cd.Name == nil {
			continue
		}
		if _, ok := t.classes[cd.Name.Value]; ok {
			continue
		}

		info := &ClassInfo{
			Decl:    cd,
			Name:    cd.Name.Value,
			Parent:  cd.ParentName(),
			fields:  make(map[string]*ast.VarDeclaration),
			methods: make(map[string]*ast.MethodDeclaration),
		}
		for _, f := range cd.Fields {
			if f.Var != nil && f.Var.Name != nil {
				if _, dup := info.fields[f.Var.Name.Value]; !dup {
					info.fields[f.Var.Name.Value] = f.Var
				}
			}
		}
		for _, m := range cd.Methods {
			if m.Name != nil {
				if _, dup := info.methods[m.Name.Value]; !dup {
					info.methods[m.Name.Value] = m
				}
			}
		}

		t.classes[info.Name] = info
		t.order = append(t.order, info.Name)
	}

	return t
}

func (t *ClassTable) ClassExists(name string) bool {
	_, ok := t.classes[name]
	return ok
}

func (t *ClassTable) Lookup(name string) (*ClassInfo, bool) {
	c, ok := t.classes[name]
	return c, ok
}

// Classes returns the indexed classes in declaration order.
func (t *ClassTable) Classes() []*ClassInfo {
	res := make([]*ClassInfo, 0, len(t.order))
	for _, n := range t.order {
		res = append(res, t.classes[n])
	}
	return res
}

// Ancestors walks from name up through its parents, name included.
// The walk stops at unknown classes and on cycles.
func (t *ClassTable) Ancestors(name string) []*ClassInfo {
	var res []*ClassInfo
	seen := make(map[string]bool)
	for c, ok := t.classes[name]; ok && !seen[c.Name]; c, ok = t.classes[c.Parent] {
		seen[c.Name] = true
		res = append(res, c)
	}
	return res
}

func (t *ClassTable) IsAncestorOrEqual(ancestor, descendant string) bool {
	if ancestor == descendant {
		return true
	}
	for _, c := range t.Ancestors(descendant) {
		if c.Name == ancestor || c.Parent == ancestor {
			return true
		}
	}
	return false
}

// LookupField finds a field declared by the class or one of its ancestors.
func (t *ClassTable) LookupField(class, name string) (Symbol, bool) {
	for _, c := range t.Ancestors(class) {
		if v, ok := c.fields[name]; ok {
			return Symbol{Name: name, Kind: FieldSymbol, Owner: c.Name, Var: v}, true
		}
	}
	return Symbol{}, false
}

// LookupMethod finds a method declared by the class or one of its ancestors.
func (t *ClassTable) LookupMethod(class, name string) (Symbol, bool) {
	for _, c := range t.Ancestors(class) {
		if m, ok := c.methods[name]; ok {
			return Symbol{Name: name, Kind: MethodSymbol, Owner: c.Name, Method: m}, true
		}
	}
	return Symbol{}, false
}

// Constructor returns the constructor declared by the class itself.
// Constructors are not inherited.
func (t *ClassTable) Constructor(class string) *ast.ConstructorDeclaration {
	c, ok := t.classes[class]
	if !ok {
		return nil
	}
	return c.Decl.Constructor
}

// MethodTable maps every method name callable on class to its declaring class.
func (t *ClassTable) MethodTable(class string) map[string]string {
	res := make(map[string]string)
	for _, c := range t.Ancestors(class) {
		for name := range c.methods {
			if _, ok := res[name]; !ok {
				res[name] = c.Name
			}
		}
	}
	return res
}

// MethodNames returns the sorted names of MethodTable.
func (t *ClassTable) MethodNames(class string) []string {
	table := t.MethodTable(class)
	names := make([]string, 0, len(table))
	for n := range table {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
