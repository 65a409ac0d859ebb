package typesystem

// Hierarchy answers class-ancestry queries for subtyping.
type Hierarchy interface {
	ClassExists(name string) bool
	IsAncestorOrEqual(ancestor, descendant string) bool
}

// IsSubtype reports whether a value of type a may be used where b is expected.
// NoType on the left is a subtype of everything; on the right it accepts nothing else.
// h may be nil, then classes are related only by name.
func IsSubtype(h Hierarchy, a, b Type) bool {
	if IsNoType(a) {
		return true
	}
	if IsNoType(b) {
		return false
	}

	switch a := a.(type) {
	case TInt:
		_, ok := b.(TInt)
		return ok
	case TBool:
		_, ok := b.(TBool)
		return ok
	case TString:
		_, ok := b.(TString)
		return ok
	case TVoid:
		_, ok := b.(TVoid)
		return ok
	case TNull:
		switch b.(type) {
		case TNull, TClass, TFptr:
			return true
		}
		return false
	case TClass:
		bc, ok := b.(TClass)
		if !ok {
			return false
		}
		if a.Name == bc.Name {
			return true
		}
		return h != nil && h.IsAncestorOrEqual(bc.Name, a.Name)
	case TFptr:
		bf, ok := b.(TFptr)
		if !ok || len(a.Params) != len(bf.Params) {
			return false
		}
		if !IsSubtype(h, returnOf(a), returnOf(bf)) {
			return false
		}
		// Parameters are compared in the same direction as the return type.
		for i := range a.Params {
			if !IsSubtype(h, a.Params[i], bf.Params[i]) {
				return false
			}
		}
		return true
	case TList:
		bl, ok := b.(TList)
		if !ok || len(a.Elements) != len(bl.Elements) {
			return false
		}
		for i := range a.Elements {
			if !IsSubtype(h, a.Elements[i].Type, bl.Elements[i].Type) {
				return false
			}
		}
		return true
	}
	return false
}

// Equivalent reports mutual subtyping.
func Equivalent(h Hierarchy, a, b Type) bool {
	return IsSubtype(h, a, b) && IsSubtype(h, b, a)
}

func returnOf(f TFptr) Type {
	if f.Return == nil {
		return TVoid{}
	}
	return f.Return
}
