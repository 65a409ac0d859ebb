package config

// TreeFileExt is the extension of decoded program trees.
const TreeFileExt = ".yaml"

// UnitFileExt is the extension of emitted class units.
const UnitFileExt = ".j"

// Runtime and entry class names
const (
	MainClassName  = "Main"
	ListClassName  = "List"
	FptrClassName  = "Fptr"
	RootClassName  = "java/lang/Object"
	ArrayListClass = "java/util/ArrayList"
)

// Member names the generated code calls on the runtime classes.
const (
	InitMethodName    = "<init>"
	MainMethodName    = "main"
	GetElementMethod  = "getElement"
	SetElementMethod  = "setElement"
	InvokeMethodName  = "invoke"
	PrintMethodName   = "print"
	ValueOfMethodName = "valueOf"
)

// Default method frame limits.
const (
	StackLimit  = 128
	LocalsLimit = 128
)

// LabelPrefix prefixes every generated branch label.
const LabelPrefix = "Label_"
