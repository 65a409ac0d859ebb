// Package codegen lowers a checked program to class units for the stack VM.
package codegen

import (
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/funvibe/sophia/internal/analyzer"
	"github.com/funvibe/sophia/internal/ast"
	"github.com/funvibe/sophia/internal/config"
	"github.com/funvibe/sophia/internal/diagnostics"
	"github.com/funvibe/sophia/internal/symbols"
	"github.com/funvibe/sophia/internal/typesystem"
	"github.com/funvibe/sophia/internal/vm"
)

var (
	ErrHasDiagnostics = errors.New("program has diagnostics")
	ErrLocalsLimit    = errors.New("locals limit exceeded")
)

// loopContext holds the jump targets of the innermost loop.
type loopContext struct {
	continueLabel string
	breakLabel    string
}

// Compiler lowers the classes of one program.
// Label numbering is shared by every unit it emits.
type Compiler struct {
	table  *symbols.ClassTable
	oracle *analyzer.Oracle
	entry  string
	limits config.Limits

	labels int

	// Current method being compiled
	class  *ast.ClassDeclaration
	method *ast.MethodDeclaration
	types  *analyzer.Oracle
	scope  *symbols.MethodScope
	chunk  *vm.Chunk

	nextTemp  int
	loopStack []loopContext
}

func NewCompiler(table *symbols.ClassTable) *Compiler {
	return &Compiler{
		table:  table,
		oracle: analyzer.NewOracle(table),
		entry:  config.MainClassName,
		limits: config.Limits{Stack: config.StackLimit, Locals: config.LocalsLimit},
	}
}

// SetEntryClass names the class that receives the static entry point.
func (c *Compiler) SetEntryClass(name string) {
	if name != "" {
		c.entry = name
	}
}

// SetLimits sets the frame limits written into every method.
func (c *Compiler) SetLimits(l config.Limits) {
	if l.Stack > 0 {
		c.limits.Stack = l.Stack
	}
	if l.Locals > 0 {
		c.limits.Locals = l.Locals
	}
}

// Compile emits one unit per class. It refuses programs with diagnostics.
func (c *Compiler) Compile(program *ast.Program, sink *diagnostics.Sink) ([]*vm.Unit, error) {
	if sink.HasErrors() {
		return nil, errors.Wrap(ErrHasDiagnostics, "%d diagnostics", sink.Len())
	}

	units := make([]*vm.Unit, 0, len(program.Classes))
	for _, cd := range program.Classes {
		u, err := c.compileClass(cd)
		if err != nil {
			return nil, errors.Wrap(err, "class %s", cd.Name.Value)
		}
		units = append(units, u)
	}
	return units, nil
}

func (c *Compiler) compileClass(cd *ast.ClassDeclaration) (*vm.Unit, error) {
	u := &vm.Unit{
		Name:        cd.Name.Value,
		Super:       superName(cd),
		MethodTable: c.table.MethodTable(cd.Name.Value),
	}

	for _, fd := range cd.Fields {
		u.Fields = append(u.Fields, vm.Field{Name: fd.Var.Name.Value, Descriptor: typesystem.Descriptor(fd.Var.Type)})
	}

	if cd.Name.Value == c.entry {
		u.Methods = append(u.Methods, c.compileEntryPoint(cd))
	}

	ctor := cd.Constructor
	if ctor == nil || len(ctor.Args) > 0 {
		m, err := c.compileDefaultConstructor(cd)
		if err != nil {
			return nil, err
		}
		u.Methods = append(u.Methods, m)
	}
	if ctor != nil {
		m, err := c.compileMethod(cd, &ctor.MethodDeclaration, true)
		if err != nil {
			return nil, errors.Wrap(err, "constructor")
		}
		u.Methods = append(u.Methods, m)
	}

	for _, md := range cd.Methods {
		m, err := c.compileMethod(cd, md, false)
		if err != nil {
			return nil, errors.Wrap(err, "method %s", md.Name.Value)
		}
		u.Methods = append(u.Methods, m)
	}

	return u, nil
}

func superName(cd *ast.ClassDeclaration) string {
	if p := cd.ParentName(); p != "" {
		return p
	}
	return config.RootClassName
}

// compileEntryPoint emits static main that constructs one entry instance.
func (c *Compiler) compileEntryPoint(cd *ast.ClassDeclaration) *vm.Method {
	c.beginMethod(cd, nil)
	line := cd.Token.Line

	c.emitStr(vm.OP_NEW, cd.Name.Value, line)
	c.emitMember(vm.OP_INVOKESPECIAL, cd.Name.Value, config.InitMethodName, "()V", line)
	c.emit(vm.OP_RETURN, line)

	return &vm.Method{
		Name:        config.MainMethodName,
		Descriptor:  "([Ljava/lang/String;)V",
		Static:      true,
		StackLimit:  c.limits.Stack,
		LocalsLimit: c.limits.Locals,
		Chunk:       c.chunk,
	}
}

// compileDefaultConstructor emits <init>()V: parent init and field defaults.
func (c *Compiler) compileDefaultConstructor(cd *ast.ClassDeclaration) (*vm.Method, error) {
	c.beginMethod(cd, nil)
	line := cd.Token.Line

	c.emitConstructorPrologue(cd, line)
	c.emit(vm.OP_RETURN, line)

	return c.finishMethod(config.InitMethodName, "()V")
}

func (c *Compiler) emitConstructorPrologue(cd *ast.ClassDeclaration, line int) {
	c.emitInt(vm.OP_ALOAD, 0, line)
	c.emitMember(vm.OP_INVOKESPECIAL, superName(cd), config.InitMethodName, "()V", line)

	for _, fd := range cd.Fields {
		c.emitInt(vm.OP_ALOAD, 0, line)
		c.emitDefault(fd.Var.Type, line)
		c.emitMember(vm.OP_PUTFIELD, cd.Name.Value, fd.Var.Name.Value, typesystem.Descriptor(fd.Var.Type), line)
	}
}

func (c *Compiler) compileMethod(cd *ast.ClassDeclaration, md *ast.MethodDeclaration, ctor bool) (*vm.Method, error) {
	c.beginMethod(cd, md)
	line := md.Token.Line

	name := config.InitMethodName
	if ctor {
		c.emitConstructorPrologue(cd, line)
	} else {
		name = md.Name.Value
	}

	for _, l := range md.Locals {
		sym, _ := c.scope.Find(l.Name.Value)
		c.emitDefault(l.Type, l.Token.Line)
		c.emitInt(vm.OP_ASTORE, sym.Slot, l.Token.Line)
	}

	for _, s := range md.Body {
		if err := c.compileStatement(s); err != nil {
			return nil, err
		}
	}

	if !md.EndsWithReturn() {
		c.emit(vm.OP_RETURN, line)
	}

	desc := methodDescriptor(md)
	if ctor {
		desc = methodDescriptor(&ast.MethodDeclaration{Args: md.Args, ReturnType: typesystem.TVoid{}})
	}
	return c.finishMethod(name, desc)
}

// methodDescriptor builds the boxed JVM signature of md.
func methodDescriptor(md *ast.MethodDeclaration) string {
	desc := "("
	for _, a := range md.Args {
		desc += typesystem.Descriptor(a.Type)
	}
	ret := md.ReturnType
	if ret == nil {
		ret = typesystem.TVoid{}
	}
	return desc + ")" + typesystem.Descriptor(ret)
}

func constructorDescriptor(ctor *ast.ConstructorDeclaration) string {
	if ctor == nil {
		return "()V"
	}
	return methodDescriptor(&ast.MethodDeclaration{Args: ctor.Args, ReturnType: typesystem.TVoid{}})
}

func (c *Compiler) beginMethod(cd *ast.ClassDeclaration, md *ast.MethodDeclaration) {
	c.class = cd
	c.method = md
	c.types = c.oracle.In(cd, md)
	c.scope = symbols.NewMethodScope(md)
	c.chunk = vm.NewChunk()
	c.nextTemp = c.scope.SlotCount()
	c.loopStack = nil
}

func (c *Compiler) finishMethod(name, desc string) (*vm.Method, error) {
	if c.nextTemp > c.limits.Locals {
		return nil, errors.Wrap(ErrLocalsLimit, "%s needs %d locals, limit %d", name, c.nextTemp, c.limits.Locals)
	}

	if tlog.If("codegen") {
		tlog.Printw("method", "class", c.class.Name.Value, "method", name, "desc", desc,
			"instructions", len(c.chunk.Code), "locals", c.nextTemp)
	}

	return &vm.Method{
		Name:        name,
		Descriptor:  desc,
		StackLimit:  c.limits.Stack,
		LocalsLimit: c.limits.Locals,
		Chunk:       c.chunk,
	}, nil
}

func (c *Compiler) emit(op vm.Opcode, line int) {
	c.chunk.Emit(vm.Instruction{Op: op, Line: line})
}

func (c *Compiler) emitInt(op vm.Opcode, n int, line int) {
	c.chunk.Emit(vm.Instruction{Op: op, Int: n, Line: line})
}

func (c *Compiler) emitStr(op vm.Opcode, s string, line int) {
	c.chunk.Emit(vm.Instruction{Op: op, Str: s, Line: line})
}

func (c *Compiler) emitMember(op vm.Opcode, owner, name, desc string, line int) {
	c.chunk.Emit(vm.Instruction{Op: op, Member: vm.MemberRef{Owner: owner, Name: name, Descriptor: desc}, Line: line})
}

func (c *Compiler) newLabel() string {
	l := fmt.Sprintf("%s%d", config.LabelPrefix, c.labels)
	c.labels++
	return l
}

func (c *Compiler) placeLabel(l string, line int) {
	c.emitStr(vm.OP_LABEL, l, line)
}

// allocTemp reserves a fresh slot after the declared ones. Slots are never reused.
func (c *Compiler) allocTemp() int {
	s := c.nextTemp
	c.nextTemp++
	tlog.V("codegen_slots").Printw("temp", "slot", s, "from", loc.Caller(1))
	return s
}
