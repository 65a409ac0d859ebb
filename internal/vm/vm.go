package vm

import (
	"context"
	"io"
	"os"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/funvibe/sophia/internal/config"
)

var (
	ErrNullReference    = errors.New("null reference")
	ErrCast             = errors.New("class cast")
	ErrNoSuchMethod     = errors.New("no such method")
	ErrNoSuchClass      = errors.New("no such class")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrStackUnderflow   = errors.New("operand stack underflow")
	ErrStackOverflow    = errors.New("operand stack overflow")
	ErrCallDepth        = errors.New("call depth exceeded")
	ErrUnknownLabel     = errors.New("unknown label")
	ErrDivisionByZero   = errors.New("division by zero")
	ErrInvalidLocalSlot = errors.New("invalid local slot")
)

// MaxCallDepth bounds nested invocations.
const MaxCallDepth = 1024

// mainDescriptor is the descriptor of the static entry point.
const mainDescriptor = "([Ljava/lang/String;)V"

// CallFrame is one active method invocation.
type CallFrame struct {
	unit   *Unit
	method *Method
	locals []Value
	stack  []Value
	pc     int
}

// VM executes emitted units.
type VM struct {
	units   map[string]*Unit
	out     io.Writer
	strings map[string]*String
	depth   int
	ctx     context.Context
}

func New(units []*Unit) *VM {
	vm := &VM{
		units:   make(map[string]*Unit, len(units)),
		out:     os.Stdout,
		strings: make(map[string]*String),
		ctx:     context.Background(),
	}
	for _, u := range units {
		vm.units[u.Name] = u
	}
	return vm
}

// SetOutput redirects print output.
func (vm *VM) SetOutput(w io.Writer) {
	vm.out = w
}

// Run calls the static entry point of the entry class.
func (vm *VM) Run(ctx context.Context, entry string) (err error) {
	if entry == "" {
		entry = config.MainClassName
	}
	vm.ctx = ctx

	u, ok := vm.units[entry]
	if !ok {
		return errors.Wrap(ErrNoSuchClass, "%s", entry)
	}
	m := u.FindMethod(config.MainMethodName, mainDescriptor)
	if m == nil {
		return errors.Wrap(ErrNoSuchMethod, "%s.%s", entry, config.MainMethodName)
	}

	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "vm: run", "entry", entry)
	defer tr.Finish("err", &err)
	vm.ctx = ctx

	_, err = vm.invoke(u, m, []Value{NullVal()})
	return err
}

// invoke executes m with args already laid out in slot order.
func (vm *VM) invoke(u *Unit, m *Method, args []Value) (Value, error) {
	if vm.depth >= MaxCallDepth {
		return NullVal(), ErrCallDepth
	}
	vm.depth++
	defer func() { vm.depth-- }()

	n := m.LocalsLimit
	if n < len(args) {
		n = len(args)
	}
	f := &CallFrame{
		unit:   u,
		method: m,
		locals: make([]Value, n),
		stack:  make([]Value, 0, 8),
	}
	copy(f.locals, args)

	res, err := vm.execute(f)
	if err != nil {
		return NullVal(), errors.Wrap(err, "%s.%s", u.Name, m.Name)
	}
	return res, nil
}

func (f *CallFrame) push(v Value) error {
	if f.method.StackLimit > 0 && len(f.stack) >= f.method.StackLimit {
		return ErrStackOverflow
	}
	f.stack = append(f.stack, v)
	return nil
}

func (f *CallFrame) pop() (Value, error) {
	if len(f.stack) == 0 {
		return NullVal(), ErrStackUnderflow
	}
	v := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	return v, nil
}

// popN pops n values and returns them in push order.
func (f *CallFrame) popN(n int) ([]Value, error) {
	if len(f.stack) < n {
		return nil, ErrStackUnderflow
	}
	vals := make([]Value, n)
	copy(vals, f.stack[len(f.stack)-n:])
	f.stack = f.stack[:len(f.stack)-n]
	return vals, nil
}

func (f *CallFrame) slot(i int) (*Value, error) {
	if i < 0 || i >= len(f.locals) {
		return nil, errors.Wrap(ErrInvalidLocalSlot, "%d", i)
	}
	return &f.locals[i], nil
}

func (vm *VM) internString(s string) *String {
	if o, ok := vm.strings[s]; ok {
		return o
	}
	o := &String{Value: s}
	vm.strings[s] = o
	return o
}
