// Package vm implements Violang's stack-based bytecode interpreter: a
// fetch-decode-execute loop over object.Code, addressing the value stack,
// locals, and call frames by index rather than by pointer (spec.md §9's
// re-architecture note), with garbage collection wired in via package gc.
package vm

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/vio-lang/violang/compiler"
	"github.com/vio-lang/violang/config"
	"github.com/vio-lang/violang/dis"
	"github.com/vio-lang/violang/errz"
	"github.com/vio-lang/violang/gc"
	"github.com/vio-lang/violang/object"
	"github.com/vio-lang/violang/op"
	"github.com/vio-lang/violang/parser"
)

// VM executes one compiled program against a heap and a global table it
// owns. A VM is not safe for concurrent use.
type VM struct {
	heap      *object.Heap
	global    *object.Global
	collector *gc.Collector
	cfg       config.Config
	log       zerolog.Logger

	stack []object.Value
	sp    int
	bp    int
	co    *object.Code
	ip    int
	frames []frame

	constantRoots []object.Value

	debugWriter io.Writer
}

// New returns a VM with a fresh value stack sized to cfg.StackLimit,
// operating over heap and global.
func New(heap *object.Heap, global *object.Global, cfg config.Config, log zerolog.Logger) *VM {
	return &VM{
		heap:      heap,
		global:    global,
		collector: gc.New(heap, log),
		cfg:       cfg,
		log:       log,
		stack:     make([]object.Value, cfg.StackLimit),
	}
}

// Global exposes the VM's global table, so callers can register native
// bindings (via object.Global.AddNative) before the first Exec call.
func (vm *VM) Global() *object.Global { return vm.global }

// Heap exposes the VM's heap, mainly so callers can register natives that
// allocate their own String results.
func (vm *VM) Heap() *object.Heap { return vm.heap }

// SetDebugWriter enables a disassembly dump to w immediately before each
// Exec call runs its compiled program.
func (vm *VM) SetDebugWriter(w io.Writer) { vm.debugWriter = w }

// Compile parses source, wrapped in "(begin ...)" so a program may
// consist of any number of top-level forms, and compiles it to a fresh
// Code object, without running it. The dis subcommand uses this directly.
func (vm *VM) Compile(source string) (*object.Code, error) {
	wrapped := "(begin " + source + ")"

	p := parser.New(wrapped)
	exp, err := p.Parse()
	if err != nil {
		return nil, err
	}

	comp := compiler.New(vm.heap, vm.global)
	code, err := comp.Compile(exp)
	if err != nil {
		return nil, err
	}
	vm.constantRoots = append(vm.constantRoots, comp.ConstantRoots()...)
	return code, nil
}

// Exec compiles source and runs it to completion, returning the value
// left on top of the stack when HALT executes (Number(0) if the stack is
// empty).
func (vm *VM) Exec(source string) (object.Value, error) {
	code, err := vm.Compile(source)
	if err != nil {
		return object.Value{}, err
	}

	if vm.debugWriter != nil {
		useColor := dis.UseColor(os.Stdout, vm.cfg.NoColor)
		if err := dis.Write(vm.debugWriter, code, useColor); err != nil {
			vm.log.Warn().Err(err).Msg("disassembly failed")
		}
	}

	vm.co = code
	vm.ip = 0
	vm.bp = 0
	vm.sp = 0
	vm.frames = nil

	return vm.eval()
}

// eval is the fetch-decode-execute loop (spec.md §4.4).
func (vm *VM) eval() (object.Value, error) {
	for {
		vm.maybeGC()

		if vm.ip >= len(vm.co.Instructions) {
			return object.Value{}, errz.New(errz.KindUnknownOpcode, "instruction pointer ran past end of code")
		}

		code := op.Code(vm.co.Instructions[vm.ip])
		vm.ip++

		var err error
		switch code {
		case op.Halt:
			if vm.sp > 0 {
				return vm.stack[vm.sp-1], nil
			}
			return object.Num(0), nil

		case op.Const:
			idx := vm.readByte()
			if idx < 0 || idx >= len(vm.co.Constants) {
				return object.Value{}, errz.New(errz.KindUnknownOpcode, "constant index %d out of range", idx)
			}
			err = vm.push(vm.co.Constants[idx])

		case op.Add:
			err = vm.execAdd()
		case op.Sub, op.Mul, op.Div:
			err = vm.execArith(code)

		case op.Compare:
			err = vm.execCompare(op.CompareOp(vm.readByte()))

		case op.JmpIfFalse:
			addr := vm.readU16()
			cond := vm.pop()
			if isFalsy(cond) {
				vm.ip = addr
			}

		case op.Jmp:
			vm.ip = vm.readU16()

		case op.GetGlobal:
			idx := vm.readByte()
			err = vm.push(vm.global.Get(idx).Value)

		case op.SetGlobal:
			idx := vm.readByte()
			if !vm.global.Set(idx, vm.peek(0)) {
				err = errz.New(errz.KindGlobalIndexRange, "global index %d out of range", idx)
			}

		case op.Pop:
			vm.pop()

		case op.GetLocal:
			slot := vm.readByte()
			if slot < 0 || vm.bp+slot >= vm.sp {
				return object.Value{}, errz.New(errz.KindBadLocalIndex, "bad local index %d", slot)
			}
			err = vm.push(vm.stack[vm.bp+slot])

		case op.SetLocal:
			slot := vm.readByte()
			if slot < 0 || vm.bp+slot >= vm.sp {
				return object.Value{}, errz.New(errz.KindBadLocalIndex, "bad local index %d", slot)
			}
			vm.stack[vm.bp+slot] = vm.peek(0)

		case op.ScopeExit:
			n := vm.readByte()
			top := vm.pop()
			vm.sp -= n
			err = vm.push(top)

		case op.Call:
			err = vm.call(vm.readByte())

		case op.Return:
			err = vm.doReturn()

		default:
			err = errz.New(errz.KindUnknownOpcode, "unknown opcode 0x%02x", byte(code))
		}

		if err != nil {
			return object.Value{}, err
		}
	}
}

func (vm *VM) readByte() int {
	b := int(vm.co.Instructions[vm.ip])
	vm.ip++
	return b
}

func (vm *VM) readU16() int {
	hi := int(vm.co.Instructions[vm.ip])
	lo := int(vm.co.Instructions[vm.ip+1])
	vm.ip += 2
	return hi<<8 | lo
}

// push appends v to the value stack, reporting a KindStackOverflow
// FatalError once the configured limit is reached (spec.md §7).
func (vm *VM) push(v object.Value) error {
	if vm.sp >= len(vm.stack) {
		return errz.New(errz.KindStackOverflow, "stack overflow (limit %d)", len(vm.stack))
	}
	vm.stack[vm.sp] = v
	vm.sp++
	return nil
}

func (vm *VM) pop() object.Value {
	vm.sp--
	return vm.stack[vm.sp]
}

func (vm *VM) peek(offset int) object.Value {
	return vm.stack[vm.sp-1-offset]
}

// Peek implements object.NativeStack, letting a Native's body read its own
// arguments (spec.md §3's native call convention).
func (vm *VM) Peek(offset int) object.Value {
	return vm.peek(offset)
}

// Push implements object.NativeStack. A well-behaved native pushes
// exactly one result after reading arguments it never pops, so this can
// never grow the stack past the one free slot CALL checks for.
func (vm *VM) Push(v object.Value) {
	vm.stack[vm.sp] = v
	vm.sp++
}

func (vm *VM) execAdd() error {
	b := vm.pop()
	a := vm.pop()
	switch {
	case a.IsNumber() && b.IsNumber():
		return vm.push(object.Num(a.Number + b.Number))
	case a.IsString() && b.IsString():
		return vm.push(object.NewString(vm.heap, a.AsString()+b.AsString()))
	default:
		return errz.New(errz.KindType, "type error: cannot add %s and %s", a.Repr(), b.Repr())
	}
}

func (vm *VM) execArith(code op.Code) error {
	b := vm.pop()
	a := vm.pop()
	if !a.IsNumber() || !b.IsNumber() {
		return errz.New(errz.KindType, "type error: %s requires two numbers, got %s and %s", code, a.Repr(), b.Repr())
	}
	var result float64
	switch code {
	case op.Sub:
		result = a.Number - b.Number
	case op.Mul:
		result = a.Number * b.Number
	case op.Div:
		result = a.Number / b.Number
	}
	return vm.push(object.Num(result))
}

func (vm *VM) execCompare(cmpOp op.CompareOp) error {
	b := vm.pop()
	a := vm.pop()

	switch cmpOp {
	case op.Lt, op.Gt, op.Gte, op.Lte:
		var result bool
		switch {
		case a.IsNumber() && b.IsNumber():
			switch cmpOp {
			case op.Lt:
				result = a.Number < b.Number
			case op.Gt:
				result = a.Number > b.Number
			case op.Gte:
				result = a.Number >= b.Number
			case op.Lte:
				result = a.Number <= b.Number
			}
		case a.IsString() && b.IsString():
			sa, sb := a.AsString(), b.AsString()
			switch cmpOp {
			case op.Lt:
				result = sa < sb
			case op.Gt:
				result = sa > sb
			case op.Gte:
				result = sa >= sb
			case op.Lte:
				result = sa <= sb
			}
		default:
			return errz.New(errz.KindType, "type error: ordering comparison requires two numbers or two strings, got %s and %s", a.Repr(), b.Repr())
		}
		return vm.push(object.Bool(result))
	case op.Eq:
		return vm.push(object.Bool(valuesEqual(a, b)))
	case op.Neq:
		return vm.push(object.Bool(!valuesEqual(a, b)))
	default:
		return errz.New(errz.KindType, "unknown compare op %d", cmpOp)
	}
}

func valuesEqual(a, b object.Value) bool {
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == object.KindObject && !a.IsString() {
		return a.Obj == b.Obj
	}
	return a.Equal(b)
}

func isFalsy(v object.Value) bool {
	return v.IsBoolean() && !v.Boolean
}

// call implements CALL n: n arguments plus the callee sit on top of the
// stack, callee at position sp-n-1. Natives run to completion inline;
// user functions push a frame and transfer control (spec.md §4.4).
func (vm *VM) call(n int) error {
	calleeIdx := vm.sp - n - 1
	if calleeIdx < 0 {
		return errz.New(errz.KindEmptyStack, "call: not enough operands on stack")
	}
	callee := vm.stack[calleeIdx]

	switch {
	case callee.IsNative():
		native := callee.Obj.(*object.Native)
		if native.Arity != n {
			return errz.New(errz.KindType, "arity mismatch calling %s: want %d, got %d", native.Name, native.Arity, n)
		}
		if vm.sp >= len(vm.stack) {
			return errz.New(errz.KindStackOverflow, "stack overflow (limit %d)", len(vm.stack))
		}
		native.Fn(vm)
		result := vm.pop()
		vm.sp = calleeIdx
		return vm.push(result)

	case callee.IsFunction():
		fn := callee.Obj.(*object.Function)
		if fn.Co.Arity != n {
			return errz.New(errz.KindType, "arity mismatch calling %s: want %d, got %d", fn.Co.Name, fn.Co.Arity, n)
		}
		vm.frames = append(vm.frames, frame{returnIP: vm.ip, savedBP: vm.bp, savedCo: vm.co})
		vm.bp = calleeIdx
		vm.co = fn.Co
		vm.ip = 0
		return nil

	default:
		return errz.New(errz.KindType, "value is not callable: %s", callee.Repr())
	}
}

// doReturn implements RETURN: the callee's body has already collapsed its
// locals and arguments down to a single return value via SCOPE_EXIT, so
// this only needs to restore the caller's context and re-push that value
// at the slot the call occupied.
func (vm *VM) doReturn() error {
	if len(vm.frames) == 0 {
		return errz.New(errz.KindEmptyStack, "return with no active call frame")
	}
	value := vm.pop()
	calleeIdx := vm.bp

	f := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]
	vm.ip = f.returnIP
	vm.bp = f.savedBP
	vm.co = f.savedCo
	vm.sp = calleeIdx

	return vm.push(value)
}

// maybeGC runs a collection cycle once the heap's allocation counter
// crosses config.GCThreshold (spec.md §4.5's trigger heuristic). With
// StrictGC enabled it also re-checks every GC invariant after the cycle
// and logs any violation.
func (vm *VM) maybeGC() {
	if vm.heap.Allocated() < vm.cfg.GCThreshold {
		return
	}
	roots := vm.gcRoots()
	vm.collector.Collect(roots)

	if vm.cfg.StrictGC {
		if err := gc.VerifyInvariants(vm.heap, vm.gcRoots()); err != nil {
			vm.log.Error().Err(err).Msg("gc invariant violation")
		}
	}
}

// gcRoots gathers every root spec.md §4.5 point 1 lists: the live operand
// stack, every global's value, every Code/String/Function the compiler
// has created, and the Code objects on the active call chain (whose
// constants pools must stay reachable while a call is in flight).
func (vm *VM) gcRoots() []object.Value {
	roots := make([]object.Value, 0, vm.sp+vm.global.Len()+len(vm.constantRoots)+len(vm.frames)+1)
	roots = append(roots, vm.stack[:vm.sp]...)
	for _, g := range vm.global.Entries() {
		roots = append(roots, g.Value)
	}
	roots = append(roots, vm.constantRoots...)
	for _, f := range vm.frames {
		roots = append(roots, object.FromObject(f.savedCo))
	}
	if vm.co != nil {
		roots = append(roots, object.FromObject(vm.co))
	}
	return roots
}
