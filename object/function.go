package object

import "fmt"

// Function is a non-owning reference to a Code object: the callable
// wrapper the VM pushes and calls, while Code carries the instructions
// (spec.md §3).
type Function struct {
	Co *Code

	marked bool
}

// NewFunction allocates a Function wrapping co, registers it on heap, and
// returns a Value. Created by the compiler when lowering def/lambda
// (spec.md §3's Function lifecycle).
func NewFunction(heap *Heap, co *Code) Value {
	f := &Function{Co: co}
	heap.Register(f)
	return FromObject(f)
}

func (f *Function) Marked() bool     { return f.marked }
func (f *Function) SetMarked(m bool) { f.marked = m }

func (f *Function) Size() int { return 16 }

// Children enqueues the wrapped Code so the mark phase follows the
// Function -> Code -> constants edge (spec.md §4.5 point 2).
func (f *Function) Children() []Value {
	return []Value{FromObject(f.Co)}
}

func (f *Function) Repr() string {
	return fmt.Sprintf("%s/%d", f.Co.Name, f.Co.Arity)
}
