package object

import "fmt"

// NativeStack is the minimal surface a Native callback needs from the VM:
// enough to read its arguments and push a result, without object
// depending on package vm (which itself depends on object). This mirrors
// the design note in spec.md §9: "model as a tagged variant Native {
// invoke: fn(&mut VM), ...} ... to keep the heap free of host-language
// closures and make the call convention explicit" (here the "VM" the
// invoke function receives is narrowed to just this interface).
type NativeStack interface {
	// Peek returns the value offset entries below the top of stack,
	// without popping (offset 0 is the top).
	Peek(offset int) Value
	// Push pushes a value onto the stack.
	Push(v Value)
}

// NativeFn is a native function's side-effecting body: it reads its
// arguments via Peek and pushes exactly one result via Push.
type NativeFn func(stack NativeStack)

// Native is a callable action implemented in Go rather than compiled
// Violang bytecode (spec.md §3).
type Native struct {
	Fn    NativeFn
	Name  string
	Arity int

	marked bool
}

// NewNative allocates a Native, registers it on heap, and returns a
// Value. Native objects are created once at VM startup (spec.md §3's
// Native lifecycle).
func NewNative(heap *Heap, name string, arity int, fn NativeFn) Value {
	n := &Native{Fn: fn, Name: name, Arity: arity}
	heap.Register(n)
	return FromObject(n)
}

func (n *Native) Marked() bool     { return n.marked }
func (n *Native) SetMarked(m bool) { n.marked = m }

func (n *Native) Size() int { return 32 }

// Children is empty: Native holds no other heap references.
func (n *Native) Children() []Value { return nil }

func (n *Native) Repr() string {
	return fmt.Sprintf("%s/%d", n.Name, n.Arity)
}
