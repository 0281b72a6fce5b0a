// Package violang is the top-level convenience API: NewVM builds a
// ready-to-run VM with the language's preloaded globals, and Eval is a
// one-shot helper over it, mirroring the Compile/Run/Eval trio the
// teacher stack exposes from its own package root.
package violang

import (
	"github.com/rs/zerolog"

	"github.com/vio-lang/violang/config"
	"github.com/vio-lang/violang/object"
	"github.com/vio-lang/violang/vm"
)

// Version is the value bound to the preloaded VERSION global (spec.md §6).
const Version = 1

// NewVM returns a VM configured per cfg, with VERSION and the unary
// native square defined before any user code runs.
func NewVM(cfg config.Config, log zerolog.Logger) *vm.VM {
	heap := object.NewHeap()
	global := object.NewGlobal()

	machine := vm.New(heap, global, cfg, log)
	seedGlobals(machine)
	return machine
}

// seedGlobals installs the two preloaded globals spec.md §6 requires.
func seedGlobals(machine *vm.VM) {
	global := machine.Global()
	heap := machine.Heap()

	global.AddGlobal("VERSION", Version)
	global.AddNative(heap, "square", 1, func(stack object.NativeStack) {
		x := stack.Peek(0)
		stack.Push(object.Num(x.Number * x.Number))
	})
}

// Eval compiles and runs source against a fresh VM with default config and
// a no-op logger, returning the value left on the stack at HALT.
func Eval(source string) (object.Value, error) {
	machine := NewVM(config.Default(), zerolog.Nop())
	return machine.Exec(source)
}
