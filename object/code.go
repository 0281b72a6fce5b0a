package object

import (
	"fmt"

	"github.com/gofrs/uuid"
)

// Local describes one compile-time local variable slot: its name and the
// scope level it was declared at. Index into Code.Locals doubles as the
// runtime slot offset relative to the frame base pointer (spec.md §3).
type Local struct {
	Name       string
	ScopeLevel int
}

// Code is the compiled body of a function, or of the top-level "main"
// entry point. It owns its own bytecode, constant pool, and compile-time
// locals table (spec.md §3). Instructions and Constants are exported
// directly (rather than accessed only through methods) because the
// compiler mutates them incrementally, instruction by instruction, while
// lowering a single expression tree, the same shape as the original
// CodeObject's public std::vector fields.
type Code struct {
	id           string
	Name         string
	Arity        int
	Instructions []byte
	Constants    []Value
	ScopeLevel   int
	Locals       []Local

	marked bool
}

// NewCode allocates a Code object, registers it on heap, and returns a
// Value wrapping it. The compiler is the only caller (spec.md §3's
// "String and Code objects are created by the compiler").
func NewCode(heap *Heap, name string, arity int) Value {
	id, err := uuid.NewV4()
	idStr := "00000000-0000-0000-0000-000000000000"
	if err == nil {
		idStr = id.String()
	}
	c := &Code{id: idStr, Name: name, Arity: arity}
	heap.Register(c)
	return FromObject(c)
}

// ID returns the object's stable identity, used by the disassembler and
// by Repr in place of a raw pointer address (see SPEC_FULL.md §15).
func (c *Code) ID() string { return c.id }

// ShortID returns the first 8 hex characters of ID, matching the
// "code<addr>" abbreviation spec.md's CLI repr format expects.
func (c *Code) ShortID() string {
	if len(c.id) >= 8 {
		return c.id[:8]
	}
	return c.id
}

func (c *Code) Marked() bool     { return c.marked }
func (c *Code) SetMarked(m bool) { c.marked = m }

func (c *Code) Size() int {
	return 64 + len(c.Instructions) + len(c.Constants)*24 + len(c.Locals)*24
}

// Children enqueues every Object-kind constant for the mark phase (a
// Code's constants pool may itself hold Code/Function/String values,
// spec.md §3's invariant on constant edges).
func (c *Code) Children() []Value {
	var out []Value
	for _, v := range c.Constants {
		if v.IsObject() {
			out = append(out, v)
		}
	}
	return out
}

func (c *Code) Repr() string {
	return fmt.Sprintf("code%s: %s/%d", c.ShortID(), c.Name, c.Arity)
}

// AddLocal appends a local at the code object's current scope level.
func (c *Code) AddLocal(name string) {
	c.Locals = append(c.Locals, Local{Name: name, ScopeLevel: c.ScopeLevel})
}

// LocalIndex returns the slot index of name, scanning from the tail so
// that shadowing in a nested scope resolves to the innermost declaration,
// or -1 if name is not a local here.
func (c *Code) LocalIndex(name string) int {
	for i := len(c.Locals) - 1; i >= 0; i-- {
		if c.Locals[i].Name == name {
			return i
		}
	}
	return -1
}

// AddConstant appends value to the constants pool and returns its index.
// Callers are responsible for de-duplication (compiler.internNumber /
// internString / internBoolean); Code/Function constants are always
// appended fresh.
func (c *Code) AddConstant(value Value) int {
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1
}

// Offset returns the current end of the instruction stream, the address
// the next emitted byte will occupy. Used for jump target bookkeeping.
func (c *Code) Offset() int {
	return len(c.Instructions)
}

// Emit appends a single byte (an opcode or an operand byte) to the
// instruction stream.
func (c *Code) Emit(b byte) {
	c.Instructions = append(c.Instructions, b)
}

// EmitU16 appends a two-byte big-endian operand, used for jump addresses.
func (c *Code) EmitU16(v uint16) {
	c.Instructions = append(c.Instructions, byte(v>>8), byte(v))
}

// PatchU16 overwrites the two-byte operand at byte offset pos with v, used
// to back-patch a jump target once it's known.
func (c *Code) PatchU16(pos int, v uint16) {
	c.Instructions[pos] = byte(v >> 8)
	c.Instructions[pos+1] = byte(v)
}
