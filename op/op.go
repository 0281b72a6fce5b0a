// Package op defines the fixed Violang instruction set: one-byte opcodes,
// their operand widths, and the compare sub-op table shared by the
// compiler and the vm.
package op

// Code is a single opcode byte.
type Code byte

// Opcode values match original_source/src/bytecode/OpCode.h verbatim so
// that anyone cross-referencing a hex dump against the C++ prototype sees
// the same numbering.
const (
	Halt        Code = 0x00
	Const       Code = 0x01
	Add         Code = 0x02
	Sub         Code = 0x03
	Mul         Code = 0x04
	Div         Code = 0x05
	Compare     Code = 0x06
	JmpIfFalse  Code = 0x07
	Jmp         Code = 0x08
	GetGlobal   Code = 0x09
	SetGlobal   Code = 0x0A
	Pop         Code = 0x0B
	GetLocal    Code = 0x0C
	SetLocal    Code = 0x0D
	ScopeExit   Code = 0x0E
	Call        Code = 0x0F
	Return      Code = 0x10
)

// CompareOp is the operand of a COMPARE instruction.
type CompareOp byte

const (
	Lt  CompareOp = 0
	Gt  CompareOp = 1
	Eq  CompareOp = 2
	Gte CompareOp = 3
	Lte CompareOp = 4
	Neq CompareOp = 5
)

var compareNames = map[string]CompareOp{
	"<":  Lt,
	">":  Gt,
	"==": Eq,
	">=": Gte,
	"<=": Lte,
	"!=": Neq,
}

// CompareOpFor looks up the CompareOp for a comparison operator symbol,
// e.g. "<". ok is false for any other symbol.
func CompareOpFor(symbol string) (CompareOp, bool) {
	c, ok := compareNames[symbol]
	return c, ok
}

// info describes one opcode's mnemonic and operand byte widths, used by
// the disassembler to know how many bytes to consume after the opcode.
type info struct {
	Name         string
	OperandWidth []int // byte widths of each operand, in order
}

var table = map[Code]info{
	Halt:       {"HALT", nil},
	Const:      {"CONST", []int{1}},
	Add:        {"ADD", nil},
	Sub:        {"SUB", nil},
	Mul:        {"MUL", nil},
	Div:        {"DIV", nil},
	Compare:    {"COMPARE", []int{1}},
	JmpIfFalse: {"JMP_IF_FALSE", []int{2}},
	Jmp:        {"JMP", []int{2}},
	GetGlobal:  {"GET_GLOBAL", []int{1}},
	SetGlobal:  {"SET_GLOBAL", []int{1}},
	Pop:        {"POP", nil},
	GetLocal:   {"GET_LOCAL", []int{1}},
	SetLocal:   {"SET_LOCAL", []int{1}},
	ScopeExit:  {"SCOPE_EXIT", []int{1}},
	Call:       {"CALL", []int{1}},
	Return:     {"RETURN", nil},
}

// Name returns the mnemonic for code, or "" if code is not a known opcode.
func Name(code Code) string {
	if i, ok := table[code]; ok {
		return i.Name
	}
	return ""
}

// OperandWidths returns the byte width of each operand for code, in the
// order they're encoded, or (nil, false) if code is unknown.
func OperandWidths(code Code) ([]int, bool) {
	i, ok := table[code]
	if !ok {
		return nil, false
	}
	return i.OperandWidth, true
}

// Valid reports whether code names a known opcode.
func Valid(code Code) bool {
	_, ok := table[code]
	return ok
}

func (c Code) String() string {
	if n := Name(c); n != "" {
		return n
	}
	return "UNKNOWN"
}
