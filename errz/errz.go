// Package errz defines the fatal error taxonomy used across parser,
// compiler, vm and gc. Per spec, Violang has no recoverable error model:
// every failure terminates the process after printing "Fatal error: <message>".
// Internal packages never call os.Exit themselves; they return a
// *FatalError up the call stack so that a single place (cmd/violang) owns
// process termination and logging.
package errz

import "fmt"

// Kind categorizes a FatalError.
type Kind int

const (
	KindParse Kind = iota
	KindReference
	KindStackOverflow
	KindEmptyStack
	KindBadLocalIndex
	KindUnknownOpcode
	KindType
	KindGlobalIndexRange
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindReference:
		return "reference error"
	case KindStackOverflow:
		return "stack overflow"
	case KindEmptyStack:
		return "empty stack"
	case KindBadLocalIndex:
		return "bad local index"
	case KindUnknownOpcode:
		return "unknown opcode"
	case KindType:
		return "type error"
	case KindGlobalIndexRange:
		return "global index out of range"
	default:
		return "error"
	}
}

// FatalError is the sole error type Violang's internal packages produce.
type FatalError struct {
	Kind    Kind
	Message string
}

// New builds a FatalError of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *FatalError {
	return &FatalError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Referencef builds a "Reference error: <name>" FatalError, the exact
// phrasing spec.md's non-goals still require even without full source
// positions.
func Referencef(name string) *FatalError {
	return &FatalError{Kind: KindReference, Message: fmt.Sprintf("Reference error: %s", name)}
}

func (e *FatalError) Error() string {
	return e.Message
}
