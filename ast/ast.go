// Package ast defines the expression tree produced by package parser and
// consumed by package compiler. Violang's surface syntax is uniform enough
// that a single sum type, Exp, covers every node the language needs: a
// number, a string, a bare symbol, or an ordered list of sub-expressions.
package ast

import (
	"fmt"
	"strings"

	"github.com/vio-lang/violang/token"
)

// Type discriminates the kind of an Exp node.
type Type int

const (
	Number Type = iota
	String
	Symbol
	List
)

func (t Type) String() string {
	switch t {
	case Number:
		return "Number"
	case String:
		return "String"
	case Symbol:
		return "Symbol"
	case List:
		return "List"
	default:
		return "Unknown"
	}
}

// Exp is a node in the parsed expression tree. Exactly one of NumberValue,
// StringValue, SymbolValue, or ListValue is meaningful, selected by Type.
type Exp struct {
	Type Type

	NumberValue float64
	StringValue string
	SymbolValue string
	ListValue   []Exp

	Pos token.Position
}

// NewNumber builds a Number node.
func NewNumber(value float64, pos token.Position) Exp {
	return Exp{Type: Number, NumberValue: value, Pos: pos}
}

// NewString builds a String node. value is the content without surrounding
// quotes.
func NewString(value string, pos token.Position) Exp {
	return Exp{Type: String, StringValue: value, Pos: pos}
}

// NewSymbol builds a Symbol node.
func NewSymbol(value string, pos token.Position) Exp {
	return Exp{Type: Symbol, SymbolValue: value, Pos: pos}
}

// NewList builds a List node.
func NewList(items []Exp, pos token.Position) Exp {
	return Exp{Type: List, ListValue: items, Pos: pos}
}

// IsTaggedList reports whether exp is a non-empty list whose head is the
// symbol tag, e.g. IsTaggedList(exp, "if") for (if ...).
func (e Exp) IsTaggedList(tag string) bool {
	if e.Type != List || len(e.ListValue) == 0 {
		return false
	}
	head := e.ListValue[0]
	return head.Type == Symbol && head.SymbolValue == tag
}

// String renders exp back to source-like text, mainly for error messages
// and tests.
func (e Exp) String() string {
	switch e.Type {
	case Number:
		return fmt.Sprintf("%g", e.NumberValue)
	case String:
		return fmt.Sprintf("%q", e.StringValue)
	case Symbol:
		return e.SymbolValue
	case List:
		parts := make([]string, len(e.ListValue))
		for i, item := range e.ListValue {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "<invalid>"
	}
}
