// Package dis disassembles compiled Code objects into a human-readable
// instruction listing, and optionally as structured JSON, the way the
// teacher stack exposes its own bytecode for debugging tools to consume.
package dis

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	prettyjson "github.com/hokaccha/go-prettyjson"
	"github.com/mattn/go-isatty"

	"github.com/vio-lang/violang/object"
	"github.com/vio-lang/violang/op"
)

// UseColor reports whether f is a real terminal and color hasn't been
// disabled, the same test the CLI layer runs before choosing a
// disassembly renderer.
func UseColor(f *os.File, noColor bool) bool {
	if noColor {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Write disassembles co, and every Code or Function it holds as a
// constant, to w as a flat text listing, one "== <Code.Repr()> ==" section
// per Code object.
func Write(w io.Writer, co *object.Code, useColor bool) error {
	return writeCode(w, co, useColor, map[string]bool{})
}

func writeCode(w io.Writer, co *object.Code, useColor bool, seen map[string]bool) error {
	if seen[co.ID()] {
		return nil
	}
	seen[co.ID()] = true

	header := fmt.Sprintf("== %s ==", co.Repr())
	if useColor {
		header = color.New(color.FgCyan, color.Bold).Sprint(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	ip := 0
	ins := co.Instructions
	for ip < len(ins) {
		code := op.Code(ins[ip])
		widths, ok := op.OperandWidths(code)
		if !ok {
			return fmt.Errorf("dis: unknown opcode 0x%02x at offset %d", ins[ip], ip)
		}

		mnemonic := op.Name(code)
		if useColor {
			mnemonic = color.New(color.FgYellow).Sprint(mnemonic)
		}
		line := fmt.Sprintf("%04d %s", ip, mnemonic)
		ip++

		operands := make([]int, len(widths))
		for i, width := range widths {
			operands[i] = readOperand(ins, ip, width)
			ip += width
		}

		switch code {
		case op.Const:
			line += formatConstOperand(co, operands[0], useColor)
		case op.Compare:
			line += " " + compareOpName(op.CompareOp(operands[0]))
		default:
			for _, v := range operands {
				line += fmt.Sprintf(" %d", v)
			}
		}

		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	for _, c := range co.Constants {
		if child := childCode(c); child != nil {
			if err := writeCode(w, child, useColor, seen); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatConstOperand(co *object.Code, idx int, useColor bool) string {
	if idx < 0 || idx >= len(co.Constants) {
		return fmt.Sprintf(" %d <out of range>", idx)
	}
	repr := co.Constants[idx].Repr()
	if useColor {
		repr = color.New(color.FgGreen).Sprint(repr)
	}
	return fmt.Sprintf(" %d %s", idx, repr)
}

func childCode(v object.Value) *object.Code {
	if !v.IsObject() {
		return nil
	}
	if fn, ok := v.Obj.(*object.Function); ok {
		return fn.Co
	}
	if co, ok := v.Obj.(*object.Code); ok {
		return co
	}
	return nil
}

func readOperand(ins []byte, pos, width int) int {
	switch width {
	case 1:
		return int(ins[pos])
	case 2:
		return int(ins[pos])<<8 | int(ins[pos+1])
	default:
		return 0
	}
}

func compareOpName(c op.CompareOp) string {
	switch c {
	case op.Lt:
		return "<"
	case op.Gt:
		return ">"
	case op.Eq:
		return "=="
	case op.Gte:
		return ">="
	case op.Lte:
		return "<="
	case op.Neq:
		return "!="
	default:
		return "?"
	}
}

// instructionRow is one decoded instruction in the JSON dump.
type instructionRow struct {
	Offset   int   `json:"offset"`
	Mnemonic string `json:"mnemonic"`
	Operands []int `json:"operands,omitempty"`
}

// codeDump is one Code object's JSON dump, with nested functions inlined.
type codeDump struct {
	Name         string           `json:"name"`
	Arity        int              `json:"arity"`
	Instructions []instructionRow `json:"instructions"`
	Constants    []string         `json:"constants,omitempty"`
	Functions    []codeDump       `json:"functions,omitempty"`
}

// JSON renders co as indented, colorized JSON via go-prettyjson, for
// tooling that wants structured disassembly rather than Write's flat text
// listing.
func JSON(co *object.Code) (string, error) {
	dump := buildDump(co, map[string]bool{co.ID(): true})
	b, err := prettyjson.Marshal(dump)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func buildDump(co *object.Code, seen map[string]bool) codeDump {
	dump := codeDump{Name: co.Name, Arity: co.Arity}

	ip := 0
	ins := co.Instructions
	for ip < len(ins) {
		code := op.Code(ins[ip])
		widths, ok := op.OperandWidths(code)
		if !ok {
			break
		}
		row := instructionRow{Offset: ip, Mnemonic: op.Name(code)}
		ip++
		for _, width := range widths {
			row.Operands = append(row.Operands, readOperand(ins, ip, width))
			ip += width
		}
		dump.Instructions = append(dump.Instructions, row)
	}

	for _, c := range co.Constants {
		dump.Constants = append(dump.Constants, c.Repr())
		if child := childCode(c); child != nil && !seen[child.ID()] {
			seen[child.ID()] = true
			dump.Functions = append(dump.Functions, buildDump(child, seen))
		}
	}
	return dump
}
