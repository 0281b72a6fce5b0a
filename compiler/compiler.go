// Package compiler implements Violang's single-pass compiler: it walks an
// ast.Exp tree and emits one object.Code per function (plus the "main"
// entry point), interning constants, resolving local/global bindings, and
// lowering control flow to jumps (spec.md §4.3).
package compiler

import (
	"github.com/vio-lang/violang/ast"
	"github.com/vio-lang/violang/errz"
	"github.com/vio-lang/violang/object"
	"github.com/vio-lang/violang/op"
)

// Compiler holds the heap and global table it compiles against, the
// "current Code object" pointer swapped during function compilation, and
// the set of Code/String/Function objects it has created so the vm can
// seed GC roots with them (spec.md §4.3's "constant roots").
type Compiler struct {
	heap    *object.Heap
	global  *object.Global
	current *object.Code

	constantRoots []object.Value
}

// New returns a Compiler that allocates against heap and resolves globals
// against global.
func New(heap *object.Heap, global *object.Global) *Compiler {
	return &Compiler{heap: heap, global: global}
}

// ConstantRoots returns every Code/String/Function object this compiler
// has created, so code compiled but not yet executed (and its constants)
// survives collection (spec.md §4.5 point 1c).
func (c *Compiler) ConstantRoots() []object.Value {
	return c.constantRoots
}

// Compile lowers exp (expected to already be wrapped in a (begin ...)
// block by the caller, see vm.Exec) into a fresh "main" Code object with
// arity 0 (spec.md §3's "top-level Code object is named main with arity
// 0").
func (c *Compiler) Compile(exp ast.Exp) (*object.Code, error) {
	mainVal := object.NewCode(c.heap, "main", 0)
	main := mainVal.Obj.(*object.Code)
	c.constantRoots = append(c.constantRoots, mainVal)
	c.current = main

	if err := c.gen(exp); err != nil {
		return nil, err
	}
	c.emit(op.Halt)
	return main, nil
}

func (c *Compiler) emit(b op.Code) {
	c.current.Emit(byte(b))
}

func (c *Compiler) emitByte(b int) {
	c.current.Emit(byte(b))
}

// gen is the main compile loop: it recursively lowers one Exp node.
func (c *Compiler) gen(exp ast.Exp) error {
	switch exp.Type {
	case ast.Number:
		c.emit(op.Const)
		c.emitByte(c.internNumber(exp.NumberValue))
		return nil

	case ast.String:
		c.emit(op.Const)
		c.emitByte(c.internString(exp.StringValue))
		return nil

	case ast.Symbol:
		return c.genSymbol(exp)

	case ast.List:
		return c.genList(exp)

	default:
		return errz.New(errz.KindParse, "unrecognized expression node")
	}
}

func (c *Compiler) genSymbol(exp ast.Exp) error {
	name := exp.SymbolValue

	if name == "true" || name == "false" {
		c.emit(op.Const)
		c.emitByte(c.internBoolean(name == "true"))
		return nil
	}

	if idx := c.current.LocalIndex(name); idx != -1 {
		c.emit(op.GetLocal)
		c.emitByte(idx)
		return nil
	}

	if !c.global.Exists(name) {
		return errz.Referencef(name)
	}
	c.emit(op.GetGlobal)
	c.emitByte(c.global.IndexOf(name))
	return nil
}

func (c *Compiler) genList(exp ast.Exp) error {
	if len(exp.ListValue) == 0 {
		return errz.New(errz.KindParse, "empty list expression")
	}
	head := exp.ListValue[0]

	if head.Type == ast.Symbol {
		switch head.SymbolValue {
		case "+", "-", "*", "/":
			return c.genArith(head.SymbolValue, exp)
		case "if":
			return c.genIf(exp)
		case "while":
			return c.genWhile(exp)
		case "var":
			return c.genVar(exp)
		case "set":
			return c.genSet(exp)
		case "begin":
			return c.genBegin(exp)
		case "def":
			return c.genDef(exp)
		case "lambda":
			_, err := c.compileFunction("lambda", exp.ListValue[1], exp.ListValue[2])
			return err
		default:
			if cmpOp, ok := op.CompareOpFor(head.SymbolValue); ok {
				return c.genCompare(cmpOp, exp)
			}
			return c.genCall(exp)
		}
	}

	// Application where the callee itself is a list, e.g.
	// ((lambda (x) (* x x)) 2).
	return c.genCall(exp)
}

func (c *Compiler) genArith(sym string, exp ast.Exp) error {
	if err := c.gen(exp.ListValue[1]); err != nil {
		return err
	}
	if err := c.gen(exp.ListValue[2]); err != nil {
		return err
	}
	switch sym {
	case "+":
		c.emit(op.Add)
	case "-":
		c.emit(op.Sub)
	case "*":
		c.emit(op.Mul)
	case "/":
		c.emit(op.Div)
	}
	return nil
}

func (c *Compiler) genCompare(cmpOp op.CompareOp, exp ast.Exp) error {
	if err := c.gen(exp.ListValue[1]); err != nil {
		return err
	}
	if err := c.gen(exp.ListValue[2]); err != nil {
		return err
	}
	c.emit(op.Compare)
	c.emitByte(int(cmpOp))
	return nil
}

func (c *Compiler) genIf(exp ast.Exp) error {
	if err := c.gen(exp.ListValue[1]); err != nil { // test
		return err
	}

	elseJmp := c.emitJump(op.JmpIfFalse)

	if err := c.gen(exp.ListValue[2]); err != nil { // then
		return err
	}
	endJmp := c.emitJump(op.Jmp)

	c.patchJump(elseJmp)

	if len(exp.ListValue) == 4 {
		if err := c.gen(exp.ListValue[3]); err != nil { // else
			return err
		}
	}

	c.patchJump(endJmp)
	return nil
}

func (c *Compiler) genWhile(exp ast.Exp) error {
	loopStart := c.current.Offset()

	if err := c.gen(exp.ListValue[1]); err != nil { // test
		return err
	}
	endJmp := c.emitJump(op.JmpIfFalse)

	if err := c.gen(exp.ListValue[2]); err != nil { // body
		return err
	}
	// Each pass through the loop pushes the body's value; drop it here
	// rather than letting it accumulate across iterations, the way every
	// other non-last statement in a begin block is discarded.
	c.emit(op.Pop)

	c.current.Emit(byte(op.Jmp))
	c.current.EmitU16(uint16(loopStart))

	// Patch the end-jump to the offset immediately after the back-jump
	// instruction just emitted (see SPEC_FULL.md §15's resolution of the
	// original's off-by-one loop-end patch).
	c.patchJump(endJmp)

	// while has no value of its own; leave a single placeholder so the
	// form still nets exactly one stack value, like every other statement.
	c.emit(op.Const)
	c.emitByte(c.internNumber(0))
	return nil
}

func (c *Compiler) genVar(exp ast.Exp) error {
	varName := exp.ListValue[1].SymbolValue
	value := exp.ListValue[2]

	if value.IsTaggedList("lambda") {
		if _, err := c.compileFunction(varName, value.ListValue[1], value.ListValue[2]); err != nil {
			return err
		}
	} else if err := c.gen(value); err != nil {
		return err
	}

	if c.isGlobalScope() {
		idx := c.global.Define(varName)
		c.emit(op.SetGlobal)
		c.emitByte(idx)
	} else {
		c.current.AddLocal(varName)
		slot := len(c.current.Locals) - 1
		c.emit(op.SetLocal)
		c.emitByte(slot)
	}
	return nil
}

func (c *Compiler) genSet(exp ast.Exp) error {
	varName := exp.ListValue[1].SymbolValue
	if err := c.gen(exp.ListValue[2]); err != nil {
		return err
	}

	if idx := c.current.LocalIndex(varName); idx != -1 {
		c.emit(op.SetLocal)
		c.emitByte(idx)
		return nil
	}

	idx := c.global.IndexOf(varName)
	if idx == -1 {
		return errz.Referencef(varName)
	}
	c.emit(op.SetGlobal)
	c.emitByte(idx)
	return nil
}

func (c *Compiler) genBegin(exp ast.Exp) error {
	c.scopeEnter()
	for i := 1; i < len(exp.ListValue); i++ {
		stmt := exp.ListValue[i]
		isLast := i == len(exp.ListValue)-1
		if err := c.gen(stmt); err != nil {
			return err
		}
		if !isLast && !c.isLocalDeclaration(stmt) {
			c.emit(op.Pop)
		}
	}
	c.scopeExit()
	return nil
}

// isLocalDeclaration reports whether stmt is a var or def form that just
// bound a new local slot in the current (non-global) scope. The value it
// pushed sits at that slot's stack position, not on top of it, so genBegin
// must not POP the way it would for an ordinary discarded expression:
// doing so would drop sp below the local and let the next push clobber it.
func (c *Compiler) isLocalDeclaration(stmt ast.Exp) bool {
	if c.isGlobalScope() {
		return false
	}
	return stmt.IsTaggedList("var") || stmt.IsTaggedList("def")
}

func (c *Compiler) genDef(exp ast.Exp) error {
	fnName := exp.ListValue[1].SymbolValue
	params := exp.ListValue[2]
	body := exp.ListValue[3]

	if _, err := c.compileFunction(fnName, params, body); err != nil {
		return err
	}

	if c.isGlobalScope() {
		idx := c.global.Define(fnName)
		c.emit(op.SetGlobal)
		c.emitByte(idx)
	} else {
		c.current.AddLocal(fnName)
		c.emit(op.SetLocal)
		c.emitByte(c.current.LocalIndex(fnName))
	}
	return nil
}

func (c *Compiler) genCall(exp ast.Exp) error {
	if err := c.gen(exp.ListValue[0]); err != nil {
		return err
	}
	for i := 1; i < len(exp.ListValue); i++ {
		if err := c.gen(exp.ListValue[i]); err != nil {
			return err
		}
	}
	c.emit(op.Call)
	c.emitByte(len(exp.ListValue) - 1)
	return nil
}

// compileFunction implements spec.md §4.3.2's six steps. It returns the
// freshly built Code object, mostly for tests.
func (c *Compiler) compileFunction(name string, params, body ast.Exp) (*object.Code, error) {
	arity := len(params.ListValue)

	caller := c.current
	coVal := object.NewCode(c.heap, name, arity)
	co := coVal.Obj.(*object.Code)
	c.constantRoots = append(c.constantRoots, coVal)
	caller.AddConstant(coVal) // step 1

	co.AddLocal(name) // step 2: slot 0, enables recursive self-calls
	for _, p := range params.ListValue {
		co.AddLocal(p.SymbolValue) // step 3
	}

	c.current = co
	isBegin := body.IsTaggedList("begin")
	if !isBegin {
		// A non-begin body gets its own scope level, so a (begin ...)
		// nested inside it is not taken for the function-body scope.
		co.ScopeLevel++
	}
	if err := c.gen(body); err != nil { // step 4
		c.current = caller
		return nil, err
	}
	if !isBegin {
		co.ScopeLevel--
		co.Emit(byte(op.ScopeExit))
		co.Emit(byte(arity + 1))
	}
	co.Emit(byte(op.Return)) // step 5
	c.current = caller

	fnVal := object.NewFunction(c.heap, co)
	c.constantRoots = append(c.constantRoots, fnVal)
	idx := caller.AddConstant(fnVal) // step 6
	caller.Emit(byte(op.Const))
	caller.Emit(byte(idx))

	return co, nil
}

// scopeEnter increments the current Code's compile-time scope level.
func (c *Compiler) scopeEnter() {
	c.current.ScopeLevel++
}

// scopeExit implements spec.md §4.3.1: pop the trailing locals of the
// exiting scope, and emit a single SCOPE_EXIT if there's anything to drop,
// either popped locals, or (at a function's top-level body scope) the
// function's own arguments and self-reference slot.
func (c *Compiler) scopeExit() {
	count := c.popScopeLocals()
	atFunctionBody := c.isFunctionBody()

	if count > 0 || (c.current.Arity > 0 && atFunctionBody) {
		if atFunctionBody {
			count += c.current.Arity + 1
		}
		c.emit(op.ScopeExit)
		c.emitByte(count)
	}
	c.current.ScopeLevel--
}

// popScopeLocals pops every trailing local declared at the current scope
// level and returns how many were removed.
func (c *Compiler) popScopeLocals() int {
	co := c.current
	count := 0
	for len(co.Locals) > 0 && co.Locals[len(co.Locals)-1].ScopeLevel == co.ScopeLevel {
		co.Locals = co.Locals[:len(co.Locals)-1]
		count++
	}
	return count
}

// isGlobalScope reports whether the current Code is main at its
// outermost (begin-wrapped) block scope.
func (c *Compiler) isGlobalScope() bool {
	return c.current.Name == "main" && c.current.ScopeLevel == 1
}

// isFunctionBody reports whether the current Code is a non-main function
// exiting the scope introduced by its own top-level (begin ...) body.
func (c *Compiler) isFunctionBody() bool {
	return c.current.Name != "main" && c.current.ScopeLevel == 1
}

// emitJump emits code followed by a two-byte placeholder address and
// returns the byte offset of the placeholder, for a later patchJump call.
func (c *Compiler) emitJump(code op.Code) int {
	co := c.current
	co.Emit(byte(code))
	pos := co.Offset()
	co.EmitU16(0)
	return pos
}

// patchJump back-patches the placeholder at pos to the current end of the
// instruction stream.
func (c *Compiler) patchJump(pos int) {
	c.current.PatchU16(pos, uint16(c.current.Offset()))
}

// internNumber returns the index of an existing Number constant equal to
// n, or appends a fresh one (spec.md §4.3's de-duplication rule).
func (c *Compiler) internNumber(n float64) int {
	co := c.current
	for i, v := range co.Constants {
		if v.IsNumber() && v.Number == n {
			return i
		}
	}
	return co.AddConstant(object.Num(n))
}

// internBoolean returns the index of an existing Boolean constant equal
// to b, or appends a fresh one.
func (c *Compiler) internBoolean(b bool) int {
	co := c.current
	for i, v := range co.Constants {
		if v.IsBoolean() && v.Boolean == b {
			return i
		}
	}
	return co.AddConstant(object.Bool(b))
}

// internString returns the index of an existing String constant with the
// same bytes, or allocates and appends a fresh one.
func (c *Compiler) internString(s string) int {
	co := c.current
	for i, v := range co.Constants {
		if v.IsString() && v.AsString() == s {
			return i
		}
	}
	sv := object.NewString(c.heap, s)
	c.constantRoots = append(c.constantRoots, sv)
	return co.AddConstant(sv)
}
