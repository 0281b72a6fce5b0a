package object

// GlobalVar is one entry of the global table: a name and its current
// value.
type GlobalVar struct {
	Name  string
	Value Value
}

// Global is an insertion-ordered, append-only list mapping names to
// values for user globals and native bindings (spec.md §4.2). Index into
// the slice is the stable runtime slot the compiler bakes into
// GET_GLOBAL/SET_GLOBAL instructions.
type Global struct {
	entries []GlobalVar
}

// NewGlobal returns an empty global table.
func NewGlobal() *Global {
	return &Global{}
}

// IndexOf returns the last-matching index of name, scanning from the
// tail, or -1 if name is not defined.
func (g *Global) IndexOf(name string) int {
	for i := len(g.entries) - 1; i >= 0; i-- {
		if g.entries[i].Name == name {
			return i
		}
	}
	return -1
}

// Exists reports whether name has been defined.
func (g *Global) Exists(name string) bool {
	return g.IndexOf(name) != -1
}

// Define registers name with a default Number(0) value. A no-op if name
// already exists (this idempotence lets a top-level (var x ...) be
// compiled before the initializer's value is known without clobbering an
// earlier binding on redefinition within the same compile, spec.md §4.2).
// It returns the entry's index either way.
func (g *Global) Define(name string) int {
	if i := g.IndexOf(name); i != -1 {
		return i
	}
	g.entries = append(g.entries, GlobalVar{Name: name, Value: Num(0)})
	return len(g.entries) - 1
}

// AddGlobal registers name with the given numeric value, no-op if already
// present.
func (g *Global) AddGlobal(name string, value float64) int {
	if i := g.IndexOf(name); i != -1 {
		return i
	}
	g.entries = append(g.entries, GlobalVar{Name: name, Value: Num(value)})
	return len(g.entries) - 1
}

// AddNative registers a native function binding, no-op if already
// present.
func (g *Global) AddNative(heap *Heap, name string, arity int, fn NativeFn) int {
	if i := g.IndexOf(name); i != -1 {
		return i
	}
	g.entries = append(g.entries, GlobalVar{Name: name, Value: NewNative(heap, name, arity, fn)})
	return len(g.entries) - 1
}

// Get returns the i-th entry. Panics if i is out of range: the compiler
// only ever emits indices it obtained from IndexOf/Define, so an
// out-of-range index here is an implementation bug, not a Violang program
// error.
func (g *Global) Get(i int) GlobalVar {
	return g.entries[i]
}

// Set overwrites the value at index i. ok is false if i is out of range,
// which the vm surfaces as a KindGlobalIndexRange FatalError on
// SET_GLOBAL (spec.md §7).
func (g *Global) Set(i int, v Value) bool {
	if i < 0 || i >= len(g.entries) {
		return false
	}
	g.entries[i].Value = v
	return true
}

// Len returns the number of defined globals.
func (g *Global) Len() int {
	return len(g.entries)
}

// Entries returns the live global table, in insertion order. Used by the
// GC's global-root scan (spec.md §4.5 point 1b).
func (g *Global) Entries() []GlobalVar {
	return g.entries
}
