package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeLocals(t *testing.T) {
	heap := NewHeap()
	val := NewCode(heap, "fact", 1)
	co := val.Obj.(*Code)

	co.AddLocal("fact")
	co.AddLocal("n")
	require.Equal(t, 0, co.LocalIndex("fact"))
	require.Equal(t, 1, co.LocalIndex("n"))
	require.Equal(t, -1, co.LocalIndex("missing"))

	co.ScopeLevel++
	co.AddLocal("tmp")
	require.Equal(t, 2, co.LocalIndex("tmp"))
	// Shadowing resolves to the innermost declaration.
	co.AddLocal("n")
	require.Equal(t, 3, co.LocalIndex("n"))
}

func TestCodeEmitAndPatch(t *testing.T) {
	heap := NewHeap()
	val := NewCode(heap, "main", 0)
	co := val.Obj.(*Code)

	co.Emit(0x01)
	pos := co.Offset()
	co.EmitU16(0)
	require.Equal(t, []byte{0x01, 0x00, 0x00}, co.Instructions)

	co.PatchU16(pos, 0x1234)
	require.Equal(t, []byte{0x01, 0x12, 0x34}, co.Instructions)
}

func TestCodeAddConstant(t *testing.T) {
	heap := NewHeap()
	val := NewCode(heap, "main", 0)
	co := val.Obj.(*Code)

	i0 := co.AddConstant(Num(1))
	i1 := co.AddConstant(Num(1))
	require.Equal(t, 0, i0)
	require.Equal(t, 1, i1, "AddConstant never de-duplicates; callers intern first")
}

func TestCodeShortID(t *testing.T) {
	heap := NewHeap()
	val := NewCode(heap, "main", 0)
	co := val.Obj.(*Code)
	require.Len(t, co.ShortID(), 8)
	require.Contains(t, co.Repr(), co.ShortID())
	require.Contains(t, co.Repr(), "main/0")
}
