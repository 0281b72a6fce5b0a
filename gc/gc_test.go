package gc

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vio-lang/violang/object"
)

func TestCollectReclaimsUnreachable(t *testing.T) {
	heap := object.NewHeap()
	root := object.NewString(heap, "root")
	object.NewString(heap, "garbage")
	require.Equal(t, 2, heap.Len())

	c := New(heap, zerolog.Nop())
	c.Collect([]object.Value{root})

	require.Equal(t, 1, heap.Len())
	require.Equal(t, "root", heap.Objects()[0].(*object.String).Value)
	require.False(t, heap.Objects()[0].Marked())
}

func TestCollectFollowsCodeConstantEdges(t *testing.T) {
	heap := object.NewHeap()
	coVal := object.NewCode(heap, "main", 0)
	co := coVal.Obj.(*object.Code)

	kept := object.NewString(heap, "kept")
	co.AddConstant(kept)
	object.NewString(heap, "unreachable")

	c := New(heap, zerolog.Nop())
	c.Collect([]object.Value{coVal})

	require.Equal(t, 2, heap.Len(), "main Code plus the string it holds as a constant")
	for _, obj := range heap.Objects() {
		if s, ok := obj.(*object.String); ok {
			require.Equal(t, "kept", s.Value)
		}
	}
}

func TestCollectHandlesFunctionCycles(t *testing.T) {
	heap := object.NewHeap()
	coVal := object.NewCode(heap, "recur", 0)
	co := coVal.Obj.(*object.Code)
	fnVal := object.NewFunction(heap, co)
	// A function referencing itself via its own constants pool, as
	// def/lambda naturally produce for recursive functions.
	co.AddConstant(fnVal)

	c := New(heap, zerolog.Nop())
	require.NotPanics(t, func() {
		c.Collect([]object.Value{fnVal})
	})
	require.Equal(t, 2, heap.Len())
}

func TestVerifyInvariantsCatchesDuplicateConstants(t *testing.T) {
	heap := object.NewHeap()
	coVal := object.NewCode(heap, "main", 0)
	co := coVal.Obj.(*object.Code)
	co.AddConstant(object.Num(1))
	co.AddConstant(object.Num(1))

	err := VerifyInvariants(heap, []object.Value{coVal})
	require.Error(t, err)
	require.Contains(t, err.Error(), "duplicate constants")
}

func TestVerifyInvariantsCleanOnValidState(t *testing.T) {
	heap := object.NewHeap()
	root := object.NewString(heap, "ok")

	err := VerifyInvariants(heap, []object.Value{root})
	require.NoError(t, err)
}
