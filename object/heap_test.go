package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeapSweepReclaimsUnmarked(t *testing.T) {
	heap := NewHeap()
	a := NewString(heap, "kept")
	b := NewString(heap, "dropped")
	require.Equal(t, 2, heap.Len())

	a.Obj.SetMarked(true)

	reclaimed, bytes := heap.Sweep()
	require.Equal(t, 1, reclaimed)
	require.Equal(t, b.Obj.Size(), bytes)
	require.Equal(t, 1, heap.Len())
	require.Same(t, a.Obj, heap.Objects()[0])
	require.False(t, a.Obj.Marked(), "sweep clears the mark bit on survivors")
}

func TestHeapAllocatedTracksSize(t *testing.T) {
	heap := NewHeap()
	require.Equal(t, 0, heap.Allocated())

	s := NewString(heap, "hello")
	require.Equal(t, s.Obj.Size(), heap.Allocated())

	heap.Cleanup()
	require.Equal(t, 0, heap.Allocated())
	require.Equal(t, 0, heap.Len())
}
