package object

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValueEqual(t *testing.T) {
	require.True(t, Num(3).Equal(Num(3)))
	require.False(t, Num(3).Equal(Num(4)))
	require.True(t, Bool(true).Equal(Bool(true)))
	require.False(t, Bool(true).Equal(Bool(false)))
	require.False(t, Num(1).Equal(Bool(true)))

	heap := NewHeap()
	a := NewString(heap, "hi")
	b := NewString(heap, "hi")
	require.True(t, a.Equal(b), "distinct String objects with equal bytes intern-equal")

	c := NewString(heap, "bye")
	require.False(t, a.Equal(c))
}

func TestValueRepr(t *testing.T) {
	require.Equal(t, "3", Num(3).Repr())
	require.Equal(t, "3.5", Num(3.5).Repr())
	require.Equal(t, "true", Bool(true).Repr())
	require.Equal(t, "false", Bool(false).Repr())

	heap := NewHeap()
	s := NewString(heap, "hi")
	require.Equal(t, `"hi"`, s.Repr())
}

func TestValuePredicates(t *testing.T) {
	heap := NewHeap()
	s := NewString(heap, "x")
	require.True(t, s.IsObject())
	require.True(t, s.IsString())
	require.False(t, s.IsNumber())
	require.Equal(t, "x", s.AsString())

	n := Num(1)
	require.True(t, n.IsNumber())
	require.False(t, n.IsObject())
}
