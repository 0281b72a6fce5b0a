package op

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOperandWidths(t *testing.T) {
	widths, ok := OperandWidths(Const)
	require.True(t, ok)
	require.Equal(t, []int{1}, widths)

	widths, ok = OperandWidths(JmpIfFalse)
	require.True(t, ok)
	require.Equal(t, []int{2}, widths)

	widths, ok = OperandWidths(Add)
	require.True(t, ok)
	require.Nil(t, widths)

	_, ok = OperandWidths(Code(0xFF))
	require.False(t, ok)
}

func TestNameAndValid(t *testing.T) {
	require.Equal(t, "HALT", Name(Halt))
	require.Equal(t, "RETURN", Name(Return))
	require.Equal(t, "", Name(Code(0xFF)))
	require.True(t, Valid(Call))
	require.False(t, Valid(Code(0xFF)))
	require.Equal(t, "CALL", Call.String())
	require.Equal(t, "UNKNOWN", Code(0xFF).String())
}

func TestCompareOpFor(t *testing.T) {
	cases := map[string]CompareOp{
		"<": Lt, ">": Gt, "==": Eq, ">=": Gte, "<=": Lte, "!=": Neq,
	}
	for sym, want := range cases {
		got, ok := CompareOpFor(sym)
		require.True(t, ok)
		require.Equal(t, want, got)
	}
	_, ok := CompareOpFor("<=>")
	require.False(t, ok)
}
