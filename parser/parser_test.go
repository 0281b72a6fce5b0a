package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vio-lang/violang/ast"
)

func TestParseAtoms(t *testing.T) {
	exp, err := New("42").Parse()
	require.NoError(t, err)
	require.Equal(t, ast.Number, exp.Type)
	require.Equal(t, 42.0, exp.NumberValue)

	exp, err = New(`"hello"`).Parse()
	require.NoError(t, err)
	require.Equal(t, ast.String, exp.Type)
	require.Equal(t, "hello", exp.StringValue)

	exp, err = New("foo-bar!").Parse()
	require.NoError(t, err)
	require.Equal(t, ast.Symbol, exp.Type)
	require.Equal(t, "foo-bar!", exp.SymbolValue)
}

func TestParseList(t *testing.T) {
	exp, err := New("(+ 2 3)").Parse()
	require.NoError(t, err)
	require.True(t, exp.IsTaggedList("+"))
	require.Len(t, exp.ListValue, 3)
	require.Equal(t, 2.0, exp.ListValue[1].NumberValue)
	require.Equal(t, 3.0, exp.ListValue[2].NumberValue)
}

func TestParseNested(t *testing.T) {
	exp, err := New("(def sq (x) (* x x))").Parse()
	require.NoError(t, err)
	require.True(t, exp.IsTaggedList("def"))
	require.Equal(t, "sq", exp.ListValue[1].SymbolValue)
	require.Len(t, exp.ListValue[2].ListValue, 1)
	require.True(t, exp.ListValue[3].IsTaggedList("*"))
}

func TestParseComments(t *testing.T) {
	source := `
	// a line comment
	(+ 1 /* inline */ 2)
	`
	exp, err := New(source).Parse()
	require.NoError(t, err)
	require.True(t, exp.IsTaggedList("+"))
	require.Equal(t, 1.0, exp.ListValue[1].NumberValue)
	require.Equal(t, 2.0, exp.ListValue[2].NumberValue)
}

func TestParseNegativeNumber(t *testing.T) {
	exp, err := New("-5").Parse()
	require.NoError(t, err)
	require.Equal(t, ast.Number, exp.Type)
	require.Equal(t, -5.0, exp.NumberValue)
}

func TestParseErrors(t *testing.T) {
	_, err := New("(+ 1 2").Parse()
	require.Error(t, err, "unterminated list")

	_, err = New(")").Parse()
	require.Error(t, err, "unexpected close paren")

	_, err = New("1 2").Parse()
	require.Error(t, err, "trailing input after first expression")

	_, err = New("").Parse()
	require.Error(t, err, "empty input")
}
