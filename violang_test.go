package violang

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vio-lang/violang/config"
	"github.com/vio-lang/violang/object"
)

func TestConcreteScenarios(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   object.Value
	}{
		{"addition", "(+ 2 3)", object.Num(5)},
		{"if-true-branch", `(if (> 5 3) "yes" "no")`, object.Num(0)}, // checked separately below (string)
		{"while-loop", "(var i 0) (while (< i 3) (set i (+ i 1))) i", object.Num(3)},
		{"function-call", "(def sq (x) (* x x)) (sq 7)", object.Num(49)},
		{"recursion", "(def fact (n) (if (== n 1) 1 (* n (fact (- n 1))))) (fact 5)", object.Num(120)},
		{"preloaded-native", "(square 6)", object.Num(36)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			result, err := Eval(c.source)
			require.NoError(t, err)
			if c.name == "if-true-branch" {
				require.Equal(t, "yes", result.AsString())
				return
			}
			require.Equal(t, c.want.Number, result.Number)
		})
	}
}

func TestStringConcatenationScenario(t *testing.T) {
	result, err := Eval(`(+ "foo" "bar")`)
	require.NoError(t, err)
	require.Equal(t, "foobar", result.AsString())
}

func TestPreloadedVersion(t *testing.T) {
	result, err := Eval("VERSION")
	require.NoError(t, err)
	require.Equal(t, float64(Version), result.Number)
}

func TestVarReadRoundTrip(t *testing.T) {
	cases := []float64{0, 1, 7, 42.5}
	for _, v := range cases {
		source := fmt.Sprintf("(var x %v) x", v)
		result, err := Eval(source)
		require.NoError(t, err)
		require.Equal(t, v, result.Number)
	}
}

func TestSetPreservesValue(t *testing.T) {
	result, err := Eval("(var x 5) (set x (+ x 0)) x")
	require.NoError(t, err)
	require.Equal(t, 5.0, result.Number)
}

func TestBeginSingleExpressionIsTransparent(t *testing.T) {
	direct, err := Eval("(+ 1 2)")
	require.NoError(t, err)
	wrapped, err := Eval("(begin (+ 1 2))")
	require.NoError(t, err)
	require.Equal(t, direct.Number, wrapped.Number)
}

func TestRepeatedGlobalDefinitionDoesNotGrowTable(t *testing.T) {
	machine := NewVM(config.Default(), zerolog.Nop())
	_, err := machine.Exec("(var n 1) (var n 2) (var n 3)")
	require.NoError(t, err)
	// VERSION + square + n == 3 globals total, regardless of how many
	// times n was (re)declared.
	require.Equal(t, 3, machine.Global().Len())
}

func TestUnreferencedConcatenationIsCollected(t *testing.T) {
	cfg := config.Default()
	cfg.GCThreshold = 1 // force a collection attempt on nearly every instruction
	machine := NewVM(cfg, zerolog.Nop())

	// The ADD result is the non-last statement of a begin block, so it's
	// popped and discarded immediately; "foo" and "bar" remain reachable
	// forever as constants of the compiled main Code.
	_, err := machine.Exec(`(+ "foo" "bar") (var i 0) (while (< i 5) (set i (+ i 1))) i`)
	require.NoError(t, err)

	foundFoo, foundBar, foundConcat := false, false, false
	for _, obj := range machine.Heap().Objects() {
		s, ok := obj.(*object.String)
		if !ok {
			continue
		}
		switch s.Value {
		case "foo":
			foundFoo = true
		case "bar":
			foundBar = true
		case "foobar":
			foundConcat = true
		}
	}
	require.True(t, foundFoo, "constant-pool string survives as a compiler constant root")
	require.True(t, foundBar, "constant-pool string survives as a compiler constant root")
	require.False(t, foundConcat, "the discarded concatenation result is reclaimed once unreferenced")
}
