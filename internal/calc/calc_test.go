package calc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEval(t *testing.T) {
	cases := []struct {
		expr string
		want float64
	}{
		{"2+3", 5},
		{"5+10", 15},
		{" 2 + 3 * 4 ", 14},
		{"(2+3)*4", 20},
		{"10-4-3", 3},
		{"100/10/5", 2},
		{"2^3^2", 512},
		{"-2^2", -4},
		{"2^-1", 0.5},
		{"--3", 3},
		{"5--3", 8},
		{"5-(-3)", 8},
		{"+4", 4},
		{".5*4", 2},
		{"1.5e2+1", 151},
		{"1e+21/1e21", 1},
		{"2*(3+(4-1))^2", 72},
	}
	for _, tc := range cases {
		t.Run(tc.expr, func(t *testing.T) {
			got, err := Eval(tc.expr)
			require.NoError(t, err)
			require.InDelta(t, tc.want, got, 1e-9)
		})
	}
}

func TestEval_SyntaxErrors(t *testing.T) {
	for _, expr := range []string{
		"",
		"   ",
		"5+",
		"*5",
		"(2+3",
		"2+3)",
		"2 3",
		"abc+1",
		".",
		"1e",
		"4/",
		"2^",
	} {
		t.Run(expr, func(t *testing.T) {
			_, err := Eval(expr)
			var syn *SyntaxError
			require.ErrorAs(t, err, &syn, "expected a syntax error for %q, got %v", expr, err)
		})
	}
}

func TestEval_NonFinite(t *testing.T) {
	_, err := Eval("1/0")
	require.ErrorIs(t, err, ErrDivideByZero)
	require.ErrorIs(t, err, ErrNonFinite)

	_, err = Eval("10^400")
	require.ErrorIs(t, err, ErrNonFinite)

	_, err = Eval("(-1)^0.5")
	require.ErrorIs(t, err, ErrNonFinite)
}

func TestEvaluatorAdapters(t *testing.T) {
	var ev Evaluator = Arithmetic{}
	v, err := ev.Eval("6*7")
	require.NoError(t, err)
	require.Equal(t, 42.0, v)

	boom := errors.New("boom")
	ev = Func(func(string) (float64, error) { return 0, boom })
	_, err = ev.Eval("1")
	require.ErrorIs(t, err, boom)
}
