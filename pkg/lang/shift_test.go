package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShift(t *testing.T) {
	cases := []struct {
		amount, cutoff int
		in, out        Term
	}{
		{1, 0, v(0), v(1)},
		{3, 0, v(2), v(5)},
		{1, 1, v(0), v(0)},
		{2, 1, lam(app(v(0), v(2))), lam(app(v(0), v(4)))},
		{1, 0, lam(lam(app(v(1), v(2)))), lam(lam(app(v(1), v(3))))},
		{1, 0, app(v(0), lam(v(1))), app(v(1), lam(v(2)))},
		{5, 0, succ, succ},
	}

	for idx, testCase := range cases {
		actual := Shift(testCase.amount, testCase.cutoff, testCase.in)
		if !Equal(actual, testCase.out) {
			t.Fatalf("case %d: expected %s; got %s", idx, testCase.out, actual)
		}
	}
}

func TestShiftSharesUnchangedSubterms(t *testing.T) {
	closed := lam(app(v(0), lam(v(1))))
	require.True(t, Shift(4, 0, closed) == closed)

	open := app(closed, v(0))
	shifted := Shift(1, 0, open).(*EApp)
	require.True(t, shifted.Func() == closed)
	require.True(t, Equal(shifted.Arg(), v(1)))

	require.True(t, Shift(0, 0, open) == open)
}

func TestShiftPanicsOnNegativeArguments(t *testing.T) {
	require.Panics(t, func() { Shift(-1, 0, v(0)) })
	require.Panics(t, func() { Shift(1, -1, v(0)) })
}

func TestShiftPreservesWellFormedness(t *testing.T) {
	for idx, term := range sampleTerms(200) {
		free := FreeVars(term)
		require.NoError(t, CheckWellFormed(term, free), "case %d", idx)
		for _, amount := range []int{0, 1, 3} {
			for _, cutoff := range []int{0, 1, 2} {
				shifted := Shift(amount, cutoff, term)
				if err := CheckWellFormed(shifted, free+amount); err != nil {
					t.Fatalf("case %d: shift(%d, %d, %s) = %s: %v", idx, amount, cutoff, term, shifted, err)
				}
			}
		}
	}
}

func TestSubstitute(t *testing.T) {
	n := lam(app(v(0), v(4)))

	cases := []struct {
		in          Term
		target      int
		replacement Term
		out         Term
	}{
		// The three variable cases.
		{v(1), 1, n, n},
		{v(2), 1, n, v(1)},
		{v(0), 1, n, v(0)},
		// Replacement is lifted under a binder so its free reference
		// isn't captured.
		{lam(v(1)), 0, v(0), lam(v(1))},
		{lam(app(v(0), v(1))), 0, v(3), lam(app(v(0), v(4)))},
		{lam(lam(v(2))), 0, n, lam(lam(lam(app(v(0), v(6)))))},
		// References past the removed binder move down.
		{lam(app(v(1), v(2))), 0, v(9), lam(app(v(10), v(1)))},
		{app(v(0), v(0)), 0, n, app(n, n)},
	}

	for idx, testCase := range cases {
		actual := Substitute(testCase.in, testCase.target, testCase.replacement)
		if !Equal(actual, testCase.out) {
			t.Fatalf("case %d: expected %s; got %s", idx, testCase.out, actual)
		}
	}
}

func TestSubstituteSharesReplacement(t *testing.T) {
	n := lam(app(v(0), v(4)))

	dup := Substitute(app(v(0), v(0)), 0, n).(*EApp)
	require.True(t, dup.Func() == n)
	require.True(t, dup.Arg() == n)

	// Occurrences at the same binder depth share one lifted copy.
	under := Substitute(lam(app(v(1), v(1))), 0, n).(*ELambda)
	body := under.Body().(*EApp)
	require.True(t, body.Func() == body.Arg())
	require.True(t, Equal(body.Func(), Shift(1, 0, n)))
}

func TestSubstituteIsCaptureAvoiding(t *testing.T) {
	// Substituting a free reference under any number of binders must leave
	// it pointing past all of them.
	for binders := 0; binders < 5; binders++ {
		var term Term = v(binders)
		for i := 0; i < binders; i++ {
			term = lam(term)
		}
		out := Substitute(term, 0, v(7))
		require.Equal(t, 8, FreeVars(out), "binders=%d", binders)
	}
}
