package lang

import (
	"testing"
)

func TestAlphaEquiv(t *testing.T) {
	cases := []struct {
		a, b  Term
		equiv bool
	}{
		{v(0), v(0), true},
		{v(3), v(3), true},
		{v(0), v(1), false},
		{lam(v(0)), lam(v(0)), true},
		{lam(v(0)), lam(v(1)), false},
		{lam(v(0)), v(0), false},
		{lam(lam(v(1))), lam(lam(v(0))), false},
		{lam(lam(v(2))), lam(lam(v(2))), true},
		// Bound on one side, free on the other.
		{lam(v(0)), lam(v(1)), false},
		{app(lam(v(0)), lam(app(v(0), v(1)))), app(lam(v(0)), lam(app(v(0), v(1)))), true},
		{app(lam(v(0)), lam(app(v(0), v(1)))), app(lam(v(0)), lam(app(v(1), v(0)))), false},
		{app(v(0), v(1)), lam(v(0)), false},
		// Same tree, built separately.
		{omega, app(lam(app(v(0), v(0))), lam(app(v(0), v(0)))), true},
		// Not beta-equivalence.
		{app(lam(v(0)), v(3)), v(3), false},
	}

	for idx, testCase := range cases {
		if actual := AlphaEquiv(testCase.a, testCase.b); actual != testCase.equiv {
			t.Fatalf("case %d: AlphaEquiv(%s, %s): expected %v", idx, testCase.a, testCase.b, testCase.equiv)
		}
		if actual := AlphaEquiv(testCase.b, testCase.a); actual != testCase.equiv {
			t.Fatalf("case %d: not symmetric", idx)
		}
	}
}

func TestAlphaEquivIsReflexive(t *testing.T) {
	for idx, term := range sampleTerms(300) {
		if !AlphaEquiv(term, term) {
			t.Fatalf("case %d: %s not alpha-equivalent to itself", idx, term)
		}
		copied, err := DecodeTerm(MustEncodeTerm(term))
		if err != nil {
			t.Fatalf("case %d: %v", idx, err)
		}
		if !AlphaEquiv(term, copied) {
			t.Fatalf("case %d: %s not alpha-equivalent to its copy", idx, term)
		}
	}
}

func TestAlphaEquivAgreesWithEqual(t *testing.T) {
	terms := sampleTerms(60)
	for i, a := range terms {
		for j, b := range terms {
			if AlphaEquiv(a, b) != Equal(a, b) {
				t.Fatalf("cases %d, %d: AlphaEquiv and Equal disagree on %s and %s", i, j, a, b)
			}
		}
	}
}
