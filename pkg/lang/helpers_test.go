package lang

import "math/rand"

func v(i int) Term               { return MustVar(i) }
func lam(body Term) Term         { return NewLambda(body) }
func app(fn Term, arg Term) Term { return NewApp(fn, arg) }

// ω = λx. x x, and Ω = ω ω diverges.
var (
	omegaHalf = lam(app(v(0), v(0)))
	omega     = app(omegaHalf, omegaHalf)
)

// Church numerals and successor.
var (
	church0 = lam(lam(v(0)))
	church1 = lam(lam(app(v(1), v(0))))
	church2 = lam(lam(app(v(1), app(v(1), v(0)))))
	succ    = lam(lam(lam(app(v(1), app(app(v(2), v(1)), v(0))))))
	konst   = lam(lam(v(1)))
)

// genTerm builds a pseudo-random term with at most free outer-scope slots.
func genTerm(r *rand.Rand, size int, binders int, free int) Term {
	if size <= 1 || r.Intn(4) == 0 {
		scope := binders + free
		if scope == 0 {
			return lam(v(0))
		}
		return v(r.Intn(scope))
	}
	if r.Intn(2) == 0 {
		return lam(genTerm(r, size-1, binders+1, free))
	}
	left := r.Intn(size - 1)
	return app(
		genTerm(r, left, binders, free),
		genTerm(r, size-1-left, binders, free),
	)
}

func sampleTerms(n int) []Term {
	r := rand.New(rand.NewSource(42))
	out := []Term{
		v(0), v(3), lam(v(0)), omega, church2, succ, konst,
		app(succ, church1),
		lam(app(lam(v(0)), v(5))),
	}
	for i := 0; i < n; i++ {
		out = append(out, genTerm(r, 2+r.Intn(20), 0, r.Intn(3)))
	}
	return out
}
