package lang

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckInconsistency(t *testing.T) {
	res := CheckInconsistency(app(app(konst, v(7)), omega), 10)
	consistent, ok := res.(*Consistent)
	require.True(t, ok, "expected consistent; got %T", res)
	require.True(t, Equal(v(7), consistent.WHNF))
	require.Equal(t, 2, consistent.Steps)

	res = CheckInconsistency(omega, 10)
	unknown, ok := res.(*ConsistencyUnknown)
	require.True(t, ok, "expected unknown; got %T", res)
	require.Equal(t, 10, unknown.Steps)

	res = CheckInconsistency(church2, 0)
	consistent, ok = res.(*Consistent)
	require.True(t, ok, "expected consistent; got %T", res)
	require.True(t, consistent.WHNF == church2)
	require.Equal(t, 0, consistent.Steps)
}

func TestNoCertificateForSampleTerms(t *testing.T) {
	for idx, term := range sampleTerms(500) {
		if cert, ok := CheckInconsistency(term, 50).(*InconsistencyCertificate); ok {
			t.Fatalf("case %d: unexpected certificate for %s:\n%s", idx, term, cert.Proof)
		}
	}
}

func TestMachineAgreesWithSubstitution(t *testing.T) {
	terms := append(sampleTerms(300),
		app(succ, church1),
		app(app(app(succ, church1), v(4)), v(9)),
		app(app(konst, lam(v(3))), omega),
	)
	for idx, term := range terms {
		viaSubst := Normalize(term, 40)
		viaMachine := runMachine(term, 40)
		require.Equal(t, viaSubst.StepsTaken(), viaMachine.StepsTaken(), "case %d: %s", idx, term)

		a, ok := viaSubst.(*NormalForm)
		if !ok {
			require.IsType(t, &OutOfFuel{}, viaMachine, "case %d", idx)
			continue
		}
		b, ok := viaMachine.(*NormalForm)
		require.True(t, ok, "case %d: machine ran out of fuel on %s", idx, term)
		require.True(t, AlphaEquiv(a.Term, b.Term), "case %d: %s vs %s", idx, a.Term, b.Term)
	}
}

func TestJudge(t *testing.T) {
	cases := []struct {
		viaSubst   Outcome
		viaMachine Outcome
		left       Term
		right      Term
	}{
		// Different results.
		{&NormalForm{Term: v(0), Steps: 1}, &NormalForm{Term: v(1), Steps: 1}, v(0), v(1)},
		// Same result, different step counts.
		{&NormalForm{Term: v(0), Steps: 1}, &NormalForm{Term: v(0), Steps: 2}, v(0), v(0)},
		// Only one side settles.
		{&NormalForm{Term: v(0), Steps: 1}, &OutOfFuel{Last: omega, Steps: 5}, v(0), omega},
		{&OutOfFuel{Last: omega, Steps: 5}, &NormalForm{Term: v(0), Steps: 1}, omega, v(0)},
		// Both agree on a result that escapes the subject's scope.
		{&NormalForm{Term: v(3), Steps: 1}, &NormalForm{Term: v(3), Steps: 1}, v(3), app(lam(v(0)), lam(v(0)))},
	}

	subject := app(lam(v(0)), lam(v(0)))
	for idx, testCase := range cases {
		res := judge(subject, 5, testCase.viaSubst, testCase.viaMachine, nil)
		cert, ok := res.(*InconsistencyCertificate)
		require.True(t, ok, "case %d: expected certificate; got %T", idx, res)

		proof := cert.Proof
		require.True(t, proof.A() == subject && proof.B() == subject, "case %d", idx)
		require.Equal(t, 5, proof.Fuel(), "case %d", idx)
		verdict, ok := proof.Verdict().(*Inconsistent)
		require.True(t, ok, "case %d: expected inconsistent; got %s", idx, proof.Verdict().Format())
		require.True(t, Equal(testCase.left, verdict.Witness.Left), "case %d", idx)
		require.True(t, Equal(testCase.right, verdict.Witness.Right), "case %d", idx)
	}

	res := judge(subject, 5, &OutOfFuel{Last: omega, Steps: 5}, &OutOfFuel{Last: subject, Steps: 5}, nil)
	require.IsType(t, &ConsistencyUnknown{}, res)
}
