package parse

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vilterp/lambdakernel/pkg/lang"
	"github.com/vilterp/lambdakernel/pkg/util"
)

func v(i int) lang.Term               { return lang.MustVar(i) }
func lam(body lang.Term) lang.Term    { return lang.NewLambda(body) }
func app(fn, arg lang.Term) lang.Term { return lang.NewApp(fn, arg) }

func TestParse(t *testing.T) {
	omegaHalf := lam(app(v(0), v(0)))

	cases := []struct {
		src    string
		free   []string
		output lang.Term
		error  string
	}{
		{src: `\x. x`, output: lam(v(0))},
		{src: `λx. x`, output: lam(v(0))},
		{src: `\x y. x`, output: lam(lam(v(1)))},
		{src: `\x. \y. y x`, output: lam(lam(app(v(0), v(1))))},
		{src: `\x x. x`, output: lam(lam(v(0)))},
		{src: `(\x. x x) (\x. x x)`, output: app(omegaHalf, omegaHalf)},
		{src: `f x y`, free: []string{"f", "x", "y"}, output: app(app(v(0), v(1)), v(2))},
		{src: `f (x y)`, free: []string{"f", "x", "y"}, output: app(v(0), app(v(1), v(2)))},
		{src: `\x. f x`, free: []string{"f"}, output: lam(app(v(1), v(0)))},
		{src: `f \x. x f`, free: []string{"f"}, output: app(v(0), lam(app(v(0), v(1))))},
		{src: `\x. #5`, output: lam(v(5))},
		{src: `#0 #1`, output: app(v(0), v(1))},
		{src: `\s z. s (s z)`, output: lam(lam(app(v(1), app(v(1), v(0)))))},
		{src: `\x. y`, error: "unbound name: y"},
		{src: `(\y. y) y`, error: "unbound name: y"},
	}

	for idx, testCase := range cases {
		out, err := Parse(testCase.src, testCase.free...)
		if util.AssertError(t, idx, testCase.error, err) {
			continue
		}
		if !lang.Equal(out, testCase.output) {
			t.Fatalf("case %d: expected %s; got %s", idx, testCase.output, out)
		}
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	for idx, src := range []string{``, `\. x`, `\x x`, `(x`, `x)`, `#`, `# x`} {
		_, err := Parse(src, "x")
		require.Error(t, err, "case %d: %q", idx, src)
	}
}

func TestParseOpen(t *testing.T) {
	cases := []struct {
		src    string
		output lang.Term
		names  []string
	}{
		{`f (g f)`, app(v(0), app(v(1), v(0))), []string{"f", "g"}},
		{`\x. f x`, lam(app(v(1), v(0))), []string{"f"}},
		{`\x. x`, lam(v(0)), nil},
		{`\x. g (\y. y f) x`, lam(app(app(v(1), lam(app(v(0), v(3)))), v(0))), []string{"g", "f"}},
	}

	for idx, testCase := range cases {
		out, names, err := ParseOpen(testCase.src)
		require.NoError(t, err, "case %d", idx)
		require.True(t, lang.Equal(testCase.output, out), "case %d: got %s", idx, out)
		require.Equal(t, testCase.names, names, "case %d", idx)
	}

	// Names carry over from one subject to the next.
	a, names, err := ParseOpen(`f x`)
	require.NoError(t, err)
	b, names, err := ParseOpen(`g x f`, names...)
	require.NoError(t, err)
	require.Equal(t, []string{"f", "x", "g"}, names)
	require.True(t, lang.Equal(app(v(0), v(1)), a))
	require.True(t, lang.Equal(app(app(v(2), v(1)), v(0)), b))
}

func TestNamesDoNotMatter(t *testing.T) {
	cases := []struct {
		a, b string
		fuel int
	}{
		{`\a b. a`, `\x y. x`, 0},
		{`\f. f f`, `\g. g g`, 0},
		{`\x. f x`, `\y. f y`, 0},
		// Church 2 against the successor of Church 1.
		{`\s z. s (s z)`, `(\n s z. s (n s z)) (\f x. f x)`, 100},
		{`(\x y. x) f ((\x. x x) (\x. x x))`, `f`, 10},
	}

	for idx, testCase := range cases {
		a, err := Parse(testCase.a, "f")
		require.NoError(t, err, "case %d", idx)
		b, err := Parse(testCase.b, "f")
		require.NoError(t, err, "case %d", idx)

		proof := lang.VerifyEquiv(a, b, testCase.fuel)
		require.Equal(t, lang.KindEquivalent, proof.Verdict().Kind(), "case %d: %s", idx, proof)
	}
}

func TestPrint(t *testing.T) {
	cases := []struct {
		term   lang.Term
		free   []string
		output string
	}{
		{lam(v(0)), nil, `\x0. x0`},
		{lam(lam(app(v(1), v(0)))), nil, `\x0 x1. x0 x1`},
		{app(lam(v(0)), v(3)), nil, `(\x0. x0) #3`},
		{lam(app(v(1), v(0))), []string{"x0"}, `\x0'. x0 x0'`},
		{app(v(0), lam(v(0))), []string{"f"}, `f (\x0. x0)`},
		{app(v(0), app(v(1), v(2))), []string{"f", "g"}, `f (g #2)`},
		{lam(app(lam(v(1)), lam(v(0)))), nil, `\x0. (\x1. x0) (\x1. x1)`},
	}

	for idx, testCase := range cases {
		out := Print(testCase.term, testCase.free...)
		require.Equal(t, testCase.output, out, "case %d", idx)

		back, err := Parse(out, testCase.free...)
		require.NoError(t, err, "case %d", idx)
		require.True(t, lang.Equal(testCase.term, back), "case %d: got %s", idx, back)
	}
}
