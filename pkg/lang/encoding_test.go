package lang

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vilterp/lambdakernel/pkg/util"
)

func TestEncodeTerm(t *testing.T) {
	cases := []struct {
		term   Term
		output []byte
	}{
		{
			v(0),
			[]byte{'v', 0, 0, 0, 0},
		},
		{
			lam(v(0)),
			[]byte{'l', 'v', 0, 0, 0, 0},
		},
		{
			app(v(1), v(2)),
			[]byte{'a', 'v', 0, 0, 0, 1, 'v', 0, 0, 0, 2},
		},
		{
			v(258),
			[]byte{'v', 0, 0, 1, 2},
		},
		{
			app(lam(v(0)), app(v(0), lam(v(1)))),
			[]byte{'a', 'l', 'v', 0, 0, 0, 0, 'a', 'v', 0, 0, 0, 0, 'l', 'v', 0, 0, 0, 1},
		},
	}

	for idx, testCase := range cases {
		out, err := EncodeTerm(testCase.term)
		if err != nil {
			t.Fatalf("case %d: err: %s", idx, err)
		}

		// Test that we produce the right output.
		if !reflect.DeepEqual(out, testCase.output) {
			t.Fatalf(`case %d: expected %v; got %v`, idx, testCase.output, out)
		}

		// Test that it round trips.
		decoded, err := DecodeTerm(out)
		if err != nil {
			t.Fatalf("case %d: error while decoding: %v", idx, err)
		}
		if !Equal(decoded, testCase.term) {
			t.Fatalf(
				"case %d: didn't round trip: started with %s; decoded to %s",
				idx, testCase.term, decoded,
			)
		}
	}
}

func TestEncodeTermRejectsIllFormed(t *testing.T) {
	_, err := EncodeTerm(app(v(0), &EVar{index: -2}))
	util.AssertError(t, 0, "ill-formed term: negative index: index -2 at binder depth 0", err)

	_, err = EncodeTerm(lam(nil))
	util.AssertError(t, 1, "ill-formed term: nil subterm at binder depth 1", err)
}

func TestDecodeTermErrors(t *testing.T) {
	cases := []struct {
		input []byte
		error string
	}{
		{nil, "decode error at byte 0: unexpected end of input"},
		{[]byte{'a', 'v', 0}, "decode error at byte 2: unexpected end of input"},
		{[]byte{'v', 0, 0, 0, 0, 9}, "decode error at byte 5: 1 trailing bytes"},
		{[]byte{'z'}, "decode error at byte 1: unknown tag 'z'"},
		{[]byte{'l', 'l'}, "decode error at byte 2: unexpected end of input"},
		{[]byte{'a', 'v', 0, 0, 0, 0}, "decode error at byte 6: unexpected end of input"},
	}

	for idx, testCase := range cases {
		_, err := DecodeTerm(testCase.input)
		util.AssertError(t, idx, testCase.error, err)
	}
}

func TestDecodeLargeIndex(t *testing.T) {
	decoded, err := DecodeTerm([]byte{'l', 'v', 0xff, 0xff, 0xff, 0xff})
	if strconv.IntSize == 32 {
		util.AssertError(t, 0, "decode error at byte 2: integer 4294967295 too large", err)
		return
	}
	require.NoError(t, err)
	body := decoded.(*ELambda).Body().(*EVar)
	require.Equal(t, uint64(math.MaxUint32), uint64(body.Index()))
	require.NoError(t, CheckWellFormed(decoded, Open))
}

func TestDecodeProofRejectsHugeCount(t *testing.T) {
	input := append([]byte{}, proofMagic...)
	input = append(input, proofVersion, 0xff, 0, 0, 0, 0, 0, 0, 0)
	_, err := DecodeProof(input)
	util.AssertError(t, 0, "decode error at byte 5: count 18374686479671623680 too large", err)
}

func TestTermRoundTrip(t *testing.T) {
	for idx, term := range sampleTerms(200) {
		decoded, err := DecodeTerm(MustEncodeTerm(term))
		require.NoError(t, err, "case %d", idx)
		require.True(t, Equal(term, decoded), "case %d: %s", idx, term)
	}
}

func TestDeepTermRoundTrip(t *testing.T) {
	const depth = 100000
	var term Term = v(0)
	for i := 0; i < depth; i++ {
		term = app(lam(term), v(i))
	}
	encoded := MustEncodeTerm(term)
	decoded, err := DecodeTerm(encoded)
	require.NoError(t, err)
	require.True(t, Equal(term, decoded))
	require.Equal(t, HashTerm(term), HashTerm(decoded))
}

func TestProofRoundTrip(t *testing.T) {
	proofs := []*Proof{
		VerifyEquiv(church2, church2, 0),
		VerifyEquiv(app(succ, church1), church2, 100),
		VerifyEquiv(app(succ, church1), church1, 100),
		VerifyEquiv(lam(lam(v(1))), lam(lam(v(0))), 10),
		VerifyEquiv(app(v(0), v(1)), app(app(v(0), v(1)), v(1)), 10),
		VerifyEquiv(omega, lam(v(0)), 7),
		judge(
			lam(v(0)), 5,
			&NormalForm{Term: v(0), Steps: 0},
			&NormalForm{Term: v(1), Steps: 0},
			[]Step{{Side: SideA, Redex: app(lam(v(0)), v(0)), Contractum: v(0)}},
		).(*InconsistencyCertificate).Proof,
		VerifyEquiv(lam(v(0)), lam(lam(v(0))), math.MaxInt),
		newProof(omega, v(0), &Inconclusive{Steps: math.MaxInt}, nil, math.MaxInt),
	}

	for idx, proof := range proofs {
		encoded, err := EncodeProof(proof)
		require.NoError(t, err, "case %d", idx)

		decoded, err := DecodeProof(encoded)
		require.NoError(t, err, "case %d", idx)
		require.Equal(t, proof, decoded, "case %d", idx)
		require.Equal(t, proof.GetHash(), decoded.GetHash(), "case %d", idx)
	}
}

func TestDecodeProofErrors(t *testing.T) {
	valid := MustEncodeProof(VerifyEquiv(lam(lam(v(1))), lam(lam(v(0))), 10))

	wrongVersion := append([]byte{}, valid...)
	wrongVersion[4] = 9

	badVerdict := append([]byte{}, proofMagic...)
	badVerdict = append(badVerdict, proofVersion, 0, 0, 0, 0, 0, 0, 0, 1)
	badVerdict = append(badVerdict, 'v', 0, 0, 0, 0, 'v', 0, 0, 0, 0, 7)

	cases := []struct {
		input []byte
		error string
	}{
		{[]byte("nope"), "decode error at byte 4: not a proof"},
		{wrongVersion, "decode error at byte 5: unsupported proof version 9"},
		{valid[:len(valid)-1], fmt.Sprintf("decode error at byte %d: unexpected end of input", len(valid)-4)},
		{append(append([]byte{}, valid...), 0), fmt.Sprintf("decode error at byte %d: 1 trailing bytes", len(valid))},
		{badVerdict, "decode error at byte 24: unknown verdict 7"},
	}

	for idx, testCase := range cases {
		_, err := DecodeProof(testCase.input)
		util.AssertError(t, idx, testCase.error, err)
	}
}

func TestHashTerm(t *testing.T) {
	shared := app(v(0), v(1))
	withSharing := app(shared, shared)
	withoutSharing := app(app(v(0), v(1)), app(v(0), v(1)))

	require.Equal(t, HashTerm(withSharing), HashTerm(withoutSharing))
	require.NotEqual(t, HashTerm(lam(lam(v(1)))), HashTerm(lam(lam(v(0)))))

	h := HashTerm(church2)
	parsed, err := ParseHash(h.String())
	require.NoError(t, err)
	require.Equal(t, h, parsed)

	_, err = ParseHash("abcd")
	util.AssertError(t, 0, "decode error at byte 2: hash must be 32 bytes", err)
}

func TestProofHashDistinguishesSides(t *testing.T) {
	a := VerifyEquiv(app(succ, church1), church2, 100)
	b := VerifyEquiv(church2, app(succ, church1), 100)
	require.NotEqual(t, a.GetHash(), b.GetHash())
}
