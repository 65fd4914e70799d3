package lambdakernel

import (
	"fmt"

	"github.com/vilterp/lambdakernel/pkg/lang"
	"github.com/vilterp/lambdakernel/pkg/parse"
)

type Op string

const (
	OpNormalize Op = "normalize"
	OpVerify    Op = "verify"
	OpAlpha     Op = "alpha"
	OpCheck     Op = "check"
	OpBatch     Op = "batch"
	OpGetProof  Op = "get_proof"
)

var allOps = []Op{OpNormalize, OpVerify, OpAlpha, OpCheck, OpBatch, OpGetProof}

// Request is one message from a client. Which fields are used depends on Op:
//
//	normalize: Term, Fuel, Full
//	verify:    A, B, Fuel
//	alpha:     A, B
//	check:     Term, Fuel
//	batch:     Batch
//	get_proof: ProofID
type Request struct {
	ID   int  `json:"id"`
	Op   Op   `json:"op"`
	Fuel *int `json:"fuel,omitempty"`
	// Full asks normalize for the full normal form instead of stopping at
	// weak head normal form.
	Full bool `json:"full,omitempty"`

	Term *WireTerm `json:"term,omitempty"`
	A    *WireTerm `json:"a,omitempty"`
	B    *WireTerm `json:"b,omitempty"`

	ProofID string     `json:"proof_id,omitempty"`
	Batch   []*Request `json:"batch,omitempty"`
}

// WireTerm is a term in surface syntax or in the binary encoding. Names not
// bound in the source are free and get outer-scope slots in order of first
// appearance, shared between all terms of one request. If Free is set, its
// names are added to the request's names first, and any other unbound name
// is an error.
type WireTerm struct {
	Src     string   `json:"src,omitempty"`
	Free    []string `json:"free,omitempty"`
	Encoded []byte   `json:"encoded,omitempty"`
}

func Src(src string) *WireTerm {
	return &WireTerm{Src: src}
}

// Response answers the request with the same ID. Exactly one of Error or
// the field for the request's op is set.
type Response struct {
	ID    int    `json:"id"`
	Error string `json:"error,omitempty"`

	Normalize *NormalizeResult `json:"normalize,omitempty"`
	Verify    *ProofResult     `json:"verify,omitempty"`
	Alpha     *AlphaResult     `json:"alpha,omitempty"`
	Check     *CheckResult     `json:"check,omitempty"`
	Batch     []*Response      `json:"batch,omitempty"`
	Proof     *ProofResult     `json:"proof,omitempty"`
}

type NormalizeResult struct {
	Term      string `json:"term"`
	Encoded   []byte `json:"encoded"`
	Steps     int    `json:"steps"`
	OutOfFuel bool   `json:"out_of_fuel,omitempty"`
}

type ProofResult struct {
	ProofID  string       `json:"proof_id"`
	Hash     string       `json:"hash"`
	Verdict  string       `json:"verdict"`
	Witness  *WireWitness `json:"witness,omitempty"`
	Steps    int          `json:"steps"`
	Fuel     int          `json:"fuel"`
	Replayed bool         `json:"replayed,omitempty"`
	Text     string       `json:"text"`
}

type WireWitness struct {
	Path  string `json:"path"`
	Left  string `json:"left"`
	Right string `json:"right"`
}

type AlphaResult struct {
	Equivalent bool `json:"equivalent"`
}

type CheckStatus string

const (
	StatusConsistent   CheckStatus = "consistent"
	StatusInconsistent CheckStatus = "inconsistent"
	StatusUnknown      CheckStatus = "unknown"
)

type CheckResult struct {
	Status  CheckStatus  `json:"status"`
	WHNF    string       `json:"whnf,omitempty"`
	Steps   int          `json:"steps"`
	ProofID string       `json:"proof_id,omitempty"`
	Witness *WireWitness `json:"witness,omitempty"`
}

// names is the free-name context of one request.
type names struct {
	free []string
}

func (n *names) resolve(w *WireTerm) (lang.Term, error) {
	if w == nil {
		return nil, &validationError{error: fmt.Errorf("missing term")}
	}
	if w.Encoded != nil {
		t, err := lang.DecodeTerm(w.Encoded)
		if err != nil {
			return nil, &parseError{error: err}
		}
		return t, nil
	}
	if w.Free != nil {
		merged := n.declare(w.Free)
		t, err := parse.Parse(w.Src, merged...)
		if err != nil {
			return nil, &parseError{error: err}
		}
		n.free = merged
		return t, nil
	}
	t, free, err := parse.ParseOpen(w.Src, n.free...)
	if err != nil {
		return nil, &parseError{error: err}
	}
	n.free = free
	return t, nil
}

// declare returns the request's names extended with those of free it does
// not have yet. n itself is unchanged.
func (n *names) declare(free []string) []string {
	merged := append([]string{}, n.free...)
	for _, name := range free {
		known := false
		for _, have := range merged {
			if have == name {
				known = true
				break
			}
		}
		if !known {
			merged = append(merged, name)
		}
	}
	return merged
}

func (n *names) print(t lang.Term) string {
	return parse.Print(t, n.free...)
}

func (n *names) witness(w lang.Witness) *WireWitness {
	return &WireWitness{
		Path:  w.Path.String(),
		Left:  n.print(w.Left),
		Right: n.print(w.Right),
	}
}

func (n *names) proofResult(v *Verification) *ProofResult {
	p := v.Proof
	res := &ProofResult{
		ProofID:  v.ID.String(),
		Hash:     p.GetHash().String(),
		Verdict:  p.Verdict().Kind().String(),
		Steps:    len(p.Trace()),
		Fuel:     p.Fuel(),
		Replayed: v.Replayed,
		Text:     p.String(),
	}
	switch tVerdict := p.Verdict().(type) {
	case *lang.NotEquivalent:
		res.Witness = n.witness(tVerdict.Witness)
	case *lang.Inconsistent:
		res.Witness = n.witness(tVerdict.Witness)
	}
	return res
}
