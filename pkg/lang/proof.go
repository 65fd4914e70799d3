package lang

import (
	"fmt"
	"strings"

	pp "github.com/vilterp/lambdakernel/pkg/prettyprint"
)

// VerdictKind names the four verdict variants.
type VerdictKind int

const (
	KindEquivalent VerdictKind = iota
	KindNotEquivalent
	KindInconclusive
	KindInconsistent
)

func (k VerdictKind) String() string {
	switch k {
	case KindEquivalent:
		return "equivalent"
	case KindNotEquivalent:
		return "not_equivalent"
	case KindInconclusive:
		return "inconclusive"
	case KindInconsistent:
		return "inconsistent"
	}
	panic(fmt.Sprintf("unknown verdict kind %d", int(k)))
}

// Verdict is one of *Equivalent, *NotEquivalent, *Inconclusive or
// *Inconsistent. Callers are expected to switch over all four.
type Verdict interface {
	Kind() VerdictKind
	Format() pp.Doc

	isVerdict()
}

// Equivalent: both subjects reach alpha-equivalent normal forms.
type Equivalent struct{}

// NotEquivalent carries a finite counterexample.
type NotEquivalent struct {
	Witness Witness
}

// Inconclusive means fuel ran out before a counterexample or a full match
// was found. It proves nothing either way.
type Inconclusive struct {
	Steps int
}

// Inconsistent means two reduction paths the engine considers valid
// disagreed on the same subject.
type Inconsistent struct {
	Witness Witness
}

var (
	_ Verdict = &Equivalent{}
	_ Verdict = &NotEquivalent{}
	_ Verdict = &Inconclusive{}
	_ Verdict = &Inconsistent{}
)

func (*Equivalent) Kind() VerdictKind    { return KindEquivalent }
func (*NotEquivalent) Kind() VerdictKind { return KindNotEquivalent }
func (*Inconclusive) Kind() VerdictKind  { return KindInconclusive }
func (*Inconsistent) Kind() VerdictKind  { return KindInconsistent }

func (*Equivalent) isVerdict()    {}
func (*NotEquivalent) isVerdict() {}
func (*Inconclusive) isVerdict()  {}
func (*Inconsistent) isVerdict()  {}

func (*Equivalent) Format() pp.Doc {
	return pp.Text("equivalent")
}

func (v *NotEquivalent) Format() pp.Doc {
	return pp.Seq([]pp.Doc{pp.Text("not equivalent "), v.Witness.Format()})
}

func (v *Inconclusive) Format() pp.Doc {
	return pp.Textf("inconclusive after %d steps", v.Steps)
}

func (v *Inconsistent) Format() pp.Doc {
	return pp.Seq([]pp.Doc{pp.Text("inconsistent "), v.Witness.Format()})
}

// Witness is a pair of terms found to differ at Path.
type Witness struct {
	Path  Path
	Left  Term
	Right Term
}

func (w Witness) clone() Witness {
	w.Path = w.Path.clone()
	return w
}

func (w Witness) Format() pp.Doc {
	return pp.Seq([]pp.Doc{
		pp.Textf("at %s: ", w.Path),
		w.Left.Format(),
		pp.Text(" ≠ "),
		w.Right.Format(),
	})
}

// Dir is one move from a term to a subterm.
type Dir byte

const (
	DirBody Dir = 'b' // into an abstraction body
	DirFunc Dir = 'f' // into an application's function
	DirArg  Dir = 'a' // into an application's argument
)

// Path locates a subterm by the moves taken from the root.
type Path []Dir

func (p Path) String() string {
	if len(p) == 0 {
		return "ε"
	}
	var sb strings.Builder
	for _, d := range p {
		sb.WriteByte(byte(d))
	}
	return sb.String()
}

func (p Path) clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

func (p Path) extend(dirs ...Dir) Path {
	out := make(Path, len(p), len(p)+len(dirs))
	copy(out, p)
	return append(out, dirs...)
}

// spineArg returns the path of argument i of a spine with n arguments
// rooted at p.
func (p Path) spineArg(i int, n int) Path {
	dirs := make([]Dir, 0, n-i)
	for k := 0; k < n-1-i; k++ {
		dirs = append(dirs, DirFunc)
	}
	return p.extend(append(dirs, DirArg)...)
}

// Side says which subject a step was taken on.
type Side byte

const (
	SideA Side = 'A'
	SideB Side = 'B'
)

// Step records one contracted redex.
type Step struct {
	Side       Side
	Path       Path
	Redex      Term
	Contractum Term
}

// Proof is the immutable record of one verification request.
type Proof struct {
	a       Term
	b       Term
	verdict Verdict
	trace   []Step
	fuel    int
}

func newProof(a Term, b Term, verdict Verdict, trace []Step, fuel int) *Proof {
	return &Proof{
		a:       a,
		b:       b,
		verdict: verdict,
		trace:   trace,
		fuel:    fuel,
	}
}

func (p *Proof) A() Term { return p.a }
func (p *Proof) B() Term { return p.b }

// Verdict returns a copy of the proof's verdict.
func (p *Proof) Verdict() Verdict {
	switch v := p.verdict.(type) {
	case *Equivalent:
		return &Equivalent{}
	case *NotEquivalent:
		return &NotEquivalent{Witness: v.Witness.clone()}
	case *Inconclusive:
		return &Inconclusive{Steps: v.Steps}
	case *Inconsistent:
		return &Inconsistent{Witness: v.Witness.clone()}
	}
	panic(fmt.Sprintf("unknown verdict %T", p.verdict))
}

// Fuel is the budget the proof was produced under.
func (p *Proof) Fuel() int { return p.fuel }

// Trace returns a copy of the recorded steps.
func (p *Proof) Trace() []Step {
	out := make([]Step, len(p.trace))
	for idx, step := range p.trace {
		step.Path = step.Path.clone()
		out[idx] = step
	}
	return out
}

func (p *Proof) Format() pp.Doc {
	stepDocs := make([]pp.Doc, len(p.trace))
	for idx, step := range p.trace {
		stepDocs[idx] = pp.Seq([]pp.Doc{
			pp.Textf("%c %s: ", step.Side, step.Path),
			step.Redex.Format(),
			pp.Text(" → "),
			step.Contractum.Format(),
		})
	}

	docs := []pp.Doc{
		pp.Text("Proof{"), pp.Newline,
		pp.Nest(2, pp.Seq([]pp.Doc{
			pp.Text("a: "), p.a.Format(), pp.CommaNewline,
			pp.Text("b: "), p.b.Format(), pp.CommaNewline,
			pp.Text("verdict: "), p.verdict.Format(), pp.CommaNewline,
			pp.Textf("fuel: %d", p.fuel),
		})),
	}
	if len(stepDocs) > 0 {
		docs = append(docs,
			pp.CommaNewline,
			pp.Nest(2, pp.Seq([]pp.Doc{
				pp.Text("trace: ["), pp.Newline,
				pp.Nest(2, pp.Join(stepDocs, pp.CommaNewline)),
				pp.Newline, pp.Text("]"),
			})),
		)
	}
	docs = append(docs, pp.Newline, pp.Text("}"))
	return pp.Seq(docs)
}

func (p *Proof) String() string {
	return p.Format().String()
}
