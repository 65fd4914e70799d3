package lang

import (
	pp "github.com/vilterp/lambdakernel/pkg/prettyprint"
)

// Term is a de Bruijn indexed lambda term. Terms are immutable once built,
// so subterms may be shared freely between parents.
type Term interface {
	Format() pp.Doc
	String() string

	isTerm()
}

// Var

// EVar is a variable occurrence. Index 0 refers to the nearest enclosing
// binder; indices at or beyond the number of enclosing binders are free
// references counted from the outermost scope of the whole term.
type EVar struct {
	index int
}

var _ Term = &EVar{}

// NewVar returns a variable with the given index, rejecting negative ones.
func NewVar(index int) (*EVar, error) {
	if index < 0 {
		return nil, &WellFormednessError{
			Index:  index,
			Reason: "negative index",
		}
	}
	return &EVar{index: index}, nil
}

// MustVar is like NewVar but panics on a negative index.
func MustVar(index int) *EVar {
	v, err := NewVar(index)
	if err != nil {
		panic(err)
	}
	return v
}

func (e *EVar) Index() int {
	return e.index
}

func (e *EVar) Format() pp.Doc {
	return pp.Textf("%d", e.index)
}

func (e *EVar) String() string {
	return e.Format().String()
}

func (*EVar) isTerm() {}

// Lambda

// ELambda introduces exactly one binder scoping its body.
type ELambda struct {
	body Term
}

var _ Term = &ELambda{}

func NewLambda(body Term) *ELambda {
	return &ELambda{body: body}
}

func (e *ELambda) Body() Term {
	return e.body
}

func (e *ELambda) Format() pp.Doc {
	return pp.Seq([]pp.Doc{
		pp.Text("λ. "),
		e.body.Format(),
	})
}

func (e *ELambda) String() string {
	return e.Format().String()
}

func (*ELambda) isTerm() {}

// App

type EApp struct {
	fn  Term
	arg Term
}

var _ Term = &EApp{}

func NewApp(fn Term, arg Term) *EApp {
	return &EApp{
		fn:  fn,
		arg: arg,
	}
}

// Apply builds a left-nested application of fn to each of args in turn.
func Apply(fn Term, args ...Term) Term {
	out := fn
	for _, arg := range args {
		out = NewApp(out, arg)
	}
	return out
}

func (e *EApp) Func() Term {
	return e.fn
}

func (e *EApp) Arg() Term {
	return e.arg
}

func (e *EApp) Format() pp.Doc {
	var fnDoc pp.Doc
	switch e.fn.(type) {
	case *ELambda:
		fnDoc = pp.Parens(e.fn.Format())
	default:
		fnDoc = e.fn.Format()
	}

	var argDoc pp.Doc
	switch e.arg.(type) {
	case *EVar:
		argDoc = e.arg.Format()
	default:
		argDoc = pp.Parens(e.arg.Format())
	}

	return pp.Seq([]pp.Doc{fnDoc, pp.Text(" "), argDoc})
}

func (e *EApp) String() string {
	return e.Format().String()
}

func (*EApp) isTerm() {}

// Equal reports whether a and b are the exact same tree. Sharing is not
// observable; this is not alpha-equivalence (which for indexed terms
// coincides with it, but is computed by AlphaEquiv through a binder
// environment).
func Equal(a Term, b Term) bool {
	type pair struct{ a, b Term }
	stack := []pair{{a, b}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if top.a == top.b {
			continue
		}
		switch ta := top.a.(type) {
		case *EVar:
			tb, ok := top.b.(*EVar)
			if !ok || ta.index != tb.index {
				return false
			}
		case *ELambda:
			tb, ok := top.b.(*ELambda)
			if !ok {
				return false
			}
			stack = append(stack, pair{ta.body, tb.body})
		case *EApp:
			tb, ok := top.b.(*EApp)
			if !ok {
				return false
			}
			stack = append(stack, pair{ta.arg, tb.arg}, pair{ta.fn, tb.fn})
		default:
			return false
		}
	}
	return true
}

// Open disables the free-reference bound in CheckWellFormed.
const Open = -1

// CheckWellFormed walks t tracking binder depth. Negative indices and nil
// subterms are always rejected. If numFree is not Open, every variable must
// also refer either to an enclosing binder or to one of numFree outer-scope
// slots; numFree == 0 asks for a closed term.
func CheckWellFormed(t Term, numFree int) error {
	type frame struct {
		term  Term
		depth int
	}
	stack := []frame{{t, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch tt := f.term.(type) {
		case *EVar:
			if tt == nil {
				return &WellFormednessError{Depth: f.depth, Reason: "nil subterm"}
			}
			if tt.index < 0 {
				return &WellFormednessError{Index: tt.index, Depth: f.depth, Reason: "negative index"}
			}
			if numFree != Open && tt.index >= f.depth+numFree {
				return &WellFormednessError{
					Index:  tt.index,
					Depth:  f.depth,
					Reason: "unbound reference",
				}
			}
		case *ELambda:
			if tt == nil {
				return &WellFormednessError{Depth: f.depth, Reason: "nil subterm"}
			}
			stack = append(stack, frame{tt.body, f.depth + 1})
		case *EApp:
			if tt == nil {
				return &WellFormednessError{Depth: f.depth, Reason: "nil subterm"}
			}
			stack = append(stack, frame{tt.arg, f.depth}, frame{tt.fn, f.depth})
		default:
			return &WellFormednessError{Depth: f.depth, Reason: "nil subterm"}
		}
	}
	return nil
}

// FreeVars returns the number of outer-scope slots t refers to, i.e. one
// more than its largest free index (0 for a closed term).
func FreeVars(t Term) int {
	slots := 0
	walkVars(t, func(v *EVar, depth int) {
		if free := v.index - depth + 1; free > slots {
			slots = free
		}
	})
	return slots
}

// Size returns the number of nodes in t.
func Size(t Term) int {
	count := 0
	stack := []Term{t}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		switch tt := top.(type) {
		case *ELambda:
			stack = append(stack, tt.body)
		case *EApp:
			stack = append(stack, tt.arg, tt.fn)
		}
	}
	return count
}

// walkVars calls visit for every variable in t, along with the number of
// binders enclosing it.
func walkVars(t Term, visit func(v *EVar, depth int)) {
	type frame struct {
		term  Term
		depth int
	}
	stack := []frame{{t, 0}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch tt := f.term.(type) {
		case *EVar:
			visit(tt, f.depth)
		case *ELambda:
			stack = append(stack, frame{tt.body, f.depth + 1})
		case *EApp:
			stack = append(stack, frame{tt.arg, f.depth}, frame{tt.fn, f.depth})
		}
	}
}
