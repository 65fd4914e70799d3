package lang

import "fmt"

// Consistency is the result of CheckInconsistency: *Consistent,
// *InconsistencyCertificate or *ConsistencyUnknown.
type Consistency interface {
	isConsistency()
}

// Consistent means both reduction paths agreed on the weak head normal form.
type Consistent struct {
	WHNF  Term
	Steps int
}

// InconsistencyCertificate wraps a proof whose verdict is *Inconsistent.
type InconsistencyCertificate struct {
	Proof *Proof
}

// ConsistencyUnknown means fuel ran out on both paths before either settled.
type ConsistencyUnknown struct {
	Steps int
}

func (*Consistent) isConsistency()               {}
func (*InconsistencyCertificate) isConsistency() {}
func (*ConsistencyUnknown) isConsistency()       {}

// CheckInconsistency reduces t to weak head normal form along two
// independent paths, the substitution-based spine reducer and an
// environment machine, and certifies any disagreement between them: a
// different result, a different step count, or a result that refers to
// more free slots than t itself. Each path gets the full fuel budget.
func CheckInconsistency(t Term, fuel int) Consistency {
	if fuel < 0 {
		fuel = 0
	}

	var trace []Step
	viaSubst := whnf(t, fuel, func(redex Term, contractum Term) {
		trace = append(trace, Step{Side: SideA, Redex: redex, Contractum: contractum})
	})
	return judge(t, fuel, viaSubst, runMachine(t, fuel), trace)
}

// judge compares the outcomes of the two reduction paths for t.
func judge(t Term, fuel int, viaSubst Outcome, viaMachine Outcome, trace []Step) Consistency {
	certify := func(left Term, right Term) Consistency {
		witness := Witness{Left: left, Right: right}
		return &InconsistencyCertificate{
			Proof: newProof(t, t, &Inconsistent{Witness: witness}, trace, fuel),
		}
	}

	switch a := viaSubst.(type) {
	case *NormalForm:
		switch b := viaMachine.(type) {
		case *NormalForm:
			if a.Steps != b.Steps || !AlphaEquiv(a.Term, b.Term) {
				return certify(a.Term, b.Term)
			}
		case *OutOfFuel:
			return certify(a.Term, b.Last)
		}
		if err := CheckWellFormed(a.Term, FreeVars(t)); err != nil {
			return certify(a.Term, t)
		}
		return &Consistent{WHNF: a.Term, Steps: a.Steps}

	case *OutOfFuel:
		if b, ok := viaMachine.(*NormalForm); ok {
			return certify(a.Last, b.Term)
		}
		return &ConsistencyUnknown{Steps: a.Steps}
	}
	panic(fmt.Sprintf("unknown outcome %T", viaSubst))
}

// Krivine machine

// closure is a term paired with the closures its free indices refer to.
type closure struct {
	term Term
	env  *envNode
}

// envNode is a persistent list of closures; index 0 is the head.
type envNode struct {
	value *closure
	next  *envNode
	size  int
}

func (e *envNode) len() int {
	if e == nil {
		return 0
	}
	return e.size
}

func (e *envNode) push(c *closure) *envNode {
	return &envNode{value: c, next: e, size: e.len() + 1}
}

func (e *envNode) at(i int) *closure {
	for ; i > 0; i-- {
		e = e.next
	}
	return e.value
}

// runMachine evaluates t to weak head normal form by call-by-name
// environment machine: no substitution happens during evaluation, and the
// result is read back into a term at the end. Each consumed argument counts
// as one step.
func runMachine(t Term, fuel int) Outcome {
	cur := &closure{term: t}
	var stack []*closure
	steps := 0
	rb := &readback{memo: map[*closure]Term{}}

	result := func() Term {
		out := rb.closure(cur)
		for i := len(stack) - 1; i >= 0; i-- {
			out = NewApp(out, rb.closure(stack[i]))
		}
		return out
	}

	for {
		switch tt := cur.term.(type) {
		case *EVar:
			if tt.index < cur.env.len() {
				cur = cur.env.at(tt.index)
				continue
			}
			return &NormalForm{Term: result(), Steps: steps}

		case *EApp:
			stack = append(stack, &closure{term: tt.arg, env: cur.env})
			cur = &closure{term: tt.fn, env: cur.env}

		case *ELambda:
			if len(stack) == 0 {
				return &NormalForm{Term: result(), Steps: steps}
			}
			if steps >= fuel {
				return &OutOfFuel{Last: result(), Steps: steps}
			}
			arg := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			cur = &closure{term: tt.body, env: cur.env.push(arg)}
			steps++
		}
	}
}

type readback struct {
	memo map[*closure]Term
}

// closure instantiates c's environment into its term, producing a term at
// the root scope.
func (rb *readback) closure(c *closure) Term {
	if out, ok := rb.memo[c]; ok {
		return out
	}
	envLen := c.env.len()
	if envLen == 0 {
		rb.memo[c] = c.term
		return c.term
	}
	out := rebuild(c.term, func(v *EVar, depth int) Term {
		if v.index < depth {
			return v
		}
		slot := v.index - depth
		if slot < envLen {
			return Shift(depth, 0, rb.closure(c.env.at(slot)))
		}
		return &EVar{index: v.index - envLen}
	})
	rb.memo[c] = out
	return out
}
