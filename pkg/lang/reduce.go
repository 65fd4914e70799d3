package lang

// Reduction follows call-by-name: the only evaluation context is
//
//	E ::= [] | (E argument)
//
// so a step never happens under a binder or inside an argument, and an
// argument is substituted unevaluated.

// Outcome is the result of a fuel-bounded normalization: *NormalForm or
// *OutOfFuel. Running out of fuel is not an error; more fuel may or may not
// reach a normal form.
type Outcome interface {
	StepsTaken() int

	isOutcome()
}

// NormalForm is a term no step of the driving strategy applies to.
type NormalForm struct {
	Term  Term
	Steps int
}

var _ Outcome = &NormalForm{}

func (n *NormalForm) StepsTaken() int { return n.Steps }
func (*NormalForm) isOutcome()        {}

// OutOfFuel carries the term reached when the budget was spent.
type OutOfFuel struct {
	Last  Term
	Steps int
}

var _ Outcome = &OutOfFuel{}

func (o *OutOfFuel) StepsTaken() int { return o.Steps }
func (*OutOfFuel) isOutcome()        {}

// unwind splits t = h a1 ... an into its head h and arguments a1..an.
func unwind(t Term) (Term, []Term) {
	var args []Term
	for {
		app, ok := t.(*EApp)
		if !ok {
			break
		}
		args = append(args, app.arg)
		t = app.fn
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return t, args
}

// IsWHNF reports whether t is in weak head normal form: an abstraction, or
// an application spine whose head is not an abstraction.
func IsWHNF(t Term) bool {
	head, args := unwind(t)
	_, isLambda := head.(*ELambda)
	return !isLambda || len(args) == 0
}

// StepWHNF performs the single call-by-name step E[(λ.M) N] → E[M[0:=N]], if
// t has that shape.
func StepWHNF(t Term) (Term, bool) {
	head, args := unwind(t)
	lam, ok := head.(*ELambda)
	if !ok || len(args) == 0 {
		return t, false
	}
	return Apply(Substitute(lam.body, 0, args[0]), args[1:]...), true
}

// Normalize applies StepWHNF until t reaches weak head normal form or fuel
// steps have been taken. It never descends into an abstraction body.
func Normalize(t Term, fuel int) Outcome {
	return whnf(t, fuel, nil)
}

// whnf is the normalization driver. The spine's arguments are kept on a
// stack between steps (first argument on top) instead of being re-unwound.
// onStep, if set, sees each contracted redex and its contractum.
func whnf(t Term, fuel int, onStep func(redex Term, contractum Term)) Outcome {
	steps := 0
	head, args := unwind(t)
	stack := make([]Term, len(args))
	for i, arg := range args {
		stack[len(args)-1-i] = arg
	}
	rewind := func() Term {
		if steps == 0 {
			return t
		}
		out := head
		for i := len(stack) - 1; i >= 0; i-- {
			out = NewApp(out, stack[i])
		}
		return out
	}

	for {
		lam, ok := head.(*ELambda)
		if !ok || len(stack) == 0 {
			return &NormalForm{Term: rewind(), Steps: steps}
		}
		if steps >= fuel {
			return &OutOfFuel{Last: rewind(), Steps: steps}
		}

		arg := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		contractum := Substitute(lam.body, 0, arg)
		if onStep != nil {
			onStep(NewApp(lam, arg), contractum)
		}
		steps++

		var more []Term
		head, more = unwind(contractum)
		for i := len(more) - 1; i >= 0; i-- {
			stack = append(stack, more[i])
		}
	}
}

// ReduceOnce performs one step of full normal order: the weak head step if
// there is one, otherwise the leftmost-outermost redex found under binders
// or in the arguments of a variable-headed spine.
func ReduceOnce(t Term) (Term, bool) {
	type hole struct {
		underLambda bool
		head        Term
		args        []Term
		at          int
	}

	var holes []hole
	cur := t
	var result Term
	for {
		if reduct, ok := StepWHNF(cur); ok {
			result = reduct
			break
		}
		if lam, ok := cur.(*ELambda); ok {
			holes = append(holes, hole{underLambda: true})
			cur = lam.body
			continue
		}
		head, args := unwind(cur)
		at := -1
		for i, arg := range args {
			if hasRedex(arg) {
				at = i
				break
			}
		}
		if at < 0 {
			return t, false
		}
		holes = append(holes, hole{head: head, args: args, at: at})
		cur = args[at]
	}

	for i := len(holes) - 1; i >= 0; i-- {
		h := holes[i]
		if h.underLambda {
			result = NewLambda(result)
			continue
		}
		args := make([]Term, len(h.args))
		copy(args, h.args)
		args[h.at] = result
		result = Apply(h.head, args...)
	}
	return result, true
}

// NormalizeFull applies ReduceOnce until no redex is left anywhere in t or
// fuel steps have been taken.
func NormalizeFull(t Term, fuel int) Outcome {
	steps := 0
	for {
		next, ok := ReduceOnce(t)
		if !ok {
			return &NormalForm{Term: t, Steps: steps}
		}
		if steps >= fuel {
			return &OutOfFuel{Last: t, Steps: steps}
		}
		t = next
		steps++
	}
}

func hasRedex(t Term) bool {
	stack := []Term{t}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch tt := top.(type) {
		case *ELambda:
			stack = append(stack, tt.body)
		case *EApp:
			if _, ok := tt.fn.(*ELambda); ok {
				return true
			}
			stack = append(stack, tt.arg, tt.fn)
		}
	}
	return false
}
