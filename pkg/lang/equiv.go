package lang

// VerifyEquiv decides whether a and b are beta-equivalent, spending at most
// fuel reduction steps in total across both sides.
//
// Alpha-equivalent subjects are Equivalent without any reduction. Otherwise
// aligned positions are driven to weak head normal form and compared head by
// head, recursing into abstraction bodies and spine arguments. A head
// mismatch between two weak head normal forms cannot be repaired by further
// reduction, so it is reported as NotEquivalent with both forms as the
// witness. Running out of fuel gives Inconclusive.
func VerifyEquiv(a Term, b Term, fuel int) *Proof {
	if fuel < 0 {
		fuel = 0
	}
	if AlphaEquiv(a, b) {
		return newProof(a, b, &Equivalent{}, nil, fuel)
	}

	c := &checker{fuel: fuel}
	verdict := c.run(a, b)
	return newProof(a, b, verdict, c.trace, fuel)
}

type checker struct {
	fuel  int
	spent int
	trace []Step
}

type obligation struct {
	path Path
	a    Term
	b    Term
}

func (c *checker) run(a Term, b Term) Verdict {
	work := []obligation{{a: a, b: b}}
	for len(work) > 0 {
		ob := work[len(work)-1]
		work = work[:len(work)-1]

		if AlphaEquiv(ob.a, ob.b) {
			continue
		}

		left, ok := c.settle(SideA, ob.path, ob.a)
		if !ok {
			return &Inconclusive{Steps: c.spent}
		}
		right, ok := c.settle(SideB, ob.path, ob.b)
		if !ok {
			return &Inconclusive{Steps: c.spent}
		}

		next, matched := compareHeads(ob.path, left, right)
		if !matched {
			return &NotEquivalent{Witness: Witness{Path: ob.path, Left: left, Right: right}}
		}
		// Reverse so the leftmost sub-obligation is handled first.
		for i := len(next) - 1; i >= 0; i-- {
			work = append(work, next[i])
		}
	}
	return &Equivalent{}
}

// settle drives t to weak head normal form with whatever fuel is left,
// recording every step.
func (c *checker) settle(side Side, path Path, t Term) (Term, bool) {
	out := whnf(t, c.fuel-c.spent, func(redex Term, contractum Term) {
		c.trace = append(c.trace, Step{
			Side:       side,
			Path:       path,
			Redex:      redex,
			Contractum: contractum,
		})
	})
	c.spent += out.StepsTaken()
	switch tOut := out.(type) {
	case *NormalForm:
		return tOut.Term, true
	default:
		return nil, false
	}
}

// compareHeads matches two weak head normal forms. On a match it returns the
// sub-positions still to be compared, leftmost first.
func compareHeads(path Path, left Term, right Term) ([]obligation, bool) {
	if la, ok := left.(*ELambda); ok {
		ra, ok := right.(*ELambda)
		if !ok {
			return nil, false
		}
		return []obligation{{path: path.extend(DirBody), a: la.body, b: ra.body}}, true
	}
	if _, ok := right.(*ELambda); ok {
		return nil, false
	}

	leftHead, leftArgs := unwind(left)
	rightHead, rightArgs := unwind(right)
	lv, lok := leftHead.(*EVar)
	rv, rok := rightHead.(*EVar)
	if !lok || !rok || lv.index != rv.index || len(leftArgs) != len(rightArgs) {
		return nil, false
	}
	next := make([]obligation, len(leftArgs))
	for i := range leftArgs {
		next[i] = obligation{
			path: path.spineArg(i, len(leftArgs)),
			a:    leftArgs[i],
			b:    rightArgs[i],
		}
	}
	return next, true
}
