package lang

// equivEnv pairs the binders of two terms being compared. It lives for one
// AlphaEquiv call.
type equivEnv struct {
	// levels[i] holds the levels (counted from the comparison root) of the
	// i-th pair of binders entered together.
	levels []binderPair
}

type binderPair struct {
	left  int
	right int
}

// extend enters one binder on each side and returns the depth of the bodies.
func (env *equivEnv) extend(leftDepth int, rightDepth int) int {
	env.levels = append(env.levels, binderPair{left: leftDepth, right: rightDepth})
	return len(env.levels)
}

// bound resolves a variable seen under depth paired binders to the binder
// pair it refers to, or reports that it is free at the comparison root.
func (env *equivEnv) bound(index int, depth int) (binderPair, bool) {
	if index >= depth {
		return binderPair{}, false
	}
	return env.levels[depth-1-index], true
}

// AlphaEquiv reports whether a and b are equal up to renaming of bound
// variables. It compares shapes only and never reduces, so it always
// terminates.
func AlphaEquiv(a Term, b Term) bool {
	type task struct {
		a, b  Term
		depth int
	}

	env := &equivEnv{}
	stack := []task{{a: a, b: b}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		// Binders deeper than this task were entered by a sibling subtree.
		env.levels = env.levels[:top.depth]

		switch ta := top.a.(type) {
		case *EVar:
			tb, ok := top.b.(*EVar)
			if !ok {
				return false
			}
			left, leftBound := env.bound(ta.index, top.depth)
			right, rightBound := env.bound(tb.index, top.depth)
			if leftBound != rightBound {
				return false
			}
			if leftBound {
				if left != right {
					return false
				}
				continue
			}
			if ta.index-top.depth != tb.index-top.depth {
				return false
			}

		case *ELambda:
			tb, ok := top.b.(*ELambda)
			if !ok {
				return false
			}
			depth := env.extend(top.depth, top.depth)
			stack = append(stack, task{a: ta.body, b: tb.body, depth: depth})

		case *EApp:
			tb, ok := top.b.(*EApp)
			if !ok {
				return false
			}
			stack = append(stack,
				task{a: ta.arg, b: tb.arg, depth: top.depth},
				task{a: ta.fn, b: tb.fn, depth: top.depth},
			)

		default:
			return false
		}
	}
	return true
}
