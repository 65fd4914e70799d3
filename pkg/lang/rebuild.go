package lang

// rebuild maps every variable of t through leaf, which also receives the
// number of binders enclosing the variable, and reassembles the tree
// bottom-up. Nodes whose children come back unchanged are reused rather than
// copied. The walk uses an explicit stack, so term depth is bounded only by
// memory.
func rebuild(t Term, leaf func(v *EVar, depth int) Term) Term {
	type frame struct {
		term     Term
		depth    int
		expanded bool
	}

	stack := []frame{{term: t}}
	var out []Term

	pop := func() Term {
		last := out[len(out)-1]
		out = out[:len(out)-1]
		return last
	}

	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch tt := f.term.(type) {
		case *EVar:
			out = append(out, leaf(tt, f.depth))

		case *ELambda:
			if !f.expanded {
				stack = append(stack,
					frame{term: tt, depth: f.depth, expanded: true},
					frame{term: tt.body, depth: f.depth + 1},
				)
				continue
			}
			body := pop()
			if body == tt.body {
				out = append(out, tt)
			} else {
				out = append(out, NewLambda(body))
			}

		case *EApp:
			if !f.expanded {
				// fn is pushed last so it is finished first; its result
				// therefore sits below arg's on the output stack.
				stack = append(stack,
					frame{term: tt, depth: f.depth, expanded: true},
					frame{term: tt.arg, depth: f.depth},
					frame{term: tt.fn, depth: f.depth},
				)
				continue
			}
			arg := pop()
			fn := pop()
			if fn == tt.fn && arg == tt.arg {
				out = append(out, tt)
			} else {
				out = append(out, NewApp(fn, arg))
			}
		}
	}

	return out[0]
}
