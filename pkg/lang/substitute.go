package lang

import "fmt"

// Substitute replaces the variable bound at target in t with replacement,
// removing that binder: references past it move down by one. Each time the
// walk crosses a binder the target moves in by one and the replacement's own
// free references are lifted by one, so nothing in replacement is captured.
//
// The lifted copies are built once per binder depth and shared between every
// occurrence at that depth.
func Substitute(t Term, target int, replacement Term) Term {
	if target < 0 {
		panic(fmt.Sprintf("lang: invalid substitution target %d", target))
	}
	lifted := liftCache{base: replacement}
	return rebuild(t, func(v *EVar, depth int) Term {
		idx := target + depth
		switch {
		case v.index == idx:
			return lifted.at(depth)
		case v.index > idx:
			return &EVar{index: v.index - 1}
		default:
			return v
		}
	})
}

// liftCache memoizes Shift(depth, 0, base) for the duration of one
// substitution.
type liftCache struct {
	base    Term
	byDepth map[int]Term
}

func (c *liftCache) at(depth int) Term {
	if depth == 0 {
		return c.base
	}
	if c.byDepth == nil {
		c.byDepth = make(map[int]Term)
	}
	if t, ok := c.byDepth[depth]; ok {
		return t
	}
	t := Shift(depth, 0, c.base)
	c.byDepth[depth] = t
	return t
}
