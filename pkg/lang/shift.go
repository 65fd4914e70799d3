package lang

import "fmt"

// Shift adds amount to every variable index at or above cutoff, leaving
// indices below it alone. Entering an abstraction moves the cutoff in by
// one. It is used to keep free references correct when a term is relocated
// under amount additional binders.
//
// amount and cutoff must be non-negative.
func Shift(amount int, cutoff int, t Term) Term {
	if amount < 0 || cutoff < 0 {
		panic(fmt.Sprintf("lang: invalid shift(%d, %d)", amount, cutoff))
	}
	if amount == 0 {
		return t
	}
	return rebuild(t, func(v *EVar, depth int) Term {
		if v.index >= cutoff+depth {
			return &EVar{index: v.index + amount}
		}
		return v
	})
}
