package parse

import (
	"fmt"
	"strings"

	"github.com/vilterp/lambdakernel/pkg/lang"
)

// Print renders t in the surface syntax Parse reads, with free[i] naming
// outer-scope slot i. Binders get generated names (x0, x1, ...) that never
// collide with free; free references beyond free are printed as raw indices.
func Print(t lang.Term, free ...string) string {
	p := &printer{taken: map[string]bool{}}
	for _, name := range free {
		p.taken[name] = true
	}
	p.free = free
	p.term(t)
	return p.sb.String()
}

type printer struct {
	sb      strings.Builder
	free    []string
	taken   map[string]bool
	binders []string
}

func (p *printer) binderName() string {
	name := fmt.Sprintf("x%d", len(p.binders))
	for p.taken[name] {
		name += "'"
	}
	return name
}

func (p *printer) term(t lang.Term) {
	switch tt := t.(type) {
	case *lang.EVar:
		p.variable(tt)
	case *lang.ELambda:
		base := len(p.binders)
		p.sb.WriteString(`\`)
		var body lang.Term = tt
		for lam, ok := body.(*lang.ELambda); ok; lam, ok = body.(*lang.ELambda) {
			if len(p.binders) > base {
				p.sb.WriteString(" ")
			}
			name := p.binderName()
			p.binders = append(p.binders, name)
			p.sb.WriteString(name)
			body = lam.Body()
		}
		p.sb.WriteString(". ")
		p.term(body)
		p.binders = p.binders[:base]
	case *lang.EApp:
		p.app(tt)
	}
}

func (p *printer) app(a *lang.EApp) {
	switch a.Func().(type) {
	case *lang.ELambda:
		p.parens(a.Func())
	default:
		p.term(a.Func())
	}
	p.sb.WriteString(" ")
	switch a.Arg().(type) {
	case *lang.EVar:
		p.term(a.Arg())
	default:
		p.parens(a.Arg())
	}
}

func (p *printer) parens(t lang.Term) {
	p.sb.WriteString("(")
	p.term(t)
	p.sb.WriteString(")")
}

func (p *printer) variable(v *lang.EVar) {
	depth := len(p.binders)
	if v.Index() < depth {
		p.sb.WriteString(p.binders[depth-1-v.Index()])
		return
	}
	if slot := v.Index() - depth; slot < len(p.free) {
		p.sb.WriteString(p.free[slot])
		return
	}
	fmt.Fprintf(&p.sb, "#%d", v.Index())
}
