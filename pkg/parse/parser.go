package parse

import (
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/vilterp/lambdakernel/pkg/lang"
)

var (
	lambdaLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Lambda", Pattern: `\\|λ`},
		{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_']*`},
		{Name: "Int", Pattern: `\d+`},
		{Name: "Punct", Pattern: `[#().]`},
		{Name: "Whitespace", Pattern: `\s+`},
	})
	lambdaParser = participle.MustBuild[Expr](
		participle.Lexer(lambdaLexer),
		participle.Elide("Whitespace"),
	)
)

// Expr is the named surface syntax:
//
//	\x y. x (y x)     abstraction over one or more names (λ works too)
//	f a b             application, left-associative
//	f \x. x           a trailing abstraction extends as far right as possible
//	#3                a raw de Bruijn index
type Expr struct {
	Abs *Abs `  @@`
	App *App `| @@`
}

type Abs struct {
	Params []string `Lambda @Ident+ "."`
	Body   *Expr    `@@`
}

type App struct {
	Atoms    []*Atom `@@+`
	Trailing *Abs    `@@?`
}

type Atom struct {
	Index *int    `  "#" @Int`
	Name  *string `| @Ident`
	Sub   *Expr   `| "(" @@ ")"`
}

type unboundNameError struct {
	Name string
}

func (e *unboundNameError) Error() string {
	return fmt.Sprintf("unbound name: %s", e.Name)
}

// Parse reads src into an indexed term. Names resolve to the innermost
// enclosing binder first, then to free: the name at free[i] becomes the
// outer-scope slot i.
func Parse(src string, free ...string) (lang.Term, error) {
	expr, err := parseExpr(src)
	if err != nil {
		return nil, err
	}
	r := &resolver{free: free}
	return r.expr(expr)
}

// ParseOpen is like Parse, but instead of failing on an unbound name it
// appends it to free, so outer-scope slots are assigned in order of first
// appearance. It returns the extended list.
func ParseOpen(src string, free ...string) (lang.Term, []string, error) {
	expr, err := parseExpr(src)
	if err != nil {
		return nil, nil, err
	}
	r := &resolver{free: append([]string(nil), free...), open: true}
	t, err := r.expr(expr)
	if err != nil {
		return nil, nil, err
	}
	return t, r.free, nil
}

func parseExpr(src string) (*Expr, error) {
	return lambdaParser.ParseString("", src)
}

type resolver struct {
	// innermost binder last
	binders []string
	free    []string
	open    bool
}

func (r *resolver) lookup(name string) (lang.Term, error) {
	depth := len(r.binders)
	for i := depth - 1; i >= 0; i-- {
		if r.binders[i] == name {
			return lang.NewVar(depth - 1 - i)
		}
	}
	for slot, freeName := range r.free {
		if freeName == name {
			return lang.NewVar(depth + slot)
		}
	}
	if !r.open {
		return nil, &unboundNameError{Name: name}
	}
	r.free = append(r.free, name)
	return lang.NewVar(depth + len(r.free) - 1)
}

func (r *resolver) expr(e *Expr) (lang.Term, error) {
	if e.Abs != nil {
		return r.abs(e.Abs)
	}
	return r.app(e.App)
}

func (r *resolver) abs(a *Abs) (lang.Term, error) {
	r.binders = append(r.binders, a.Params...)
	body, err := r.expr(a.Body)
	r.binders = r.binders[:len(r.binders)-len(a.Params)]
	if err != nil {
		return nil, err
	}
	for range a.Params {
		body = lang.NewLambda(body)
	}
	return body, nil
}

func (r *resolver) app(a *App) (lang.Term, error) {
	var out lang.Term
	push := func(t lang.Term) {
		if out == nil {
			out = t
		} else {
			out = lang.NewApp(out, t)
		}
	}
	for _, atom := range a.Atoms {
		t, err := r.atom(atom)
		if err != nil {
			return nil, err
		}
		push(t)
	}
	if a.Trailing != nil {
		t, err := r.abs(a.Trailing)
		if err != nil {
			return nil, err
		}
		push(t)
	}
	return out, nil
}

func (r *resolver) atom(a *Atom) (lang.Term, error) {
	switch {
	case a.Index != nil:
		return lang.NewVar(*a.Index)
	case a.Name != nil:
		return r.lookup(*a.Name)
	default:
		return r.expr(a.Sub)
	}
}
