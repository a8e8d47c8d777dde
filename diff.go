package symdiff

import (
	"strconv"

	"github.com/pkg/errors"
)

// Differentiate returns the derivative of e with respect to the variable wrt,
// simplified. Every other variable is treated as a constant. Calls to
// functions with no derivative rule produce a *DiffError, unless none of
// their arguments depend on wrt.
func Differentiate(e *Expression, wrt string) (*Expression, error) {
	d := differ{wrt: wrt}
	return d.derive(e)
}

// DerivName is the name of the output holding the derivative of the output
// name with respect to wrt in a differentiated program.
func DerivName(name, wrt string) string {
	return "d" + name + "_d" + wrt
}

// Differentiate returns a program computing each output of p followed by its
// derivative with respect to wrt, named by DerivName. A reference to an
// earlier output differentiates to a reference to its derivative.
func (p *Program) Differentiate(wrt string) (*Program, error) {
	d := differ{wrt: wrt, chain: make(map[string]string, len(p.stmts))}
	r := make([]Assignment, 0, 2*len(p.stmts))
	for _, s := range p.stmts {
		de, err := d.derive(s.Expr)
		if err != nil {
			return nil, errors.Wrapf(err, "differentiating %s", s.Name)
		}
		dn := DerivName(s.Name, wrt)
		r = append(r, s, Assignment{Name: dn, Expr: de})
		if !isConst(de, 0) {
			d.chain[s.Name] = dn
		}
	}
	return &Program{stmts: r}, nil
}

// differ is a Visitor that builds unsimplified derivatives. The first error
// encountered is kept in err; visiting continues with placeholder zeros.
type differ struct {
	wrt string
	// chain maps earlier outputs to the names of their derivatives.
	chain map[string]string
	err   error
}

func (d *differ) derive(e *Expression) (*Expression, error) {
	r := Accept[*Expression](e, d)
	if d.err != nil {
		err := d.err
		d.err = nil
		return nil, err
	}
	return Simplify(r), nil
}

// depends reports whether e varies with wrt, directly or through an earlier
// output.
func (d *differ) depends(e *Expression) bool {
	if e.uses(d.wrt) {
		return true
	}
	for name := range d.chain {
		if e.uses(name) {
			return true
		}
	}
	return false
}

func (d *differ) fail(e *Expression, reason string) *Expression {
	if d.err == nil {
		d.err = &DiffError{Expr: e, Reason: reason}
	}
	return Num("0")
}

func (d *differ) sub(e *Expression) *Expression {
	return Accept[*Expression](e, d)
}

func (d *differ) VisitNum(e *Expression) *Expression {
	return Num("0")
}

func (d *differ) VisitName(e *Expression) *Expression {
	name := e.value.Text
	if name == d.wrt {
		return Num("1")
	}
	if dn, ok := d.chain[name]; ok {
		return Name(dn)
	}
	return Num("0")
}

func (d *differ) VisitNeg(e *Expression) *Expression {
	return Neg(d.sub(e.args[0]))
}

func (d *differ) VisitBinary(e *Expression) *Expression {
	u, v := e.args[0], e.args[1]
	switch e.kind {
	case KindAdd:
		return Add(d.sub(u), d.sub(v))
	case KindSub:
		return Sub(d.sub(u), d.sub(v))
	case KindMul:
		return Add(Mul(d.sub(u), v), Mul(u, d.sub(v)))
	case KindDiv:
		num := Sub(Mul(d.sub(u), v), Mul(u, d.sub(v)))
		return Div(num, Pow(v, Num("2")))
	case KindPow:
		return d.pow(u, v)
	}
	panic("symdiff: invalid binary expression kind " + e.kind.String())
}

// pow differentiates u^v.
func (d *differ) pow(u, v *Expression) *Expression {
	switch {
	case !d.depends(v):
		// v u^(v-1) u'
		return Mul(Mul(v, Pow(u, Sub(v, Num("1")))), d.sub(u))
	case !d.depends(u):
		// u^v ln(u) v'
		return Mul(Mul(Pow(u, v), Call("ln", u)), d.sub(v))
	default:
		// u^v (v' ln(u) + v u' / u)
		t := Add(Mul(d.sub(v), Call("ln", u)), Div(Mul(v, d.sub(u)), u))
		return Mul(Pow(u, v), t)
	}
}

func (d *differ) VisitCall(e *Expression) *Expression {
	args := e.args
	dep := false
	for _, a := range args {
		dep = dep || d.depends(a)
	}
	if !dep {
		return Num("0")
	}
	name := e.value.Text
	switch len(args) {
	case 1:
		u := args[0]
		var f *Expression
		switch name {
		case "exp":
			f = e
		case "ln":
			f = Div(Num("1"), u)
		case "log":
			f = Div(Num("1"), Mul(u, Call("ln", Num("10"))))
		case "sqrt":
			f = Div(Num("1"), Mul(Num("2"), e))
		case "sin":
			f = Call("cos", u)
		case "cos":
			f = Neg(Call("sin", u))
		case "tan":
			f = Div(Num("1"), Pow(Call("cos", u), Num("2")))
		case "asin":
			f = Div(Num("1"), Call("sqrt", Sub(Num("1"), Pow(u, Num("2")))))
		case "acos":
			f = Neg(Div(Num("1"), Call("sqrt", Sub(Num("1"), Pow(u, Num("2"))))))
		case "atan":
			f = Div(Num("1"), Add(Num("1"), Pow(u, Num("2"))))
		case "abs":
			f = Div(u, e)
		default:
			return d.fail(e, "no derivative rule for "+name)
		}
		return Mul(f, d.sub(u))
	case 2:
		switch name {
		case "log":
			return d.sub(Div(Call("ln", args[0]), Call("ln", args[1])))
		case "pow":
			return d.sub(Pow(args[0], args[1]))
		}
	}
	return d.fail(e, "no derivative rule for "+name+" with "+plural(len(args), "argument"))
}

func plural(n int, s string) string {
	if n == 1 {
		return "1 " + s
	}
	return strconv.Itoa(n) + " " + s + "s"
}
