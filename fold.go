package symdiff

import (
	"math"
	"math/big"
	"strings"

	"github.com/zephyrtronium/bigfloat"
)

// foldPrec is the precision of constant folding. It matches float64 so that
// folding gives the same results as evaluating.
const foldPrec = 53

// maxIntPow is the largest integer exponent folded by repeated
// multiplication.
const maxIntPow = 1 << 10

// Simplify returns an equivalent expression with constant subexpressions
// folded and trivial operations removed, e.g. 0 + x, 1 * x, and x ^ 1.
// Folding never introduces infinities or NaNs; operations which would are
// left in place to be evaluated, as are literals outside float64's range.
// Unchanged subtrees of e are shared with the result.
//
// The identity rules assume their other operand is finite. 0 * x becomes 0
// even though evaluating it where x is infinite or NaN gives NaN.
func Simplify(e *Expression) *Expression {
	return Accept[*Expression](e, simplifier{})
}

type simplifier struct{}

func (simplifier) VisitNum(e *Expression) *Expression  { return e }
func (simplifier) VisitName(e *Expression) *Expression { return e }

func (s simplifier) VisitCall(e *Expression) *Expression {
	args := make([]*Expression, len(e.args))
	changed := false
	for i, a := range e.args {
		args[i] = Accept[*Expression](a, s)
		changed = changed || args[i] != a
	}
	if len(args) == 1 {
		if x, ok := numValue(args[0]); ok {
			if r := foldCall(e.value.Text, x); r != nil {
				return r
			}
		}
	}
	if !changed {
		return e
	}
	return Call(e.value.Text, args...)
}

func (s simplifier) VisitNeg(e *Expression) *Expression {
	x := Accept[*Expression](e.args[0], s)
	if x == e.args[0] && x.kind != KindNeg && !isConst(x, 0) {
		return e
	}
	return negate(x)
}

func (s simplifier) VisitBinary(e *Expression) *Expression {
	l := Accept[*Expression](e.args[0], s)
	r := Accept[*Expression](e.args[1], s)
	if x, ok := numValue(l); ok {
		if y, ok := numValue(r); ok {
			if z := foldBinary(e.kind, x, y); z != nil {
				return z
			}
		}
	}
	switch e.kind {
	case KindAdd:
		switch {
		case isConst(l, 0):
			return r
		case isConst(r, 0):
			return l
		}
	case KindSub:
		switch {
		case isConst(r, 0):
			return l
		case isConst(l, 0):
			return negate(r)
		}
	case KindMul:
		switch {
		case isConst(l, 0), isConst(r, 0):
			return Num("0")
		case isConst(l, 1):
			return r
		case isConst(r, 1):
			return l
		case isConst(l, -1):
			return negate(r)
		case isConst(r, -1):
			return negate(l)
		}
	case KindDiv:
		if isConst(r, 1) {
			return l
		}
	case KindPow:
		switch {
		case isConst(r, 0):
			return Num("1")
		case isConst(r, 1):
			return l
		}
	}
	if l == e.args[0] && r == e.args[1] {
		return e
	}
	return Binary(e.value, l, r)
}

// negate returns the negation of x, removing a double negation.
func negate(x *Expression) *Expression {
	switch {
	case x.kind == KindNeg:
		return x.args[0]
	case isConst(x, 0):
		return Num("0")
	}
	return Neg(x)
}

// isConst reports whether e is a finite constant equal to v.
func isConst(e *Expression, v int64) bool {
	x, ok := numValue(e)
	if !ok {
		return false
	}
	return x.Cmp(new(big.Float).SetInt64(v)) == 0
}

// numValue returns the value of e if it is a number literal or the negation
// of one whose value float64 represents without overflow or underflow to zero.
// Other literals evaluate to infinities or zeros, so they are not folded.
func numValue(e *Expression) (*big.Float, bool) {
	switch e.kind {
	case KindNum:
		x := parseNum(e.value.Text, foldPrec)
		if !representable(x) {
			return nil, false
		}
		return x, true
	case KindNeg:
		x, ok := numValue(e.args[0])
		if !ok {
			return nil, false
		}
		return x.Neg(x), true
	}
	return nil, false
}

// representable reports whether x converts to a float64 that is finite and
// is zero only if x is.
func representable(x *big.Float) bool {
	if x.IsInf() {
		return false
	}
	f, _ := x.Float64()
	return !math.IsInf(f, 0) && (f != 0 || x.Sign() == 0)
}

// parseNum parses the text of a number token. Values too large to represent
// become infinite.
func parseNum(s string, prec uint) *big.Float {
	r, _, err := new(big.Float).SetPrec(prec).Parse(s, 0)
	switch {
	case err == nil: // do nothing
	case err.Error() == "exponent overflow",
		strings.HasSuffix(err.Error(), ": value out of range"):
		// There isn't realistically any better way to detect this error.
		r = new(big.Float).SetPrec(prec).SetInf(false)
	default:
		panic("symdiff: invalid number: " + s + " (" + err.Error() + ")")
	}
	return r
}

// mkNum creates an expression for a folded constant, or returns nil if x
// overflows float64 or underflows it to zero.
func mkNum(x *big.Float) *Expression {
	if !representable(x) {
		return nil
	}
	if x.Sign() == 0 {
		return Num("0")
	}
	if x.Signbit() {
		return Neg(Num(new(big.Float).Abs(x).Text('g', -1)))
	}
	return Num(x.Text('g', -1))
}

func foldBinary(k Kind, x, y *big.Float) *Expression {
	z := new(big.Float).SetPrec(foldPrec)
	switch k {
	case KindAdd:
		z.Add(x, y)
	case KindSub:
		z.Sub(x, y)
	case KindMul:
		z.Mul(x, y)
	case KindDiv:
		if y.Sign() == 0 {
			return nil
		}
		z.Quo(x, y)
	case KindPow:
		if z = foldPow(z, x, y); z == nil {
			return nil
		}
	default:
		return nil
	}
	return mkNum(z)
}

// foldPow computes x^y into z and returns the result, which need not be z,
// or nil if it cannot be folded.
func foldPow(z, x, y *big.Float) *big.Float {
	if y.IsInt() {
		n, acc := y.Int64()
		if acc == big.Exact && -maxIntPow <= n && n <= maxIntPow {
			if n < 0 && x.Sign() == 0 {
				return nil
			}
			neg := n < 0
			if neg {
				n = -n
			}
			b := new(big.Float).SetPrec(foldPrec).Set(x)
			z.SetInt64(1)
			for ; n > 0; n >>= 1 {
				if n&1 != 0 {
					z.Mul(z, b)
				}
				b.Mul(b, b)
			}
			if neg {
				z.Quo(new(big.Float).SetPrec(foldPrec).SetInt64(1), z)
			}
			return z
		}
	}
	switch x.Sign() {
	case 1:
		// Estimate log2 of the result so that bigfloat.Exp never sees an
		// argument outside float64's range.
		m := new(big.Float)
		e := x.MantExp(m)
		mf, _ := m.Float64()
		yf, _ := y.Float64()
		if lg := yf * (float64(e) + math.Log2(mf)); !(minLog2 < lg && lg < maxLog2) {
			return nil
		}
		return bigfloat.Pow(z, x, y)
	case 0:
		if y.Sign() > 0 {
			return z.SetInt64(0)
		}
	}
	return nil
}

// Bounds on log2 and ln of values representable as nonzero finite float64s.
const (
	minLog2 = -1074
	maxLog2 = 1024
	minLn   = -745.1332191019412
	maxLn   = 709.782712893384
)

func foldCall(name string, x *big.Float) *Expression {
	z := new(big.Float).SetPrec(foldPrec)
	switch name {
	case "exp":
		if f, _ := x.Float64(); !(minLn < f && f < maxLn) {
			return nil
		}
		z = bigfloat.Exp(z, x)
	case "ln":
		if x.Sign() <= 0 {
			return nil
		}
		z = bigfloat.Log(z, x)
	case "sqrt":
		if x.Sign() < 0 {
			return nil
		}
		z.Sqrt(x)
	case "abs":
		z.Abs(x)
	default:
		return nil
	}
	return mkNum(z)
}
