package symdiff

import (
	"math"
	"strconv"
)

// Func is a function from reals to reals.
type Func interface {
	// Call evaluates the function. args has a length for which CanCall
	// returned true. Call must not retain or modify args. Arguments outside
	// the function's domain should produce a *DomainError; the caller fills
	// in its Func field.
	Call(args []float64) (float64, error)

	// CanCall returns whether the function can be called with n arguments.
	// Programs calling a function with an argument count it rejects fail to
	// compile with a *CallError.
	CanCall(n int) bool
}

var globalfuncs = map[string]Func{
	"exp":  Monadic(math.Exp),
	"ln":   Restrict(Monadic(math.Log), positive),
	"log":  logarithm{},
	"sqrt": Restrict(Monadic(math.Sqrt), nonnegative),
	"sin":  Monadic(math.Sin),
	"cos":  Monadic(math.Cos),
	"tan":  Monadic(math.Tan),
	"asin": Restrict(Monadic(math.Asin), unit),
	"acos": Restrict(Monadic(math.Acos), unit),
	"atan": Monadic(math.Atan),
	"abs":  Monadic(math.Abs),

	"pow": Dyadic(math.Pow),
	"min": Dyadic(math.Min),
	"max": Dyadic(math.Max),

	// constants
	"pi": Niladic(math.Pi),
	"e":  Niladic(math.E),
}

// DefaultFuncs returns a copy of the functions available to programs unless
// disabled with DisableDefaultFuncs.
func DefaultFuncs() map[string]Func {
	m := make(map[string]Func, len(globalfuncs))
	for k, v := range globalfuncs {
		m[k] = v
	}
	return m
}

func positive(x float64) bool    { return x > 0 }
func nonnegative(x float64) bool { return x >= 0 }
func unit(x float64) bool        { return -1 <= x && x <= 1 }

type monadic struct {
	f func(float64) float64
}

func (m monadic) Call(args []float64) (float64, error) {
	x := args[0]
	r := m.f(x)
	if math.IsNaN(r) && !math.IsNaN(x) {
		return r, &DomainError{X: x, Arg: 1}
	}
	return r, nil
}

func (m monadic) CanCall(n int) bool {
	return n == 1
}

// Monadic wraps a function of one variable into a Func. A NaN result from a
// non-NaN argument is reported as a *DomainError.
func Monadic(f func(float64) float64) Func {
	return monadic{f}
}

type dyadic struct {
	f func(x, y float64) float64
}

func (d dyadic) Call(args []float64) (float64, error) {
	x, y := args[0], args[1]
	r := d.f(x, y)
	if math.IsNaN(r) && !math.IsNaN(x) && !math.IsNaN(y) {
		return r, &DomainError{X: x, Arg: 1}
	}
	return r, nil
}

func (d dyadic) CanCall(n int) bool {
	return n == 2
}

// Dyadic wraps a function of two variables into a Func. A NaN result from
// non-NaN arguments is reported as a *DomainError on the first argument.
func Dyadic(f func(x, y float64) float64) Func {
	return dyadic{f}
}

type niladic float64

func (n niladic) Call(args []float64) (float64, error) {
	return float64(n), nil
}

func (n niladic) CanCall(k int) bool {
	return k == 0
}

// Niladic creates a Func of zero arguments which evaluates to a constant.
func Niladic(x float64) Func {
	return niladic(x)
}

type restricted struct {
	Func
	dom func(float64) bool
}

func (r restricted) Call(args []float64) (float64, error) {
	for i, x := range args {
		if !math.IsNaN(x) && !r.dom(x) {
			return math.NaN(), &DomainError{X: x, Arg: i + 1}
		}
	}
	return r.Func.Call(args)
}

// Restrict wraps f so that any argument for which dom returns false is
// reported as a *DomainError without calling f.
func Restrict(f Func, dom func(float64) bool) Func {
	return restricted{Func: f, dom: dom}
}

// logarithm is log(x), the common logarithm, or log(x, b), the logarithm of
// x to base b.
type logarithm struct{}

func (logarithm) Call(args []float64) (float64, error) {
	x := args[0]
	if !(x > 0) && !math.IsNaN(x) {
		return math.NaN(), &DomainError{X: x, Arg: 1}
	}
	if len(args) == 1 {
		return math.Log10(x), nil
	}
	b := args[1]
	if !(b > 0) && !math.IsNaN(b) || b == 1 {
		return math.NaN(), &DomainError{X: b, Arg: 2}
	}
	return math.Log(x) / math.Log(b), nil
}

func (logarithm) CanCall(n int) bool {
	return n == 1 || n == 2
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument.
	Arg int
	// Func is a name identifying the function.
	Func string
}

func (err *DomainError) Error() string {
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}
