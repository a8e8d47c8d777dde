package symdiff

import (
	"math"
	"strconv"
)

// Atom is a single numeric value.
type Atom float64

// Pair is a labeled atom.
type Pair struct {
	Label string
	Atom  Atom
}

// Row is one row of data. The label of each pair names a variable.
type Row []Pair

// Stream is the data bound to a variable. Element i supplies the variable's
// value in row i.
type Stream []Pair

// Bindings maps variable names to their data.
type Bindings map[string]Stream

// evalFn computes the value of a compiled expression from the values of the
// program's slots.
type evalFn func(env []float64) (float64, error)

// compiler is a Visitor that turns expressions into closures over slots.
// The first error encountered is kept in err.
type compiler struct {
	slots map[string]int
	// inputs lists the names that were referenced before being assigned, in
	// order of first reference.
	inputs []input
	funcs  map[string]Func
	// stmt is the index of the statement being compiled.
	stmt int
	err  error
}

// input is a name whose value comes from the row or the bindings.
type input struct {
	name string
	slot int
	// stmt is the first statement referring to the input.
	stmt int
}

func (c *compiler) fail(err error) evalFn {
	if c.err == nil {
		c.err = err
	}
	return func([]float64) (float64, error) { return 0, err }
}

// slot returns the slot for name, allocating an input slot if the name has
// not been seen.
func (c *compiler) slot(name string) int {
	if k, ok := c.slots[name]; ok {
		return k
	}
	k := len(c.slots)
	c.slots[name] = k
	c.inputs = append(c.inputs, input{name: name, slot: k, stmt: c.stmt})
	return k
}

// assign returns the slot for an output. An input of the same name keeps its
// slot, which the output overwrites once computed.
func (c *compiler) assign(name string) int {
	if k, ok := c.slots[name]; ok {
		return k
	}
	k := len(c.slots)
	c.slots[name] = k
	return k
}

func (c *compiler) VisitNum(e *Expression) evalFn {
	v, _ := parseNum(e.value.Text, foldPrec).Float64()
	return func([]float64) (float64, error) { return v, nil }
}

func (c *compiler) VisitName(e *Expression) evalFn {
	k := c.slot(e.value.Text)
	return func(env []float64) (float64, error) { return env[k], nil }
}

func (c *compiler) VisitCall(e *Expression) evalFn {
	name := e.value.Text
	f := c.funcs[name]
	if f == nil {
		return c.fail(&FuncError{Func: name})
	}
	if !f.CanCall(len(e.args)) {
		return c.fail(&CallError{Func: name, Len: len(e.args)})
	}
	args := make([]evalFn, len(e.args))
	for i, a := range e.args {
		args[i] = Accept[evalFn](a, c)
	}
	return func(env []float64) (float64, error) {
		vals := make([]float64, len(args))
		for i, a := range args {
			v, err := a(env)
			if err != nil {
				return 0, err
			}
			vals[i] = v
		}
		r, err := f.Call(vals)
		if err != nil {
			if de, ok := err.(*DomainError); ok && de.Func == "" {
				cp := *de
				cp.Func = name
				err = &cp
			}
			return 0, err
		}
		return r, nil
	}
}

func (c *compiler) VisitNeg(e *Expression) evalFn {
	x := Accept[evalFn](e.args[0], c)
	return func(env []float64) (float64, error) {
		v, err := x(env)
		return -v, err
	}
}

func (c *compiler) VisitBinary(e *Expression) evalFn {
	l := Accept[evalFn](e.args[0], c)
	r := Accept[evalFn](e.args[1], c)
	var op func(x, y float64) (float64, error)
	switch e.kind {
	case KindAdd:
		op = func(x, y float64) (float64, error) { return x + y, nil }
	case KindSub:
		op = func(x, y float64) (float64, error) { return x - y, nil }
	case KindMul:
		op = func(x, y float64) (float64, error) { return x * y, nil }
	case KindDiv:
		op = func(x, y float64) (float64, error) {
			// Guard against invalid divisions, 0/0 or inf/inf.
			if x == 0 && y == 0 || math.IsInf(x, 0) && math.IsInf(y, 0) {
				return 0, &DomainError{X: y, Arg: 2, Func: "/"}
			}
			return x / y, nil
		}
	case KindPow:
		op = func(x, y float64) (float64, error) {
			z := math.Pow(x, y)
			// Negative base with a non-integer exponent.
			if math.IsNaN(z) && !math.IsNaN(x) && !math.IsNaN(y) {
				return 0, &DomainError{X: x, Arg: 1, Func: "^"}
			}
			return z, nil
		}
	default:
		panic("symdiff: invalid binary expression kind " + e.kind.String())
	}
	return func(env []float64) (float64, error) {
		x, err := l(env)
		if err != nil {
			return 0, err
		}
		y, err := r(env)
		if err != nil {
			return 0, err
		}
		return op(x, y)
	}
}

// NameError is an error indicating a variable with no value in a row.
type NameError struct {
	// Name is the name that was missing.
	Name string
	// Row is the index of the first row missing the variable.
	Row int
}

func (err *NameError) Error() string {
	return "undefined variable " + strconv.Quote(err.Name) + " in row " + strconv.Itoa(err.Row)
}

// RowError is an error that occurred while evaluating a row.
type RowError struct {
	// Row is the index of the row.
	Row int
	// Err is the error.
	Err error
}

func (err *RowError) Error() string {
	return "row " + strconv.Itoa(err.Row) + ": " + err.Err.Error()
}

func (err *RowError) Unwrap() error {
	return err.Err
}
