package symdiff

import (
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Evaluator computes one output of a program for each row. The result has
// exactly one pair per row, in row order, labeled with the output's name.
// Variables are checked row by row, so an unbound variable is an error only
// when there is at least one row; zero rows give an empty result.
// Evaluators are safe for concurrent use.
type Evaluator func(rows []Row) ([]Pair, error)

// program is a compiled Program.
type program struct {
	stmts  []stmt
	inputs []input
	nslots int
	b      Bindings
	dop    int
	log    logrus.FieldLogger
}

type stmt struct {
	name string
	slot int
	f    evalFn
}

// Compile resolves the variables and functions of p and returns an evaluator
// for each of its outputs. Evaluators read variables first from the row being
// evaluated and then from element i of the stream bound to the name in b.
// Errors in the program, such as calls to unknown functions or calls with the
// wrong number of arguments, are reported here, before any evaluation.
func Compile(p *Program, b Bindings, opts ...ComputeOption) (map[string]Evaluator, error) {
	cfg := newComputectx(opts)
	c := compiler{slots: make(map[string]int), funcs: cfg.funcs}
	prog := &program{b: b, dop: cfg.dop, log: cfg.log}
	outs := make(map[string]bool, len(p.stmts))
	for i, s := range p.stmts {
		if outs[s.Name] {
			return nil, &DuplicateError{Name: s.Name}
		}
		outs[s.Name] = true
		c.stmt = i
		f := Accept[evalFn](s.Expr, &c)
		if c.err != nil {
			return nil, errors.Wrapf(c.err, "compiling %s", s.Name)
		}
		prog.stmts = append(prog.stmts, stmt{name: s.Name, slot: c.assign(s.Name), f: f})
	}
	prog.inputs = c.inputs
	prog.nslots = len(c.slots)
	cfg.log.WithFields(logrus.Fields{
		"outputs":     strings.Join(p.Outputs(), ","),
		"inputs":      len(prog.inputs),
		"parallelism": cfg.dop,
	}).Debug("compiled program")

	r := make(map[string]Evaluator, len(prog.stmts))
	for k, s := range prog.stmts {
		if cfg.dop > 1 {
			r[s.name] = prog.parallel(k)
		} else {
			r[s.name] = prog.sequential(k)
		}
	}
	return r, nil
}

// Compute parses a program and compiles it with sequential evaluators.
func Compute(src string, b Bindings, opts ...ComputeOption) (map[string]Evaluator, error) {
	p, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	return Compile(p, b, opts...)
}

// ComputeParallel parses a program and compiles it with evaluators that split
// rows into dop contiguous chunks evaluated concurrently. The results are
// identical to those of Compute. If dop is less than 1, the number of usable
// CPUs is used.
func ComputeParallel(src string, b Bindings, dop int, opts ...ComputeOption) (map[string]Evaluator, error) {
	p, err := ParseString(src)
	if err != nil {
		return nil, err
	}
	opts = append(opts[:len(opts):len(opts)], Parallelism(dop))
	return Compile(p, b, opts...)
}

func (p *program) sequential(k int) Evaluator {
	return func(rows []Row) ([]Pair, error) {
		if err := p.validate(rows, k); err != nil {
			return nil, err
		}
		out := make([]Pair, len(rows))
		if err := p.run(rows, 0, out, k); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (p *program) parallel(k int) Evaluator {
	return func(rows []Row) ([]Pair, error) {
		if err := p.validate(rows, k); err != nil {
			return nil, err
		}
		spans := partition(len(rows), p.dop)
		p.log.WithFields(logrus.Fields{
			"output": p.stmts[k].name,
			"rows":   len(rows),
			"chunks": len(spans),
		}).Debug("partitioned rows")
		outs := make([][]Pair, len(spans))
		errs := make([]error, len(spans))
		var g errgroup.Group
		for i, sp := range spans {
			i, sp := i, sp
			g.Go(func() error {
				out := make([]Pair, sp.hi-sp.lo)
				if err := p.run(rows[sp.lo:sp.hi], sp.lo, out, k); err != nil {
					errs[i] = err
					return err
				}
				outs[i] = out
				return nil
			})
		}
		if g.Wait() != nil {
			// Report the error from the earliest chunk, which is the one
			// sequential evaluation would have reported.
			for _, err := range errs {
				if err != nil {
					return nil, err
				}
			}
		}
		r := make([]Pair, 0, len(rows))
		for _, out := range outs {
			r = append(r, out...)
		}
		return r, nil
	}
}

// span is a half-open range of row indices.
type span struct {
	lo, hi int
}

// partition splits n rows into at most k contiguous spans whose sizes differ
// by at most one.
func partition(n, k int) []span {
	if k > n {
		k = n
	}
	if k < 1 {
		return nil
	}
	r := make([]span, k)
	q, m := n/k, n%k
	lo := 0
	for i := range r {
		hi := lo + q
		if i < m {
			hi++
		}
		r[i] = span{lo, hi}
		lo = hi
	}
	return r
}

// validate checks that every input used by statements up to k has a value in
// every row. Each missing name is reported once, at the first row lacking it.
func (p *program) validate(rows []Row, k int) error {
	var err *multierror.Error
	for _, in := range p.inputs {
		if in.stmt > k {
			continue
		}
		for i, row := range rows {
			if _, ok := p.lookup(row, i, in.name); !ok {
				err = multierror.Append(err, &NameError{Name: in.name, Row: i})
				break
			}
		}
	}
	return err.ErrorOrNil()
}

// lookup finds the value of a variable in row i.
func (p *program) lookup(row Row, i int, name string) (float64, bool) {
	for _, v := range row {
		if v.Label == name {
			return float64(v.Atom), true
		}
	}
	if s, ok := p.b[name]; ok && i < len(s) {
		return float64(s[i].Atom), true
	}
	return 0, false
}

// run evaluates output k for each row into out. base is the index of the
// first row within the whole input. rows must have been validated.
func (p *program) run(rows []Row, base int, out []Pair, k int) error {
	env := make([]float64, p.nslots)
	name := p.stmts[k].name
	for j, row := range rows {
		i := base + j
		for _, in := range p.inputs {
			if in.stmt > k {
				continue
			}
			env[in.slot], _ = p.lookup(row, i, in.name)
		}
		for _, s := range p.stmts[:k+1] {
			v, err := s.f(env)
			if err != nil {
				return &RowError{Row: i, Err: errors.Wrapf(err, "evaluating %s", s.name)}
			}
			env[s.slot] = v
		}
		out[j] = Pair{Label: name, Atom: Atom(env[p.stmts[k].slot])}
	}
	return nil
}
