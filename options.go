package symdiff

import (
	"runtime"

	"github.com/sirupsen/logrus"
)

// ComputeOption is an option for compiling and evaluating programs.
type ComputeOption interface {
	computeOption(computectx) computectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt  map[string]Func
	nofuncs   struct{}
	paropt    int
	loggeropt struct {
		log logrus.FieldLogger
	}
)

// computectx holds the settings for compiling a program.
type computectx struct {
	// funcs is the set of functions that programs may call. A nil entry
	// removes a default function.
	funcs map[string]Func
	// nodefaults indicates that default functions are not available.
	nodefaults bool
	// dop is the number of chunks evaluated concurrently. Values below 2
	// select the sequential strategy.
	dop int
	log logrus.FieldLogger
}

// newComputectx applies options to the default settings.
func newComputectx(opts []ComputeOption) computectx {
	var p computectx
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		p = opt.computeOption(p)
	}
	fns := make(map[string]Func, len(globalfuncs)+len(p.funcs))
	if !p.nodefaults {
		for k, v := range globalfuncs {
			fns[k] = v
		}
	}
	for k, v := range p.funcs {
		if v == nil {
			delete(fns, k)
			continue
		}
		fns[k] = v
	}
	p.funcs = fns
	if p.log == nil {
		p.log = logrus.StandardLogger()
	}
	return p
}

// WithFunc makes a function available to programs. To remove a function,
// including a default one, pass nil for fn.
func WithFunc(name string, fn Func) ComputeOption {
	return &funcopt{name, fn}
}

func (o *funcopt) computeOption(p computectx) computectx {
	p.funcs = withFunc(p.funcs, o.name, o.fn)
	return p
}

// WithFuncs sets a group of functions. To remove any function, set it to nil.
func WithFuncs(fns map[string]Func) ComputeOption {
	return funcsopt(fns)
}

func (o funcsopt) computeOption(p computectx) computectx {
	for k, v := range o {
		p.funcs = withFunc(p.funcs, k, v)
	}
	return p
}

// withFunc sets a function in a copy of m, so that options never share maps
// between compilations.
func withFunc(m map[string]Func, name string, fn Func) map[string]Func {
	r := make(map[string]Func, len(m)+1)
	for k, v := range m {
		r[k] = v
	}
	r[name] = fn
	return r
}

// DisableDefaultFuncs removes all default functions. Functions set with
// WithFunc or WithFuncs remain available regardless of order.
func DisableDefaultFuncs() ComputeOption {
	return nofuncs{}
}

func (nofuncs) computeOption(p computectx) computectx {
	p.nodefaults = true
	return p
}

// Parallelism sets the number of contiguous chunks of rows that evaluators
// compute concurrently. If n is less than 1, the number of usable CPUs is
// used. Parallelism(1) is equivalent to sequential evaluation.
func Parallelism(n int) ComputeOption {
	if n < 1 {
		n = runtime.GOMAXPROCS(0)
	}
	return paropt(n)
}

func (o paropt) computeOption(p computectx) computectx {
	p.dop = int(o)
	return p
}

// WithLogger sets the logger to which compilation and evaluation report debug
// information. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) ComputeOption {
	return loggeropt{log}
}

func (o loggeropt) computeOption(p computectx) computectx {
	p.log = o.log
	return p
}
