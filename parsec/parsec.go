package parsec

import "fmt"

// Result is the outcome of running a parser.
type Result[K comparable, T any] struct {
	// OK is whether the parse succeeded. Value and Rest are meaningful only
	// if it did.
	OK bool
	// Value is the parsed value.
	Value T
	// Rest is the input remaining after the parse.
	Rest State[K]
	// Err describes the furthest failure seen. It is set even on success,
	// in which case it lists what optional parsers would have accepted at
	// Err.Pos.
	Err ErrorInfo
}

// mergeErr returns r with o merged into its error info.
func (r Result[K, T]) mergeErr(o ErrorInfo) Result[K, T] {
	r.Err = r.Err.Merge(o)
	return r
}

func failure[K comparable, T any](err ErrorInfo) Result[K, T] {
	return Result[K, T]{Err: err}
}

// Consumed pairs a Result with whether the parser advanced past any input to
// produce it.
type Consumed[K comparable, T any] struct {
	Consumed bool
	Result   Result[K, T]
}

// Parser parses a T from a sequence of K tokens.
type Parser[K comparable, T any] func(State[K]) Consumed[K, T]

// Parse runs p from the start of input.
func Parse[K comparable, T any](p Parser[K, T], input []K) Result[K, T] {
	return p(NewState(input)).Result
}

// Return succeeds with v without consuming input.
func Return[K comparable, T any](v T) Parser[K, T] {
	return func(s State[K]) Consumed[K, T] {
		return Consumed[K, T]{Result: Result[K, T]{OK: true, Value: v, Rest: s, Err: ErrorInfo{Pos: s.pos}}}
	}
}

// Sat consumes one token if pred accepts it. Otherwise it fails softly,
// describing the unexpected token or end of input.
func Sat[K comparable](pred func(K) bool) Parser[K, K] {
	return func(s State[K]) Consumed[K, K] {
		tok, ok := s.Peek()
		if !ok {
			return Consumed[K, K]{Result: failure[K, K](ErrorInfo{Pos: s.pos, Message: "unexpected end of input"})}
		}
		if !pred(tok) {
			return Consumed[K, K]{Result: failure[K, K](ErrorInfo{Pos: s.pos, Message: fmt.Sprintf("unexpected token %v", tok)})}
		}
		rest := s.next()
		return Consumed[K, K]{
			Consumed: true,
			Result:   Result[K, K]{OK: true, Value: tok, Rest: rest, Err: ErrorInfo{Pos: rest.pos}},
		}
	}
}

// Literal consumes one token equal to tok. Failures expect tok formatted with
// %v.
func Literal[K comparable](tok K) Parser[K, K] {
	return Tag(Sat(func(t K) bool { return t == tok }), fmt.Sprint(tok))
}

// End succeeds without consuming input if and only if no input remains.
func End[K comparable]() Parser[K, struct{}] {
	return func(s State[K]) Consumed[K, struct{}] {
		tok, ok := s.Peek()
		if ok {
			err := ErrorInfo{Pos: s.pos, Expected: []string{"end of input"}, Message: fmt.Sprintf("unexpected token %v", tok)}
			return Consumed[K, struct{}]{Result: failure[K, struct{}](err)}
		}
		return Consumed[K, struct{}]{Result: Result[K, struct{}]{OK: true, Rest: s, Err: ErrorInfo{Pos: s.pos}}}
	}
}

// Then runs p, then the parser f builds from p's value on the remaining input.
// The combination consumed input if either step did. When the second step
// consumes nothing, the first step's error info is merged into its result so
// that what p could have continued with is still reported.
func Then[K comparable, T, U any](p Parser[K, T], f func(T) Parser[K, U]) Parser[K, U] {
	return func(s State[K]) Consumed[K, U] {
		c1 := p(s)
		if !c1.Result.OK {
			return Consumed[K, U]{Consumed: c1.Consumed, Result: failure[K, U](c1.Result.Err)}
		}
		c2 := f(c1.Result.Value)(c1.Result.Rest)
		r := c2.Result
		if !c2.Consumed {
			r = r.mergeErr(c1.Result.Err)
		}
		return Consumed[K, U]{Consumed: c1.Consumed || c2.Consumed, Result: r}
	}
}

// FollowedBy runs p, then the parser f builds from p's value, and produces
// p's value. The second parser only validates or commits.
func FollowedBy[K comparable, T, U any](p Parser[K, T], f func(T) Parser[K, U]) Parser[K, T] {
	return Then(p, func(x T) Parser[K, T] {
		return Then(f(x), func(U) Parser[K, T] { return Return[K](x) })
	})
}

// Skip runs p, discards its value, then runs q.
func Skip[K comparable, T, U any](p Parser[K, T], q Parser[K, U]) Parser[K, U] {
	return Then(p, func(T) Parser[K, U] { return q })
}

// Map transforms the value p produces.
func Map[K comparable, T, U any](p Parser[K, T], f func(T) U) Parser[K, U] {
	return Then(p, func(x T) Parser[K, U] { return Return[K](f(x)) })
}

// Or is ordered choice. If p1 succeeds or fails after consuming input, its
// result is final and p2 is never run. Otherwise p2 runs on the same input;
// if it also consumes nothing, p1's error info is merged into its result.
func Or[K comparable, T any](p1, p2 Parser[K, T]) Parser[K, T] {
	return func(s State[K]) Consumed[K, T] {
		c1 := p1(s)
		if c1.Result.OK || c1.Consumed {
			return c1
		}
		c2 := p2(s)
		if c2.Consumed {
			return c2
		}
		c2.Result = c2.Result.mergeErr(c1.Result.Err)
		return c2
	}
}

// Choice is Or over any number of alternatives, tried left to right.
// Choice with no alternatives always fails softly.
func Choice[K comparable, T any](ps ...Parser[K, T]) Parser[K, T] {
	if len(ps) == 0 {
		return func(s State[K]) Consumed[K, T] {
			return Consumed[K, T]{Result: failure[K, T](ErrorInfo{Pos: s.pos, Message: "no alternatives"})}
		}
	}
	p := ps[len(ps)-1]
	for i := len(ps) - 2; i >= 0; i-- {
		p = Or(ps[i], p)
	}
	return p
}

// Attempt reports any failure of p as not having consumed input, so that an
// enclosing Or may try its next alternative. Successes are unchanged.
func Attempt[K comparable, T any](p Parser[K, T]) Parser[K, T] {
	return func(s State[K]) Consumed[K, T] {
		c := p(s)
		if !c.Result.OK {
			c.Consumed = false
		}
		return c
	}
}

// Tag replaces the expected set of any failure of p with label.
func Tag[K comparable, T any](p Parser[K, T], label string) Parser[K, T] {
	return func(s State[K]) Consumed[K, T] {
		c := p(s)
		if !c.Result.OK {
			c.Result.Err = c.Result.Err.Expect(label)
		}
		return c
	}
}

// Lazy defers obtaining a parser until it runs. It allows grammars to refer
// to rules that are defined later, including themselves.
func Lazy[K comparable, T any](f func() Parser[K, T]) Parser[K, T] {
	return func(s State[K]) Consumed[K, T] {
		return f()(s)
	}
}

// Chainl1 parses one or more p separated by op and folds the values to the
// left: a op b op c is (a op b) op c.
func Chainl1[K comparable, T any](p Parser[K, T], op Parser[K, func(T, T) T]) Parser[K, T] {
	var rest func(x T) Parser[K, T]
	rest = func(x T) Parser[K, T] {
		more := Then(op, func(f func(T, T) T) Parser[K, T] {
			return Then(p, func(y T) Parser[K, T] { return rest(f(x, y)) })
		})
		return Or(more, Return[K](x))
	}
	return Then(p, rest)
}

// Chainr1 parses one or more p separated by op and folds the values to the
// right: a op b op c is a op (b op c).
func Chainr1[K comparable, T any](p Parser[K, T], op Parser[K, func(T, T) T]) Parser[K, T] {
	var chain Parser[K, T]
	chain = Then(p, func(x T) Parser[K, T] {
		more := Then(op, func(f func(T, T) T) Parser[K, T] {
			return Map(chain, func(y T) T { return f(x, y) })
		})
		return Or(more, Return[K](x))
	})
	return chain
}

// Many parses zero or more p. A committed failure of p is a committed failure
// of Many. Many panics if p succeeds without consuming input, since that
// would repeat forever.
func Many[K comparable, T any](p Parser[K, T]) Parser[K, []T] {
	return func(s State[K]) Consumed[K, []T] {
		var (
			vs       []T
			consumed bool
			err      = ErrorInfo{Pos: s.pos}
		)
		for {
			c := p(s)
			if !c.Result.OK {
				if c.Consumed {
					return Consumed[K, []T]{Consumed: true, Result: failure[K, []T](c.Result.Err)}
				}
				err = err.Merge(c.Result.Err)
				return Consumed[K, []T]{Consumed: consumed, Result: Result[K, []T]{OK: true, Value: vs, Rest: s, Err: err}}
			}
			if !c.Consumed {
				panic("parsec: Many applied to a parser that accepts empty input")
			}
			consumed = true
			vs = append(vs, c.Result.Value)
			s = c.Result.Rest
			err = c.Result.Err
		}
	}
}

// SepBy1 parses one or more p separated by sep and produces the values of p
// in order. A separator must be followed by another p.
func SepBy1[K comparable, T, U any](p Parser[K, T], sep Parser[K, U]) Parser[K, []T] {
	return Then(p, func(x T) Parser[K, []T] {
		return Map(Many(Skip(sep, p)), func(xs []T) []T {
			return append([]T{x}, xs...)
		})
	})
}

// SepBy parses zero or more p separated by sep.
func SepBy[K comparable, T, U any](p Parser[K, T], sep Parser[K, U]) Parser[K, []T] {
	return Or(SepBy1(p, sep), Return[K]([]T{}))
}
