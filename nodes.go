package symdiff

import (
	"sort"
	"strconv"
	"strings"
)

// Expression is a node in the abstract syntax tree of an expression.
// Expressions are immutable once constructed; transformations such as
// Differentiate and Simplify build new trees, sharing unchanged subtrees.
type Expression struct {
	kind Kind
	// value is the number, the variable or function name, or the operator.
	value Token
	// args holds the operands: none for Num and Name, one for Neg, two for
	// binary operators, and the arguments of a Call.
	args []*Expression
}

// Kind is the variant of an Expression.
type Kind int8

const (
	KindNone Kind = iota

	KindNum  // number literal
	KindName // variable reference
	KindCall // function application

	KindNeg // negate args[0]
	KindAdd // args[0] + args[1]
	KindSub // args[0] - args[1]
	KindMul // args[0] * args[1]
	KindDiv // args[0] / args[1]
	KindPow // args[0] ^ args[1]
)

var kindNames = [...]string{"None", "Num", "Name", "Call", "Neg", "Add", "Sub", "Mul", "Div", "Pow"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Binary reports whether k is a binary operator.
func (k Kind) Binary() bool {
	return KindAdd <= k && k <= KindPow
}

// Num creates a number literal. text must be a valid number token, e.g. "2",
// "1.5e3", or "inf".
func Num(text string) *Expression {
	return &Expression{kind: KindNum, value: Token{Kind: TokenNum, Text: text}}
}

// Name creates a variable reference.
func Name(name string) *Expression {
	return &Expression{kind: KindName, value: Token{Kind: TokenIdent, Text: name}}
}

// Call creates an application of the named function. It is the only way to
// create a function application; the argument list is copied and fixed.
func Call(name string, args ...*Expression) *Expression {
	return &Expression{
		kind:  KindCall,
		value: Token{Kind: TokenIdent, Text: name},
		args:  append([]*Expression(nil), args...),
	}
}

// Neg creates the negation of x.
func Neg(x *Expression) *Expression {
	return &Expression{kind: KindNeg, value: Token{Kind: TokenOp, Text: "-"}, args: []*Expression{x}}
}

// Binary creates a binary operation. op must be an operator token as produced
// by Lex: +, -, *, /, or ^.
func Binary(op Token, l, r *Expression) *Expression {
	var k Kind
	switch op.Text {
	case "+":
		k = KindAdd
	case "-":
		k = KindSub
	case "*":
		k = KindMul
	case "/":
		k = KindDiv
	case "^":
		k = KindPow
	default:
		panic("symdiff: invalid binary operator " + op.String())
	}
	return &Expression{kind: k, value: Token{Kind: TokenOp, Text: op.Text}, args: []*Expression{l, r}}
}

func Add(l, r *Expression) *Expression { return Binary(Token{TokenOp, "+"}, l, r) }
func Sub(l, r *Expression) *Expression { return Binary(Token{TokenOp, "-"}, l, r) }
func Mul(l, r *Expression) *Expression { return Binary(Token{TokenOp, "*"}, l, r) }
func Div(l, r *Expression) *Expression { return Binary(Token{TokenOp, "/"}, l, r) }
func Pow(l, r *Expression) *Expression { return Binary(Token{TokenOp, "^"}, l, r) }

// Kind returns the variant of e.
func (e *Expression) Kind() Kind {
	return e.kind
}

// Value returns the token e was built from: the number, the variable or
// function name, or the operator.
func (e *Expression) Value() Token {
	return e.value
}

// NumArgs returns the number of operands or arguments of e.
func (e *Expression) NumArgs() int {
	return len(e.args)
}

// Arg returns the i'th operand or argument of e.
func (e *Expression) Arg(i int) *Expression {
	return e.args[i]
}

// Args returns a copy of the operands or arguments of e.
func (e *Expression) Args() []*Expression {
	return append([]*Expression(nil), e.args...)
}

// Visitor computes a T for each variant of an Expression. Accept dispatches
// to it.
type Visitor[T any] interface {
	VisitNum(e *Expression) T
	VisitName(e *Expression) T
	VisitCall(e *Expression) T
	VisitNeg(e *Expression) T
	// VisitBinary handles Add, Sub, Mul, Div, and Pow.
	VisitBinary(e *Expression) T
}

// Accept calls the method of v corresponding to the kind of e.
func Accept[T any](e *Expression, v Visitor[T]) T {
	switch e.kind {
	case KindNum:
		return v.VisitNum(e)
	case KindName:
		return v.VisitName(e)
	case KindCall:
		return v.VisitCall(e)
	case KindNeg:
		return v.VisitNeg(e)
	case KindAdd, KindSub, KindMul, KindDiv, KindPow:
		return v.VisitBinary(e)
	default:
		panic("symdiff: invalid expression kind " + e.kind.String())
	}
}

// Equal reports whether e and f are structurally identical.
func (e *Expression) Equal(f *Expression) bool {
	if e == f {
		return true
	}
	if e == nil || f == nil {
		return false
	}
	if e.kind != f.kind || e.value != f.value || len(e.args) != len(f.args) {
		return false
	}
	for i, a := range e.args {
		if !a.Equal(f.args[i]) {
			return false
		}
	}
	return true
}

// Vars returns the sorted names of the variables e refers to.
func (e *Expression) Vars() []string {
	seen := make(map[string]bool)
	e.vars(seen)
	if len(seen) == 0 {
		return nil
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (e *Expression) vars(seen map[string]bool) {
	if e.kind == KindName {
		seen[e.value.Text] = true
		return
	}
	for _, a := range e.args {
		a.vars(seen)
	}
}

// uses reports whether e refers to the variable name.
func (e *Expression) uses(name string) bool {
	if e.kind == KindName {
		return e.value.Text == name
	}
	for _, a := range e.args {
		if a.uses(name) {
			return true
		}
	}
	return false
}

// String formats e so that it parses back to the same tree. Compound
// subexpressions are bracketed, alternating round and square brackets.
func (e *Expression) String() string {
	var b strings.Builder
	e.fmt(&b, false)
	return b.String()
}

func (e *Expression) fmt(b *strings.Builder, square bool) {
	switch e.kind {
	case KindNum, KindName:
		b.WriteString(e.value.Text)
	case KindCall:
		b.WriteString(e.value.Text)
		b.WriteByte('(')
		for i, a := range e.args {
			if i > 0 {
				b.WriteString(", ")
			}
			a.fmt(b, square)
		}
		b.WriteByte(')')
	case KindNeg:
		b.WriteByte('-')
		e.args[0].fmtsub(b, !square)
	case KindAdd, KindSub, KindMul, KindDiv, KindPow:
		e.args[0].fmtsub(b, !square)
		b.WriteByte(' ')
		b.WriteString(e.value.Text)
		b.WriteByte(' ')
		e.args[1].fmtsub(b, !square)
	default:
		panic("symdiff: invalid expression kind " + e.kind.String() + " after writing " + b.String())
	}
}

// fmtsub formats e as an operand, bracketed unless it is a leaf or a call.
func (e *Expression) fmtsub(b *strings.Builder, square bool) {
	switch e.kind {
	case KindNum, KindName, KindCall:
		e.fmt(b, square)
		return
	}
	var l, r byte = '(', ')'
	if square {
		l, r = '[', ']'
	}
	b.WriteByte(l)
	e.fmt(b, square)
	b.WriteByte(r)
}
