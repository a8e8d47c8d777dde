package symdiff

import (
	"strconv"
	"strings"

	"github.com/zephyrtronium/symdiff/parsec"
)

// ParseError is an error indicating input that does not match the grammar.
// It implements InputError.
type ParseError struct {
	// Col is the position of the token at which parsing failed, or the
	// position just past the end of the input.
	Col int
	// Expected is the sorted set of what the parser would have accepted.
	Expected []string
	// Message describes what was found instead.
	Message string
}

func (err *ParseError) Error() string {
	msg := err.Message
	if msg == "" {
		msg = "syntax error"
	}
	if len(err.Expected) == 0 {
		return errpos(err.Col, msg)
	}
	return errpos(err.Col, msg+"; expected "+parsec.Alternatives(err.Expected))
}

func (err *ParseError) Pos() int {
	return err.Col
}

// CallError is an error indicating a function call with the wrong number of
// arguments. It implements InputError.
type CallError struct {
	// Col is the position of the call, or 0 if unknown.
	Col int
	// Func is the function name that was called.
	Func string
	// Len is the number of arguments in the call.
	Len int
}

func (err *CallError) Error() string {
	return errpos(err.Col, "cannot call "+err.Func+" with "+strconv.Itoa(err.Len)+" arguments")
}

func (err *CallError) Pos() int {
	return err.Col
}

// FuncError is an error indicating a call to a function that is not defined.
type FuncError struct {
	Func string
}

func (err *FuncError) Error() string {
	return "undefined function " + strconv.Quote(err.Func)
}

// DuplicateError is an error indicating that a program assigns the same
// output more than once.
type DuplicateError struct {
	Name string
}

func (err *DuplicateError) Error() string {
	return "duplicate assignment to " + strconv.Quote(err.Name)
}

// DiffError is an error indicating an expression that cannot be
// differentiated.
type DiffError struct {
	// Expr is the subexpression with no derivative rule.
	Expr *Expression
	// Reason describes the problem.
	Reason string
}

func (err *DiffError) Error() string {
	var b strings.Builder
	b.WriteString("cannot differentiate ")
	b.WriteString(err.Expr.String())
	if err.Reason != "" {
		b.WriteString(": ")
		b.WriteString(err.Reason)
	}
	return b.String()
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	if pos <= 0 {
		return msg
	}
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input text implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*ParseError)(nil)
	_ InputError = (*CallError)(nil)
	_ InputError = (*LexError)(nil)
)
