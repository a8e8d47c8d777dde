// Package symdiff parses, differentiates, and evaluates arithmetic
// expressions over streams of data.
//
// A program is a list of assignments separated by semicolons or newlines:
//
//	y = 3*x^2 - 2*x + 1
//	z = sin(y) / y
//
// Operators are +, -, *, /, and ^, with the usual precedence; "-2^2^n" is the
// same as "-(2^(2^n))". Any of (), [], and {} group subexpressions. A name
// immediately followed by a bracket is a function call, e.g. "log(x, 2)".
// Names referred to before they are assigned are inputs, read from each row
// of data or from streams bound to them.
//
// The grammar is built from the combinators in package parsec. Parse errors
// report the furthest position any alternative reached together with every
// alternative that would have been accepted there.
//
// Differentiate and Program.Differentiate compute symbolic derivatives, and
// Simplify folds constants. Compile turns a program into an Evaluator per
// output. Evaluators produce the same results whether they process rows
// sequentially or split them into chunks evaluated concurrently.
package symdiff
