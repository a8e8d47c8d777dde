// Package parsec implements parser combinators over sequences of comparable
// tokens.
//
// A Parser is a function from a State to a Consumed result. Parsers never
// share mutable state: a State is a value holding a position into an
// immutable input, and every alternative of a choice works from its own copy.
//
// Failures come in two strengths. A soft failure consumed no input, and Or may
// try the next alternative. A committed failure consumed input, and Or
// returns it unchanged. Attempt turns a committed failure into a soft one so
// that a partially matched branch can be backtracked over.
//
// Errors are ordinary values. Each Result carries an ErrorInfo describing the
// furthest position any attempted alternative reached along with everything
// that would have been accepted there, even when the parse succeeds, so that
// a later failure can report what an earlier optional parser was looking for.
package parsec
