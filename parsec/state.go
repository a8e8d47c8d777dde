package parsec

// State is a position in an input token sequence. A State is immutable;
// advancing produces a new State.
type State[K comparable] struct {
	pos   int
	input []K
}

// NewState creates a State at the start of input. The parsers never modify
// input, and neither should the caller while any State refers to it.
func NewState[K comparable](input []K) State[K] {
	return State[K]{input: input}
}

// Pos returns the index of the next token.
func (s State[K]) Pos() int {
	return s.pos
}

// Len returns the number of tokens remaining.
func (s State[K]) Len() int {
	return len(s.input) - s.pos
}

// AtEnd returns whether all input has been consumed.
func (s State[K]) AtEnd() bool {
	return s.pos >= len(s.input)
}

// Peek returns the next token without consuming it. The second result is
// false at the end of input.
func (s State[K]) Peek() (K, bool) {
	if s.AtEnd() {
		var zero K
		return zero, false
	}
	return s.input[s.pos], true
}

// Remaining returns a copy of the unconsumed input.
func (s State[K]) Remaining() []K {
	if s.AtEnd() {
		return nil
	}
	return append([]K(nil), s.input[s.pos:]...)
}

// next advances past one token. The caller must check AtEnd first.
func (s State[K]) next() State[K] {
	return State[K]{pos: s.pos + 1, input: s.input}
}
