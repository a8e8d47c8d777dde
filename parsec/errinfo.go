package parsec

import (
	"slices"
	"strconv"
	"strings"
)

// ErrorInfo describes why a parse stopped where it did.
type ErrorInfo struct {
	// Pos is the index of the token at which the failure was detected.
	Pos int
	// Expected is the sorted set of labels of what would have been accepted
	// at Pos.
	Expected []string
	// Message describes what was found instead, e.g. "unexpected end of
	// input".
	Message string
}

// Merge combines two error descriptions. The one reaching further into the
// input wins outright. At equal positions the expected sets are unioned and
// the receiver's message is kept unless it is empty.
func (e ErrorInfo) Merge(o ErrorInfo) ErrorInfo {
	switch {
	case e.Pos > o.Pos:
		return e
	case o.Pos > e.Pos:
		return o
	}
	r := ErrorInfo{Pos: e.Pos, Message: e.Message}
	if r.Message == "" {
		r.Message = o.Message
	}
	r.Expected = union(e.Expected, o.Expected)
	return r
}

// Expect returns e with its expected set replaced by labels.
func (e ErrorInfo) Expect(labels ...string) ErrorInfo {
	e.Expected = union(labels, nil)
	return e
}

// Error formats the description as an error message.
func (e ErrorInfo) Error() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(e.Pos))
	b.WriteString(": ")
	if e.Message != "" {
		b.WriteString(e.Message)
	} else {
		b.WriteString("parse error")
	}
	if len(e.Expected) > 0 {
		b.WriteString("; expected ")
		b.WriteString(Alternatives(e.Expected))
	}
	return b.String()
}

// Alternatives joins labels as an English list of alternatives: "a", "a or
// b", "a, b or c".
func Alternatives(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	}
	return strings.Join(labels[:len(labels)-1], ", ") + " or " + labels[len(labels)-1]
}

// union returns the sorted, deduplicated union of a and b in a new slice.
// The result is nil if both are empty.
func union(a, b []string) []string {
	if len(a)+len(b) == 0 {
		return nil
	}
	r := make([]string, 0, len(a)+len(b))
	r = append(r, a...)
	r = append(r, b...)
	slices.Sort(r)
	return slices.Compact(r)
}
