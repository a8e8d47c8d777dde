package symdiff

import (
	"errors"
	"reflect"
	"testing"
)

func TestLex(t *testing.T) {
	type tc struct {
		kind TokenKind
		text string
		col  int
	}
	cases := []struct {
		src    string
		tokens []tc
		end    int
	}{
		// spaces
		{"", nil, 1},
		{" \t \r\n ", []tc{{TokenEnd, ";", 5}}, 7},
		// numbers
		{"0", []tc{{TokenNum, "0", 1}}, 2},
		{"9876543210", []tc{{TokenNum, "9876543210", 1}}, 11},
		{"1 0", []tc{{TokenNum, "1", 1}, {TokenNum, "0", 3}}, 4},
		{"1.0", []tc{{TokenNum, "1.0", 1}}, 4},
		{"-1", []tc{{TokenOp, "-", 1}, {TokenNum, "1", 2}}, 3},
		{"1e1", []tc{{TokenNum, "1e1", 1}}, 4},
		{"1e+1", []tc{{TokenNum, "1e+1", 1}}, 5},
		{"1e-1", []tc{{TokenNum, "1e-1", 1}}, 5},
		{"1.0e1", []tc{{TokenNum, "1.0e1", 1}}, 6},
		{".1", []tc{{TokenNum, ".1", 1}}, 3},
		{".1e1", []tc{{TokenNum, ".1e1", 1}}, 5},
		{"1+0", []tc{{TokenNum, "1", 1}, {TokenOp, "+", 2}, {TokenNum, "0", 3}}, 4},
		{"1*0", []tc{{TokenNum, "1", 1}, {TokenOp, "*", 2}, {TokenNum, "0", 3}}, 4},
		{"(1)", []tc{{TokenOpen, "(", 1}, {TokenNum, "1", 2}, {TokenClose, ")", 3}}, 4},
		{"inf", []tc{{TokenNum, "inf", 1}}, 4},
		{"Inf", []tc{{TokenNum, "Inf", 1}}, 4},
		{"∞", []tc{{TokenNum, "inf", 1}}, 2},
		// identifiers
		{"e", []tc{{TokenIdent, "e", 1}}, 2},
		{"e1", []tc{{TokenIdent, "e1", 1}}, 3},
		{"π", []tc{{TokenIdent, "π", 1}}, 2},
		{"eπ", []tc{{TokenIdent, "eπ", 1}}, 3},
		{"_1234_", []tc{{TokenIdent, "_1234_", 1}}, 7},
		{"a.b", []tc{{TokenIdent, "a.b", 1}}, 4},
		{"e(", []tc{{TokenIdent, "e", 1}, {TokenOpen, "(", 2}}, 3},
		// operators
		{"+", []tc{{TokenOp, "+", 1}}, 2},
		{"++", []tc{{TokenOp, "+", 1}, {TokenOp, "+", 2}}, 3},
		{"a--b", []tc{{TokenIdent, "a", 1}, {TokenOp, "-", 2}, {TokenOp, "-", 3}, {TokenIdent, "b", 4}}, 5},
		{"2×3", []tc{{TokenNum, "2", 1}, {TokenOp, "*", 2}, {TokenNum, "3", 3}}, 4},
		{"2÷3", []tc{{TokenNum, "2", 1}, {TokenOp, "/", 2}, {TokenNum, "3", 3}}, 4},
		{"x^2", []tc{{TokenIdent, "x", 1}, {TokenOp, "^", 2}, {TokenNum, "2", 3}}, 4},
		// brackets
		{"()", []tc{{TokenOpen, "(", 1}, {TokenClose, ")", 2}}, 3},
		{"[]", []tc{{TokenOpen, "[", 1}, {TokenClose, "]", 2}}, 3},
		{"{}", []tc{{TokenOpen, "{", 1}, {TokenClose, "}", 2}}, 3},
		// separators and statements
		{"f(x, y)", []tc{{TokenIdent, "f", 1}, {TokenOpen, "(", 2}, {TokenIdent, "x", 3}, {TokenSep, ",", 4}, {TokenIdent, "y", 6}, {TokenClose, ")", 7}}, 8},
		{"x=2", []tc{{TokenIdent, "x", 1}, {TokenAssign, "=", 2}, {TokenNum, "2", 3}}, 4},
		{"x=1;y", []tc{{TokenIdent, "x", 1}, {TokenAssign, "=", 2}, {TokenNum, "1", 3}, {TokenEnd, ";", 4}, {TokenIdent, "y", 5}}, 6},
		{"1\n2", []tc{{TokenNum, "1", 1}, {TokenEnd, ";", 2}, {TokenNum, "2", 3}}, 4},
	}
	for _, c := range cases {
		toks, cols, err := LexString(c.src)
		if err != nil {
			t.Errorf("lexing %q: unexpected error %v", c.src, err)
			continue
		}
		if len(cols) != len(toks)+1 {
			t.Errorf("lexing %q: %d tokens but %d columns", c.src, len(toks), len(cols))
			continue
		}
		got := make([]tc, len(toks))
		for i, tok := range toks {
			got[i] = tc{tok.Kind, tok.Text, cols[i]}
		}
		if len(got) == 0 {
			got = nil
		}
		if !reflect.DeepEqual(got, c.tokens) {
			t.Errorf("lexing %q: want %v, got %v", c.src, c.tokens, got)
		}
		if cols[len(cols)-1] != c.end {
			t.Errorf("lexing %q: want end column %d, got %d", c.src, c.end, cols[len(cols)-1])
		}
	}
}

func TestLexErrors(t *testing.T) {
	cases := []struct {
		src  string
		text string
		kind string
	}{
		{"1e", "1e", "number"},
		{"1.1.1", "1.1.", "number"},
		{".", ".", "number"},
		{"1a", "1a", "number"},
		{"0$", "0$", "number"},
		{"$", "$", ""},
		{"a$", "$", ""},
		{"$a", "$", ""},
		{"x = 1 # comment", "#", ""},
	}
	for _, c := range cases {
		toks, _, err := LexString(c.src)
		if err == nil {
			t.Errorf("lexing %q: no error, got tokens %v", c.src, toks)
			continue
		}
		var lerr *LexError
		if !errors.As(err, &lerr) {
			t.Errorf("lexing %q: error %#v is not a *LexError", c.src, err)
			continue
		}
		if lerr.Text != c.text || lerr.Kind != c.kind {
			t.Errorf("lexing %q: want text %q kind %q, got %q %q", c.src, c.text, c.kind, lerr.Text, lerr.Kind)
		}
		var ierr InputError = lerr
		if ierr.Pos() < 1 {
			t.Errorf("lexing %q: bad error position %d", c.src, ierr.Pos())
		}
	}
}
