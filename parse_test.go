package symdiff

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseTrees(t *testing.T) {
	cases := []struct {
		name string
		a, b string
	}{
		{"paren", "(x)", "x"},
		{"square", "[x]", "x"},
		{"curly", "{x}", "x"},
		{"multi", "([{{[((x))]}}])", "x"},

		{"plus", "+x", "x"},
		{"neg", "-x", "(-(x))"},
		{"negnum", "-1", "(-(1))"},
		{"add", "x+y", "((x)+(y))"},
		{"sub", "x-y", "((x)-(y))"},
		{"mul", "x*y", "((x)*(y))"},
		{"div", "x/y", "((x)/(y))"},
		{"pow", "x^y", "((x)^(y))"},
		{"altmul", "x×y", "x*y"},
		{"altdiv", "x÷y", "x/y"},

		{"call0", "zero()", "zero[]"},
		{"call1", "one(x)", "one{x}"},
		{"call5", "five(a, b, c, d, e)", "five[a, b, c, d, e]"},
		{"call-nested", "f(g(x), y+1)", "f((g(x)), ((y)+(1)))"},

		{"add4", "w+x+y+z", "((w+x)+y)+z"},
		{"sub4", "w-x-y-z", "((w-x)-y)-z"},
		{"mul4", "w*x*y*z", "((w*x)*y)*z"},
		{"div4", "w/x/y/z", "((w/x)/y)/z"},
		{"pow4", "w^x^y^z", "w^(x^(y^z))"},

		{"negpow", "-1^n", "-(1^n)"},
		{"desc", "w^x*y+z", "((w^x)*y)+z"},
		{"asc", "w+x*y^z", "w+(x*(y^z))"},
		{"descasc", "w^x*y+z+a*b^c", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c", "w+((x*(y^(z^a)))*b)+c"},
		{"negneg", "--x", "-(-x)"},
		{"negsub", "-x-x", "(-x)-x"},
		{"mulneg", "2*-x", "2*(-x)"},
		{"powneg", "x^(-1)", "x^[-1]"},
		{"callpow", "sin(x)^2", "(sin(x))^2"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseExprString(c.a)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.a, err)
			}
			b, err := ParseExprString(c.b)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.b, err)
			}
			if !a.Equal(b) {
				t.Errorf("mismatched AST:\n\t%q parses %v\n\t%q parses %v", c.a, a, c.b, b)
			}
		})
	}
}

func TestParseExact(t *testing.T) {
	x, y := Name("x"), Name("y")
	cases := []struct {
		name string
		src  string
		e    *Expression
	}{
		{"num", "1.5e3", Num("1.5e3")},
		{"inf", "∞", Num("inf")},
		{"name", "x", x},
		{"neg", "-x", Neg(x)},
		{"add", "x+1", Add(x, Num("1"))},
		{"left", "1-2-3", Sub(Sub(Num("1"), Num("2")), Num("3"))},
		{"right", "2^3^4", Pow(Num("2"), Pow(Num("3"), Num("4")))},
		{"prec", "x+y*2", Add(x, Mul(y, Num("2")))},
		{"negpow", "-2^2", Neg(Pow(Num("2"), Num("2")))},
		{"call", "log(x, 2)", Call("log", x, Num("2"))},
		{"call0", "pi()", Call("pi")},
		{"callexpr", "f(x*y)", Call("f", Mul(x, y))},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := ParseExprString(c.src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			if !e.Equal(c.e) {
				t.Errorf("%q parsed to %v, want %v", c.src, e, c.e)
			}
		})
	}
}

func TestExprString(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{"num", "1", "1"},
		{"add", "1+2+3", "[1 + 2] + 3"},
		{"nest", "(a+b*c)*d", "[a + (b * c)] * d"},
		{"neg", "-x", "-x"},
		{"mulneg", "2*-x", "2 * [-x]"},
		{"call", "log(x, 2)", "log(x, 2)"},
		{"callexpr", "f(x+1)", "f(x + 1)"},
		{"pow", "x^2", "x ^ 2"},
		{"alt", "x×y÷z", "[x * y] / z"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseExprString(c.src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			s := a.String()
			if s != c.want {
				t.Errorf("%q formatted as %q, want %q", c.src, s, c.want)
			}
			b, err := ParseExprString(s)
			if err != nil {
				t.Fatalf("failed to parse formatted %q: %v", s, err)
			}
			if !a.Equal(b) {
				t.Errorf("mismatched AST:\n\t%q parses %v\n\t%q parses %v", c.src, a, s, b)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	operand := []string{`"+"`, `"-"`, "identifier", "number", "open bracket"}
	cases := []struct {
		name string
		src  string
		col  int
		exp  []string
		res  []string
	}{
		{"empty", "", 1, operand, []string{`(?i)\bend of input\b`}},
		{"operand", "1 +", 4, operand, []string{`(?i)\bend of input\b`}},
		{"binary", "*x", 1, operand, []string{`"\*"`}},
		{"unclosed", "(1", 3, []string{`")"`, `"*"`, `"+"`, `"-"`, `"/"`, `"^"`}, []string{`(?i)\bend of input\b`}},
		{"mismatch", "(1]", 3, []string{`")"`, `"*"`, `"+"`, `"-"`, `"/"`, `"^"`}, []string{`"]"`}},
		{"call-mismatch", "f(x}", 4, []string{`")"`, `"*"`, `"+"`, `","`, `"-"`, `"/"`, `"^"`}, []string{`"}"`}},
		{"trailing", "1 2", 3, []string{`"*"`, `"+"`, `"-"`, `"/"`, `"^"`, "end of input"}, []string{`"2"`}},
		{"sep", "f(x,)", 5, operand, []string{`"\)"`}},
		{"leading-sep", "f(,x)", 3, []string{`")"`, `"+"`, `"-"`, "identifier", "number", "open bracket"}, []string{`","`}},
		{"stray-close", "x)", 2, []string{`"*"`, `"+"`, `"-"`, `"/"`, `"^"`, "end of input"}, []string{`"\)"`}},
		{"assign", "x = 1", 3, []string{`"*"`, `"+"`, `"-"`, `"/"`, `"^"`, "end of input"}, []string{`"="`}},
		{"newline", "1\n2", 2, []string{`"*"`, `"+"`, `"-"`, `"/"`, `"^"`, "end of input"}, []string{`";"`}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			a, err := ParseExprString(c.src)
			if a != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, a)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("wrong error type from %q: want *ParseError, got %T", c.src, err)
			}
			if perr.Col != c.col {
				t.Errorf("%q: want error at column %d, got %d", c.src, c.col, perr.Col)
			}
			if diff := cmp.Diff(c.exp, perr.Expected); diff != "" {
				t.Errorf("%q: wrong expected set (-want +got):\n%s", c.src, diff)
			}
			msg := err.Error()
			for _, re := range c.res {
				if !regexp.MustCompile(re).MatchString(msg) {
					t.Errorf("error message %q does not match %s", msg, re)
				}
			}
		})
	}
}

func TestParseLexError(t *testing.T) {
	_, err := ParseExprString("2^exp(-$)")
	var lerr *LexError
	if !errors.As(err, &lerr) {
		t.Fatalf("want *LexError, got %#v", err)
	}
	if !strings.Contains(err.Error(), "$") {
		t.Errorf("error message %q does not mention $", err.Error())
	}
}

func TestParseTokens(t *testing.T) {
	toks, _, err := LexString("a*(b+c)")
	if err != nil {
		t.Fatal(err)
	}
	r := ParseTokens(toks)
	if !r.OK {
		t.Fatalf("failed to parse: %v", r.Err)
	}
	if !r.Rest.AtEnd() {
		t.Errorf("parse stopped at %d of %d tokens", r.Rest.Pos(), len(toks))
	}
	want := Mul(Name("a"), Add(Name("b"), Name("c")))
	if !r.Value.Equal(want) {
		t.Errorf("parsed %v, want %v", r.Value, want)
	}

	toks, _, err = LexString("a*(b+c")
	if err != nil {
		t.Fatal(err)
	}
	r = ParseTokens(toks)
	if r.OK {
		t.Fatalf("parsed unclosed bracket to %v", r.Value)
	}
	// The furthest alternative reached the end of the input.
	if r.Err.Pos != len(toks) {
		t.Errorf("error at token %d, want %d", r.Err.Pos, len(toks))
	}
}

func TestParseProgram(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want []Assignment
	}{
		{"one", "y = x", []Assignment{{"y", Name("x")}}},
		{"semis", "a = 1; b = a*2", []Assignment{{"a", Num("1")}, {"b", Mul(Name("a"), Num("2"))}}},
		{"lines", "a = 1\nb = 2\n", []Assignment{{"a", Num("1")}, {"b", Num("2")}}},
		{"blanks", "\n\n;a = 1;;\n; b = 2;\n\n", []Assignment{{"a", Num("1")}, {"b", Num("2")}}},
		{"reassign-input", "x = x + 1", []Assignment{{"x", Add(Name("x"), Num("1"))}}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := ParseString(c.src)
			if err != nil {
				t.Fatalf("failed to parse %q: %v", c.src, err)
			}
			if diff := cmp.Diff(c.want, p.Assignments()); diff != "" {
				t.Errorf("%q: wrong assignments (-want +got):\n%s", c.src, diff)
			}
			q, err := ParseString(p.String())
			if err != nil {
				t.Fatalf("failed to parse formatted %q: %v", p.String(), err)
			}
			if diff := cmp.Diff(p.Assignments(), q.Assignments()); diff != "" {
				t.Errorf("%q: formatting changed program (-want +got):\n%s", c.src, diff)
			}
		})
	}
}

func TestParseProgramErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		col  int
		exp  []string
	}{
		{"empty", "", 1, []string{"assignment"}},
		{"blank", "\n;\n", 4, []string{"assignment"}},
		{"bare", "x + 1", 3, []string{`"="`}},
		{"target", "1 = 2", 1, []string{"assignment"}},
		{"missing-end", "x = 1 y = 2", 7, []string{`"*"`, `"+"`, `"-"`, `"/"`, `";"`, `"^"`, "end of input"}},
		{"dangling", "x = 1; y =", 11, []string{`"+"`, `"-"`, "identifier", "number", "open bracket"}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p, err := ParseString(c.src)
			if p != nil {
				t.Errorf("%q parsed non-nil to %v", c.src, p)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("wrong error type from %q: want *ParseError, got %T", c.src, err)
			}
			if perr.Col != c.col {
				t.Errorf("%q: want error at column %d, got %d", c.src, c.col, perr.Col)
			}
			if diff := cmp.Diff(c.exp, perr.Expected); diff != "" {
				t.Errorf("%q: wrong expected set (-want +got):\n%s", c.src, diff)
			}
		})
	}
}

func TestParseDuplicate(t *testing.T) {
	_, err := ParseString("x = 1; y = 2; x = 3")
	var derr *DuplicateError
	if !errors.As(err, &derr) {
		t.Fatalf("want *DuplicateError, got %#v", err)
	}
	if derr.Name != "x" {
		t.Errorf("duplicate reported for %q, want x", derr.Name)
	}
}

func TestProgramAccessors(t *testing.T) {
	p := NewProgram(Assignment{"a", Num("1")}, Assignment{"b", Name("a")})
	if got := p.Outputs(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("wrong outputs %q", got)
	}
	s := p.Assignments()
	s[0].Name = "z"
	if p.Outputs()[0] != "a" {
		t.Error("modifying Assignments result modified the program")
	}
	if got, want := p.String(), "a = 1\nb = a"; got != want {
		t.Errorf("formatted as %q, want %q", got, want)
	}
}

func TestTidyEnds(t *testing.T) {
	end := Token{TokenEnd, ";"}
	x := Token{TokenIdent, "x"}
	cases := []struct {
		name     string
		toks     []Token
		cols     []int
		wantToks []Token
		wantCols []int
	}{
		{"empty", nil, []int{1}, []Token{}, []int{1}},
		{"only", []Token{end, end}, []int{1, 2, 3}, []Token{}, []int{3}},
		{"none", []Token{x}, []int{1, 2}, []Token{x}, []int{1, 2}},
		{"edges", []Token{end, x, end}, []int{1, 2, 3, 4}, []Token{x}, []int{2, 4}},
		{"runs", []Token{x, end, end, end, x}, []int{1, 2, 3, 4, 5, 6}, []Token{x, end, x}, []int{1, 2, 5, 6}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			toks, cols := tidyEnds(c.toks, c.cols)
			if diff := cmp.Diff(c.wantToks, toks); diff != "" {
				t.Errorf("wrong tokens (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(c.wantCols, cols); diff != "" {
				t.Errorf("wrong columns (-want +got):\n%s", diff)
			}
		})
	}
}

func BenchmarkParse(b *testing.B) {
	cases := []struct {
		name string
		src  string
	}{
		{"descasc", "w^x*y+z+a*b^c"},
		{"descasc-parens", "(((w^x)*y)+z)+a*(b^c)"},
		{"ascdesc", "w+x*y^z^a*b+c"},
		{"ascdesc-parens", "w+((x*(y^(z^a)))*b)+c"},
		{"descasc-nums", "1^1.1*1.1e1+1.1e-1+.1*inf^∞"},
		{"ascdesc-nums", "1+1.1*1.1e1^1.1e-1^.1*inf+∞"},
		{"call0", "pi()"},
		{"call5", "five(a, b, c, d, e)"},
	}
	for _, c := range cases {
		b.Run(c.name, func(b *testing.B) {
			b.ReportAllocs()
			var src strings.Reader
			for i := 0; i < b.N; i++ {
				src.Reset(c.src)
				ParseExpr(&src)
			}
		})
	}
}
