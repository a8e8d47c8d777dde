package symdiff

import (
	"io"
	"strings"

	"github.com/zephyrtronium/symdiff/parsec"
)

// program    = statement { end statement }
// statement  = ident '=' expr
// expr       = term { ('+' | '-') term }
// term       = unary { ('*' | '/') unary }
// unary      = '-' unary | '+' unary | power
// power      = atom [ '^' power ]
// atom       = num | call | ident | '(' expr ')' | '[' expr ']' | '{' expr '}'
// call       = ident open [ expr { ',' expr } ] close

// Assignment binds the value of an expression to an output name.
type Assignment struct {
	Name string
	Expr *Expression
}

// Program is a sequence of assignments. Later assignments may refer to the
// outputs of earlier ones.
type Program struct {
	stmts []Assignment
}

// NewProgram creates a program from assignments, copying the list.
func NewProgram(stmts ...Assignment) *Program {
	return &Program{stmts: append([]Assignment(nil), stmts...)}
}

// Assignments returns a copy of the program's assignments in order.
func (p *Program) Assignments() []Assignment {
	return append([]Assignment(nil), p.stmts...)
}

// Outputs returns the names assigned by the program in order.
func (p *Program) Outputs() []string {
	r := make([]string, len(p.stmts))
	for i, s := range p.stmts {
		r[i] = s.Name
	}
	return r
}

// String formats the program with one assignment per line.
func (p *Program) String() string {
	var b strings.Builder
	for i, s := range p.stmts {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.Name)
		b.WriteString(" = ")
		s.Expr.fmt(&b, false)
	}
	return b.String()
}

type binop = func(l, r *Expression) *Expression

type grammar struct {
	expr    parsec.Parser[Token, *Expression]
	single  parsec.Parser[Token, *Expression]
	program parsec.Parser[Token, []Assignment]
}

var syntax = newGrammar()

func kindIs(k TokenKind) func(Token) bool {
	return func(t Token) bool { return t.Kind == k }
}

func newGrammar() *grammar {
	g := new(grammar)
	var (
		expr = parsec.Lazy(func() parsec.Parser[Token, *Expression] { return g.expr })
		num  = parsec.Tag(parsec.Sat(kindIs(TokenNum)), "number")
		id   = parsec.Tag(parsec.Sat(kindIs(TokenIdent)), "identifier")
		sep  = parsec.Literal(Token{TokenSep, ","})
	)
	op := func(text string) parsec.Parser[Token, binop] {
		tok := Token{TokenOp, text}
		return parsec.Map(parsec.Literal(tok), func(Token) binop {
			return func(l, r *Expression) *Expression { return Binary(tok, l, r) }
		})
	}
	// open parses any open bracket and produces the parser for its match.
	open := parsec.Map(parsec.Tag(parsec.Sat(kindIs(TokenOpen)), "open bracket"), func(t Token) parsec.Parser[Token, Token] {
		k := strings.Index(OpenBrackets, t.Text)
		return parsec.Literal(Token{TokenClose, closebrackets[k]})
	})
	closing := func(closer parsec.Parser[Token, Token]) func(*Expression) parsec.Parser[Token, Token] {
		return func(*Expression) parsec.Parser[Token, Token] { return closer }
	}
	group := parsec.Then(open, func(closer parsec.Parser[Token, Token]) parsec.Parser[Token, *Expression] {
		return parsec.FollowedBy(expr, closing(closer))
	})
	// A name followed by an open bracket is a call. Attempt lets a bare name
	// fall through to a variable reference.
	type head struct {
		name   string
		closer parsec.Parser[Token, Token]
	}
	callhead := parsec.Attempt(parsec.Then(id, func(name Token) parsec.Parser[Token, head] {
		return parsec.Map(open, func(closer parsec.Parser[Token, Token]) head { return head{name.Text, closer} })
	}))
	call := parsec.Then(callhead, func(h head) parsec.Parser[Token, *Expression] {
		args := parsec.Map(parsec.SepBy(expr, sep), func(args []*Expression) *Expression { return Call(h.name, args...) })
		return parsec.FollowedBy(args, closing(h.closer))
	})
	atom := parsec.Choice(
		parsec.Map(num, func(t Token) *Expression { return Num(t.Text) }),
		call,
		parsec.Map(id, func(t Token) *Expression { return Name(t.Text) }),
		group,
	)
	power := parsec.Chainr1(atom, op("^"))
	var unary parsec.Parser[Token, *Expression]
	unaryRef := parsec.Lazy(func() parsec.Parser[Token, *Expression] { return unary })
	unary = parsec.Choice(
		parsec.Skip(parsec.Literal(Token{TokenOp, "-"}), parsec.Map(unaryRef, Neg)),
		parsec.Skip(parsec.Literal(Token{TokenOp, "+"}), unaryRef),
		power,
	)
	term := parsec.Chainl1(unary, parsec.Or(op("*"), op("/")))
	g.expr = parsec.Chainl1(term, parsec.Or(op("+"), op("-")))

	end := parsec.End[Token]()
	g.single = parsec.FollowedBy(g.expr, func(*Expression) parsec.Parser[Token, struct{}] { return end })

	target := parsec.Tag(id, "assignment")
	stmt := parsec.Then(target, func(name Token) parsec.Parser[Token, Assignment] {
		rhs := parsec.Map(expr, func(e *Expression) Assignment { return Assignment{Name: name.Text, Expr: e} })
		return parsec.Skip(parsec.Literal(Token{TokenAssign, "="}), rhs)
	})
	stmts := parsec.SepBy1(stmt, parsec.Literal(Token{TokenEnd, ";"}))
	g.program = parsec.FollowedBy(stmts, func([]Assignment) parsec.Parser[Token, struct{}] { return end })
	return g
}

// ParseTokens parses a single expression that must span all of toks.
func ParseTokens(toks []Token) parsec.Result[Token, *Expression] {
	return parsec.Parse(syntax.single, toks)
}

// ParseExpr parses a single expression.
func ParseExpr(src io.RuneScanner) (*Expression, error) {
	toks, cols, err := Lex(src)
	if err != nil {
		return nil, err
	}
	r := parsec.Parse(syntax.single, toks)
	if !r.OK {
		return nil, parseError(r.Err, cols)
	}
	return r.Value, nil
}

// ParseExprString is a shortcut to parse a single expression from a string.
func ParseExprString(src string) (*Expression, error) {
	return ParseExpr(strings.NewReader(src))
}

// Parse parses a program: one or more assignments separated by semicolons or
// newlines. Blank statements are ignored.
func Parse(src io.RuneScanner) (*Program, error) {
	toks, cols, err := Lex(src)
	if err != nil {
		return nil, err
	}
	toks, cols = tidyEnds(toks, cols)
	r := parsec.Parse(syntax.program, toks)
	if !r.OK {
		return nil, parseError(r.Err, cols)
	}
	seen := make(map[string]bool, len(r.Value))
	for _, s := range r.Value {
		if seen[s.Name] {
			return nil, &DuplicateError{Name: s.Name}
		}
		seen[s.Name] = true
	}
	return &Program{stmts: r.Value}, nil
}

// ParseString is a shortcut to parse a program from a string.
func ParseString(src string) (*Program, error) {
	return Parse(strings.NewReader(src))
}

// tidyEnds removes leading, trailing, and repeated statement terminators so
// that the grammar sees exactly one between statements. cols keeps its extra
// end-of-input entry.
func tidyEnds(toks []Token, cols []int) ([]Token, []int) {
	rt := make([]Token, 0, len(toks))
	rc := make([]int, 0, len(cols))
	for i, t := range toks {
		if t.Kind == TokenEnd && (len(rt) == 0 || rt[len(rt)-1].Kind == TokenEnd) {
			continue
		}
		rt = append(rt, t)
		rc = append(rc, cols[i])
	}
	if n := len(rt); n > 0 && rt[n-1].Kind == TokenEnd {
		rt, rc = rt[:n-1], rc[:n-1]
	}
	return rt, append(rc, cols[len(cols)-1])
}

// parseError converts a combinator failure at a token index to an error at a
// source column.
func parseError(info parsec.ErrorInfo, cols []int) *ParseError {
	col := cols[len(cols)-1]
	if info.Pos < len(cols) {
		col = cols[info.Pos]
	}
	return &ParseError{Col: col, Expected: info.Expected, Message: info.Message}
}
