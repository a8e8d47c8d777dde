package symdiff

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a lexical unit of an expression. Tokens compare equal when they
// have the same kind and text; source positions are reported separately by
// Lex.
type Token struct {
	Kind TokenKind
	Text string
}

// String formats the token's text quoted, for use in parse errors.
func (t Token) String() string {
	return strconv.Quote(t.Text)
}

// TokenKind is the lexical class of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNum is a real number literal, including inf.
	TokenNum
	// TokenIdent is a variable or function name.
	TokenIdent
	// TokenOp is an arithmetic operator.
	TokenOp
	// TokenOpen is an open bracket, e.g. (.
	TokenOpen
	// TokenClose is a close bracket, e.g. ).
	TokenClose
	// TokenSep separates function arguments.
	TokenSep
	// TokenAssign is the = of an assignment.
	TokenAssign
	// TokenEnd ends a statement. It is a semicolon or a newline.
	TokenEnd
)

var tokenKindNames = [...]string{"None", "Num", "Ident", "Op", "Open", "Close", "Sep", "Assign", "End"}

func (k TokenKind) String() string {
	if k < 0 || int(k) >= len(tokenKindNames) {
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenKindNames[k]
}

// Operators contains the runes which are considered to be operators. × and ÷
// are lexed as * and /.
const Operators = "+-*/^×÷"

// OpenBrackets and CloseBrackets contain the runes which group expressions.
// The parser checks that a bracket in byte position k in OpenBrackets is
// matched with the bracket in byte position k in CloseBrackets.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

func byteidcs(s string) []string {
	v := make([]string, len(s))
	for i, r := range s {
		v[i] = string(r)
	}
	return v
}

var (
	operstrs      = byteidcs(Operators)
	openbrackets  = byteidcs(OpenBrackets)
	closebrackets = byteidcs(CloseBrackets)
)

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
}

// Lex scans all tokens from src. The second result holds the 1-based rune
// column of each token, plus one more entry for the column just past the end
// of the input, so that it always has one more element than the tokens.
func Lex(src io.RuneScanner) ([]Token, []int, error) {
	l := lexer{src: src, rune: 1}
	var (
		toks []Token
		cols []int
	)
	for {
		tok, col, err := l.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, append(cols, col), nil
			}
			return nil, nil, err
		}
		toks = append(toks, tok)
		cols = append(cols, col)
	}
}

// LexString is a shortcut to lex a string.
func LexString(src string) ([]Token, []int, error) {
	return Lex(strings.NewReader(src))
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.rune++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.rune--
}

// next scans the next token from the input along with its column. At the end
// of the input, the error is io.EOF and the column is one past the last rune.
func (l *lexer) next() (Token, int, error) {
	defer l.buf.Reset()
	pos := l.rune
	var tok Token
	for {
		r, err := l.readRune()
		if err != nil {
			return tok, pos, err
		}
		switch {
		case r == '\n':
			tok.Kind, tok.Text = TokenEnd, ";"
			return tok, pos, nil
		case unicode.IsSpace(r):
			pos++
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(); err != nil {
				return tok, pos, err
			}
			tok.Kind, tok.Text = TokenNum, l.buf.String()
			return tok, pos, nil
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			if err := l.scanIdent(); err != nil {
				return tok, pos, err
			}
			tok.Text = l.buf.String()
			// inf looks like an identifier, so check for it here.
			switch tok.Text {
			case "inf", "Inf":
				tok.Kind = TokenNum
			default:
				tok.Kind = TokenIdent
			}
			return tok, pos, nil
		case r == '∞':
			tok.Kind, tok.Text = TokenNum, "inf"
			return tok, pos, nil
		case r == ',':
			tok.Kind, tok.Text = TokenSep, ","
			return tok, pos, nil
		case r == ';':
			tok.Kind, tok.Text = TokenEnd, ";"
			return tok, pos, nil
		case r == '=':
			tok.Kind, tok.Text = TokenAssign, "="
			return tok, pos, nil
		case r == '×':
			tok.Kind, tok.Text = TokenOp, "*"
			return tok, pos, nil
		case r == '÷':
			tok.Kind, tok.Text = TokenOp, "/"
			return tok, pos, nil
		default:
			if k := strings.IndexRune(Operators, r); k >= 0 {
				tok.Kind, tok.Text = TokenOp, operstrs[k]
				return tok, pos, nil
			}
			if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
				tok.Kind, tok.Text = TokenOpen, openbrackets[k]
				return tok, pos, nil
			}
			if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
				tok.Kind, tok.Text = TokenClose, closebrackets[k]
				return tok, pos, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, pos, l.error("")
		}
	}
}

func (l *lexer) scanNum() error {
	var dig, dot, e, le, ed bool
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if unicode.IsSpace(r) {
			l.unreadRune()
			break
		}
		if r == '+' || r == '-' {
			// + or - anywhere other than immediately following an exponent
			// marker means a new token, as it is an operator.
			if !le {
				l.unreadRune()
				break
			}
			le = false
			l.buf.WriteRune(r)
			continue
		}
		if strings.ContainsRune(Operators+OpenBrackets+CloseBrackets+",;=", r) {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
		switch r {
		case '.':
			if dot || e {
				return l.error("number")
			}
			dot = true
			le = false
		case 'e', 'E':
			if !dig || e {
				return l.error("number")
			}
			e = true
			le = true
		case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
			if e {
				ed = true
			} else {
				dig = true
			}
			le = false
		default:
			return l.error("number")
		}
	}
	if (!dig && !ed) || (e && !ed) {
		return l.error("number")
	}
	return nil
}

func (l *lexer) scanIdent() error {
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// next unreads the rune that decides ident scanning before
				// calling scanIdent, so we have scanned at least one rune.
				return nil
			}
			return err
		}
		switch {
		case r == '_', r == '.', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return nil
		}
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number"
	// or the empty string (if a token kind hadn't been decided).
	Kind string
	// Col is the total number of runes scanned by the lexer up to and
	// including this error.
	Col int
}

func (err *LexError) Error() string {
	pos := "column " + strconv.Itoa(err.Col)
	if err.Kind == "" {
		return "invalid token at " + pos + ": " + err.Text
	}
	return "invalid " + err.Kind + " token at " + pos + ": " + err.Text
}

func (err *LexError) Pos() int {
	return err.Col
}
