package calc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is an integer or real literal.
	tokenNum
	// tokenImag is a number with an imaginary suffix, e.g. 1j.
	tokenImag
	// tokenIdent is a name or keyword. None are evaluable.
	tokenIdent
	// tokenString is a quoted string literal.
	tokenString
	// tokenOp is an operator, whether or not the parser accepts it.
	tokenOp
	// tokenOpen is an open bracket, e.g. (.
	tokenOpen
	// tokenClose is a close bracket, e.g. ).
	tokenClose
	// tokenSep is one of , ; :.
	tokenSep
	// tokenDot is a . not belonging to a number.
	tokenDot
)

var tokenNames = [...]string{
	tokenNone:   "None",
	tokenEOF:    "EOF",
	tokenNum:    "Num",
	tokenImag:   "Imag",
	tokenIdent:  "Ident",
	tokenString: "String",
	tokenOp:     "Op",
	tokenOpen:   "Open",
	tokenClose:  "Close",
	tokenSep:    "Sep",
	tokenDot:    "Dot",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// Operators contains the runes which begin operator tokens. Not every
// operator spelled with these runes is evaluable; see Parse.
const Operators = "+-*/%×÷<>=!&|^~@"

// OpenBrackets and CloseBrackets contain the bracket runes. Only round
// brackets group subexpressions.
const (
	OpenBrackets  = "([{"
	CloseBrackets = ")]}"
)

// digraphs maps the first rune of a two-rune operator to the runes that may
// follow it.
var digraphs = map[rune]string{
	'*': "*",
	'/': "/",
	'<': "<=",
	'>': ">=",
	'=': "=",
	'!': "=",
	':': "=",
}

type lexer struct {
	src  io.RuneScanner
	buf  strings.Builder
	rune int
	p    lexToken
	eof  bool
	// err is a read error other than EOF encountered while looking ahead.
	err error
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{
		src:  src,
		rune: 1,
	}
}

// push unreads a token so that it is the next token returned from next. Panics
// if there is already a pushed token.
func (l *lexer) push(tok lexToken) {
	if l.p.kind != tokenNone {
		panic("calc: double push")
	}
	l.p = tok
}

// must scans the pushed token. Panics if there is no pushed token.
func (l *lexer) must() lexToken {
	tok := l.p
	if tok.kind == tokenNone {
		panic("calc: no pushed token")
	}
	l.p = lexToken{}
	return tok
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

// peek reads the next rune. If there is none, the result is -1. Read errors
// other than EOF are kept in l.err.
func (l *lexer) peek() rune {
	r, err := l.readRune()
	if err != nil {
		if !errors.Is(err, io.EOF) && l.err == nil {
			l.err = err
		}
		return -1
	}
	return r
}

// accept consumes the next rune into the buffer if it is in valid.
func (l *lexer) accept(valid string) bool {
	r := l.peek()
	if r < 0 {
		return false
	}
	if !strings.ContainsRune(valid, r) {
		l.unreadRune()
		return false
	}
	l.buf.WriteRune(r)
	return true
}

// next scans the next token from the input. The first time EOF is encountered
// before any non-whitespace characters, the result is an EOF token with a nil
// error. Subsequent times, if the EOF token is not pushed, the result is an
// empty token with io.EOF. Whitespace runes in wseof are treated as EOF.
func (l *lexer) next(wseof string) (lexToken, error) {
	if l.p.kind != tokenNone {
		tok := l.p
		l.p = lexToken{}
		return tok, nil
	}
	if l.eof {
		return lexToken{}, io.EOF
	}
	defer l.buf.Reset()
	tok := lexToken{pos: l.rune}
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			if strings.ContainsRune(wseof, r) {
				tok.kind = tokenEOF
				l.eof = true
				return tok, nil
			}
			tok.pos++
			continue
		case '0' <= r && r <= '9':
			l.unreadRune()
			kind, err := l.scanNum()
			if err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = kind
			return tok, nil
		case r == '.':
			// .5 is a number, but . followed by anything else is attribute
			// access or garbage.
			d := l.peek()
			if d >= 0 {
				l.unreadRune()
			}
			if '0' <= d && d <= '9' {
				l.buf.WriteRune(r)
				kind, err := l.scanFrac()
				if err != nil {
					return tok, err
				}
				tok.text = l.buf.String()
				tok.kind = kind
				return tok, nil
			}
			tok.text = "."
			tok.kind = tokenDot
			return tok, l.err
		case r == '_', unicode.IsLetter(r):
			l.unreadRune()
			l.scanIdent()
			tok.text = l.buf.String()
			tok.kind = tokenIdent
			return tok, l.err
		case r == '\'', r == '"':
			l.buf.WriteRune(r)
			if err := l.scanString(r); err != nil {
				return tok, err
			}
			tok.text = l.buf.String()
			tok.kind = tokenString
			return tok, nil
		case r == ',', r == ';':
			tok.text = string(r)
			tok.kind = tokenSep
			return tok, nil
		case r == ':':
			l.buf.WriteRune(r)
			if l.accept(digraphs[r]) {
				tok.text = l.buf.String()
				tok.kind = tokenOp
				return tok, l.err
			}
			tok.text = ":"
			tok.kind = tokenSep
			return tok, l.err
		default:
			if strings.ContainsRune(Operators, r) {
				l.buf.WriteRune(r)
				if more, ok := digraphs[r]; ok {
					l.accept(more)
				}
				if l.buf.String() == "!" {
					// Only != begins with !.
					return tok, l.error("operator")
				}
				tok.text = l.buf.String()
				tok.kind = tokenOp
				return tok, l.err
			}
			if k := strings.IndexRune(OpenBrackets, r); k >= 0 {
				tok.text = string(r)
				tok.kind = tokenOpen
				return tok, nil
			}
			if k := strings.IndexRune(CloseBrackets, r); k >= 0 {
				tok.text = string(r)
				tok.kind = tokenClose
				return tok, nil
			}
			// Write the rune so that it shows up in the error message.
			l.buf.WriteRune(r)
			return tok, l.error("")
		}
	}
}

func isdec(r rune) bool { return '0' <= r && r <= '9' }
func isbin(r rune) bool { return r == '0' || r == '1' }
func isoct(r rune) bool { return '0' <= r && r <= '7' }
func ishex(r rune) bool {
	return '0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F'
}

// digits scans a run of digits in which single underscores may separate
// digits. If lead is true, an underscore may also precede the first digit.
// It returns the number of digits scanned.
func (l *lexer) digits(isdig func(rune) bool, lead bool) (int, error) {
	n := 0
	under := false
	for {
		r := l.peek()
		switch {
		case r < 0:
			if under {
				return n, l.error("number")
			}
			return n, l.err
		case isdig(r):
			l.buf.WriteRune(r)
			n++
			under = false
		case r == '_' && !under && (n > 0 || lead):
			l.buf.WriteRune(r)
			under = true
		default:
			if under || r == '_' {
				l.buf.WriteRune(r)
				return n, l.error("number")
			}
			l.unreadRune()
			return n, l.err
		}
	}
}

// scanNum scans a numeric literal starting with a decimal digit.
func (l *lexer) scanNum() (tokenKind, error) {
	if _, err := l.digits(isdec, false); err != nil {
		return tokenNone, err
	}
	if l.buf.String() == "0" {
		r := l.peek()
		var isdig func(rune) bool
		switch r {
		case 'x', 'X':
			isdig = ishex
		case 'o', 'O':
			isdig = isoct
		case 'b', 'B':
			isdig = isbin
		case -1:
			return tokenNum, l.err
		default:
			l.unreadRune()
		}
		if isdig != nil {
			l.buf.WriteRune(r)
			n, err := l.digits(isdig, true)
			if err != nil {
				return tokenNone, err
			}
			if n == 0 {
				return tokenNone, l.error("number")
			}
			return l.suffix(tokenNum)
		}
	}
	integral := l.buf.String()
	if l.accept(".") {
		return l.scanFrac()
	}
	if l.accept("eE") {
		return l.scanExp()
	}
	// Decimal integers other than zero can't have leading zeros.
	if len(integral) > 1 && integral[0] == '0' && strings.Trim(integral, "0_") != "" {
		return tokenNone, l.error("number")
	}
	return l.suffix(tokenNum)
}

// scanFrac scans the digits following a decimal point, which has already
// been written to the buffer, and any exponent.
func (l *lexer) scanFrac() (tokenKind, error) {
	if _, err := l.digits(isdec, false); err != nil {
		return tokenNone, err
	}
	if l.accept("eE") {
		return l.scanExp()
	}
	return l.suffix(tokenNum)
}

// scanExp scans an exponent following an exponent marker, which has already
// been written to the buffer.
func (l *lexer) scanExp() (tokenKind, error) {
	l.accept("+-")
	n, err := l.digits(isdec, false)
	if err != nil {
		return tokenNone, err
	}
	if n == 0 {
		return tokenNone, l.error("number")
	}
	return l.suffix(tokenNum)
}

// suffix checks the rune following a number. An imaginary suffix changes the
// token kind. A letter, digit, underscore, or dot glued to the number is an
// error.
func (l *lexer) suffix(kind tokenKind) (tokenKind, error) {
	r := l.peek()
	switch {
	case r < 0:
		return kind, l.err
	case r == 'j', r == 'J':
		l.buf.WriteRune(r)
		return tokenImag, nil
	case r == '_', r == '.', unicode.IsLetter(r), unicode.IsDigit(r):
		l.buf.WriteRune(r)
		return tokenNone, l.error("number")
	default:
		l.unreadRune()
		return kind, nil
	}
}

func (l *lexer) scanIdent() {
	for {
		r := l.peek()
		switch {
		case r < 0:
			// next unreads the rune that decides ident scanning before
			// calling scanIdent, so we have scanned at least one rune.
			return
		case r == '_', unicode.IsLetter(r), unicode.IsDigit(r):
			l.buf.WriteRune(r)
		default:
			l.unreadRune()
			return
		}
	}
}

// scanString scans a string literal up to the closing quote q. The opening
// quote has already been written.
func (l *lexer) scanString(q rune) error {
	esc := false
	for {
		r := l.peek()
		switch {
		case r < 0, r == '\n':
			if l.err != nil {
				return l.err
			}
			return l.error("string")
		case esc:
			esc = false
		case r == '\\':
			esc = true
		case r == q:
			l.buf.WriteRune(r)
			return nil
		}
		l.buf.WriteRune(r)
	}
}

func (l *lexer) error(kind string) error {
	return &LexError{
		Text: l.buf.String(),
		Kind: kind,
		Col:  l.rune,
	}
}

// LexError indicates an invalid token. It is a SyntaxError and implements
// InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This may be "number",
	// "string", "operator", or the empty string (if a token kind hadn't
	// been decided).
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

func (err *LexError) Is(target error) bool {
	return target == SyntaxError
}
