package calc

import (
	"errors"
	"io"
	"math/big"
	"strconv"
	"strings"
)

// Expr = num | Neg | Plus | Add | Sub | Mul | Div | Mod | Pow | '(' Expr ')'
// Neg = '-' Expr
// Plus = '+' Expr
// Add = Expr '+' Expr
// Sub = Expr '-' Expr
// Mul = Expr '*' Expr | Expr '×' Expr
// Div = Expr '/' Expr | Expr '÷' Expr
// Mod = Expr '%' Expr
// Pow = Expr '**' Expr

// Expr is a parsed expression. An Expr is immutable and safe to evaluate
// concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
}

// Parse parses an expression so it can be evaluated. The given options are
// applied in order.
//
// Parse reads only the runes it needs, so with StopOn, a single source can
// hold several expressions to be parsed by successive calls.
func Parse(src io.RuneScanner, opts ...ParseOption) (*Expr, error) {
	scan := lex(src)
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.maxdepth == 0 {
		p.maxdepth = DefaultMaxDepth
	}
	n, err := parseterm(scan, &p, exprprec)
	if err != nil {
		return nil, err
	}
	tok := scan.must()
	switch tok.kind {
	case tokenEOF:
	case tokenSep:
		switch {
		case p.ceof && tok.text == ",":
		case p.seof && tok.text == ";":
		default:
			return nil, itShouldNotHaveEndedThisWay(tok, "")
		}
	default:
		return nil, itShouldNotHaveEndedThisWay(tok, "")
	}
	if n == nil {
		return nil, &EmptyExpressionError{Col: tok.pos, End: tok.text}
	}
	return &Expr{n: n}, nil
}

// ParseString is a shortcut to parse an expression from a string.
func ParseString(src string, opts ...ParseOption) (*Expr, error) {
	return Parse(strings.NewReader(src), opts...)
}

// parseterm parses a single term. If there is no error, then parseterm pushes
// the last token it scans, including EOF. If the input is an empty
// subexpression, the result is nil with no error; callers must create an error
// in contexts where empty subexpressions are illegal.
func parseterm(scan *lexer, p *parsectx, until operator) (*node, error) {
	p.depth++
	defer func() { p.depth-- }()
	n, err := parselhs(scan, p, until)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	for {
		tok, err := scan.next(p.wseof)
		if err != nil {
			return nil, err
		}
		switch tok.kind {
		case tokenOp:
			// Binary operator.
			prec := binop(tok.text)
			if prec.op == nodeNone {
				return nil, badop(tok, false)
			}
			if !prec.moreBinding(until) {
				scan.push(tok)
				return n, nil
			}
			rhs, err := parseterm(scan, p, prec)
			if err != nil {
				return nil, err
			}
			if rhs == nil {
				return nil, empty(scan)
			}
			n = &node{kind: prec.op, pos: tok.pos, left: n, right: rhs}
		case tokenIdent:
			if keywordops[tok.text] {
				return nil, &UnsupportedError{Col: tok.pos, Construct: "operator", Text: tok.text}
			}
			return nil, &TokenError{Col: tok.pos, Text: tok.text, Want: "operator"}
		case tokenNum, tokenImag, tokenString:
			// Two operands in a row. There is no implicit multiplication.
			return nil, &TokenError{Col: tok.pos, Text: tok.text, Want: "operator"}
		case tokenOpen:
			switch tok.text {
			case "(":
				return nil, &UnsupportedError{Col: tok.pos, Construct: "call", Text: tok.text}
			case "[":
				return nil, &UnsupportedError{Col: tok.pos, Construct: "subscript", Text: tok.text}
			default:
				return nil, &TokenError{Col: tok.pos, Text: tok.text, Want: "operator"}
			}
		case tokenDot:
			return nil, &UnsupportedError{Col: tok.pos, Construct: "attribute access", Text: tok.text}
		case tokenSep:
			switch {
			case p.ceof && tok.text == ",", p.seof && tok.text == ";":
				scan.push(tok)
				return n, nil
			case tok.text == ",":
				return nil, &UnsupportedError{Col: tok.pos, Construct: "tuple", Text: tok.text}
			default:
				return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
			}
		case tokenClose, tokenEOF:
			// End of expression.
			scan.push(tok)
			return n, nil
		default:
			panic("calc: unknown token: " + tok.String())
		}
	}
}

// parselhs parses the first component of a term. I.e., operators are unary,
// any encountered token must be valid as the start of a subexpression, and
// whitespace normally lexed as EOF is ignored.
func parselhs(scan *lexer, p *parsectx, until operator) (*node, error) {
	// Don't use EOF whitespace for LHS.
	tok, err := scan.next("")
	if err != nil {
		return nil, err
	}
	if p.depth > p.maxdepth {
		return nil, &DepthError{Col: tok.pos, Max: p.maxdepth}
	}
	var n *node
	switch tok.kind {
	case tokenNum:
		n = &node{kind: nodeNum, pos: tok.pos, text: tok.text, val: number(tok.text)}
	case tokenImag:
		return nil, &UnsupportedError{Col: tok.pos, Construct: "complex literal", Text: tok.text}
	case tokenIdent:
		return nil, &UnsupportedError{Col: tok.pos, Construct: "name", Text: tok.text}
	case tokenString:
		return nil, &UnsupportedError{Col: tok.pos, Construct: "string literal", Text: tok.text}
	case tokenOp:
		// unary operator
		prec := unop(tok.text)
		if prec.op == nodeNone {
			return nil, badop(tok, true)
		}
		if !prec.moreBinding(until) {
			// x**-y -> x**(-y)
			// Just use the new operator's precedence to simplify.
			prec.prec, prec.right = until.prec, until.right
		}
		rhs, err := parseterm(scan, p, prec)
		if err != nil {
			return nil, err
		}
		if rhs == nil {
			return nil, empty(scan)
		}
		n = &node{kind: prec.op, pos: tok.pos, left: rhs}
	case tokenOpen:
		switch tok.text {
		case "(":
			rhs, err := parseterm(scan, p, exprprec)
			if err != nil {
				return nil, err
			}
			end := scan.must()
			if end.kind != tokenClose || end.text != ")" {
				return nil, itShouldNotHaveEndedThisWay(end, tok.text)
			}
			if rhs == nil {
				return nil, &EmptyExpressionError{Col: end.pos, End: end.text}
			}
			n = rhs
		case "[":
			return nil, &UnsupportedError{Col: tok.pos, Construct: "list", Text: tok.text}
		default:
			return nil, &UnsupportedError{Col: tok.pos, Construct: "set or dict", Text: tok.text}
		}
	case tokenClose, tokenEOF:
		// Let the caller decide what an empty subexpression means.
		scan.push(tok)
		return nil, nil
	case tokenSep:
		switch {
		case p.ceof && tok.text == ",", p.seof && tok.text == ";":
			scan.push(tok)
			return nil, nil
		}
		return nil, &SeparatorError{Col: tok.pos, Sep: tok.text}
	case tokenDot:
		return nil, &TokenError{Col: tok.pos, Text: tok.text, Want: "operand"}
	default:
		panic("calc: unknown token: " + tok.String())
	}
	return n, nil
}

// empty returns an error for a missing operand, given that the token ending
// the operand is pushed.
func empty(scan *lexer) error {
	tok := scan.must()
	return &EmptyExpressionError{Col: tok.pos, End: tok.text}
}

// number converts the text of a number token to its value. Literals too large
// for a float64 convert to ±Inf.
func number(text string) float64 {
	if len(text) > 2 && text[0] == '0' && strings.ContainsAny(text[1:2], "xXoObB") {
		i, ok := new(big.Int).SetString(text, 0)
		if !ok {
			panic("calc: invalid number: " + text)
		}
		f, _ := new(big.Float).SetInt(i).Float64()
		return f
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		panic("calc: invalid number: " + text + " (" + err.Error() + ")")
	}
	return f
}

// itShouldNotHaveEndedThisWay returns an error appropriate for an unexpected
// token at the end of a subexpression. left is the bracket that the expression
// should have closed, or the empty string if none.
func itShouldNotHaveEndedThisWay(tok lexToken, left string) error {
	switch tok.kind {
	case tokenEOF:
		// Unexpected EOF implies an open bracket that was not closed.
		return &BracketError{Col: tok.pos, Left: left, Right: ""}
	case tokenClose:
		// A bracket could be the wrong bracket for the opening brace or any
		// bracket at the end of an input.
		return &BracketError{Col: tok.pos, Left: left, Right: tok.text}
	case tokenSep:
		return &SeparatorError{Col: tok.pos, Sep: tok.text}
	default:
		panic("calc: it really should not have ended this way: " + tok.String())
	}
}

// String creates a string representation of the parsed expression, with
// round brackets grouping each term.
func (e *Expr) String() string {
	var b strings.Builder
	e.n.fmt(&b, true)
	return b.String()
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// op is the node kind to use when this operator is selected.
	op nodeKind
}

func (p operator) moreBinding(than operator) bool {
	if p.prec != than.prec {
		return p.prec > than.prec
	}
	return p.right
}

// binop gets a binary operator for a token string. If there is no such binary
// operator, then the result has an op of nodeNone.
func binop(text string) operator {
	switch text {
	case "+":
		return operator{1, false, nodeAdd}
	case "-":
		return operator{1, false, nodeSub}
	case "*", "×":
		return operator{5, false, nodeMul}
	case "/", "÷":
		return operator{5, false, nodeDiv}
	case "%":
		return operator{5, false, nodeMod}
	case "**":
		return operator{15, true, nodePow}
	default:
		return operator{}
	}
}

// unop gets a unary operator for a token string. If there is no such unary
// operator, then the result has an op of nodeNone.
func unop(text string) operator {
	switch text {
	case "+":
		return operator{10, true, nodePlus}
	case "-":
		return operator{10, true, nodeNeg}
	default:
		return operator{}
	}
}

// Operators which are meaningful elsewhere but not in expressions. Anything
// else is not an operator at all.
var (
	unsupportedBinops = []string{"//", "<", ">", "<=", ">=", "==", "!=", "&", "|", "^", "<<", ">>", "@", ":="}
	unsupportedUnops  = []string{"~"}
	// keywordops are names that act as binary operators in other languages.
	keywordops = map[string]bool{"and": true, "or": true, "in": true, "is": true, "if": true}
)

// badop creates the error for an operator token that has no meaning in its
// position.
func badop(tok lexToken, unary bool) error {
	ops := unsupportedBinops
	if unary {
		ops = unsupportedUnops
	}
	for _, op := range ops {
		if tok.text == op {
			return &UnsupportedError{Col: tok.pos, Construct: "operator", Text: tok.text}
		}
	}
	return &OperatorError{Col: tok.pos, Operator: tok.text, Unary: unary}
}

// exprprec is the precedence required to parse an entire subexpression.
var exprprec = operator{-128, true, nodeNone}
