package calc

import (
	"errors"
	"strconv"
)

// Kind classifies a failure to evaluate an expression. Every error returned
// by this package matches exactly one Kind under errors.Is.
type Kind int8

const (
	// SyntaxError is the kind of errors for input that is not a well-formed
	// expression at all, e.g. "2+", "(1" or "1;2".
	SyntaxError Kind = 1 + iota
	// UnsupportedConstruct is the kind of errors for input that uses syntax
	// outside the permitted grammar, e.g. names, calls, strings, or
	// comparisons.
	UnsupportedConstruct
	// ArithmeticFault is the kind of errors for well-formed expressions whose
	// value cannot be computed, e.g. division by zero.
	ArithmeticFault
)

func (k Kind) String() string {
	switch k {
	case SyntaxError:
		return "SyntaxError"
	case UnsupportedConstruct:
		return "UnsupportedConstruct"
	case ArithmeticFault:
		return "ArithmeticFault"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

func (k Kind) Error() string {
	switch k {
	case SyntaxError:
		return "syntax error"
	case UnsupportedConstruct:
		return "unsupported construct"
	case ArithmeticFault:
		return "arithmetic fault"
	default:
		return "unknown error kind " + strconv.Itoa(int(k))
	}
}

// KindOf returns the kind of err. If err is nil or did not come from this
// package, the result is zero.
func KindOf(err error) Kind {
	for _, k := range [...]Kind{SyntaxError, UnsupportedConstruct, ArithmeticFault} {
		if errors.Is(err, k) {
			return k
		}
	}
	return 0
}

// OperatorError is an error indicating an operator token that cannot appear
// where it does, e.g. a binary-only operator in prefix position. It is a
// SyntaxError and implements InputError.
type OperatorError struct {
	// Col is the position of the operator.
	Col int
	// Operator is the token that was not understood.
	Operator string
	// Unary is whether the parser expected a unary operator at the time.
	Unary bool
}

func (err *OperatorError) Error() string {
	s := "binary"
	if err.Unary {
		s = "unary"
	}
	return errpos(err.Col, "unknown "+s+" operator "+strconv.Quote(err.Operator))
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Is(target error) bool {
	return target == SyntaxError
}

// TokenError is an error indicating a token where the parser expected an
// operator or an operand, e.g. the 3 in "2 3". It is a SyntaxError and
// implements InputError.
type TokenError struct {
	// Col is the position of the token.
	Col int
	// Text is the unexpected token.
	Text string
	// Want is "operator" or "operand".
	Want string
}

func (err *TokenError) Error() string {
	return errpos(err.Col, "unexpected "+strconv.Quote(err.Text)+", expected "+err.Want)
}

func (err *TokenError) Pos() int {
	return err.Col
}

func (err *TokenError) Is(target error) bool {
	return target == SyntaxError
}

// BracketError is an error indicating mismatched brackets in the
// input. It is a SyntaxError and implements InputError.
type BracketError struct {
	// Col is the position of the operator.
	Col int
	// Left is the opening bracket.
	Left string
	// Right is the mismatched closing bracket.
	Right string
}

func (err *BracketError) Error() string {
	if err.Left == "" {
		return errpos(err.Col, "close bracket "+err.Right+" with no open bracket")
	}
	if err.Right == "" {
		return errpos(err.Col, "open bracket "+err.Left+" with no close bracket")
	}
	return errpos(err.Col, "mismatched bracket: "+err.Left+"expr"+err.Right)
}

func (err *BracketError) Pos() int {
	return err.Col
}

func (err *BracketError) Is(target error) bool {
	return target == SyntaxError
}

// SeparatorError is an error indicating an illegal use of a comma, semicolon,
// or colon. It is a SyntaxError and implements InputError.
type SeparatorError struct {
	// Col is the position of the separator.
	Col int
	// Sep is the separator.
	Sep string
}

func (err *SeparatorError) Error() string {
	return errpos(err.Col, "invalid occurrence of separator "+strconv.Quote(err.Sep))
}

func (err *SeparatorError) Pos() int {
	return err.Col
}

func (err *SeparatorError) Is(target error) bool {
	return target == SyntaxError
}

// EmptyExpressionError is an error indicating an empty subexpression. It is
// a SyntaxError and implements InputError.
type EmptyExpressionError struct {
	// Col is the position of the token that ended the subexpression.
	Col int
	// End is the token that ended the subexpression.
	End string
}

func (err *EmptyExpressionError) Error() string {
	if err.End == "" {
		if err.Col <= 1 {
			return errpos(err.Col, "no expression")
		}
		return errpos(err.Col, "no expression at end")
	}
	return errpos(err.Col, "no expression up to "+strconv.Quote(err.End))
}

func (err *EmptyExpressionError) Pos() int {
	return err.Col
}

func (err *EmptyExpressionError) Is(target error) bool {
	return target == SyntaxError
}

// DepthError is an error indicating subexpressions nested more deeply than
// the parser allows. It is a SyntaxError and implements InputError.
type DepthError struct {
	// Col is the position of the token that exceeded the limit.
	Col int
	// Max is the nesting limit.
	Max int
}

func (err *DepthError) Error() string {
	return errpos(err.Col, "expression nested more than "+strconv.Itoa(err.Max)+" levels deep")
}

func (err *DepthError) Pos() int {
	return err.Col
}

func (err *DepthError) Is(target error) bool {
	return target == SyntaxError
}

// UnsupportedError is an error indicating syntax that is recognized but not
// permitted in expressions, such as a name or a function call. It is an
// UnsupportedConstruct and implements InputError.
type UnsupportedError struct {
	// Col is the position of the token that begins the construct.
	Col int
	// Construct describes what was found, e.g. "name" or "call".
	Construct string
	// Text is the token that begins the construct.
	Text string
}

func (err *UnsupportedError) Error() string {
	return errpos(err.Col, err.Construct+" "+strconv.Quote(err.Text)+" is not allowed")
}

func (err *UnsupportedError) Pos() int {
	return err.Col
}

func (err *UnsupportedError) Is(target error) bool {
	return target == UnsupportedConstruct
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*TokenError)(nil)
	_ InputError = (*BracketError)(nil)
	_ InputError = (*SeparatorError)(nil)
	_ InputError = (*EmptyExpressionError)(nil)
	_ InputError = (*DepthError)(nil)
	_ InputError = (*UnsupportedError)(nil)
	_ InputError = (*LexError)(nil)
	_ InputError = (*ArithmeticError)(nil)
)
