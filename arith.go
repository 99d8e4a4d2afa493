package calc

import (
	"errors"
	"math"
	"math/big"

	"github.com/zephyrtronium/bigfloat"
)

// Causes of an ArithmeticError.
var (
	// ErrDivisionByZero is the cause of division or modulo by zero, and of
	// zero raised to a negative power.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow is the cause of results and literals too large in magnitude
	// for a float64.
	ErrOverflow = errors.New("result out of range")
	// ErrDomain is the cause of results which are not real numbers, i.e.
	// negative numbers raised to fractional powers.
	ErrDomain = errors.New("result is not a real number")
)

// ArithmeticError is an error from evaluating an operator or literal whose
// result is not a finite real number. It is an ArithmeticFault, implements
// InputError, and unwraps to one of ErrDivisionByZero, ErrOverflow, or
// ErrDomain.
type ArithmeticError struct {
	// Col is the position of the operator or literal.
	Col int
	// Op is the operator that faulted, or the empty string if the fault is
	// a literal that overflows.
	Op string
	// X and Y are the operands. They are zero for literals.
	X, Y float64
	// Literal is the text of the literal that overflowed.
	Literal string
	// Err is the cause.
	Err error
}

func (err *ArithmeticError) Error() string {
	if err.Op == "" {
		return errpos(err.Col, err.Err.Error()+" in literal "+err.Literal)
	}
	return errpos(err.Col, err.Err.Error()+" in "+Format(err.X)+" "+err.Op+" "+Format(err.Y))
}

func (err *ArithmeticError) Pos() int {
	return err.Col
}

func (err *ArithmeticError) Is(target error) bool {
	return target == ArithmeticFault
}

func (err *ArithmeticError) Unwrap() error {
	return err.Err
}

// arith applies a binary operator to finite operands. The result is finite
// whenever the error is nil.
func arith(k nodeKind, x, y float64) (float64, error) {
	var r float64
	switch k {
	case nodeAdd:
		r = x + y
	case nodeSub:
		r = x - y
	case nodeMul:
		r = x * y
	case nodeDiv:
		if y == 0 {
			return 0, ErrDivisionByZero
		}
		r = x / y
	case nodeMod:
		return mod(x, y)
	case nodePow:
		return pow(x, y)
	default:
		panic("calc: arith on " + k.String())
	}
	if math.IsInf(r, 0) {
		return 0, ErrOverflow
	}
	return r, nil
}

// mod computes the floored modulus, which has the sign of y.
func mod(x, y float64) (float64, error) {
	if y == 0 {
		return 0, ErrDivisionByZero
	}
	r := math.Mod(x, y)
	if r != 0 && (r < 0) != (y < 0) {
		r += y
	}
	if r == 0 {
		r = math.Copysign(0, y)
	}
	return r, nil
}

// powPrec is the working precision of exponentiation, in bits. It leaves
// eleven guard bits over float64 so that the result rounds correctly.
const powPrec = 64

// pow raises x to the y. Positive bases are computed at powPrec and rounded
// once to float64.
func pow(x, y float64) (float64, error) {
	switch {
	case y == 0:
		return 1, nil
	case x == 0:
		if y < 0 {
			return 0, ErrDivisionByZero
		}
		return math.Pow(x, y), nil
	case x < 0 && y != math.Trunc(y):
		return 0, ErrDomain
	}
	ax := math.Abs(x)
	// Find the range first. bigfloat happily computes numbers that don't fit
	// in a float64, but they take a long time to get.
	var r float64
	switch est := math.Pow(ax, y); {
	case math.IsInf(est, 0):
		return 0, ErrOverflow
	case est == 0, ax == 1:
		r = est
	default:
		z := new(big.Float).SetPrec(powPrec)
		bx := new(big.Float).SetPrec(powPrec).SetFloat64(ax)
		by := new(big.Float).SetPrec(powPrec).SetFloat64(y)
		r, _ = bigfloat.Pow(z, bx, by).Float64()
		if math.IsInf(r, 0) {
			return 0, ErrOverflow
		}
	}
	if x < 0 && math.Mod(y, 2) != 0 {
		r = -r
	}
	return r, nil
}
