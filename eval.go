package calc

import (
	"io"
	"math"
	"strings"
)

// Eval computes the value of the expression. The result is always finite;
// anything else is an ArithmeticError.
func (e *Expr) Eval() (float64, error) {
	return e.n.eval()
}

// eval computes the node's value.
func (n *node) eval() (float64, error) {
	switch n.kind {
	case nodeNum:
		if math.IsInf(n.val, 0) {
			return 0, &ArithmeticError{Col: n.pos, Literal: n.text, Err: ErrOverflow}
		}
		return n.val, nil
	case nodeNeg:
		x, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		return -x, nil
	case nodePlus:
		return n.left.eval()
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		x, err := n.left.eval()
		if err != nil {
			return 0, err
		}
		y, err := n.right.eval()
		if err != nil {
			return 0, err
		}
		r, err := arith(n.kind, x, y)
		if err != nil {
			return 0, &ArithmeticError{Col: n.pos, Op: n.kind.symbol(false), X: x, Y: y, Err: err}
		}
		return r, nil
	default:
		panic("calc: invalid AST node " + n.kind.String())
	}
}

// Eval is a shortcut to parse an expression and return its result.
func Eval(src io.RuneScanner, opts ...ParseOption) (float64, error) {
	a, err := Parse(src, opts...)
	if err != nil {
		return 0, err
	}
	return a.Eval()
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, opts ...ParseOption) (float64, error) {
	return Eval(strings.NewReader(src), opts...)
}
