package calc

import (
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. The set of
// kinds is closed: a tree can only hold what the evaluator permits.
type node struct {
	kind nodeKind
	// pos is the column of the literal or operator.
	pos int

	// text is the source text of a literal.
	text string
	// val is the value of a literal. It is ±Inf for literals too large to
	// represent; evaluating such a literal faults.
	val float64

	left  *node
	right *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum // literal val

	nodeNeg  // evaluate left, then negate
	nodePlus // evaluate left
	nodeAdd  // evaluate left, add right
	nodeSub  // evaluate left, sub right
	nodeMul  // evaluate left, mul right
	nodeDiv  // evaluate left, div by right
	nodeMod  // evaluate left, floored mod by right
	nodePow  // evaluate left, exp by right
)

var nodeNames = [...]string{
	nodeNone: "None",
	nodeNum:  "Num",
	nodeNeg:  "Neg",
	nodePlus: "Plus",
	nodeAdd:  "Add",
	nodeSub:  "Sub",
	nodeMul:  "Mul",
	nodeDiv:  "Div",
	nodeMod:  "Mod",
	nodePow:  "Pow",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodeNames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodeNames[k]
}

// symbol returns the operator spelling for a binary node kind. alt selects
// × and ÷ for multiplication and division.
func (k nodeKind) symbol(alt bool) string {
	switch k {
	case nodeAdd:
		return "+"
	case nodeSub:
		return "-"
	case nodeMul:
		if alt {
			return "×"
		}
		return "*"
	case nodeDiv:
		if alt {
			return "÷"
		}
		return "/"
	case nodeMod:
		return "%"
	case nodePow:
		return "**"
	default:
		return ""
	}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b, false)
	return b.String()
}

func (n *node) fmt(b *strings.Builder, alt bool) {
	b.WriteByte('(')
	defer b.WriteByte(')')
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteByte('$')
		if n.left != nil {
			n.left.fmt(b, alt)
		}
		b.WriteByte('#')
		if n.right != nil {
			n.right.fmt(b, alt)
		}
		b.WriteByte('$')
	case nodeNum:
		b.WriteString(n.text)
	case nodeNeg:
		b.WriteByte('-')
		n.left.fmt(b, alt)
	case nodePlus:
		b.WriteByte('+')
		n.left.fmt(b, alt)
	case nodeAdd, nodeSub, nodeMul, nodeDiv, nodeMod, nodePow:
		n.left.fmt(b, alt)
		b.WriteByte(' ')
		b.WriteString(n.kind.symbol(alt))
		b.WriteByte(' ')
		n.right.fmt(b, alt)
	default:
		panic("calc: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}
