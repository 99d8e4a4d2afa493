// Package calc implements a restricted arithmetic expression evaluator.
//
// The accepted language is small on purpose: numeric literals, unary + and
// -, the binary operators + - * / % and ** (with × and ÷ as synonyms for *
// and /), and round brackets for grouping. "2**3**2" is 512 since ** is
// right-associative, and "-2**2" is -4 since ** binds tighter than a prefix
// minus on its left.
//
// Anything else is rejected before evaluation. Names, calls, strings,
// comparisons and the rest of a general-purpose expression grammar are
// recognized only so that they can be reported as UnsupportedConstruct
// errors; the parse tree has no way to represent them. Input that is not an
// expression at all is a SyntaxError, and operations without a finite real
// result, such as division by zero, are an ArithmeticFault. Results are
// float64 values.
//
// Expressions are parsed once into an immutable Expr, which may be
// evaluated any number of times from any number of goroutines.
package calc
