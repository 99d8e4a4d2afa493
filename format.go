package calc

import (
	"strconv"
	"strings"
)

// Format formats a result the way a calculator display shows it: the
// shortest decimal that reads back as the same float64, in positional
// notation for magnitudes from 1e-4 up to 1e16 and in scientific notation
// otherwise.
func Format(f float64) string {
	s := strconv.FormatFloat(f, 'e', -1, 64)
	k := strings.LastIndexByte(s, 'e')
	if k < 0 {
		// Inf or NaN.
		return s
	}
	exp, err := strconv.Atoi(s[k+1:])
	if err != nil {
		panic("calc: bad exponent in " + s)
	}
	if -4 <= exp && exp < 16 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return s
}
