package app

import (
	"math"
	"strconv"
	"strings"
)

// FormatResult renders an evaluation result: whole numbers without a
// fraction, others with at most six decimals.
func FormatResult(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 6, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
