package decompose

import (
	"math"
	"strconv"
	"strings"
)

// round3 rounds to three decimal places, half up.
//
// The shift is done on the decimal exponent of the shortest string form
// rather than by multiplying by 1000, so values such as 1.0005 round the
// way they print. NaN and Inf pass through.
func round3(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	shifted := shiftExp(x, 3)
	return shiftExp(math.Floor(shifted+0.5), -3)
}

// shiftExp returns x * 10^n computed in decimal.
func shiftExp(x float64, n int) float64 {
	s := strconv.FormatFloat(x, 'g', -1, 64)
	mant, exp := s, 0
	if i := strings.IndexByte(s, 'e'); i >= 0 {
		mant = s[:i]
		e, err := strconv.Atoi(s[i+1:])
		if err != nil {
			return x * math.Pow10(n)
		}
		exp = e
	}
	v, err := strconv.ParseFloat(mant+"e"+strconv.Itoa(exp+n), 64)
	if err != nil {
		return x * math.Pow10(n)
	}
	return v
}
