// Package numfmt renders quote values as digit-grouped fixed-point strings.
package numfmt

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// MaxDecimals is the largest decimal count Group will render. Larger
// requests are clamped.
const MaxDecimals = 8

// Group formats v with exactly decimals fractional digits and sep inserted
// between groups of three digits in the integer part.
//
// The value is rounded half away from zero before grouping. A leading minus
// sign is split off first so it never counts as a digit, and it is dropped
// when the rounded value is zero.
func Group(v float64, decimals int, sep rune) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}

	if decimals < 0 {
		decimals = 0
	} else if decimals > MaxDecimals {
		decimals = MaxDecimals
	}

	fixed := decimal.NewFromFloat(v).StringFixed(int32(decimals))

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	if intPart == "" {
		intPart = "0"
	}
	if strings.Trim(intPart+frac, "0") == "" {
		sign = ""
	}

	var b strings.Builder
	b.Grow(len(sign) + len(intPart) + len(intPart)/3 + 1 + decimals)
	b.WriteString(sign)

	// first boundary sits after len%3 digits, then every third digit
	k := len(intPart) % 3
	if k == 0 {
		k = 3
	}
	for i := 0; i < len(intPart); i++ {
		if i == k {
			b.WriteRune(sep)
			k += 3
		}
		b.WriteByte(intPart[i])
	}

	if decimals > 0 {
		b.WriteByte('.')
		b.WriteString(frac)
		for n := len(frac); n < decimals; n++ {
			b.WriteByte('0')
		}
	}
	return b.String()
}
