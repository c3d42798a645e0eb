package gen

import (
	"strconv"
	"strings"
)

// SanitizePrice reduces backend price text to a number. Every character that
// is not a digit or decimal point is stripped before parsing; anything that
// still fails to parse yields 0. A bad price means "unknown", not an error.
func SanitizePrice(text string) float64 {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
