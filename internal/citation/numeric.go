// Package citation turns source records into ordered, display-ready citations.
package citation

import (
	"math"
	"strconv"
	"strings"

	"github.com/matsen/pubsnippet/internal/reference"
)

// CleanNumber renders a numeric-like field as a plain integer string.
// Decimal and exponent forms are truncated toward zero. A missing field
// renders as "" and is considered clean; a present value that cannot be
// converted also renders as "" but reports ok=false.
func CleanNumber(f reference.Field) (s string, ok bool) {
	if !f.Present {
		return "", true
	}
	v := strings.TrimSpace(f.Value)
	if v == "" {
		return "", false
	}

	// Integers first so values beyond float64 precision stay exact.
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), true
	}

	x, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return "", false
	}
	x = math.Trunc(x)
	if x >= math.MaxInt64 || x < math.MinInt64 {
		return "", false
	}
	return strconv.FormatInt(int64(x), 10), true
}

// cleanNumber is CleanNumber without the diagnostic flag.
func cleanNumber(f reference.Field) string {
	s, _ := CleanNumber(f)
	return s
}
