package rules

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const amountPattern = `([\d,]+(?:\.\d{1,2})?)`

// totalRules are label-adjacent total patterns in priority order. The first
// label that yields a parseable amount wins outright; the largest-value
// heuristic below only applies when no label matched at all.
var totalRules = []struct {
	name string
	re   *regexp.Regexp
}{
	{"grand-total", regexp.MustCompile(`(?i)\bgrand\s+total\b\s*:?\s*[$€£¥₹]?\s*` + amountPattern)},
	{"total-due", regexp.MustCompile(`(?i)\btotal\s+due\b\s*:?\s*[$€£¥₹]?\s*` + amountPattern)},
	{"amount-due", regexp.MustCompile(`(?i)\bamount\s+due\b\s*:?\s*[$€£¥₹]?\s*` + amountPattern)},
	{"balance-due", regexp.MustCompile(`(?i)\bbalance\s+due\b\s*:?\s*[$€£¥₹]?\s*` + amountPattern)},
	{"total", regexp.MustCompile(`(?i)\btotal\b\s*:?\s*[$€£¥₹]?\s*` + amountPattern)},
	{"amount", regexp.MustCompile(`(?i)\bamount\b\s*:?\s*[$€£¥₹]?\s*` + amountPattern)},
}

// reSymbolAmount matches currency-symbol-adjacent numbers anywhere in the
// text, the unlabeled candidate pool.
var reSymbolAmount = regexp.MustCompile(`[$€£¥₹]\s*` + amountPattern)

// ExtractTotal finds the document's monetary total. Label-adjacent patterns
// are tried first in priority order; without any label hit, the largest
// symbol-adjacent value wins, on the heuristic that totals dominate
// line-item amounts. Returns (0, false) when no candidate parses.
func ExtractTotal(text string) (float64, bool) {
	for _, tr := range totalRules {
		for _, m := range tr.re.FindAllStringSubmatch(text, -1) {
			if d, ok := ParseAmount(m[1]); ok {
				f, _ := d.Float64()
				return f, true
			}
		}
	}

	var best decimal.Decimal
	found := false
	for _, m := range reSymbolAmount.FindAllStringSubmatch(text, -1) {
		d, ok := ParseAmount(m[1])
		if !ok {
			continue
		}
		if !found || d.GreaterThan(best) {
			best = d
			found = true
		}
	}
	if !found {
		return 0, false
	}
	f, _ := best.Float64()
	return f, true
}

// ParseAmount parses a captured monetary string, stripping thousands
// separators. Malformed or negative captures are treated as no-match.
func ParseAmount(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d, true
}
