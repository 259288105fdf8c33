package constants

import (
	"regexp"
	"strings"
)

// DefaultCurrency is applied when a monetary value was extracted but no
// currency marker was found in the text.
const DefaultCurrency = "USD"

// currencyMarkers maps markers to ISO 4217 codes, in detection order.
// Symbols are checked before word markers so "$1,250.00" resolves without
// the text spelling out a code.
var currencyMarkers = []struct {
	re   *regexp.Regexp
	code string
}{
	{regexp.MustCompile(`\$`), "USD"},
	{regexp.MustCompile(`€`), "EUR"},
	{regexp.MustCompile(`£`), "GBP"},
	{regexp.MustCompile(`¥`), "JPY"},
	{regexp.MustCompile(`₹`), "INR"},
	{regexp.MustCompile(`\busd\b`), "USD"},
	{regexp.MustCompile(`\beur\b`), "EUR"},
	{regexp.MustCompile(`\bgbp\b`), "GBP"},
	{regexp.MustCompile(`\bjpy\b`), "JPY"},
	{regexp.MustCompile(`\binr\b`), "INR"},
	{regexp.MustCompile(`\bcad\b`), "CAD"},
	{regexp.MustCompile(`\baud\b`), "AUD"},
}

// InferCurrency scans text for a currency marker and returns the ISO code.
// Returns ("", false) when no marker is present.
func InferCurrency(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, m := range currencyMarkers {
		if m.re.MatchString(lower) {
			return m.code, true
		}
	}
	return "", false
}

// IsValidCurrencyCode reports whether s looks like an ISO 4217 code.
func IsValidCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	for i := 0; i < 3; i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
