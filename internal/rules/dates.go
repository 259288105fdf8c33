package rules

import (
	"regexp"
	"time"
)

// datePatterns are tried in priority order; within a pattern every match is
// tried against its layouts until one parses. Unparseable captures are
// discarded, never propagated as invalid dates.
var datePatterns = []struct {
	name    string
	re      *regexp.Regexp
	layouts []string
}{
	{"iso", regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
		[]string{"2006-01-02"}},
	{"us-slash", regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{4})\b`),
		[]string{"1/2/2006"}},
	{"numeric-dash", regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{4})\b`),
		[]string{"1-2-2006", "2-1-2006"}},
	{"month-name", regexp.MustCompile(`(?i)\b(Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{1,2},?\s+\d{4}\b`),
		[]string{"January 2, 2006", "Jan 2, 2006", "January 2 2006", "Jan 2 2006"}},
	{"day-first-name", regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|Jun(?:e)?|Jul(?:y)?|Aug(?:ust)?|Sep(?:tember)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?\s+\d{4}\b`),
		[]string{"2 January 2006", "2 Jan 2006"}},
}

// ExtractDate finds the first parseable date in text and returns it
// normalized to ISO-8601 (YYYY-MM-DD). Returns ("", false) when nothing
// parses.
func ExtractDate(text string) (string, bool) {
	for _, dp := range datePatterns {
		for _, m := range dp.re.FindAllString(text, -1) {
			if iso, ok := parseDate(m, dp.layouts); ok {
				return iso, true
			}
		}
	}
	return "", false
}

func parseDate(s string, layouts []string) (string, bool) {
	s = normalizeMonthAbbrev(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}

var reMonthDot = regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\.`)

// normalizeMonthAbbrev drops the period from abbreviated month names so
// time.Parse layouts apply.
func normalizeMonthAbbrev(s string) string {
	return reMonthDot.ReplaceAllString(s, "$1")
}
