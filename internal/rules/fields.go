package rules

import (
	"regexp"
	"strings"
)

// fieldRule is one entry in an ordered, declarative rule table. Rules are
// tried in table order; the first non-empty capture that survives the
// field's accept check wins.
type fieldRule struct {
	name string
	re   *regexp.Regexp
}

// vendorRules: label-prefixed vendor patterns. The first-lines heuristic in
// extractVendor runs after these as the lowest-priority rule.
var vendorRules = []fieldRule{
	{"vendor-label", regexp.MustCompile(`(?im)^(?:from|vendor|seller|sold by|bill from)\s*[:\-]\s*(.+)$`)},
	{"vendor-inline", regexp.MustCompile(`(?i)\b(?:vendor|seller)\s*:\s*([^\n]+)`)},
}

// headerWords are document headers that the first-lines heuristic skips;
// they are classifications, not vendor names.
var reHeaderWord = regexp.MustCompile(`(?i)^(?:tax\s+)?(?:invoice|receipt|bill|statement|contract|agreement|estimate|quote)$`)

var (
	reHasLetter = regexp.MustCompile(`[A-Za-z]`)
	reNumericy  = regexp.MustCompile(`^[\d\s\p{Sc}.,/#:\-]+$`)
	reNameLike  = regexp.MustCompile(`^[A-Z][A-Za-z0-9 &.,'\-]{2,59}$`)
)

// extractVendor applies the vendor rule table, then falls back to the first
// plausible non-header line. Returns ("", false) when nothing plausible
// matched.
func extractVendor(text string, lines []string) (string, bool) {
	for _, r := range vendorRules {
		if m := r.re.FindStringSubmatch(text); m != nil {
			if v := strings.TrimSpace(m[1]); plausibleVendor(v) {
				return v, true
			}
		}
	}

	// first meaningful line heuristic, limited to the top of the document
	limit := len(lines)
	if limit > 5 {
		limit = 5
	}
	for _, line := range lines[:limit] {
		line = strings.TrimSpace(line)
		if line == "" || reHeaderWord.MatchString(line) {
			continue
		}
		if reNameLike.MatchString(line) && plausibleVendor(line) {
			return line, true
		}
	}
	return "", false
}

// plausibleVendor rejects captures that are empty, numeric noise, or an
// implausible length for a name.
func plausibleVendor(s string) bool {
	if len(s) < 3 || len(s) > 60 {
		return false
	}
	if !reHasLetter.MatchString(s) {
		return false
	}
	return !reNumericy.MatchString(s)
}

// numberRules: label-prefixed identifier patterns in priority order.
var numberRules = []fieldRule{
	{"invoice-number", regexp.MustCompile(`(?i)\binvoice\s*(?:number|no\.?|num\.?)?\s*[#:]*\s*([A-Za-z0-9][A-Za-z0-9\-]*)`)},
	{"receipt-number", regexp.MustCompile(`(?i)\breceipt\s*(?:number|no\.?|num\.?)?\s*[#:]*\s*([A-Za-z0-9][A-Za-z0-9\-]*)`)},
	{"document-number", regexp.MustCompile(`(?i)\b(?:document|doc|ref(?:erence)?)\s*(?:number|no\.?)?\s*[#:]*\s*([A-Za-z0-9][A-Za-z0-9\-]*)`)},
	{"bare-hash", regexp.MustCompile(`#\s*(\d{4,})`)},
}

var reHasDigit = regexp.MustCompile(`\d`)

// extractDocumentNumber applies the identifier rule table. Captures that are
// purely the label itself (no digits, or a stray label token) are rejected.
func extractDocumentNumber(text string) (string, bool) {
	for _, r := range numberRules {
		for _, m := range r.re.FindAllStringSubmatch(text, -1) {
			id := strings.TrimSpace(m[1])
			if id == "" || !reHasDigit.MatchString(id) {
				continue
			}
			switch strings.ToLower(id) {
			case "number", "no", "num":
				continue
			}
			return id, true
		}
	}
	return "", false
}
