// Package rules implements deterministic pattern-based extraction: a
// document-type classifier, per-field extraction rule tables, and line-item
// recovery. Everything here is a pure function over normalized text; no rule
// ever raises, unmatched fields stay absent.
package rules

import (
	"regexp"

	"docpipe/constants"
	"docpipe/internal/textproc"
)

// Classification is the classifier's verdict for one document.
// Matched is false when every keyword score was zero and the type
// defaulted to "other".
type Classification struct {
	DocType constants.DocType
	Matched bool
	Score   int
}

// typeKeywords scores each candidate type by counting keyword occurrences.
// Order is the tie-break priority: invoice > receipt > contract.
var typeKeywords = []struct {
	docType  constants.DocType
	patterns []*regexp.Regexp
}{
	{constants.Invoice, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\binvoice\b`),
		regexp.MustCompile(`(?i)\bbill to\b`),
		regexp.MustCompile(`(?i)\bamount due\b`),
		regexp.MustCompile(`(?i)\bremit to\b`),
		regexp.MustCompile(`(?i)\bdue date\b`),
	}},
	{constants.Receipt, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\breceipt\b`),
		regexp.MustCompile(`(?i)\bchange due\b`),
		regexp.MustCompile(`(?i)\bcashier\b`),
		regexp.MustCompile(`(?i)\bpayment received\b`),
		regexp.MustCompile(`(?i)\bthank you for (?:your purchase|shopping)\b`),
	}},
	{constants.Contract, []*regexp.Regexp{
		regexp.MustCompile(`(?i)\bcontract\b`),
		regexp.MustCompile(`(?i)\bagreement\b`),
		regexp.MustCompile(`(?i)\bhereby\b`),
		regexp.MustCompile(`(?i)\bwhereas\b`),
		regexp.MustCompile(`(?i)\bhereinafter\b`),
		regexp.MustCompile(`(?i)\bterms and conditions\b`),
	}},
}

// Classify assigns a document type by keyword scoring. The highest non-zero
// score wins; ties resolve by the fixed priority order above; all-zero
// scores default to "other". Deterministic and side-effect-free.
func Classify(text textproc.NormalizedText) Classification {
	best := Classification{DocType: constants.Other}
	for _, tk := range typeKeywords {
		score := 0
		for _, re := range tk.patterns {
			score += len(re.FindAllStringIndex(text.Text, -1))
		}
		// strictly greater keeps the earlier (higher priority) type on ties
		if score > best.Score {
			best = Classification{DocType: tk.docType, Matched: true, Score: score}
		}
	}
	return best
}
