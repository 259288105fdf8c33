package constants

import (
	"strings"
)

// DocType is the closed set of document classifications.
type DocType string

const (
	Invoice  DocType = "invoice"
	Receipt  DocType = "receipt"
	Contract DocType = "contract"
	Other    DocType = "other"
)

// allDocTypes is ordered by classification priority: when keyword scores
// tie, the earlier type wins.
var allDocTypes = []DocType{
	Invoice,
	Receipt,
	Contract,
	Other,
}

func DocTypes() []DocType {
	out := make([]DocType, len(allDocTypes))
	copy(out, allDocTypes)
	return out
}

func DocTypeStrings() []string {
	result := make([]string, len(allDocTypes))
	for i, dt := range allDocTypes {
		result[i] = string(dt)
	}
	return result
}

// IsValidDocType reports whether the input is one of the closed enum values.
func IsValidDocType(input string) bool {
	_, ok := CanonicalizeDocType(input)
	return ok
}

// CanonicalizeDocType maps free-form labels onto the closed enum.
// Unknown labels return (Other, false).
func CanonicalizeDocType(input string) (DocType, bool) {
	if input == "" {
		return Other, false
	}

	normalized := strings.ToLower(strings.TrimSpace(input))

	// synonyms map
	synonyms := map[string]DocType{
		"bill":          Invoice,
		"tax invoice":   Invoice,
		"sales receipt": Receipt,
		"agreement":     Contract,
		"statement":     Other,
		"unknown":       Other,
		"unclassified":  Other,
	}

	if dt, ok := synonyms[normalized]; ok {
		return dt, true
	}

	for _, dt := range allDocTypes {
		if normalized == string(dt) {
			return dt, true
		}
	}

	return Other, false
}
