package constants

// DocStatus is the canonical status for rows in documents.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusSuccess DocStatus = "SUCCESS" // record extracted and validated
	DocStatusFailed  DocStatus = "FAILED"  // terminal failure, error_message set
)

// ExtractionMode selects the extraction strategy for a document.
type ExtractionMode string

const (
	ModeRules ExtractionMode = "rules" // deterministic pattern-based extraction
	ModeLLM   ExtractionMode = "llm"   // delegated model extraction
)

// IsValidMode reports whether s is a recognized extraction mode.
func IsValidMode(s string) bool {
	switch ExtractionMode(s) {
	case ModeRules, ModeLLM:
		return true
	}
	return false
}
