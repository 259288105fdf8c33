package constants

import "strings"

// TextSourceNative and TextSourceOCR record how a document's text was
// produced.
const (
	TextSourceNative = "native"
	TextSourceOCR    = "ocr"
)

// AllowedExtensions holds the accepted input extensions. Only PDFs reach
// the pipeline; anything else is rejected at the boundary.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether the (possibly dotted) extension is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}
