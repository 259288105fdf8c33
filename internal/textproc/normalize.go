// Package textproc cleans raw extracted text before classification and
// extraction. Normalization is pure and lossy only for noise: control
// characters, OCR artifacts, and redundant whitespace.
package textproc

import (
	"regexp"
	"strings"
)

// RawText is the text produced for one document, with provenance.
// It is consumed once by the pipeline and discarded.
type RawText struct {
	Text   string
	Source string // constants.TextSourceNative | constants.TextSourceOCR
}

// NormalizedText is cleaned text ready for classification and extraction.
type NormalizedText struct {
	Text   string
	Source string
}

// Empty reports whether normalization left no extractable content.
// Downstream treats this as doc_type=other with all fields absent.
func (n NormalizedText) Empty() bool {
	return n.Text == ""
}

// Lines splits the normalized text into its lines.
func (n NormalizedText) Lines() []string {
	if n.Text == "" {
		return nil
	}
	return strings.Split(n.Text, "\n")
}

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reControl    = regexp.MustCompile(`[\x00-\x08\x0b-\x1f\x7f]`)
	reHorizSpace = regexp.MustCompile(`[ \t\x{00a0}]+`)
	reMultiBlank = regexp.MustCompile(`\n{2,}`)
)

// Normalize collapses noisy whitespace and strips non-printable characters.
// Conservative about structure: line breaks survive so downstream line
// scanning still sees document rows, but runs of horizontal whitespace
// collapse to a single space and blank lines are dropped.
// Empty input yields empty output; there are no error conditions.
func Normalize(raw RawText) NormalizedText {
	s := raw.Text
	if s == "" {
		return NormalizedText{Source: raw.Source}
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	// form feeds are page separators in pdftotext output
	s = strings.ReplaceAll(s, "\f", "\n")
	s = reControl.ReplaceAllString(s, "")
	s = reHorizSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	s = strings.Join(lines, "\n")
	s = reMultiBlank.ReplaceAllString(s, "\n")

	return NormalizedText{
		Text:   strings.TrimSpace(s),
		Source: raw.Source,
	}
}
