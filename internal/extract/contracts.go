package extract

import (
	"context"
	"time"

	"docpipe/internal/textproc"
)

// TextSource is Stage 1: document bytes -> raw text with provenance.
// Implementations fail with common.ErrUnreadableDocument when no text can
// be produced from the input.
type TextSource interface {
	ExtractText(ctx context.Context, pdf []byte) (textproc.RawText, error)
}

// Diagnoser is optionally implemented by text sources that can report
// extraction diagnostics alongside the text. Callers that hold a TextSource
// may type-assert to it.
type Diagnoser interface {
	Extract(ctx context.Context, pdf []byte) (TextExtractionResult, error)
}

// TextExtractionResult carries diagnostics alongside the raw text for
// callers that want them (logging, confidence-based review flags).
type TextExtractionResult struct {
	Text       textproc.RawText
	Pages      int
	Method     string // "pdf-text" | "pdf-ocr"
	Duration   time.Duration
	Warnings   []string
	Confidence float32
}
