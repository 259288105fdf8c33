package llm

import (
	"context"

	"docpipe/internal/entity"
)

// ExtractRequest carries everything the delegated extractor needs for one
// document.
type ExtractRequest struct {
	Text            string // normalized document text
	FilenameHint    string
	DefaultCurrency string // applied by the model when uncertain
}

// RecordExtractor is the interface the pipeline's delegated branch depends
// on. The raw JSON the model produced is returned alongside the decoded
// record for audit logging. Implementations fail with
// common.ErrUpstreamUnavailable (transport/timeout),
// common.ErrMalformedOutput (unparseable response), or
// common.ErrSchemaViolation (parseable but schema-breaking response); they
// never repair or fall back.
type RecordExtractor interface {
	ExtractRecord(ctx context.Context, req ExtractRequest) (entity.ExtractedRecord, []byte, error)
}
