package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/entity"
	"docpipe/internal/extract"
	"docpipe/internal/llm"
	"docpipe/internal/rules"
	"docpipe/internal/textproc"
)

// Result is the outcome of one document run.
type Result struct {
	Record     entity.ExtractedRecord
	RawJSON    []byte // raw model output on the delegated path, nil otherwise
	TextSource string // "native" or "ocr"
	Method     string // "pdf-text" or "pdf-ocr"
	Pages      int
	Confidence float32
	Mode       constants.ExtractionMode
	Duration   time.Duration
}

// Pipeline coordinates text extraction, normalization, field extraction, and
// validation for a single document. It is stateless across runs and safe for
// concurrent use when its collaborators are.
type Pipeline struct {
	logger *slog.Logger
	text   extract.TextSource
	engine *rules.Engine
}

func New(logger *slog.Logger, text extract.TextSource, engine *rules.Engine) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	if engine == nil {
		engine = rules.NewEngine()
	}
	return &Pipeline{logger: logger, text: text, engine: engine}
}

// Process runs pdf through the full pipeline with the given strategy.
//
// A document whose text cannot be recovered at all fails with
// common.ErrUnreadableDocument. A document that yields text which normalizes
// to empty succeeds with doc_type=other and every field absent. Both branches
// validate the record before returning it; on the delegated branch, a
// schema-breaking model response is surfaced as-is, never repaired or retried
// through the rules engine.
func (p *Pipeline) Process(ctx context.Context, pdf []byte, filename string, strat Strategy) (Result, error) {
	start := time.Now()

	p.logger.Info("pipeline.start",
		"req_id", common.RequestIDFromContext(ctx),
		"filename", filename,
		"bytes", len(pdf),
		"mode", strat.mode,
	)

	tr, diag, err := p.extractText(ctx, pdf)
	if err != nil {
		p.logger.Error("pipeline.text.failed", "filename", filename, "err", err)
		return Result{}, err
	}

	norm := textproc.Normalize(tr)
	res := Result{
		TextSource: tr.Source,
		Method:     diag.Method,
		Pages:      diag.Pages,
		Confidence: diag.Confidence,
		Mode:       strat.mode,
	}
	p.logger.Info("pipeline.text.ok",
		"filename", filename,
		"source", tr.Source,
		"text_len", len(norm.Text),
	)

	switch {
	case strat.mode == constants.ModeLLM && !norm.Empty():
		if strat.delegate == nil {
			return Result{}, common.NewAppError("PIPELINE_NO_DELEGATE",
				"delegated mode requested but no model client configured",
				common.ErrUpstreamUnavailable)
		}
		rec, raw, exErr := strat.delegate.ExtractRecord(ctx, llm.ExtractRequest{
			Text:            norm.Text,
			FilenameHint:    filename,
			DefaultCurrency: constants.DefaultCurrency,
		})
		if exErr != nil {
			p.logger.Error("pipeline.delegate.failed",
				"filename", filename, "kind", common.FailureKind(exErr), "err", exErr)
			return Result{RawJSON: raw}, exErr
		}
		res.Record = rec
		res.RawJSON = raw
		// same fallback the rules engine applies: a total without a
		// currency defaults, absent totals stay currency-less
		if rec.TotalAmount != nil && rec.Currency == "" {
			res.Record.Currency = constants.DefaultCurrency
		}
	default:
		// rules path; also the empty-text case on either mode, which yields
		// doc_type=other with every field absent
		res.Record = p.engine.ClassifyAndExtract(norm)
	}

	if err := llm.ValidateRecord(res.Record); err != nil {
		p.logger.Error("pipeline.validate.failed", "filename", filename, "err", err)
		return Result{}, err
	}

	// do not emit a record for a run the caller has abandoned
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("pipeline canceled: %w", err)
	}

	res.Duration = time.Since(start)
	p.logger.Info("pipeline.ok",
		"filename", filename,
		"mode", strat.mode,
		"doc_type", res.Record.DocType,
		"line_items", len(res.Record.LineItems),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (p *Pipeline) extractText(ctx context.Context, pdf []byte) (textproc.RawText, extract.TextExtractionResult, error) {
	if d, ok := p.text.(extract.Diagnoser); ok {
		full, err := d.Extract(ctx, pdf)
		return full.Text, full, err
	}
	raw, err := p.text.ExtractText(ctx, pdf)
	return raw, extract.TextExtractionResult{Text: raw}, err
}
