// Package ocr produces raw text from PDF bytes. Native extraction via
// pdftotext runs first; scanned documents fall back to rasterization with
// pdftoppm and per-page tesseract OCR. External binaries run behind a
// Runner so tests can stub them.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/extract"
	"docpipe/internal/textproc"
)

// nativeTextThreshold: below this many trimmed characters the native pass
// is considered a scan and OCR takes over.
const nativeTextThreshold = 50

type Config struct {
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	TesseractLang string // default "eng"
	DPI           int    // rasterization DPI for scanned PDFs, default 300
	MaxPages      int    // 0 = no limit
	Timeout       time.Duration
}

type Extractor struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.TesseractLang == "" {
		cfg.TesseractLang = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}
	return &Extractor{cfg: cfg, runner: execRunner{logger: logger}, logger: logger}
}

var (
	_ extract.TextSource = (*Extractor)(nil)
	_ extract.Diagnoser  = (*Extractor)(nil)
)

// ExtractText writes the PDF bytes to a temp file, tries the native text
// layer, and falls back to OCR when the native pass yields too little.
// Fails with common.ErrUnreadableDocument when neither pass produces text.
func (e *Extractor) ExtractText(ctx context.Context, pdf []byte) (textproc.RawText, error) {
	res, err := e.Extract(ctx, pdf)
	return res.Text, err
}

// Extract is ExtractText plus diagnostics (pages, method, confidence).
func (e *Extractor) Extract(ctx context.Context, pdf []byte) (extract.TextExtractionResult, error) {
	start := time.Now()

	if len(pdf) == 0 {
		return extract.TextExtractionResult{}, common.NewAppError("OCR_EMPTY_INPUT", "empty document", common.ErrUnreadableDocument)
	}

	ctx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
	defer cancel()

	tmp, err := os.CreateTemp("", "docpipe-*.pdf")
	if err != nil {
		return extract.TextExtractionResult{}, err
	}
	defer func() {
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			e.logger.Warn("ocr.tempfile.remove_failed", "path", tmp.Name(), "error", rmErr)
		}
	}()
	if _, err := tmp.Write(pdf); err != nil {
		_ = tmp.Close()
		return extract.TextExtractionResult{}, err
	}
	if err := tmp.Close(); err != nil {
		return extract.TextExtractionResult{}, err
	}

	res := extract.TextExtractionResult{}

	text, pages, warns, nativeErr := e.pdfToText(ctx, tmp.Name())
	if nativeErr == nil && len(strings.TrimSpace(text)) >= nativeTextThreshold {
		res.Text = textproc.RawText{Text: text, Source: constants.TextSourceNative}
		res.Pages = pages
		res.Method = "pdf-text"
		res.Warnings = warns
		res.Confidence = 1.0
		res.Duration = time.Since(start)
		e.logger.Debug("ocr.native.ok", "pages", pages, "bytes", len(text))
		return res, nil
	}
	if nativeErr != nil {
		warns = append(warns, fmt.Sprintf("pdftotext: %v", nativeErr))
	}
	e.logger.Info("ocr.native.insufficient_text", "bytes", len(strings.TrimSpace(text)), "falling_back", "pdf-ocr")

	ocrText, ocrPages, ocrWarns, ocrErr := e.pdfToOCR(ctx, tmp.Name())
	warns = append(warns, ocrWarns...)
	if ocrErr != nil {
		// the tooling broke or timed out; distinct from a document that
		// simply has no text
		res.Warnings = warns
		res.Duration = time.Since(start)
		return res, common.NewAppError("OCR_TOOL_FAILED", "ocr tooling failed or timed out",
			fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, ocrErr))
	}
	if strings.TrimSpace(ocrText) == "" {
		res.Warnings = warns
		res.Duration = time.Since(start)
		return res, common.NewAppError("OCR_NO_TEXT", "document produced no extractable text", common.ErrUnreadableDocument)
	}

	res.Text = textproc.RawText{Text: ocrText, Source: constants.TextSourceOCR}
	res.Pages = ocrPages
	res.Method = "pdf-ocr"
	res.Warnings = warns
	res.Confidence = heuristicConfidence(ocrText)
	res.Duration = time.Since(start)
	return res, nil
}
