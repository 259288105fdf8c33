package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"docpipe/constants"
	"docpipe/internal/common"
)

// stubRunner replaces external binaries with canned behavior. For pdftoppm it
// fabricates page images so the glob in pdfToOCR finds something.
type stubRunner struct {
	nativeText  string
	nativeErr   error
	renderErr   error
	renderPages int
	ocrText     string
	ocrErr      error
}

func (s stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	switch name {
	case "pdftotext":
		if s.nativeErr != nil {
			return nil, []byte("pdftotext: boom"), s.nativeErr
		}
		return []byte(s.nativeText), nil, nil
	case "pdftoppm":
		if s.renderErr != nil {
			return nil, []byte("pdftoppm: boom"), s.renderErr
		}
		prefix := args[len(args)-1]
		for i := 1; i <= s.renderPages; i++ {
			if err := os.WriteFile(fmt.Sprintf("%s-%d.png", prefix, i), []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	case "tesseract":
		if s.ocrErr != nil {
			return nil, []byte("tesseract: boom"), s.ocrErr
		}
		return []byte(s.ocrText), nil, nil
	}
	return nil, nil, fmt.Errorf("unexpected command %q", name)
}

func newTestExtractor(r Runner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = r
	return e
}

const longNativeText = "INVOICE\nAcme Corporation\nInvoice #: INV-2024-001\nDate: 01/15/2024\nTotal: $1,250.00"

func TestExtractNativeText(t *testing.T) {
	e := newTestExtractor(stubRunner{nativeText: longNativeText})

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if res.Method != "pdf-text" {
		t.Errorf("Method = %q, want pdf-text", res.Method)
	}
	if res.Text.Source != constants.TextSourceNative {
		t.Errorf("Source = %q, want native", res.Text.Source)
	}
	if res.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", res.Confidence)
	}
	if res.Text.Text != longNativeText {
		t.Errorf("unexpected text %q", res.Text.Text)
	}
}

func TestExtractFallsBackToOCR(t *testing.T) {
	// native pass yields too little; OCR takes over
	e := newTestExtractor(stubRunner{
		nativeText:  "x",
		renderPages: 2,
		ocrText:     "RECEIPT\nCorner Store\nTotal: $4.50",
	})

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if res.Method != "pdf-ocr" {
		t.Errorf("Method = %q, want pdf-ocr", res.Method)
	}
	if res.Text.Source != constants.TextSourceOCR {
		t.Errorf("Source = %q, want ocr", res.Text.Source)
	}
	if res.Pages != 2 {
		t.Errorf("Pages = %d, want 2", res.Pages)
	}
	if !strings.Contains(res.Text.Text, "Corner Store") {
		t.Errorf("OCR text missing content: %q", res.Text.Text)
	}
	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Errorf("Confidence = %v, want (0, 1]", res.Confidence)
	}
}

func TestExtractMaxPagesCap(t *testing.T) {
	e := NewExtractor(Config{MaxPages: 1}, nil)
	e.runner = stubRunner{
		nativeText:  "",
		renderPages: 3,
		ocrText:     "Total: $4.50",
	}

	res, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if res.Pages != 1 {
		t.Errorf("Pages = %d, want cap of 1", res.Pages)
	}
}

func TestExtractNoTextAnywhere(t *testing.T) {
	e := newTestExtractor(stubRunner{
		nativeText:  "",
		renderPages: 1,
		ocrText:     "   ",
	})

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	if !errors.Is(err, common.ErrUnreadableDocument) {
		t.Errorf("error = %v, want ErrUnreadableDocument", err)
	}
}

func TestExtractOCRTimeoutIsUpstreamFailure(t *testing.T) {
	// a tesseract timeout is a tool failure, not an unreadable document
	e := newTestExtractor(stubRunner{
		nativeText:  "",
		renderPages: 1,
		ocrErr:      context.DeadlineExceeded,
	})

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	if !errors.Is(err, common.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
	if errors.Is(err, common.ErrUnreadableDocument) {
		t.Error("tool failure must not read as an unreadable document")
	}
	if kind := common.FailureKind(err); kind != "upstream-unavailable" {
		t.Errorf("FailureKind = %q, want upstream-unavailable", kind)
	}
}

func TestExtractRasterizeFailureIsUpstreamFailure(t *testing.T) {
	e := newTestExtractor(stubRunner{
		nativeText: "",
		renderErr:  fmt.Errorf("pdftoppm exited 1"),
	})

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	if !errors.Is(err, common.ErrUpstreamUnavailable) {
		t.Errorf("error = %v, want ErrUpstreamUnavailable", err)
	}
}

func TestExtractNoPagesRendered(t *testing.T) {
	// pdftoppm runs clean but renders nothing: the document has no content
	e := newTestExtractor(stubRunner{nativeText: "", renderPages: 0})

	_, err := e.Extract(context.Background(), []byte("%PDF-1.4"))
	if !errors.Is(err, common.ErrUnreadableDocument) {
		t.Errorf("error = %v, want ErrUnreadableDocument", err)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	e := newTestExtractor(stubRunner{})

	_, err := e.Extract(context.Background(), nil)
	if !errors.Is(err, common.ErrUnreadableDocument) {
		t.Errorf("error = %v, want ErrUnreadableDocument", err)
	}
}

func TestExtractTextWrapsExtract(t *testing.T) {
	e := newTestExtractor(stubRunner{nativeText: longNativeText})

	raw, err := e.ExtractText(context.Background(), []byte("%PDF-1.4"))
	if err != nil {
		t.Fatalf("ExtractText failed: %v", err)
	}
	if raw.Text != longNativeText {
		t.Errorf("unexpected text %q", raw.Text)
	}
}
