package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/entity"
	"docpipe/internal/export"
	"docpipe/internal/pipeline"
	"docpipe/internal/repository"
	"docpipe/internal/textproc"
)

// stubTextSource feeds canned text into the pipeline.
type stubTextSource struct {
	text string
	err  error
}

func (s stubTextSource) ExtractText(_ context.Context, _ []byte) (textproc.RawText, error) {
	if s.err != nil {
		return textproc.RawText{}, s.err
	}
	return textproc.RawText{Text: s.text, Source: constants.TextSourceNative}, nil
}

// memDocs is an in-memory DocumentRepository.
type memDocs struct {
	saved []*repository.SaveDocumentRequest
}

func (m *memDocs) Save(_ context.Context, req *repository.SaveDocumentRequest) error {
	m.saved = append(m.saved, req)
	return nil
}

func (m *memDocs) GetByID(_ context.Context, id uuid.UUID) (*entity.DocumentResponse, error) {
	for _, s := range m.saved {
		if s.Meta.ID == id {
			return &entity.DocumentResponse{Metadata: s.Meta, Record: s.Record}, nil
		}
	}
	return nil, common.NewAppError("REPO_NOT_FOUND", "document not found", common.ErrNotFound)
}

func (m *memDocs) List(_ context.Context, limit, offset int) ([]*entity.DocumentResponse, error) {
	out := make([]*entity.DocumentResponse, 0, len(m.saved))
	for _, s := range m.saved {
		out = append(out, &entity.DocumentResponse{Metadata: s.Meta, Record: s.Record})
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func newTestServer(src stubTextSource, docs *memDocs) *Server {
	pipe := pipeline.New(nil, src, nil)
	return New(":0", Deps{
		Pipeline:    pipe,
		Documents:   docs,
		Exporter:    export.NewService(docs, nil),
		DefaultMode: constants.ModeRules,
	}, nil)
}

func multipartPDF(t *testing.T, field, filename string, extra map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte("%PDF-1.4 test")); err != nil {
		t.Fatal(err)
	}
	for k, v := range extra {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, mw.FormDataContentType()
}

func TestPostExtractSuccess(t *testing.T) {
	docs := &memDocs{}
	srv := newTestServer(stubTextSource{text: "INVOICE\nAcme Corporation\nTotal: $10.00"}, docs)

	body, ctype := multipartPDF(t, "file", "acme.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var resp entity.DocumentResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Metadata.Status != constants.DocStatusSuccess {
		t.Errorf("Status = %q, want SUCCESS", resp.Metadata.Status)
	}
	if resp.Record == nil || resp.Record.DocType != constants.Invoice {
		t.Errorf("Record = %+v, want invoice", resp.Record)
	}
	if len(docs.saved) != 1 {
		t.Errorf("persisted %d documents, want 1", len(docs.saved))
	}
}

func TestPostExtractRejectsNonPDF(t *testing.T) {
	docs := &memDocs{}
	srv := newTestServer(stubTextSource{text: "whatever"}, docs)

	body, ctype := multipartPDF(t, "file", "notes.txt", nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
	if len(docs.saved) != 0 {
		t.Error("rejected upload must not be persisted")
	}
}

func TestPostExtractRejectsUnknownMode(t *testing.T) {
	srv := newTestServer(stubTextSource{text: "x"}, &memDocs{})

	body, ctype := multipartPDF(t, "file", "a.pdf", map[string]string{"mode": "psychic"})
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestPostExtractUnreadableDocumentPersistsFailure(t *testing.T) {
	docs := &memDocs{}
	src := stubTextSource{err: common.NewAppError("OCR_NO_TEXT", "document produced no extractable text", common.ErrUnreadableDocument)}
	srv := newTestServer(src, docs)

	body, ctype := multipartPDF(t, "file", "scan.pdf", nil)
	req := httptest.NewRequest(http.MethodPost, "/extract", body)
	req.Header.Set("Content-Type", ctype)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", w.Code)
	}
	if len(docs.saved) != 1 {
		t.Fatalf("persisted %d documents, want the failure recorded", len(docs.saved))
	}
	if docs.saved[0].Meta.Status != constants.DocStatusFailed {
		t.Errorf("Status = %q, want FAILED", docs.saved[0].Meta.Status)
	}
	if docs.saved[0].Record != nil {
		t.Error("failed document must not carry a record")
	}
}

func TestGetDocumentNotFound(t *testing.T) {
	srv := newTestServer(stubTextSource{text: "x"}, &memDocs{})

	req := httptest.NewRequest(http.MethodGet, "/documents/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestGetDocumentBadID(t *testing.T) {
	srv := newTestServer(stubTextSource{text: "x"}, &memDocs{})

	req := httptest.NewRequest(http.MethodGet, "/documents/not-a-uuid", nil)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListDocumentsBadQuery(t *testing.T) {
	srv := newTestServer(stubTextSource{text: "x"}, &memDocs{})

	req := httptest.NewRequest(http.MethodGet, "/documents?limit=banana", nil)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(stubTextSource{text: "x"}, &memDocs{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}

func TestExportXLSX(t *testing.T) {
	docs := &memDocs{}
	srv := newTestServer(stubTextSource{text: "INVOICE\nAcme Corporation\nTotal: $10.00"}, docs)

	body, ctype := multipartPDF(t, "file", "acme.pdf", nil)
	post := httptest.NewRequest(http.MethodPost, "/extract", body)
	post.Header.Set("Content-Type", ctype)
	srv.http.Handler.ServeHTTP(httptest.NewRecorder(), post)

	req := httptest.NewRequest(http.MethodGet, "/export.xlsx", nil)
	w := httptest.NewRecorder()
	srv.http.Handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet" {
		t.Errorf("Content-Type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Error("empty workbook body")
	}
}
