package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/entity"
)

func openTestDB(t *testing.T) DocumentRepository {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "documents.db")
	db, err := Open(context.Background(), Config{DSN: dsn, DialTimeout: 5 * time.Second}, nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewDocumentRepository(db, nil)
}

func successDoc(filename string) *SaveDocumentRequest {
	return &SaveDocumentRequest{
		Meta: entity.DocumentMeta{
			ID:             uuid.New(),
			Filename:       filename,
			UploadedAt:     time.Now().UTC(),
			ExtractionMode: constants.ModeRules,
			Status:         constants.DocStatusSuccess,
		},
		Record: &entity.ExtractedRecord{
			DocType:     constants.Invoice,
			Vendor:      entity.Str("Acme Corporation"),
			TotalAmount: entity.Num(1250.00),
			Currency:    "USD",
			LineItems:   []entity.LineItem{},
		},
	}
}

func TestSaveAndGetByID(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	req := successDoc("acme.pdf")
	if err := repo.Save(ctx, req); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.GetByID(ctx, req.Meta.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Metadata.Filename != "acme.pdf" {
		t.Errorf("Filename = %q, want acme.pdf", got.Metadata.Filename)
	}
	if got.Metadata.Status != constants.DocStatusSuccess {
		t.Errorf("Status = %q, want SUCCESS", got.Metadata.Status)
	}
	if got.Record == nil {
		t.Fatal("Record missing on successful document")
	}
	if got.Record.Vendor == nil || *got.Record.Vendor != "Acme Corporation" {
		t.Errorf("Vendor = %v, want 'Acme Corporation'", got.Record.Vendor)
	}
	if got.Record.TotalAmount == nil || *got.Record.TotalAmount != 1250.00 {
		t.Errorf("TotalAmount = %v, want 1250.00", got.Record.TotalAmount)
	}
}

func TestSaveFailedDocument(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	msg := "OCR_NO_TEXT: document produced no extractable text"
	req := &SaveDocumentRequest{
		Meta: entity.DocumentMeta{
			ID:             uuid.New(),
			Filename:       "scan.pdf",
			UploadedAt:     time.Now().UTC(),
			ExtractionMode: constants.ModeRules,
			Status:         constants.DocStatusFailed,
			ErrorMessage:   &msg,
		},
	}
	if err := repo.Save(ctx, req); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := repo.GetByID(ctx, req.Meta.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Metadata.Status != constants.DocStatusFailed {
		t.Errorf("Status = %q, want FAILED", got.Metadata.Status)
	}
	if got.Metadata.ErrorMessage == nil || *got.Metadata.ErrorMessage != msg {
		t.Errorf("ErrorMessage = %v, want %q", got.Metadata.ErrorMessage, msg)
	}
	if got.Record != nil {
		t.Error("failed document must not carry a record")
	}
}

func TestGetByIDNotFound(t *testing.T) {
	repo := openTestDB(t)

	_, err := repo.GetByID(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if !errors.Is(err, common.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	older := successDoc("older.pdf")
	older.Meta.UploadedAt = time.Now().UTC().Add(-time.Hour)
	newer := successDoc("newer.pdf")

	if err := repo.Save(ctx, older); err != nil {
		t.Fatalf("Save older: %v", err)
	}
	if err := repo.Save(ctx, newer); err != nil {
		t.Fatalf("Save newer: %v", err)
	}

	docs, err := repo.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(docs))
	}
	if docs[0].Metadata.Filename != "newer.pdf" {
		t.Errorf("first document = %q, want newer.pdf", docs[0].Metadata.Filename)
	}

	page, err := repo.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("List page failed: %v", err)
	}
	if len(page) != 1 || page[0].Metadata.Filename != "older.pdf" {
		t.Errorf("offset page = %+v, want just older.pdf", page)
	}
}
