package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/entity"
)

// SaveDocumentRequest wraps parameters for persisting one processing outcome.
// Record is nil for failed documents.
type SaveDocumentRequest struct {
	Meta   entity.DocumentMeta
	Record *entity.ExtractedRecord
}

type DocumentRepository interface {
	Save(ctx context.Context, req *SaveDocumentRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentResponse, error)
	List(ctx context.Context, limit, offset int) ([]*entity.DocumentResponse, error)
}

type documentRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewDocumentRepository(db *sql.DB, logger *slog.Logger) DocumentRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &documentRepository{db: db, logger: logger}
}

func (r *documentRepository) Save(ctx context.Context, req *SaveDocumentRequest) error {
	var recJSON sql.NullString
	if req.Record != nil {
		b, err := json.Marshal(req.Record)
		if err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
		recJSON = sql.NullString{String: string(b), Valid: true}
	}
	var errMsg sql.NullString
	if req.Meta.ErrorMessage != nil {
		errMsg = sql.NullString{String: *req.Meta.ErrorMessage, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, uploaded_at, extraction_mode, status, error_message, record)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		req.Meta.ID.String(),
		req.Meta.Filename,
		req.Meta.UploadedAt.UTC(),
		string(req.Meta.ExtractionMode),
		string(req.Meta.Status),
		errMsg,
		recJSON,
	)
	if err != nil {
		r.logger.Error("failed to save document", "id", req.Meta.ID, "error", err)
		return err
	}
	r.logger.Info("document saved", "id", req.Meta.ID, "status", req.Meta.Status)
	return nil
}

func (r *documentRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.DocumentResponse, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, filename, uploaded_at, extraction_mode, status, error_message, record
		FROM documents WHERE id = $1`, id.String())
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError("REPO_NOT_FOUND", "document not found", common.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("failed to get document", "id", id, "error", err)
		return nil, err
	}
	return doc, nil
}

func (r *documentRepository) List(ctx context.Context, limit, offset int) ([]*entity.DocumentResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, uploaded_at, extraction_mode, status, error_message, record
		FROM documents ORDER BY uploaded_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		r.logger.Error("failed to list documents", "error", err)
		return nil, err
	}
	defer func() {
		if cErr := rows.Close(); cErr != nil {
			r.logger.Warn("rows close error", "error", cErr)
		}
	}()

	out := make([]*entity.DocumentResponse, 0, limit)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(s rowScanner) (*entity.DocumentResponse, error) {
	var (
		idStr      string
		uploadedAt time.Time
		mode       string
		status     string
		errMsg     sql.NullString
		recJSON    sql.NullString
		doc        entity.DocumentResponse
	)
	if err := s.Scan(&idStr, &doc.Metadata.Filename, &uploadedAt, &mode, &status, &errMsg, &recJSON); err != nil {
		return nil, err
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse document id %q: %w", idStr, err)
	}
	doc.Metadata.ID = id
	doc.Metadata.UploadedAt = uploadedAt
	doc.Metadata.ExtractionMode = constants.ExtractionMode(mode)
	doc.Metadata.Status = constants.DocStatus(status)
	if errMsg.Valid {
		doc.Metadata.ErrorMessage = &errMsg.String
	}
	if recJSON.Valid && recJSON.String != "" {
		var rec entity.ExtractedRecord
		if err := json.Unmarshal([]byte(recJSON.String), &rec); err != nil {
			return nil, fmt.Errorf("decode stored record: %w", err)
		}
		doc.Record = &rec
	}
	return &doc, nil
}
