package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"docpipe/constants"
	"docpipe/internal/common"
	"docpipe/internal/entity"
	"docpipe/internal/pipeline"
	"docpipe/internal/repository"
)

// maxUploadBytes caps how much of an upload is read into memory.
const maxUploadBytes = 32 << 20

// postExtract accepts a multipart PDF upload, runs the pipeline, persists the
// outcome either way, and returns the stored document. Failures are recorded
// with status FAILED before the error response goes out.
func (s *Server) postExtract(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		respondError(c, common.NewAppError("HTTP_NO_FILE", "multipart field 'file' is required", common.ErrInvalidInput))
		return
	}
	if !constants.IsAllowedExt(filepath.Ext(fh.Filename)) {
		respondError(c, common.NewAppError("HTTP_BAD_EXT",
			fmt.Sprintf("unsupported file type %q, only PDF is accepted", fh.Filename),
			common.ErrUnsupportedFormat))
		return
	}

	mode := s.deps.DefaultMode
	if m := c.PostForm("mode"); m != "" {
		if !constants.IsValidMode(m) {
			respondError(c, common.NewAppError("HTTP_BAD_MODE",
				fmt.Sprintf("unknown extraction mode %q", m), common.ErrInvalidInput))
			return
		}
		mode = constants.ExtractionMode(m)
	}

	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer func() { _ = f.Close() }()
	pdf, err := io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		respondError(c, err)
		return
	}

	meta := entity.DocumentMeta{
		ID:             uuid.New(),
		Filename:       fh.Filename,
		UploadedAt:     time.Now().UTC(),
		ExtractionMode: mode,
	}

	strat := pipeline.StrategyFor(mode, s.deps.LLMClient)
	res, runErr := s.deps.Pipeline.Process(c.Request.Context(), pdf, fh.Filename, strat)
	if runErr != nil {
		msg := runErr.Error()
		meta.Status = constants.DocStatusFailed
		meta.ErrorMessage = &msg
		if saveErr := s.deps.Documents.Save(c.Request.Context(), &repository.SaveDocumentRequest{Meta: meta}); saveErr != nil {
			s.logger.Error("failed to persist failed document", zap.String("id", meta.ID.String()), zap.Error(saveErr))
		}
		s.logger.Warn("extraction failed",
			zap.String("id", meta.ID.String()),
			zap.String("kind", common.FailureKind(runErr)),
			zap.Error(runErr),
		)
		respondError(c, runErr)
		return
	}

	meta.Status = constants.DocStatusSuccess
	doc := &entity.DocumentResponse{Metadata: meta, Record: &res.Record}
	if err := s.deps.Documents.Save(c.Request.Context(), &repository.SaveDocumentRequest{Meta: meta, Record: &res.Record}); err != nil {
		respondError(c, err)
		return
	}
	if s.deps.Artifacts != nil {
		if _, err := s.deps.Artifacts.Write(meta.ID, doc); err != nil {
			s.logger.Warn("artifact write failed", zap.String("id", meta.ID.String()), zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) listDocuments(c *gin.Context) {
	limit, err := intQuery(c, "limit", 50)
	if err != nil {
		respondError(c, err)
		return
	}
	offset, err := intQuery(c, "offset", 0)
	if err != nil {
		respondError(c, err)
		return
	}

	docs, err := s.deps.Documents.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

func (s *Server) getDocument(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, common.NewAppError("HTTP_BAD_ID", "document id must be a UUID", common.ErrInvalidInput))
		return
	}
	doc, err := s.deps.Documents.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *Server) exportXLSX(c *gin.Context) {
	b, err := s.deps.Exporter.ExportDocumentsXLSX(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="documents.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b)
}

func intQuery(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, common.NewAppError("HTTP_BAD_QUERY",
			fmt.Sprintf("query parameter %q must be a non-negative integer", name),
			common.ErrInvalidInput)
	}
	return v, nil
}
