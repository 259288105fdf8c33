package repository

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"docpipe/internal/entity"
)

// ArtifactWriter mirrors each persisted outcome to a JSON file on disk, one
// file per document, so results survive independently of the database.
type ArtifactWriter struct {
	dir    string
	logger *slog.Logger
}

func NewArtifactWriter(dir string, logger *slog.Logger) *ArtifactWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ArtifactWriter{dir: dir, logger: logger}
}

// Write serializes the response to <dir>/document_<id>.json, creating the
// directory on first use. The artifact is best-effort from the caller's point
// of view but errors are still reported.
func (w *ArtifactWriter) Write(id uuid.UUID, doc *entity.DocumentResponse) (string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return "", fmt.Errorf("create artifact dir: %w", err)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode artifact: %w", err)
	}
	path := filepath.Join(w.dir, "document_"+id.String()+".json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write artifact: %w", err)
	}
	w.logger.Debug("artifact written", "path", path, "bytes", len(b))
	return path, nil
}
