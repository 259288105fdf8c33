package entity

import (
	"time"

	"github.com/google/uuid"

	"docpipe/constants"
)

// DocumentMeta represents a processed document's metadata for data transfer
// between layers.
type DocumentMeta struct {
	ID             uuid.UUID                `json:"id"`
	Filename       string                   `json:"filename"`
	UploadedAt     time.Time                `json:"uploaded_at"`
	ExtractionMode constants.ExtractionMode `json:"extraction_mode"`
	Status         constants.DocStatus      `json:"status"`
	ErrorMessage   *string                  `json:"error_message,omitempty"`
}

// DocumentResponse pairs metadata with the extracted record, when one exists.
// Failed documents carry metadata only.
type DocumentResponse struct {
	Metadata DocumentMeta     `json:"metadata"`
	Record   *ExtractedRecord `json:"extracted_data,omitempty"`
}
