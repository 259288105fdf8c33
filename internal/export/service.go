package export

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"docpipe/internal/entity"
	"docpipe/internal/repository"
)

// Service is a tiny façade over the document repository that produces XLSX
// bytes for exports.
type Service struct {
	docs   repository.DocumentRepository
	logger *slog.Logger
}

func NewService(docs repository.DocumentRepository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{docs: docs, logger: logger}
}

// exportPageSize bounds how many rows are pulled per repository call.
const exportPageSize = 500

// ExportDocumentsXLSX returns an XLSX workbook (as bytes) with one row per
// stored document, newest first. Failed documents appear with their error
// message and empty field columns.
func (s *Service) ExportDocumentsXLSX(ctx context.Context) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Documents"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	if index, _ := f.GetSheetIndex("Sheet1"); index != -1 {
		_ = f.DeleteSheet("Sheet1")
	}

	headers := []string{
		"Uploaded",
		"Filename",
		"Status",
		"Document Type",
		"Vendor",
		"Document Number",
		"Document Date",
		"Total",
		"Currency",
		"Line Items",
		"Error",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	row := 2
	total := 0
	for offset := 0; ; offset += exportPageSize {
		docs, err := s.docs.List(ctx, exportPageSize, offset)
		if err != nil {
			return nil, fmt.Errorf("query documents: %w", err)
		}
		for _, d := range docs {
			writeDocumentRow(f, sheet, row, d)
			row++
		}
		total += len(docs)
		if len(docs) < exportPageSize {
			break
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 20) // uploaded
	_ = f.SetColWidth(sheet, "B", "B", 32) // filename
	_ = f.SetColWidth(sheet, "C", "D", 14) // status, type
	_ = f.SetColWidth(sheet, "E", "E", 28) // vendor
	_ = f.SetColWidth(sheet, "F", "G", 18) // number, date
	_ = f.SetColWidth(sheet, "H", "I", 12) // total, currency
	_ = f.SetColWidth(sheet, "K", "K", 48) // error

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", total,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func writeDocumentRow(f *excelize.File, sheet string, row int, d *entity.DocumentResponse) {
	write := func(col int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	write(1, d.Metadata.UploadedAt.UTC().Format("2006-01-02 15:04:05"))
	write(2, d.Metadata.Filename)
	write(3, string(d.Metadata.Status))

	if r := d.Record; r != nil {
		write(4, string(r.DocType))
		if r.Vendor != nil {
			write(5, *r.Vendor)
		}
		if r.DocumentNumber != nil {
			write(6, *r.DocumentNumber)
		}
		if r.DocumentDate != nil {
			write(7, *r.DocumentDate)
		}
		if r.TotalAmount != nil {
			write(8, *r.TotalAmount)
		}
		write(9, r.Currency)
		write(10, len(r.LineItems))
	}
	if d.Metadata.ErrorMessage != nil {
		write(11, truncate(*d.Metadata.ErrorMessage, 140))
	}
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
