package entity

import (
	"docpipe/constants"
)

// ExtractedRecord is the structured result of a document extraction.
// Absent fields stay nil; they are never coerced to zero values. The record
// is immutable once validated and handed to persistence.
type ExtractedRecord struct {
	DocType        constants.DocType `json:"doc_type"`
	Vendor         *string           `json:"vendor,omitempty"`
	DocumentNumber *string           `json:"document_number,omitempty"`
	DocumentDate   *string           `json:"document_date,omitempty"` // YYYY-MM-DD
	TotalAmount    *float64          `json:"total_amount,omitempty"`
	Currency       string            `json:"currency,omitempty"` // ISO 4217
	LineItems      []LineItem        `json:"line_items"`
}

// LineItem is one recovered itemized entry, in document order.
// When all three numeric fields are present, amount is expected to
// approximate quantity*unit_price, but the extractor does not reconcile.
type LineItem struct {
	Description string   `json:"description"`
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	Amount      *float64 `json:"amount,omitempty"`
}

// Str returns a pointer to s, for optional record fields.
func Str(s string) *string { return &s }

// Num returns a pointer to f, for optional record fields.
func Num(f float64) *float64 { return &f }
