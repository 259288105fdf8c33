package rules

import (
	"docpipe/constants"
	"docpipe/internal/entity"
	"docpipe/internal/textproc"
)

// Engine is the deterministic extraction engine: classifier, field rule
// tables, and line-item recovery behind one facade. It is stateless and
// safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine {
	return &Engine{}
}

// ClassifyAndExtract runs the full rules path over normalized text:
// classification, scalar fields, then line items. It never fails; fields
// that match no rule are left absent. Empty text yields doc_type=other with
// everything absent.
func (e *Engine) ClassifyAndExtract(text textproc.NormalizedText) entity.ExtractedRecord {
	if text.Empty() {
		return entity.ExtractedRecord{DocType: constants.Other, LineItems: []entity.LineItem{}}
	}

	cls := Classify(text)
	rec := entity.ExtractedRecord{DocType: cls.DocType}

	if v, ok := extractVendor(text.Text, text.Lines()); ok {
		rec.Vendor = entity.Str(v)
	}
	if id, ok := extractDocumentNumber(text.Text); ok {
		rec.DocumentNumber = entity.Str(id)
	}
	if date, ok := ExtractDate(text.Text); ok {
		rec.DocumentDate = entity.Str(date)
	}
	if total, ok := ExtractTotal(text.Text); ok {
		rec.TotalAmount = entity.Num(total)
	}

	// currency: symbol table first; USD only as the documented fallback
	// when a monetary value was extracted, otherwise absent
	if code, ok := constants.InferCurrency(text.Text); ok {
		rec.Currency = code
	} else if rec.TotalAmount != nil {
		rec.Currency = constants.DefaultCurrency
	}

	rec.LineItems = ExtractLineItems(text)
	if rec.LineItems == nil {
		rec.LineItems = []entity.LineItem{}
	}
	return rec
}

// ExtractLineItems exposes line-item recovery on its own, for callers that
// only need itemization.
func (e *Engine) ExtractLineItems(text textproc.NormalizedText) []entity.LineItem {
	return ExtractLineItems(text)
}
