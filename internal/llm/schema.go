package llm

import (
	"docpipe/constants"
)

// BuildRecordJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass this to the delegated model as an output constraint
// and also use it locally to validate candidate records from either mode.
func BuildRecordJSONSchema() map[string]any {
	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"description": map[string]any{"type": "string", "minLength": 1},
			"quantity":    map[string]any{"type": "number", "exclusiveMinimum": 0.0},
			"unit_price":  map[string]any{"type": "number", "minimum": 0.0},
			"amount":      map[string]any{"type": "number", "minimum": 0.0},
		},
		"required": []string{"description"},
	}

	props := map[string]any{
		"doc_type": map[string]any{
			"type": "string",
			"enum": constants.DocTypeStrings(),
		},
		"vendor":          map[string]any{"type": "string", "minLength": 1},
		"document_number": map[string]any{"type": "string", "minLength": 1},
		"document_date":   map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
		"total_amount":    map[string]any{"type": "number", "minimum": 0.0},
		"currency":        map[string]any{"type": "string", "minLength": 3, "maxLength": 3},
		"line_items": map[string]any{
			"type":  "array",
			"items": lineItem,
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"doc_type"},
	}
}
