package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docpipe/internal/common"
	"docpipe/internal/entity"
)

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidateRecord checks a candidate record against the data-model
// invariants (enum membership, non-negative numerics, date format) by
// serializing it and validating against the record schema. Both extraction
// modes go through this before a record is emitted.
func ValidateRecord(rec entity.ExtractedRecord) error {
	if rec.LineItems == nil {
		rec.LineItems = []entity.LineItem{}
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return common.NewAppError("VALIDATE_ENCODE", "encode record", err)
	}
	if err := ValidateJSONAgainstSchema(BuildRecordJSONSchema(), b); err != nil {
		return common.NewAppError("VALIDATE_SCHEMA", "record failed schema validation", fmt.Errorf("%w: %v", common.ErrSchemaViolation, err))
	}
	// the schema's date pattern only checks shape; "2024-13-45" still needs
	// to be rejected as a calendar date
	if rec.DocumentDate != nil {
		if _, err := time.Parse("2006-01-02", *rec.DocumentDate); err != nil {
			return common.NewAppError("VALIDATE_DATE", "document_date is not a calendar date", fmt.Errorf("%w: %v", common.ErrSchemaViolation, err))
		}
	}
	return nil
}
