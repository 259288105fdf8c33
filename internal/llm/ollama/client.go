package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"

	"docpipe/internal/common"
	"docpipe/internal/entity"
	"docpipe/internal/llm"
)

// reJSONObject grabs the outermost JSON object in a response body. Models
// sometimes wrap their output in prose even when asked not to.
var reJSONObject = regexp.MustCompile(`(?s)\{.*\}`)

// ExtractRecord implements llm.RecordExtractor against an Ollama /api/generate
// endpoint. The response is validated against the record schema before it is
// decoded; a response that parses but breaks the schema is surfaced as a
// schema violation, never repaired.
func (c *Client) ExtractRecord(ctx context.Context, req llm.ExtractRequest) (entity.ExtractedRecord, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"text_len", len(req.Text),
		"filename_hint", req.FilenameHint,
		"default_currency", req.DefaultCurrency,
	)

	raw, httpErr := c.generate(ctx, rid, generateRequest{
		Model:  c.cfg.Model,
		Prompt: llm.BuildExtractionPrompt(req),
		Stream: false,
		Format: "json",
	})
	if httpErr != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ExtractedRecord{}, raw, httpErr
	}

	var gen struct {
		Response string `json:"response"`
	}
	if err := json.Unmarshal(raw, &gen); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ExtractedRecord{}, raw, common.NewAppError("LLM_DECODE",
			"decode generate response envelope",
			fmt.Errorf("%w: %v", common.ErrMalformedOutput, err))
	}

	content := reJSONObject.FindString(gen.Response)
	if content == "" {
		c.logger.Error("llm.extract.no_json",
			"req_id", rid, "response_len", len(gen.Response),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ExtractedRecord{}, []byte(gen.Response), common.NewAppError("LLM_NO_JSON",
			"model output contained no JSON object", common.ErrMalformedOutput)
	}
	rawContent := []byte(content)

	if err := llm.ValidateJSONAgainstSchema(llm.BuildRecordJSONSchema(), rawContent); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", content,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ExtractedRecord{}, rawContent, common.NewAppError("LLM_SCHEMA",
			"model output failed schema validation",
			fmt.Errorf("%w: %v", common.ErrSchemaViolation, err))
	}

	var out entity.ExtractedRecord
	if err := json.Unmarshal(rawContent, &out); err != nil {
		c.logger.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.ExtractedRecord{}, rawContent, common.NewAppError("LLM_UNMARSHAL",
			"decode record fields",
			fmt.Errorf("%w: %v", common.ErrMalformedOutput, err))
	}
	if out.LineItems == nil {
		out.LineItems = []entity.LineItem{}
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"doc_type", out.DocType,
		"total", deref(out.TotalAmount),
		"currency", out.Currency,
		"line_items", len(out.LineItems),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, rawContent, nil
}

// Ping checks reachability of the Ollama endpoint without generating.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.generate(ctx, uuid.New().String(), generateRequest{Model: c.cfg.Model, Stream: false})
	return err
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
