package llm

import (
	"encoding/json"
	"strings"
)

// promptTextLimit caps how much document text goes into the prompt.
const promptTextLimit = 3000

// BuildExtractionPrompt renders the instruction block the delegated model
// receives: the target schema, formatting rules, and the document text.
func BuildExtractionPrompt(req ExtractRequest) string {
	defCur := req.DefaultCurrency
	if defCur == "" {
		defCur = "USD"
	}

	text := req.Text
	if len(text) > promptTextLimit {
		text = text[:promptTextLimit]
	}

	var b strings.Builder
	b.WriteString("You are a document parser. Extract structured information from the following document text and return ONLY valid JSON with no additional explanation.\n\n")
	b.WriteString("The JSON must match this JSON Schema:\n")
	b.WriteString(mustJSON(BuildRecordJSONSchema()))
	b.WriteString("\n\nRules:\n")
	b.WriteString("- doc_type must be one of: invoice, receipt, contract, other.\n")
	b.WriteString("- Use ISO-8601 dates (YYYY-MM-DD).\n")
	b.WriteString("- currency must be a 3-letter ISO 4217 code; default to " + defCur + " if uncertain.\n")
	b.WriteString("- Never output null. If a field is not present in the document, omit it.\n")
	if req.FilenameHint != "" {
		b.WriteString("\nFilename: " + req.FilenameHint + "\n")
	}
	b.WriteString("\nDocument text:\n")
	b.WriteString(text)
	b.WriteString("\n\nReturn only the JSON object:")
	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
