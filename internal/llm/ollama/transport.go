package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"docpipe/internal/common"
)

// generateRequest is the /api/generate payload. Streaming stays off so the
// whole completion arrives in one body; format pins the model to JSON output.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
	Format string `json:"format,omitempty"`
}

// generate posts greq to /api/generate and returns the raw response body.
// Transport failures and non-2xx statuses map to ErrUpstreamUnavailable; a
// cancellation on the caller's side comes back as the context error.
func (c *Client) generate(ctx context.Context, rid string, greq generateRequest) ([]byte, error) {
	start := time.Now()

	bs, err := json.Marshal(greq)
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.generateURL(), bytes.NewReader(bs))
	if err != nil {
		return nil, fmt.Errorf("build generate request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Info("llm.http.request",
		"req_id", rid,
		"url", httpReq.URL.String(),
		"model", greq.Model,
		"content_length", len(bs),
	)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Error("llm.http.send_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, common.NewAppError("LLM_UPSTREAM",
			"model endpoint unreachable",
			fmt.Errorf("%w: %v", common.ErrUpstreamUnavailable, err))
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("llm.http.body_close_error", "req_id", rid, "error", cerr)
		}
	}()

	raw, _ := io.ReadAll(resp.Body)

	c.logger.Info("llm.http.response",
		"req_id", rid,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		return raw, common.NewAppError("LLM_STATUS",
			fmt.Sprintf("model endpoint returned status %d", resp.StatusCode),
			fmt.Errorf("%w: status %d", common.ErrUpstreamUnavailable, resp.StatusCode))
	}
	return raw, nil
}

func (c *Client) generateURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + "/api/generate"
}
