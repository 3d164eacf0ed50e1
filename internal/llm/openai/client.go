package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/slatecrew/callsheet/internal/common"
	"github.com/slatecrew/callsheet/internal/llm"
)

// backoffBase is the first retry delay; each subsequent retry doubles it.
const backoffBase = time.Second

// ExtractScenes implements llm.ChunkExtractor using text-only chat/completions.
// Transient failures (429, 5xx, network) are retried with exponential backoff
// up to cfg.MaxAttempts; terminal failures (auth, exhausted quota) return
// immediately so the caller can stop issuing requests for the session.
func (c *Client) ExtractScenes(ctx context.Context, req llm.ExtractRequest) (llm.DayExtraction, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.log.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"day", req.DayNumber,
		"text_len", len(req.ChunkText),
		"roster_len", len(req.Roster),
	)

	schema := llm.BuildDayJSONSchema()
	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "user", "content": llm.BuildUserPrompt(req)},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
		},
	}
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = c.cfg.MaxTokens
	}
	if maxTokens > 0 {
		body["max_tokens"] = maxTokens
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, httpErr := c.postWithRetry(ctx, rid, endpoint, body)
	if httpErr != nil {
		c.log.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.DayExtraction{}, nil, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.DayExtraction{}, raw, fmt.Errorf("decode completion response: %w", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.DayExtraction{}, raw, fmt.Errorf("no choices in completion response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	repaired, err := llm.Repair(content)
	if err != nil {
		c.log.Error("llm.extract.repair_failed",
			"req_id", rid, "error", err, "content", string(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.DayExtraction{}, content, err
	}

	cleaned, dropped, err := llm.NormalizeDayJSON(repaired, c.log)
	if err != nil {
		c.log.Error("llm.extract.sanitize_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.DayExtraction{}, repaired, fmt.Errorf("sanitize failed: %w", err)
	}
	if len(dropped) > 0 {
		c.log.Warn("llm.extract.sanitize_applied", "req_id", rid, "dropped", dropped)
	}

	if err := llm.ValidateJSONAgainstSchema(schema, cleaned); err != nil {
		c.log.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err, "content", string(cleaned),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.DayExtraction{}, cleaned, fmt.Errorf("schema validation failed: %w", err)
	}

	var out llm.DayExtraction
	if err := json.Unmarshal(cleaned, &out); err != nil {
		c.log.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return llm.DayExtraction{}, cleaned, fmt.Errorf("unmarshal scenes: %w", err)
	}

	c.log.Info("llm.extract.ok",
		"req_id", rid,
		"day", req.DayNumber,
		"scenes", len(out.Scenes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, cleaned, nil
}

// postWithRetry issues the request up to cfg.MaxAttempts times. Only transient
// errors are retried; terminal and unclassified errors surface immediately.
func (c *Client) postWithRetry(ctx context.Context, rid, url string, body map[string]any) ([]byte, error) {
	var lastErr error
	delay := backoffBase
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		raw, err := c.post(ctx, url, body)
		if err == nil {
			return raw, nil
		}
		lastErr = err
		if common.IsTerminal(err) {
			c.log.Error("llm.extract.terminal", "req_id", rid, "attempt", attempt, "error", err)
			return nil, err
		}
		if !common.IsTransient(err) {
			return nil, err
		}
		if attempt == c.cfg.MaxAttempts {
			break
		}
		c.log.Warn("llm.extract.retry",
			"req_id", rid, "attempt", attempt, "delay_ms", delay.Milliseconds(), "error", err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", c.cfg.MaxAttempts, lastErr)
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// Network-level failures are retryable.
		return nil, common.WrapError(common.ErrUnavailable, fmt.Sprintf("completion http error: %v", err))
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.log.Warn("completion response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, classifyStatus(resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}

// classifyStatus maps an HTTP error response onto the sentinel taxonomy:
// 429 and 5xx are transient, 401/403 and exhausted-quota bodies terminal.
func classifyStatus(status int, body string) error {
	msg := fmt.Sprintf("completion status %d: %s", status, body)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return common.WrapError(common.ErrAuth, msg)
	case status == http.StatusTooManyRequests:
		if strings.Contains(body, "insufficient_quota") {
			return common.WrapError(common.ErrQuotaExhausted, msg)
		}
		return common.WrapError(common.ErrRateLimited, msg)
	case status >= 500:
		return common.WrapError(common.ErrUnavailable, msg)
	default:
		return fmt.Errorf("%s", msg)
	}
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
