package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSink posts reports as JSON to the configured reporting endpoint.
type HTTPSink struct {
	url    string
	apiKey string
	client *http.Client
}

// NewHTTPSink creates a sink for url. A zero timeout defaults to 5 seconds.
// apiKey, when non-empty, is sent as the x-api-key header.
func NewHTTPSink(url, apiKey string, timeout time.Duration) *HTTPSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPSink{
		url:    url,
		apiKey: apiKey,
		client: &http.Client{Timeout: timeout},
	}
}

// Report delivers the payload. Any non-2xx status is an error.
func (s *HTTPSink) Report(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("x-api-key", s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("report post failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("report rejected with status %d: %s", resp.StatusCode, b)
	}
	return nil
}
