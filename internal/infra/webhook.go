package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookEvent is the envelope POSTed to the configured webhook endpoint
// for inventory events (order.created, stock.low, stock.out).
type WebhookEvent struct {
	Event      string                 `json:"event"`
	OccurredAt string                 `json:"occurred_at"` // RFC 3339
	Data       map[string]interface{} `json:"data"`
}

// WebhookClient delivers events to an external endpoint (Slack bridge,
// ERP connector, …). Failures here never affect the originating request;
// delivery runs on the worker pool with retries and a circuit breaker.
type WebhookClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewWebhookClient(endpoint string) *WebhookClient {
	return &WebhookClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a webhook endpoint is configured.
func (c *WebhookClient) Enabled() bool { return c.endpoint != "" }

// Deliver POSTs the event as JSON. Any non-2xx response is an error so the
// worker can retry.
func (c *WebhookClient) Deliver(ctx context.Context, ev WebhookEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("webhook: marshal event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: endpoint returned %d", resp.StatusCode)
	}
	return nil
}
