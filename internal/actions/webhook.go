package actions

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/ppiankov/debateshield/internal/model"
)

// WebhookChannel posts the finished verdict as JSON to a configured URL.
type WebhookChannel struct {
	url        string
	httpClient *http.Client
}

// NewWebhookChannel creates a webhook channel. An empty URL leaves the
// channel constructed but disabled.
func NewWebhookChannel(url string) *WebhookChannel {
	return &WebhookChannel{
		url:        url,
		httpClient: &http.Client{},
	}
}

// Name returns the channel name
func (c *WebhookChannel) Name() string {
	return "webhook"
}

// Deliver posts the record to the webhook URL.
func (c *WebhookChannel) Deliver(ctx context.Context, record *model.VerdictRecord) model.ActionResult {
	if c.url == "" {
		return model.ActionResult{Sent: false, Reason: "webhook not configured"}
	}

	body, err := json.Marshal(record)
	if err != nil {
		return model.ActionResult{Sent: false, Reason: fmt.Sprintf("encode record: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return model.ActionResult{Sent: false, Reason: fmt.Sprintf("create request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return model.ActionResult{Sent: false, Reason: fmt.Sprintf("post verdict: %v", err)}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.ActionResult{Sent: false, Reason: fmt.Sprintf("webhook returned HTTP %d", resp.StatusCode)}
	}
	return model.ActionResult{Sent: true}
}

// DisabledChannel is a placeholder for integrations that are planned but not
// yet enabled (e.g. intercom, composio).
type DisabledChannel struct {
	name string
}

// NewDisabledChannel creates a stub channel that always reports not sent.
func NewDisabledChannel(name string) *DisabledChannel {
	return &DisabledChannel{name: name}
}

// Name returns the channel name
func (c *DisabledChannel) Name() string {
	return c.name
}

// Deliver reports the channel as disabled.
func (c *DisabledChannel) Deliver(ctx context.Context, record *model.VerdictRecord) model.ActionResult {
	return model.ActionResult{Sent: false, Reason: "integration not enabled"}
}
