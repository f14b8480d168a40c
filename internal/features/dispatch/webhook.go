package dispatch

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// WebhookChannel POSTs the rendered newsletter as JSON to a configured URL.
// Success is any 2xx response.
type WebhookChannel struct {
	URL        string
	Secret     string
	HttpClient *http.Client
}

func NewWebhookChannel(url, secret string) *WebhookChannel {
	return &WebhookChannel{
		URL:    url,
		Secret: secret,
		HttpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *WebhookChannel) Name() string { return ChannelWebhook }

type webhookPayload struct {
	Title  string `json:"title"`
	Html   string `json:"html"`
	SentAt string `json:"sentAt"`
}

func (c *WebhookChannel) Send(ctx context.Context, doc *Document) error {
	body, err := json.Marshal(webhookPayload{
		Title:  doc.Title,
		Html:   doc.Html,
		SentAt: doc.SentAt.Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshalling webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("creating webhook request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Go-Briefing-Webhook")
	req.Header.Set("X-Briefing-Delivery", fmt.Sprintf("%d", time.Now().UnixNano()))

	if c.Secret != "" {
		mac := hmac.New(sha256.New, []byte(c.Secret))
		mac.Write(body)
		signature := hex.EncodeToString(mac.Sum(nil))
		req.Header.Set("X-Briefing-Signature", "sha256="+signature)
	}

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	return nil
}
