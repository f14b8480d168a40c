package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	common_models "go-briefing/internal/common/models"
	"go-briefing/internal/config"

	"go.uber.org/zap"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/models"

const (
	maxRetries     = 2
	initialBackoff = 500 * time.Millisecond
	attemptTimeout = 30 * time.Second
)

// GeminiGenerator calls the Gemini generateContent endpoint and parses the
// candidate text into structured newsletter content
type GeminiGenerator struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewGenerator(cfg *config.Config, logger *zap.Logger) Generator {
	return &GeminiGenerator{
		apiKey:  cfg.GeminiAPIKey,
		model:   cfg.GeminiModel,
		baseURL: defaultBaseURL,
		client:  &http.Client{Timeout: attemptTimeout},
		logger:  logger,
	}
}

// NewGeneratorWithURL is used by tests to point at a fake upstream
func NewGeneratorWithURL(apiKey, model, baseURL string, logger *zap.Logger) Generator {
	return &GeminiGenerator{
		apiKey:  apiKey,
		model:   model,
		baseURL: baseURL,
		client:  &http.Client{Timeout: attemptTimeout},
		logger:  logger,
	}
}

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiGenerator) Generate(ctx context.Context, systemInstruction string, articles []common_models.SourceArticle) (*common_models.GeneratedContent, error) {
	instruction, err := validateInput(systemInstruction, articles)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: instruction}}},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: serializeArticles(articles)}}},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Warn("Retrying generation request",
				zap.Int("attempt", attempt),
				zap.Error(lastErr))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, &TransientError{Cause: ctx.Err()}
			}
			backoff *= 2
		}

		content, err := g.attempt(ctx, body)
		if err == nil {
			return content, nil
		}

		var transient *TransientError
		if !errors.As(err, &transient) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

func (g *GeminiGenerator) attempt(ctx context.Context, body []byte) (*common_models.GeneratedContent, error) {
	url := fmt.Sprintf("%s/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &TransientError{Cause: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransientError{Cause: err}
	}

	switch {
	case resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests:
		return nil, &TransientError{Cause: fmt.Errorf("upstream status %d", resp.StatusCode)}
	case resp.StatusCode != http.StatusOK:
		return nil, &RejectedError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), 200)}
	}

	var gemResp geminiResponse
	if err := json.Unmarshal(respBody, &gemResp); err != nil {
		return nil, &MalformedResponseError{Detail: "invalid response envelope", Cause: err}
	}
	if len(gemResp.Candidates) == 0 || len(gemResp.Candidates[0].Content.Parts) == 0 {
		return nil, &MalformedResponseError{Detail: "empty candidate list"}
	}

	text := stripMarkdownCodeBlock(gemResp.Candidates[0].Content.Parts[0].Text)

	var content common_models.GeneratedContent
	if err := json.Unmarshal([]byte(text), &content); err != nil {
		return nil, &MalformedResponseError{Detail: "candidate text is not structured content", Cause: err}
	}
	if content.IsEmpty() {
		return nil, &MalformedResponseError{Detail: "candidate content has no title or sections"}
	}

	return &content, nil
}

func serializeArticles(articles []common_models.SourceArticle) string {
	var sb strings.Builder
	sb.WriteString("Source articles:\n\n")
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, a.Title)
		if a.Source != "" {
			fmt.Fprintf(&sb, "   Source: %s\n", a.Source)
		}
		if a.URL != "" {
			fmt.Fprintf(&sb, "   URL: %s\n", a.URL)
		}
		if a.Summary != "" {
			fmt.Fprintf(&sb, "   %s\n", a.Summary)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// stripMarkdownCodeBlock removes markdown code fences the model may wrap
// JSON responses in
func stripMarkdownCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
