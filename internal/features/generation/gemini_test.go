package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	common_models "go-briefing/internal/common/models"

	"go.uber.org/zap"
)

func candidateResponse(text string) string {
	body, _ := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{"content": map[string]any{"parts": []map[string]any{{"text": text}}}},
		},
	})
	return string(body)
}

func testArticles() []common_models.SourceArticle {
	return []common_models.SourceArticle{
		{Title: "Hiring slows in Q3", Source: "Labor Today"},
		{Title: "Remote policy shifts", URL: "http://example.com/a"},
		{Title: "Benefits survey results"},
	}
}

const structuredText = `{"title":"Weekly Briefing","sections":[{"heading":"One","body":"A"},{"heading":"Two","body":"B"}]}`

func TestGenerateSuccess(t *testing.T) {
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		fmt.Fprint(w, candidateResponse(structuredText))
	}))
	defer server.Close()

	g := NewGeneratorWithURL("key", "model", server.URL, zap.NewNop())

	content, err := g.Generate(context.Background(), "", testArticles())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if content.Title != "Weekly Briefing" {
		t.Errorf("title = %q", content.Title)
	}
	if len(content.Sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(content.Sections))
	}

	// Empty instruction falls back to the default constant
	var req geminiRequest
	if err := json.Unmarshal(gotBody, &req); err != nil {
		t.Fatalf("unmarshal captured request: %v", err)
	}
	if req.SystemInstruction == nil || req.SystemInstruction.Parts[0].Text != DefaultSystemInstruction {
		t.Errorf("expected default system instruction in request")
	}
}

func TestGenerateFencedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, candidateResponse("```json\n"+structuredText+"\n```"))
	}))
	defer server.Close()

	g := NewGeneratorWithURL("key", "model", server.URL, zap.NewNop())

	content, err := g.Generate(context.Background(), "custom instruction", testArticles())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(content.Sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(content.Sections))
	}
}

func TestGenerateEmptyArticles(t *testing.T) {
	g := NewGeneratorWithURL("key", "model", "http://unused", zap.NewNop())

	if _, err := g.Generate(context.Background(), "", nil); err == nil {
		t.Errorf("expected error for empty source material")
	}
}

func TestGenerateMalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unparseable candidate text", candidateResponse("not json at all")},
		{"empty candidate list", `{"candidates":[]}`},
		{"empty structured content", candidateResponse(`{"title":"","sections":[]}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&calls, 1)
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			g := NewGeneratorWithURL("key", "model", server.URL, zap.NewNop())

			_, err := g.Generate(context.Background(), "", testArticles())
			var malformed *MalformedResponseError
			if !errors.As(err, &malformed) {
				t.Fatalf("expected MalformedResponseError, got %v", err)
			}
			if atomic.LoadInt32(&calls) != 1 {
				t.Errorf("malformed responses must not be retried, got %d calls", calls)
			}
		})
	}
}

func TestGenerateRetriesTransient(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, candidateResponse(structuredText))
	}))
	defer server.Close()

	g := NewGeneratorWithURL("key", "model", server.URL, zap.NewNop())

	content, err := g.Generate(context.Background(), "", testArticles())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if content == nil || len(content.Sections) != 2 {
		t.Errorf("unexpected content after retries")
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 attempts, got %d", calls)
	}
}

func TestGenerateExhaustsRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewGeneratorWithURL("key", "model", server.URL, zap.NewNop())

	_, err := g.Generate(context.Background(), "", testArticles())
	var transient *TransientError
	if !errors.As(err, &transient) {
		t.Fatalf("expected TransientError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected initial attempt plus 2 retries, got %d calls", calls)
	}
}

func TestGenerateRejectedNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	g := NewGeneratorWithURL("key", "model", server.URL, zap.NewNop())

	_, err := g.Generate(context.Background(), "", testArticles())
	var rejected *RejectedError
	if !errors.As(err, &rejected) {
		t.Fatalf("expected RejectedError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("4xx must not be retried, got %d calls", calls)
	}
}
