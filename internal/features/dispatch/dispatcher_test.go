package dispatch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	emails "go-briefing/internal/email"
	"go-briefing/internal/features/settings"

	"go.uber.org/zap"
)

type fakeSender struct {
	err  error
	sent []*emails.Message
}

func (f *fakeSender) Send(msg *emails.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

func testDispatcher(t *testing.T, sender emails.Sender) *DispatcherImpl {
	t.Helper()
	return &DispatcherImpl{
		Sender:    sender,
		SheetsDir: t.TempDir(),
		Logger:    zap.NewNop(),
	}
}

func testDoc() *Document {
	return &Document{
		NewsletterID: "6051c2c0000000000000000a",
		Title:        "This Week in HR",
		Html:         "<html><body>hello</body></html>",
		Status:       "SENT",
		SentAt:       time.Now(),
	}
}

func snapshotWith(mutate func(*settings.AppConfig)) settings.Snapshot {
	config := settings.AppConfig{}
	mutate(&config)
	return config.Snapshot()
}

func TestActiveChannels(t *testing.T) {
	d := testDispatcher(t, &fakeSender{})

	tests := []struct {
		name   string
		mutate func(*settings.AppConfig)
		want   []string
	}{
		{
			name:   "no config means no channels",
			mutate: func(c *settings.AppConfig) {},
			want:   nil,
		},
		{
			name:   "webhook only",
			mutate: func(c *settings.AppConfig) { c.WebhookURL = "http://example.com/hook" },
			want:   []string{ChannelWebhook},
		},
		{
			name: "all three",
			mutate: func(c *settings.AppConfig) {
				c.WebhookURL = "http://example.com/hook"
				c.EmailRecipients = "a@x.com,b@x.com"
				c.SpreadsheetID = "sheet-1"
			},
			want: []string{ChannelWebhook, ChannelEmail, ChannelSpreadsheet},
		},
		{
			name:   "whitespace-only recipients disable email",
			mutate: func(c *settings.AppConfig) { c.EmailRecipients = " , " },
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channels := d.ActiveChannels(snapshotWith(tt.mutate))
			if len(channels) != len(tt.want) {
				t.Fatalf("got %d channels, want %d", len(channels), len(tt.want))
			}
			for i, name := range tt.want {
				if channels[i].Name() != name {
					t.Errorf("channel %d = %s, want %s", i, channels[i].Name(), name)
				}
			}
		})
	}
}

func TestDispatchWebhookOnly(t *testing.T) {
	var got string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	d := testDispatcher(t, &fakeSender{})
	snap := snapshotWith(func(c *settings.AppConfig) { c.WebhookURL = server.URL })

	results := d.Dispatch(context.Background(), testDoc(), snap)

	if len(results) != 1 {
		t.Fatalf("expected exactly one result entry, got %d", len(results))
	}
	outcome, ok := results[ChannelWebhook]
	if !ok {
		t.Fatalf("expected webhook entry in result map")
	}
	if !outcome.Success {
		t.Errorf("expected webhook success, got error %q", outcome.Error)
	}
	if got != "application/json" {
		t.Errorf("expected JSON payload, got content type %q", got)
	}
}

func TestDispatchPartialFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	sender := &fakeSender{err: errors.New("smtp refused")}
	d := testDispatcher(t, sender)
	snap := snapshotWith(func(c *settings.AppConfig) {
		c.WebhookURL = server.URL
		c.EmailRecipients = "a@x.com,b@x.com"
	})

	results := d.Dispatch(context.Background(), testDoc(), snap)

	if len(results) != 2 {
		t.Fatalf("expected two result entries, got %d", len(results))
	}
	if !results[ChannelWebhook].Success {
		t.Errorf("webhook should succeed independently")
	}
	if results[ChannelEmail].Success {
		t.Errorf("email should fail")
	}
	if results[ChannelEmail].Error == "" {
		t.Errorf("email failure should carry a reason")
	}
}

func TestDispatchWebhookFailureStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	d := testDispatcher(t, &fakeSender{})
	snap := snapshotWith(func(c *settings.AppConfig) { c.WebhookURL = server.URL })

	results := d.Dispatch(context.Background(), testDoc(), snap)

	if results[ChannelWebhook].Success {
		t.Errorf("non-2xx response should be a failure")
	}
}

func TestEmailChannelDeduplicatesRecipients(t *testing.T) {
	sender := &fakeSender{}
	d := testDispatcher(t, sender)
	snap := snapshotWith(func(c *settings.AppConfig) {
		c.EmailRecipients = "a@x.com, b@x.com ,a@x.com"
	})

	d.Dispatch(context.Background(), testDoc(), snap)

	if len(sender.sent) != 1 {
		t.Fatalf("expected one batch, got %d", len(sender.sent))
	}
	to := sender.sent[0].To
	if len(to) != 2 || to[0] != "a@x.com" || to[1] != "b@x.com" {
		t.Errorf("unexpected recipient batch: %v", to)
	}
}

func TestSpreadsheetChannelAppends(t *testing.T) {
	dir := t.TempDir()
	ch := NewSpreadsheetChannel(dir, "sheet-1")

	if err := ch.Send(context.Background(), testDoc()); err != nil {
		t.Fatalf("first append: %v", err)
	}
	if err := ch.Send(context.Background(), testDoc()); err != nil {
		t.Fatalf("second append: %v", err)
	}
}
