package dispatch

import (
	"context"
	"time"
)

// Channel names as they appear in delivery result maps
const (
	ChannelWebhook     = "webhook"
	ChannelEmail       = "email"
	ChannelSpreadsheet = "spreadsheet"
)

// Document is the finalized artifact handed to every channel
type Document struct {
	NewsletterID string
	Title        string
	Html         string
	Status       string
	SentAt       time.Time
}

// Outcome is the result of one channel send attempt. Channel failures are
// captured here and never escape the dispatcher as errors.
type Outcome struct {
	Success   bool
	Error     string
	Timestamp time.Time
}

// Channel is one configured delivery target
type Channel interface {
	Name() string
	Send(ctx context.Context, doc *Document) error
}
