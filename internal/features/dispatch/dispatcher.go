package dispatch

import (
	"context"
	"sync"
	"time"

	"go-briefing/internal/config"
	emails "go-briefing/internal/email"
	"go-briefing/internal/features/settings"

	"go.uber.org/zap"
)

// channelTimeout bounds each individual channel send
const channelTimeout = 15 * time.Second

type Dispatcher interface {
	ActiveChannels(snap settings.Snapshot) []Channel
	Dispatch(ctx context.Context, doc *Document, snap settings.Snapshot) map[string]Outcome
}

type DispatcherImpl struct {
	Sender    emails.Sender
	SheetsDir string
	Logger    *zap.Logger
}

func NewDispatcher(cfg *config.Config, sender emails.Sender, logger *zap.Logger) Dispatcher {
	return &DispatcherImpl{
		Sender:    sender,
		SheetsDir: cfg.SheetsDir,
		Logger:    logger,
	}
}

// ActiveChannels derives the enabled channel set from the config snapshot.
// A channel is active exactly when its configuration is non-empty.
func (d *DispatcherImpl) ActiveChannels(snap settings.Snapshot) []Channel {
	var channels []Channel

	if snap.WebhookURL != "" {
		channels = append(channels, NewWebhookChannel(snap.WebhookURL, snap.WebhookSecret))
	}
	if recipients := snap.Recipients(); len(recipients) > 0 {
		channels = append(channels, NewEmailChannel(recipients, d.Sender))
	}
	if snap.SpreadsheetID != "" {
		channels = append(channels, NewSpreadsheetChannel(d.SheetsDir, snap.SpreadsheetID))
	}

	return channels
}

// Dispatch fans the document out to every active channel concurrently and
// joins all outcomes. One channel's failure never prevents or aborts the
// others; the per-channel map is the whole result.
func (d *DispatcherImpl) Dispatch(ctx context.Context, doc *Document, snap settings.Snapshot) map[string]Outcome {
	channels := d.ActiveChannels(snap)

	results := make(map[string]Outcome, len(channels))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, ch := range channels {
		wg.Add(1)
		go func(ch Channel) {
			defer wg.Done()

			sendCtx, cancel := context.WithTimeout(ctx, channelTimeout)
			defer cancel()

			outcome := Outcome{Success: true, Timestamp: time.Now()}
			if err := ch.Send(sendCtx, doc); err != nil {
				outcome = Outcome{Success: false, Error: err.Error(), Timestamp: time.Now()}
				d.Logger.Warn("Channel delivery failed",
					zap.String("channel", ch.Name()),
					zap.String("newsletterId", doc.NewsletterID),
					zap.Error(err))
			} else {
				d.Logger.Info("Channel delivery succeeded",
					zap.String("channel", ch.Name()),
					zap.String("newsletterId", doc.NewsletterID))
			}

			mu.Lock()
			results[ch.Name()] = outcome
			mu.Unlock()
		}(ch)
	}

	wg.Wait()
	return results
}
