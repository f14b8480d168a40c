package dispatch

import (
	"context"
	"errors"
	"fmt"

	emails "go-briefing/internal/email"
)

// EmailChannel hands the rendered document and recipient batch to the SMTP
// sender. The outcome is recorded per batch; the transport gives no
// per-recipient granularity.
type EmailChannel struct {
	Recipients []string
	Sender     emails.Sender
}

func NewEmailChannel(recipients []string, sender emails.Sender) *EmailChannel {
	return &EmailChannel{
		Recipients: recipients,
		Sender:     sender,
	}
}

func (c *EmailChannel) Name() string { return ChannelEmail }

func (c *EmailChannel) Send(ctx context.Context, doc *Document) error {
	if len(c.Recipients) == 0 {
		return errors.New("no recipients configured")
	}

	done := make(chan error, 1)
	go func() {
		done <- c.Sender.Send(&emails.Message{
			To:       c.Recipients,
			Subject:  doc.Title,
			HtmlBody: doc.Html,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send: %w", err)
		}
		return nil
	case <-ctx.Done():
		// The in-flight SMTP exchange is not aborted; its result is discarded
		return ctx.Err()
	}
}
