package newsletter

import (
	"errors"
	"fmt"
	"time"

	common_models "go-briefing/internal/common/models"
)

// InvalidTransitionError signals an attempt to move a newsletter through a
// transition its current status does not permit
type InvalidTransitionError struct {
	From Status
	Op   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s a %s newsletter", e.Op, e.From)
}

// ApplyGeneration moves DRAFT to GENERATED with the produced content
func (n *Newsletter) ApplyGeneration(content *common_models.GeneratedContent) error {
	if n.Status != StatusDraft {
		return &InvalidTransitionError{From: n.Status, Op: "apply generation to"}
	}
	if content.IsEmpty() {
		return errors.New("generated content is empty")
	}
	n.Content = content
	n.Status = StatusGenerated
	n.UpdatedAt = time.Now()
	return nil
}

// ApplyEdit replaces the content of a GENERATED or EDITED newsletter.
// The caller is responsible for recomputing RenderedHtml.
func (n *Newsletter) ApplyEdit(content *common_models.GeneratedContent) error {
	if n.Status != StatusGenerated && n.Status != StatusEdited {
		return &InvalidTransitionError{From: n.Status, Op: "edit"}
	}
	if content.IsEmpty() {
		return errors.New("edited content is empty")
	}
	n.Content = content
	n.Status = StatusEdited
	n.UpdatedAt = time.Now()
	return nil
}

// MarkSent records a send attempt. The newsletter becomes SENT when at least
// one channel succeeded, FAILED otherwise; the attempted results are retained
// either way for diagnostics.
func (n *Newsletter) MarkSent(results map[string]DeliveryResult) error {
	if n.Status != StatusGenerated && n.Status != StatusEdited {
		return &InvalidTransitionError{From: n.Status, Op: "send"}
	}
	if n.Content.IsEmpty() {
		return errors.New("cannot send a newsletter with empty content")
	}

	n.DeliveryResults = results
	n.UpdatedAt = time.Now()

	for _, r := range results {
		if r.Success {
			now := time.Now()
			n.Status = StatusSent
			n.SentAt = &now
			return nil
		}
	}

	n.Status = StatusFailed
	return nil
}

// MarkFailed moves any non-terminal newsletter to FAILED after an
// unrecoverable pipeline error
func (n *Newsletter) MarkFailed() error {
	if n.Status.Terminal() {
		return &InvalidTransitionError{From: n.Status, Op: "fail"}
	}
	n.Status = StatusFailed
	n.UpdatedAt = time.Now()
	return nil
}
