package newsletter

import (
	"time"

	common_models "go-briefing/internal/common/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the lifecycle state of a newsletter
type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusGenerated Status = "GENERATED"
	StatusEdited    Status = "EDITED"
	StatusSent      Status = "SENT"
	StatusFailed    Status = "FAILED"
)

// Terminal reports whether no further transitions are permitted
func (s Status) Terminal() bool {
	return s == StatusSent || s == StatusFailed
}

// DeliveryResult records the outcome of one channel during one send attempt
type DeliveryResult struct {
	Success   bool      `json:"success" bson:"success"`
	Error     string    `json:"error,omitempty" bson:"error,omitempty"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
}

// Newsletter is the unit of work flowing through the pipeline
type Newsletter struct {
	ID              primitive.ObjectID               `json:"id" bson:"_id,omitempty"`
	Status          Status                           `json:"status" bson:"status"`
	Content         *common_models.GeneratedContent  `json:"content,omitempty" bson:"content,omitempty"`
	RenderedHtml    string                           `json:"rendered_html,omitempty" bson:"rendered_html,omitempty"`
	DeliveryResults map[string]DeliveryResult        `json:"delivery_results,omitempty" bson:"delivery_results,omitempty"`
	SourceArticles  []common_models.SourceArticle    `json:"source_articles,omitempty" bson:"source_articles,omitempty"`
	CreatedAt       time.Time                        `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time                        `json:"updated_at" bson:"updated_at"`
	SentAt          *time.Time                       `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
}

// Title returns the content title, or empty when no content exists yet
func (n *Newsletter) Title() string {
	if n.Content == nil {
		return ""
	}
	return n.Content.Title
}

// NewNewsletter produces a newsletter in DRAFT with empty content
func NewNewsletter() *Newsletter {
	now := time.Now()
	return &Newsletter{
		ID:        primitive.NewObjectID(),
		Status:    StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
