package generation

import (
	"context"
	"errors"

	common_models "go-briefing/internal/common/models"
)

// DefaultSystemInstruction is the built-in briefing instruction used when the
// configured one is empty.
const DefaultSystemInstruction = `You are an editorial assistant producing an internal HR strategy briefing.
From the source articles, write a concise newsletter as JSON with a "title"
and a "sections" array, each section an object with "heading" and "body".
Keep each body to a short executive-ready paragraph. Respond with JSON only.`

// Generator turns a system instruction and source material into structured
// newsletter content
type Generator interface {
	Generate(ctx context.Context, systemInstruction string, articles []common_models.SourceArticle) (*common_models.GeneratedContent, error)
}

// validateInput applies the shared input contract of every Generator
// implementation and returns the effective instruction.
func validateInput(systemInstruction string, articles []common_models.SourceArticle) (string, error) {
	if len(articles) == 0 {
		return "", errors.New("source material must not be empty")
	}
	if systemInstruction == "" {
		systemInstruction = DefaultSystemInstruction
	}
	return systemInstruction, nil
}
