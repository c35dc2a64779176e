package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// promptContentLimit bounds how much article body is sent with title and
// tag prompts. Excerpts use the whole content.
const promptContentLimit = 1000

const maxTags = 5

// TextGenerator abstracts the model call so the enricher can be tested
// without a live provider.
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// Enricher produces editorial assists for drafts: excerpts, headlines, and
// tags. It is optional; the handler layer reports it unavailable when no
// API key is configured.
type Enricher struct {
	generator TextGenerator
}

// NewEnricher creates an enricher over the given generator.
func NewEnricher(generator TextGenerator) *Enricher {
	return &Enricher{generator: generator}
}

// GenerateExcerpt produces a 1-2 sentence summary of the article content.
func (e *Enricher) GenerateExcerpt(ctx context.Context, content string) (string, error) {
	if err := e.checkInput(content); err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(
		"Please create a concise summary (1-2 sentences, max 150 characters) for this article content:\n\n%s",
		content,
	)
	return e.generator.GenerateText(ctx, prompt)
}

// GenerateTitle produces a headline for the article content.
func (e *Enricher) GenerateTitle(ctx context.Context, content string) (string, error) {
	if err := e.checkInput(content); err != nil {
		return "", err
	}
	prompt := fmt.Sprintf(
		"Based on this article content, give me a compelling news headline, just give me the title only with no added extra text (max 80 characters):\n\n%s",
		truncateForPrompt(content, promptContentLimit),
	)
	title, err := e.generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.Trim(title, `"`)), nil
}

// GenerateTags produces up to five comma-separated tags for the content.
func (e *Enricher) GenerateTags(ctx context.Context, content string) ([]string, error) {
	if err := e.checkInput(content); err != nil {
		return nil, err
	}
	prompt := fmt.Sprintf(
		"Generate 3-5 relevant tags for this article content. Return only a single line of comma-separated tags:\n\n%s",
		truncateForPrompt(content, promptContentLimit),
	)
	raw, err := e.generator.GenerateText(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseTags(raw), nil
}

func (e *Enricher) checkInput(content string) error {
	if e == nil || e.generator == nil {
		return errors.New("enricher is not configured")
	}
	if strings.TrimSpace(content) == "" {
		return errors.New("content is empty")
	}
	return nil
}

func truncateForPrompt(content string, limit int) string {
	runes := []rune(content)
	if len(runes) <= limit {
		return content
	}
	return string(runes[:limit])
}

// parseTags splits a comma-separated model reply into trimmed, non-empty
// tags, capped at maxTags.
func parseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}
