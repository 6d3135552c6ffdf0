// Package enrichment derives best-effort conversation metadata (titles,
// workspace assignment, follow-up questions) from a completion provider.
// Everything here is single-attempt: a failed call falls back to a locally
// derived title or is reported to the caller, never retried.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/llm"
	"chathub/internal/infrastructure/metrics"
	"chathub/internal/infrastructure/observability"
	"chathub/internal/utils/stringutils"
)

const (
	titlePrompt = "Generate a short, descriptive title (at most 6 words) for a conversation that starts with the following message. Respond with the title only, no quotes.\n\nMessage:\n%s"

	titleSpacePrompt = "Given the first message of a conversation and a list of workspaces, generate a short title (at most 6 words) and pick the single best-fit workspace, or null if none fits.\nRespond with JSON only: {\"title\": \"...\", \"space_id\": \"...\" or null}\n\nWorkspaces:\n%s\nMessage:\n%s"

	relatedQuestionsPrompt = "Based on the following exchange, suggest exactly 3 short follow-up questions the user might ask next. Respond with a JSON array of strings only.\n\n%s"
)

// Service implements the chat engine's Enricher contract over an
// OpenAI-compatible provider.
type Service struct {
	provider llm.Provider
	model    string
	titleMax int
	log      zerolog.Logger
}

var _ chat.Enricher = (*Service)(nil)

// NewService creates an enrichment service using the given model.
func NewService(provider llm.Provider, model string, titleMax int, log zerolog.Logger) *Service {
	return &Service{
		provider: provider,
		model:    model,
		titleMax: titleMax,
		log:      log.With().Str("component", "enrichment").Logger(),
	}
}

// GenerateTitle derives a conversation title from the first user message.
// When the provider call fails, a sanitized excerpt of the message itself is
// used instead, so a title failure never bubbles up as an error.
func (s *Service) GenerateTitle(ctx context.Context, text string) (string, error) {
	raw, err := s.complete(ctx, "title", fmt.Sprintf(titlePrompt, text))
	if err != nil {
		s.log.Warn().Err(err).Msg("title generation call failed, using fallback")
		metrics.RecordEnrichment("title", "fallback")
		return s.fallbackTitle(text), nil
	}
	metrics.RecordEnrichment("title", "ok")

	title := stringutils.GenerateTitle(raw, s.titleMax)
	if title == "" {
		return s.fallbackTitle(text), nil
	}
	return title, nil
}

// GenerateTitleAndSpace derives both a title and a best-fit workspace from
// the first user message. The space is nil when the model picks none or
// returns an identifier outside the candidate set.
func (s *Service) GenerateTitleAndSpace(ctx context.Context, text string, candidates []chat.SpaceCandidate) (*chat.TitleAndSpace, error) {
	if len(candidates) == 0 {
		title, err := s.GenerateTitle(ctx, text)
		if err != nil {
			return nil, err
		}
		return &chat.TitleAndSpace{Title: title}, nil
	}

	var listing strings.Builder
	for _, c := range candidates {
		fmt.Fprintf(&listing, "- %s: %s\n", c.ID, c.Name)
	}

	raw, err := s.complete(ctx, "title_space", fmt.Sprintf(titleSpacePrompt, listing.String(), text))
	if err != nil {
		s.log.Warn().Err(err).Msg("title/space derivation call failed, using fallback title")
		metrics.RecordEnrichment("title_space", "fallback")
		return &chat.TitleAndSpace{Title: s.fallbackTitle(text)}, nil
	}

	var parsed struct {
		Title   string  `json:"title"`
		SpaceID *string `json:"space_id"`
	}
	if err := json.Unmarshal([]byte(extractJSON(raw)), &parsed); err != nil {
		s.log.Warn().Err(err).Str("raw", raw).Msg("unparseable title/space response, using fallback title")
		metrics.RecordEnrichment("title_space", "fallback")
		return &chat.TitleAndSpace{Title: s.fallbackTitle(text)}, nil
	}
	metrics.RecordEnrichment("title_space", "ok")

	result := &chat.TitleAndSpace{Title: stringutils.GenerateTitle(parsed.Title, s.titleMax)}
	if result.Title == "" {
		result.Title = s.fallbackTitle(text)
	}
	if parsed.SpaceID != nil {
		for _, c := range candidates {
			if c.ID == *parsed.SpaceID {
				result.SpaceID = parsed.SpaceID
				break
			}
		}
	}
	return result, nil
}

// GenerateRelatedQuestions suggests follow-up questions from the most recent
// exchange. Unlike titles there is no sensible local fallback, so provider
// failures are returned to the caller, which logs and moves on.
func (s *Service) GenerateRelatedQuestions(ctx context.Context, recent []*chat.Message) ([]string, error) {
	if len(recent) == 0 {
		return nil, nil
	}

	var exchange strings.Builder
	for _, msg := range recent {
		fmt.Fprintf(&exchange, "%s: %s\n", msg.Role, msg.ContentText())
	}

	raw, err := s.complete(ctx, "related_questions", fmt.Sprintf(relatedQuestionsPrompt, exchange.String()))
	if err != nil {
		metrics.RecordEnrichment("related_questions", "error")
		return nil, err
	}

	var questions []string
	if err := json.Unmarshal([]byte(extractJSON(raw)), &questions); err != nil {
		metrics.RecordEnrichment("related_questions", "error")
		return nil, fmt.Errorf("unparseable related questions response: %w", err)
	}
	metrics.RecordEnrichment("related_questions", "ok")

	cleaned := make([]string, 0, len(questions))
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			cleaned = append(cleaned, q)
		}
	}
	return cleaned, nil
}

func (s *Service) complete(ctx context.Context, kind, prompt string) (string, error) {
	ctx, span := observability.StartEnrichmentSpan(ctx, kind)
	defer span.End()

	resp, err := s.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
		Model:    s.model,
		Messages: []llm.ChatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		observability.RecordError(span, err, "warn")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("provider returned no choices")
	}
	content, _ := resp.Choices[0].Message.Content.(string)
	return strings.TrimSpace(content), nil
}

func (s *Service) fallbackTitle(text string) string {
	title := stringutils.GenerateTitle(text, s.titleMax)
	if title == "" {
		title = chat.DefaultTitle
	}
	return title
}

// extractJSON strips markdown code fences and surrounding prose so lenient
// model output still parses.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if idx := strings.Index(raw, "```"); idx >= 0 {
		raw = raw[idx+3:]
		raw = strings.TrimPrefix(raw, "json")
		if end := strings.Index(raw, "```"); end >= 0 {
			raw = raw[:end]
		}
	}
	start := strings.IndexAny(raw, "[{")
	if start < 0 {
		return raw
	}
	end := strings.LastIndexAny(raw, "]}")
	if end < start {
		return raw
	}
	return strings.TrimSpace(raw[start : end+1])
}
