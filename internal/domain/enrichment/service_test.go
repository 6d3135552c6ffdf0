package enrichment

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/llm"
)

type stubProvider struct {
	reply string
	err   error
	seen  []llm.ChatCompletionRequest
}

func (p *stubProvider) CreateChatCompletion(_ context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	p.seen = append(p.seen, req)
	if p.err != nil {
		return nil, p.err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.ChatCompletionChoice{{Message: llm.ChatMessage{Role: "assistant", Content: p.reply}}},
	}, nil
}

func (p *stubProvider) CreateChatCompletionStream(_ context.Context, _ llm.ChatCompletionRequest) (llm.Stream, error) {
	return nil, errors.New("not implemented")
}

func newService(p *stubProvider) *Service {
	return NewService(p, "test-model", 100, zerolog.Nop())
}

func TestGenerateTitle(t *testing.T) {
	svc := newService(&stubProvider{reply: "Postgres Connection Pooling"})
	title, err := svc.GenerateTitle(context.Background(), "how do I pool postgres connections?")
	require.NoError(t, err)
	assert.Equal(t, "Postgres Connection Pooling", title)
}

func TestGenerateTitle_FallbackOnProviderError(t *testing.T) {
	svc := newService(&stubProvider{err: errors.New("upstream down")})
	title, err := svc.GenerateTitle(context.Background(), "how do I pool postgres connections?")
	require.NoError(t, err, "title failures must not bubble up")
	assert.Equal(t, "how do I pool postgres connections", title)
}

func TestGenerateTitleAndSpace(t *testing.T) {
	svc := newService(&stubProvider{reply: `{"title": "Database Tuning", "space_id": "space_db"}`})
	candidates := []chat.SpaceCandidate{
		{ID: "space_db", Name: "Databases"},
		{ID: "space_web", Name: "Web"},
	}

	got, err := svc.GenerateTitleAndSpace(context.Background(), "tune my database", candidates)
	require.NoError(t, err)
	assert.Equal(t, "Database Tuning", got.Title)
	require.NotNil(t, got.SpaceID)
	assert.Equal(t, "space_db", *got.SpaceID)
}

func TestGenerateTitleAndSpace_FencedJSON(t *testing.T) {
	svc := newService(&stubProvider{reply: "```json\n{\"title\": \"Fenced\", \"space_id\": null}\n```"})
	got, err := svc.GenerateTitleAndSpace(context.Background(), "hello", []chat.SpaceCandidate{{ID: "space_x", Name: "X"}})
	require.NoError(t, err)
	assert.Equal(t, "Fenced", got.Title)
	assert.Nil(t, got.SpaceID)
}

func TestGenerateTitleAndSpace_UnknownSpaceIgnored(t *testing.T) {
	svc := newService(&stubProvider{reply: `{"title": "T", "space_id": "space_bogus"}`})
	got, err := svc.GenerateTitleAndSpace(context.Background(), "hello", []chat.SpaceCandidate{{ID: "space_x", Name: "X"}})
	require.NoError(t, err)
	assert.Nil(t, got.SpaceID, "identifiers outside the candidate set are dropped")
}

func TestGenerateTitleAndSpace_NoCandidatesFallsBackToTitle(t *testing.T) {
	provider := &stubProvider{reply: "Just A Title"}
	svc := newService(provider)
	got, err := svc.GenerateTitleAndSpace(context.Background(), "hello there world", nil)
	require.NoError(t, err)
	assert.Equal(t, "Just A Title", got.Title)
	assert.Nil(t, got.SpaceID)
}

func TestGenerateRelatedQuestions(t *testing.T) {
	svc := newService(&stubProvider{reply: `["What about indexes?", "How big is the table?", " "]`})
	recent := []*chat.Message{
		{Role: chat.RoleUser, Text: "tune my database"},
		{Role: chat.RoleAssistant, Text: "start with vacuum settings"},
	}

	got, err := svc.GenerateRelatedQuestions(context.Background(), recent)
	require.NoError(t, err)
	assert.Equal(t, []string{"What about indexes?", "How big is the table?"}, got)
}

func TestGenerateRelatedQuestions_ProviderErrorReturned(t *testing.T) {
	svc := newService(&stubProvider{err: errors.New("upstream down")})
	_, err := svc.GenerateRelatedQuestions(context.Background(), []*chat.Message{{Role: chat.RoleUser, Text: "hi"}})
	assert.Error(t, err)
}

func TestGenerateRelatedQuestions_EmptyContext(t *testing.T) {
	provider := &stubProvider{}
	svc := newService(provider)
	got, err := svc.GenerateRelatedQuestions(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, provider.seen, "no provider call without context")
}
