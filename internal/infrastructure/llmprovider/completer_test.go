package llmprovider

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/llm"
)

type scriptedStream struct {
	deltas []llm.ChatCompletionDelta
	err    error
	pos    int
	closed bool
}

func (s *scriptedStream) Recv() (*llm.ChatCompletionDelta, error) {
	if s.pos >= len(s.deltas) {
		if s.err != nil {
			return nil, s.err
		}
		return nil, io.EOF
	}
	d := s.deltas[s.pos]
	s.pos++
	return &d, nil
}

func (s *scriptedStream) Close() error {
	s.closed = true
	return nil
}

type scriptedProvider struct {
	stream  *scriptedStream
	openErr error
	lastReq llm.ChatCompletionRequest
}

func (p *scriptedProvider) CreateChatCompletion(context.Context, llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	return nil, errors.New("not implemented")
}

func (p *scriptedProvider) CreateChatCompletionStream(_ context.Context, req llm.ChatCompletionRequest) (llm.Stream, error) {
	p.lastReq = req
	if p.openErr != nil {
		return nil, p.openErr
	}
	return p.stream, nil
}

type chunkRecorder struct {
	chunks []chat.Chunk
}

func (r *chunkRecorder) OnChunk(c chat.Chunk) {
	r.chunks = append(r.chunks, c)
}

func contentDelta(text string) llm.ChatCompletionDelta {
	return llm.ChatCompletionDelta{Choices: []llm.ChatCompletionDeltaChoice{{Delta: llm.DeltaMessage{Content: text}}}}
}

func TestStreamCompletion_AccumulatesAndForwards(t *testing.T) {
	provider := &scriptedProvider{stream: &scriptedStream{deltas: []llm.ChatCompletionDelta{
		contentDelta("Hel"),
		contentDelta("lo"),
	}}}
	completer := NewCompleter(provider, "test-model", zerolog.Nop())
	recorder := &chunkRecorder{}

	result, err := completer.StreamCompletion(context.Background(), chat.CompletionRequest{
		Messages: []llm.ChatMessage{{Role: "user", Content: "hi"}},
	}, recorder)
	require.NoError(t, err)

	assert.Equal(t, "Hello", result.Content)
	require.Len(t, recorder.chunks, 2)
	assert.Equal(t, chat.ChunkText, recorder.chunks[0].Type)
	assert.Equal(t, "Hel", recorder.chunks[0].Content)
	assert.True(t, provider.stream.closed)
	assert.False(t, provider.lastReq.Stream, "stream flag is set by the transport, not the adapter")
	assert.Equal(t, "test-model", provider.lastReq.Model)
}

func TestStreamCompletion_ReasoningGoesToThoughtChunks(t *testing.T) {
	provider := &scriptedProvider{stream: &scriptedStream{deltas: []llm.ChatCompletionDelta{
		{Choices: []llm.ChatCompletionDeltaChoice{{Delta: llm.DeltaMessage{ReasoningContent: "thinking..."}}}},
		contentDelta("answer"),
	}}}
	completer := NewCompleter(provider, "test-model", zerolog.Nop())
	recorder := &chunkRecorder{}

	result, err := completer.StreamCompletion(context.Background(), chat.CompletionRequest{ThinkingEnabled: true}, recorder)
	require.NoError(t, err)

	assert.Equal(t, "answer", result.Content)
	assert.Equal(t, "thinking...", result.Reasoning)
	require.Len(t, recorder.chunks, 2)
	assert.Equal(t, chat.ChunkThought, recorder.chunks[0].Type)
	assert.Equal(t, chat.ChunkText, recorder.chunks[1].Type)
	assert.True(t, provider.lastReq.Reasoning)
}

func TestStreamCompletion_StitchesToolCallFragments(t *testing.T) {
	provider := &scriptedProvider{stream: &scriptedStream{deltas: []llm.ChatCompletionDelta{
		{Choices: []llm.ChatCompletionDeltaChoice{{Delta: llm.DeltaMessage{ToolCalls: []llm.ToolCall{
			{ID: "call_1", Type: "function", Function: llm.ToolFunction{Name: "weather", Arguments: json.RawMessage(`{"off`)}},
		}}}}},
		{Choices: []llm.ChatCompletionDeltaChoice{{Delta: llm.DeltaMessage{ToolCalls: []llm.ToolCall{
			{Function: llm.ToolFunction{Arguments: json.RawMessage(`set": 4}`)}},
		}}}}},
	}}}
	completer := NewCompleter(provider, "test-model", zerolog.Nop())

	result, err := completer.StreamCompletion(context.Background(), chat.CompletionRequest{}, nil)
	require.NoError(t, err)

	require.Len(t, result.ToolCalls, 1)
	assert.Equal(t, "weather", result.ToolCalls[0].Name)
	require.NotNil(t, result.ToolCalls[0].Offset)
	assert.Equal(t, 4, *result.ToolCalls[0].Offset)
}

func TestStreamCompletion_CitationsCarriedToResult(t *testing.T) {
	provider := &scriptedProvider{stream: &scriptedStream{deltas: []llm.ChatCompletionDelta{
		contentDelta("cited answer"),
		{Citations: []llm.Citation{{Title: "Doc", URL: "https://example.com/doc"}}},
	}}}
	completer := NewCompleter(provider, "test-model", zerolog.Nop())

	result, err := completer.StreamCompletion(context.Background(), chat.CompletionRequest{SearchEnabled: true}, nil)
	require.NoError(t, err)

	require.Len(t, result.Citations, 1)
	assert.Equal(t, "https://example.com/doc", result.Citations[0].URL)
	assert.True(t, provider.lastReq.EnableSearch)
}

func TestStreamCompletion_TransportErrorSurfaces(t *testing.T) {
	provider := &scriptedProvider{stream: &scriptedStream{
		deltas: []llm.ChatCompletionDelta{contentDelta("partial")},
		err:    errors.New("connection reset"),
	}}
	completer := NewCompleter(provider, "test-model", zerolog.Nop())
	recorder := &chunkRecorder{}

	_, err := completer.StreamCompletion(context.Background(), chat.CompletionRequest{}, recorder)
	require.Error(t, err)
	assert.Len(t, recorder.chunks, 1, "chunks before the failure were still forwarded")
	assert.True(t, provider.stream.closed)
}

func TestStreamCompletion_OpenErrorSurfaces(t *testing.T) {
	provider := &scriptedProvider{openErr: errors.New("dial tcp: refused")}
	completer := NewCompleter(provider, "test-model", zerolog.Nop())

	_, err := completer.StreamCompletion(context.Background(), chat.CompletionRequest{}, nil)
	assert.Error(t, err)
}
