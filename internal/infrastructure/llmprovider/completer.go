package llmprovider

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/llm"
	"chathub/internal/infrastructure/observability"
)

// Completer adapts the raw streaming provider to the chat engine's
// completion contract: it forwards chunks to the observer as they arrive and
// accumulates the full result for finalization.
type Completer struct {
	provider llm.Provider
	model    string
	log      zerolog.Logger
}

var _ chat.Completer = (*Completer)(nil)

// NewCompleter builds a Completer for the given model.
func NewCompleter(provider llm.Provider, model string, log zerolog.Logger) *Completer {
	return &Completer{
		provider: provider,
		model:    model,
		log:      log.With().Str("component", "completer").Logger(),
	}
}

// StreamCompletion runs one streaming completion to completion. Text deltas
// and reasoning deltas are forwarded to the observer as they arrive; the
// accumulated result is returned when the stream ends.
func (c *Completer) StreamCompletion(ctx context.Context, req chat.CompletionRequest, observer chat.StreamObserver) (*chat.CompletionResult, error) {
	ctx, span := observability.StartCompletionSpan(ctx, c.model)
	defer span.End()

	stream, err := c.provider.CreateChatCompletionStream(ctx, llm.ChatCompletionRequest{
		Model:        c.model,
		Messages:     req.Messages,
		EnableSearch: req.SearchEnabled,
		Reasoning:    req.ThinkingEnabled,
	})
	if err != nil {
		observability.RecordError(span, err, "error")
		return nil, err
	}
	defer stream.Close()

	acc := newStreamAccumulator()
	for {
		delta, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			observability.RecordError(span, err, "error")
			return nil, err
		}
		acc.apply(delta, observer)
	}

	result := acc.result()
	c.log.Debug().
		Int("content_len", len(result.Content)).
		Int("tool_calls", len(result.ToolCalls)).
		Msg("stream completed")
	return result, nil
}

// streamAccumulator folds streaming deltas into a final completion result.
// Tool call argument fragments are stitched together by arrival order: a
// delta carrying an ID opens a new call, fragments without one extend the
// last call seen.
type streamAccumulator struct {
	content   strings.Builder
	reasoning strings.Builder
	toolCalls []llm.ToolCall
	citations []llm.Citation
	grounding []llm.GroundingSupport
}

func newStreamAccumulator() *streamAccumulator {
	return &streamAccumulator{}
}

func (a *streamAccumulator) apply(delta *llm.ChatCompletionDelta, observer chat.StreamObserver) {
	if len(delta.Citations) > 0 {
		a.citations = delta.Citations
	}
	if len(delta.Grounding) > 0 {
		a.grounding = delta.Grounding
	}

	for _, choice := range delta.Choices {
		if choice.Delta.ReasoningContent != "" {
			a.reasoning.WriteString(choice.Delta.ReasoningContent)
			if observer != nil {
				observer.OnChunk(chat.Chunk{Type: chat.ChunkThought, Content: choice.Delta.ReasoningContent})
			}
		}
		if choice.Delta.Content != "" {
			a.content.WriteString(choice.Delta.Content)
			if observer != nil {
				observer.OnChunk(chat.Chunk{Type: chat.ChunkText, Content: choice.Delta.Content})
			}
		}
		for _, tc := range choice.Delta.ToolCalls {
			a.applyToolCall(tc)
		}
	}
}

func (a *streamAccumulator) applyToolCall(tc llm.ToolCall) {
	if tc.ID != "" || len(a.toolCalls) == 0 {
		a.toolCalls = append(a.toolCalls, tc)
		return
	}
	last := &a.toolCalls[len(a.toolCalls)-1]
	if tc.Function.Name != "" {
		last.Function.Name = tc.Function.Name
	}
	last.Function.Arguments = append(last.Function.Arguments, tc.Function.Arguments...)
}

func (a *streamAccumulator) result() *chat.CompletionResult {
	return &chat.CompletionResult{
		Content:   a.content.String(),
		Reasoning: a.reasoning.String(),
		ToolCalls: toolInvocations(a.toolCalls),
		Citations: a.citations,
		Grounding: a.grounding,
	}
}

// toolInvocations converts accumulated provider tool calls into the engine's
// invocation shape. Placement hints (offset, step, form type) travel in the
// call arguments when the provider supplies them.
func toolInvocations(calls []llm.ToolCall) []chat.ToolInvocation {
	if len(calls) == 0 {
		return nil
	}
	out := make([]chat.ToolInvocation, 0, len(calls))
	for _, tc := range calls {
		inv := chat.ToolInvocation{Name: tc.Function.Name}
		var hints struct {
			Type   *string `json:"type"`
			Step   *int    `json:"step"`
			Offset *int    `json:"offset"`
		}
		if len(tc.Function.Arguments) > 0 {
			if err := json.Unmarshal(tc.Function.Arguments, &hints); err == nil {
				if hints.Type != nil {
					inv.Type = chat.ToolInvocationType(*hints.Type)
				}
				inv.Step = hints.Step
				inv.Offset = hints.Offset
			}
		}
		out = append(out, inv)
	}
	return out
}
