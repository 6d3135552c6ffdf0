package llm

import (
	"context"
	"encoding/json"
)

// Provider defines the contract for calling an OpenAI-compatible
// /v1/chat/completions endpoint.
type Provider interface {
	CreateChatCompletion(reqCtx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
	CreateChatCompletionStream(reqCtx context.Context, req ChatCompletionRequest) (Stream, error)
}

// Stream abstracts an SSE or chunked response from the provider.
type Stream interface {
	Recv() (*ChatCompletionDelta, error)
	Close() error
}

// ChatCompletionRequest mirrors the OpenAI-compatible request shape.
type ChatCompletionRequest struct {
	Model        string           `json:"model"`
	Messages     []ChatMessage    `json:"messages"`
	Tools        []ToolDefinition `json:"tools,omitempty"`
	Temperature  *float64         `json:"temperature,omitempty"`
	MaxTokens    *int             `json:"max_tokens,omitempty"`
	Stream       bool             `json:"stream"`
	EnableSearch bool             `json:"enable_search,omitempty"`
	Reasoning    bool             `json:"reasoning,omitempty"`
}

// ChatMessage represents a single message in the conversation history.
type ChatMessage struct {
	Role       string      `json:"role"`
	Content    interface{} `json:"content"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
	ToolCallID *string     `json:"tool_call_id,omitempty"`
}

// ToolCall mirrors the OpenAI tool call format.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

// ToolFunction contains the function name and JSON arguments.
type ToolFunction struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolDefinition is the OpenAI compatible representation of a callable tool.
type ToolDefinition struct {
	Type     string             `json:"type"`
	Function ToolFunctionSchema `json:"function"`
}

// ToolFunctionSchema declares the function contract passed to the model.
type ToolFunctionSchema struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description,omitempty"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// Citation points at a source document backing part of an answer.
type Citation struct {
	Title string `json:"title,omitempty"`
	URL   string `json:"url"`
}

// GroundingSupport links a span of answer text to citation indexes.
type GroundingSupport struct {
	Text           string `json:"text"`
	StartIndex     int    `json:"start_index"`
	EndIndex       int    `json:"end_index"`
	CitationIndexes []int `json:"citation_indexes,omitempty"`
}

// ChatCompletionResponse captures the non-streaming completion payload.
type ChatCompletionResponse struct {
	ID        string                 `json:"id"`
	Object    string                 `json:"object"`
	Created   int64                  `json:"created"`
	Model     string                 `json:"model"`
	Choices   []ChatCompletionChoice `json:"choices"`
	Usage     *Usage                 `json:"usage,omitempty"`
	Citations []Citation             `json:"citations,omitempty"`
	Grounding []GroundingSupport     `json:"grounding,omitempty"`
}

// ChatCompletionChoice represents one completion choice.
type ChatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// Usage contains token accounting metadata.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatCompletionDelta represents a streaming chunk.
type ChatCompletionDelta struct {
	Choices   []ChatCompletionDeltaChoice `json:"choices"`
	Citations []Citation                  `json:"citations,omitempty"`
	Grounding []GroundingSupport          `json:"grounding,omitempty"`
}

// DeltaMessage is the incremental message fragment inside a streaming chunk.
// ReasoningContent carries thought tokens emitted by reasoning models.
type DeltaMessage struct {
	Role             string     `json:"role,omitempty"`
	Content          string     `json:"content,omitempty"`
	ReasoningContent string     `json:"reasoning_content,omitempty"`
	ToolCalls        []ToolCall `json:"tool_calls,omitempty"`
}

// ChatCompletionDeltaChoice mirrors OpenAI streaming deltas.
type ChatCompletionDeltaChoice struct {
	Delta        DeltaMessage `json:"delta"`
	FinishReason string       `json:"finish_reason"`
	Index        int          `json:"index"`
}
