package chat

import (
	"context"
	"time"

	"chathub/internal/domain/llm"
)

// CreateConversationParams is the payload for the lazy conversation create.
type CreateConversationParams struct {
	Title           string
	SpaceID         *string
	Provider        string
	SearchEnabled   bool
	ThinkingEnabled bool
}

// ConversationRecord is the durable conversation state returned by the store.
type ConversationRecord struct {
	ID        string
	Title     string
	SpaceID   *string
	CreatedAt time.Time
}

// MessageRecord carries the identity stamped onto a message after a
// successful durable write.
type MessageRecord struct {
	ID        string
	CreatedAt time.Time
}

// ConversationPatch is a partial conversation update.
type ConversationPatch struct {
	Title    *string
	SpaceID  *string
	Favorite *bool
}

// ConversationStore is the persistence capability the engine depends on. The
// relational layer behind it is an external collaborator.
type ConversationStore interface {
	CreateConversation(ctx context.Context, params CreateConversationParams) (*ConversationRecord, error)
	AddMessage(ctx context.Context, conversationID string, msg *Message) (*MessageRecord, error)
	UpdateConversation(ctx context.Context, id string, patch ConversationPatch) error
	// DeleteMessage is used only on the edit path, best-effort.
	DeleteMessage(ctx context.Context, id string) error
}

// ChunkType discriminates streamed chunk payloads.
type ChunkType string

const (
	ChunkText    ChunkType = "text"
	ChunkThought ChunkType = "thought"
)

// Chunk is one streamed fragment of an in-flight answer.
type Chunk struct {
	Type    ChunkType `json:"type"`
	Content string    `json:"content"`
}

// StreamObserver receives chunks in arrival order while a turn streams.
type StreamObserver interface {
	OnChunk(chunk Chunk)
}

// CompletionRequest is the abstract streaming completion input.
type CompletionRequest struct {
	Messages        []llm.ChatMessage
	SearchEnabled   bool
	ThinkingEnabled bool
}

// CompletionResult is the settled output of a streamed completion.
type CompletionResult struct {
	Content   string
	Reasoning string
	ToolCalls []ToolInvocation
	Citations []llm.Citation
	Grounding []llm.GroundingSupport
}

// Completer abstracts the streaming completion capability. Implementations
// deliver chunks to the observer strictly in arrival order and block until
// the stream settles.
type Completer interface {
	StreamCompletion(ctx context.Context, req CompletionRequest, observer StreamObserver) (*CompletionResult, error)
}

// SpaceCandidate is a workspace offered to enrichment as a classification
// target.
type SpaceCandidate struct {
	ID   string
	Name string
}

// TitleAndSpace is the combined enrichment result for a first turn.
type TitleAndSpace struct {
	Title   string
	SpaceID *string
}

// TitleSpaceResolver is an externally supplied override for first-turn
// metadata derivation.
type TitleSpaceResolver func(ctx context.Context, firstUserText string) (*TitleAndSpace, error)

// Enricher produces best-effort conversation metadata and follow-up
// suggestions. Failures are logged by the engine, never fatal to a turn.
type Enricher interface {
	GenerateTitle(ctx context.Context, text string) (string, error)
	GenerateTitleAndSpace(ctx context.Context, text string, candidates []SpaceCandidate) (*TitleAndSpace, error)
	GenerateRelatedQuestions(ctx context.Context, recent []*Message) ([]string, error)
}

// Notifier publishes fire-and-forget change notifications for external
// observers such as conversation lists.
type Notifier interface {
	ConversationsChanged(conversationID string)
	ConversationSpaceUpdated(conversationID string, spaceID string)
}
