// Package conversation holds the durable conversation and message models and
// the service that backs the chat engine's persistence contract.
package conversation

import (
	"time"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/llm"
)

// Conversation is a persisted chat thread.
type Conversation struct {
	ID       uint   `json:"-"`
	PublicID string `json:"id"`
	Title    string `json:"title"`
	// SpacePublicID references the owning space, nil when unassigned.
	SpacePublicID *string `json:"space_id,omitempty"`
	// Provider is the model identifier the conversation was started with.
	Provider string `json:"provider"`
	// SearchEnabled and ThinkingEnabled snapshot the feature toggles at
	// creation time.
	SearchEnabled   bool      `json:"search_enabled"`
	ThinkingEnabled bool      `json:"thinking_enabled"`
	Favorite        bool      `json:"favorite"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Messages []Message `json:"messages,omitempty"`
}

// Message is one persisted entry of a conversation log.
type Message struct {
	ID               uint                   `json:"-"`
	PublicID         string                 `json:"id"`
	ConversationID   uint                   `json:"-"`
	Role             string                 `json:"role"`
	Text             string                 `json:"text,omitempty"`
	Parts            []chat.ContentPart     `json:"parts,omitempty"`
	ToolInvocations  []chat.ToolInvocation  `json:"tool_invocations,omitempty"`
	RelatedQuestions []string               `json:"related_questions,omitempty"`
	Citations        []llm.Citation         `json:"citations,omitempty"`
	Grounding        []llm.GroundingSupport `json:"grounding,omitempty"`
	Reasoning        string                 `json:"reasoning,omitempty"`
	IsError          bool                   `json:"is_error,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// NewConversation creates a conversation record with creation timestamps set.
func NewConversation(publicID string, params chat.CreateConversationParams) *Conversation {
	now := time.Now().UTC()
	return &Conversation{
		PublicID:        publicID,
		Title:           params.Title,
		SpacePublicID:   params.SpaceID,
		Provider:        params.Provider,
		SearchEnabled:   params.SearchEnabled,
		ThinkingEnabled: params.ThinkingEnabled,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NewMessage converts an engine message into its durable record.
func NewMessage(publicID string, conversationID uint, msg *chat.Message) *Message {
	return &Message{
		PublicID:         publicID,
		ConversationID:   conversationID,
		Role:             string(msg.Role),
		Text:             msg.Text,
		Parts:            msg.Parts,
		ToolInvocations:  msg.ToolInvocations,
		RelatedQuestions: msg.RelatedQuestions,
		Citations:        msg.Citations,
		Grounding:        msg.Grounding,
		Reasoning:        msg.Reasoning,
		IsError:          msg.IsError,
		CreatedAt:        time.Now().UTC(),
	}
}

// ToChatMessage converts a durable record back into the engine's message
// shape, identity included.
func (m *Message) ToChatMessage() *chat.Message {
	return &chat.Message{
		ID:               m.PublicID,
		Role:             chat.Role(m.Role),
		Text:             m.Text,
		Parts:            m.Parts,
		ToolInvocations:  m.ToolInvocations,
		RelatedQuestions: m.RelatedQuestions,
		Citations:        m.Citations,
		Grounding:        m.Grounding,
		Reasoning:        m.Reasoning,
		IsError:          m.IsError,
		CreatedAt:        m.CreatedAt,
	}
}
