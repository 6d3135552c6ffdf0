package dto

import (
	"time"

	"chathub/internal/domain/chat"
	"chathub/internal/domain/conversation"
	"chathub/internal/domain/llm"
	"chathub/internal/domain/space"
)

// SegmentPayload is one rendered slice of an assistant answer: either a run
// of prose or the tools anchored at that point.
type SegmentPayload struct {
	Type   string                `json:"type"`
	Offset int                   `json:"offset"`
	Text   string                `json:"text,omitempty"`
	Tools  []chat.ToolInvocation `json:"tools,omitempty"`
}

// MessagePayload is one conversation log entry returned to clients.
type MessagePayload struct {
	ID               string                 `json:"id,omitempty"`
	Role             string                 `json:"role"`
	Text             string                 `json:"text,omitempty"`
	Parts            []chat.ContentPart     `json:"parts,omitempty"`
	Segments         []SegmentPayload       `json:"segments,omitempty"`
	ToolInvocations  []chat.ToolInvocation  `json:"tool_invocations,omitempty"`
	RelatedQuestions []string               `json:"related_questions,omitempty"`
	Citations        []llm.Citation         `json:"citations,omitempty"`
	Grounding        []llm.GroundingSupport `json:"grounding,omitempty"`
	Reasoning        string                 `json:"reasoning,omitempty"`
	IsError          bool                   `json:"is_error,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// FromChatMessage maps an engine message to its payload. Assistant answers
// with tool invocations are additionally split into interleaved segments.
func FromChatMessage(m *chat.Message) MessagePayload {
	payload := MessagePayload{
		ID:               m.ID,
		Role:             string(m.Role),
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

	if m.Role == chat.RoleAssistant && len(m.ToolInvocations) > 0 {
		segments := chat.SplitSegments(m.Text, m.ToolInvocations, true)
		payload.Segments = make([]SegmentPayload, 0, len(segments))
		for _, seg := range segments {
			payload.Segments = append(payload.Segments, SegmentPayload{
				Type:   string(seg.Type),
				Offset: seg.Offset,
				Text:   seg.Text,
				Tools:  seg.Tools,
			})
		}
	}

	return payload
}

// SendMessageResponse is returned by the non-streaming chat endpoint.
type SendMessageResponse struct {
	ConversationID string         `json:"conversation_id"`
	Message        MessagePayload `json:"message"`
}

// ConversationPayload is a conversation list or detail entry.
type ConversationPayload struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SpaceID         *string          `json:"space_id,omitempty"`
	Provider        string           `json:"provider"`
	SearchEnabled   bool             `json:"search_enabled"`
	ThinkingEnabled bool             `json:"thinking_enabled"`
	Favorite        bool             `json:"favorite"`
	CreatedAt       time.Time        `json:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at"`
	Messages        []MessagePayload `json:"messages,omitempty"`
}

// FromConversation maps the domain conversation to its payload.
func FromConversation(c *conversation.Conversation) ConversationPayload {
	payload := ConversationPayload{
		ID:              c.PublicID,
		Title:           c.Title,
		SpaceID:         c.SpacePublicID,
		Provider:        c.Provider,
		SearchEnabled:   c.SearchEnabled,
		ThinkingEnabled: c.ThinkingEnabled,
		Favorite:        c.Favorite,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
	for i := range c.Messages {
		payload.Messages = append(payload.Messages, FromChatMessage(c.Messages[i].ToChatMessage()))
	}
	return payload
}

// SpacePayload is a space list or detail entry.
type SpacePayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Instruction string    `json:"instruction,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FromSpace maps the domain space to its payload.
func FromSpace(s *space.Space) SpacePayload {
	return SpacePayload{
		ID:          s.PublicID,
		Name:        s.Name,
		Instruction: s.Instruction,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
