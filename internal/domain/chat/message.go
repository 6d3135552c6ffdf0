// Package chat implements the conversation orchestration engine: it owns
// conversation and message state, drives the request, stream and finalize
// lifecycle of a chat turn, reconciles edits against the message log, and
// derives conversation metadata from the first turn.
package chat

import (
	"strings"
	"time"

	"chathub/internal/domain/llm"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ContentPartType discriminates typed content parts.
type ContentPartType string

const (
	PartText  ContentPartType = "text"
	PartImage ContentPartType = "image"
)

// ContentPart is one element of a structured message body.
type ContentPart struct {
	Type     ContentPartType `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL string          `json:"image_url,omitempty"`
	Name     string          `json:"name,omitempty"`
}

// Attachment is a file reference supplied with a user message.
type Attachment struct {
	URL  string `json:"url"`
	Name string `json:"name,omitempty"`
}

// ToolInvocationType distinguishes ordinary tool records from form tools,
// which anchor to the end of the text when no offset is given.
type ToolInvocationType string

const (
	ToolTypeDefault ToolInvocationType = ""
	ToolTypeForm    ToolInvocationType = "form"
)

// ToolInvocation records a tool the assistant invoked while producing an
// answer, tagged with an approximate rune offset into the answer text.
// It is display metadata consumed by the content segmenter, not an
// executable call.
type ToolInvocation struct {
	Name   string             `json:"name"`
	Type   ToolInvocationType `json:"type,omitempty"`
	Step   *int               `json:"step,omitempty"`
	Offset *int               `json:"offset,omitempty"`
}

// Message is one entry in a conversation log.
//
// Content is either plain Text or an ordered list of typed Parts, never both.
// A message without an ID is in-flight: created this turn and not yet durably
// stored. At most one in-flight assistant placeholder exists per conversation
// while a turn is active.
type Message struct {
	ID               string
	Role             Role
	Text             string
	Parts            []ContentPart
	ToolInvocations  []ToolInvocation
	RelatedQuestions []string
	Citations        []llm.Citation
	Grounding        []llm.GroundingSupport
	Reasoning        string
	IsError          bool
	CreatedAt        time.Time
}

// Persisted reports whether the message has a durable identity.
func (m *Message) Persisted() bool {
	return m.ID != ""
}

// ContentText returns the textual content regardless of shape.
func (m *Message) ContentText() string {
	if len(m.Parts) == 0 {
		return m.Text
	}
	var b strings.Builder
	for _, part := range m.Parts {
		if part.Type == PartText {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// BuildUserMessage assembles a user message from text and attachments.
//
// With attachments the content becomes an ordered part list starting with the
// text part followed by each attachment; otherwise the content stays plain
// text. The result carries a creation timestamp but no persisted identity.
func BuildUserMessage(text string, attachments []Attachment) *Message {
	msg := &Message{
		Role:      RoleUser,
		CreatedAt: time.Now().UTC(),
	}

	if len(attachments) == 0 {
		msg.Text = text
		return msg
	}

	parts := make([]ContentPart, 0, len(attachments)+1)
	parts = append(parts, ContentPart{Type: PartText, Text: text})
	for _, att := range attachments {
		parts = append(parts, ContentPart{
			Type:     PartImage,
			ImageURL: att.URL,
			Name:     att.Name,
		})
	}
	msg.Parts = parts
	return msg
}

// NewPlaceholder returns the empty in-flight assistant message appended to
// the log while a turn streams.
func NewPlaceholder() *Message {
	return &Message{
		Role:      RoleAssistant,
		CreatedAt: time.Now().UTC(),
	}
}
