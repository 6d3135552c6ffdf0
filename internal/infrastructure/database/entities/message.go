package entities

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"chathub/internal/domain/conversation"
)

// ConversationMessage represents the database schema for messages inside a
// conversation. Structured content (multimodal parts, tool invocations,
// citations) is stored as jsonb so the schema survives shape changes in the
// provider payloads.
type ConversationMessage struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`

	PublicID       string `gorm:"type:varchar(50);uniqueIndex;not null"`
	ConversationID uint   `gorm:"index:idx_message_conversation;not null"`

	Role string `gorm:"type:varchar(20);not null"`
	Text string `gorm:"type:text"`

	Parts            datatypes.JSON `gorm:"type:jsonb"`
	ToolInvocations  datatypes.JSON `gorm:"type:jsonb"`
	RelatedQuestions datatypes.JSON `gorm:"type:jsonb"`
	Citations        datatypes.JSON `gorm:"type:jsonb"`
	Grounding        datatypes.JSON `gorm:"type:jsonb"`

	Reasoning string `gorm:"type:text"`
	IsError   bool   `gorm:"not null;default:false"`
}

// TableName specifies the table name for ConversationMessage.
func (ConversationMessage) TableName() string {
	return "conversation_messages"
}

// EtoD converts the database entity to the domain model.
func (m *ConversationMessage) EtoD() *conversation.Message {
	msg := &conversation.Message{
		ID:             m.ID,
		PublicID:       m.PublicID,
		ConversationID: m.ConversationID,
		Role:           m.Role,
		Text:           m.Text,
		Reasoning:      m.Reasoning,
		IsError:        m.IsError,
		CreatedAt:      m.CreatedAt,
	}
	unmarshalColumn(m.Parts, &msg.Parts)
	unmarshalColumn(m.ToolInvocations, &msg.ToolInvocations)
	unmarshalColumn(m.RelatedQuestions, &msg.RelatedQuestions)
	unmarshalColumn(m.Citations, &msg.Citations)
	unmarshalColumn(m.Grounding, &msg.Grounding)
	return msg
}

// NewSchemaConversationMessage creates a database entity from the domain model.
func NewSchemaConversationMessage(m *conversation.Message) *ConversationMessage {
	return &ConversationMessage{
		ID:               m.ID,
		PublicID:         m.PublicID,
		ConversationID:   m.ConversationID,
		Role:             m.Role,
		Text:             m.Text,
		Parts:            marshalColumn(m.Parts),
		ToolInvocations:  marshalColumn(m.ToolInvocations),
		RelatedQuestions: marshalColumn(m.RelatedQuestions),
		Citations:        marshalColumn(m.Citations),
		Grounding:        marshalColumn(m.Grounding),
		Reasoning:        m.Reasoning,
		IsError:          m.IsError,
		CreatedAt:        m.CreatedAt,
	}
}

func marshalColumn(v any) datatypes.JSON {
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return nil
	}
	return datatypes.JSON(data)
}

func unmarshalColumn(data datatypes.JSON, target any) {
	if len(data) == 0 {
		return
	}
	// Columns written by this process always round-trip; a decode failure
	// leaves the field zero-valued rather than poisoning the whole row.
	_ = json.Unmarshal(data, target)
}
