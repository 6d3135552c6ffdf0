package entities

import (
	"time"

	"chathub/internal/domain/conversation"
)

// Conversation represents the database schema for conversations
type Conversation struct {
	ID        uint      `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	PublicID        string  `gorm:"type:varchar(50);uniqueIndex;not null"`
	Title           string  `gorm:"type:varchar(256);not null"`
	SpacePublicID   *string `gorm:"type:varchar(64);index:idx_conversation_space"`
	Provider        string  `gorm:"type:varchar(100);not null"`
	SearchEnabled   bool    `gorm:"not null;default:false"`
	ThinkingEnabled bool    `gorm:"not null;default:false"`
	Favorite        bool    `gorm:"not null;default:false;index:idx_conversation_favorite"`

	Messages []ConversationMessage `gorm:"foreignKey:ConversationID"`
}

// TableName specifies the table name for Conversation.
func (Conversation) TableName() string {
	return "conversations"
}

// EtoD converts the database entity to the domain model.
func (c *Conversation) EtoD() *conversation.Conversation {
	messages := make([]conversation.Message, len(c.Messages))
	for i := range c.Messages {
		messages[i] = *c.Messages[i].EtoD()
	}

	return &conversation.Conversation{
		ID:              c.ID,
		PublicID:        c.PublicID,
		Title:           c.Title,
		SpacePublicID:   c.SpacePublicID,
		Provider:        c.Provider,
		SearchEnabled:   c.SearchEnabled,
		ThinkingEnabled: c.ThinkingEnabled,
		Favorite:        c.Favorite,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
		Messages:        messages,
	}
}

// NewSchemaConversation creates a database entity from the domain model.
func NewSchemaConversation(c *conversation.Conversation) *Conversation {
	return &Conversation{
		ID:              c.ID,
		PublicID:        c.PublicID,
		Title:           c.Title,
		SpacePublicID:   c.SpacePublicID,
		Provider:        c.Provider,
		SearchEnabled:   c.SearchEnabled,
		ThinkingEnabled: c.ThinkingEnabled,
		Favorite:        c.Favorite,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}
