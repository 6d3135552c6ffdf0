package conversation

import "context"

// Repository exposes CRUD operations for conversation metadata.
type Repository interface {
	Create(ctx context.Context, conversation *Conversation) error
	FindByPublicID(ctx context.Context, publicID string) (*Conversation, error)
	List(ctx context.Context) ([]Conversation, error)
	Update(ctx context.Context, conversation *Conversation) error
	Delete(ctx context.Context, publicID string) error
}

// MessageRepository persists individual conversation messages.
type MessageRepository interface {
	Insert(ctx context.Context, message *Message) error
	ListByConversationID(ctx context.Context, conversationID uint) ([]Message, error)
	DeleteByPublicID(ctx context.Context, publicID string) error
}
