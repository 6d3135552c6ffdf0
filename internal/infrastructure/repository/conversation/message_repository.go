package conversation

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "chathub/internal/domain/conversation"
	"chathub/internal/infrastructure/database/entities"
	"chathub/internal/utils/platformerrors"
)

// MessageRepository persists individual conversation messages.
type MessageRepository struct {
	db *gorm.DB
}

var _ domain.MessageRepository = (*MessageRepository)(nil)

// NewMessageRepository builds a message repository.
func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Insert appends a message row.
func (r *MessageRepository) Insert(ctx context.Context, msg *domain.Message) error {
	defer timeQuery("message_insert")()
	entity := entities.NewSchemaConversationMessage(msg)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to insert message",
			err,
			"",
		)
	}

	msg.ID = entity.ID
	msg.CreatedAt = entity.CreatedAt
	return nil
}

// ListByConversationID returns a conversation's messages in insertion order.
func (r *MessageRepository) ListByConversationID(ctx context.Context, conversationID uint) ([]domain.Message, error) {
	defer timeQuery("message_list")()
	var records []entities.ConversationMessage
	if err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list messages",
			err,
			"",
		)
	}

	result := make([]domain.Message, len(records))
	for i := range records {
		result[i] = *records[i].EtoD()
	}
	return result, nil
}

// DeleteByPublicID removes a single message row.
func (r *MessageRepository) DeleteByPublicID(ctx context.Context, publicID string) error {
	defer timeQuery("message_delete")()
	res := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		Delete(&entities.ConversationMessage{})
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			fmt.Sprintf("failed to delete message: %s", publicID),
			res.Error,
			"",
		)
	}
	return nil
}
