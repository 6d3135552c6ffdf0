package conversation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	domain "chathub/internal/domain/conversation"
	"chathub/internal/infrastructure/database/entities"
	"chathub/internal/infrastructure/metrics"
	"chathub/internal/utils/platformerrors"
)

// timeQuery returns a deferred observer for the query duration histogram.
func timeQuery(queryType string) func() {
	start := time.Now()
	return func() {
		metrics.RecordDBQuery(queryType, time.Since(start).Seconds())
	}
}

// Repository persists conversation metadata.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

// NewRepository builds a conversation repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the conversation record.
func (r *Repository) Create(ctx context.Context, conv *domain.Conversation) error {
	defer timeQuery("conversation_create")()
	entity := entities.NewSchemaConversation(conv)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create conversation",
			err,
			"",
		)
	}

	conv.ID = entity.ID
	conv.CreatedAt = entity.CreatedAt
	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches a conversation by its public ID, messages included
// in insertion order.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Conversation, error) {
	defer timeQuery("conversation_find")()
	var entity entities.Conversation
	if err := r.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB {
			return db.Order("conversation_messages.id ASC")
		}).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("conversation not found: %s", publicID),
				nil,
				"",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch conversation",
			err,
			"",
		)
	}

	return entity.EtoD(), nil
}

// List returns all conversations, most recently updated first, without their
// message bodies.
func (r *Repository) List(ctx context.Context) ([]domain.Conversation, error) {
	defer timeQuery("conversation_list")()
	var records []entities.Conversation
	if err := r.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&records).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list conversations",
			err,
			"",
		)
	}

	result := make([]domain.Conversation, len(records))
	for i := range records {
		result[i] = *records[i].EtoD()
	}
	return result, nil
}

// Update persists changed conversation metadata.
func (r *Repository) Update(ctx context.Context, conv *domain.Conversation) error {
	defer timeQuery("conversation_update")()
	entity := entities.NewSchemaConversation(conv)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update conversation",
			err,
			"",
		)
	}

	conv.UpdatedAt = entity.UpdatedAt
	return nil
}

// Delete removes a conversation and its messages.
func (r *Repository) Delete(ctx context.Context, publicID string) error {
	defer timeQuery("conversation_delete")()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var entity entities.Conversation
		if err := tx.Where("public_id = ?", publicID).First(&entity).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return platformerrors.NewError(
					ctx,
					platformerrors.LayerRepository,
					platformerrors.ErrorTypeNotFound,
					fmt.Sprintf("conversation not found: %s", publicID),
					nil,
					"",
				)
			}
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to fetch conversation for delete",
				err,
				"",
			)
		}

		if err := tx.Where("conversation_id = ?", entity.ID).
			Delete(&entities.ConversationMessage{}).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to delete conversation messages",
				err,
				"",
			)
		}

		if err := tx.Delete(&entity).Error; err != nil {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeDatabaseError,
				"failed to delete conversation",
				err,
				"",
			)
		}
		return nil
	})
}
