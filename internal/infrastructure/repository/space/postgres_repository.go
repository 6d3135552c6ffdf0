package space

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	domain "chathub/internal/domain/space"
	"chathub/internal/infrastructure/database/entities"
	"chathub/internal/utils/platformerrors"
)

// Repository persists spaces.
type Repository struct {
	db *gorm.DB
}

var _ domain.Repository = (*Repository)(nil)

// NewRepository builds a space repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts the space record.
func (r *Repository) Create(ctx context.Context, sp *domain.Space) error {
	entity := entities.NewSchemaSpace(sp)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create space",
			err,
			"",
		)
	}

	sp.ID = entity.ID
	sp.CreatedAt = entity.CreatedAt
	sp.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByPublicID fetches a space by its public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*domain.Space, error) {
	var entity entities.Space
	if err := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("space not found: %s", publicID),
				nil,
				"",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch space",
			err,
			"",
		)
	}

	return entity.EtoD(), nil
}

// List returns all spaces in creation order.
func (r *Repository) List(ctx context.Context) ([]domain.Space, error) {
	var records []entities.Space
	if err := r.db.WithContext(ctx).
		Order("id ASC").
		Find(&records).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list spaces",
			err,
			"",
		)
	}

	result := make([]domain.Space, len(records))
	for i := range records {
		result[i] = *records[i].EtoD()
	}
	return result, nil
}

// Update persists space changes.
func (r *Repository) Update(ctx context.Context, sp *domain.Space) error {
	entity := entities.NewSchemaSpace(sp)
	if err := r.db.WithContext(ctx).Save(entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to update space",
			err,
			"",
		)
	}

	sp.UpdatedAt = entity.UpdatedAt
	return nil
}

// Delete removes a space record.
func (r *Repository) Delete(ctx context.Context, publicID string) error {
	res := r.db.WithContext(ctx).
		Where("public_id = ?", publicID).
		Delete(&entities.Space{})
	if res.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			fmt.Sprintf("failed to delete space: %s", publicID),
			res.Error,
			"",
		)
	}
	if res.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("space not found: %s", publicID),
			nil,
			"",
		)
	}
	return nil
}
