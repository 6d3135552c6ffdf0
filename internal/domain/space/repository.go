package space

import "context"

// Repository exposes CRUD operations for spaces.
type Repository interface {
	Create(ctx context.Context, space *Space) error
	FindByPublicID(ctx context.Context, publicID string) (*Space, error)
	List(ctx context.Context) ([]Space, error)
	Update(ctx context.Context, space *Space) error
	Delete(ctx context.Context, publicID string) error
}
