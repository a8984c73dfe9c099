package repository

import (
	"context"
	"errors"

	"kiranastock/internal/app/inventory/entity"
)

var (
	// Sentinel errors surfaced to the service layer. Their messages are
	// returned verbatim in HTTP error bodies.
	ErrCategoryNotFound  = errors.New("category not found")
	ErrCategoryNameTaken = errors.New("category with this name already exists")
	ErrLastCategory      = errors.New("cannot delete the only category, add another category first")
	ErrItemNotFound      = errors.New("item not found")
)

type CategoryRepository interface {
	GetAll(ctx context.Context) ([]entity.Category, error)
	GetByID(ctx context.Context, id int64) (*entity.Category, error)
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error
	// Delete reassigns every item of the category to the surviving category
	// with the lowest id and removes the category row, as one transaction.
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}

type ItemRepository interface {
	GetAll(ctx context.Context) ([]entity.ItemWithCategory, error)
	GetByCategory(ctx context.Context, categoryID int64) ([]entity.ItemWithCategory, error)
	GetByID(ctx context.Context, id int64) (*entity.ItemWithCategory, error)
	Create(ctx context.Context, item *entity.Item) error
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int64, error)
}
