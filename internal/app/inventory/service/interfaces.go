package service

import (
	"context"

	"kiranastock/internal/app/inventory/entity"
)

type InventoryServiceInterface interface {
	GetAllCategories(ctx context.Context) ([]entity.Category, error)
	GetCategory(ctx context.Context, id int64) (*entity.Category, error)
	CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error)
	UpdateCategory(ctx context.Context, id int64, req *entity.UpdateCategoryRequest) (*entity.Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	// GetAllItems returns every item when categoryID is zero, otherwise
	// only the items of that category.
	GetAllItems(ctx context.Context, categoryID int64) ([]entity.ItemWithCategory, error)
	GetItem(ctx context.Context, id int64) (*entity.ItemWithCategory, error)
	CreateItem(ctx context.Context, req *entity.CreateItemRequest) (*entity.ItemWithCategory, error)
	UpdateItem(ctx context.Context, id int64, req *entity.UpdateItemRequest) (*entity.ItemWithCategory, error)
	DeleteItem(ctx context.Context, id int64) error

	SeedIfEmpty(ctx context.Context) error
}
