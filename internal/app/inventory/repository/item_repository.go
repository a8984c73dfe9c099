package repository

import (
	"context"
	"fmt"
	"time"

	"kiranastock/internal/app/inventory/entity"
	"kiranastock/pkg/metrics"

	"gorm.io/gorm"
)

const itemSelect = `SELECT i.id, i.name, i.category_id, i.flavor, i.price, i.image_url, i.stock, i.created_at, c.name AS category_name FROM items i JOIN categories c ON c.id = i.category_id`

type itemRepository struct {
	db *gorm.DB
}

// NewItemRepository creates a new item repository backed by PostgreSQL.
func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

// GetAll returns every item joined with its category name, ordered by
// (category sort order, category name, item name).
func (r *itemRepository) GetAll(ctx context.Context) ([]entity.ItemWithCategory, error) {
	var items []entity.ItemWithCategory
	result := r.db.WithContext(ctx).
		Raw(itemSelect + ` ORDER BY c.sort_order, c.name, i.name`).
		Scan(&items)
	if result.Error != nil {
		metrics.DbErrors.WithLabelValues("inventory-service", "items.get_all").Inc()
		return nil, fmt.Errorf("failed to get items: %w", result.Error)
	}
	return items, nil
}

// GetByCategory returns the items of one category ordered by item name.
// An empty result is a valid result, never an error.
func (r *itemRepository) GetByCategory(ctx context.Context, categoryID int64) ([]entity.ItemWithCategory, error) {
	var items []entity.ItemWithCategory
	result := r.db.WithContext(ctx).
		Raw(itemSelect+` WHERE i.category_id = ? ORDER BY i.name`, categoryID).
		Scan(&items)
	if result.Error != nil {
		metrics.DbErrors.WithLabelValues("inventory-service", "items.get_by_category").Inc()
		return nil, fmt.Errorf("failed to get items by category: %w", result.Error)
	}
	return items, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id int64) (*entity.ItemWithCategory, error) {
	var item entity.ItemWithCategory
	result := r.db.WithContext(ctx).
		Raw(itemSelect+` WHERE i.id = ?`, id).
		Scan(&item)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get item by id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrItemNotFound
	}
	return &item, nil
}

// Create inserts the item and fills in its generated identifier and
// creation timestamp.
func (r *itemRepository) Create(ctx context.Context, item *entity.Item) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).
		Raw(`INSERT INTO items (name, category_id, flavor, price, image_url, stock, created_at) VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`,
			item.Name, item.CategoryID, item.Flavor, item.Price, item.ImageURL, item.Stock, item.CreatedAt).
		Scan(&item.ID)
	if result.Error != nil {
		return fmt.Errorf("failed to create item: %w", result.Error)
	}
	return nil
}

// Update rewrites every mutable field; partial-update semantics are
// resolved by the caller before this point. created_at is immutable.
func (r *itemRepository) Update(ctx context.Context, item *entity.Item) error {
	result := r.db.WithContext(ctx).
		Exec(`UPDATE items SET name = ?, category_id = ?, flavor = ?, price = ?, image_url = ?, stock = ? WHERE id = ?`,
			item.Name, item.CategoryID, item.Flavor, item.Price, item.ImageURL, item.Stock, item.ID)
	if result.Error != nil {
		return fmt.Errorf("failed to update item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM items WHERE id = ?`, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *itemRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM items`).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}
