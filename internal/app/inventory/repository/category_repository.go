package repository

import (
	"context"
	"errors"
	"fmt"

	"kiranastock/internal/app/inventory/entity"
	"kiranastock/pkg/metrics"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a new category repository backed by PostgreSQL.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// GetAll returns every category ordered by (sort_order, name).
func (r *categoryRepository) GetAll(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	result := r.db.WithContext(ctx).
		Raw(`SELECT id, name, sort_order FROM categories ORDER BY sort_order, name`).
		Scan(&categories)
	if result.Error != nil {
		metrics.DbErrors.WithLabelValues("inventory-service", "categories.get_all").Inc()
		return nil, fmt.Errorf("failed to get categories: %w", result.Error)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id int64) (*entity.Category, error) {
	var category entity.Category
	result := r.db.WithContext(ctx).
		Raw(`SELECT id, name, sort_order FROM categories WHERE id = ?`, id).
		Scan(&category)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to get category by id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrCategoryNotFound
	}
	return &category, nil
}

// Create inserts the category and fills in its generated identifier.
// A name collision surfaces as ErrCategoryNameTaken via the UNIQUE constraint.
func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).
		Raw(`INSERT INTO categories (name, sort_order) VALUES (?, ?) RETURNING id`,
			category.Name, category.SortOrder).
		Scan(&category.ID)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrCategoryNameTaken
		}
		return fmt.Errorf("failed to create category: %w", result.Error)
	}
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	result := r.db.WithContext(ctx).
		Exec(`UPDATE categories SET name = ? WHERE id = ?`, category.Name, category.ID)
	if result.Error != nil {
		var pgErr *pgconn.PgError
		if errors.As(result.Error, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return ErrCategoryNameTaken
		}
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// Delete removes the category after moving its items to the surviving
// category with the lowest id. The whole sequence runs inside one
// transaction so no request can observe an orphaned item.
func (r *categoryRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Raw(`SELECT COUNT(*) FROM categories WHERE id = ?`, id).Scan(&found).Error; err != nil {
			return fmt.Errorf("failed to check category: %w", err)
		}
		if found == 0 {
			return ErrCategoryNotFound
		}

		var survivorID int64
		survivor := tx.Raw(`SELECT id FROM categories WHERE id <> ? ORDER BY id LIMIT 1`, id).
			Scan(&survivorID)
		if survivor.Error != nil {
			return fmt.Errorf("failed to find surviving category: %w", survivor.Error)
		}
		if survivor.RowsAffected == 0 {
			return ErrLastCategory
		}

		reassigned := tx.Exec(`UPDATE items SET category_id = ? WHERE category_id = ?`, survivorID, id)
		if reassigned.Error != nil {
			return fmt.Errorf("failed to reassign items: %w", reassigned.Error)
		}
		metrics.CategoriesReassigned.Add(float64(reassigned.RowsAffected))

		if err := tx.Exec(`DELETE FROM categories WHERE id = ?`, id).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
}

func (r *categoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM categories`).Scan(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count categories: %w", err)
	}
	return count, nil
}
