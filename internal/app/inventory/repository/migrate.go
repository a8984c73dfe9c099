package repository

import (
	"fmt"

	"kiranastock/internal/app/inventory/entity"
	"kiranastock/pkg/logger"

	"gorm.io/gorm"
)

// Migrate prepares the store before any request is served. It converts a
// legacy denormalized items table (free-text category column) into the
// normalized schema if one is present, then ensures the current schema
// exists. Any failure must abort process startup.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entity.Category{}); err != nil {
		return fmt.Errorf("failed to migrate categories schema: %w", err)
	}
	if err := migrateLegacyItems(db); err != nil {
		return fmt.Errorf("legacy schema migration failed: %w", err)
	}
	if err := db.AutoMigrate(&entity.Item{}); err != nil {
		return fmt.Errorf("failed to migrate items schema: %w", err)
	}
	if err := ensureItemCategoryFK(db); err != nil {
		return err
	}
	return nil
}

// migrateLegacyItems performs the one-time conversion from
// items.category (free text) to items.category_id (foreign key):
// one category row per distinct text value in first-seen order, every
// item re-pointed by identifier, legacy column dropped. The presence of
// category_id marks an already-migrated store and makes this a no-op.
// The whole conversion is a single transaction; a request handler must
// never observe a partially migrated store.
func migrateLegacyItems(db *gorm.DB) error {
	hasLegacy, err := columnExists(db, "items", "category")
	if err != nil {
		return err
	}
	if !hasLegacy {
		return nil
	}
	hasNew, err := columnExists(db, "items", "category_id")
	if err != nil {
		return err
	}
	if hasNew {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`ALTER TABLE items ADD COLUMN category_id BIGINT`).Error; err != nil {
			return fmt.Errorf("failed to add category_id column: %w", err)
		}

		// First-seen order, pinned to the order rows were inserted in.
		var names []string
		if err := tx.Raw(`SELECT category FROM items GROUP BY category ORDER BY MIN(id)`).Scan(&names).Error; err != nil {
			return fmt.Errorf("failed to enumerate legacy categories: %w", err)
		}

		// A legacy store never carried category rows of its own; clear any
		// leftovers from an aborted setup before rebuilding.
		if err := tx.Exec(`DELETE FROM categories`).Error; err != nil {
			return fmt.Errorf("failed to clear categories: %w", err)
		}

		for i, name := range names {
			var categoryID int64
			if err := tx.Raw(`INSERT INTO categories (name, sort_order) VALUES (?, ?) RETURNING id`, name, i).Scan(&categoryID).Error; err != nil {
				return fmt.Errorf("failed to create category %q: %w", name, err)
			}
			if err := tx.Exec(`UPDATE items SET category_id = ? WHERE category = ?`, categoryID, name).Error; err != nil {
				return fmt.Errorf("failed to re-point items of %q: %w", name, err)
			}
		}

		if err := tx.Exec(`ALTER TABLE items ALTER COLUMN category_id SET NOT NULL`).Error; err != nil {
			return fmt.Errorf("failed to enforce category_id: %w", err)
		}
		if err := tx.Exec(`ALTER TABLE items DROP COLUMN category`).Error; err != nil {
			return fmt.Errorf("failed to drop legacy column: %w", err)
		}

		logger.Info().Int("categories", len(names)).Msg("Migrated legacy items schema")
		return nil
	})
}

func columnExists(db *gorm.DB, table, column string) (bool, error) {
	var count int64
	err := db.Raw(`SELECT COUNT(*) FROM information_schema.columns WHERE table_schema = CURRENT_SCHEMA() AND table_name = ? AND column_name = ?`, table, column).
		Scan(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to inspect %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

func ensureItemCategoryFK(db *gorm.DB) error {
	var count int64
	err := db.Raw(`SELECT COUNT(*) FROM information_schema.table_constraints WHERE table_schema = CURRENT_SCHEMA() AND table_name = 'items' AND constraint_name = 'fk_items_category'`).
		Scan(&count).Error
	if err != nil {
		return fmt.Errorf("failed to inspect items constraints: %w", err)
	}
	if count > 0 {
		return nil
	}
	if err := db.Exec(`ALTER TABLE items ADD CONSTRAINT fk_items_category FOREIGN KEY (category_id) REFERENCES categories(id)`).Error; err != nil {
		return fmt.Errorf("failed to add items foreign key: %w", err)
	}
	return nil
}
