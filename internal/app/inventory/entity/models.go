package entity

import "time"

// Category is a named grouping for items. At least one category must exist
// whenever any item exists; every item references exactly one category.
type Category struct {
	ID        int64  `gorm:"primaryKey" json:"id"`
	Name      string `gorm:"uniqueIndex;not null" json:"name"`
	SortOrder int    `gorm:"not null;default:0" json:"sort_order"`
}

// Item is a catalog product row. CategoryID must always resolve to an
// existing category; deleting a category re-points its items, never
// deletes them.
type Item struct {
	ID         int64     `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"not null;default:''" json:"name"`
	CategoryID int64     `gorm:"not null;index" json:"category_id"`
	Flavor     string    `gorm:"not null;default:''" json:"flavor"`
	Price      float64   `gorm:"not null;default:0" json:"price"`
	ImageURL   string    `gorm:"not null;default:''" json:"image_url"`
	Stock      int       `gorm:"not null;default:0" json:"stock"`
	CreatedAt  time.Time `json:"created_at"`
}

// ItemWithCategory is an item joined with its category name, the shape
// returned by every item read path.
type ItemWithCategory struct {
	Item         `gorm:"embedded"`
	CategoryName string `gorm:"column:category_name" json:"category_name"`
}

// ItemEvent is published to Kafka on item changes.
// EventType is one of ITEM_CREATED, ITEM_UPDATED, ITEM_DELETED.
type ItemEvent struct {
	EventID    string    `json:"event_id"`
	EventType  string    `json:"event_type"`
	ItemID     int64     `json:"item_id"`
	Name       string    `json:"name"`
	Price      float64   `json:"price"`
	CategoryID int64     `json:"category_id"`
	Timestamp  time.Time `json:"timestamp"`
}
