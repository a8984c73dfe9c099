package util

import (
	"context"
	"time"

	"kiranastock/internal/app/inventory/entity"
)

// CategoryCache is the Redis cache for the category list.
// Narrow interface so the service layer can be tested with a mock.
type CategoryCache interface {
	SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error
	GetCategories(ctx context.Context) ([]entity.Category, error)
	DeleteCategories(ctx context.Context) error
	Close() error
}

// MessagePublisher sends item change events to the message broker.
type MessagePublisher interface {
	PublishMessage(ctx context.Context, key string, value []byte) error
	Close() error
}
