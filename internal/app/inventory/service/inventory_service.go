package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"kiranastock/internal/app/inventory/entity"
	"kiranastock/internal/app/inventory/repository"
	"kiranastock/internal/app/inventory/util"
	"kiranastock/pkg/logger"
	"kiranastock/pkg/metrics"

	"github.com/google/uuid"
)

// Business errors for handlers to map onto HTTP statuses. The repository
// sentinels keep their identity across layers so errors.Is works end to end.
var (
	ErrCategoryNotFound  = repository.ErrCategoryNotFound
	ErrCategoryNameTaken = repository.ErrCategoryNameTaken
	ErrLastCategory      = repository.ErrLastCategory
	ErrItemNotFound      = repository.ErrItemNotFound
	ErrCategoryRequired  = errors.New("category is required")
)

const categoriesCacheTTL = time.Hour

// DefaultCategoryName is substituted when a category is created with a
// blank name.
const DefaultCategoryName = "Uncategorized"

// InventoryService holds the business rules of the catalog: input
// trimming and defaulting, partial-update resolution, referential checks,
// the category list cache and item change events.
type InventoryService struct {
	categoryRepo repository.CategoryRepository
	itemRepo     repository.ItemRepository
	cache        util.CategoryCache
	publisher    util.MessagePublisher
}

// NewInventoryService creates the service with its dependencies injected.
func NewInventoryService(
	categoryRepo repository.CategoryRepository,
	itemRepo repository.ItemRepository,
	cache util.CategoryCache,
	publisher util.MessagePublisher,
) *InventoryService {
	return &InventoryService{
		categoryRepo: categoryRepo,
		itemRepo:     itemRepo,
		cache:        cache,
		publisher:    publisher,
	}
}

// === CATEGORIES ===

// GetAllCategories reads through the Redis cache: cache hit returns the
// cached list, cache miss loads from the store and refills the cache.
func (s *InventoryService) GetAllCategories(ctx context.Context) ([]entity.Category, error) {
	categories, err := s.cache.GetCategories(ctx)
	if err == nil && len(categories) > 0 {
		metrics.RedisCacheHits.WithLabelValues("inventory-service", "categories").Inc()
		return categories, nil
	}
	metrics.RedisCacheMisses.WithLabelValues("inventory-service", "categories").Inc()

	categories, err = s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories: %w", err)
	}
	if categories == nil {
		categories = []entity.Category{}
	}

	// The store already answered; a cache write failure is not worth
	// failing the request over.
	if err := s.cache.SetCategories(ctx, categories, categoriesCacheTTL); err != nil {
		logger.Warn().Err(err).Msg("Failed to cache categories")
	}

	return categories, nil
}

func (s *InventoryService) GetCategory(ctx context.Context, id int64) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// CreateCategory trims the requested name, substitutes the default name
// when the trimmed result is blank, and invalidates the cache.
func (s *InventoryService) CreateCategory(ctx context.Context, req *entity.CreateCategoryRequest) (*entity.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = DefaultCategoryName
	}

	category := &entity.Category{Name: name}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return nil, ErrCategoryNameTaken
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.invalidateCategoryCache(ctx)
	return category, nil
}

// UpdateCategory replaces the name with its trimmed value when one is
// provided; an absent name leaves the stored name unchanged.
func (s *InventoryService) UpdateCategory(ctx context.Context, id int64, req *entity.UpdateCategoryRequest) (*entity.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}

	if req.Name != nil {
		category.Name = strings.TrimSpace(*req.Name)
	}

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		if errors.Is(err, repository.ErrCategoryNameTaken) {
			return nil, ErrCategoryNameTaken
		}
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.invalidateCategoryCache(ctx)
	return category, nil
}

// DeleteCategory removes the category; the repository reassigns its items
// to a surviving category inside the same transaction.
func (s *InventoryService) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.categoryRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) || errors.Is(err, repository.ErrLastCategory) {
			return err
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.invalidateCategoryCache(ctx)
	return nil
}

func (s *InventoryService) invalidateCategoryCache(ctx context.Context) {
	if err := s.cache.DeleteCategories(ctx); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate categories cache")
	}
}

// === ITEMS ===

func (s *InventoryService) GetAllItems(ctx context.Context, categoryID int64) ([]entity.ItemWithCategory, error) {
	var (
		items []entity.ItemWithCategory
		err   error
	)
	if categoryID > 0 {
		items, err = s.itemRepo.GetByCategory(ctx, categoryID)
	} else {
		items, err = s.itemRepo.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	if items == nil {
		items = []entity.ItemWithCategory{}
	}
	return items, nil
}

func (s *InventoryService) GetItem(ctx context.Context, id int64) (*entity.ItemWithCategory, error) {
	item, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	return item, nil
}

// CreateItem rejects a missing or unresolvable category reference and
// stores the item with field defaults already applied by JSON decoding
// (empty strings, zero numerics). Returns the item joined with its
// category name.
func (s *InventoryService) CreateItem(ctx context.Context, req *entity.CreateItemRequest) (*entity.ItemWithCategory, error) {
	if req.CategoryID == 0 {
		return nil, ErrCategoryRequired
	}
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to verify category: %w", err)
	}

	item := &entity.Item{
		Name:       req.Name,
		CategoryID: req.CategoryID,
		Flavor:     req.Flavor,
		Price:      req.Price,
		ImageURL:   req.ImageURL,
		Stock:      req.Stock,
	}
	if err := s.itemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	metrics.ItemsCreated.Inc()

	s.publishItemEvent(ctx, "ITEM_CREATED", item)

	created, err := s.itemRepo.GetByID(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load created item: %w", err)
	}
	return created, nil
}

// UpdateItem applies partial-update semantics: a nil field keeps the
// stored value, a present field overwrites it even when empty or zero.
// A changed category reference is re-validated; a price change publishes
// an ITEM_UPDATED event.
func (s *InventoryService) UpdateItem(ctx context.Context, id int64, req *entity.UpdateItemRequest) (*entity.ItemWithCategory, error) {
	current, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	item := current.Item
	oldPrice := item.Price

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Flavor != nil {
		item.Flavor = *req.Flavor
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.Stock != nil {
		item.Stock = *req.Stock
	}
	if req.CategoryID != nil {
		if *req.CategoryID == 0 {
			return nil, ErrCategoryRequired
		}
		if *req.CategoryID != item.CategoryID {
			if _, err := s.categoryRepo.GetByID(ctx, *req.CategoryID); err != nil {
				if errors.Is(err, repository.ErrCategoryNotFound) {
					return nil, ErrCategoryNotFound
				}
				return nil, fmt.Errorf("failed to verify category: %w", err)
			}
		}
		item.CategoryID = *req.CategoryID
	}

	if err := s.itemRepo.Update(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	if item.Price != oldPrice {
		s.publishItemEvent(ctx, "ITEM_UPDATED", &item)
	}

	updated, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load updated item: %w", err)
	}
	return updated, nil
}

func (s *InventoryService) DeleteItem(ctx context.Context, id int64) error {
	current, err := s.itemRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to get item: %w", err)
	}

	if err := s.itemRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.publishItemEvent(ctx, "ITEM_DELETED", &current.Item)
	return nil
}

// publishItemEvent sends an item change event keyed by item ID. The store
// write already succeeded, so a broker failure is logged and swallowed.
func (s *InventoryService) publishItemEvent(ctx context.Context, eventType string, item *entity.Item) {
	event := entity.ItemEvent{
		EventID:    uuid.NewString(),
		EventType:  eventType,
		ItemID:     item.ID,
		Name:       item.Name,
		Price:      item.Price,
		CategoryID: item.CategoryID,
		Timestamp:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to marshal item event")
		return
	}

	if err := s.publisher.PublishMessage(ctx, strconv.FormatInt(item.ID, 10), data); err != nil {
		logger.Warn().Err(err).Str("event_type", eventType).Int64("item_id", item.ID).
			Msg("Failed to publish item event")
	}
}
