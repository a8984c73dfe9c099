package service

import (
	"context"
	"fmt"

	"kiranastock/internal/app/inventory/entity"
	"kiranastock/pkg/logger"
)

// DefaultCategories are created, in this order, when the store has no
// categories at all.
var DefaultCategories = []string{"Snacks", "Biscuits", "Masale", "Chocolates"}

type seedItem struct {
	Name         string
	CategoryName string
	Flavor       string
	Price        float64
	ImageURL     string
	Stock        int
}

var seedItems = []seedItem{
	{Name: "Kurkure Masala", CategoryName: "Snacks", Flavor: "Masala", Price: 20, ImageURL: "https://images.unsplash.com/photo-1613919113640-cb3ae4b3b2b6?w=200", Stock: 50},
	{Name: "Lays Classic", CategoryName: "Snacks", Flavor: "Classic", Price: 20, ImageURL: "https://images.unsplash.com/photo-1566478989037-eec170784d0b?w=200", Stock: 40},
	{Name: "Bingo Mad Angles", CategoryName: "Snacks", Flavor: "Tangy", Price: 10, ImageURL: "https://images.unsplash.com/photo-1599490659213-e2b9527bd087?w=200", Stock: 60},
	{Name: "Parle-G", CategoryName: "Biscuits", Flavor: "Sweet", Price: 10, ImageURL: "https://images.unsplash.com/photo-1558961363-fa8fdf82db35?w=200", Stock: 100},
	{Name: "Britannia Good Day", CategoryName: "Biscuits", Flavor: "Butter", Price: 30, ImageURL: "https://images.unsplash.com/photo-1607472586893-edb57bdc0e39?w=200", Stock: 45},
	{Name: "Oreo", CategoryName: "Biscuits", Flavor: "Chocolate", Price: 30, ImageURL: "https://images.unsplash.com/photo-1612203985729-70726954388c?w=200", Stock: 35},
	{Name: "MDH Chana Masala", CategoryName: "Masale", Flavor: "Spiced", Price: 45, ImageURL: "https://images.unsplash.com/photo-1596040033229-a0b2c2c1e9c8?w=200", Stock: 25},
	{Name: "Everest Garam Masala", CategoryName: "Masale", Flavor: "Aromatic", Price: 55, ImageURL: "https://images.unsplash.com/photo-1506368249639-73a05d6f6488?w=200", Stock: 30},
	{Name: "MDH Pav Bhaji Masala", CategoryName: "Masale", Flavor: "Pav Bhaji", Price: 50, ImageURL: "https://images.unsplash.com/photo-1582878826629-29b7ad1cdc43?w=200", Stock: 20},
	{Name: "Dairy Milk", CategoryName: "Chocolates", Flavor: "Milk", Price: 50, ImageURL: "https://images.unsplash.com/photo-1511381939415-e44015466834?w=200", Stock: 55},
	{Name: "5 Star", CategoryName: "Chocolates", Flavor: "Chocolate", Price: 20, ImageURL: "https://images.unsplash.com/photo-1606312619070-d48b4c392a9d?w=200", Stock: 70},
	{Name: "KitKat", CategoryName: "Chocolates", Flavor: "Wafer", Price: 30, ImageURL: "https://images.unsplash.com/photo-1578985545062-69928b1d9587?w=200", Stock: 40},
}

// SeedIfEmpty populates an empty store: the default categories when no
// categories exist, then the sample catalog when no items exist and at
// least one category does. It only ever acts on an empty store, so
// repeated invocation never duplicates data.
func (s *InventoryService) SeedIfEmpty(ctx context.Context) error {
	categoryCount, err := s.categoryRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}

	if categoryCount == 0 {
		for i, name := range DefaultCategories {
			if err := s.categoryRepo.Create(ctx, &entity.Category{Name: name, SortOrder: i}); err != nil {
				return fmt.Errorf("failed to seed category %q: %w", name, err)
			}
		}
		logger.Info().Int("categories", len(DefaultCategories)).Msg("Seeded default categories")
	}

	itemCount, err := s.itemRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count items: %w", err)
	}
	if itemCount > 0 {
		return nil
	}

	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to get categories: %w", err)
	}
	if len(categories) == 0 {
		return nil
	}

	byName := make(map[string]int64, len(categories))
	for _, c := range categories {
		byName[c.Name] = c.ID
	}
	fallback := byName[DefaultCategories[0]]
	if fallback == 0 {
		fallback = categories[0].ID
	}

	for _, row := range seedItems {
		categoryID := byName[row.CategoryName]
		if categoryID == 0 {
			categoryID = fallback
		}
		item := &entity.Item{
			Name:       row.Name,
			CategoryID: categoryID,
			Flavor:     row.Flavor,
			Price:      row.Price,
			ImageURL:   row.ImageURL,
			Stock:      row.Stock,
		}
		if err := s.itemRepo.Create(ctx, item); err != nil {
			return fmt.Errorf("failed to seed item %q: %w", row.Name, err)
		}
	}
	logger.Info().Int("items", len(seedItems)).Msg("Seeded sample items")

	return nil
}
