package domain

import (
	"strings"
	"time"
)

// Category is one of the fixed catalog sections
type Category string

const (
	CategorySeed       Category = "benih"
	CategorySeedling   Category = "bibit"
	CategoryFertilizer Category = "pupuk"
	CategoryPesticide  Category = "pestisida"
	CategoryTool       Category = "alat"
)

// Categories lists every valid category in display order
var Categories = []Category{
	CategorySeed,
	CategorySeedling,
	CategoryFertilizer,
	CategoryPesticide,
	CategoryTool,
}

// ParseCategory normalizes s and reports whether it names a known category
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// DefaultItemImage is used when an item is saved without an image
const DefaultItemImage = "https://placehold.co/300x200?text=TANIKU"

// Item represents a purchasable product in the catalog
type Item struct {
	ID            int64      `json:"id"`
	Category      Category   `json:"category"`
	Name          string     `json:"name"`
	Price         float64    `json:"price"`
	Description   string     `json:"description"`
	Image         string     `json:"image"`
	OriginalPrice *float64   `json:"originalPrice,omitempty"`
	Badge         string     `json:"badge,omitempty"`
	CreatedAt     *time.Time `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
}

// ItemFilter narrows a catalog listing; empty fields match everything
type ItemFilter struct {
	Category string
	Search   string
}

// Matches reports whether the item passes the filter
func (f ItemFilter) Matches(item Item) bool {
	if f.Category != "" && !strings.EqualFold(string(item.Category), strings.TrimSpace(f.Category)) {
		return false
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		return strings.Contains(strings.ToLower(item.Name), term) ||
			strings.Contains(strings.ToLower(item.Description), term)
	}
	return true
}
