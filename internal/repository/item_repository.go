package repository

import (
	"context"
	"errors"
	"fmt"

	"taniku/internal/database"
	"taniku/internal/domain"
	"taniku/internal/idgen"
)

var (
	ErrItemNotFound = errors.New("item not found")
)

// ItemRepository defines the interface for catalog data access
type ItemRepository interface {
	Create(ctx context.Context, item *domain.Item) error
	Update(ctx context.Context, item *domain.Item) error
	Delete(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Item, error)
	List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
}

type itemRepository struct {
	items *database.Collection[domain.Item]
	ids   *idgen.Generator
}

// NewItemRepository creates a new instance of ItemRepository
func NewItemRepository(items *database.Collection[domain.Item], ids *idgen.Generator) ItemRepository {
	return &itemRepository{items: items, ids: ids}
}

// Create appends a new item and assigns its id
func (r *itemRepository) Create(ctx context.Context, item *domain.Item) error {
	err := r.items.Update(ctx, func(items []domain.Item) ([]domain.Item, error) {
		for _, existing := range items {
			r.ids.Observe(existing.ID)
		}
		item.ID = r.ids.Next()
		return append(items, *item), nil
	})
	if err != nil {
		return fmt.Errorf("failed to create item: %w", err)
	}
	return nil
}

// Update replaces the stored item that has the same id
func (r *itemRepository) Update(ctx context.Context, item *domain.Item) error {
	err := r.items.Update(ctx, func(items []domain.Item) ([]domain.Item, error) {
		for i := range items {
			if items[i].ID == item.ID {
				items[i] = *item
				return items, nil
			}
		}
		return nil, ErrItemNotFound
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// Delete removes an item from the catalog
func (r *itemRepository) Delete(ctx context.Context, id int64) error {
	err := r.items.Update(ctx, func(items []domain.Item) ([]domain.Item, error) {
		for i := range items {
			if items[i].ID == id {
				return append(items[:i], items[i+1:]...), nil
			}
		}
		return nil, ErrItemNotFound
	})
	if err != nil {
		if errors.Is(err, ErrItemNotFound) {
			return ErrItemNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

// FindByID retrieves an item by id
func (r *itemRepository) FindByID(ctx context.Context, id int64) (*domain.Item, error) {
	items, err := r.items.Load(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find item by ID: %w", err)
	}

	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

// List returns the items that pass filter, in stored order
func (r *itemRepository) List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	items, err := r.items.Load(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	filtered := make([]domain.Item, 0, len(items))
	for _, item := range items {
		if filter.Matches(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}
