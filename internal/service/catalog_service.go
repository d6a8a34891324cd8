package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taniku/internal/domain"
	"taniku/internal/repository"
)

// ItemInput carries the admin-editable fields of an item. A nil OriginalPrice
// clears the field on both create and update.
type ItemInput struct {
	Category      string
	Name          string
	Price         *float64
	Description   string
	Image         string
	OriginalPrice *float64
	Badge         string
}

// CatalogService defines catalog reads and admin mutations
type CatalogService interface {
	List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error)
	Get(ctx context.Context, id int64) (*domain.Item, error)
	Create(ctx context.Context, in ItemInput) (*domain.Item, error)
	Update(ctx context.Context, id int64, in ItemInput) (*domain.Item, error)
	Delete(ctx context.Context, id int64) error
}

type catalogService struct {
	items repository.ItemRepository
	now   func() time.Time
}

// NewCatalogService creates a new instance of CatalogService
func NewCatalogService(items repository.ItemRepository) CatalogService {
	return &catalogService{items: items, now: time.Now}
}

func (s *catalogService) List(ctx context.Context, filter domain.ItemFilter) ([]domain.Item, error) {
	return s.items.List(ctx, filter)
}

func (s *catalogService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	return s.items.FindByID(ctx, id)
}

// apply validates in and copies it onto item
func (in ItemInput) apply(item *domain.Item) error {
	category, ok := domain.ParseCategory(in.Category)
	if !ok {
		return ErrInvalidCategory
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return ErrInvalidItemName
	}
	if in.Price == nil || *in.Price < 0 {
		return ErrInvalidPrice
	}
	if in.OriginalPrice != nil && *in.OriginalPrice < 0 {
		return fmt.Errorf("%w: original price must be a non-negative number", ErrValidation)
	}

	item.Category = category
	item.Name = name
	item.Price = *in.Price
	item.Description = in.Description
	item.Image = strings.TrimSpace(in.Image)
	if item.Image == "" {
		item.Image = domain.DefaultItemImage
	}
	item.OriginalPrice = nil
	if in.OriginalPrice != nil {
		v := *in.OriginalPrice
		item.OriginalPrice = &v
	}
	item.Badge = in.Badge
	return nil
}

func (s *catalogService) Create(ctx context.Context, in ItemInput) (*domain.Item, error) {
	item := &domain.Item{}
	if err := in.apply(item); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item.CreatedAt = &now

	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogService) Update(ctx context.Context, id int64, in ItemInput) (*domain.Item, error) {
	existing, err := s.items.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	item := &domain.Item{ID: id, CreatedAt: existing.CreatedAt}
	if err := in.apply(item); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	item.UpdatedAt = &now

	if err := s.items.Update(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *catalogService) Delete(ctx context.Context, id int64) error {
	return s.items.Delete(ctx, id)
}
