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
	ErrOrderNotFound = errors.New("order not found")
)

// OrderRepository defines the interface for order ledger access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id int64) (*domain.Order, error)
	List(ctx context.Context, search string) ([]domain.Order, error)
	ListByUser(ctx context.Context, userID int64) ([]domain.Order, error)
	// Update applies fn to the stored order; nothing is written when fn fails
	Update(ctx context.Context, id int64, fn func(order *domain.Order) error) (*domain.Order, error)
	// Delete removes the order once guard accepts it
	Delete(ctx context.Context, id int64, guard func(order *domain.Order) error) error
}

type orderRepository struct {
	orders *database.Collection[domain.Order]
	ids    *idgen.Generator
}

// NewOrderRepository creates a new instance of OrderRepository
func NewOrderRepository(orders *database.Collection[domain.Order], ids *idgen.Generator) OrderRepository {
	return &orderRepository{orders: orders, ids: ids}
}

// Create appends the order to the ledger and assigns its id
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	err := r.orders.Update(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for _, existing := range orders {
			r.ids.Observe(existing.ID)
		}
		order.ID = r.ids.Next()
		return append(orders, *order), nil
	})
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// FindByID retrieves an order by id
func (r *orderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	orders, err := r.orders.Load(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find order by ID: %w", err)
	}

	for i := range orders {
		if orders[i].ID == id {
			return &orders[i], nil
		}
	}
	return nil, ErrOrderNotFound
}

// List returns all orders matching search
func (r *orderRepository) List(ctx context.Context, search string) ([]domain.Order, error) {
	orders, err := r.orders.Load(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	filtered := make([]domain.Order, 0, len(orders))
	for _, order := range orders {
		if order.MatchesSearch(search) {
			filtered = append(filtered, order)
		}
	}
	return filtered, nil
}

// ListByUser returns the orders placed by userID
func (r *orderRepository) ListByUser(ctx context.Context, userID int64) ([]domain.Order, error) {
	orders, err := r.orders.Load(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}

	owned := make([]domain.Order, 0)
	for _, order := range orders {
		if order.UserID == userID {
			owned = append(owned, order)
		}
	}
	return owned, nil
}

func (r *orderRepository) Update(ctx context.Context, id int64, fn func(order *domain.Order) error) (*domain.Order, error) {
	var updated domain.Order
	err := r.orders.Update(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i := range orders {
			if orders[i].ID != id {
				continue
			}
			candidate := orders[i]
			if err := fn(&candidate); err != nil {
				return nil, err
			}
			orders[i] = candidate
			updated = candidate
			return orders, nil
		}
		return nil, ErrOrderNotFound
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *orderRepository) Delete(ctx context.Context, id int64, guard func(order *domain.Order) error) error {
	return r.orders.Update(ctx, func(orders []domain.Order) ([]domain.Order, error) {
		for i := range orders {
			if orders[i].ID != id {
				continue
			}
			if guard != nil {
				if err := guard(&orders[i]); err != nil {
					return nil, err
				}
			}
			return append(orders[:i], orders[i+1:]...), nil
		}
		return nil, ErrOrderNotFound
	})
}
