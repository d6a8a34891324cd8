package service

import (
	"context"
	"strings"

	"taniku/internal/domain"
	"taniku/internal/session"
)

// CartService defines the operations on a session cart. Lines are never
// checked against the catalog here; that happens at checkout.
type CartService interface {
	Get(ctx context.Context, sessionID string) (domain.Cart, error)
	Add(ctx context.Context, sessionID string, line domain.CartLine) (domain.Cart, error)
	ChangeQuantity(ctx context.Context, sessionID string, itemID int64, delta int) (domain.Cart, error)
	Remove(ctx context.Context, sessionID string, itemID int64) (domain.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type cartService struct {
	carts session.CartStore
}

// NewCartService creates a new instance of CartService
func NewCartService(carts session.CartStore) CartService {
	return &cartService{carts: carts}
}

func (s *cartService) Get(ctx context.Context, sessionID string) (domain.Cart, error) {
	if sessionID == "" {
		return nil, ErrNotAuthenticated
	}
	return s.carts.Load(ctx, sessionID)
}

func (s *cartService) Add(ctx context.Context, sessionID string, line domain.CartLine) (domain.Cart, error) {
	if line.ID <= 0 || strings.TrimSpace(line.Name) == "" || line.Price < 0 {
		return nil, ErrInvalidCartItem
	}
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart = cart.Add(line)
	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) ChangeQuantity(ctx context.Context, sessionID string, itemID int64, delta int) (domain.Cart, error) {
	if itemID <= 0 {
		return nil, ErrInvalidCartItem
	}
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart, ok := cart.ChangeQuantity(itemID, delta)
	if !ok {
		return nil, ErrCartLineNotFound
	}
	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) Remove(ctx context.Context, sessionID string, itemID int64) (domain.Cart, error) {
	cart, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cart, ok := cart.Remove(itemID)
	if !ok {
		return nil, ErrCartLineNotFound
	}
	if err := s.carts.Save(ctx, sessionID, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrNotAuthenticated
	}
	return s.carts.Delete(ctx, sessionID)
}
