package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taniku/internal/domain"
	"taniku/internal/metrics"
	"taniku/internal/repository"
	"taniku/internal/session"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CheckoutService turns a session cart into an order
type CheckoutService interface {
	Checkout(ctx context.Context, principal domain.Principal, shipping domain.ShippingDetails) (*domain.Order, error)
}

type checkoutService struct {
	carts   session.CartStore
	items   repository.ItemRepository
	orders  repository.OrderRepository
	metrics *metrics.ShopMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewCheckoutService creates a new instance of CheckoutService
func NewCheckoutService(
	carts session.CartStore,
	items repository.ItemRepository,
	orders repository.OrderRepository,
	shopMetrics *metrics.ShopMetrics,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		carts:   carts,
		items:   items,
		orders:  orders,
		metrics: shopMetrics,
		logger:  logger,
		now:     time.Now,
	}
}

// requiredShippingFields returns the mandatory shipping fields in validation order
func requiredShippingFields(s domain.ShippingDetails) []struct{ name, value string } {
	return []struct{ name, value string }{
		{"receiverName", s.ReceiverName},
		{"contactPhone", s.ContactPhone},
		{"contactEmail", s.ContactEmail},
		{"deliveryAddress", s.DeliveryAddress},
		{"deliveryProvince", s.DeliveryProvince},
		{"deliveryCity", s.DeliveryCity},
		{"deliveryDistrict", s.DeliveryDistrict},
	}
}

// ValidateShipping reports the first blank mandatory field
func ValidateShipping(s domain.ShippingDetails) error {
	for _, f := range requiredShippingFields(s) {
		if strings.TrimSpace(f.value) == "" {
			return fmt.Errorf("%w: %s", ErrMissingShippingField, f.name)
		}
	}
	return nil
}

func (s *checkoutService) Checkout(ctx context.Context, principal domain.Principal, shipping domain.ShippingDetails) (*domain.Order, error) {
	order, err := s.placeOrder(ctx, principal, shipping)
	if err != nil {
		s.metrics.IncCheckoutFailure(failureReason(err))
		return nil, err
	}
	s.metrics.ObserveOrder(order.TotalAmount)

	// the order is durable at this point; a stale cart is only a nuisance
	if err := s.carts.Delete(ctx, principal.SessionID); err != nil {
		s.logger.Warn("failed to clear cart after checkout",
			zap.Int64("order_id", order.ID),
			zap.String("session_id", principal.SessionID),
			zap.Error(err),
		)
	}

	s.logger.Info("order placed",
		zap.Int64("order_id", order.ID),
		zap.Int64("user_id", order.UserID),
		zap.Float64("total_amount", order.TotalAmount),
		zap.Int("lines", len(order.Items)),
	)
	return order, nil
}

func (s *checkoutService) placeOrder(ctx context.Context, principal domain.Principal, shipping domain.ShippingDetails) (*domain.Order, error) {
	if principal.ID == 0 || principal.SessionID == "" {
		return nil, ErrNotAuthenticated
	}

	cart, err := s.carts.Load(ctx, principal.SessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}
	if err := ValidateShipping(shipping); err != nil {
		return nil, err
	}

	catalog, err := s.items.List(ctx, domain.ItemFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	byID := make(map[int64]domain.Item, len(catalog))
	for _, item := range catalog {
		byID[item.ID] = item
	}

	lines := make([]domain.OrderLine, 0, len(cart))
	total := decimal.Zero
	for _, cl := range cart {
		item, ok := byID[cl.ID]
		if !ok {
			return nil, &MissingItemError{ItemID: cl.ID}
		}
		lines = append(lines, domain.OrderLine{
			ItemID:   item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: cl.Quantity,
			Category: item.Category,
		})
		total = total.Add(decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(cl.Quantity))))
	}

	order := &domain.Order{
		UserID:          principal.ID,
		Username:        principal.Username,
		ShippingDetails: shipping,
		Items:           lines,
		TotalAmount:     total.Round(2).InexactFloat64(),
		Status:          domain.OrderStatusPending,
		PaymentMethod:   domain.PaymentMethodCOD,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}
	return order, nil
}

func failureReason(err error) string {
	var missing *MissingItemError
	switch {
	case errors.Is(err, ErrEmptyCart):
		return "empty_cart"
	case errors.Is(err, ErrMissingShippingField):
		return "missing_shipping"
	case errors.As(err, &missing):
		return "missing_item"
	case errors.Is(err, ErrNotAuthenticated):
		return "unauthenticated"
	default:
		return "store"
	}
}
