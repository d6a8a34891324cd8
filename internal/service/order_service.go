package service

import (
	"context"
	"time"

	"taniku/internal/domain"
	"taniku/internal/metrics"
	"taniku/internal/repository"

	"go.uber.org/zap"
)

// OrderService defines order ledger reads, status changes and deletion
type OrderService interface {
	ListOwn(ctx context.Context, principal domain.Principal) ([]domain.Order, error)
	ListAll(ctx context.Context, search string) ([]domain.Order, error)
	Get(ctx context.Context, principal domain.Principal, id int64) (*domain.Order, error)
	SetStatus(ctx context.Context, id int64, status string) (*domain.Order, error)
	DeleteOwn(ctx context.Context, principal domain.Principal, id int64) error
}

type orderService struct {
	orders  repository.OrderRepository
	metrics *metrics.ShopMetrics
	logger  *zap.Logger
	now     func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(orders repository.OrderRepository, shopMetrics *metrics.ShopMetrics, logger *zap.Logger) OrderService {
	return &orderService{orders: orders, metrics: shopMetrics, logger: logger, now: time.Now}
}

func (s *orderService) ListOwn(ctx context.Context, principal domain.Principal) ([]domain.Order, error) {
	if principal.ID == 0 {
		return nil, ErrNotAuthenticated
	}
	return s.orders.ListByUser(ctx, principal.ID)
}

func (s *orderService) ListAll(ctx context.Context, search string) ([]domain.Order, error) {
	return s.orders.List(ctx, search)
}

func (s *orderService) Get(ctx context.Context, principal domain.Principal, id int64) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != principal.ID && !principal.IsAdmin() {
		return nil, ErrForbidden
	}
	return order, nil
}

// SetStatus moves an order to any known status; there is no transition graph
func (s *orderService) SetStatus(ctx context.Context, id int64, status string) (*domain.Order, error) {
	next, ok := domain.ParseOrderStatus(status)
	if !ok {
		return nil, ErrInvalidStatus
	}

	order, err := s.orders.Update(ctx, id, func(o *domain.Order) error {
		now := s.now().UTC()
		o.Status = next
		o.UpdatedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusChange(string(next))
	s.logger.Info("order status updated",
		zap.Int64("order_id", id),
		zap.String("status", string(next)),
	)
	return order, nil
}

// DeleteOwn removes a completed or cancelled order owned by principal
func (s *orderService) DeleteOwn(ctx context.Context, principal domain.Principal, id int64) error {
	err := s.orders.Delete(ctx, id, func(o *domain.Order) error {
		if o.UserID != principal.ID {
			return ErrForbidden
		}
		if !o.Status.Terminal() {
			return ErrOrderNotDeletable
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("order deleted", zap.Int64("order_id", id), zap.Int64("user_id", principal.ID))
	return nil
}
