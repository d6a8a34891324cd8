package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"taniku/internal/database"
	"taniku/internal/domain"
	"taniku/internal/idgen"
	"taniku/internal/metrics"
	"taniku/internal/repository"
	"taniku/internal/session"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "test-secret-key"

type testEnv struct {
	store    *database.Store
	items    repository.ItemRepository
	orders   repository.OrderRepository
	users    repository.UserRepository
	carts    *session.MemoryCartStore
	metrics  *metrics.ShopMetrics
	registry *prometheus.Registry

	catalog  CatalogService
	cart     CartService
	checkout CheckoutService
	ordersvc OrderService
	accounts UserService
}

// newTestEnv wires every service against a seeded store in a temp dir
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := database.Open(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, database.Seed(ctx, store, database.AdminSeed{
		Username: "AdminTaniku",
		Email:    "admin@taniku.com",
		Password: "taniku123",
	}, zap.NewNop()))

	ids := idgen.New()
	env := &testEnv{
		store:    store,
		items:    repository.NewItemRepository(store.Items, ids),
		orders:   repository.NewOrderRepository(store.Orders, ids),
		users:    repository.NewUserRepository(store.Users, ids),
		carts:    session.NewMemoryCartStore(time.Hour),
		registry: prometheus.NewRegistry(),
	}
	env.metrics = metrics.NewShopMetrics(env.registry)
	env.catalog = NewCatalogService(env.items)
	env.cart = NewCartService(env.carts)
	env.checkout = NewCheckoutService(env.carts, env.items, env.orders, env.metrics, zap.NewNop())
	env.ordersvc = NewOrderService(env.orders, env.metrics, zap.NewNop())
	env.accounts = NewUserService(env.users, env.carts, testSecret, time.Hour)
	return env
}

func shopper(id int64, sid string) domain.Principal {
	return domain.Principal{ID: id, Username: "petani", Role: domain.RoleUser, SessionID: sid}
}

func validShipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		ReceiverName:     "Budi",
		ContactPhone:     "08123456789",
		ContactEmail:     "budi@example.com",
		DeliveryAddress:  "Jl. Sawah No. 1",
		DeliveryProvince: "Jawa Barat",
		DeliveryCity:     "Bandung",
		DeliveryDistrict: "Coblong",
	}
}

// failingCartStore wraps a CartStore and fails Delete on demand
type failingCartStore struct {
	session.CartStore
	deleteErr error
}

func (f *failingCartStore) Delete(ctx context.Context, sessionID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	return f.CartStore.Delete(ctx, sessionID)
}

// failingOrderRepository refuses to persist new orders
type failingOrderRepository struct {
	repository.OrderRepository
}

func (failingOrderRepository) Create(context.Context, *domain.Order) error {
	return &database.StoreError{Collection: database.OrdersCollection, Op: "write", Err: errors.New("disk full")}
}
