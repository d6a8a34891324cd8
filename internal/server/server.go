package server

import (
	"context"
	"net/http"
	"time"

	"taniku/internal/config"
	"taniku/internal/database"
	"taniku/internal/idgen"
	"taniku/internal/metrics"
	custommiddleware "taniku/internal/middleware"
	"taniku/internal/repository"
	"taniku/internal/service"
	"taniku/internal/session"
	"taniku/internal/transport"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	*http.Server
	config *config.Config
	logger *zap.Logger
	store  *database.Store
	redis  *redis.Client
}

// NewServer wires the storefront. Carts live in Redis when redisClient is
// non-nil and in process memory otherwise.
func NewServer(cfg *config.Config, logger *zap.Logger, store *database.Store, redisClient *redis.Client) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	shopMetrics := metrics.NewShopMetrics(registry)

	router := chi.NewRouter()
	for _, mw := range custommiddleware.DefaultMiddlewareStack(logger) {
		router.Use(mw)
	}
	router.Use(custommiddleware.MetricsMiddleware(metrics.NewHTTPMetrics(registry)))
	router.Use(custommiddleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(custommiddleware.RequireJSON(logger))

	router.Get("/health", healthHandler(store, redisClient))
	router.Method(http.MethodGet, "/metrics", metrics.Handler(registry))

	// Initialize repositories
	ids := idgen.New()
	itemRepo := repository.NewItemRepository(store.Items, ids)
	orderRepo := repository.NewOrderRepository(store.Orders, ids)
	userRepo := repository.NewUserRepository(store.Users, ids)

	var carts session.CartStore
	var rateLimit func(http.Handler) http.Handler
	if redisClient != nil {
		carts = session.NewRedisCartStore(redisClient, cfg.Session.TTL)
		rateLimit = custommiddleware.RateLimitMiddleware(redisClient, custommiddleware.RateLimitConfig{
			RequestsPerWindow: cfg.RateLimit.Requests,
			Window:            cfg.RateLimit.Window,
			KeyPrefix:         "taniku:ratelimit:auth",
		}, logger)
	} else {
		carts = session.NewMemoryCartStore(cfg.Session.TTL)
	}

	// Initialize services
	userService := service.NewUserService(userRepo, carts, cfg.JWT.Secret, cfg.JWT.Expiry)
	catalogService := service.NewCatalogService(itemRepo)
	cartService := service.NewCartService(carts)
	checkoutService := service.NewCheckoutService(carts, itemRepo, orderRepo, shopMetrics, logger)
	orderService := service.NewOrderService(orderRepo, shopMetrics, logger)

	authMiddleware := custommiddleware.AuthMiddleware(userService, logger)

	// Register routes
	transport.NewUserHandler(userService, rateLimit, logger).RegisterRoutes(router, authMiddleware)
	transport.NewItemHandler(catalogService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewCartHandler(cartService, logger).RegisterRoutes(router, authMiddleware)
	transport.NewOrderHandler(checkoutService, orderService, logger).RegisterRoutes(router, authMiddleware)

	return &Server{
		Server: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router,
			IdleTimeout:  time.Minute,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
		store:  store,
		redis:  redisClient,
	}
}

func healthHandler(store *database.Store, redisClient *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats := store.Health()
		status := http.StatusOK
		if stats["status"] != "up" {
			status = http.StatusServiceUnavailable
		}

		if redisClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), time.Second)
			defer cancel()
			if err := redisClient.Ping(ctx).Err(); err != nil {
				stats["redis"] = "down"
				stats["status"] = "down"
				status = http.StatusServiceUnavailable
			} else {
				stats["redis"] = "up"
			}
		}

		custommiddleware.RespondWithJSON(w, status, stats)
	}
}

func (s *Server) Close() error {
	s.logger.Info("Closing server resources")

	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			s.logger.Error("Failed to close redis connection", zap.Error(err))
		}
	}

	_ = s.logger.Sync()
	return nil
}
