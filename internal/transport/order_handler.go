package transport

import (
	"net/http"

	"taniku/internal/domain"
	"taniku/internal/middleware"
	"taniku/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CheckoutRequest carries the shipping details. Blank values are rejected by
// the checkout service with the offending field name.
type CheckoutRequest struct {
	ReceiverName     string `json:"receiverName" validate:"required"`
	ContactPhone     string `json:"contactPhone" validate:"required"`
	ContactEmail     string `json:"contactEmail" validate:"required"`
	DeliveryAddress  string `json:"deliveryAddress" validate:"required"`
	DeliveryProvince string `json:"deliveryProvince" validate:"required"`
	DeliveryCity     string `json:"deliveryCity" validate:"required"`
	DeliveryDistrict string `json:"deliveryDistrict" validate:"required"`
	Notes            string `json:"notes"`
}

func (req CheckoutRequest) shipping() domain.ShippingDetails {
	return domain.ShippingDetails{
		ReceiverName:     req.ReceiverName,
		ContactPhone:     req.ContactPhone,
		ContactEmail:     req.ContactEmail,
		DeliveryAddress:  req.DeliveryAddress,
		DeliveryProvince: req.DeliveryProvince,
		DeliveryCity:     req.DeliveryCity,
		DeliveryDistrict: req.DeliveryDistrict,
		Notes:            req.Notes,
	}
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// OrderResponse wraps a single order
type OrderResponse struct {
	Message string        `json:"message"`
	Order   *domain.Order `json:"order"`
}

// OrderHandler serves checkout and the order ledger
type OrderHandler struct {
	checkout service.CheckoutService
	orders   service.OrderService
	logger   *zap.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkout service.CheckoutService, orders service.OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{checkout: checkout, orders: orders, logger: logger}
}

// RegisterRoutes registers checkout and order routes
func (h *OrderHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/api/checkout", h.Checkout)

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", h.ListOwn)
			r.Get("/{id}", h.Get)
			r.Delete("/{id}", h.Delete)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireAdmin(h.logger))
				r.Get("/all", h.ListAll)
				r.Put("/{id}/status", h.SetStatus)
			})
		})
	})
}

// Checkout handles POST /api/checkout
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req CheckoutRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	order, err := h.checkout.Checkout(r.Context(), p, req.shipping())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to place order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusCreated, OrderResponse{Message: "order placed", Order: order})
}

func respondWithOrders(w http.ResponseWriter, orders []domain.Order) {
	if orders == nil {
		orders = []domain.Order{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, orders)
}

// ListOwn handles GET /api/orders
func (h *OrderHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	orders, err := h.orders.ListOwn(r.Context(), p)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load orders")
		return
	}
	respondWithOrders(w, orders)
}

// ListAll handles GET /api/orders/all?search=
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load orders")
		return
	}
	respondWithOrders(w, orders)
}

// Get handles GET /api/orders/{id}
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(r.Context(), p, id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, order)
}

// SetStatus handles PUT /api/orders/{id}/status
func (h *OrderHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req StatusRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	order, err := h.orders.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update order status")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, OrderResponse{Message: "order status updated", Order: order})
}

// Delete handles DELETE /api/orders/{id}
func (h *OrderHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.orders.DeleteOwn(r.Context(), p, id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete order")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "order deleted"})
}
