package transport

import (
	"net/http"

	"taniku/internal/domain"
	"taniku/internal/middleware"
	"taniku/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CartItemPayload is the client's copy of an item being added to the cart
type CartItemPayload struct {
	ID       int64    `json:"id" validate:"required,gt=0"`
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Image    string   `json:"image"`
	Category string   `json:"category"`
}

type AddToCartRequest struct {
	Item *CartItemPayload `json:"item" validate:"required"`
}

type UpdateCartRequest struct {
	ItemID int64 `json:"itemId" validate:"required,gt=0"`
	Change *int  `json:"change" validate:"required"`
}

// CartResponse wraps the session cart
type CartResponse struct {
	Message string      `json:"message,omitempty"`
	Cart    domain.Cart `json:"cart"`
}

// CartHandler serves the session cart
type CartHandler struct {
	carts  service.CartService
	logger *zap.Logger
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(carts service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{carts: carts, logger: logger}
}

// RegisterRoutes registers the cart routes; all require authentication
func (h *CartHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.Get)
		r.Post("/add", h.Add)
		r.Put("/update", h.Update)
		r.Delete("/remove/{itemId}", h.Remove)
	})
}

func respondWithCart(w http.ResponseWriter, message string, cart domain.Cart) {
	if cart == nil {
		cart = domain.Cart{}
	}
	middleware.RespondWithJSON(w, http.StatusOK, CartResponse{Message: message, Cart: cart})
}

// Get handles GET /api/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	cart, err := h.carts.Get(r.Context(), p.SessionID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load cart")
		return
	}
	respondWithCart(w, "", cart)
}

// Add handles POST /api/cart/add
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req AddToCartRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	line := domain.CartLine{
		ID:       req.Item.ID,
		Name:     req.Item.Name,
		Price:    *req.Item.Price,
		Image:    req.Item.Image,
		Category: domain.Category(req.Item.Category),
	}
	cart, err := h.carts.Add(r.Context(), p.SessionID, line)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to add item to cart")
		return
	}
	respondWithCart(w, line.Name+" added to cart", cart)
}

// Update handles PUT /api/cart/update
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	var req UpdateCartRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	cart, err := h.carts.ChangeQuantity(r.Context(), p.SessionID, req.ItemID, *req.Change)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update cart")
		return
	}
	respondWithCart(w, "cart updated", cart)
}

// Remove handles DELETE /api/cart/remove/{itemId}
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	p, ok := principalFrom(w, r)
	if !ok {
		return
	}
	itemID, ok := idParam(w, r, "itemId")
	if !ok {
		return
	}

	cart, err := h.carts.Remove(r.Context(), p.SessionID, itemID)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to remove item from cart")
		return
	}
	respondWithCart(w, "item removed from cart", cart)
}
