package transport

import (
	"net/http"

	"taniku/internal/domain"
	"taniku/internal/middleware"
	"taniku/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ItemRequest is the body of item create and update. Update is a full
// replace, so an omitted originalPrice clears it.
type ItemRequest struct {
	Category      string   `json:"category" validate:"required"`
	Name          string   `json:"name" validate:"required"`
	Price         *float64 `json:"price" validate:"required,gte=0"`
	Description   string   `json:"description"`
	Image         string   `json:"image"`
	OriginalPrice *float64 `json:"originalPrice" validate:"omitempty,gte=0"`
	Badge         string   `json:"badge"`
}

func (req ItemRequest) input() service.ItemInput {
	return service.ItemInput{
		Category:      req.Category,
		Name:          req.Name,
		Price:         req.Price,
		Description:   req.Description,
		Image:         req.Image,
		OriginalPrice: req.OriginalPrice,
		Badge:         req.Badge,
	}
}

// ItemResponse wraps a single item
type ItemResponse struct {
	Message string       `json:"message"`
	Item    *domain.Item `json:"item"`
}

// ItemHandler serves the catalog
type ItemHandler struct {
	catalog service.CatalogService
	logger  *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(catalog service.CatalogService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{catalog: catalog, logger: logger}
}

// RegisterRoutes registers the catalog routes; mutations are admin only
func (h *ItemHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/items", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin(h.logger))
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

// List handles GET /api/items?category=&search=
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.ItemFilter{
		Category: r.URL.Query().Get("category"),
		Search:   r.URL.Query().Get("search"),
	}
	items, err := h.catalog.List(r.Context(), filter)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load items")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	item, err := h.catalog.Get(r.Context(), id)
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to load item")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, item)
}

// Create handles POST /api/items
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	item, err := h.catalog.Create(r.Context(), req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to create item")
		return
	}

	h.logger.Info("Item created", zap.Int64("item_id", item.ID), zap.String("category", string(item.Category)))
	middleware.RespondWithJSON(w, http.StatusCreated, ItemResponse{Message: "item created", Item: item})
}

// Update handles PUT /api/items/{id}
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req ItemRequest
	if !decodeRequest(w, r, h.logger, &req) {
		return
	}

	item, err := h.catalog.Update(r.Context(), id, req.input())
	if err != nil {
		respondWithServiceError(w, h.logger, err, "failed to update item")
		return
	}

	h.logger.Info("Item updated", zap.Int64("item_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, ItemResponse{Message: "item updated", Item: item})
}

// Delete handles DELETE /api/items/{id}
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		respondWithServiceError(w, h.logger, err, "failed to delete item")
		return
	}

	h.logger.Info("Item deleted", zap.Int64("item_id", id))
	middleware.RespondWithJSON(w, http.StatusOK, MessageResponse{Message: "item deleted"})
}
