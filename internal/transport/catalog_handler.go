package transport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/middleware"
	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/repository"
	"github.com/CastellanosIvan/Sistema-D-Cobro/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ProductView is the wire form of a catalog product. Prices travel as
// fixed two-decimal strings so no client is tempted into float arithmetic.
type ProductView struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Price      string `json:"price"`
	CategoryID int64  `json:"category_id"`
}

// CategoryView is the wire form of a category
type CategoryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CatalogHandler handles HTTP requests for catalog browsing
type CatalogHandler struct {
	registerService service.RegisterService
	logger          *zap.Logger
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(registerService service.RegisterService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		registerService: registerService,
		logger:          logger,
	}
}

// RegisterRoutes registers the catalog routes
func (h *CatalogHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/categories", h.ListCategories)
		r.Get("/categories/{id}/products", h.ListProducts)
	})
}

// ListCategories returns all categories ordered by name
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.registerService.Categories(r.Context())
	if err != nil {
		h.logger.Error("Failed to list categories", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	views := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, CategoryView{ID: c.ID, Name: c.Name})
	}

	middleware.RespondWithJSON(w, http.StatusOK, views)
}

// ListProducts returns the active products of a category ordered by name
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	products, err := h.registerService.Products(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, repository.ErrCategoryNotFound) {
			middleware.RespondWithError(w, http.StatusNotFound, "category not found")
			return
		}
		h.logger.Error("Failed to list products",
			zap.Int64("category_id", categoryID),
			zap.Error(err),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load products")
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, p := range products {
		views = append(views, ProductView{
			ID:         p.ID,
			Name:       p.Name,
			Price:      p.Price.StringFixed(2),
			CategoryID: p.CategoryID,
		})
	}

	middleware.RespondWithJSON(w, http.StatusOK, views)
}
