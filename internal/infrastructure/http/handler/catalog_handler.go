package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/clothify/storefront-api/internal/app/dto"
	"github.com/clothify/storefront-api/internal/app/service"
	"github.com/clothify/storefront-api/internal/domain"
	"github.com/clothify/storefront-api/internal/infrastructure/http/response"
	"github.com/go-chi/chi/v5"
)

// CatalogHandler handles HTTP requests for the product catalog
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(service *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger,
	}
}

// ListProducts handles GET /products with facet filters and a sort key.
// Facet parameters (gender, category, size, color) repeat for multiple
// selections; an omitted facet imposes no constraint.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	sortKey, err := domain.ParseSortKey(query.Get("sort"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	filters := domain.NewFilterState()
	for _, facet := range domain.Facets {
		for _, value := range query[string(facet)] {
			filters.Add(facet, value)
		}
	}

	products, err := h.service.Load(r.Context())
	if err != nil {
		h.catalogError(w, r, err)
		return
	}

	matched := make([]domain.Product, 0, len(products))
	for i := range products {
		if filters.Matches(&products[i]) {
			matched = append(matched, products[i])
		}
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponseList(domain.SortProducts(matched, sortKey)))
}

// GetProduct handles GET /products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	product, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.catalogError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponse(&product))
}

// GetFeatured handles GET /products/featured
func (h *CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	count := intQueryParam(r, "count", 3)

	products, err := h.service.Featured(r.Context(), count)
	if err != nil {
		h.catalogError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponseList(products))
}

// GetRelated handles GET /products/{id}/related
func (h *CatalogHandler) GetRelated(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	count := intQueryParam(r, "count", 4)

	products, err := h.service.Related(r.Context(), id, count)
	if err != nil {
		h.catalogError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponseList(products))
}

// ListCategories handles GET /genders/{gender}/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	gender, err := domain.ParseGender(chi.URLParam(r, "gender"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	categories, err := h.service.CategoriesForGender(r.Context(), gender)
	if err != nil {
		h.catalogError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, categories)
}

// GetCategoryRepresentative handles GET /genders/{gender}/categories/{category}/representative,
// the product whose image fronts a category card.
func (h *CatalogHandler) GetCategoryRepresentative(w http.ResponseWriter, r *http.Request) {
	gender, err := domain.ParseGender(chi.URLParam(r, "gender"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	product, err := h.service.RepresentativeForCategory(r.Context(), gender, chi.URLParam(r, "category"))
	if err != nil {
		h.catalogError(w, r, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToProductResponse(&product))
}

// catalogError maps service errors onto HTTP statuses.
func (h *CatalogHandler) catalogError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrProductNotFound):
		response.Error(w, http.StatusNotFound, err)
	case errors.Is(err, domain.ErrCatalogUnavailable):
		h.logger.ErrorContext(r.Context(), "Catalog source unavailable",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadGateway, err)
	default:
		response.Error(w, http.StatusInternalServerError, err)
	}
}

func intQueryParam(r *http.Request, name string, defaultValue int) int {
	if raw := r.URL.Query().Get(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return defaultValue
}
