package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/clothify/storefront-api/internal/app/dto"
	"github.com/clothify/storefront-api/internal/app/service"
	"github.com/clothify/storefront-api/internal/domain"
	"github.com/clothify/storefront-api/internal/infrastructure/http/response"
	"github.com/go-chi/chi/v5"
)

// CartHandler handles HTTP requests for the cart and pricing
type CartHandler struct {
	cart    *service.CartService
	catalog *service.CatalogService
	pricing *service.PricingService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(
	cart *service.CartService,
	catalog *service.CatalogService,
	pricing *service.PricingService,
	logger *slog.Logger,
) *CartHandler {
	return &CartHandler{
		cart:    cart,
		catalog: catalog,
		pricing: pricing,
		logger:  logger,
	}
}

// GetCart handles GET /cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, dto.ToCartResponse(h.cart.Lines()))
}

// ClearCart handles DELETE /cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.cart.Clear(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// AddItem handles POST /cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req dto.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to decode request body",
			slog.String("error", err.Error()),
		)
		response.Error(w, http.StatusBadRequest, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	product, err := h.catalog.GetByID(r.Context(), req.ProductID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			response.Error(w, http.StatusNotFound, err)
		} else {
			response.Error(w, http.StatusBadGateway, err)
		}
		return
	}

	line, err := h.cart.AddItem(r.Context(), product, req.Quantity, req.Size, req.Color)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSizeRequired), errors.Is(err, domain.ErrInvalidQuantity):
			response.Error(w, http.StatusBadRequest, err)
		default:
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusCreated, dto.ToCartLineResponse(&line))
}

// ChangeQuantity handles PATCH /cart/items/{lineID}
func (h *CartHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	var req dto.ChangeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	identity, ok := h.cart.IdentityForLineID(chi.URLParam(r, "lineID"))
	if !ok {
		response.Error(w, http.StatusNotFound, domain.ErrCartLineNotFound)
		return
	}

	if _, err := h.cart.ChangeQuantity(r.Context(), identity, req.Delta); err != nil {
		if errors.Is(err, domain.ErrCartLineNotFound) {
			response.Error(w, http.StatusNotFound, err)
		} else {
			response.Error(w, http.StatusInternalServerError, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, dto.ToCartResponse(h.cart.Lines()))
}

// RemoveItem handles DELETE /cart/items/{lineID}. Removing an unknown line
// is a no-op, matching the cart contract.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if identity, ok := h.cart.IdentityForLineID(chi.URLParam(r, "lineID")); ok {
		h.cart.RemoveItem(r.Context(), identity)
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetQuote handles GET /cart/quote?destination=&method=
func (h *CartHandler) GetQuote(w http.ResponseWriter, r *http.Request) {
	selection := domain.ShippingSelection{
		Destination: domain.Destination(r.URL.Query().Get("destination")),
		Method:      domain.ShippingMethod(r.URL.Query().Get("method")),
	}
	if err := selection.Validate(); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.pricing.ComputeTotals(r.Context(), h.cart.Lines(), selection)
	if err != nil {
		h.pricingError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, dto.ToPricingResponse(&result))
}

// Checkout handles POST /cart/checkout. A successful checkout clears the
// cart; any validation or pricing failure leaves it untouched.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req dto.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, err)
		return
	}

	result, err := h.cart.Checkout(r.Context(), req.Selection())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownDestination), errors.Is(err, domain.ErrUnknownMethod):
			response.Error(w, http.StatusBadRequest, err)
		default:
			h.pricingError(w, err)
		}
		return
	}

	response.JSON(w, http.StatusOK, dto.ToPricingResponse(&result))
}

func (h *CartHandler) pricingError(w http.ResponseWriter, err error) {
	if errors.Is(err, domain.ErrUnknownShippingRate) {
		response.Error(w, http.StatusUnprocessableEntity, err)
		return
	}
	response.Error(w, http.StatusInternalServerError, err)
}
