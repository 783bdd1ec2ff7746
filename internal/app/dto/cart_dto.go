package dto

import (
	"github.com/clothify/storefront-api/internal/domain"
)

// AddItemRequest represents the request to add a product to the cart.
// Size and Color may be empty when the product has none.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// ChangeQuantityRequest applies a delta to a cart line's quantity.
type ChangeQuantityRequest struct {
	Delta int `json:"delta"`
}

// CheckoutRequest carries the shipping selection for checkout and quotes.
type CheckoutRequest struct {
	Destination string `json:"destination"`
	Method      string `json:"method"`
}

// Selection converts the request into a domain shipping selection.
func (r *CheckoutRequest) Selection() domain.ShippingSelection {
	return domain.ShippingSelection{
		Destination: domain.Destination(r.Destination),
		Method:      domain.ShippingMethod(r.Method),
	}
}

// CartLineResponse represents one cart line.
type CartLineResponse struct {
	LineID    string `json:"line_id"`
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

// CartResponse represents the full cart.
type CartResponse struct {
	Lines            []CartLineResponse `json:"lines"`
	TotalItemCount   int                `json:"total_item_count"`
	MerchandiseTotal string             `json:"merchandise_total"`
}

// PricingResponse represents a pricing quote or checkout total.
type PricingResponse struct {
	MerchandiseTotal string `json:"merchandise_total"`
	ShippingCost     string `json:"shipping_cost"`
	Tax              string `json:"tax"`
	GrandTotal       string `json:"grand_total"`
}

// ToCartLineResponse converts a domain CartLine to CartLineResponse
func ToCartLineResponse(l *domain.CartLine) CartLineResponse {
	return CartLineResponse{
		LineID:    l.LineID,
		ProductID: l.Identity.ProductID,
		Size:      l.Identity.Size,
		Color:     l.Identity.Color,
		Name:      l.Name,
		UnitPrice: l.UnitPrice.String(),
		Quantity:  l.Quantity,
		Subtotal:  l.Subtotal().String(),
	}
}

// ToCartResponse converts cart lines to a CartResponse
func ToCartResponse(lines []domain.CartLine) *CartResponse {
	responses := make([]CartLineResponse, len(lines))
	for i := range lines {
		responses[i] = ToCartLineResponse(&lines[i])
	}
	return &CartResponse{
		Lines:            responses,
		TotalItemCount:   domain.TotalItemCount(lines),
		MerchandiseTotal: domain.MerchandiseTotal(lines).String(),
	}
}

// ToPricingResponse converts a domain PricingResult to PricingResponse
func ToPricingResponse(r *domain.PricingResult) *PricingResponse {
	return &PricingResponse{
		MerchandiseTotal: r.MerchandiseTotal.String(),
		ShippingCost:     r.ShippingCost.String(),
		Tax:              r.Tax.String(),
		GrandTotal:       r.GrandTotal.String(),
	}
}
