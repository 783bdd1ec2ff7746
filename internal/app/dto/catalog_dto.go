package dto

import (
	"github.com/clothify/storefront-api/internal/domain"
)

// ColorResponse is one selectable color on a product.
type ColorResponse struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       string          `json:"price"`
	Category    string          `json:"category"`
	Gender      string          `json:"gender"`
	Sizes       []string        `json:"sizes"`
	Colors      []ColorResponse `json:"colors"`
	Description string          `json:"description"`
	Material    string          `json:"material,omitempty"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *domain.Product) *ProductResponse {
	colors := make([]ColorResponse, len(p.Colors))
	for i, c := range p.Colors {
		colors[i] = ColorResponse{Name: c.Name, Hex: c.Hex}
	}

	return &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price.String(),
		Category:    p.Category,
		Gender:      string(p.Gender),
		Sizes:       p.Sizes,
		Colors:      colors,
		Description: p.Description,
		Material:    p.Material,
	}
}

// ToProductResponseList converts a list of domain Products to ProductResponse list
func ToProductResponseList(products []domain.Product) []*ProductResponse {
	responses := make([]*ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}
