package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidProductID    = errors.New("product id is required")
	ErrInvalidProductName  = errors.New("product name is required")
	ErrInvalidProductPrice = errors.New("product price must not be negative")
	ErrInvalidGender       = errors.New("gender must be mens or womens")
)

// Gender is the catalog's gender facet value.
type Gender string

const (
	GenderMens   Gender = "mens"
	GenderWomens Gender = "womens"
)

// ParseGender validates a raw gender string from the wire or a query parameter.
func ParseGender(raw string) (Gender, error) {
	switch Gender(raw) {
	case GenderMens, GenderWomens:
		return Gender(raw), nil
	default:
		return "", ErrInvalidGender
	}
}

// Color is one selectable product color.
type Color struct {
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// Product represents one catalog entry. Products are immutable once loaded.
// Sizes and Colors are already normalized to their canonical list shape at
// ingestion; downstream code never branches on wire shape.
type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Gender      Gender          `json:"gender"`
	Sizes       []string        `json:"sizes"`
	Colors      []Color         `json:"colors"`
	Description string          `json:"description"`
	Material    string          `json:"material,omitempty"`
}

// Validate performs business validation on the product
func (p *Product) Validate() error {
	if p.ID == "" {
		return ErrInvalidProductID
	}
	if p.Name == "" {
		return ErrInvalidProductName
	}
	if p.Price.IsNegative() {
		return ErrInvalidProductPrice
	}
	if _, err := ParseGender(string(p.Gender)); err != nil {
		return err
	}
	return nil
}

// HasSizes reports whether a size selection is mandatory for this product.
func (p *Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

// ColorNames returns the product's color names in catalog order.
func (p *Product) ColorNames() []string {
	names := make([]string, len(p.Colors))
	for i, c := range p.Colors {
		names[i] = c.Name
	}
	return names
}
