package domain

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrSizeRequired       = errors.New("a size selection is required for this product")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrCartLineNotFound   = errors.New("cart line not found")
	ErrUnknownDestination = errors.New("unknown shipping destination")
	ErrUnknownMethod      = errors.New("unknown shipping method")
)

// LineIdentity determines whether two add-to-cart actions merge into one
// line. Size and Color are empty strings when the product has none.
type LineIdentity struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Color     string `json:"color,omitempty"`
}

// CartLine is one cart entry. Name and UnitPrice are snapshots taken when
// the line was created; later catalog price changes never alter them.
// LineID is a generated identifier for the HTTP facade so removal is
// identity-based rather than positional.
type CartLine struct {
	LineID    string          `json:"line_id"`
	Identity  LineIdentity    `json:"identity"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Subtotal is quantity times the snapshot unit price.
func (l *CartLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// MerchandiseTotal sums quantity times unit price across all lines,
// excluding shipping and tax.
func MerchandiseTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for i := range lines {
		total = total.Add(lines[i].Subtotal())
	}
	return total
}

// TotalItemCount sums all line quantities.
func TotalItemCount(lines []CartLine) int {
	count := 0
	for i := range lines {
		count += lines[i].Quantity
	}
	return count
}
