package catalog

import (
	"encoding/json"
	"fmt"

	"github.com/clothify/storefront-api/internal/domain"
	"github.com/shopspring/decimal"
)

// wireProduct mirrors the remote source's record shape, which is looser than
// the domain model: sizes may be a single string or an array, and the color
// list appears under either "color" or "colors" depending on source version.
// Both quirks are resolved here, at the ingestion boundary, and nowhere else.
type wireProduct struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Category    string          `json:"category"`
	Gender      string          `json:"gender"`
	Sizes       sizeList        `json:"sizes"`
	Color       []domain.Color  `json:"color"`
	Colors      []domain.Color  `json:"colors"`
	Description string          `json:"description"`
	Material    string          `json:"material"`
}

func (w wireProduct) toDomain() domain.Product {
	sizes := []string(w.Sizes)
	if sizes == nil {
		sizes = []string{}
	}

	colors := w.Colors
	if len(colors) == 0 {
		colors = w.Color
	}
	if colors == nil {
		colors = []domain.Color{}
	}

	return domain.Product{
		ID:          w.ID,
		Name:        w.Name,
		Price:       w.Price,
		Category:    w.Category,
		Gender:      domain.Gender(w.Gender),
		Sizes:       sizes,
		Colors:      colors,
		Description: w.Description,
		Material:    w.Material,
	}
}

// sizeList accepts either a JSON string or an array of strings.
type sizeList []string

func (s *sizeList) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return fmt.Errorf("invalid size value: %w", err)
		}
		*s = sizeList{single}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("invalid sizes list: %w", err)
	}
	*s = sizeList(many)
	return nil
}
