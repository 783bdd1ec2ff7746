package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortProducts_ByNameIsDefault(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Zip Hoodie"},
		{ID: "2", Name: "Aviator Jacket"},
		{ID: "3", Name: "Linen Shirt"},
	}

	sorted := SortProducts(products, SortByName)

	assert.Equal(t, "Aviator Jacket", sorted[0].Name)
	assert.Equal(t, "Linen Shirt", sorted[1].Name)
	assert.Equal(t, "Zip Hoodie", sorted[2].Name)
}

func TestSortProducts_ByPriceIsNumeric(t *testing.T) {
	products := []Product{
		{ID: "1", Price: decimal.RequireFromString("100")},
		{ID: "2", Price: decimal.RequireFromString("9.5")},
		{ID: "3", Price: decimal.RequireFromString("20")},
	}

	sorted := SortProducts(products, SortByPrice)

	// Numeric order, not lexicographic: 9.5 < 20 < 100.
	assert.Equal(t, []string{"2", "3", "1"}, []string{sorted[0].ID, sorted[1].ID, sorted[2].ID})
}

func TestSortProducts_StableOnEqualKeys(t *testing.T) {
	products := []Product{
		{ID: "b", Name: "B", Price: decimal.NewFromInt(10)},
		{ID: "a", Name: "A", Price: decimal.NewFromInt(10)},
	}

	sorted := SortProducts(products, SortByPrice)

	// Equal prices keep their relative input order.
	assert.Equal(t, "b", sorted[0].ID)
	assert.Equal(t, "a", sorted[1].ID)
}

func TestSortProducts_DoesNotMutateInput(t *testing.T) {
	products := []Product{
		{ID: "1", Name: "Zip Hoodie"},
		{ID: "2", Name: "Aviator Jacket"},
	}

	_ = SortProducts(products, SortByName)

	assert.Equal(t, "Zip Hoodie", products[0].Name)
	assert.Equal(t, "Aviator Jacket", products[1].Name)
}

func TestSortProducts_ByCategory(t *testing.T) {
	products := []Product{
		{ID: "1", Category: "Shoes"},
		{ID: "2", Category: "Accessories"},
		{ID: "3", Category: "Dresses"},
	}

	sorted := SortProducts(products, SortByCategory)

	assert.Equal(t, "Accessories", sorted[0].Category)
	assert.Equal(t, "Dresses", sorted[1].Category)
	assert.Equal(t, "Shoes", sorted[2].Category)
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByName, key)

	key, err = ParseSortKey("price")
	require.NoError(t, err)
	assert.Equal(t, SortByPrice, key)

	_, err = ParseSortKey("popularity")
	assert.ErrorIs(t, err, ErrInvalidSortKey)
}
