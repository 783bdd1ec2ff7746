package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dress() *Product {
	return &Product{
		ID:       "F123",
		Name:     "Wrap Dress",
		Price:    decimal.NewFromInt(120),
		Category: "Dresses",
		Gender:   GenderWomens,
		Sizes:    []string{"S", "M"},
		Colors:   []Color{{Name: "Red", Hex: "#c0392b"}, {Name: "Navy", Hex: "#2c3e50"}},
	}
}

func TestFilterState_EmptySelectionMatchesEverything(t *testing.T) {
	filters := NewFilterState()
	assert.True(t, filters.Matches(dress()))
}

func TestFilterState_ANDAcrossFacets(t *testing.T) {
	filters := NewFilterState()
	filters.Add(FacetGender, "womens")
	filters.Add(FacetSize, "L")

	// Gender passes but size does not, so the product fails overall.
	assert.False(t, filters.Matches(dress()))

	filters = NewFilterState()
	filters.Add(FacetGender, "womens")
	filters.Add(FacetSize, "S")
	assert.True(t, filters.Matches(dress()))
}

func TestFilterState_ORWithinFacet(t *testing.T) {
	filters := NewFilterState()
	filters.Add(FacetSize, "XL")
	filters.Add(FacetSize, "M")

	// One of the selected sizes intersects the product's sizes.
	assert.True(t, filters.Matches(dress()))
}

func TestFilterState_ColorFacetUsesColorNames(t *testing.T) {
	filters := NewFilterState()
	filters.Add(FacetColor, "Navy")
	assert.True(t, filters.Matches(dress()))

	filters = NewFilterState()
	filters.Add(FacetColor, "Green")
	assert.False(t, filters.Matches(dress()))
}

func TestFilterState_ProductWithoutColorsFailsColorFilter(t *testing.T) {
	p := dress()
	p.Colors = []Color{}

	filters := NewFilterState()
	filters.Add(FacetColor, "Red")
	assert.False(t, filters.Matches(p))
}

func TestFilterState_CategoryAndGenderFacets(t *testing.T) {
	filters := NewFilterState()
	filters.Add(FacetCategory, "Outerwear")
	assert.False(t, filters.Matches(dress()))

	filters.Add(FacetCategory, "Dresses")
	assert.True(t, filters.Matches(dress()))

	filters.Add(FacetGender, "mens")
	assert.False(t, filters.Matches(dress()))
}

func TestFilterState_RemoveReturnsNewState(t *testing.T) {
	filters := NewFilterState()
	filters.Add(FacetSize, "S")
	filters.Add(FacetSize, "M")
	filters.Add(FacetGender, "womens")

	next := filters.Remove(FacetSize, "S")

	_, stillThere := filters[FacetSize]["S"]
	assert.True(t, stillThere, "original state must not change")

	_, removed := next[FacetSize]["S"]
	assert.False(t, removed)
	_, kept := next[FacetSize]["M"]
	assert.True(t, kept)
	_, otherFacet := next[FacetGender]["womens"]
	assert.True(t, otherFacet)
}

func TestFilterState_Toggle(t *testing.T) {
	filters := NewFilterState()

	filters.Toggle(FacetSize, "M")
	_, ok := filters[FacetSize]["M"]
	assert.True(t, ok)

	filters.Toggle(FacetSize, "M")
	_, ok = filters[FacetSize]["M"]
	assert.False(t, ok)
}

func TestFilterState_Clear(t *testing.T) {
	filters := NewFilterState()
	filters.Add(FacetSize, "M")
	filters.Add(FacetColor, "Red")

	filters.Clear()

	assert.True(t, filters.Matches(dress()))
	assert.Empty(t, filters[FacetSize])
	assert.Empty(t, filters[FacetColor])
}
