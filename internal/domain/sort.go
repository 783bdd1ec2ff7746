package domain

import (
	"errors"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

var ErrInvalidSortKey = errors.New("sort key must be name, price, or category")

// SortKey selects which product attribute orders a display list.
type SortKey string

const (
	SortByName     SortKey = "name"
	SortByPrice    SortKey = "price"
	SortByCategory SortKey = "category"
)

// ParseSortKey validates a raw sort key, defaulting to name when empty.
func ParseSortKey(raw string) (SortKey, error) {
	switch SortKey(raw) {
	case "":
		return SortByName, nil
	case SortByName, SortByPrice, SortByCategory:
		return SortKey(raw), nil
	default:
		return "", ErrInvalidSortKey
	}
}

// SortProducts returns a new slice ordered by the given key, ascending.
// The input is never mutated and the sort is stable: products with equal
// keys keep their relative input order. String keys use locale-aware
// ordering rather than byte comparison.
func SortProducts(products []Product, key SortKey) []Product {
	sorted := make([]Product, len(products))
	copy(sorted, products)

	// Collators are not safe for concurrent use, so each sort gets its own.
	sortCollator := collate.New(language.English)

	var less func(a, b *Product) bool
	switch key {
	case SortByPrice:
		less = func(a, b *Product) bool { return a.Price.LessThan(b.Price) }
	case SortByCategory:
		less = func(a, b *Product) bool { return sortCollator.CompareString(a.Category, b.Category) < 0 }
	default:
		less = func(a, b *Product) bool { return sortCollator.CompareString(a.Name, b.Name) < 0 }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(&sorted[i], &sorted[j])
	})
	return sorted
}
