package domain

// Facet is one filterable product attribute.
type Facet string

const (
	FacetGender   Facet = "gender"
	FacetCategory Facet = "category"
	FacetSize     Facet = "size"
	FacetColor    Facet = "color"
)

// Facets lists every known facet in display order.
var Facets = []Facet{FacetGender, FacetCategory, FacetSize, FacetColor}

// FilterState maps each facet to its set of selected values. An empty set
// means the facet imposes no constraint. FilterState is never persisted.
type FilterState map[Facet]map[string]struct{}

// NewFilterState returns a state with no selections.
func NewFilterState() FilterState {
	s := make(FilterState, len(Facets))
	for _, f := range Facets {
		s[f] = make(map[string]struct{})
	}
	return s
}

// Toggle adds the value to the facet's selection when absent and removes it
// when present, mirroring a checkbox.
func (s FilterState) Toggle(facet Facet, value string) {
	set := s[facet]
	if set == nil {
		set = make(map[string]struct{})
		s[facet] = set
	}
	if _, ok := set[value]; ok {
		delete(set, value)
	} else {
		set[value] = struct{}{}
	}
}

// Add selects a value for a facet.
func (s FilterState) Add(facet Facet, value string) {
	if s[facet] == nil {
		s[facet] = make(map[string]struct{})
	}
	s[facet][value] = struct{}{}
}

// Remove returns a new state with the one value removed from the facet's
// selection. The receiver is left untouched so UI controls can diff old
// against new.
func (s FilterState) Remove(facet Facet, value string) FilterState {
	next := NewFilterState()
	for f, set := range s {
		for v := range set {
			if f == facet && v == value {
				continue
			}
			next.Add(f, v)
		}
	}
	return next
}

// Clear drops every selection.
func (s FilterState) Clear() {
	for f := range s {
		s[f] = make(map[string]struct{})
	}
}

// Matches reports whether the product passes the current selection: a facet
// with an empty selection passes unconditionally, a non-empty facet passes
// when at least one of the product's values for it is selected, and the
// product matches overall only when every facet passes.
func (s FilterState) Matches(p *Product) bool {
	if !s.facetPasses(FacetGender, []string{string(p.Gender)}) {
		return false
	}
	if !s.facetPasses(FacetCategory, []string{p.Category}) {
		return false
	}
	if !s.facetPasses(FacetSize, p.Sizes) {
		return false
	}
	if !s.facetPasses(FacetColor, p.ColorNames()) {
		return false
	}
	return true
}

func (s FilterState) facetPasses(facet Facet, values []string) bool {
	set := s[facet]
	if len(set) == 0 {
		return true
	}
	for _, v := range values {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
