package domain

import "strings"

// Sort identifiers for catalog queries.
const (
	SortFeatured  = "featured"
	SortNewest    = "newest"
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNameAsc   = "name-asc"
	SortNameDesc  = "name-desc"
)

// ValidSortIDs returns the list of recognized sort identifiers.
func ValidSortIDs() []string {
	return []string{SortFeatured, SortNewest, SortPriceLow, SortPriceHigh, SortNameAsc, SortNameDesc}
}

// IsValidSort checks whether the given sort id is recognized. Unrecognized
// ids are not an error anywhere in the pipeline; they behave as SortFeatured.
func IsValidSort(id string) bool {
	for _, s := range ValidSortIDs() {
		if s == id {
			return true
		}
	}
	return false
}

// QueryParams holds the user-selected search/filter/sort selections for one
// catalog query evaluation. The zero value is not meaningful; use
// DefaultQueryParams (the "clear filters" state) and Normalize.
type QueryParams struct {
	SearchText   string `json:"search_text"`
	CategoryID   string `json:"category_id"`
	PriceRangeID string `json:"price_range_id"`
	SortID       string `json:"sort_id"`
}

// DefaultQueryParams returns the parameters selected at view entry and
// restored by the "clear filters" action.
func DefaultQueryParams() QueryParams {
	return QueryParams{
		SearchText:   "",
		CategoryID:   CategoryAll,
		PriceRangeID: PriceRangeAll,
		SortID:       SortFeatured,
	}
}

// Normalize returns a copy with the search text trimmed, identifiers
// lowercased and trimmed, and empty identifiers replaced by their defaults.
func (p QueryParams) Normalize() QueryParams {
	p.SearchText = strings.TrimSpace(p.SearchText)
	p.CategoryID = strings.ToLower(strings.TrimSpace(p.CategoryID))
	p.PriceRangeID = strings.ToLower(strings.TrimSpace(p.PriceRangeID))
	p.SortID = strings.ToLower(strings.TrimSpace(p.SortID))

	if p.CategoryID == "" {
		p.CategoryID = CategoryAll
	}
	if p.PriceRangeID == "" {
		p.PriceRangeID = PriceRangeAll
	}
	if p.SortID == "" {
		p.SortID = SortFeatured
	}
	return p
}

// HasActiveFilters reports whether any selection differs from the defaults.
func (p QueryParams) HasActiveFilters() bool {
	return p != DefaultQueryParams()
}
