// Package query implements the storefront catalog query pipeline: free-text
// search, category and price-range filtering, sorting, and per-category
// counts. All functions are pure; they never mutate their inputs and never
// fail, so calling them twice with the same snapshot yields identical output.
package query

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jannat-miftahul/plantnet/internal/domain"
)

// Evaluate applies the query parameters to the product collection and returns
// the filtered, sorted view. The steps run in a fixed order: search filter,
// category filter, price filter, then sort. Counts are not part of the result;
// they always come from the unfiltered collection via CountByCategory.
//
// Params are expected to be normalized (see domain.QueryParams.Normalize).
func Evaluate(products []domain.Product, params domain.QueryParams, tax domain.Taxonomy) []domain.Product {
	result := filterSearch(products, params.SearchText)
	result = filterCategory(result, params.CategoryID)
	result = filterPrice(result, params.PriceRangeID, tax)
	sortProducts(result, params.SortID)
	return result
}

// CountByCategory computes, for every configured category including "all",
// the number of products in the full, unfiltered collection matching it.
// Matching is a case-insensitive exact match on the product category.
func CountByCategory(products []domain.Product, tax domain.Taxonomy) map[string]int {
	counts := make(map[string]int, len(tax.Categories))
	for _, c := range tax.Categories {
		counts[c.ID] = 0
	}
	counts[domain.CategoryAll] = len(products)

	for _, p := range products {
		id := strings.ToLower(p.Category)
		if id == domain.CategoryAll {
			continue
		}
		if _, ok := counts[id]; ok {
			counts[id]++
		}
	}
	return counts
}

// filterSearch retains products whose name or category contains the trimmed
// search text as a case-insensitive substring. An empty search text means no
// filter. It always returns a fresh slice so later steps can sort in place.
func filterSearch(products []domain.Product, searchText string) []domain.Product {
	needle := strings.ToLower(strings.TrimSpace(searchText))

	result := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// filterCategory retains products whose category equals the selected id under
// a case-insensitive exact match. "all" means no filter.
func filterCategory(products []domain.Product, categoryID string) []domain.Product {
	if categoryID == domain.CategoryAll {
		return products
	}

	result := products[:0]
	for _, p := range products {
		if strings.EqualFold(p.Category, categoryID) {
			result = append(result, p)
		}
	}
	return result
}

// filterPrice retains products whose price falls in the selected half-open
// range. "all" and unknown range ids mean no filter.
func filterPrice(products []domain.Product, rangeID string, tax domain.Taxonomy) []domain.Product {
	if rangeID == domain.PriceRangeAll {
		return products
	}
	r, ok := tax.PriceRange(rangeID)
	if !ok {
		return products
	}

	result := products[:0]
	for _, p := range products {
		if r.Contains(p.Price) {
			result = append(result, p)
		}
	}
	return result
}

// sortProducts orders the filtered products in place according to the sort id.
// All orderings are stable: ties preserve the relative filtered order.
// Unrecognized ids behave as "featured" (keep the filtered order).
func sortProducts(products []domain.Product, sortID string) {
	switch sortID {
	case domain.SortPriceLow:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case domain.SortPriceHigh:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price > products[j].Price
		})
	case domain.SortNameAsc:
		c := newNameCollator()
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[i].Name, products[j].Name) < 0
		})
	case domain.SortNameDesc:
		c := newNameCollator()
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[i].Name, products[j].Name) > 0
		})
	case domain.SortNewest:
		// Newest arrivals sit at the end of the source feed, so "newest"
		// is the reverse of the filtered order.
		for i, j := 0, len(products)-1; i < j; i, j = i+1, j-1 {
			products[i], products[j] = products[j], products[i]
		}
	default:
		// SortFeatured or unknown: keep the filtered order.
	}
}

// newNameCollator returns a collator for locale-aware name comparison.
// Collators are not safe for concurrent use, so each sort gets its own.
func newNameCollator() *collate.Collator {
	return collate.New(language.English, collate.Loose)
}
