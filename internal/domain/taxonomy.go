package domain

import (
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CategoryAll and PriceRangeAll are the identifiers meaning "no filter".
const (
	CategoryAll   = "all"
	PriceRangeAll = "all"
)

// Category is one entry of the configured storefront category list.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PriceRange is a half-open price interval [Min, Max). The top range is
// unbounded (Max is +Inf).
type PriceRange struct {
	ID    string  `json:"id"`
	Label string  `json:"label"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}

// Contains reports whether the given price falls inside the range.
// The lower bound is inclusive, the upper bound exclusive, so a price
// sitting exactly on a boundary belongs to the upper range.
func (r PriceRange) Contains(price float64) bool {
	return price >= r.Min && price < r.Max
}

// Taxonomy holds the configured category list and price ranges. It is a
// configuration input so catalog taxonomy changes do not require a redeploy.
type Taxonomy struct {
	Categories  []Category
	PriceRanges []PriceRange
}

// displayNames maps well-known category ids to their storefront labels.
var displayNames = map[string]string{
	CategoryAll: "All Plants",
	"indoor":    "Indoor",
	"outdoor":   "Outdoor",
	"succulent": "Succulents",
	"flowering": "Flowering",
	"herbs":     "Herbs",
}

// DefaultPriceRanges returns the storefront price range definitions.
func DefaultPriceRanges() []PriceRange {
	return []PriceRange{
		{ID: PriceRangeAll, Label: "All Prices", Min: 0, Max: math.Inf(1)},
		{ID: "budget", Label: "Under $50", Min: 0, Max: 50},
		{ID: "mid", Label: "$50 - $100", Min: 50, Max: 100},
		{ID: "premium", Label: "$100 - $200", Min: 100, Max: 200},
		{ID: "luxury", Label: "Over $200", Min: 200, Max: math.Inf(1)},
	}
}

// DefaultTaxonomy returns the taxonomy used by the storefront when no
// overrides are configured.
func DefaultTaxonomy() Taxonomy {
	return NewTaxonomy([]string{"indoor", "outdoor", "succulent", "flowering", "herbs"}, DefaultPriceRanges())
}

// NewTaxonomy builds a taxonomy from the configured category ids and price
// ranges. The "all" category is always present and always first. Unknown
// category ids get a title-cased display name.
func NewTaxonomy(categoryIDs []string, priceRanges []PriceRange) Taxonomy {
	titler := cases.Title(language.English)

	categories := []Category{{ID: CategoryAll, Name: displayNames[CategoryAll]}}
	seen := map[string]struct{}{CategoryAll: {}}

	for _, id := range categoryIDs {
		id = strings.ToLower(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		name, ok := displayNames[id]
		if !ok {
			name = titler.String(id)
		}
		categories = append(categories, Category{ID: id, Name: name})
	}

	if len(priceRanges) == 0 {
		priceRanges = DefaultPriceRanges()
	}

	return Taxonomy{Categories: categories, PriceRanges: priceRanges}
}

// PriceRange looks up a price range definition by id.
func (t Taxonomy) PriceRange(id string) (PriceRange, bool) {
	for _, r := range t.PriceRanges {
		if r.ID == id {
			return r, true
		}
	}
	return PriceRange{}, false
}

// CategoryIDs returns the configured category ids, including "all".
func (t Taxonomy) CategoryIDs() []string {
	ids := make([]string, 0, len(t.Categories))
	for _, c := range t.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}
