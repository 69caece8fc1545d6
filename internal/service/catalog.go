package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jannat-miftahul/plantnet/internal/domain"
	"github.com/jannat-miftahul/plantnet/internal/query"
	"github.com/jannat-miftahul/plantnet/internal/store"
	apperrors "github.com/jannat-miftahul/plantnet/pkg/errors"
)

// Pagination defaults for the browse endpoint. The query engine itself
// always evaluates the full view; pagination is a transport concern.
const (
	defaultPerPage = 24
	maxPerPage     = 100
)

// RefreshFunc forces a snapshot refresh from the upstream source.
type RefreshFunc func(ctx context.Context) error

// CatalogService implements the business logic for storefront catalog queries.
type CatalogService struct {
	store   *store.Store
	refresh RefreshFunc
	logger  *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(st *store.Store, refresh RefreshFunc, logger *slog.Logger) *CatalogService {
	return &CatalogService{
		store:   st,
		refresh: refresh,
		logger:  logger,
	}
}

// BrowseInput holds the parameters for one catalog browse request.
type BrowseInput struct {
	Params  domain.QueryParams
	Page    int
	PerPage int
}

// BrowseResult is the evaluated catalog view.
type BrowseResult struct {
	Products []domain.Product
	Total    int
	Page     int
	PerPage  int
	Counts   map[string]int
}

// Browse evaluates the query parameters against the current snapshot and
// returns the filtered, sorted page plus the per-category counts over the
// full catalog. An empty result is a valid outcome, never an error.
func (s *CatalogService) Browse(ctx context.Context, input BrowseInput) (*BrowseResult, error) {
	params := input.Params.Normalize()

	page := input.Page
	if page < 1 {
		page = 1
	}
	perPage := input.PerPage
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	snapshot := s.store.Snapshot()
	filtered := query.Evaluate(snapshot, params, s.store.Taxonomy())
	total := len(filtered)

	offset := (page - 1) * perPage
	if offset > total {
		offset = total
	}
	end := offset + perPage
	if end > total {
		end = total
	}

	s.logger.DebugContext(ctx, "catalog browse evaluated",
		slog.String("search", params.SearchText),
		slog.String("category", params.CategoryID),
		slog.String("price_range", params.PriceRangeID),
		slog.String("sort", params.SortID),
		slog.Int("total", total),
	)

	return &BrowseResult{
		Products: filtered[offset:end],
		Total:    total,
		Page:     page,
		PerPage:  perPage,
		Counts:   s.store.Counts(),
	}, nil
}

// CategoryCount is one configured category with its full-catalog count.
type CategoryCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Categories returns the configured category list with counts over the
// unfiltered catalog, in configuration order ("all" first).
func (s *CatalogService) Categories(ctx context.Context) []CategoryCount {
	counts := s.store.Counts()
	tax := s.store.Taxonomy()

	result := make([]CategoryCount, 0, len(tax.Categories))
	for _, c := range tax.Categories {
		result = append(result, CategoryCount{
			ID:    c.ID,
			Name:  c.Name,
			Count: counts[c.ID],
		})
	}
	return result
}

// Refresh forces a full snapshot refresh from the upstream source.
func (s *CatalogService) Refresh(ctx context.Context) error {
	if err := s.refresh(ctx); err != nil {
		if s.store.Ready() {
			// A stale snapshot keeps serving; surface the failure to the caller.
			return apperrors.Unavailable(fmt.Sprintf("catalog refresh failed, serving snapshot from %s", s.store.UpdatedAt().Format("2006-01-02T15:04:05Z07:00")))
		}
		return apperrors.Unavailable("catalog refresh failed and no snapshot is loaded")
	}
	return nil
}

// Ready reports whether a catalog snapshot is loaded, for readiness checks.
func (s *CatalogService) Ready(ctx context.Context) error {
	if !s.store.Ready() {
		return fmt.Errorf("no catalog snapshot loaded")
	}
	return nil
}
