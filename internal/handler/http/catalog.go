package http

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jannat-miftahul/plantnet/internal/domain"
	"github.com/jannat-miftahul/plantnet/internal/service"
	"github.com/jannat-miftahul/plantnet/pkg/httputil"
)

// CatalogHandler handles HTTP requests for catalog endpoints.
type CatalogHandler struct {
	service *service.CatalogService
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(svc *service.CatalogService, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Response DTOs ---

// productResponse is the JSON representation of one catalog plant.
type productResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
	InStock  bool    `json:"in_stock"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
		Quantity: p.Quantity,
		Image:    p.Image,
		InStock:  p.InStock(),
	}
}

// browseResponse is the paginated plant list plus per-category counts over
// the full catalog, so clients can render filter badges without a second call.
type browseResponse struct {
	httputil.PaginatedResponse[productResponse]
	CategoryCounts map[string]int `json:"category_counts"`
}

// categoryResponse is one configured category with its full-catalog count.
type categoryResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// --- Handlers ---

// Browse handles GET /api/v1/plants
//
// All query parameters are optional and forgiving: unknown sort, category,
// or price range values fall back to their defaults instead of failing the
// request, so stale storefront links keep working.
func (h *CatalogHandler) Browse(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	input := service.BrowseInput{
		Params: domain.QueryParams{
			SearchText:   q.Get("q"),
			CategoryID:   q.Get("category"),
			PriceRangeID: q.Get("price_range"),
			SortID:       q.Get("sort"),
		},
	}

	if v := q.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil && page > 0 {
			input.Page = page
		}
	}
	if v := q.Get("per_page"); v != "" {
		if perPage, err := strconv.Atoi(v); err == nil && perPage > 0 {
			input.PerPage = perPage
		}
	}

	result, err := h.service.Browse(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	products := make([]productResponse, 0, len(result.Products))
	for _, p := range result.Products {
		products = append(products, toProductResponse(p))
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: browseResponse{
		PaginatedResponse: httputil.NewPaginatedResponse(products, result.Total, result.Page, result.PerPage),
		CategoryCounts:    result.Counts,
	}})
}

// Categories handles GET /api/v1/plants/categories
func (h *CatalogHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats := h.service.Categories(r.Context())

	resp := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		resp = append(resp, categoryResponse{ID: c.ID, Name: c.Name, Count: c.Count})
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{"categories": resp}})
}

// Refresh handles POST /api/v1/plants/refresh
func (h *CatalogHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusAccepted, httputil.Response{Data: map[string]string{"status": "refreshed"}})
}

// ContentTypeJSON rejects mutating requests that do not declare a JSON body.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 {
			ct := r.Header.Get("Content-Type")
			if !strings.HasPrefix(ct, "application/json") {
				httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.Response{
					Error: &httputil.ErrorResponse{
						Code:    "UNSUPPORTED_MEDIA_TYPE",
						Message: "Content-Type must be application/json",
					},
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
