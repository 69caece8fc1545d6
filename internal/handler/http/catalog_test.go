package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jannat-miftahul/plantnet/internal/domain"
	"github.com/jannat-miftahul/plantnet/internal/service"
	"github.com/jannat-miftahul/plantnet/internal/store"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type response struct {
	Data  json.RawMessage `json:"data"`
	Error *errorBody      `json:"error"`
}

type browseBody struct {
	Data           []productResponse `json:"data"`
	TotalCount     int               `json:"total_count"`
	Page           int               `json:"page"`
	PerPage        int               `json:"per_page"`
	TotalPages     int               `json:"total_pages"`
	HasNext        bool              `json:"has_next"`
	CategoryCounts map[string]int    `json:"category_counts"`
}

func newTestRouter(t *testing.T, products []domain.Product, refresh service.RefreshFunc) http.Handler {
	t.Helper()

	st := store.New(domain.DefaultTaxonomy())
	if products != nil {
		st.Replace(products)
	}
	if refresh == nil {
		refresh = func(ctx context.Context) error { return nil }
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.NewCatalogService(st, refresh, logger)
	h := NewCatalogHandler(svc, logger)

	r := chi.NewRouter()
	r.Route("/api/v1/plants", func(r chi.Router) {
		r.Get("/", h.Browse)
		r.Get("/categories", h.Categories)
		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/refresh", h.Refresh)
		})
	})
	return r
}

func testProducts() []domain.Product {
	return []domain.Product{
		{ID: "p1", Name: "Monstera", Category: "Indoor", Price: 45, Quantity: 4, Image: "https://cdn.example.com/monstera.jpg"},
		{ID: "p2", Name: "Lavender", Category: "Outdoor", Price: 120, Quantity: 0},
		{ID: "p3", Name: "Aloe Vera", Category: "Succulent", Price: 25, Quantity: 7},
	}
}

func doBrowse(t *testing.T, router http.Handler, rawQuery string) browseBody {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/?"+rawQuery, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.Nil(t, resp.Error)

	var body browseBody
	require.NoError(t, json.Unmarshal(resp.Data, &body))
	return body
}

func TestBrowse_NoParams(t *testing.T) {
	router := newTestRouter(t, testProducts(), nil)

	body := doBrowse(t, router, "")
	assert.Equal(t, 3, body.TotalCount)
	require.Len(t, body.Data, 3)
	assert.Equal(t, "Monstera", body.Data[0].Name)
	assert.True(t, body.Data[0].InStock)
	assert.False(t, body.Data[1].InStock)
	assert.Equal(t, 3, body.CategoryCounts["all"])
	assert.Equal(t, 1, body.CategoryCounts["indoor"])
}

func TestBrowse_SearchAndFilters(t *testing.T) {
	router := newTestRouter(t, testProducts(), nil)

	body := doBrowse(t, router, "q=aloe")
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Aloe Vera", body.Data[0].Name)

	body = doBrowse(t, router, "category=OUTDOOR")
	require.Len(t, body.Data, 1)
	assert.Equal(t, "Lavender", body.Data[0].Name)

	body = doBrowse(t, router, "price_range=budget")
	require.Len(t, body.Data, 2)

	// Counts stay full-catalog even when a filter narrows the result.
	body = doBrowse(t, router, "category=indoor")
	assert.Equal(t, 1, body.TotalCount)
	assert.Equal(t, 3, body.CategoryCounts["all"])
}

func TestBrowse_Sorting(t *testing.T) {
	router := newTestRouter(t, testProducts(), nil)

	body := doBrowse(t, router, "sort=price-low")
	require.Len(t, body.Data, 3)
	assert.Equal(t, "Aloe Vera", body.Data[0].Name)
	assert.Equal(t, "Lavender", body.Data[2].Name)

	body = doBrowse(t, router, "sort=name-desc")
	assert.Equal(t, "Monstera", body.Data[0].Name)
}

func TestBrowse_UnknownParamsAreForgiven(t *testing.T) {
	router := newTestRouter(t, testProducts(), nil)

	// Unknown sort, category, and price range fall back to defaults
	// rather than failing the request.
	body := doBrowse(t, router, "sort=bogus&price_range=mystery")
	assert.Equal(t, 3, body.TotalCount)
	assert.Equal(t, "Monstera", body.Data[0].Name)

	body = doBrowse(t, router, "category=aquatic")
	assert.Equal(t, 0, body.TotalCount)
	assert.Empty(t, body.Data)
}

func TestBrowse_Pagination(t *testing.T) {
	products := make([]domain.Product, 0, 30)
	for i := 0; i < 30; i++ {
		products = append(products, domain.Product{
			ID:    fmt.Sprintf("p%02d", i),
			Name:  fmt.Sprintf("Plant %02d", i),
			Price: float64(10 + i),
		})
	}
	router := newTestRouter(t, products, nil)

	body := doBrowse(t, router, "page=2&per_page=10")
	assert.Equal(t, 30, body.TotalCount)
	require.Len(t, body.Data, 10)
	assert.Equal(t, "p10", body.Data[0].ID)
	assert.Equal(t, 3, body.TotalPages)
	assert.True(t, body.HasNext)

	// Junk pagination values fall back to defaults.
	body = doBrowse(t, router, "page=banana&per_page=-1")
	assert.Equal(t, 1, body.Page)
	require.Len(t, body.Data, 24)
}

func TestBrowse_EmptyCatalog(t *testing.T) {
	router := newTestRouter(t, nil, nil)

	body := doBrowse(t, router, "q=fern")
	assert.Equal(t, 0, body.TotalCount)
	assert.Empty(t, body.Data)
	assert.Equal(t, 0, body.CategoryCounts["all"])
}

func TestCategories(t *testing.T) {
	router := newTestRouter(t, testProducts(), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plants/categories", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))

	var data struct {
		Categories []categoryResponse `json:"categories"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Categories)

	assert.Equal(t, "all", data.Categories[0].ID)
	assert.Equal(t, "All Plants", data.Categories[0].Name)
	assert.Equal(t, 3, data.Categories[0].Count)
}

func TestRefresh_Accepted(t *testing.T) {
	router := newTestRouter(t, testProducts(), nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plants/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}

func TestRefresh_UpstreamDownReturns503(t *testing.T) {
	router := newTestRouter(t, testProducts(), func(ctx context.Context) error {
		return fmt.Errorf("connection refused")
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plants/refresh", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp response
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "SERVICE_UNAVAILABLE", resp.Error.Code)
}
