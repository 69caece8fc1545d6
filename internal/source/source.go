// Package source fetches the full product collection from the upstream
// catalog endpoint and coerces its permissive records into the strict
// domain shape. Validation happens once here at the boundary; the query
// engine never re-validates.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/jannat-miftahul/plantnet/internal/domain"
	"github.com/jannat-miftahul/plantnet/pkg/httpclient"
)

// maxResponseBytes bounds the catalog response body (the full feed is small).
const maxResponseBytes = 32 << 20

// Client fetches products from the upstream catalog service.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	logger  *slog.Logger
}

// NewClient creates a product source client for the given upstream base URL.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Fetch retrieves the full, unfiltered product collection. Malformed records
// are dropped here, not propagated: the catalog must keep serving even when
// the upstream feed carries junk rows.
func (c *Client) Fetch(ctx context.Context) ([]domain.Product, error) {
	url := c.baseURL + "/plants"

	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch plants: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch plants: upstream returned status %d: %s", resp.StatusCode, string(body))
	}

	var records []plantRecord
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&records); err != nil {
		return nil, fmt.Errorf("fetch plants: decode response: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	dropped := 0
	for i, rec := range records {
		p, err := rec.coerce()
		if err != nil {
			dropped++
			c.logger.WarnContext(ctx, "dropping malformed plant record",
				slog.Int("position", i),
				slog.String("reason", err.Error()),
			)
			continue
		}
		products = append(products, p)
	}

	if dropped > 0 {
		c.logger.InfoContext(ctx, "catalog fetched with malformed records dropped",
			slog.Int("kept", len(products)),
			slog.Int("dropped", dropped),
		)
	}

	return products, nil
}

// plantRecord mirrors the upstream feed shape. The upstream is a Mongo-backed
// service, so ids arrive as "_id" and numbers occasionally as strings.
type plantRecord struct {
	MongoID  string     `json:"_id"`
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Category string     `json:"category"`
	Price    flexNumber `json:"price"`
	Quantity flexNumber `json:"quantity"`
	Image    string     `json:"image"`
}

// coerce validates and converts a feed record into the strict domain shape.
func (r plantRecord) coerce() (domain.Product, error) {
	id := strings.TrimSpace(r.MongoID)
	if id == "" {
		id = strings.TrimSpace(r.ID)
	}
	if id == "" {
		return domain.Product{}, fmt.Errorf("missing id")
	}

	name := strings.TrimSpace(r.Name)
	if name == "" {
		return domain.Product{}, fmt.Errorf("missing name")
	}

	price, ok := r.Price.value()
	if !ok {
		return domain.Product{}, fmt.Errorf("non-numeric price")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 {
		return domain.Product{}, fmt.Errorf("invalid price %v", price)
	}

	// A missing or negative quantity degrades to out-of-stock rather than
	// dropping the record.
	quantity := 0
	if q, ok := r.Quantity.value(); ok && q > 0 {
		quantity = int(q)
	}

	return domain.Product{
		ID:       id,
		Name:     name,
		Category: strings.TrimSpace(r.Category),
		Price:    price,
		Quantity: quantity,
		Image:    strings.TrimSpace(r.Image),
	}, nil
}

// flexNumber accepts a JSON number, a numeric string, or null.
type flexNumber struct {
	val float64
	ok  bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}
	s = strings.Trim(s, `"`)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Leave the value unset; coerce decides what to do with it.
		return nil
	}
	n.val = v
	n.ok = true
	return nil
}

func (n flexNumber) value() (float64, bool) {
	return n.val, n.ok
}
