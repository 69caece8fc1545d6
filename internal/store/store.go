// Package store holds the in-memory catalog snapshot the query engine reads.
// Each published snapshot is immutable; mutations build a new slice and swap
// it in, so an in-flight query keeps a consistent view.
package store

import (
	"sync"
	"time"

	"github.com/jannat-miftahul/plantnet/internal/domain"
	"github.com/jannat-miftahul/plantnet/internal/query"
)

// Store is a thread-safe holder of the current product snapshot plus the
// per-category counts derived from it.
type Store struct {
	mu          sync.RWMutex
	products    []domain.Product
	index       map[string]int
	counts      map[string]int
	tax         domain.Taxonomy
	updatedAt   time.Time
	hasSnapshot bool
}

// New creates an empty store for the given taxonomy.
func New(tax domain.Taxonomy) *Store {
	s := &Store{tax: tax}
	s.publish(nil)
	s.hasSnapshot = false
	return s
}

// Replace swaps in a full new snapshot, preserving the source order.
// Duplicate ids keep their first position; later records win on content.
func (s *Store) Replace(products []domain.Product) {
	deduped := make([]domain.Product, 0, len(products))
	index := make(map[string]int, len(products))
	for _, p := range products {
		if pos, ok := index[p.ID]; ok {
			deduped[pos] = p
			continue
		}
		index[p.ID] = len(deduped)
		deduped = append(deduped, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(deduped)
}

// Upsert adds or updates a single product. Existing products keep their
// position in the source order; new products are appended, matching the
// upstream feed where new arrivals land at the end.
func (s *Store) Upsert(p domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.Product, len(s.products), len(s.products)+1)
	copy(next, s.products)

	if pos, ok := s.index[p.ID]; ok {
		next[pos] = p
	} else {
		next = append(next, p)
	}
	s.publish(next)
}

// Delete removes a product by id. Unknown ids are a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.index[id]
	if !ok {
		return
	}

	next := make([]domain.Product, 0, len(s.products)-1)
	next = append(next, s.products[:pos]...)
	next = append(next, s.products[pos+1:]...)
	s.publish(next)
}

// publish installs a new snapshot and recomputes the derived state.
// Callers must hold the write lock (or own the store exclusively).
func (s *Store) publish(products []domain.Product) {
	if products == nil {
		products = []domain.Product{}
	}
	index := make(map[string]int, len(products))
	for i, p := range products {
		index[p.ID] = i
	}

	s.products = products
	s.index = index
	s.counts = query.CountByCategory(products, s.tax)
	s.updatedAt = time.Now().UTC()
	s.hasSnapshot = true
}

// Snapshot returns the current published snapshot. Callers must treat the
// returned slice as read-only.
func (s *Store) Snapshot() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.products
}

// Counts returns a copy of the per-category counts over the full snapshot.
func (s *Store) Counts() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int, len(s.counts))
	for k, v := range s.counts {
		counts[k] = v
	}
	return counts
}

// Taxonomy returns the configured taxonomy.
func (s *Store) Taxonomy() domain.Taxonomy {
	return s.tax
}

// Len returns the number of products in the current snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Ready reports whether at least one snapshot has been loaded.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasSnapshot
}

// UpdatedAt returns when the current snapshot was published.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
