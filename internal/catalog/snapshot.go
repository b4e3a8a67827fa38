package catalog

import (
	"sort"
	"strings"

	"storefront-service/internal/models"
)

// Snapshot is the read-only catalog a session browses against. It is
// built once after load and shared by all sessions; nothing mutates it
// afterwards, so concurrent reads need no locking.
type Snapshot struct {
	products []models.Product
	byID     map[int64]models.Product
}

// NewSnapshot builds a snapshot preserving the order of the loaded
// catalog (the pipeline's "catalog order").
func NewSnapshot(products []models.Product) *Snapshot {
	byID := make(map[int64]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Snapshot{products: products, byID: byID}
}

// Products returns the ordered catalog. Callers must not modify the
// returned slice.
func (s *Snapshot) Products() []models.Product {
	return s.products
}

// Len returns the number of products in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.products)
}

// Lookup resolves a product by id. The second return is false for ids
// that are no longer (or never were) in the snapshot, e.g. stale cart
// references.
func (s *Snapshot) Lookup(id int64) (models.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Sports returns the distinct sports present in the snapshot, sorted.
func (s *Snapshot) Sports() []string {
	return s.distinct(func(p models.Product) string { return p.Sport })
}

// Brands returns the distinct brands present in the snapshot, sorted.
func (s *Snapshot) Brands() []string {
	return s.distinct(func(p models.Product) string { return p.Brand })
}

// PriceRange returns the lowest and highest price in the snapshot.
// Both are zero for an empty catalog.
func (s *Snapshot) PriceRange() (min, max float64) {
	for i, p := range s.products {
		if i == 0 || p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return min, max
}

// Suggestions returns up to limit product names starting with the
// given prefix, case-insensitively, in name order.
func (s *Snapshot) Suggestions(prefix string, limit int) []string {
	if limit <= 0 {
		limit = 10
	}
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" {
		return nil
	}

	seen := make(map[string]bool)
	var names []string
	for _, p := range s.products {
		if !strings.HasPrefix(strings.ToLower(p.Name), prefix) || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	sort.Strings(names)
	if len(names) > limit {
		names = names[:limit]
	}
	return names
}

func (s *Snapshot) distinct(field func(models.Product) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range s.products {
		v := field(p)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
