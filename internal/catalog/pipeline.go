package catalog

import (
	"sort"
	"strconv"
	"strings"

	"storefront-service/internal/models"
)

// Result is the output of one pipeline run. Page is the requested page
// clamped into [1, PageCount]; Items is the slice for that page and
// TotalMatched the pre-pagination match count.
type Result struct {
	Items        []models.Product
	TotalMatched int
	Page         int
	PageCount    int
}

// Apply runs the filter → sort → paginate pipeline over the catalog
// snapshot for the given state. Every stage is a pure function of its
// input; the catalog and the state are never mutated, so the pipeline
// can be re-run on each state change without incremental-update bugs.
func Apply(catalog []models.Product, state QueryState) Result {
	state.Normalize()

	filtered := applyFilters(catalog, state)
	sorted := sortProducts(filtered, state)

	pageCount := (len(sorted) + state.PerPage - 1) / state.PerPage
	if pageCount < 1 {
		pageCount = 1
	}
	page := state.Page
	if page > pageCount {
		page = pageCount
	}

	start := (page - 1) * state.PerPage
	end := start + state.PerPage
	if start > len(sorted) {
		start = len(sorted)
	}
	if end > len(sorted) {
		end = len(sorted)
	}

	return Result{
		Items:        sorted[start:end],
		TotalMatched: len(sorted),
		Page:         page,
		PageCount:    pageCount,
	}
}

func applyFilters(catalog []models.Product, state QueryState) []models.Product {
	query := strings.ToLower(strings.TrimSpace(state.Query))
	minPrice, hasMin := parsePriceBound(state.PriceMin)
	maxPrice, hasMax := parsePriceBound(state.PriceMax)

	out := make([]models.Product, 0, len(catalog))
	for _, p := range catalog {
		if query != "" {
			hay := strings.ToLower(p.Name + " " + p.Brand + " " + p.Sport)
			if !strings.Contains(hay, query) {
				continue
			}
		}
		if len(state.Sports) > 0 && !containsValue(state.Sports, p.Sport) {
			continue
		}
		if len(state.Brands) > 0 && !containsValue(state.Brands, p.Brand) {
			continue
		}
		if state.Category != "" && p.Category != state.Category {
			continue
		}
		if state.Subcategory != "" && p.Subcategory != state.Subcategory {
			continue
		}
		if state.OnlyInStock && !p.InStock {
			continue
		}
		if state.OnlyOutOfStock && p.InStock {
			continue
		}
		if hasMin && p.Price < minPrice {
			continue
		}
		if hasMax && p.Price > maxPrice {
			continue
		}
		if p.Rating < state.RatingMin {
			continue
		}
		out = append(out, p)
	}
	return out
}

// parsePriceBound parses a price bound from its raw form. Empty or
// unparseable bounds mean unbounded.
func parsePriceBound(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// sortProducts returns a stably ordered copy of the filtered set. For
// relevance with an empty query the catalog order is kept as-is; an
// unrecognized sort mode behaves the same way.
func sortProducts(list []models.Product, state QueryState) []models.Product {
	out := make([]models.Product, len(list))
	copy(out, list)

	switch state.Sort {
	case models.SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case models.SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case models.SortRatingDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case models.SortNewest:
		sort.SliceStable(out, func(i, j int) bool { return out[i].AddedAt.After(out[j].AddedAt) })
	case models.SortStockOut:
		// Out-of-stock first.
		sort.SliceStable(out, func(i, j int) bool { return !out[i].InStock && out[j].InStock })
	default:
		if q := strings.ToLower(strings.TrimSpace(state.Query)); q != "" {
			sort.SliceStable(out, func(i, j int) bool {
				return relevanceScore(out[i], q) > relevanceScore(out[j], q)
			})
		}
	}
	return out
}

// relevanceScore ranks a product against a lowercased query: name
// matches dominate, then brand, then sport, with a small rating bonus
// as the final nudge between otherwise equal matches.
func relevanceScore(p models.Product, query string) float64 {
	name := strings.ToLower(p.Name)
	brand := strings.ToLower(p.Brand)
	sport := strings.ToLower(p.Sport)

	var score float64
	switch {
	case strings.HasPrefix(name, query):
		score += 5
	case strings.Contains(name, query):
		score += 3
	}
	switch {
	case strings.HasPrefix(brand, query):
		score += 2
	case strings.Contains(brand, query):
		score += 1
	}
	if strings.Contains(sport, query) {
		score += 0.5
	}
	return score + p.Rating*0.05
}
