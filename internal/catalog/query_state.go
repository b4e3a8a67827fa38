package catalog

import (
	"sort"

	"storefront-service/internal/models"
)

// DefaultPerPage is the page size used when the client does not ask for
// a specific one.
const DefaultPerPage = 12

// QueryState is the complete description of a visitor's current
// filter, sort and pagination intent. It is owned by a session and
// never shared between sessions.
//
// Invariants:
//   - OnlyInStock and OnlyOutOfStock are never both true.
//   - PerPage >= 1 and Page >= 1.
//   - Sports and Brands are kept sorted and deduplicated so that two
//     states selecting the same facets compare equal.
type QueryState struct {
	Query          string
	Sports         []string
	Brands         []string
	PriceMin       string
	PriceMax       string
	RatingMin      float64
	OnlyInStock    bool
	OnlyOutOfStock bool
	Sort           models.SortMode
	PerPage        int
	Page           int
	Category       string
	Subcategory    string
}

// NewQueryState returns a state with all filters cleared and defaults
// applied.
func NewQueryState() QueryState {
	return QueryState{
		Sort:    models.SortRelevance,
		PerPage: DefaultPerPage,
		Page:    1,
	}
}

// Normalize enforces the state invariants in place. Decoded and
// hand-built states go through here before hitting the pipeline.
func (s *QueryState) Normalize() {
	if s.Sort == "" {
		s.Sort = models.SortRelevance
	}
	if s.PerPage < 1 {
		s.PerPage = DefaultPerPage
	}
	if s.Page < 1 {
		s.Page = 1
	}
	if s.RatingMin < 0 {
		s.RatingMin = 0
	}
	if s.OnlyInStock && s.OnlyOutOfStock {
		// In-stock wins; the flags are mutually exclusive.
		s.OnlyOutOfStock = false
	}
	s.Sports = normalizeSet(s.Sports)
	s.Brands = normalizeSet(s.Brands)
}

// SetOnlyInStock flips the in-stock filter, clearing the opposite flag
// when enabled.
func (s *QueryState) SetOnlyInStock(on bool) {
	s.OnlyInStock = on
	if on {
		s.OnlyOutOfStock = false
	}
}

// SetOnlyOutOfStock flips the out-of-stock filter, clearing the
// opposite flag when enabled.
func (s *QueryState) SetOnlyOutOfStock(on bool) {
	s.OnlyOutOfStock = on
	if on {
		s.OnlyInStock = false
	}
}

// ToggleSport adds the sport to the facet set if absent, removes it if
// present.
func (s *QueryState) ToggleSport(sport string) {
	s.Sports = toggleValue(s.Sports, sport)
}

// ToggleBrand adds the brand to the facet set if absent, removes it if
// present.
func (s *QueryState) ToggleBrand(brand string) {
	s.Brands = toggleValue(s.Brands, brand)
}

// ResetFilters clears everything that narrows the result set. Sort
// mode, page size and category navigation survive a reset, matching
// the storefront's reset button.
func (s *QueryState) ResetFilters() {
	s.Query = ""
	s.Sports = nil
	s.Brands = nil
	s.PriceMin = ""
	s.PriceMax = ""
	s.RatingMin = 0
	s.OnlyInStock = false
	s.OnlyOutOfStock = false
	s.Page = 1
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

func toggleValue(values []string, v string) []string {
	if v == "" {
		return values
	}
	for i, existing := range values {
		if existing == v {
			return normalizeSet(append(values[:i], values[i+1:]...))
		}
	}
	return normalizeSet(append(values, v))
}

func containsValue(values []string, v string) bool {
	for _, existing := range values {
		if existing == v {
			return true
		}
	}
	return false
}
