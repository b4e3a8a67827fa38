package catalog

import (
	"net/url"
	"strconv"
	"strings"

	"storefront-service/internal/models"
)

// URL query keys. These form the shareable deep-link format and must
// stay stable across releases.
const (
	keyQuery       = "q"
	keySports      = "sport"
	keyBrands      = "brand"
	keyPriceMin    = "min"
	keyPriceMax    = "max"
	keyRatingMin   = "rate"
	keyOnlyInStock = "stock"
	keySort        = "sort"
	keyPerPage     = "pp"
	keyCategory    = "cat"
	keySubcategory = "sub"
	keyPage        = "p"
)

// Encode serializes the state to a URL query string, omitting every
// field that still has its default value so links stay short.
//
// includePage controls whether the current page number is recorded.
// Callers whose mutation just reset the page to 1 pass false so a
// copied link never resurrects a stale page after a filter change;
// page-only navigation passes true.
func Encode(state QueryState, includePage bool) string {
	state.Normalize()
	params := url.Values{}

	if state.Query != "" {
		params.Set(keyQuery, state.Query)
	}
	if len(state.Sports) > 0 {
		params.Set(keySports, strings.Join(state.Sports, ","))
	}
	if len(state.Brands) > 0 {
		params.Set(keyBrands, strings.Join(state.Brands, ","))
	}
	if state.PriceMin != "" {
		params.Set(keyPriceMin, state.PriceMin)
	}
	if state.PriceMax != "" {
		params.Set(keyPriceMax, state.PriceMax)
	}
	if state.RatingMin > 0 {
		params.Set(keyRatingMin, strconv.FormatFloat(state.RatingMin, 'f', -1, 64))
	}
	if state.OnlyInStock {
		params.Set(keyOnlyInStock, "1")
	}
	if state.Sort != models.SortRelevance {
		params.Set(keySort, string(state.Sort))
	}
	if state.PerPage != DefaultPerPage {
		params.Set(keyPerPage, strconv.Itoa(state.PerPage))
	}
	if state.Category != "" {
		params.Set(keyCategory, state.Category)
	}
	if state.Subcategory != "" {
		params.Set(keySubcategory, state.Subcategory)
	}
	if includePage && state.Page > 1 {
		params.Set(keyPage, strconv.Itoa(state.Page))
	}
	return params.Encode()
}

// Decode rebuilds a state from URL query parameters. Missing or
// malformed values fall back to their defaults field by field; a bad
// link must never block rendering. Unknown sort values pass through
// verbatim and behave as relevance in the sort stage.
func Decode(params url.Values) QueryState {
	state := NewQueryState()

	state.Query = strings.TrimSpace(params.Get(keyQuery))
	state.Sports = splitList(params.Get(keySports))
	state.Brands = splitList(params.Get(keyBrands))
	state.PriceMin = strings.TrimSpace(params.Get(keyPriceMin))
	state.PriceMax = strings.TrimSpace(params.Get(keyPriceMax))

	if rate, err := strconv.ParseFloat(params.Get(keyRatingMin), 64); err == nil && rate > 0 {
		state.RatingMin = rate
	}
	state.OnlyInStock = params.Get(keyOnlyInStock) == "1"

	if v := params.Get(keySort); v != "" {
		state.Sort = models.SortMode(v)
	}
	if pp, err := strconv.Atoi(params.Get(keyPerPage)); err == nil && pp > 0 {
		state.PerPage = pp
	}
	if page, err := strconv.Atoi(params.Get(keyPage)); err == nil && page > 0 {
		state.Page = page
	}
	state.Category = strings.TrimSpace(params.Get(keyCategory))
	state.Subcategory = strings.TrimSpace(params.Get(keySubcategory))

	state.Normalize()
	return state
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return normalizeSet(out)
}
