package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/models"
)

func TestEncodeOmitsDefaults(t *testing.T) {
	assert.Equal(t, "", Encode(NewQueryState(), true))
}

func TestEncodeKnownKeys(t *testing.T) {
	state := NewQueryState()
	state.Query = "racket"
	state.Sports = []string{"Tennis", "Badminton"}
	state.Brands = []string{"Yonex"}
	state.PriceMin = "100"
	state.PriceMax = "5000"
	state.RatingMin = 4
	state.OnlyInStock = true
	state.Sort = models.SortPriceAsc
	state.PerPage = 24
	state.Category = "Rackets"
	state.Page = 3

	encoded := Encode(state, true)
	params, err := url.ParseQuery(encoded)
	require.NoError(t, err)

	assert.Equal(t, "racket", params.Get("q"))
	assert.Equal(t, "Badminton,Tennis", params.Get("sport"))
	assert.Equal(t, "Yonex", params.Get("brand"))
	assert.Equal(t, "100", params.Get("min"))
	assert.Equal(t, "5000", params.Get("max"))
	assert.Equal(t, "4", params.Get("rate"))
	assert.Equal(t, "1", params.Get("stock"))
	assert.Equal(t, "price-asc", params.Get("sort"))
	assert.Equal(t, "24", params.Get("pp"))
	assert.Equal(t, "Rackets", params.Get("cat"))
	assert.Equal(t, "3", params.Get("p"))
}

func TestEncodePageSuppression(t *testing.T) {
	state := NewQueryState()
	state.Page = 5

	withPage, err := url.ParseQuery(Encode(state, true))
	require.NoError(t, err)
	assert.Equal(t, "5", withPage.Get("p"))

	withoutPage, err := url.ParseQuery(Encode(state, false))
	require.NoError(t, err)
	assert.Empty(t, withoutPage.Get("p"))
}

func TestDecodeDefaults(t *testing.T) {
	state := Decode(url.Values{})
	assert.Equal(t, NewQueryState(), state)
}

func TestDecodeToleratesMalformedValues(t *testing.T) {
	params := url.Values{}
	params.Set("rate", "garbage")
	params.Set("pp", "-3")
	params.Set("p", "zero")
	params.Set("stock", "yes") // only "1" enables the filter
	params.Set("sport", ",,,")

	state := Decode(params)
	assert.Equal(t, float64(0), state.RatingMin)
	assert.Equal(t, DefaultPerPage, state.PerPage)
	assert.Equal(t, 1, state.Page)
	assert.False(t, state.OnlyInStock)
	assert.Empty(t, state.Sports)
}

func TestDecodeUnknownSortPassesThrough(t *testing.T) {
	params := url.Values{}
	params.Set("sort", "mystery")
	state := Decode(params)
	assert.Equal(t, models.SortMode("mystery"), state.Sort)
}

func TestRoundTripPreservesPipelineBehavior(t *testing.T) {
	cat := fixtureCatalog()

	states := []QueryState{
		func() QueryState {
			s := NewQueryState()
			s.Query = "item"
			s.Sports = []string{"Tennis", "Badminton"}
			s.Brands = []string{"Victor", "Yonex"}
			s.PriceMin = "200"
			s.RatingMin = 3.5
			s.OnlyInStock = true
			s.Sort = models.SortPriceDesc
			s.PerPage = 5
			s.Page = 2
			return s
		}(),
		func() QueryState {
			s := NewQueryState()
			s.Sort = models.SortNewest
			s.Category = "Apparel"
			s.Page = 4
			return s
		}(),
		NewQueryState(),
	}

	for _, original := range states {
		encoded := Encode(original, true)
		params, err := url.ParseQuery(encoded)
		require.NoError(t, err)
		decoded := Decode(params)

		want := Apply(cat, original)
		got := Apply(cat, decoded)
		assert.Equal(t, want.TotalMatched, got.TotalMatched, "query %q", encoded)
		assert.Equal(t, want.Items, got.Items, "query %q", encoded)
	}
}

func TestRoundTripSetsCompareAsSets(t *testing.T) {
	state := NewQueryState()
	state.Sports = []string{"Tennis", "Badminton", "Tennis"}

	params, err := url.ParseQuery(Encode(state, true))
	require.NoError(t, err)
	decoded := Decode(params)
	assert.Equal(t, []string{"Badminton", "Tennis"}, decoded.Sports)
}
