package session

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
)

// recordingListener captures render notifications for assertions.
type recordingListener struct {
	mu      sync.Mutex
	results []models.ResultsView
	carts   []models.CartView
}

func (r *recordingListener) RenderResults(_ string, view models.ResultsView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, view)
}

func (r *recordingListener) RenderCart(_ string, view models.CartView) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.carts = append(r.carts, view)
}

func (r *recordingListener) resultCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.results)
}

func (r *recordingListener) lastResult() models.ResultsView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.results[len(r.results)-1]
}

func testSnapshot() *catalog.Snapshot {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var products []models.Product
	for i := 0; i < 30; i++ {
		sport := "Badminton"
		if i%2 == 0 {
			sport = "Tennis"
		}
		products = append(products, models.Product{
			ID:      int64(i + 1),
			Name:    "Product",
			Brand:   "Yonex",
			Sport:   sport,
			Price:   float64(100 * (i + 1)),
			Rating:  4,
			InStock: i%3 != 0,
			AddedAt: base.AddDate(0, 0, -i),
		})
	}
	return catalog.NewSnapshot(products)
}

func testManager(debounce time.Duration, listeners ...RenderListener) *Manager {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	return NewManager(testSnapshot(),
		func(string) cart.Store { return cart.NewMemoryStore() },
		debounce, logger, listeners...)
}

func TestFilterIntentResetsPageAndOmitsPageFromURL(t *testing.T) {
	mgr := testManager(time.Millisecond)
	defer mgr.Close()
	sess := mgr.Get(context.Background(), "s1")

	_, err := sess.Apply(Intent{Type: IntentSetPerPage, PerPage: 5})
	require.NoError(t, err)
	view, err := sess.Apply(Intent{Type: IntentSetPage, Page: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, view.Page)
	params, err := url.ParseQuery(view.Query)
	require.NoError(t, err)
	assert.Equal(t, "3", params.Get("p"))

	view, err = sess.Apply(Intent{Type: IntentToggleSport, Value: "Tennis"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Page)
	params, err = url.ParseQuery(view.Query)
	require.NoError(t, err)
	assert.Empty(t, params.Get("p"), "stale page must not leak into the shared link")
	assert.Equal(t, "Tennis", params.Get("sport"))
}

func TestSetPageKeepsFilters(t *testing.T) {
	mgr := testManager(time.Millisecond)
	defer mgr.Close()
	sess := mgr.Get(context.Background(), "s1")

	_, err := sess.Apply(Intent{Type: IntentToggleBrand, Value: "Yonex"})
	require.NoError(t, err)
	_, err = sess.Apply(Intent{Type: IntentSetPerPage, PerPage: 10})
	require.NoError(t, err)
	view, err := sess.Apply(Intent{Type: IntentSetPage, Page: 2})
	require.NoError(t, err)

	assert.Equal(t, 2, view.Page)
	assert.Contains(t, view.Query, "brand=Yonex")
	assert.Contains(t, view.Query, "p=2")
}

func TestDebouncedQueryCoalesces(t *testing.T) {
	listener := &recordingListener{}
	mgr := testManager(30*time.Millisecond, listener)
	defer mgr.Close()
	sess := mgr.Get(context.Background(), "s1")

	before := listener.resultCount()
	for _, q := range []string{"t", "te", "ten", "tennis"} {
		_, err := sess.Apply(Intent{Type: IntentSetQuery, Value: q})
		require.NoError(t, err)
	}
	// Nothing rendered inside the quiescence window.
	assert.Equal(t, before, listener.resultCount())

	assert.Eventually(t, func() bool {
		return listener.resultCount() == before+1
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, "tennis", sess.State().Query)
	assert.Contains(t, listener.lastResult().Query, "q=tennis")
}

func TestStockFilterIntent(t *testing.T) {
	mgr := testManager(time.Millisecond)
	defer mgr.Close()
	sess := mgr.Get(context.Background(), "s1")

	_, err := sess.Apply(Intent{Type: IntentSetStockFilter, Value: StockFilterOut})
	require.NoError(t, err)
	state := sess.State()
	assert.True(t, state.OnlyOutOfStock)
	assert.False(t, state.OnlyInStock)

	_, err = sess.Apply(Intent{Type: IntentSetStockFilter, Value: StockFilterIn})
	require.NoError(t, err)
	state = sess.State()
	assert.True(t, state.OnlyInStock)
	assert.False(t, state.OnlyOutOfStock)

	_, err = sess.Apply(Intent{Type: IntentSetStockFilter, Value: "sideways"})
	assert.Error(t, err)
}

func TestUnknownIntentRejected(t *testing.T) {
	mgr := testManager(time.Millisecond)
	defer mgr.Close()
	sess := mgr.Get(context.Background(), "s1")

	_, err := sess.Apply(Intent{Type: IntentType("warp")})
	assert.Error(t, err)
}

func TestResetFiltersKeepsSortAndPageSize(t *testing.T) {
	mgr := testManager(time.Millisecond)
	defer mgr.Close()
	sess := mgr.Get(context.Background(), "s1")

	_, err := sess.Apply(Intent{Type: IntentSetSort, Value: "price-asc"})
	require.NoError(t, err)
	_, err = sess.Apply(Intent{Type: IntentSetPerPage, PerPage: 24})
	require.NoError(t, err)
	_, err = sess.Apply(Intent{Type: IntentToggleSport, Value: "Tennis"})
	require.NoError(t, err)
	_, err = sess.Apply(Intent{Type: IntentResetFilters})
	require.NoError(t, err)

	state := sess.State()
	assert.Empty(t, state.Sports)
	assert.Equal(t, models.SortPriceAsc, state.Sort)
	assert.Equal(t, 24, state.PerPage)
}

func TestHydrateFromSharedLink(t *testing.T) {
	mgr := testManager(time.Millisecond)
	defer mgr.Close()
	sess := mgr.Get(context.Background(), "s1")

	params, err := url.ParseQuery("sport=Tennis&sort=price-desc&pp=5&p=2")
	require.NoError(t, err)
	view := sess.HydrateFromQuery(params)

	assert.Equal(t, 2, view.Page)
	assert.Len(t, view.Items, 5)
	state := sess.State()
	assert.Equal(t, []string{"Tennis"}, state.Sports)
	assert.Equal(t, models.SortPriceDesc, state.Sort)
}

func TestCartMutationsNotifyAndPersist(t *testing.T) {
	listener := &recordingListener{}
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)

	store := cart.NewMemoryStore()
	mgr := NewManager(testSnapshot(),
		func(string) cart.Store { return store },
		time.Millisecond, logger, listener)
	defer mgr.Close()

	ctx := context.Background()
	sess := mgr.Get(ctx, "s1")

	view, err := sess.AddToCart(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, view.ItemCount)
	assert.Equal(t, float64(200), view.TotalPrice)
	require.Len(t, listener.carts, 1)

	persisted, err := store.Load(ctx)
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, int64(1), persisted[0].ProductID)

	view, err = sess.SetCartQuantity(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 0, view.ItemCount)
	assert.Empty(t, view.Lines)
}

func TestCartSurvivesAcrossSessionsWithSameStore(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	store := cart.NewMemoryStore()
	ctx := context.Background()

	mgr := NewManager(testSnapshot(), func(string) cart.Store { return store }, time.Millisecond, logger)
	sess := mgr.Get(ctx, "s1")
	_, err := sess.AddToCart(ctx, 3, 4)
	require.NoError(t, err)
	mgr.Close()

	// A new manager (new visit) hydrates the cart from the store.
	mgr2 := NewManager(testSnapshot(), func(string) cart.Store { return store }, time.Millisecond, logger)
	defer mgr2.Close()
	assert.Equal(t, 4, mgr2.Get(ctx, "s1").Cart().ItemCount)
}

func TestManagerReturnsSameSession(t *testing.T) {
	mgr := testManager(time.Millisecond)
	defer mgr.Close()
	ctx := context.Background()

	assert.Same(t, mgr.Get(ctx, "a"), mgr.Get(ctx, "a"))
	assert.NotSame(t, mgr.Get(ctx, "a"), mgr.Get(ctx, "b"))
}
