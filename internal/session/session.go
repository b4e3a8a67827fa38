package session

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"storefront-service/internal/cart"
	"storefront-service/internal/catalog"
	"storefront-service/internal/models"
)

// DefaultDebounceWindow is the quiescence window that coalesces rapid
// search keystrokes into a single pipeline run.
const DefaultDebounceWindow = 250 * time.Millisecond

// RenderListener receives render payloads after every pipeline run and
// after every cart mutation. The HTTP surface and the event publisher
// both implement it; the session itself never renders.
type RenderListener interface {
	RenderResults(sessionID string, view models.ResultsView)
	RenderCart(sessionID string, view models.CartView)
}

// IntentType discriminates the discrete browsing commands a visitor
// can issue.
type IntentType string

const (
	IntentSetQuery       IntentType = "set_query"
	IntentToggleSport    IntentType = "toggle_sport"
	IntentToggleBrand    IntentType = "toggle_brand"
	IntentSetPriceBounds IntentType = "set_price_bounds"
	IntentSetRatingMin   IntentType = "set_rating_min"
	IntentSetStockFilter IntentType = "set_stock_filter"
	IntentSetSort        IntentType = "set_sort"
	IntentSetPerPage     IntentType = "set_per_page"
	IntentSetPage        IntentType = "set_page"
	IntentSetCategory    IntentType = "set_category"
	IntentResetFilters   IntentType = "reset_filters"
)

// Stock filter values for IntentSetStockFilter.
const (
	StockFilterNone = "none"
	StockFilterIn   = "in"
	StockFilterOut  = "out"
)

// Intent is one discrete user command applied to the session state.
// Only the fields relevant to the Type are read.
type Intent struct {
	Type        IntentType `json:"type" binding:"required"`
	Value       string     `json:"value,omitempty"`
	Subcategory string     `json:"subcategory,omitempty"`
	Min         string     `json:"min,omitempty"`
	Max         string     `json:"max,omitempty"`
	Rating      float64    `json:"rating,omitempty"`
	Page        int        `json:"page,omitempty"`
	PerPage     int        `json:"perPage,omitempty"`
}

// Session owns one visitor's browsing state: the catalog snapshot it
// was opened against, the query state, and the cart ledger. All
// mutation goes through Apply or the cart methods and is serialized by
// the session mutex, mirroring the single-threaded event model of the
// storefront.
type Session struct {
	id       string
	mu       sync.Mutex
	snapshot *catalog.Snapshot
	state    catalog.QueryState
	ledger   *cart.Ledger

	listeners []RenderListener
	logger    *logrus.Entry

	debounceWindow time.Duration
	debounceTimer  *time.Timer
	pendingQuery   string

	lastResult catalog.Result
	currentURL string
}

func newSession(ctx context.Context, id string, snapshot *catalog.Snapshot, store cart.Store, debounce time.Duration, logger *logrus.Logger) *Session {
	if debounce <= 0 {
		debounce = DefaultDebounceWindow
	}
	s := &Session{
		id:             id,
		snapshot:       snapshot,
		state:          catalog.NewQueryState(),
		ledger:         cart.NewLedger(ctx, store),
		logger:         logger.WithField("session", id),
		debounceWindow: debounce,
	}
	s.lastResult = catalog.Apply(snapshot.Products(), s.state)
	return s
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Subscribe registers a render listener. Listeners are invoked
// synchronously after each recomputation.
func (s *Session) Subscribe(l RenderListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// HydrateFromQuery replaces the query state with one decoded from a
// shared URL and recomputes. Malformed parameters degrade field by
// field; hydration never fails.
func (s *Session) HydrateFromQuery(params url.Values) models.ResultsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = catalog.Decode(params)
	return s.recompute(true)
}

// Apply executes one intent. Filter-affecting intents reset the page
// to 1 and re-encode the URL without a page number so a copied link
// cannot resurrect a stale page; SetPage keeps the filters and records
// the page. SetQuery is debounced: successive queries inside the
// window coalesce into one pipeline run and the superseded run never
// executes.
func (s *Session) Apply(intent Intent) (models.ResultsView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch intent.Type {
	case IntentSetQuery:
		s.scheduleQuery(intent.Value)
		// The pending view: state as-is until the window closes.
		return s.view(), nil
	case IntentToggleSport:
		s.state.ToggleSport(intent.Value)
	case IntentToggleBrand:
		s.state.ToggleBrand(intent.Value)
	case IntentSetPriceBounds:
		s.state.PriceMin = intent.Min
		s.state.PriceMax = intent.Max
	case IntentSetRatingMin:
		s.state.RatingMin = intent.Rating
	case IntentSetStockFilter:
		switch intent.Value {
		case StockFilterIn:
			s.state.SetOnlyInStock(true)
		case StockFilterOut:
			s.state.SetOnlyOutOfStock(true)
		case StockFilterNone, "":
			s.state.OnlyInStock = false
			s.state.OnlyOutOfStock = false
		default:
			return models.ResultsView{}, fmt.Errorf("unknown stock filter %q", intent.Value)
		}
	case IntentSetSort:
		s.state.Sort = models.SortMode(intent.Value)
	case IntentSetPerPage:
		s.state.PerPage = intent.PerPage
	case IntentSetPage:
		s.state.Page = intent.Page
		return s.recompute(true), nil
	case IntentSetCategory:
		s.state.Category = intent.Value
		s.state.Subcategory = intent.Subcategory
	case IntentResetFilters:
		s.state.ResetFilters()
	default:
		return models.ResultsView{}, fmt.Errorf("unknown intent type %q", intent.Type)
	}

	s.state.Page = 1
	return s.recompute(false), nil
}

// scheduleQuery arms the debounce timer for the given search text.
// Caller holds the mutex.
func (s *Session) scheduleQuery(query string) {
	s.pendingQuery = query
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
	}
	s.debounceTimer = time.AfterFunc(s.debounceWindow, s.flushQuery)
}

// flushQuery runs when the debounce window closes without another
// keystroke.
func (s *Session) flushQuery() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Query = s.pendingQuery
	s.state.Page = 1
	s.logger.WithField("query", s.state.Query).Debug("Search debounce window closed")
	s.recompute(false)
}

// Close releases the session's timer. A pending debounced search is
// dropped, not flushed.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.debounceTimer != nil {
		s.debounceTimer.Stop()
		s.debounceTimer = nil
	}
}

// Results returns the most recent render payload without recomputing.
func (s *Session) Results() models.ResultsView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// State returns a copy of the current query state.
func (s *Session) State() catalog.QueryState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// CurrentURL returns the canonical encoded query string for the
// current state, as last pushed.
func (s *Session) CurrentURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentURL
}

// recompute runs the pipeline, clamps the page, refreshes the shared
// URL and notifies listeners. Caller holds the mutex.
func (s *Session) recompute(includePage bool) models.ResultsView {
	s.lastResult = catalog.Apply(s.snapshot.Products(), s.state)
	s.state.Page = s.lastResult.Page
	s.currentURL = catalog.Encode(s.state, includePage)

	view := s.view()
	for _, l := range s.listeners {
		l.RenderResults(s.id, view)
	}
	return view
}

func (s *Session) view() models.ResultsView {
	return models.ResultsView{
		Items:        s.lastResult.Items,
		TotalMatched: s.lastResult.TotalMatched,
		Page:         s.lastResult.Page,
		PageCount:    s.lastResult.PageCount,
		Query:        s.currentURL,
	}
}

// Cart mutation passes straight through to the ledger, which persists
// synchronously; listeners are then notified with the refreshed badge
// and line items.

// AddToCart increments the quantity for a product.
func (s *Session) AddToCart(ctx context.Context, productID int64, qty int) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.Add(ctx, productID, qty); err != nil {
		return models.CartView{}, err
	}
	return s.notifyCart(), nil
}

// SetCartQuantity replaces a product's quantity; zero or below removes
// the entry.
func (s *Session) SetCartQuantity(ctx context.Context, productID int64, qty int) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.SetQuantity(ctx, productID, qty); err != nil {
		return models.CartView{}, err
	}
	return s.notifyCart(), nil
}

// RemoveFromCart drops a product from the cart.
func (s *Session) RemoveFromCart(ctx context.Context, productID int64) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.Remove(ctx, productID); err != nil {
		return models.CartView{}, err
	}
	return s.notifyCart(), nil
}

// ClearCart empties the cart.
func (s *Session) ClearCart(ctx context.Context) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ledger.Clear(ctx); err != nil {
		return models.CartView{}, err
	}
	return s.notifyCart(), nil
}

// Cart returns the current cart view without mutating.
func (s *Session) Cart() models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.View(s.snapshot.Lookup)
}

func (s *Session) notifyCart() models.CartView {
	view := s.ledger.View(s.snapshot.Lookup)
	for _, l := range s.listeners {
		l.RenderCart(s.id, view)
	}
	return view
}
