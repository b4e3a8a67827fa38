package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/catalog"
	"storefront-service/internal/middleware"
	"storefront-service/internal/session"
)

// StorefrontHandler serves the catalog browsing surface. Browsing is
// stateless per request (the URL is the state, decoded and re-encoded
// on every call); the session endpoints expose the stateful intent API
// used by interactive clients.
type StorefrontHandler struct {
	sessions    *session.Manager
	maxPageSize int
	logger      *logrus.Logger
}

func NewStorefrontHandler(sessions *session.Manager, maxPageSize int, logger *logrus.Logger) *StorefrontHandler {
	return &StorefrontHandler{
		sessions:    sessions,
		maxPageSize: maxPageSize,
		logger:      logger,
	}
}

// GetProducts runs the filter/sort/paginate pipeline for the query
// parameters of the request and returns one page of results.
// Malformed parameters degrade to their defaults; this endpoint always
// renders.
func (h *StorefrontHandler) GetProducts(c *gin.Context) {
	state := catalog.Decode(c.Request.URL.Query())
	if h.maxPageSize > 0 && state.PerPage > h.maxPageSize {
		state.PerPage = h.maxPageSize
	}

	snapshot := h.sessions.Snapshot()
	result := catalog.Apply(snapshot.Products(), state)
	state.Page = result.Page

	c.JSON(http.StatusOK, gin.H{
		"items":        result.Items,
		"totalMatched": result.TotalMatched,
		"page":         result.Page,
		"pageCount":    result.PageCount,
		"query":        catalog.Encode(state, true),
	})
}

// GetAvailableFilters returns the facet values and price range present
// in the catalog snapshot, for building filter widgets.
func (h *StorefrontHandler) GetAvailableFilters(c *gin.Context) {
	snapshot := h.sessions.Snapshot()
	minPrice, maxPrice := snapshot.PriceRange()

	c.JSON(http.StatusOK, gin.H{
		"sports": snapshot.Sports(),
		"brands": snapshot.Brands(),
		"priceRange": gin.H{
			"min": minPrice,
			"max": maxPrice,
		},
	})
}

// GetSuggestions returns autocomplete suggestions for a name prefix.
func (h *StorefrontHandler) GetSuggestions(c *gin.Context) {
	query := c.Query("q")
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	c.JSON(http.StatusOK, gin.H{
		"suggestions": h.sessions.Snapshot().Suggestions(query, limit),
	})
}

// ApplyIntent executes one browsing command against the caller's
// session and returns the resulting render payload.
func (h *StorefrontHandler) ApplyIntent(c *gin.Context) {
	var intent session.Intent
	if err := c.ShouldBindJSON(&intent); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid intent payload: " + err.Error()})
		return
	}

	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	view, err := sess.Apply(intent)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view)
}

// HydrateSession replaces the session state from a shared deep link's
// query parameters and returns the resulting view.
func (h *StorefrontHandler) HydrateSession(c *gin.Context) {
	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	view := sess.HydrateFromQuery(c.Request.URL.Query())
	c.JSON(http.StatusOK, view)
}

// GetSessionView returns the most recent render payload for the
// caller's session without recomputing.
func (h *StorefrontHandler) GetSessionView(c *gin.Context) {
	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	c.JSON(http.StatusOK, sess.Results())
}
