package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"storefront-service/internal/middleware"
	"storefront-service/internal/session"
)

// CartHandler serves the cart surface. All routes are scoped to the
// caller's session; the response after every mutation is the refreshed
// cart view (badge count, total, resolvable line items).
type CartHandler struct {
	sessions *session.Manager
	logger   *logrus.Logger
}

func NewCartHandler(sessions *session.Manager, logger *logrus.Logger) *CartHandler {
	return &CartHandler{sessions: sessions, logger: logger}
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// GetCart returns the current cart for the session. Entries whose
// product has left the catalog still count toward itemCount but carry
// no line and no price.
func (h *CartHandler) GetCart(c *gin.Context) {
	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	c.JSON(http.StatusOK, sess.Cart())
}

// AddItem adds a product to the cart, incrementing an existing entry.
// Quantity defaults to 1 when omitted.
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart payload: " + err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	view, err := sess.AddToCart(c.Request.Context(), req.ProductID, req.Quantity)
	if err != nil {
		h.logger.WithError(err).Error("Failed to persist cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetItemQuantity replaces the quantity for a product. A quantity of
// zero or below removes the entry.
func (h *CartHandler) SetItemQuantity(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}
	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart payload: " + err.Error()})
		return
	}

	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	view, err := sess.SetCartQuantity(c.Request.Context(), productID, req.Quantity)
	if err != nil {
		h.logger.WithError(err).Error("Failed to persist cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// RemoveItem drops a product from the cart.
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	view, err := sess.RemoveFromCart(c.Request.Context(), productID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to persist cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// ClearCart empties the session's cart.
func (h *CartHandler) ClearCart(c *gin.Context) {
	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	view, err := sess.ClearCart(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to persist cart")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
		return
	}
	c.JSON(http.StatusOK, view)
}

// GetBadge returns just the badge aggregates (item count and total),
// for clients that only refresh the header.
func (h *CartHandler) GetBadge(c *gin.Context) {
	sess := h.sessions.Get(c.Request.Context(), middleware.GetSessionID(c))
	view := sess.Cart()
	c.JSON(http.StatusOK, gin.H{
		"itemCount":  view.ItemCount,
		"totalPrice": view.TotalPrice,
	})
}
