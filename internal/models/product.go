package models

import (
	"time"
)

// SortMode identifies one of the supported result orderings.
type SortMode string

const (
	SortRelevance  SortMode = "relevance"
	SortPriceAsc   SortMode = "price-asc"
	SortPriceDesc  SortMode = "price-desc"
	SortRatingDesc SortMode = "rating-desc"
	SortNewest     SortMode = "newest"
	SortStockOut   SortMode = "stock-out"
)

// Product represents a single catalog entry. The catalog is loaded once
// per session and treated as a read-only snapshot; products are never
// mutated after load.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Brand       string    `json:"brand"`
	Sport       string    `json:"sport"`
	Price       float64   `json:"price"`
	Rating      float64   `json:"rating"`
	InStock     bool      `json:"inStock"`
	AddedAt     time.Time `json:"addedAt"`
	Image       *string   `json:"image,omitempty"`
	Category    string    `json:"category,omitempty"`
	Subcategory string    `json:"subcategory,omitempty"`
}

// CartEntry is one ledger line: a product reference and a positive
// quantity. Entries at zero or below are never stored.
type CartEntry struct {
	ProductID int64 `json:"id"`
	Quantity  int   `json:"qty"`
}

// CartLine is a cart entry resolved against the catalog snapshot for
// display. Entries whose product is no longer in the snapshot produce
// no line.
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CartView is the payload pushed to the render surface after every
// cart mutation.
type CartView struct {
	ItemCount  int        `json:"itemCount"`
	TotalPrice float64    `json:"totalPrice"`
	Lines      []CartLine `json:"lines"`
}

// ResultsView is the payload pushed to the render surface after every
// pipeline run. Query is the canonical encoded query string for this
// view, usable as a shareable deep link.
type ResultsView struct {
	Items        []Product `json:"items"`
	TotalMatched int       `json:"totalMatched"`
	Page         int       `json:"page"`
	PageCount    int       `json:"pageCount"`
	Query        string    `json:"query"`
}
