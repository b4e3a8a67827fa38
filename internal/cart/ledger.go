package cart

import (
	"context"

	"storefront-service/internal/models"
)

// Store persists the full ledger state. Implementations must treat
// absent or malformed data as an empty cart rather than an error.
type Store interface {
	Save(ctx context.Context, entries []models.CartEntry) error
	Load(ctx context.Context) ([]models.CartEntry, error)
}

// PriceLookup resolves a product id against the current catalog
// snapshot. ok is false for stale references.
type PriceLookup func(id int64) (models.Product, bool)

// Ledger is the quantity-per-product bookkeeping behind the cart. It
// keeps entries in insertion order and never stores a quantity at or
// below zero. Every mutation persists the full state synchronously
// before returning, so a crash cannot lose a confirmed mutation.
//
// Ledger is not safe for concurrent use; the owning session serializes
// access.
type Ledger struct {
	entries []models.CartEntry
	store   Store
}

// NewLedger creates a ledger backed by the given store, hydrated from
// whatever the store holds. Load failures start an empty cart.
func NewLedger(ctx context.Context, store Store) *Ledger {
	l := &Ledger{store: store}
	if entries, err := store.Load(ctx); err == nil {
		for _, e := range entries {
			if e.Quantity > 0 {
				l.entries = append(l.entries, e)
			}
		}
	}
	return l
}

// Add increments the quantity for the product, inserting a new entry
// if needed. A non-positive resulting quantity removes the entry.
func (l *Ledger) Add(ctx context.Context, productID int64, qty int) error {
	if idx := l.indexOf(productID); idx >= 0 {
		l.entries[idx].Quantity += qty
	} else {
		l.entries = append(l.entries, models.CartEntry{ProductID: productID, Quantity: qty})
	}
	l.purge()
	return l.persist(ctx)
}

// SetQuantity replaces the quantity for the product. qty <= 0 removes
// the entry entirely instead of storing a zero.
func (l *Ledger) SetQuantity(ctx context.Context, productID int64, qty int) error {
	if qty <= 0 {
		return l.Remove(ctx, productID)
	}
	if idx := l.indexOf(productID); idx >= 0 {
		l.entries[idx].Quantity = qty
	} else {
		l.entries = append(l.entries, models.CartEntry{ProductID: productID, Quantity: qty})
	}
	return l.persist(ctx)
}

// Remove drops the entry for the product if present.
func (l *Ledger) Remove(ctx context.Context, productID int64) error {
	if idx := l.indexOf(productID); idx >= 0 {
		l.entries = append(l.entries[:idx], l.entries[idx+1:]...)
	}
	return l.persist(ctx)
}

// Clear empties the ledger.
func (l *Ledger) Clear(ctx context.Context) error {
	l.entries = nil
	return l.persist(ctx)
}

// Count returns the sum of quantities over all entries, including ones
// that no longer resolve against the catalog. The badge always shows
// what the visitor put in, even while a product is delisted.
func (l *Ledger) Count() int {
	total := 0
	for _, e := range l.entries {
		total += e.Quantity
	}
	return total
}

// Total sums quantity times unit price over the entries that resolve
// against the catalog. Stale references contribute nothing; they have
// no price to charge.
func (l *Ledger) Total(lookup PriceLookup) float64 {
	var sum float64
	for _, e := range l.entries {
		if p, ok := lookup(e.ProductID); ok {
			sum += p.Price * float64(e.Quantity)
		}
	}
	return sum
}

// Lines resolves the ledger into displayable cart lines, skipping
// entries whose product is missing from the snapshot.
func (l *Ledger) Lines(lookup PriceLookup) []models.CartLine {
	lines := make([]models.CartLine, 0, len(l.entries))
	for _, e := range l.entries {
		p, ok := lookup(e.ProductID)
		if !ok {
			continue
		}
		lines = append(lines, models.CartLine{
			Product:  p,
			Quantity: e.Quantity,
			Subtotal: p.Price * float64(e.Quantity),
		})
	}
	return lines
}

// Entries returns a copy of the raw ledger state in insertion order.
func (l *Ledger) Entries() []models.CartEntry {
	out := make([]models.CartEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// View assembles the render payload for the cart surface.
func (l *Ledger) View(lookup PriceLookup) models.CartView {
	return models.CartView{
		ItemCount:  l.Count(),
		TotalPrice: l.Total(lookup),
		Lines:      l.Lines(lookup),
	}
}

func (l *Ledger) indexOf(productID int64) int {
	for i, e := range l.entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}

func (l *Ledger) purge() {
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.Quantity > 0 {
			kept = append(kept, e)
		}
	}
	l.entries = kept
}

func (l *Ledger) persist(ctx context.Context) error {
	return l.store.Save(ctx, l.entries)
}
