package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// snapshotVersion is the current persisted cart schema version. Bump it when
// LineItem fields change so old snapshots can be migrated instead of dropped.
const snapshotVersion = 1

// LineItem is one finalized, priced product configuration. It is created at
// add-to-cart time and never mutated afterwards; removal deletes the whole
// item.
type LineItem struct {
	ID             string  `json:"id"`
	PhotoID        string  `json:"photoId"`
	PhotoURL       string  `json:"photoUrl"`
	PhotoTitle     string  `json:"photoTitle"`
	ProductType    string  `json:"productType"`
	Size           string  `json:"size"`
	Material       string  `json:"material"`
	Provider       string  `json:"provider"`
	Quantity       int     `json:"quantity"`
	UnitPrice      float64 `json:"unitPrice"`
	TotalPrice     float64 `json:"totalPrice"`
	ShippingMethod string  `json:"shippingMethod"`
	ShippingPrice  float64 `json:"shippingPrice"`
	AddedAt        string  `json:"addedAt"`
}

// Totals is the cart roll-up: sum of line totals, sum of shipping prices, and
// their sum.
type Totals struct {
	Subtotal float64
	Shipping float64
	Total    float64
}

type snapshot struct {
	Version int        `json:"version"`
	Items   []LineItem `json:"items"`
}

// Aggregator keeps the ordered cart line items and their derived totals, and
// writes a full snapshot to the store after every mutation. It is meant for a
// single session; concurrent mutation is not supported.
type Aggregator struct {
	store Store
	log   *slog.Logger
	items []LineItem
}

// NewAggregator returns an empty cart backed by store. A nil logger falls
// back to slog.Default.
func NewAggregator(store Store, log *slog.Logger) *Aggregator {
	if log == nil {
		log = slog.Default()
	}
	return &Aggregator{store: store, log: log, items: make([]LineItem, 0)}
}

// Add appends a line item. Identical configurations are kept as separate
// items; there is no dedup or merge. The returned error only ever reports a
// persistence failure, the in-memory append always happens.
func (a *Aggregator) Add(ctx context.Context, item LineItem) error {
	a.items = append(a.items, item)
	return a.Persist(ctx)
}

// Remove deletes the item with the given id. An absent id is a no-op, not an
// error.
func (a *Aggregator) Remove(ctx context.Context, itemID string) error {
	for i, item := range a.items {
		if item.ID == itemID {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return a.Persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart.
func (a *Aggregator) Clear(ctx context.Context) error {
	a.items = a.items[:0]
	return a.Persist(ctx)
}

// Items returns the line items in insertion order. The slice is a copy.
func (a *Aggregator) Items() []LineItem {
	out := make([]LineItem, len(a.items))
	copy(out, a.items)
	return out
}

// Len reports the number of line items.
func (a *Aggregator) Len() int {
	return len(a.items)
}

// Totals sums every item's line total and shipping price.
func (a *Aggregator) Totals() Totals {
	var t Totals
	for _, item := range a.items {
		t.Subtotal += item.TotalPrice
		t.Shipping += item.ShippingPrice
	}
	t.Total = t.Subtotal + t.Shipping
	return t
}

// Persist writes the full item list to the store as one versioned snapshot.
// Snapshots are last-writer-wins; there is no partial update.
func (a *Aggregator) Persist(ctx context.Context) error {
	payload, err := json.Marshal(snapshot{Version: snapshotVersion, Items: a.items})
	if err != nil {
		return fmt.Errorf("marshal cart snapshot: %w", err)
	}
	if err := a.store.Save(ctx, payload); err != nil {
		return fmt.Errorf("save cart snapshot: %w", err)
	}
	return nil
}

// Restore replaces the cart contents with the persisted snapshot. Missing or
// corrupt stored data degrades to an empty cart with a logged warning;
// losing an uncompleted cart is acceptable, failing startup is not.
func (a *Aggregator) Restore(ctx context.Context) error {
	payload, err := a.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoSnapshot) {
			a.log.Warn("cart restore failed, starting empty", "error", err)
		}
		a.items = a.items[:0]
		return nil
	}

	items, ok := decodeSnapshot(payload)
	if !ok {
		a.log.Warn("cart snapshot is corrupt, starting empty")
		a.items = a.items[:0]
		return nil
	}

	a.items = items
	return nil
}

// decodeSnapshot accepts the current versioned envelope and, for backward
// compatibility, a bare array of line items.
func decodeSnapshot(payload []byte) ([]LineItem, bool) {
	var snap snapshot
	if err := json.Unmarshal(payload, &snap); err == nil && snap.Version > 0 {
		if snap.Items == nil {
			snap.Items = make([]LineItem, 0)
		}
		return snap.Items, true
	}

	var legacy []LineItem
	if err := json.Unmarshal(payload, &legacy); err == nil {
		if legacy == nil {
			legacy = make([]LineItem, 0)
		}
		return legacy, true
	}

	return nil, false
}
