package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testItem(id string, lineTotal, shippingPrice float64) LineItem {
	return LineItem{
		ID:             id,
		PhotoID:        "photo-" + id,
		PhotoURL:       "https://cdn.example.com/" + id + ".jpg",
		PhotoTitle:     "Foto " + id,
		ProductType:    "canvas",
		Size:           "30x40",
		Material:       "matte",
		Provider:       "printlab",
		Quantity:       1,
		UnitPrice:      lineTotal,
		TotalPrice:     lineTotal,
		ShippingMethod: "standard",
		ShippingPrice:  shippingPrice,
		AddedAt:        "2026-08-29T12:00:00Z",
	}
}

func TestTotalsSumLineAndShippingPrices(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(NewMemoryStore(), nil)

	require.NoError(t, agg.Add(ctx, testItem("a", 100.50, 18.50)))
	require.NoError(t, agg.Add(ctx, testItem("b", 200.25, 32.90)))
	require.NoError(t, agg.Add(ctx, testItem("c", 59.90, 0)))

	totals := agg.Totals()
	assert.InDelta(t, 360.65, totals.Subtotal, 1e-9)
	assert.InDelta(t, 51.40, totals.Shipping, 1e-9)
	assert.InDelta(t, 412.05, totals.Total, 1e-9)
}

func TestTotalsUnaffectedByRemovalOrder(t *testing.T) {
	ctx := context.Background()

	first := NewAggregator(NewMemoryStore(), nil)
	second := NewAggregator(NewMemoryStore(), nil)

	// Same multiset of items, built through different add/remove sequences.
	require.NoError(t, first.Add(ctx, testItem("a", 10, 1)))
	require.NoError(t, first.Add(ctx, testItem("b", 20, 2)))
	require.NoError(t, first.Add(ctx, testItem("c", 30, 3)))
	require.NoError(t, first.Remove(ctx, "b"))

	require.NoError(t, second.Add(ctx, testItem("c", 30, 3)))
	require.NoError(t, second.Add(ctx, testItem("b", 20, 2)))
	require.NoError(t, second.Remove(ctx, "b"))
	require.NoError(t, second.Add(ctx, testItem("a", 10, 1)))

	assert.Equal(t, first.Totals(), second.Totals())
	assert.NotEqual(t, first.Items()[0].ID, second.Items()[0].ID)
}

func TestIdenticalConfigurationsStaySeparateItems(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(NewMemoryStore(), nil)

	item := testItem("a", 89.90, 18.50)
	other := item
	other.ID = "b"

	require.NoError(t, agg.Add(ctx, item))
	require.NoError(t, agg.Add(ctx, other))

	assert.Equal(t, 2, agg.Len())
}

func TestRemoveAbsentIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(NewMemoryStore(), nil)

	require.NoError(t, agg.Add(ctx, testItem("a", 10, 0)))
	require.NoError(t, agg.Remove(ctx, "missing"))

	assert.Equal(t, 1, agg.Len())
}

func TestClearEmptiesCart(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(NewMemoryStore(), nil)

	require.NoError(t, agg.Add(ctx, testItem("a", 10, 0)))
	require.NoError(t, agg.Add(ctx, testItem("b", 20, 0)))
	require.NoError(t, agg.Clear(ctx))

	assert.Equal(t, 0, agg.Len())
	assert.Equal(t, Totals{}, agg.Totals())
}

func TestPersistRestoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	original := NewAggregator(store, nil)
	items := []LineItem{
		testItem("a", 100.50, 18.50),
		testItem("b", 200.25, 32.90),
		testItem("c", 59.90, 0),
	}
	for _, item := range items {
		require.NoError(t, original.Add(ctx, item))
	}

	restored := NewAggregator(store, nil)
	require.NoError(t, restored.Restore(ctx))

	assert.Equal(t, items, restored.Items())
	assert.Equal(t, original.Totals(), restored.Totals())
}

func TestRestoreAbsentSnapshotYieldsEmptyCart(t *testing.T) {
	agg := NewAggregator(NewMemoryStore(), nil)
	require.NoError(t, agg.Restore(context.Background()))
	assert.Equal(t, 0, agg.Len())
}

func TestRestoreCorruptSnapshotYieldsEmptyCart(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	agg := NewAggregator(store, nil)
	require.NoError(t, agg.Add(ctx, testItem("stale", 10, 0)))
	require.NoError(t, store.Save(ctx, []byte(`{"version": oops`)))

	require.NoError(t, agg.Restore(ctx))
	assert.Equal(t, 0, agg.Len())
}

func TestRestoreAcceptsLegacyBareArray(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, []byte(`[
		{"id": "legacy-1", "photoId": "p1", "quantity": 2, "unitPrice": 45.0, "totalPrice": 90.0, "shippingPrice": 12.0, "addedAt": "2025-01-01T00:00:00Z"}
	]`)))

	agg := NewAggregator(store, nil)
	require.NoError(t, agg.Restore(ctx))

	require.Equal(t, 1, agg.Len())
	item := agg.Items()[0]
	assert.Equal(t, "legacy-1", item.ID)
	assert.InDelta(t, 90.0, item.TotalPrice, 1e-9)
}

type failingStore struct{}

func (failingStore) Load(context.Context) ([]byte, error) { return nil, errors.New("disk gone") }
func (failingStore) Save(context.Context, []byte) error   { return errors.New("disk gone") }

func TestMutationStandsWhenPersistenceFails(t *testing.T) {
	ctx := context.Background()
	agg := NewAggregator(failingStore{}, nil)

	err := agg.Add(ctx, testItem("a", 10, 0))
	assert.Error(t, err)
	assert.Equal(t, 1, agg.Len())

	require.NoError(t, agg.Restore(ctx))
	assert.Equal(t, 0, agg.Len())
}

func TestRestoreFailureDegradesToEmptyCart(t *testing.T) {
	agg := NewAggregator(failingStore{}, nil)
	require.NoError(t, agg.Restore(context.Background()))
	assert.Equal(t, 0, agg.Len())
}
