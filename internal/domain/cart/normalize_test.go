package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_MapsFields(t *testing.T) {
	added := testNow.Add(-48 * time.Hour)
	snap := Snapshot{
		StoreID:   "store-1",
		StoreName: "GS25",
		Lines: []RawLine{{
			LineID:        "line-1",
			ItemID:        "item-1",
			ItemName:      "바나나우유",
			ImageRef:      "img/1.png",
			OriginalPrice: 7900,
			DiscountRate:  IntPtr(10),
			Quantity:      2,
			StatusTag:     "ACTIVE",
			Stock:         IntPtr(5),
			AddedAt:       &added,
		}},
	}

	lines, warnings := Normalize(snap, testNow)

	assert.Empty(t, warnings)
	require.Len(t, lines, 1)
	l := lines[0]
	assert.Equal(t, "store-1", l.StoreID)
	assert.Equal(t, "GS25", l.StoreName)
	assert.Equal(t, "바나나우유", l.DisplayName)
	assert.Equal(t, 7110, l.SellingPrice)
	assert.Equal(t, 10, l.DiscountRate)
	assert.Equal(t, LifecycleActive, l.Lifecycle)
	assert.Equal(t, 5, *l.Stock)
	assert.Equal(t, added, l.AddedAt)
	assert.False(t, l.IsSelected)
}

func TestNormalize_UnknownTagFailsClosed(t *testing.T) {
	snap := Snapshot{StoreID: "store-1", Lines: []RawLine{{LineID: "line-1", OriginalPrice: 100, Quantity: 1, StatusTag: "HIDDEN"}}}

	lines, warnings := Normalize(snap, testNow)

	require.Len(t, lines, 1)
	assert.Equal(t, LifecycleDeleted, lines[0].Lifecycle)
	require.Len(t, warnings, 1)
	assert.Equal(t, "line-1", warnings[0].LineID)
	assert.Contains(t, warnings[0].String(), "HIDDEN")
}

func TestNormalize_SellingPriceFallback(t *testing.T) {
	snap := Snapshot{StoreID: "store-1", Lines: []RawLine{
		{LineID: "a", OriginalPrice: 1000, SellingPrice: IntPtr(800), Quantity: 1, StatusTag: "ACTIVE"},
		{LineID: "b", OriginalPrice: 1000, SellingPrice: IntPtr(1200), Quantity: 1, StatusTag: "ACTIVE"},
		{LineID: "c", OriginalPrice: 1000, Quantity: 1, StatusTag: "ACTIVE"},
	}}

	lines, _ := Normalize(snap, testNow)

	require.Len(t, lines, 3)
	assert.Equal(t, 800, lines[0].SellingPrice)
	assert.Equal(t, 1000, lines[1].SellingPrice, "selling price never exceeds original")
	assert.Equal(t, 1000, lines[2].SellingPrice)
}

func TestNormalize_MissingAddedAtUsesFetchTime(t *testing.T) {
	snap := Snapshot{StoreID: "store-1", Lines: []RawLine{{LineID: "a", OriginalPrice: 1, Quantity: 1, StatusTag: "ACTIVE"}}}

	lines, _ := Normalize(snap, testNow)

	assert.Equal(t, testNow, lines[0].AddedAt)
}

func TestNormalize_ClampsQuantityToStock(t *testing.T) {
	tests := []struct {
		name         string
		tag          string
		quantity     int
		stock        int
		wantQuantity int
		wantWarnings int
	}{
		{"active over stock", "ACTIVE", 9, 3, 3, 1},
		{"active within stock", "ACTIVE", 2, 3, 2, 0},
		{"sold out keeps backend quantity", "SOLDOUT", 9, 3, 9, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Snapshot{StoreID: "store-1", Lines: []RawLine{{LineID: "a", OriginalPrice: 1000, Quantity: tt.quantity, StatusTag: tt.tag, Stock: IntPtr(tt.stock)}}}

			lines, warnings := Normalize(snap, testNow)

			require.Len(t, lines, 1)
			assert.Equal(t, tt.wantQuantity, lines[0].Quantity)
			assert.Len(t, warnings, tt.wantWarnings)
		})
	}
}

// ============================================
// Error Type Tests
// ============================================

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := &NetworkError{Op: "update quantity", StoreID: "store-1", Status: 503, Err: cause}

	assert.ErrorIs(t, err, ErrNetworkFailure)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "cart backend update quantity (store store-1): status 503: connection refused", err.Error())
}

func TestRemovalError(t *testing.T) {
	err := &RemovalError{Failed: []string{"a", "b"}, Err: ErrSessionExpired}

	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Contains(t, err.Error(), "a, b")
}
