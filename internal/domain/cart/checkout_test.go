package cart

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummary_EmptySelection(t *testing.T) {
	v := BuildView([]Line{
		activeLine("a", "store-1", 7900, 10, 2, false),
		withLifecycle(activeLine("b", "store-1", 7900, 10, 2, true), LifecycleSoldOut),
	})

	summary, err := BuildSummary(v)

	assert.ErrorIs(t, err, ErrEmptySelection)
	assert.Nil(t, summary)
}

func TestBuildSummary_EmptyView(t *testing.T) {
	_, err := BuildSummary(View{})

	assert.ErrorIs(t, err, ErrEmptySelection)
}

func TestBuildSummary_SingleLine(t *testing.T) {
	v := BuildView([]Line{activeLine("a", "store-1", 7900, 10, 2, true)})

	summary, err := BuildSummary(v)

	require.NoError(t, err)
	assert.Equal(t, 14220, summary.Amount)
	assert.Equal(t, "item a", summary.OrderLabel)
	assert.Len(t, summary.Lines, 1)
}

func TestBuildSummary_MultipleStores(t *testing.T) {
	v := BuildView([]Line{
		activeLine("a", "store-1", 1000, 0, 1, true),
		activeLine("b", "store-2", 2000, 50, 3, true),
		activeLine("c", "store-2", 9000, 0, 1, false),
		withLifecycle(activeLine("d", "store-2", 9000, 0, 1, true), LifecycleDeleted),
	})

	summary, err := BuildSummary(v)

	require.NoError(t, err)
	assert.Equal(t, 1000+1000*3, summary.Amount)
	assert.Equal(t, "item a 외 1건", summary.OrderLabel)
	require.Len(t, summary.Lines, 2)
	assert.Equal(t, "a", summary.Lines[0].LineID)
	assert.Equal(t, "b", summary.Lines[1].LineID)
}

func TestOrderLabel(t *testing.T) {
	lines := []Line{{DisplayName: "우유"}, {DisplayName: "빵"}, {DisplayName: "계란"}}

	assert.Equal(t, "", OrderLabel(nil))
	assert.Equal(t, "우유", OrderLabel(lines[:1]))
	assert.Equal(t, "우유 외 2건", OrderLabel(lines))
}

func TestNewCheckoutRequested(t *testing.T) {
	v := BuildView([]Line{activeLine("a", "store-1", 7900, 10, 2, true)})
	summary, err := BuildSummary(v)
	require.NoError(t, err)
	at := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	event := NewCheckoutRequested("order-1", "user-1", summary, at)

	assert.Equal(t, "order-1", event.OrderID)
	assert.Equal(t, "user-1", event.UserID)
	assert.Equal(t, 14220, event.Amount)
	assert.Equal(t, at, event.RequestedAt)
	require.Len(t, event.Items, 1)
	assert.Equal(t, CheckoutItem{LineID: "a", StoreID: "store-1", ItemName: "item a", SellingPrice: 7110, Quantity: 2}, event.Items[0])
}
