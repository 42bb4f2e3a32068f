package readmodel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/storefront-cart/internal/domain/cart"
)

func TestFromView(t *testing.T) {
	added := time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC)
	v := cart.BuildView([]cart.Line{
		{LineID: "a", StoreID: "s1", StoreName: "동네마트", DisplayName: "사과", OriginalPrice: 10000, DiscountRate: 10, SellingPrice: 9000, Quantity: 2, Stock: cart.IntPtr(3), Lifecycle: cart.LifecycleActive, IsSelected: true, AddedAt: added},
		{LineID: "b", StoreID: "s1", StoreName: "동네마트", DisplayName: "배", OriginalPrice: 3000, SellingPrice: 3000, Quantity: 1, Lifecycle: cart.LifecycleSoldOut},
	})

	rm := FromView("user-1", v)

	assert.Equal(t, "user-1", rm.UserID)
	require.Len(t, rm.Stores, 1)
	s := rm.Stores[0]
	assert.Equal(t, "동네마트", s.StoreName)
	assert.True(t, s.AllSelected)
	require.Len(t, s.Lines, 2)

	a := s.Lines[0]
	assert.Equal(t, "사과", a.Name)
	assert.Equal(t, "ACTIVE", a.Status)
	assert.True(t, a.Purchasable)
	assert.True(t, a.Selected)
	assert.Equal(t, 18000, a.LineTotal)
	assert.Equal(t, 3, *a.Stock)
	assert.Equal(t, added, a.AddedAt)

	b := s.Lines[1]
	assert.Equal(t, "SOLDOUT", b.Status)
	assert.False(t, b.Purchasable)
	assert.Nil(t, b.Stock)

	assert.Equal(t, TotalsReadModel{OriginalTotal: 20000, SellingTotal: 18000, DiscountTotal: 2000}, rm.Totals)
	assert.Equal(t, 1, rm.SelectedCount)
}

func TestFromView_Empty(t *testing.T) {
	rm := FromView("user-1", cart.BuildView(nil))

	assert.NotNil(t, rm.Stores, "an empty cart renders as [] rather than null")
	assert.Empty(t, rm.Stores)
}

func TestFromCheckout(t *testing.T) {
	at := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	e := cart.CheckoutRequested{
		OrderID:    "order-1",
		UserID:     "user-1",
		Amount:     14220,
		OrderLabel: "사과",
		Items: []cart.CheckoutItem{
			{LineID: "a", StoreID: "s1", ItemName: "사과", SellingPrice: 7110, Quantity: 2},
		},
		RequestedAt: at,
	}

	rm := FromCheckout(e)

	assert.Equal(t, "order-1", rm.OrderID)
	assert.Equal(t, 14220, rm.Amount)
	assert.Equal(t, at, rm.RequestedAt)
	require.Len(t, rm.Items, 1)
	assert.Equal(t, CheckoutItemReadModel{LineID: "a", StoreID: "s1", ItemName: "사과", SellingPrice: 7110, Quantity: 2}, rm.Items[0])
}
