package readmodel

import "github.com/example/storefront-cart/internal/domain/cart"

// FromView converts an engine view into the cart read model.
func FromView(userID string, v cart.View) *CartReadModel {
	stores := make([]StoreGroupReadModel, 0, len(v.Groups))
	for _, g := range v.Groups {
		lines := make([]LineReadModel, 0, len(g.Lines))
		for _, l := range g.Lines {
			lines = append(lines, fromLine(l))
		}
		stores = append(stores, StoreGroupReadModel{
			StoreID:     g.StoreID,
			StoreName:   g.StoreName,
			AllSelected: g.IsAllSelected,
			Lines:       lines,
			Totals:      fromTotals(g.Totals),
		})
	}
	return &CartReadModel{
		UserID:        userID,
		Stores:        stores,
		Totals:        fromTotals(v.Totals),
		SelectedCount: v.SelectedCount,
		EligibleCount: v.EligibleCount,
		AllSelected:   v.AllSelected,
		BuiltAt:       v.BuiltAt,
	}
}

func fromLine(l cart.Line) LineReadModel {
	var stock *int
	if l.Stock != nil {
		n := *l.Stock
		stock = &n
	}
	return LineReadModel{
		LineID:        l.LineID,
		ItemID:        l.ItemID,
		StoreID:       l.StoreID,
		Name:          l.DisplayName,
		ImageRef:      l.ImageRef,
		OriginalPrice: l.OriginalPrice,
		DiscountRate:  l.DiscountRate,
		SellingPrice:  l.SellingPrice,
		Quantity:      l.Quantity,
		Stock:         stock,
		Status:        string(l.Lifecycle),
		Purchasable:   l.Eligible(),
		Selected:      l.IsSelected,
		LineTotal:     cart.LineTotal(l),
		AddedAt:       l.AddedAt,
	}
}

func fromTotals(t cart.Totals) TotalsReadModel {
	return TotalsReadModel{
		OriginalTotal: t.OriginalTotal,
		SellingTotal:  t.SellingTotal,
		DiscountTotal: t.DiscountTotal,
	}
}

// FromCheckout converts a checkout handoff event into its read model.
func FromCheckout(e cart.CheckoutRequested) *CheckoutReadModel {
	items := make([]CheckoutItemReadModel, 0, len(e.Items))
	for _, it := range e.Items {
		items = append(items, CheckoutItemReadModel{
			LineID:       it.LineID,
			StoreID:      it.StoreID,
			ItemName:     it.ItemName,
			SellingPrice: it.SellingPrice,
			Quantity:     it.Quantity,
		})
	}
	return &CheckoutReadModel{
		OrderID:     e.OrderID,
		UserID:      e.UserID,
		Amount:      e.Amount,
		OrderLabel:  e.OrderLabel,
		Items:       items,
		RequestedAt: e.RequestedAt,
	}
}
