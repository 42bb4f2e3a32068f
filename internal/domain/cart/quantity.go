package cart

// ClampQuantity bounds a requested quantity for l. It returns false when the
// line cannot take a quantity change at all: it is not ACTIVE, or its known
// stock is zero.
func ClampQuantity(l Line, requested int) (int, bool) {
	if !l.Eligible() {
		return l.Quantity, false
	}
	q := requested
	if q < 1 {
		q = 1
	}
	if l.StockKnown() {
		stock := *l.Stock
		if stock < 1 {
			return l.Quantity, false
		}
		if q > stock {
			q = stock
		}
	}
	return q, true
}
