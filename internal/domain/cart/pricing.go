package cart

// Totals are the price aggregates over a set of lines.
type Totals struct {
	OriginalTotal int `json:"original_total"`
	SellingTotal  int `json:"selling_total"`
	DiscountTotal int `json:"discount_total"`
}

// DiscountedPrice applies a percentage discount, rounding down.
// Rates outside [0,100] are clamped so the result stays within [0, price].
func DiscountedPrice(price, rate int) int {
	if price <= 0 {
		return 0
	}
	if rate <= 0 {
		return price
	}
	if rate >= 100 {
		return 0
	}
	// Integer arithmetic: price*(100-rate)/100 floors for non-negative operands.
	return price * (100 - rate) / 100
}

// LineTotal is the selling price of a line times its quantity.
func LineTotal(l Line) int {
	return l.SellingPrice * l.Quantity
}

// Aggregate sums original and selling totals over lines. Callers filter the
// lines first; nothing is excluded here.
func Aggregate(lines []Line) Totals {
	var t Totals
	for _, l := range lines {
		t.OriginalTotal += l.OriginalPrice * l.Quantity
		t.SellingTotal += LineTotal(l)
	}
	t.DiscountTotal = t.OriginalTotal - t.SellingTotal
	return t
}

// countedLines returns the ACTIVE and selected lines.
func countedLines(lines []Line) []Line {
	out := make([]Line, 0, len(lines))
	for _, l := range lines {
		if l.Counted() {
			out = append(out, l)
		}
	}
	return out
}
