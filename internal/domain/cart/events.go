package cart

import "time"

const (
	AggregateType          = "Cart"
	EventCheckoutRequested = "CheckoutRequested"
)

// CheckoutRequested hands a checkout summary to the payment collaborator.
type CheckoutRequested struct {
	OrderID     string         `json:"order_id"`
	UserID      string         `json:"user_id"`
	Amount      int            `json:"amount"`
	OrderLabel  string         `json:"order_label"`
	Items       []CheckoutItem `json:"items"`
	RequestedAt time.Time      `json:"requested_at"`
}

// CheckoutItem is one line of a checkout handoff.
type CheckoutItem struct {
	LineID       string `json:"line_id"`
	StoreID      string `json:"store_id"`
	ItemName     string `json:"item_name"`
	SellingPrice int    `json:"selling_price"`
	Quantity     int    `json:"quantity"`
}

// NewCheckoutRequested converts a summary into the handoff event.
func NewCheckoutRequested(orderID, userID string, s *Summary, at time.Time) CheckoutRequested {
	items := make([]CheckoutItem, 0, len(s.Lines))
	for _, l := range s.Lines {
		items = append(items, CheckoutItem{
			LineID:       l.LineID,
			StoreID:      l.StoreID,
			ItemName:     l.DisplayName,
			SellingPrice: l.SellingPrice,
			Quantity:     l.Quantity,
		})
	}
	return CheckoutRequested{
		OrderID:     orderID,
		UserID:      userID,
		Amount:      s.Amount,
		OrderLabel:  s.OrderLabel,
		Items:       items,
		RequestedAt: at,
	}
}
