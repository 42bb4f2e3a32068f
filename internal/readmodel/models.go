package readmodel

import "time"

// TotalsReadModel carries the three price sums of a cart or store group
type TotalsReadModel struct {
	OriginalTotal int `json:"original_total"`
	SellingTotal  int `json:"selling_total"`
	DiscountTotal int `json:"discount_total"`
}

// LineReadModel is one cart line as the storefront renders it
type LineReadModel struct {
	LineID        string    `json:"line_id"`
	ItemID        string    `json:"item_id"`
	StoreID       string    `json:"store_id"`
	Name          string    `json:"name"`
	ImageRef      string    `json:"image_ref,omitempty"`
	OriginalPrice int       `json:"original_price"`
	DiscountRate  int       `json:"discount_rate"`
	SellingPrice  int       `json:"selling_price"`
	Quantity      int       `json:"quantity"`
	Stock         *int      `json:"stock,omitempty"`
	Status        string    `json:"status"`
	Purchasable   bool      `json:"purchasable"`
	Selected      bool      `json:"selected"`
	LineTotal     int       `json:"line_total"`
	AddedAt       time.Time `json:"added_at"`
}

// StoreGroupReadModel is one store section of the cart
type StoreGroupReadModel struct {
	StoreID     string          `json:"store_id"`
	StoreName   string          `json:"store_name"`
	AllSelected bool            `json:"all_selected"`
	Lines       []LineReadModel `json:"lines"`
	Totals      TotalsReadModel `json:"totals"`
}

// CartReadModel is the whole multi-store cart
type CartReadModel struct {
	UserID        string                `json:"user_id"`
	Stores        []StoreGroupReadModel `json:"stores"`
	Totals        TotalsReadModel       `json:"totals"`
	SelectedCount int                   `json:"selected_count"`
	EligibleCount int                   `json:"eligible_count"`
	AllSelected   bool                  `json:"all_selected"`
	BuiltAt       time.Time             `json:"built_at"`
}

// CheckoutItemReadModel is a line handed to payment
type CheckoutItemReadModel struct {
	LineID       string `json:"line_id"`
	StoreID      string `json:"store_id"`
	ItemName     string `json:"item_name"`
	SellingPrice int    `json:"selling_price"`
	Quantity     int    `json:"quantity"`
}

// CheckoutReadModel is one payment handoff, as returned by checkout and
// listed in the checkout history
type CheckoutReadModel struct {
	OrderID     string                  `json:"order_id"`
	UserID      string                  `json:"user_id"`
	Amount      int                     `json:"amount"`
	OrderLabel  string                  `json:"order_label"`
	Items       []CheckoutItemReadModel `json:"items"`
	RequestedAt time.Time               `json:"requested_at"`
}
