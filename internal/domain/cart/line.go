package cart

import "time"

// Lifecycle is the purchasability state of a cart line.
type Lifecycle string

const (
	LifecycleActive  Lifecycle = "ACTIVE"
	LifecycleSoldOut Lifecycle = "SOLDOUT"
	LifecycleDeleted Lifecycle = "DELETED"
)

// Eligible reports whether a line in this state may be selected,
// quantity-edited, or counted in totals and checkout.
func (l Lifecycle) Eligible() bool {
	return l == LifecycleActive
}

// Line is one purchasable unit within one store's cart.
type Line struct {
	LineID        string    `json:"line_id"`
	ItemID        string    `json:"item_id,omitempty"`
	StoreID       string    `json:"store_id"`
	StoreName     string    `json:"store_name,omitempty"`
	DisplayName   string    `json:"display_name"`
	ImageRef      string    `json:"image_ref,omitempty"`
	OriginalPrice int       `json:"original_price"`
	DiscountRate  int       `json:"discount_rate"`
	SellingPrice  int       `json:"selling_price"`
	Quantity      int       `json:"quantity"`
	Stock         *int      `json:"stock,omitempty"` // nil when the backend does not report stock
	Lifecycle     Lifecycle `json:"lifecycle"`
	IsSelected    bool      `json:"is_selected"`
	AddedAt       time.Time `json:"added_at"`
}

// Eligible reports whether the line is ACTIVE.
func (l Line) Eligible() bool {
	return l.Lifecycle.Eligible()
}

// Counted reports whether the line contributes to totals and checkout.
func (l Line) Counted() bool {
	return l.Eligible() && l.IsSelected
}

// StockKnown reports whether the backend supplied a stock figure.
func (l Line) StockKnown() bool {
	return l.Stock != nil
}

// StoreGroup holds every line of one store plus aggregates derived from them.
type StoreGroup struct {
	StoreID       string `json:"store_id"`
	StoreName     string `json:"store_name,omitempty"`
	Lines         []Line `json:"lines"`
	IsAllSelected bool   `json:"is_all_selected"`
	Totals
}

// View is the read-only grouping of a snapshot.
type View struct {
	Groups        []StoreGroup `json:"groups"`
	Totals        Totals       `json:"totals"`
	SelectedCount int          `json:"selected_count"`
	EligibleCount int          `json:"eligible_count"`
	AllSelected   bool         `json:"all_selected"`
	BuiltAt       time.Time    `json:"built_at"`
}

// Lines flattens the view back into its lines, in group order.
func (v View) Lines() []Line {
	var out []Line
	for _, g := range v.Groups {
		out = append(out, g.Lines...)
	}
	return out
}

// FindLine locates a line by id.
func (v View) FindLine(lineID string) (Line, bool) {
	for _, g := range v.Groups {
		for _, l := range g.Lines {
			if l.LineID == lineID {
				return l, true
			}
		}
	}
	return Line{}, false
}

// FindGroup locates a store group by store id.
func (v View) FindGroup(storeID string) (StoreGroup, bool) {
	for _, g := range v.Groups {
		if g.StoreID == storeID {
			return g, true
		}
	}
	return StoreGroup{}, false
}

// IntPtr returns a pointer to n. Handy for stock figures.
func IntPtr(n int) *int {
	return &n
}
