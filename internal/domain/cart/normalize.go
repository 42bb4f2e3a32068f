package cart

import (
	"fmt"
	"time"
)

// Snapshot is one store's cart as reported by the backend.
type Snapshot struct {
	StoreID   string
	StoreName string
	Lines     []RawLine
}

// RawLine is a backend cart record before normalization. Only the backend
// client and Normalize deal with this shape.
type RawLine struct {
	LineID        string
	ItemID        string
	ItemName      string
	ImageRef      string
	OriginalPrice int
	SellingPrice  *int
	DiscountRate  *int
	Quantity      int
	StatusTag     string
	Stock         *int
	AddedAt       *time.Time
}

// IntegrityWarning records backend data the engine had to correct.
type IntegrityWarning struct {
	StoreID string
	LineID  string
	Reason  string
}

func (w IntegrityWarning) String() string {
	return fmt.Sprintf("store %s line %s: %s", w.StoreID, w.LineID, w.Reason)
}

// Normalize maps a snapshot onto cart lines. Lines come back unselected; the
// engine decides selection. Unknown status tags become DELETED.
func Normalize(s Snapshot, fetchedAt time.Time) ([]Line, []IntegrityWarning) {
	lines := make([]Line, 0, len(s.Lines))
	var warnings []IntegrityWarning

	for _, r := range s.Lines {
		lifecycle, known := Classify(r.StatusTag)
		if !known {
			warnings = append(warnings, IntegrityWarning{
				StoreID: s.StoreID,
				LineID:  r.LineID,
				Reason:  fmt.Sprintf("unknown status tag %q classified as %s", r.StatusTag, LifecycleDeleted),
			})
		}

		original := r.OriginalPrice
		if original < 0 {
			original = 0
		}

		rate := 0
		selling := original
		if r.DiscountRate != nil {
			rate = clamp(*r.DiscountRate, 0, 100)
			selling = DiscountedPrice(original, rate)
		} else if r.SellingPrice != nil {
			selling = clamp(*r.SellingPrice, 0, original)
		}

		addedAt := fetchedAt
		if r.AddedAt != nil && !r.AddedAt.IsZero() {
			addedAt = *r.AddedAt
		}

		qty := r.Quantity
		if qty < 1 {
			qty = 1
		}

		var stock *int
		if r.Stock != nil {
			v := *r.Stock
			if v < 0 {
				v = 0
			}
			stock = &v
			if lifecycle.Eligible() && v > 0 && qty > v {
				warnings = append(warnings, IntegrityWarning{
					StoreID: s.StoreID,
					LineID:  r.LineID,
					Reason:  fmt.Sprintf("quantity %d exceeds stock %d, clamped", qty, v),
				})
				qty = v
			}
		}

		lines = append(lines, Line{
			LineID:        r.LineID,
			ItemID:        r.ItemID,
			StoreID:       s.StoreID,
			StoreName:     s.StoreName,
			DisplayName:   r.ItemName,
			ImageRef:      r.ImageRef,
			OriginalPrice: original,
			DiscountRate:  rate,
			SellingPrice:  selling,
			Quantity:      qty,
			Stock:         stock,
			Lifecycle:     lifecycle,
			AddedAt:       addedAt,
		})
	}
	return lines, warnings
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
