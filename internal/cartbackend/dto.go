package cartbackend

import (
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/example/storefront-cart/internal/domain/cart"
)

// storeDTO is the wire shape of one store cart.
type storeDTO struct {
	StoreID   string    `json:"storeId"`
	StoreName string    `json:"storeName"`
	Lines     []lineDTO `json:"lines"`
}

type lineDTO struct {
	LineID        string     `json:"lineId" validate:"required"`
	ItemID        string     `json:"itemId"`
	ItemName      string     `json:"itemName"`
	ImageRef      string     `json:"imageRef"`
	OriginalPrice int        `json:"originalPrice" validate:"gte=0"`
	SellingPrice  *int       `json:"sellingPrice" validate:"omitempty,gte=0"`
	DiscountRate  *int       `json:"discountRate" validate:"omitempty,gte=0,lte=100"`
	Quantity      int        `json:"quantity" validate:"gte=0"`
	StatusTag     string     `json:"statusTag"`
	Stock         *int       `json:"stock"`
	AddedAt       *time.Time `json:"addedAt"`
}

type quantityRequest struct {
	LineID   string `json:"lineId"`
	Quantity int    `json:"quantity"`
}

type removeRequest struct {
	LineID string `json:"lineId"`
}

// toSnapshot converts a store payload, dropping lines that fail validation.
func toSnapshot(dto storeDTO, fallbackStoreID string, validate *validator.Validate, logger *zap.Logger) cart.Snapshot {
	storeID := dto.StoreID
	if storeID == "" {
		storeID = fallbackStoreID
	}

	snap := cart.Snapshot{
		StoreID:   storeID,
		StoreName: dto.StoreName,
		Lines:     make([]cart.RawLine, 0, len(dto.Lines)),
	}
	for _, l := range dto.Lines {
		if err := validate.Struct(l); err != nil {
			invalidLinesTotal.Inc()
			logger.Warn("dropping invalid cart line",
				zap.String("store_id", storeID),
				zap.String("line_id", l.LineID),
				zap.Error(err),
			)
			continue
		}
		snap.Lines = append(snap.Lines, cart.RawLine{
			LineID:        l.LineID,
			ItemID:        l.ItemID,
			ItemName:      l.ItemName,
			ImageRef:      l.ImageRef,
			OriginalPrice: l.OriginalPrice,
			SellingPrice:  l.SellingPrice,
			DiscountRate:  l.DiscountRate,
			Quantity:      l.Quantity,
			StatusTag:     l.StatusTag,
			Stock:         l.Stock,
			AddedAt:       l.AddedAt,
		})
	}
	return snap
}
