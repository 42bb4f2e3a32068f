package cart

import "context"

// Backend is the remote cart service that owns the authoritative lines.
// Implementations return ErrSessionExpired when the caller is no longer
// authenticated and a *NetworkError for anything else that went wrong.
type Backend interface {
	// ListStores returns every store cart of the session.
	ListStores(ctx context.Context) ([]Snapshot, error)
	// FetchStore returns one store's cart. A store without a cart may come
	// back as nil or as a snapshot without lines.
	FetchStore(ctx context.Context, storeID string) (*Snapshot, error)
	AddItem(ctx context.Context, storeID string, item NewItem) error
	UpdateQuantity(ctx context.Context, storeID, lineID string, quantity int) error
	RemoveItem(ctx context.Context, storeID, lineID string) error
	ClearStore(ctx context.Context, storeID string) error
}

// NewItem is a product being put into a store cart.
type NewItem struct {
	ItemID        string `json:"itemId" validate:"required"`
	ItemName      string `json:"itemName" validate:"required"`
	OriginalPrice int    `json:"originalPrice" validate:"gte=0"`
	SellingPrice  int    `json:"sellingPrice" validate:"gte=0,ltefield=OriginalPrice"`
	Quantity      int    `json:"quantity" validate:"gte=1"`
}
