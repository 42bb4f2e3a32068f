package command

import "github.com/example/storefront-cart/internal/auth"

// Every command runs on behalf of a verified session; the API fills Session
// and path parameters after decoding the body.

type AddToCart struct {
	auth.Session  `json:"-"`
	StoreID       string `json:"-" validate:"required"`
	ItemID        string `json:"item_id" validate:"required"`
	ItemName      string `json:"item_name" validate:"required"`
	OriginalPrice int    `json:"original_price" validate:"gte=0"`
	SellingPrice  int    `json:"selling_price" validate:"gte=0,ltefield=OriginalPrice"`
	Quantity      int    `json:"quantity" validate:"gte=1"`
}

type SelectLine struct {
	auth.Session `json:"-"`
	LineID       string `json:"-" validate:"required"`
}

type SelectStore struct {
	auth.Session `json:"-"`
	StoreID      string `json:"-" validate:"required"`
	Selected     *bool  `json:"selected" validate:"required"`
}

type SelectAll struct {
	auth.Session `json:"-"`
	Selected     *bool `json:"selected" validate:"required"`
}

type SetQuantity struct {
	auth.Session `json:"-"`
	LineID       string `json:"-" validate:"required"`
	Quantity     *int   `json:"quantity" validate:"required"`
}

type RemoveLine struct {
	auth.Session `json:"-"`
	LineID       string `json:"-" validate:"required"`
}

type RemoveSelected struct {
	auth.Session `json:"-"`
}

type ClearStore struct {
	auth.Session `json:"-"`
	StoreID      string `json:"-" validate:"required"`
}

type Checkout struct {
	auth.Session `json:"-"`
}
