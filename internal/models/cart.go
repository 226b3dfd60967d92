package models

// CartItem is a product snapshot plus the quantity chosen. It encodes flat,
// product fields alongside "quantity".
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Bundle is everything persisted per account.
type Bundle struct {
	Cart   []CartItem `json:"cart"`
	Orders []Order    `json:"orders"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
}

type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type SelectAllRequest struct {
	All bool `json:"all"`
}

// CartView is the cart as the view layer renders it.
type CartView struct {
	Items            []CartItem `json:"items"`
	Selected         []int64    `json:"selected"`
	ItemCount        int        `json:"item_count"`
	Total            float64    `json:"total"`
	SelectedSubtotal float64    `json:"selected_subtotal"`
}
