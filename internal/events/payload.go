package events

import "github.com/aaravmahajanofficial/storefront/internal/models"

// OrderPlaced is the payload of TopicOrderPlaced.
type OrderPlaced struct {
	AccountID string
	Name      string
	Email     string
	Order     models.Order
}

// CartChanged is the payload of TopicCart.
type CartChanged struct {
	ItemCount int
	Total     float64
}
