package service

import (
	"slices"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
)

// OrderLedger is the read side of the current account's order history.
// Orders are only ever appended, by checkout.
type OrderLedger struct {
	state *shopper
}

func newOrderLedger(state *shopper) *OrderLedger {
	return &OrderLedger{state: state}
}

// Orders returns the history in creation order.
func (l *OrderLedger) Orders() []models.Order {
	orders := slices.Clone(l.state.orders)
	if orders == nil {
		orders = []models.Order{}
	}

	return orders
}

func (l *OrderLedger) Order(id int64) (models.Order, error) {

	i := slices.IndexFunc(l.state.orders, func(o models.Order) bool { return o.ID == id })
	if i < 0 {
		return models.Order{}, errors.NotFoundError("Order not found")
	}

	return l.state.orders[i], nil
}

func (l *OrderLedger) Count() int {
	return len(l.state.orders)
}

func (l *OrderLedger) TotalSpent() float64 {
	total := 0.0
	for _, o := range l.state.orders {
		total += o.Total
	}

	return total
}

// nextID derives an id from the creation time, bumped past the newest order
// so ids stay strictly increasing.
func (l *OrderLedger) nextID(createdMillis int64) int64 {
	if n := len(l.state.orders); n > 0 && l.state.orders[n-1].ID >= createdMillis {
		return l.state.orders[n-1].ID + 1
	}

	return createdMillis
}
