package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

// CartStore owns the current account's cart and the checkout selection.
// Cart changes are saved before they are committed in memory; the selection
// is never persisted.
type CartStore struct {
	gateway repository.Gateway
	catalog *CatalogStore
	bus     *events.Bus
	state   *shopper
}

func newCartStore(gw repository.Gateway, catalog *CatalogStore, bus *events.Bus, state *shopper) *CartStore {
	return &CartStore{gateway: gw, catalog: catalog, bus: bus, state: state}
}

// AddItem adds one unit of the product, creating the line if needed.
func (s *CartStore) AddItem(ctx context.Context, productID int64) error {

	account, err := s.state.requireAccount()
	if err != nil {
		return err
	}

	product, err := s.catalog.Product(productID)
	if err != nil {
		return err
	}

	cart := slices.Clone(s.state.cart)

	if i := s.state.cartIndex(productID); i >= 0 {
		cart[i].Quantity++
	} else {
		cart = append(cart, models.CartItem{Product: product, Quantity: 1})
	}

	if err := saveBundle(ctx, s.gateway, account, cart, s.state.orders); err != nil {
		return err
	}

	s.state.cart = cart

	middleware.LoggerFromContext(ctx).Debug("Added to cart", slog.Int64("product_id", productID))
	s.publishCart(ctx, "add")

	return nil
}

// RemoveItem drops the line and its selection entry together.
func (s *CartStore) RemoveItem(ctx context.Context, productID int64) error {

	account, err := s.state.requireAccount()
	if err != nil {
		return err
	}

	i := s.state.cartIndex(productID)
	if i < 0 {
		return errors.NotFoundError("Item not in cart")
	}

	cart := slices.Delete(slices.Clone(s.state.cart), i, i+1)

	if err := saveBundle(ctx, s.gateway, account, cart, s.state.orders); err != nil {
		return err
	}

	wasSelected := s.state.isSelected(productID)

	s.state.cart = cart
	s.state.selected = without(s.state.selected, productID)

	s.publishCart(ctx, "remove")

	if wasSelected {
		s.bus.Publish(ctx, events.TopicSelection, "remove", s.Selected())
	}

	return nil
}

// SetQuantity sets the line quantity; zero or less removes the line.
func (s *CartStore) SetQuantity(ctx context.Context, productID int64, quantity int) error {

	if quantity <= 0 {
		return s.RemoveItem(ctx, productID)
	}

	account, err := s.state.requireAccount()
	if err != nil {
		return err
	}

	i := s.state.cartIndex(productID)
	if i < 0 {
		return errors.NotFoundError("Item not in cart")
	}

	cart := slices.Clone(s.state.cart)
	cart[i].Quantity = quantity

	if err := saveBundle(ctx, s.gateway, account, cart, s.state.orders); err != nil {
		return err
	}

	s.state.cart = cart

	s.publishCart(ctx, "quantity")

	return nil
}

func (s *CartStore) ToggleSelection(ctx context.Context, productID int64) error {

	if _, err := s.state.requireAccount(); err != nil {
		return err
	}

	if s.state.cartIndex(productID) < 0 {
		return errors.NotFoundError("Item not in cart")
	}

	if s.state.isSelected(productID) {
		s.state.selected = without(s.state.selected, productID)
	} else {
		s.state.selected = append(slices.Clone(s.state.selected), productID)
	}

	s.bus.Publish(ctx, events.TopicSelection, "toggle", s.Selected())

	return nil
}

// SelectAll selects every cart line in cart order, or clears the selection.
func (s *CartStore) SelectAll(ctx context.Context, all bool) error {

	if _, err := s.state.requireAccount(); err != nil {
		return err
	}

	selected := []int64{}

	if all {
		for _, item := range s.state.cart {
			selected = append(selected, item.ID)
		}
	}

	s.state.selected = selected

	s.bus.Publish(ctx, events.TopicSelection, "all", s.Selected())

	return nil
}

// selectOnly replaces the selection with a single cart line.
func (s *CartStore) selectOnly(ctx context.Context, productID int64) {
	s.state.selected = []int64{productID}
	s.bus.Publish(ctx, events.TopicSelection, "only", s.Selected())
}

func (s *CartStore) Items() []models.CartItem {
	return slices.Clone(s.state.cart)
}

func (s *CartStore) Selected() []int64 {
	selected := slices.Clone(s.state.selected)
	if selected == nil {
		selected = []int64{}
	}

	return selected
}

// ItemCount is the sum of quantities, shown on the cart badge.
func (s *CartStore) ItemCount() int {
	n := 0
	for _, item := range s.state.cart {
		n += item.Quantity
	}

	return n
}

// Total covers every line, selected or not.
func (s *CartStore) Total() float64 {
	return subtotal(s.state.cart)
}

// SelectedItems returns the selected lines in cart order.
func (s *CartStore) SelectedItems() []models.CartItem {
	items := []models.CartItem{}

	for _, item := range s.state.cart {
		if s.state.isSelected(item.ID) {
			items = append(items, item)
		}
	}

	return items
}

func (s *CartStore) SelectedSubtotal() float64 {
	return subtotal(s.SelectedItems())
}

func (s *CartStore) View() models.CartView {
	items := s.Items()
	if items == nil {
		items = []models.CartItem{}
	}

	return models.CartView{
		Items:            items,
		Selected:         s.Selected(),
		ItemCount:        s.ItemCount(),
		Total:            s.Total(),
		SelectedSubtotal: s.SelectedSubtotal(),
	}
}

func (s *CartStore) publishCart(ctx context.Context, action string) {
	s.bus.Publish(ctx, events.TopicCart, action, events.CartChanged{ItemCount: s.ItemCount(), Total: s.Total()})
}

func subtotal(items []models.CartItem) float64 {
	total := 0.0
	for _, item := range items {
		total += item.LineTotal()
	}

	return total
}
