package service

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
)

// CheckoutService turns the current selection into orders on the ledger.
type CheckoutService struct {
	gateway     repository.Gateway
	validate    *validator.Validate
	bus         *events.Bus
	state       *shopper
	cart        *CartStore
	ledger      *OrderLedger
	shippingFee float64
	now         func() time.Time
}

func newCheckoutService(gw repository.Gateway, validate *validator.Validate, bus *events.Bus, state *shopper, cart *CartStore, ledger *OrderLedger, shippingFee float64, now func() time.Time) *CheckoutService {
	return &CheckoutService{
		gateway:     gw,
		validate:    validate,
		bus:         bus,
		state:       state,
		cart:        cart,
		ledger:      ledger,
		shippingFee: shippingFee,
		now:         now,
	}
}

// Checkout turns the selected cart lines into one pending order. The order
// and the trimmed cart are saved in a single write; if that write fails the
// cart, selection and ledger are left as they were.
func (s *CheckoutService) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.Order, error) {

	logger := middleware.LoggerFromContext(ctx)

	account, err := s.state.requireAccount()
	if err != nil {
		return nil, err
	}

	if len(s.state.selected) == 0 {
		return nil, errors.AddValidationError("selection", "select at least one item")
	}

	req.Shipping.FullName = utils.SanitizeText(req.Shipping.FullName)
	req.Shipping.Email = strings.TrimSpace(req.Shipping.Email)
	req.Shipping.Phone = utils.SanitizeText(req.Shipping.Phone)
	req.Shipping.Address = utils.SanitizeText(req.Shipping.Address)
	req.PaymentMethod = utils.SanitizeText(req.PaymentMethod)

	if err := utils.Validate(s.validate, req); err != nil {
		return nil, err
	}

	items := s.cart.SelectedItems()
	sub := subtotal(items)
	createdAt := s.now().UTC()

	order := models.Order{
		ID:            s.ledger.nextID(createdAt.UnixMilli()),
		CreatedAt:     createdAt,
		Items:         items,
		Subtotal:      sub,
		ShippingFee:   s.shippingFee,
		Total:         sub + s.shippingFee,
		Status:        models.OrderStatusPending,
		Shipping:      req.Shipping,
		PaymentMethod: req.PaymentMethod,
	}

	orders := append(slices.Clone(s.state.orders), order)
	cart := slices.DeleteFunc(slices.Clone(s.state.cart), func(i models.CartItem) bool {
		return s.state.isSelected(i.ID)
	})

	if err := saveBundle(ctx, s.gateway, account, cart, orders); err != nil {
		return nil, err
	}

	s.state.orders = orders
	s.state.cart = cart
	s.state.selected = []int64{}

	logger.Info("Order placed",
		slog.Int64("order_id", order.ID),
		slog.Int("items", len(order.Items)),
		slog.Float64("total", order.Total),
	)

	s.cart.publishCart(ctx, "checkout")
	s.bus.Publish(ctx, events.TopicSelection, "checkout", s.cart.Selected())
	s.bus.Publish(ctx, events.TopicOrders, "append", len(orders))
	s.bus.Publish(ctx, events.TopicOrderPlaced, "checkout", events.OrderPlaced{
		AccountID: account.ID,
		Name:      account.Name,
		Email:     account.Email,
		Order:     order,
	})

	return &order, nil
}

// BuyNow adds one unit of the product, selects only that line and checks
// out. If checkout fails the product stays in the cart, selected.
func (s *CheckoutService) BuyNow(ctx context.Context, productID int64, req *models.CheckoutRequest) (*models.Order, error) {

	if err := s.cart.AddItem(ctx, productID); err != nil {
		return nil, err
	}

	s.cart.selectOnly(ctx, productID)

	return s.Checkout(ctx, req)
}
