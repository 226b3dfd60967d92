package service

import (
	"context"
	"log/slog"
	"slices"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
)

// shopper is the in-memory state of the current browser context: who is
// logged in, their cart, the selection and their orders. The session, cart
// and order stores share one shopper.
type shopper struct {
	account  *models.Account
	cart     []models.CartItem
	selected []int64
	orders   []models.Order
}

func (s *shopper) requireAccount() (*models.Account, error) {
	if s.account == nil {
		return nil, errors.AuthRequiredError("Please log in to continue")
	}

	return s.account, nil
}

// reset switches the state to account with the given bundle. The selection
// always starts empty.
func (s *shopper) reset(account *models.Account, bundle *models.Bundle) {
	s.account = account
	s.selected = []int64{}

	if bundle == nil {
		s.cart = []models.CartItem{}
		s.orders = []models.Order{}

		return
	}

	s.cart = slices.Clone(bundle.Cart)
	s.orders = slices.Clone(bundle.Orders)
}

func (s *shopper) cartIndex(productID int64) int {
	return slices.IndexFunc(s.cart, func(i models.CartItem) bool { return i.ID == productID })
}

func (s *shopper) isSelected(productID int64) bool {
	return slices.Contains(s.selected, productID)
}

// saveBundle writes cart and orders for account in one gateway call.
func saveBundle(ctx context.Context, gw repository.Gateway, account *models.Account, cart []models.CartItem, orders []models.Order) error {

	bundle := &models.Bundle{Cart: cart, Orders: orders}

	if err := gw.SaveBundle(ctx, account.ID, bundle); err != nil {
		middleware.LoggerFromContext(ctx).Error("Failed to save account data", slog.String("account_id", account.ID), slog.Any("error", err))
		return errors.DatabaseError("Failed to save your data").WithError(err)
	}

	return nil
}

func without(ids []int64, id int64) []int64 {
	return slices.DeleteFunc(slices.Clone(ids), func(v int64) bool { return v == id })
}
