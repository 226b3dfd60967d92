package repository

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/storage"
)

// Gateway persists the account directory, the session record and each
// account's cart/order bundle. It performs no validation of its own.
type Gateway interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	SaveAccounts(ctx context.Context, accounts []models.Account) error
	LoadSession(ctx context.Context) (*models.Account, error)
	SaveSession(ctx context.Context, account *models.Account) error
	ClearSession(ctx context.Context) error
	LoadBundle(ctx context.Context, accountID string) (*models.Bundle, error)
	SaveBundle(ctx context.Context, accountID string, bundle *models.Bundle) error
}

type gateway struct {
	store  storage.Store
	prefix string
}

func NewGateway(store storage.Store, prefix string) Gateway {
	return &gateway{store: store, prefix: prefix}
}

func (g *gateway) accountsKey() string {
	return storage.Key(g.prefix, storage.AccountsKey)
}

func (g *gateway) sessionKey() string {
	return storage.Key(g.prefix, storage.SessionKey)
}

func (g *gateway) bundleKey(accountID string) string {
	return storage.Key(g.prefix, storage.UserKey, accountID, storage.DataSuffix)
}

func (g *gateway) ListAccounts(ctx context.Context) ([]models.Account, error) {

	accounts := []models.Account{}

	if _, err := g.store.Get(ctx, g.accountsKey(), &accounts); err != nil {
		return nil, fmt.Errorf("failed to read account directory: %w", err)
	}

	if accounts == nil {
		accounts = []models.Account{}
	}

	return accounts, nil
}

func (g *gateway) SaveAccounts(ctx context.Context, accounts []models.Account) error {

	if accounts == nil {
		accounts = []models.Account{}
	}

	if err := g.store.Set(ctx, g.accountsKey(), accounts); err != nil {
		return fmt.Errorf("failed to write account directory: %w", err)
	}

	middleware.LoggerFromContext(ctx).Debug("Account directory saved", slog.Int("accounts", len(accounts)))

	return nil
}

// LoadSession returns nil when nobody is logged in.
func (g *gateway) LoadSession(ctx context.Context) (*models.Account, error) {

	var account models.Account

	found, err := g.store.Get(ctx, g.sessionKey(), &account)
	if err != nil {
		return nil, fmt.Errorf("failed to read session record: %w", err)
	}

	if !found || account.ID == "" {
		return nil, nil
	}

	return &account, nil
}

func (g *gateway) SaveSession(ctx context.Context, account *models.Account) error {

	if err := g.store.Set(ctx, g.sessionKey(), account); err != nil {
		return fmt.Errorf("failed to write session record: %w", err)
	}

	return nil
}

func (g *gateway) ClearSession(ctx context.Context) error {

	if err := g.store.Delete(ctx, g.sessionKey()); err != nil {
		return fmt.Errorf("failed to remove session record: %w", err)
	}

	return nil
}

// LoadBundle returns an empty bundle for accounts that never saved one.
func (g *gateway) LoadBundle(ctx context.Context, accountID string) (*models.Bundle, error) {

	bundle := &models.Bundle{}

	if _, err := g.store.Get(ctx, g.bundleKey(accountID), bundle); err != nil {
		return nil, fmt.Errorf("failed to read data for account %s: %w", accountID, err)
	}

	normalize(bundle)

	return bundle, nil
}

func (g *gateway) SaveBundle(ctx context.Context, accountID string, bundle *models.Bundle) error {

	if bundle == nil {
		bundle = &models.Bundle{}
	}

	normalize(bundle)

	if err := g.store.Set(ctx, g.bundleKey(accountID), bundle); err != nil {
		return fmt.Errorf("failed to write data for account %s: %w", accountID, err)
	}

	middleware.LoggerFromContext(ctx).Debug("Account data saved",
		slog.String("account_id", accountID),
		slog.Int("cart_items", len(bundle.Cart)),
		slog.Int("orders", len(bundle.Orders)),
	)

	return nil
}

func normalize(b *models.Bundle) {
	if b.Cart == nil {
		b.Cart = []models.CartItem{}
	}

	if b.Orders == nil {
		b.Orders = []models.Order{}
	}
}
