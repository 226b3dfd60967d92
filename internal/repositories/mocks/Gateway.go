package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/stretchr/testify/mock"
)

// Gateway is a testify mock of repository.Gateway.
type Gateway struct {
	mock.Mock
}

func (m *Gateway) ListAccounts(ctx context.Context) ([]models.Account, error) {
	args := m.Called(ctx)

	accounts, _ := args.Get(0).([]models.Account)

	return accounts, args.Error(1)
}

func (m *Gateway) SaveAccounts(ctx context.Context, accounts []models.Account) error {
	args := m.Called(ctx, accounts)

	return args.Error(0)
}

func (m *Gateway) LoadSession(ctx context.Context) (*models.Account, error) {
	args := m.Called(ctx)

	account, _ := args.Get(0).(*models.Account)

	return account, args.Error(1)
}

func (m *Gateway) SaveSession(ctx context.Context, account *models.Account) error {
	args := m.Called(ctx, account)

	return args.Error(0)
}

func (m *Gateway) ClearSession(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *Gateway) LoadBundle(ctx context.Context, accountID string) (*models.Bundle, error) {
	args := m.Called(ctx, accountID)

	bundle, _ := args.Get(0).(*models.Bundle)

	return bundle, args.Error(1)
}

func (m *Gateway) SaveBundle(ctx context.Context, accountID string, bundle *models.Bundle) error {
	args := m.Called(ctx, accountID, bundle)

	return args.Error(0)
}
