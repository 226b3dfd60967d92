package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Demo account seeded into an empty directory when seeding is enabled.
const (
	DemoName     = "Test User"
	DemoEmail    = "test@example.com"
	DemoPassword = "123456"
)

type SessionStore struct {
	gateway    repository.Gateway
	validate   *validator.Validate
	bus        *events.Bus
	state      *shopper
	bcryptCost int
	now        func() time.Time
}

func newSessionStore(gw repository.Gateway, validate *validator.Validate, bus *events.Bus, state *shopper, bcryptCost int, now func() time.Time) *SessionStore {
	return &SessionStore{
		gateway:    gw,
		validate:   validate,
		bus:        bus,
		state:      state,
		bcryptCost: bcryptCost,
		now:        now,
	}
}

// Current returns a copy of the logged-in account, or nil.
func (s *SessionStore) Current() *models.Account {
	if s.state.account == nil {
		return nil
	}

	account := *s.state.account

	return &account
}

func (s *SessionStore) Register(ctx context.Context, req *models.RegisterRequest) (*models.Account, error) {

	logger := middleware.LoggerFromContext(ctx)

	req.Name = utils.SanitizeText(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := utils.Validate(s.validate, req); err != nil {
		return nil, err
	}

	accounts, err := s.gateway.ListAccounts(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to read accounts").WithError(err)
	}

	if _, ok := findByEmail(accounts, req.Email); ok {
		return nil, errors.DuplicateEntryError("Email already registered").WithField("email")
	}

	hashedPassword, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	account := models.Account{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Password: hashedPassword,
		JoinedAt: s.now().UTC(),
	}

	if err := s.savePrevious(ctx); err != nil {
		return nil, err
	}

	if err := s.gateway.SaveAccounts(ctx, append(accounts, account)); err != nil {
		return nil, errors.DatabaseError("Failed to create account").WithError(err)
	}

	if err := s.gateway.SaveSession(ctx, &account); err != nil {
		return nil, errors.DatabaseError("Failed to start session").WithError(err)
	}

	s.state.reset(&account, nil)

	logger.Info("Account registered", slog.String("account_id", account.ID))
	s.bus.Publish(ctx, events.TopicSession, "register", account.ID)

	return s.Current(), nil
}

func (s *SessionStore) Login(ctx context.Context, req *models.LoginRequest) (*models.Account, error) {

	logger := middleware.LoggerFromContext(ctx)

	req.Email = strings.TrimSpace(req.Email)

	if err := utils.Validate(s.validate, req); err != nil {
		return nil, err
	}

	accounts, err := s.gateway.ListAccounts(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to read accounts").WithError(err)
	}

	i, ok := findByEmail(accounts, req.Email)
	if !ok || bcrypt.CompareHashAndPassword([]byte(accounts[i].Password), []byte(req.Password)) != nil {
		logger.Warn("Login rejected")
		return nil, errors.UnauthorizedError("Invalid email or password")
	}

	account := accounts[i]

	if err := s.savePrevious(ctx); err != nil {
		return nil, err
	}

	bundle, err := s.gateway.LoadBundle(ctx, account.ID)
	if err != nil {
		return nil, errors.DatabaseError("Failed to load your data").WithError(err)
	}

	if err := s.gateway.SaveSession(ctx, &account); err != nil {
		return nil, errors.DatabaseError("Failed to start session").WithError(err)
	}

	s.state.reset(&account, bundle)

	logger.Info("Logged in", slog.String("account_id", account.ID), slog.Int("cart_items", len(bundle.Cart)), slog.Int("orders", len(bundle.Orders)))
	s.bus.Publish(ctx, events.TopicSession, "login", account.ID)

	return s.Current(), nil
}

func (s *SessionStore) Logout(ctx context.Context) error {

	account, err := s.state.requireAccount()
	if err != nil {
		return err
	}

	if err := saveBundle(ctx, s.gateway, account, s.state.cart, s.state.orders); err != nil {
		return err
	}

	if err := s.gateway.ClearSession(ctx); err != nil {
		return errors.DatabaseError("Failed to end session").WithError(err)
	}

	s.state.reset(nil, nil)

	middleware.LoggerFromContext(ctx).Info("Logged out", slog.String("account_id", account.ID))
	s.bus.Publish(ctx, events.TopicSession, "logout", account.ID)

	return nil
}

// UpdateProfile changes name and email in both the directory and the
// session record. The email must stay unique across accounts.
func (s *SessionStore) UpdateProfile(ctx context.Context, req *models.ProfileRequest) (*models.Account, error) {

	current, err := s.state.requireAccount()
	if err != nil {
		return nil, err
	}

	req.Name = utils.SanitizeText(req.Name)
	req.Email = strings.TrimSpace(req.Email)

	if err := utils.Validate(s.validate, req); err != nil {
		return nil, err
	}

	accounts, err := s.gateway.ListAccounts(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to read accounts").WithError(err)
	}

	if i, ok := findByEmail(accounts, req.Email); ok && accounts[i].ID != current.ID {
		return nil, errors.DuplicateEntryError("Email already registered").WithField("email")
	}

	updated := *current
	updated.Name = req.Name
	updated.Email = req.Email

	for i := range accounts {
		if accounts[i].ID == updated.ID {
			accounts[i].Name = updated.Name
			accounts[i].Email = updated.Email
		}
	}

	if err := s.gateway.SaveAccounts(ctx, accounts); err != nil {
		return nil, errors.DatabaseError("Failed to update profile").WithError(err)
	}

	if err := s.gateway.SaveSession(ctx, &updated); err != nil {
		return nil, errors.DatabaseError("Failed to update profile").WithError(err)
	}

	s.state.account = &updated

	s.bus.Publish(ctx, events.TopicSession, "profile", updated.ID)

	return s.Current(), nil
}

// Restore picks up the session left by a previous run, if any.
func (s *SessionStore) Restore(ctx context.Context) error {

	account, err := s.gateway.LoadSession(ctx)
	if err != nil {
		return errors.DatabaseError("Failed to read session").WithError(err)
	}

	if account == nil {
		s.state.reset(nil, nil)
		return nil
	}

	bundle, err := s.gateway.LoadBundle(ctx, account.ID)
	if err != nil {
		return errors.DatabaseError("Failed to load your data").WithError(err)
	}

	s.state.reset(account, bundle)

	middleware.LoggerFromContext(ctx).Info("Session restored", slog.String("account_id", account.ID))
	s.bus.Publish(ctx, events.TopicSession, "restore", account.ID)

	return nil
}

func (s *SessionStore) Profile() (*models.Profile, error) {

	account, err := s.state.requireAccount()
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:          account.ID,
		Name:        account.Name,
		Email:       account.Email,
		MemberSince: account.JoinedAt,
		OrderCount:  len(s.state.orders),
	}

	for _, o := range s.state.orders {
		profile.TotalSpent += o.Total
	}

	return profile, nil
}

// SeedDemoAccounts adds the demo account when the directory is empty.
func (s *SessionStore) SeedDemoAccounts(ctx context.Context) error {

	accounts, err := s.gateway.ListAccounts(ctx)
	if err != nil {
		return errors.DatabaseError("Failed to read accounts").WithError(err)
	}

	if len(accounts) > 0 {
		return nil
	}

	hashedPassword, err := s.hash(DemoPassword)
	if err != nil {
		return err
	}

	demo := models.Account{
		ID:       uuid.NewString(),
		Name:     DemoName,
		Email:    DemoEmail,
		Password: hashedPassword,
		JoinedAt: s.now().UTC(),
	}

	if err := s.gateway.SaveAccounts(ctx, []models.Account{demo}); err != nil {
		return errors.DatabaseError("Failed to seed demo account").WithError(err)
	}

	middleware.LoggerFromContext(ctx).Info("Seeded demo account", slog.String("email", DemoEmail))

	return nil
}

// savePrevious persists the bundle of whoever is logged in before another
// account takes over the context.
func (s *SessionStore) savePrevious(ctx context.Context) error {
	if s.state.account == nil {
		return nil
	}

	return saveBundle(ctx, s.gateway, s.state.account, s.state.cart, s.state.orders)
}

func (s *SessionStore) hash(password string) (string, error) {

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		if err == bcrypt.ErrPasswordTooLong {
			return "", errors.AddValidationError("password", "must be at most 72 bytes long")
		}

		return "", errors.InternalError("Failed to secure password").WithError(err)
	}

	return string(hashed), nil
}

func findByEmail(accounts []models.Account, email string) (int, bool) {
	for i, a := range accounts {
		if strings.EqualFold(a.Email, email) {
			return i, true
		}
	}

	return -1, false
}
