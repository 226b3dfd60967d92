package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/pkg/catalogapi"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

type Dependencies struct {
	Gateway      repository.Gateway
	Catalog      catalogapi.API
	Bus          *events.Bus
	Validator    *validator.Validate
	ProductLimit int
	ShippingFee  float64
	BcryptCost   int
	Clock        func() time.Time
}

// Storefront is the state core of one browser context. Every intent takes
// the same lock and runs to completion before the next one starts, so the
// stores underneath never see concurrent access.
type Storefront struct {
	mu sync.Mutex

	catalog  *CatalogStore
	session  *SessionStore
	cart     *CartStore
	orders   *OrderLedger
	checkout *CheckoutService
}

func NewStorefront(deps Dependencies) *Storefront {

	if deps.Bus == nil {
		deps.Bus = events.NewBus()
	}

	if deps.Validator == nil {
		deps.Validator = utils.NewValidator()
	}

	if deps.ProductLimit <= 0 {
		deps.ProductLimit = 100
	}

	if deps.BcryptCost == 0 {
		deps.BcryptCost = bcrypt.DefaultCost
	}

	if deps.Clock == nil {
		deps.Clock = time.Now
	}

	state := &shopper{}
	state.reset(nil, nil)

	catalog := NewCatalogStore(deps.Catalog, deps.Validator, deps.Bus, deps.ProductLimit)
	cart := newCartStore(deps.Gateway, catalog, deps.Bus, state)
	ledger := newOrderLedger(state)

	return &Storefront{
		catalog:  catalog,
		session:  newSessionStore(deps.Gateway, deps.Validator, deps.Bus, state, deps.BcryptCost, deps.Clock),
		cart:     cart,
		orders:   ledger,
		checkout: newCheckoutService(deps.Gateway, deps.Validator, deps.Bus, state, cart, ledger, deps.ShippingFee, deps.Clock),
	}
}

// Init seeds the demo account if asked, restores the previous session and
// loads the catalog. A catalog failure leaves the session restored; the
// catalog is retried on the next browse intent.
func (s *Storefront) Init(ctx context.Context, seedDemo bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seedDemo {
		if err := s.session.SeedDemoAccounts(ctx); err != nil {
			return err
		}
	}

	if err := s.session.Restore(ctx); err != nil {
		return err
	}

	if err := s.catalog.Load(ctx); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Catalog unavailable at startup", slog.Any("error", err))
		return err
	}

	return nil
}

// Catalog

func (s *Storefront) LoadCatalog(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.catalog.Load(ctx)
}

func (s *Storefront) Browse(ctx context.Context, q models.ProductQuery) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.Load(ctx); err != nil {
		return nil, err
	}

	return s.catalog.Browse(q), nil
}

func (s *Storefront) Product(ctx context.Context, id int64) (models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.Load(ctx); err != nil {
		return models.Product{}, err
	}

	return s.catalog.Product(id)
}

func (s *Storefront) Categories(ctx context.Context) ([]models.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.catalog.Load(ctx); err != nil {
		return nil, err
	}

	return s.catalog.Categories(), nil
}

// CategoryProducts fetches one category live. It reads no store state, so
// it runs without the lock.
func (s *Storefront) CategoryProducts(ctx context.Context, slug, sortKey string) ([]models.Product, error) {

	products, err := s.catalog.FetchCategory(ctx, slug)
	if err != nil {
		return nil, err
	}

	return SortProducts(products, sortKey), nil
}

// Session

func (s *Storefront) Register(ctx context.Context, req *models.RegisterRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.Register(ctx, req); err != nil {
		return nil, err
	}

	return s.session.Profile()
}

func (s *Storefront) Login(ctx context.Context, req *models.LoginRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.Login(ctx, req); err != nil {
		return nil, err
	}

	return s.session.Profile()
}

func (s *Storefront) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.Logout(ctx)
}

func (s *Storefront) UpdateProfile(ctx context.Context, req *models.ProfileRequest) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.UpdateProfile(ctx, req); err != nil {
		return nil, err
	}

	return s.session.Profile()
}

func (s *Storefront) Profile() (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.Profile()
}

// Current returns the logged-in account, or nil.
func (s *Storefront) Current() *models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.session.Current()
}

// Cart

func (s *Storefront) Cart() models.CartView {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cart.View()
}

func (s *Storefront) AddToCart(ctx context.Context, productID int64) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.state.requireAccount(); err != nil {
		return models.CartView{}, err
	}

	if err := s.catalog.Load(ctx); err != nil {
		return models.CartView{}, err
	}

	if err := s.cart.AddItem(ctx, productID); err != nil {
		return models.CartView{}, err
	}

	return s.cart.View(), nil
}

func (s *Storefront) RemoveFromCart(ctx context.Context, productID int64) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.RemoveItem(ctx, productID); err != nil {
		return models.CartView{}, err
	}

	return s.cart.View(), nil
}

func (s *Storefront) UpdateQuantity(ctx context.Context, productID int64, quantity int) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.SetQuantity(ctx, productID, quantity); err != nil {
		return models.CartView{}, err
	}

	return s.cart.View(), nil
}

func (s *Storefront) ToggleSelection(ctx context.Context, productID int64) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.ToggleSelection(ctx, productID); err != nil {
		return models.CartView{}, err
	}

	return s.cart.View(), nil
}

func (s *Storefront) SelectAll(ctx context.Context, all bool) (models.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.cart.SelectAll(ctx, all); err != nil {
		return models.CartView{}, err
	}

	return s.cart.View(), nil
}

// Orders

func (s *Storefront) Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkout.Checkout(ctx, req)
}

func (s *Storefront) BuyNow(ctx context.Context, productID int64, req *models.CheckoutRequest) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.state.requireAccount(); err != nil {
		return nil, err
	}

	if err := s.catalog.Load(ctx); err != nil {
		return nil, err
	}

	return s.checkout.BuyNow(ctx, productID, req)
}

func (s *Storefront) Orders() (*models.OrderHistoryResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.state.requireAccount(); err != nil {
		return nil, err
	}

	orders := s.orders.Orders()

	return &models.OrderHistoryResponse{Orders: orders, Total: len(orders)}, nil
}

func (s *Storefront) Order(id int64) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.session.state.requireAccount(); err != nil {
		return nil, err
	}

	order, err := s.orders.Order(id)
	if err != nil {
		return nil, err
	}

	return &order, nil
}
