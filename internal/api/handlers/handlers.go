package handlers

import (
	"context"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/models"
)

type CatalogService interface {
	Browse(ctx context.Context, q models.ProductQuery) ([]models.Product, error)
	Product(ctx context.Context, id int64) (models.Product, error)
	Categories(ctx context.Context) ([]models.Category, error)
	CategoryProducts(ctx context.Context, slug, sortKey string) ([]models.Product, error)
}

type SessionService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.Profile, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.Profile, error)
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, req *models.ProfileRequest) (*models.Profile, error)
	Profile() (*models.Profile, error)
}

type CartService interface {
	Cart() models.CartView
	AddToCart(ctx context.Context, productID int64) (models.CartView, error)
	RemoveFromCart(ctx context.Context, productID int64) (models.CartView, error)
	UpdateQuantity(ctx context.Context, productID int64, quantity int) (models.CartView, error)
	ToggleSelection(ctx context.Context, productID int64) (models.CartView, error)
	SelectAll(ctx context.Context, all bool) (models.CartView, error)
}

type OrderService interface {
	Checkout(ctx context.Context, req *models.CheckoutRequest) (*models.Order, error)
	BuyNow(ctx context.Context, productID int64, req *models.CheckoutRequest) (*models.Order, error)
	Orders() (*models.OrderHistoryResponse, error)
	Order(id int64) (*models.Order, error)
}

// Storefront is everything the intent API needs from the state core.
type Storefront interface {
	CatalogService
	SessionService
	CartService
	OrderService
}

// NewRouter wires every intent route onto a fresh mux.
func NewRouter(sf Storefront) *http.ServeMux {

	catalogHandler := NewCatalogHandler(sf)
	sessionHandler := NewSessionHandler(sf)
	cartHandler := NewCartHandler(sf)
	orderHandler := NewOrderHandler(sf)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/products", catalogHandler.ListProducts())
	mux.HandleFunc("GET /api/v1/products/{id}", catalogHandler.GetProduct())
	mux.HandleFunc("GET /api/v1/categories", catalogHandler.ListCategories())
	mux.HandleFunc("GET /api/v1/categories/{slug}/products", catalogHandler.CategoryProducts())

	mux.HandleFunc("POST /api/v1/session/register", sessionHandler.Register())
	mux.HandleFunc("POST /api/v1/session/login", sessionHandler.Login())
	mux.HandleFunc("POST /api/v1/session/logout", sessionHandler.Logout())
	mux.HandleFunc("GET /api/v1/session", sessionHandler.Profile())
	mux.HandleFunc("PUT /api/v1/session/profile", sessionHandler.UpdateProfile())

	mux.HandleFunc("GET /api/v1/cart", cartHandler.GetCart())
	mux.HandleFunc("POST /api/v1/cart/items", cartHandler.AddItem())
	mux.HandleFunc("PUT /api/v1/cart/items/{id}", cartHandler.UpdateQuantity())
	mux.HandleFunc("DELETE /api/v1/cart/items/{id}", cartHandler.RemoveItem())
	mux.HandleFunc("POST /api/v1/cart/selection/{id}", cartHandler.ToggleSelection())
	mux.HandleFunc("PUT /api/v1/cart/selection", cartHandler.SelectAll())
	mux.HandleFunc("DELETE /api/v1/cart/selection", cartHandler.ClearSelection())

	mux.HandleFunc("POST /api/v1/orders", orderHandler.Checkout())
	mux.HandleFunc("POST /api/v1/orders/buy-now", orderHandler.BuyNow())
	mux.HandleFunc("GET /api/v1/orders", orderHandler.ListOrders())
	mux.HandleFunc("GET /api/v1/orders/{id}", orderHandler.GetOrder())

	return mux
}
