package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/storefront/internal/errors"
	repository "github.com/aaravmahajanofficial/storefront/internal/repositories"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/aaravmahajanofficial/storefront/internal/storage"
	"github.com/aaravmahajanofficial/storefront/pkg/catalogapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const productsJSON = `{"products":[
	{"id":1,"title":"Red Shirt","description":"Cotton","price":10,"rating":4.5,"category":"tops","brand":"Acme","stock":5,"discountPercentage":20},
	{"id":2,"title":"Blue Hat","description":"Wool","price":5,"rating":4.9,"category":"accessories","stock":2}
],"total":2}`

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string   `json:"code"`
		Message string   `json:"message"`
		Field   string   `json:"field"`
		Details []string `json:"details"`
	} `json:"error"`
}

type testServer struct {
	t      *testing.T
	router http.Handler
}

func setupRouter(t *testing.T) *testServer {
	t.Helper()

	catalogServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/products":
			_, _ = w.Write([]byte(productsJSON))
		case "/products/categories":
			_, _ = w.Write([]byte(`[{"slug":"tops","name":"Tops"},{"slug":"accessories","name":"Accessories"}]`))
		case "/products/category/tops":
			_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"Red Shirt","price":10,"category":"tops"}]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(catalogServer.Close)

	sf := service.NewStorefront(service.Dependencies{
		Gateway:     repository.NewGateway(storage.NewMemoryStore(), "test"),
		Catalog:     catalogapi.NewClient(catalogServer.URL, catalogServer.Client()),
		ShippingFee: 10,
		BcryptCost:  bcrypt.MinCost,
	})

	return &testServer{t: t, router: handlers.NewRouter(sf)}
}

func (s *testServer) do(method, url string, body any) (int, apiResponse) {
	s.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()

	s.router.ServeHTTP(recorder, req)

	var resp apiResponse
	require.NoError(s.t, json.Unmarshal(recorder.Body.Bytes(), &resp), recorder.Body.String())

	return recorder.Code, resp
}

func (s *testServer) login() {
	s.t.Helper()

	code, _ := s.do(http.MethodPost, "/api/v1/session/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "123456", "confirm_password": "123456",
	})
	require.Equal(s.t, http.StatusCreated, code)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(raw, &v))

	return v
}

type productList struct {
	Products []struct {
		ID    int64  `json:"id"`
		Title string `json:"title"`
	} `json:"products"`
	Total int `json:"total"`
}

func TestCatalogRoutes(t *testing.T) {
	s := setupRouter(t)

	t.Run("List with search and sort", func(t *testing.T) {
		code, resp := s.do(http.MethodGet, "/api/v1/products?q=shirt&sort=price-desc", nil)

		assert.Equal(t, http.StatusOK, code)
		list := decode[productList](t, resp.Data)
		require.Equal(t, 1, list.Total)
		assert.Equal(t, "Red Shirt", list.Products[0].Title)
	})

	t.Run("Product detail with original price", func(t *testing.T) {
		code, resp := s.do(http.MethodGet, "/api/v1/products/1", nil)

		assert.Equal(t, http.StatusOK, code)
		detail := decode[struct {
			OriginalPrice *float64 `json:"original_price"`
		}](t, resp.Data)
		require.NotNil(t, detail.OriginalPrice)
		assert.InDelta(t, 12.5, *detail.OriginalPrice, 1e-9)
	})

	t.Run("Unknown product", func(t *testing.T) {
		code, resp := s.do(http.MethodGet, "/api/v1/products/99", nil)

		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, appErrors.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("Bad id", func(t *testing.T) {
		code, resp := s.do(http.MethodGet, "/api/v1/products/abc", nil)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "id", resp.Error.Field)
	})

	t.Run("Categories", func(t *testing.T) {
		code, resp := s.do(http.MethodGet, "/api/v1/categories", nil)

		assert.Equal(t, http.StatusOK, code)
		assert.Len(t, decode[[]map[string]string](t, resp.Data), 2)
	})

	t.Run("Category products", func(t *testing.T) {
		code, resp := s.do(http.MethodGet, "/api/v1/categories/tops/products", nil)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, 1, decode[productList](t, resp.Data).Total)
	})

	t.Run("Unknown category upstream", func(t *testing.T) {
		code, resp := s.do(http.MethodGet, "/api/v1/categories/shoes/products", nil)

		assert.Equal(t, http.StatusBadGateway, code)
		assert.Equal(t, appErrors.ErrCodeNetworkError, resp.Error.Code)
	})
}

func TestSessionRoutes(t *testing.T) {
	t.Run("Register, profile, logout", func(t *testing.T) {
		s := setupRouter(t)
		s.login()

		code, resp := s.do(http.MethodGet, "/api/v1/session", nil)
		assert.Equal(t, http.StatusOK, code)
		profile := decode[map[string]any](t, resp.Data)
		assert.Equal(t, "alice@example.com", profile["email"])
		assert.NotContains(t, profile, "password")

		code, _ = s.do(http.MethodPost, "/api/v1/session/logout", nil)
		assert.Equal(t, http.StatusOK, code)

		code, resp = s.do(http.MethodGet, "/api/v1/session", nil)
		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, appErrors.ErrCodeAuthRequired, resp.Error.Code)
	})

	t.Run("Validation error carries the field", func(t *testing.T) {
		s := setupRouter(t)

		code, resp := s.do(http.MethodPost, "/api/v1/session/register", map[string]string{
			"name": "A", "email": "a@b.com", "password": "123456", "confirm_password": "123456",
		})

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, appErrors.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "name", resp.Error.Field)
	})

	t.Run("Duplicate registration", func(t *testing.T) {
		s := setupRouter(t)
		s.login()

		code, resp := s.do(http.MethodPost, "/api/v1/session/register", map[string]string{
			"name": "Alice", "email": "alice@example.com", "password": "123456", "confirm_password": "123456",
		})

		assert.Equal(t, http.StatusConflict, code)
		assert.Equal(t, appErrors.ErrCodeDuplicateEntry, resp.Error.Code)
	})

	t.Run("Wrong password", func(t *testing.T) {
		s := setupRouter(t)
		s.login()
		s.do(http.MethodPost, "/api/v1/session/logout", nil)

		code, resp := s.do(http.MethodPost, "/api/v1/session/login", map[string]string{"email": "alice@example.com", "password": "654321"})

		assert.Equal(t, http.StatusUnauthorized, code)
		assert.Equal(t, appErrors.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("Empty body", func(t *testing.T) {
		s := setupRouter(t)

		code, resp := s.do(http.MethodPost, "/api/v1/session/login", nil)

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, appErrors.ErrCodeBadRequest, resp.Error.Code)
	})

	t.Run("Update profile", func(t *testing.T) {
		s := setupRouter(t)
		s.login()

		code, resp := s.do(http.MethodPut, "/api/v1/session/profile", map[string]string{"name": "Alice Smith", "email": "smith@example.com"})

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "Alice Smith", decode[map[string]any](t, resp.Data)["name"])
	})
}

type cartView struct {
	Items []struct {
		ID       int64 `json:"id"`
		Quantity int   `json:"quantity"`
	} `json:"items"`
	Selected         []int64 `json:"selected"`
	ItemCount        int     `json:"item_count"`
	Total            float64 `json:"total"`
	SelectedSubtotal float64 `json:"selected_subtotal"`
}

func TestCartAndOrderRoutes(t *testing.T) {
	s := setupRouter(t)

	code, resp := s.do(http.MethodPost, "/api/v1/cart/items", map[string]int64{"product_id": 1})
	require.Equal(t, http.StatusUnauthorized, code)
	require.Equal(t, appErrors.ErrCodeAuthRequired, resp.Error.Code)

	s.login()

	t.Run("Add, update, select", func(t *testing.T) {
		_, _ = s.do(http.MethodPost, "/api/v1/cart/items", map[string]int64{"product_id": 1})
		_, _ = s.do(http.MethodPost, "/api/v1/cart/items", map[string]int64{"product_id": 2})

		code, resp := s.do(http.MethodPut, "/api/v1/cart/items/1", map[string]int{"quantity": 2})
		require.Equal(t, http.StatusOK, code)
		view := decode[cartView](t, resp.Data)
		assert.Equal(t, 3, view.ItemCount)
		assert.Equal(t, 25.0, view.Total)

		code, resp = s.do(http.MethodPost, "/api/v1/cart/selection/1", nil)
		require.Equal(t, http.StatusOK, code)
		view = decode[cartView](t, resp.Data)
		assert.Equal(t, []int64{1}, view.Selected)
		assert.Equal(t, 20.0, view.SelectedSubtotal)
	})

	t.Run("Missing quantity", func(t *testing.T) {
		code, resp := s.do(http.MethodPut, "/api/v1/cart/items/1", map[string]int{})

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "quantity", resp.Error.Field)
	})

	var orderID int64

	t.Run("Checkout", func(t *testing.T) {
		code, resp := s.do(http.MethodPost, "/api/v1/orders", map[string]any{
			"shipping": map[string]string{
				"full_name": "Alice Smith", "email": "alice@example.com", "phone": "555", "address": "1 Main St",
			},
			"payment_method": "card",
		})

		require.Equal(t, http.StatusCreated, code)
		order := decode[map[string]any](t, resp.Data)
		assert.Equal(t, 30.0, order["total"])
		assert.Equal(t, "pending", order["status"])
		assert.Equal(t, "card", order["paymentMethod"])
		orderID = int64(order["id"].(float64))

		code, resp = s.do(http.MethodGet, "/api/v1/cart", nil)
		require.Equal(t, http.StatusOK, code)
		view := decode[cartView](t, resp.Data)
		require.Len(t, view.Items, 1)
		assert.Equal(t, int64(2), view.Items[0].ID)
		assert.Empty(t, view.Selected)
	})

	t.Run("Checkout with nothing selected", func(t *testing.T) {
		code, resp := s.do(http.MethodPost, "/api/v1/orders", map[string]any{
			"shipping":       map[string]string{"full_name": "A", "email": "a@b.com", "phone": "1", "address": "x"},
			"payment_method": "card",
		})

		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "selection", resp.Error.Field)
	})

	t.Run("Buy now", func(t *testing.T) {
		code, resp := s.do(http.MethodPost, "/api/v1/orders/buy-now", map[string]any{
			"product_id":     2,
			"shipping":       map[string]string{"full_name": "A", "email": "a@b.com", "phone": "1", "address": "x"},
			"payment_method": "cod",
		})

		require.Equal(t, http.StatusCreated, code)
		assert.Equal(t, 20.0, decode[map[string]any](t, resp.Data)["total"])

		code, resp = s.do(http.MethodGet, "/api/v1/cart", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, decode[cartView](t, resp.Data).Items)
	})

	t.Run("History and detail", func(t *testing.T) {
		code, resp := s.do(http.MethodGet, "/api/v1/orders", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, 2.0, decode[map[string]any](t, resp.Data)["total"])

		code, _ = s.do(http.MethodGet, "/api/v1/orders/"+jsonInt(orderID), nil)
		assert.Equal(t, http.StatusOK, code)

		code, _ = s.do(http.MethodGet, "/api/v1/orders/1", nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("Select all and clear", func(t *testing.T) {
		_, _ = s.do(http.MethodPost, "/api/v1/cart/items", map[string]int64{"product_id": 1})

		code, resp := s.do(http.MethodPut, "/api/v1/cart/selection", map[string]bool{"all": true})
		require.Equal(t, http.StatusOK, code)
		assert.Equal(t, []int64{1}, decode[cartView](t, resp.Data).Selected)

		code, resp = s.do(http.MethodDelete, "/api/v1/cart/selection", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, decode[cartView](t, resp.Data).Selected)
	})

	t.Run("Remove", func(t *testing.T) {
		code, resp := s.do(http.MethodDelete, "/api/v1/cart/items/1", nil)
		require.Equal(t, http.StatusOK, code)
		assert.Empty(t, decode[cartView](t, resp.Data).Items)

		code, resp = s.do(http.MethodDelete, "/api/v1/cart/items/1", nil)
		assert.Equal(t, http.StatusNotFound, code)
		assert.Equal(t, appErrors.ErrCodeNotFound, resp.Error.Code)
	})
}

func jsonInt(v int64) string {
	b, _ := json.Marshal(v)

	return string(b)
}
