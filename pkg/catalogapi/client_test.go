package catalogapi_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/catalogapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *catalogapi.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return catalogapi.NewClient(server.URL+"/", server.Client())
}

func TestClient_ListProducts(t *testing.T) {
	ctx := t.Context()

	t.Run("Success", func(t *testing.T) {
		// Arrange
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products", r.URL.Path)
			assert.Equal(t, "100", r.URL.Query().Get("limit"))
			_, _ = w.Write([]byte(`{"products":[{"id":1,"title":"Red Shirt","price":10,"rating":4.5,"category":"tops","brand":"Acme","stock":3,"discountPercentage":10}],"total":1}`))
		})

		// Act
		products, err := client.ListProducts(ctx, 100)

		// Assert
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, int64(1), products[0].ID)
		assert.Equal(t, "Acme", products[0].BrandName())
		require.NotNil(t, products[0].DiscountPercentage)
		assert.Equal(t, 10.0, *products[0].DiscountPercentage)
	})

	t.Run("Missing products field", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"total":0}`))
		})

		_, err := client.ListProducts(ctx, 100)

		assert.ErrorContains(t, err, "no products field")
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"products":[`))
		})

		_, err := client.ListProducts(ctx, 100)

		assert.ErrorContains(t, err, "malformed catalog response")
	})

	t.Run("Non-2xx status", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})

		_, err := client.ListProducts(ctx, 100)

		var statusErr *catalogapi.StatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusServiceUnavailable, statusErr.StatusCode)
	})

	t.Run("Unreachable", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		client := catalogapi.NewClient(server.URL, server.Client())
		server.Close()

		_, err := client.ListProducts(ctx, 100)

		assert.ErrorContains(t, err, "catalog request failed")
	})
}

func TestClient_ListCategories(t *testing.T) {
	ctx := t.Context()

	t.Run("Object form", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/products/categories", r.URL.Path)
			_, _ = w.Write([]byte(`[{"slug":"beauty","name":"Beauty","url":"x"},{"slug":"tops","name":"Tops","url":"y"}]`))
		})

		categories, err := client.ListCategories(ctx)

		require.NoError(t, err)
		assert.Equal(t, []models.Category{{Slug: "beauty", Name: "Beauty"}, {Slug: "tops", Name: "Tops"}}, categories)
	})

	t.Run("Not a list", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`null`))
		})

		_, err := client.ListCategories(ctx)

		assert.Error(t, err)
	})
}

func TestClient_ListCategoryProducts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/category/mens-shirts", r.URL.Path)
		_, _ = w.Write([]byte(`{"products":[{"id":5,"title":"Blue Shirt","price":20,"category":"mens-shirts"}]}`))
	})

	products, err := client.ListCategoryProducts(t.Context(), "mens-shirts")

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "mens-shirts", products[0].Category)
}

func TestClient_Ping(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"products":[{"id":1}]}`))
	})

	assert.NoError(t, client.Ping(t.Context()))
}
