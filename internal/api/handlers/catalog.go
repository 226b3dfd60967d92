package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CatalogHandler struct {
	catalogService CatalogService
}

func NewCatalogHandler(catalogService CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts serves ?q=&category=&sort=.
func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		query := models.ProductQuery{
			Text:     r.URL.Query().Get("q"),
			Category: r.URL.Query().Get("category"),
			Sort:     r.URL.Query().Get("sort"),
		}

		products, err := h.catalogService.Browse(r.Context(), query)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{
			"products": products,
			"total":    len(products),
		})
	}
}

func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := utils.PathID(r, w, "id")
		if !ok {
			return
		}

		product, err := h.catalogService.Product(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		originalPrice, discounted := product.OriginalPrice()

		response.Success(w, http.StatusOK, map[string]any{
			"product":        product,
			"original_price": originalPriceOrNil(originalPrice, discounted),
		})
	}
}

func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		categories, err := h.catalogService.Categories(r.Context())
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to list categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

func (h *CatalogHandler) CategoryProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		products, err := h.catalogService.CategoryProducts(r.Context(), r.PathValue("slug"), r.URL.Query().Get("sort"))
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, map[string]any{
			"products": products,
			"total":    len(products),
		})
	}
}

func originalPriceOrNil(price float64, ok bool) *float64 {
	if !ok {
		return nil
	}

	return &price
}
