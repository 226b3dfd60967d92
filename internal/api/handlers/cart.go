package handlers

import (
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type CartHandler struct {
	cartService CartService
}

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, http.StatusOK, h.cartService.Cart())
	}
}

func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.AddItemRequest
		if !utils.ParseJSON(r, w, &req) {
			return
		}

		if req.ProductID <= 0 {
			response.Error(w, errors.AddValidationError("product_id", "is required"))
			return
		}

		view, err := h.cartService.AddToCart(r.Context(), req.ProductID)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := utils.PathID(r, w, "id")
		if !ok {
			return
		}

		var req models.UpdateQuantityRequest
		if !utils.ParseJSON(r, w, &req) {
			return
		}

		if req.Quantity == nil {
			response.Error(w, errors.AddValidationError("quantity", "is required"))
			return
		}

		view, err := h.cartService.UpdateQuantity(r.Context(), id, *req.Quantity)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := utils.PathID(r, w, "id")
		if !ok {
			return
		}

		view, err := h.cartService.RemoveFromCart(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) ToggleSelection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := utils.PathID(r, w, "id")
		if !ok {
			return
		}

		view, err := h.cartService.ToggleSelection(r.Context(), id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) SelectAll() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.SelectAllRequest
		if !utils.ParseJSON(r, w, &req) {
			return
		}

		view, err := h.cartService.SelectAll(r.Context(), req.All)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) ClearSelection() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		view, err := h.cartService.SelectAll(r.Context(), false)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}
