package handlers

import (
	"log/slog"
	"net/http"

	"github.com/aaravmahajanofficial/storefront/internal/api/middleware"
	"github.com/aaravmahajanofficial/storefront/internal/errors"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
	"github.com/aaravmahajanofficial/storefront/internal/utils/response"
)

type OrderHandler struct {
	orderService OrderService
}

func NewOrderHandler(orderService OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

func (h *OrderHandler) Checkout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.CheckoutRequest
		if !utils.ParseJSON(r, w, &req) {
			return
		}

		order, err := h.orderService.Checkout(r.Context(), &req)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Warn("Checkout failed", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) BuyNow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		var req models.BuyNowRequest
		if !utils.ParseJSON(r, w, &req) {
			return
		}

		if req.ProductID <= 0 {
			response.Error(w, errors.AddValidationError("product_id", "is required"))
			return
		}

		order, err := h.orderService.BuyNow(r.Context(), req.ProductID, &req.CheckoutRequest)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusCreated, order)
	}
}

func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		history, err := h.orderService.Orders()
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, history)
	}
}

func (h *OrderHandler) GetOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		id, ok := utils.PathID(r, w, "id")
		if !ok {
			return
		}

		order, err := h.orderService.Order(id)
		if err != nil {
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, order)
	}
}
