package models

import (
	"time"
)

type OrderStatus string

// Orders never leave the status they are created with.
const OrderStatusPending OrderStatus = "pending"

type ShippingDetails struct {
	FullName string `json:"full_name" validate:"required"`
	Email    string `json:"email" validate:"required,basic_email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
}

type Order struct {
	ID            int64           `json:"id"`
	CreatedAt     time.Time       `json:"date"`
	Items         []CartItem      `json:"items"`
	Subtotal      float64         `json:"subtotal"`
	ShippingFee   float64         `json:"shipping_fee"`
	Total         float64         `json:"total"`
	Status        OrderStatus     `json:"status"`
	Shipping      ShippingDetails `json:"shipping"`
	PaymentMethod string          `json:"paymentMethod"`
}

type CheckoutRequest struct {
	Shipping      ShippingDetails `json:"shipping"`
	PaymentMethod string          `json:"payment_method" validate:"required"`
}

type BuyNowRequest struct {
	ProductID int64 `json:"product_id" validate:"required"`
	CheckoutRequest
}

type OrderHistoryResponse struct {
	Orders []Order `json:"orders"`
	Total  int     `json:"total"`
}
