package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/pkg/sendgrid"
)

var receiptHTML = template.Must(template.New("receipt").Parse(`<h2>Thanks for your order, {{.Shipping.FullName}}</h2>
<p>Order #{{.ID}} placed {{.CreatedAt.Format "Jan 2, 2006 15:04 MST"}}</p>
<table>
{{range .Items}}<tr><td>{{.Title}}</td><td>{{.Quantity}} x ${{printf "%.2f" .Price}}</td></tr>
{{end}}</table>
<p>Subtotal: ${{printf "%.2f" .Subtotal}}<br>Shipping: ${{printf "%.2f" .ShippingFee}}<br><b>Total: ${{printf "%.2f" .Total}}</b></p>
<p>Ship to: {{.Shipping.Address}}<br>Payment: {{.PaymentMethod}}</p>`))

// ReceiptNotifier emails a receipt for every placed order. Sending happens
// off the intent's goroutine; failures are logged and never reach the
// shopper.
type ReceiptNotifier struct {
	emailService sendgrid.EmailService
	timeout      time.Duration
	wg           sync.WaitGroup
}

func NewReceiptNotifier(emailService sendgrid.EmailService, timeout time.Duration) *ReceiptNotifier {
	return &ReceiptNotifier{emailService: emailService, timeout: timeout}
}

// Subscribe registers the notifier for placed orders.
func (n *ReceiptNotifier) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.TopicOrderPlaced, n.Handle)
}

func (n *ReceiptNotifier) Handle(ctx context.Context, e events.Event) {

	placed, ok := e.Payload.(events.OrderPlaced)
	if !ok {
		return
	}

	msg, err := ReceiptMessage(placed)
	if err != nil {
		slog.Error("Failed to render receipt", slog.Int64("order_id", placed.Order.ID), slog.Any("error", err))
		return
	}

	n.wg.Add(1)

	go func() {
		defer n.wg.Done()

		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), n.timeout)
		defer cancel()

		if err := n.emailService.Send(sendCtx, msg); err != nil {
			slog.Error("Failed to send receipt", slog.Int64("order_id", placed.Order.ID), slog.Any("error", err))
			return
		}

		slog.Info("Receipt sent", slog.Int64("order_id", placed.Order.ID))
	}()
}

// Wait blocks until in-flight receipts are done.
func (n *ReceiptNotifier) Wait() {
	n.wg.Wait()
}

// ReceiptMessage renders the receipt for an order. It goes to the shipping
// email, falling back to the account email.
func ReceiptMessage(placed events.OrderPlaced) (*models.EmailMessage, error) {

	order := placed.Order

	var html bytes.Buffer
	if err := receiptHTML.Execute(&html, order); err != nil {
		return nil, err
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Thanks for your order, %s.\n\nOrder #%d\n", order.Shipping.FullName, order.ID)

	for _, item := range order.Items {
		fmt.Fprintf(&text, "%d x %s  $%.2f\n", item.Quantity, item.Title, item.LineTotal())
	}

	fmt.Fprintf(&text, "\nSubtotal: $%.2f\nShipping: $%.2f\nTotal: $%.2f\n", order.Subtotal, order.ShippingFee, order.Total)
	fmt.Fprintf(&text, "Ship to: %s\nPayment: %s\n", order.Shipping.Address, order.PaymentMethod)

	to := order.Shipping.Email
	if to == "" {
		to = placed.Email
	}

	return &models.EmailMessage{
		To:          to,
		ToName:      order.Shipping.FullName,
		Subject:     fmt.Sprintf("Your order #%d", order.ID),
		Content:     text.String(),
		HTMLContent: html.String(),
	}, nil
}
