package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/events"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	service "github.com/aaravmahajanofficial/storefront/internal/services"
	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingEmailService struct {
	mu   sync.Mutex
	sent []*models.EmailMessage
	err  error
}

func (r *recordingEmailService) Send(_ context.Context, msg *models.EmailMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sent = append(r.sent, msg)

	return r.err
}

func (r *recordingEmailService) GetSendGridClient() *sendgrid.Client {
	return nil
}

func placedOrder() events.OrderPlaced {
	return events.OrderPlaced{
		AccountID: "a1",
		Name:      "Alice",
		Email:     "alice@example.com",
		Order: models.Order{
			ID:        1741944413000,
			CreatedAt: fixedNow,
			Items: []models.CartItem{
				{Product: models.Product{ID: 1, Title: "Red <Shirt>", Price: 10}, Quantity: 2},
			},
			Subtotal:      20,
			ShippingFee:   10,
			Total:         30,
			Status:        models.OrderStatusPending,
			Shipping:      models.ShippingDetails{FullName: "Alice Smith", Email: "ship@example.com", Phone: "1", Address: "1 Main St"},
			PaymentMethod: "card",
		},
	}
}

func TestReceiptMessage(t *testing.T) {
	t.Run("Addressed to the shipping email", func(t *testing.T) {
		msg, err := service.ReceiptMessage(placedOrder())

		require.NoError(t, err)
		assert.Equal(t, "ship@example.com", msg.To)
		assert.Equal(t, "Alice Smith", msg.ToName)
		assert.Equal(t, "Your order #1741944413000", msg.Subject)
		assert.Contains(t, msg.Content, "2 x Red <Shirt>  $20.00")
		assert.Contains(t, msg.Content, "Total: $30.00")
		assert.Contains(t, msg.HTMLContent, "Red &lt;Shirt&gt;")
		assert.NotContains(t, msg.HTMLContent, "<Shirt>")
	})

	t.Run("Falls back to the account email", func(t *testing.T) {
		placed := placedOrder()
		placed.Order.Shipping.Email = ""

		msg, err := service.ReceiptMessage(placed)

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", msg.To)
	})
}

func TestReceiptNotifier(t *testing.T) {
	t.Run("Sends on order placed", func(t *testing.T) {
		// Arrange
		sender := &recordingEmailService{}
		notifier := service.NewReceiptNotifier(sender, time.Second)
		bus := events.NewBus()
		notifier.Subscribe(bus)

		// Act
		bus.Publish(context.Background(), events.TopicOrderPlaced, "checkout", placedOrder())
		bus.Publish(context.Background(), events.TopicCart, "add", events.CartChanged{})
		notifier.Wait()

		// Assert
		require.Len(t, sender.sent, 1)
		assert.Equal(t, "ship@example.com", sender.sent[0].To)
	})

	t.Run("Send failures stay in the notifier", func(t *testing.T) {
		sender := &recordingEmailService{err: assert.AnError}
		notifier := service.NewReceiptNotifier(sender, time.Second)

		assert.NotPanics(t, func() {
			notifier.Handle(context.Background(), events.Event{Topic: events.TopicOrderPlaced, Payload: placedOrder()})
			notifier.Wait()
		})
		assert.Len(t, sender.sent, 1)
	})

	t.Run("Ignores foreign payloads", func(t *testing.T) {
		sender := &recordingEmailService{}
		notifier := service.NewReceiptNotifier(sender, time.Second)

		notifier.Handle(context.Background(), events.Event{Topic: events.TopicOrderPlaced, Payload: "nope"})
		notifier.Wait()

		assert.Empty(t, sender.sent)
	})
}
