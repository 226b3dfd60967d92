package events

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type Topic string

const (
	TopicCatalog     Topic = "catalog"
	TopicSession     Topic = "session"
	TopicCart        Topic = "cart"
	TopicSelection   Topic = "selection"
	TopicOrders      Topic = "orders"
	TopicOrderPlaced Topic = "order.placed"
)

// Event tells subscribers that a store changed. Payload is a value owned by
// the event; subscribers must treat it as read-only.
type Event struct {
	Topic   Topic
	Action  string
	Payload any
	At      time.Time
}

// Handler runs synchronously inside the publishing intent. It must not call
// back into the stores; hand work to a goroutine instead.
type Handler func(ctx context.Context, e Event)

type Bus struct {
	mu     sync.RWMutex
	topics map[Topic][]Handler
	all    []Handler
}

func NewBus() *Bus {
	return &Bus{topics: make(map[Topic][]Handler)}
}

func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.topics[topic] = append(b.topics[topic], h)
}

// SubscribeAll registers h for every topic.
func (b *Bus) SubscribeAll(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.all = append(b.all, h)
}

// Publish delivers the event to topic subscribers first, then to catch-all
// subscribers, in registration order. A panicking handler is logged and
// skipped. Publishing on a nil bus is a no-op.
func (b *Bus) Publish(ctx context.Context, topic Topic, action string, payload any) {
	if b == nil {
		return
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.topics[topic])+len(b.all))
	handlers = append(handlers, b.topics[topic]...)
	handlers = append(handlers, b.all...)
	b.mu.RUnlock()

	e := Event{Topic: topic, Action: action, Payload: payload, At: time.Now()}

	for _, h := range handlers {
		deliver(ctx, h, e)
	}
}

func deliver(ctx context.Context, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event handler panicked", slog.String("topic", string(e.Topic)), slog.Any("panic", r))
		}
	}()

	h(ctx, e)
}
