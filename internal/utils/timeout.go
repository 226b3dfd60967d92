package utils

import (
	"context"
	"time"
)

// DefaultDBTimeout bounds a single storage round trip.
const DefaultDBTimeout = 5 * time.Second

func WithDBTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, DefaultDBTimeout)
}
