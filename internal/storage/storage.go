package storage

import (
	"context"
	"strings"
)

// Store is the key-value storage the persistence gateway writes through.
// Values are JSON-encoded; a missing key is reported as found=false, not as an
// error. Writes are last-writer-wins with no versioning.
type Store interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
	Close() error
}

func Key(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), ":")
}

const (
	AccountsKey = "accounts"
	SessionKey  = "session"
	UserKey     = "user"
	DataSuffix  = "data"
)
