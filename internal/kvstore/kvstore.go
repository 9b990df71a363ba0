package kvstore

import (
	"context"
	"errors"
)

// Store is a durable string-keyed byte store. It backs the cart, session
// and local-fallback order records; entries have no expiry.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// ErrNotFound is returned by Get when the key has no value.
var ErrNotFound = errors.New("key not found")
