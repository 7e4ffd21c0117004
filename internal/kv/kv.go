package kv

import (
	"context"
	"errors"
)

// Store is the durable client-side key-value store the pages share: cart
// contents, the checkout staging slot and the navigation-context slots all
// live here and must survive page loads.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Take reads and deletes in one step, for consume-on-read slots.
	Take(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

var ErrNotFound = errors.New("key not found")
