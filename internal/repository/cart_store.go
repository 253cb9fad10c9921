package repository

import "context"

// CartStore is the durable key-value surface the cart state is mirrored to.
// A single serialized blob lives under one fixed key; Read returns
// ErrNotFound when nothing has been persisted yet.
type CartStore interface {
	Read(ctx context.Context, key string) ([]byte, error)
	Write(ctx context.Context, key string, data []byte) error
}
