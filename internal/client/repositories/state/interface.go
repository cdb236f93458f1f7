// Package state provides the client's local durable key-value surface.
// Values are whole serialized blobs (the attempt table, the persisted
// session); there are no partial updates.
package state

import "context"

type Repository interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
