package storage

import (
	"context"
	"errors"
)

// ErrKeyNotFound is returned by Get when the key has never been written or was deleted.
var ErrKeyNotFound = errors.New("key not found")

// Store is process-surviving key/value persistence. Session and local cache data live here.
// Implementations must make each Put visible to the next Get before returning.
type Store interface {
	// Get returns the value stored under key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put writes value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the underlying resources.
	Close() error
}
