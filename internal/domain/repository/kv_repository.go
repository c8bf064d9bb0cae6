package repository

import "context"

// KeyValueStore defines the persistent string store chain state is written to.
type KeyValueStore interface {
	// Get returns the value stored under key and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set overwrites the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Close releases the backend.
	Close() error
}
