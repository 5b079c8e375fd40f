// Package storage defines the key-value slot abstraction the note list is
// persisted into, plus its native backends.
package storage

import "context"

// Provider is the interface for key-value slot operations. There is no
// delete: a slot, once written, is only ever overwritten.
//
// Implementations must make Set atomic from the caller's point of view: a
// concurrent Get observes either the old or the new value, never a mix.
type Provider interface {
	// Get returns the value stored under key. A missing key yields an error
	// wrapping apperr.ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set overwrites the value stored under key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases backend resources.
	Close() error
}

// Verify backends satisfy Provider at compile time.
var (
	_ Provider = (*FS)(nil)
	_ Provider = (*Memory)(nil)
	_ Provider = (*SQLite)(nil)
)
