// Package dao defines the generic persistence contract ledger rows are stored
// through. Vendors live in subpackages; the ledger only depends on this
// interface, so items and request records can be kept in memory, on a file
// system or in sqlite without the state machine knowing.
package dao

import (
	"context"
)

// Service abstracts persistence of one entity type T keyed by K.
type Service[K comparable, T any] interface {
	// Save persists or overwrites an entity.
	Save(ctx context.Context, t *T) error

	// Load returns an entity by key or ErrNotFound.
	Load(ctx context.Context, id K) (*T, error)

	// Delete removes an entity by key.
	Delete(ctx context.Context, id K) error

	// List returns entities, optionally narrowed by parameters.
	List(ctx context.Context, parameters ...*Parameter) ([]*T, error)
}
