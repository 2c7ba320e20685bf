// Package registry defines the ownership registry collaborator. The ledger
// assigns ownership the moment a seed arrives (mint-on-callback), never at
// finalize time. Transfer and balance bookkeeping stay outside this module.
package registry

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrAlreadyRegistered is returned when an item already has an owner.
	ErrAlreadyRegistered = errors.New("registry: item already registered")

	// ErrNotRegistered is returned when an item has no owner yet.
	ErrNotRegistered = errors.New("registry: item not registered")
)

// Ownership records who owns an item and since when.
type Ownership struct {
	ItemID       uint64    `json:"itemID"`
	Owner        string    `json:"owner"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// Registry assigns and resolves item ownership.
type Registry interface {
	// RegisterOwner assigns owner to itemID, exactly once per item.
	RegisterOwner(ctx context.Context, itemID uint64, owner string) error

	// Owner returns the owner of itemID.
	Owner(ctx context.Context, itemID uint64) (string, error)
}
