// Package paymaster defines the payment gate consulted before a generation
// request is admitted. The fee escrow itself lives outside this module;
// implementations only answer whether a requester may proceed.
package paymaster

import (
	"context"
	"sync/atomic"
)

// Paymaster gates admission of generation requests.
type Paymaster interface {
	// HasSufficientBalance reports whether requester can fund a generation
	// request right now.
	HasSufficientBalance(ctx context.Context, requester string) (bool, error)
}

// Func adapts a plain function to the Paymaster interface.
type Func func(ctx context.Context, requester string) (bool, error)

// HasSufficientBalance calls f.
func (f Func) HasSufficientBalance(ctx context.Context, requester string) (bool, error) {
	return f(ctx, requester)
}

// Unlimited returns a paymaster admitting every requester.
func Unlimited() Paymaster {
	return Func(func(ctx context.Context, requester string) (bool, error) {
		return true, nil
	})
}

// Fixed returns a paymaster admitting the first n checks and refusing the
// rest, regardless of requester.
func Fixed(n int64) Paymaster {
	var remaining atomic.Int64
	remaining.Store(n)
	return Func(func(ctx context.Context, requester string) (bool, error) {
		return remaining.Add(-1) >= 0, nil
	})
}
