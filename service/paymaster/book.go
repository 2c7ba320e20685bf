package paymaster

import (
	"context"
	"sync"
)

// Book is an in-memory balance book. Each admitted check debits the fee from
// the requester balance, so every generation request has to be funded by a
// prior Deposit.
type Book struct {
	fee      uint64
	mu       sync.Mutex
	balances map[string]uint64
}

// NewBook creates a balance book charging fee per admission.
func NewBook(fee uint64) *Book {
	return &Book{
		fee:      fee,
		balances: make(map[string]uint64),
	}
}

// Deposit credits the requester balance.
func (b *Book) Deposit(requester string, amount uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[requester] += amount
}

// Balance returns the current balance of requester.
func (b *Book) Balance(requester string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[requester]
}

// HasSufficientBalance admits requester when the balance covers the fee,
// debiting it on admission.
func (b *Book) HasSufficientBalance(_ context.Context, requester string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	balance := b.balances[requester]
	if balance < b.fee {
		return false, nil
	}
	b.balances[requester] = balance - b.fee
	return true, nil
}

var _ Paymaster = (*Book)(nil)
