package paymaster

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlimited(t *testing.T) {
	gate := Unlimited()
	for i := 0; i < 10; i++ {
		admitted, err := gate.HasSufficientBalance(context.Background(), "anyone")
		require.NoError(t, err)
		assert.True(t, admitted)
	}
}

func TestFixed(t *testing.T) {
	gate := Fixed(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		admitted, err := gate.HasSufficientBalance(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, admitted)
	}
	admitted, err := gate.HasSufficientBalance(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, admitted)
}

func TestFixed_Concurrent(t *testing.T) {
	gate := Fixed(5)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	admissions := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			admitted, err := gate.HasSufficientBalance(ctx, "alice")
			assert.NoError(t, err)
			if admitted {
				mu.Lock()
				admissions++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 5, admissions)
}

func TestBook(t *testing.T) {
	book := NewBook(10)
	ctx := context.Background()

	admitted, err := book.HasSufficientBalance(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, admitted, "empty balance should refuse")

	book.Deposit("alice", 25)
	assert.Equal(t, uint64(25), book.Balance("alice"))

	admitted, err = book.HasSufficientBalance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, admitted)
	assert.Equal(t, uint64(15), book.Balance("alice"))

	admitted, err = book.HasSufficientBalance(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, admitted)

	admitted, err = book.HasSufficientBalance(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, admitted, "5 left does not cover the fee of 10")
	assert.Equal(t, uint64(5), book.Balance("alice"))

	admitted, err = book.HasSufficientBalance(ctx, "bob")
	require.NoError(t, err)
	assert.False(t, admitted, "balances are per requester")
}
