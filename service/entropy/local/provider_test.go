package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphmint/glyphmint/model/seed"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/messaging/memory"
)

func newTestProvider(config Config) (*Provider, *memory.Queue[entropy.Fulfillment], *entropy.Verifier) {
	key := []byte("test-key")
	queue := memory.NewQueue[entropy.Fulfillment](memory.DefaultConfig())
	return New(entropy.NewSigner(key), queue, config), queue, entropy.NewVerifier(key)
}

func TestProvider_Request(t *testing.T) {
	provider, _, _ := newTestProvider(DefaultConfig())
	ctx := context.Background()

	first, err := provider.Request(ctx, entropy.RequestParams{Requester: "alice"})
	require.NoError(t, err)
	second, err := provider.Request(ctx, entropy.RequestParams{Requester: "bob"})
	require.NoError(t, err)

	assert.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
	assert.Equal(t, 2, provider.Pending())
}

func TestProvider_FulfillNow(t *testing.T) {
	provider, queue, verifier := newTestProvider(DefaultConfig())
	ctx := context.Background()

	handle, err := provider.Request(ctx, entropy.RequestParams{Requester: "alice"})
	require.NoError(t, err)

	chosen := seed.FromUint64(12345)
	require.NoError(t, provider.FulfillNow(ctx, handle, chosen))
	assert.Equal(t, 0, provider.Pending())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	fulfillment := message.T()
	assert.Equal(t, handle, fulfillment.Handle)
	assert.Equal(t, chosen, fulfillment.Seed)
	assert.NoError(t, verifier.Verify(fulfillment))
	require.NoError(t, message.Ack())
}

func TestProvider_FulfillNow_UnknownHandle(t *testing.T) {
	provider, _, _ := newTestProvider(DefaultConfig())
	err := provider.FulfillNow(context.Background(), "no-such-handle", seed.FromUint64(1))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown handle")
}

func TestProvider_FulfillNow_Twice(t *testing.T) {
	provider, _, _ := newTestProvider(DefaultConfig())
	ctx := context.Background()

	handle, err := provider.Request(ctx, entropy.RequestParams{Requester: "alice"})
	require.NoError(t, err)
	require.NoError(t, provider.FulfillNow(ctx, handle, seed.FromUint64(1)))
	assert.Error(t, provider.FulfillNow(ctx, handle, seed.FromUint64(2)))
}

func TestProvider_Start(t *testing.T) {
	provider, queue, verifier := newTestProvider(Config{
		FulfillDelay: 10 * time.Millisecond,
		PollInterval: 5 * time.Millisecond,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = provider.Start(ctx)
	}()

	handle, err := provider.Request(ctx, entropy.RequestParams{Requester: "alice"})
	require.NoError(t, err)

	consumeCtx, consumeCancel := context.WithTimeout(ctx, time.Second)
	defer consumeCancel()
	message, err := queue.Consume(consumeCtx)
	require.NoError(t, err)
	fulfillment := message.T()
	assert.Equal(t, handle, fulfillment.Handle)
	assert.NoError(t, verifier.Verify(fulfillment))
	assert.False(t, fulfillment.Seed.IsZero())
	require.NoError(t, message.Ack())
	assert.Equal(t, 0, provider.Pending())

	provider.Shutdown()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("fulfiller loop did not stop after shutdown")
	}
}
