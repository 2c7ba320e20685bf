package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/model/seed"
	"github.com/glyphmint/glyphmint/service/entropy"
	"github.com/glyphmint/glyphmint/service/messaging/memory"
	"github.com/glyphmint/glyphmint/service/paymaster"
)

type dispatcherFixture struct {
	*testLedger
	queue      *memory.Queue[entropy.Fulfillment]
	signer     *entropy.Signer
	dispatcher *Dispatcher
}

func newDispatcherFixture(t *testing.T, service *Service, fixture *testLedger) *dispatcherFixture {
	t.Helper()
	key := []byte("dispatch-key")
	queue := memory.NewQueue[entropy.Fulfillment](memory.DefaultConfig())
	dispatcher, err := NewDispatcher(service, queue, entropy.NewVerifier(key), DefaultDispatcherConfig())
	require.NoError(t, err)
	return &dispatcherFixture{
		testLedger: fixture,
		queue:      queue,
		signer:     entropy.NewSigner(key),
		dispatcher: dispatcher,
	}
}

func (f *dispatcherFixture) publish(ctx context.Context, t *testing.T, handle string, s seed.Seed, sign bool) {
	t.Helper()
	fulfillment := &entropy.Fulfillment{Handle: handle, Seed: s, IssuedAt: time.Now()}
	if sign {
		fulfillment.Signature = f.signer.Sign(fulfillment)
	}
	require.NoError(t, f.queue.Publish(ctx, fulfillment))
}

func (f *dispatcherFixture) start(ctx context.Context, t *testing.T) {
	t.Helper()
	require.NoError(t, f.dispatcher.Start(ctx))
	t.Cleanup(f.dispatcher.Shutdown)
}

func TestDispatcher_AppliesVerifiedFulfillment(t *testing.T) {
	base := newTestLedger(t)
	fixture := newDispatcherFixture(t, base.service, base)
	ctx := context.Background()

	handle, err := base.service.Begin(ctx, "alice")
	require.NoError(t, err)

	fixture.start(ctx, t)
	chosen := seed.FromUint64(12345)
	fixture.publish(ctx, t, handle, chosen, true)

	assert.Eventually(t, func() bool {
		anItem, err := base.service.Item(ctx, 0)
		return err == nil && anItem.State == item.StateSeeded
	}, time.Second, 10*time.Millisecond)

	anItem, err := base.service.Item(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, chosen, anItem.Seed)

	owner, err := base.registry.Owner(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}

func TestDispatcher_DropsTamperedFulfillment(t *testing.T) {
	base := newTestLedger(t)
	fixture := newDispatcherFixture(t, base.service, base)
	ctx := context.Background()

	handle, err := base.service.Begin(ctx, "alice")
	require.NoError(t, err)

	fixture.start(ctx, t)
	fixture.publish(ctx, t, handle, seed.FromUint64(666), false)

	// The unsigned message is consumed and dropped without reaching the
	// ledger and without entering any retry loop.
	assert.Eventually(t, func() bool {
		return fixture.queue.Size() == 0
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	anItem, err := base.service.Item(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, item.StateRequested, anItem.State)
	assert.True(t, anItem.Seed.IsZero())
	assert.Equal(t, 0, fixture.queue.DLQSize())
}

func TestDispatcher_DropsUnknownHandle(t *testing.T) {
	base := newTestLedger(t)
	fixture := newDispatcherFixture(t, base.service, base)
	ctx := context.Background()

	fixture.start(ctx, t)
	fixture.publish(ctx, t, "never-issued", seed.FromUint64(1), true)

	assert.Eventually(t, func() bool {
		return fixture.queue.Size() == 0
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, fixture.queue.DLQSize())
}

func TestDispatcher_DropsDuplicateFulfillment(t *testing.T) {
	base := newTestLedger(t)
	fixture := newDispatcherFixture(t, base.service, base)
	ctx := context.Background()

	handle, err := base.service.Begin(ctx, "alice")
	require.NoError(t, err)

	fixture.start(ctx, t)
	first := seed.FromUint64(111)
	fixture.publish(ctx, t, handle, first, true)
	fixture.publish(ctx, t, handle, seed.FromUint64(222), true)

	assert.Eventually(t, func() bool {
		anItem, err := base.service.Item(ctx, 0)
		return err == nil && anItem.State == item.StateSeeded
	}, time.Second, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return fixture.queue.Size() == 0
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)

	// The first delivery won; the duplicate was dropped, not retried.
	anItem, err := base.service.Item(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, first, anItem.Seed)
	assert.Equal(t, 0, fixture.queue.DLQSize())
}

func TestDispatcher_RetriesTransientFailure(t *testing.T) {
	base := newTestLedger(t)
	flaky := &flakyRegistry{Registry: base.registry, failures: 1}
	service, err := New(
		WithItemDAO(base.itemDao),
		WithRecordDAO(base.recordDao),
		WithProvider(base.provider),
		WithPaymaster(paymaster.Unlimited()),
		WithRegistry(flaky),
		WithPublisher(base.publisher),
	)
	require.NoError(t, err)
	fixture := newDispatcherFixture(t, service, base)
	ctx := context.Background()

	handle, err := service.Begin(ctx, "alice")
	require.NoError(t, err)

	fixture.start(ctx, t)
	chosen := seed.FromUint64(9)
	fixture.publish(ctx, t, handle, chosen, true)

	// First delivery fails on the registry and is nacked; the redelivery
	// lands after the retry delay.
	assert.Eventually(t, func() bool {
		anItem, err := service.Item(ctx, 0)
		return err == nil && anItem.State == item.StateSeeded
	}, 2*time.Second, 20*time.Millisecond)

	anItem, err := service.Item(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, chosen, anItem.Seed)
	owner, err := flaky.Owner(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, "alice", owner)
}
