package notify

import (
	"context"
	"encoding/json"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphmint/glyphmint/model/seed"
	"github.com/glyphmint/glyphmint/service/messaging"
	"github.com/glyphmint/glyphmint/service/messaging/fs"
)

func TestService_TypedFanOut(t *testing.T) {
	service, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	defer service.Shutdown()

	var mu sync.Mutex
	var seen []Seeded
	require.NoError(t, SetListenerOf(service, func(event *Event[Seeded]) {
		mu.Lock()
		seen = append(seen, event.Data)
		mu.Unlock()
	}))

	publisher, err := PublisherOf[Seeded](service)
	require.NoError(t, err)
	ctx := context.Background()
	for i := uint64(0); i < 3; i++ {
		payload := Seeded{Handle: "h", ItemID: i, Seed: seed.FromUint64(i)}
		require.NoError(t, publisher.Publish(ctx, NewEvent(TopicSeeded, payload)))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 3
	}, time.Second, 10*time.Millisecond)
}

func TestService_GlobalListener(t *testing.T) {
	service, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	defer service.Shutdown()

	var mu sync.Mutex
	topics := map[string]int{}
	service.SetListener(func(event *Event[any]) {
		mu.Lock()
		topics[event.Topic]++
		mu.Unlock()
	})

	ctx := context.Background()
	requested, err := PublisherOf[Requested](service)
	require.NoError(t, err)
	finalized, err := PublisherOf[Finalized](service)
	require.NoError(t, err)

	require.NoError(t, requested.Publish(ctx, NewEvent(TopicRequested, Requested{Handle: "h", ItemID: 0})))
	require.NoError(t, finalized.Publish(ctx, NewEvent(TopicFinalized, Finalized{ItemID: 0, ContentLocator: "data:"})))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return topics[TopicRequested] == 1 && topics[TopicFinalized] == 1
	}, time.Second, 10*time.Millisecond)
}

func TestService_Rehydrate(t *testing.T) {
	service, err := New(messaging.VendorMemory)
	require.NoError(t, err)
	defer service.Shutdown()

	payload := Seeded{Handle: "h-1", ItemID: 4, Seed: seed.FromUint64(12345)}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	value, err := service.Rehydrate(TopicSeeded, raw)
	require.NoError(t, err)
	decoded, ok := value.(*Seeded)
	require.True(t, ok)
	assert.Equal(t, payload, *decoded)

	_, err = service.Rehydrate("no.such.topic", raw)
	assert.Error(t, err)

	payloadType, ok := service.PayloadType(TopicFinalized)
	require.True(t, ok)
	assert.Equal(t, "Finalized", payloadType.Name())
}

func TestService_FsVendor(t *testing.T) {
	base := t.TempDir()
	service, err := New(messaging.VendorFs, WithNewFsQueueConfig(func(name string) fs.QueueConfig {
		return fs.QueueConfig{BaseURL: path.Join(base, name), MaxRetries: 1, RetryDelay: 10 * time.Millisecond}
	}))
	require.NoError(t, err)
	defer service.Shutdown()

	publisher, err := PublisherOf[Requested](service)
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, publisher.Publish(ctx, NewEvent(TopicRequested, Requested{Handle: "h", ItemID: 9})))

	event, err := publisher.Consume(ctx)
	require.NoError(t, err)
	require.NotNil(t, event)
	assert.Equal(t, TopicRequested, event.Topic)
	assert.Equal(t, uint64(9), event.Data.ItemID)
}

func TestService_UnsupportedVendor(t *testing.T) {
	_, err := New(messaging.Vendor("carrier-pigeon"))
	assert.Error(t, err)
}
