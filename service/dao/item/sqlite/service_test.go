package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/model/seed"
	"github.com/glyphmint/glyphmint/service/dao"
)

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	service, err := New(filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	defer service.Close()

	_, err = service.Load(ctx, 0)
	assert.ErrorIs(t, err, dao.ErrNotFound)

	requestedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	stored := &item.Item{
		ID:          0,
		State:       item.StateRequested,
		RequestedAt: requestedAt,
	}
	require.NoError(t, service.Save(ctx, stored))

	// upsert moves the same row forward
	seededAt := requestedAt.Add(time.Second)
	stored.State = item.StateSeeded
	stored.Seed = seed.FromUint64(12345)
	stored.SeededAt = &seededAt
	require.NoError(t, service.Save(ctx, stored))

	loaded, err := service.Load(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, item.StateSeeded, loaded.State)
	assert.Equal(t, seed.FromUint64(12345), loaded.Seed)
	assert.True(t, requestedAt.Equal(loaded.RequestedAt))
	require.NotNil(t, loaded.SeededAt)
	assert.True(t, seededAt.Equal(*loaded.SeededAt))
	assert.Nil(t, loaded.FinalizedAt)
}

func TestService_List(t *testing.T) {
	ctx := context.Background()
	service, err := New(filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	defer service.Close()

	now := time.Now()
	for id := uint64(0); id < 3; id++ {
		state := item.StateRequested
		if id == 2 {
			state = item.StateSeeded
		}
		require.NoError(t, service.Save(ctx, &item.Item{ID: id, State: state, RequestedAt: now}))
	}

	all, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint64(0), all[0].ID)
	assert.Equal(t, uint64(2), all[2].ID)

	seeded, err := service.List(ctx, dao.NewParameter("State", string(item.StateSeeded)))
	require.NoError(t, err)
	require.Len(t, seeded, 1)
	assert.Equal(t, uint64(2), seeded[0].ID)

	require.NoError(t, service.Delete(ctx, 1))
	assert.ErrorIs(t, service.Delete(ctx, 1), dao.ErrNotFound)
	remaining, err := service.List(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}
