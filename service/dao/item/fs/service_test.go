package fs

import (
	"context"
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
	service, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = service.Load(ctx, 7)
	assert.ErrorIs(t, err, dao.ErrNotFound)

	seededAt := time.Date(2025, 3, 1, 10, 30, 0, 0, time.UTC)
	stored := &item.Item{
		ID:          7,
		State:       item.StateSeeded,
		Seed:        seed.FromUint64(12345),
		RequestedAt: seededAt.Add(-time.Minute),
		SeededAt:    &seededAt,
	}
	require.NoError(t, service.Save(ctx, stored))

	loaded, err := service.Load(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, loaded.ID)
	assert.Equal(t, stored.State, loaded.State)
	assert.Equal(t, stored.Seed, loaded.Seed)
	require.NotNil(t, loaded.SeededAt)
	assert.True(t, seededAt.Equal(*loaded.SeededAt))

	listed, err := service.List(ctx, dao.NewParameter("State", string(item.StateSeeded)))
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, uint64(7), listed[0].ID)

	empty, err := service.List(ctx, dao.NewParameter("State", string(item.StateFinalized)))
	require.NoError(t, err)
	assert.Empty(t, empty)

	require.NoError(t, service.Delete(ctx, 7))
	assert.ErrorIs(t, service.Delete(ctx, 7), dao.ErrNotFound)
}
