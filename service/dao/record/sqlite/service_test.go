package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/glyphmint/glyphmint/model/item"
	"github.com/glyphmint/glyphmint/service/dao"
)

func TestService_RoundTrip(t *testing.T) {
	ctx := context.Background()
	service, err := New(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer service.Close()

	assert.ErrorIs(t, service.Save(ctx, &item.Record{}), dao.ErrInvalidID)

	createdAt := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for id := uint64(0); id < 2; id++ {
		record := &item.Record{
			Handle:    string(rune('a' + id)),
			Requester: "carol",
			ItemID:    id,
			CreatedAt: createdAt,
		}
		require.NoError(t, service.Save(ctx, record))
	}

	loaded, err := service.Load(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), loaded.ItemID)
	assert.True(t, createdAt.Equal(loaded.CreatedAt))

	all, err := service.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Handle)

	_, err = service.Load(ctx, "missing")
	assert.ErrorIs(t, err, dao.ErrNotFound)
	require.NoError(t, service.Delete(ctx, "a"))
	assert.ErrorIs(t, service.Delete(ctx, "a"), dao.ErrNotFound)
}
