package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgress_Update(t *testing.T) {
	ctx, tracker := WithNewTracker(context.Background(), "mint", nil)

	UpdateCtx(ctx, Delta{Requested: 1})
	UpdateCtx(ctx, Delta{Requested: 1, Seeded: 1})
	UpdateCtx(ctx, Delta{Finalized: 1, Rejected: 1})

	snapshot := tracker.Snapshot()
	assert.Equal(t, 2, snapshot.Requested)
	assert.Equal(t, 1, snapshot.Seeded)
	assert.Equal(t, 1, snapshot.Finalized)
	assert.Equal(t, 1, snapshot.Rejected)
	assert.Equal(t, "mint", snapshot.Label)
}

func TestProgress_OnChange(t *testing.T) {
	var mu sync.Mutex
	var seen []int
	_, tracker := WithNewTracker(context.Background(), "mint", func(p Progress) {
		mu.Lock()
		seen = append(seen, p.Requested)
		mu.Unlock()
	})

	tracker.Update(Delta{Requested: 1})
	tracker.Update(Delta{Requested: 1})

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []int{1, 2}, seen)
}

func TestProgress_NoTracker(t *testing.T) {
	// Updating a context without a tracker is a no-op.
	UpdateCtx(context.Background(), Delta{Requested: 1})
	_, ok := GetSnapshot(context.Background())
	assert.False(t, ok)

	var nilTracker *Progress
	nilTracker.Update(Delta{Requested: 1})
	assert.Equal(t, Progress{}, nilTracker.Snapshot())
}

func TestProgress_Concurrent(t *testing.T) {
	_, tracker := WithNewTracker(context.Background(), "mint", nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tracker.Update(Delta{Requested: 1, Seeded: 1})
		}()
	}
	wg.Wait()

	snapshot := tracker.Snapshot()
	assert.Equal(t, 50, snapshot.Requested)
	assert.Equal(t, 50, snapshot.Seeded)
}
