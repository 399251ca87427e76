package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/dmitrijs2005/mindbalance/internal/client/kvstore"
	"github.com/dmitrijs2005/mindbalance/internal/client/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T) *MoodCache {
	t.Helper()
	return New(kvstore.NewDiskvStore(filepath.Join(t.TempDir(), "kv")))
}

func ids(list []models.MoodEntry) []string {
	out := make([]string, 0, len(list))
	for _, e := range list {
		out = append(out, e.ID)
	}
	return out
}

func TestLoad_Empty(t *testing.T) {
	c := newCache(t)
	list, err := c.Load(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPrependAndLoad(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	require.NoError(t, c.Prepend(ctx, "u1", models.MoodEntry{ID: "a"}))
	require.NoError(t, c.Prepend(ctx, "u1", models.MoodEntry{ID: "b", Pending: true}))

	list, err := c.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(list))

	other, err := c.Load(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, other, "caches are per user")

	pending, err := c.Pending(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids(pending))
}

func TestRemoveAndRestore(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Replace(ctx, "u1", []models.MoodEntry{{ID: "a"}, {ID: "b"}, {ID: "c"}}))

	prev, err := c.Remove(ctx, "u1", "b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(prev))

	list, _ := c.Load(ctx, "u1")
	assert.Equal(t, []string{"a", "c"}, ids(list))

	require.NoError(t, c.Restore(ctx, "u1", prev))
	list, _ = c.Load(ctx, "u1")
	assert.Equal(t, []string{"a", "b", "c"}, ids(list))
}

func TestUpdate_Serialized(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = c.Prepend(ctx, "u1", models.MoodEntry{ID: fmt.Sprintf("e%d", i)})
		}(i)
	}
	wg.Wait()

	list, err := c.Load(ctx, "u1")
	require.NoError(t, err)
	assert.Len(t, list, 20, "no write may be lost")
}

func TestUpdate_NilBecomesEmpty(t *testing.T) {
	c := newCache(t)
	out, err := c.Update(context.Background(), "u1", func([]models.MoodEntry) []models.MoodEntry { return nil })
	require.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestConfirm_SwapsTempForServerCopy(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Replace(ctx, "u1", []models.MoodEntry{{ID: "temp_a", Pending: true}, {ID: "s0"}}))

	kept, err := c.Confirm(ctx, "u1", "temp_a", models.MoodEntry{ID: "s1", ClientID: "temp_a"})
	require.NoError(t, err)
	assert.True(t, kept)

	list, _ := c.Load(ctx, "u1")
	assert.Equal(t, []string{"s1", "s0"}, ids(list))
}

func TestConfirm_SnapshotAlreadyHasCopy(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Replace(ctx, "u1", []models.MoodEntry{{ID: "temp_a", Pending: true}, {ID: "s1"}}))

	kept, err := c.Confirm(ctx, "u1", "temp_a", models.MoodEntry{ID: "s1"})
	require.NoError(t, err)
	assert.True(t, kept)

	list, _ := c.Load(ctx, "u1")
	assert.Equal(t, []string{"s1"}, ids(list))
}

func TestDiscard_ThenConfirmKeepsNeither(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	require.NoError(t, c.Replace(ctx, "u1", []models.MoodEntry{{ID: "temp_a", Pending: true}, {ID: "s0"}}))

	prev, err := c.Discard(ctx, "u1", "temp_a")
	require.NoError(t, err)
	assert.Equal(t, []string{"temp_a", "s0"}, ids(prev))

	discarded, err := c.Discarded(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, []string{"temp_a"}, discarded)

	kept, err := c.Confirm(ctx, "u1", "temp_a", models.MoodEntry{ID: "s1", ClientID: "temp_a"})
	require.NoError(t, err)
	assert.False(t, kept)

	list, _ := c.Load(ctx, "u1")
	assert.Equal(t, []string{"s0"}, ids(list))

	require.NoError(t, c.Forget(ctx, "u1", "temp_a"))
	require.NoError(t, c.Forget(ctx, "u1", "temp_a"), "forgetting twice is fine")
	discarded, err = c.Discarded(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, discarded)
}

func TestMerge_SeesDiscarded(t *testing.T) {
	c := newCache(t)
	ctx := context.Background()
	_, err := c.Discard(ctx, "u1", "temp_x")
	require.NoError(t, err)

	var seen map[string]struct{}
	_, err = c.Merge(ctx, "u1", func(cur []models.MoodEntry, discarded map[string]struct{}) []models.MoodEntry {
		seen = discarded
		return cur
	})
	require.NoError(t, err)
	assert.Contains(t, seen, "temp_x")
}
