package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestCacheRepositoryRoundTrip(t *testing.T) {
	mr, client := newRedis(t)
	repo := NewCacheRepository(client, zap.NewNop())
	ctx := context.Background()

	var got models.GalleryItem
	assert.ErrorIs(t, repo.Get(ctx, "galleries:detail:1", &got), appErrors.ErrCacheMiss)

	item := models.GalleryItem{ID: 1, Title: "Makrab", Width: 1200, Height: 800}
	require.NoError(t, repo.Set(ctx, "galleries:detail:1", item, time.Minute))
	require.NoError(t, repo.Get(ctx, "galleries:detail:1", &got))
	assert.Equal(t, item, got)

	mr.FastForward(2 * time.Minute)
	assert.ErrorIs(t, repo.Get(ctx, "galleries:detail:1", &got), appErrors.ErrCacheMiss)
}

func TestCacheRepositoryDeleteByPattern(t *testing.T) {
	mr, client := newRedis(t)
	repo := NewCacheRepository(client, zap.NewNop())
	ctx := context.Background()

	for _, key := range []string{"galleries:list:all", "galleries:list:page=2", "galleries:detail:3", "repositories:list:all"} {
		require.NoError(t, repo.Set(ctx, key, 1, time.Minute))
	}

	require.NoError(t, repo.DeleteByPattern(ctx, "galleries:list:*"))
	assert.False(t, mr.Exists("galleries:list:all"))
	assert.False(t, mr.Exists("galleries:list:page=2"))
	assert.True(t, mr.Exists("galleries:detail:3"))

	require.NoError(t, repo.DeleteByPattern(ctx, "galleries:*"))
	assert.False(t, mr.Exists("galleries:detail:3"))
	assert.True(t, mr.Exists("repositories:list:all"))
	require.NoError(t, repo.Ping(ctx))
}

func TestCacheRepositoryPatternStopsAtSegment(t *testing.T) {
	mr, client := newRedis(t)
	repo := NewCacheRepository(client, zap.NewNop())
	ctx := context.Background()

	for _, key := range []string{"galleries:detail:1", "galleries:detail:1:thumb", "galleries:detail:10", "galleries:detail:123"} {
		require.NoError(t, repo.Set(ctx, key, 1, time.Minute))
	}

	require.NoError(t, repo.DeleteByPattern(ctx, "galleries:detail:1"))
	require.NoError(t, repo.DeleteByPattern(ctx, "galleries:detail:1:*"))
	assert.False(t, mr.Exists("galleries:detail:1"))
	assert.False(t, mr.Exists("galleries:detail:1:thumb"))
	assert.True(t, mr.Exists("galleries:detail:10"))
	assert.True(t, mr.Exists("galleries:detail:123"))
}

func TestMemoryCacheTTLAndPatterns(t *testing.T) {
	cache := NewMemoryCache()
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "galleries:list:all", []int{1, 2}, time.Minute))
	require.NoError(t, cache.Set(ctx, "galleries:detail:1", "a", 0))
	require.NoError(t, cache.Set(ctx, "me", "b", time.Minute))

	var list []int
	require.NoError(t, cache.Get(ctx, "galleries:list:all", &list))
	assert.Equal(t, []int{1, 2}, list)

	now = now.Add(time.Minute)
	assert.ErrorIs(t, cache.Get(ctx, "galleries:list:all", &list), appErrors.ErrCacheMiss)

	var s string
	require.NoError(t, cache.Get(ctx, "galleries:detail:1", &s))

	require.NoError(t, cache.DeleteByPattern(ctx, "galleries:*"))
	assert.ErrorIs(t, cache.Get(ctx, "galleries:detail:1", &s), appErrors.ErrCacheMiss)
	require.NoError(t, cache.DeleteByPattern(ctx, "me"))
	assert.Zero(t, cache.Len())
}

func TestMagangRepositories(t *testing.T) {
	_, client := newRedis(t)
	stores := map[string]interface {
		Create(context.Context, models.MagangApplicant) error
		List(context.Context) ([]models.MagangApplicant, error)
	}{
		"memory": NewMemoryMagangRepository(),
		"redis":  NewRedisMagangRepository(client),
	}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := models.MagangApplicant{ID: "a", Nama: "Rani", NRP: "5025211003", KelompokKP: "KP-07"}
			second := models.MagangApplicant{ID: "b", Nama: "Dimas", NRP: "5025211004", KelompokKP: "KP-01"}

			require.NoError(t, store.Create(ctx, first))
			require.NoError(t, store.Create(ctx, second))
			err := store.Create(ctx, models.MagangApplicant{ID: "c", NRP: first.NRP})
			assert.ErrorIs(t, err, ErrDuplicateApplicant)

			list, err := store.List(ctx)
			require.NoError(t, err)
			require.Len(t, list, 2)
			assert.Equal(t, "a", list[0].ID)
			assert.Equal(t, "Dimas", list[1].Nama)
		})
	}
}
