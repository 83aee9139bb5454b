package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/querykey"
	"github.com/hmtc-its/hmtc-portal/internal/repository"
)

type brokenCache struct{}

func (brokenCache) Get(context.Context, string, interface{}) error { return errors.New("redis down") }
func (brokenCache) Set(context.Context, string, interface{}, time.Duration) error {
	return errors.New("redis down")
}
func (brokenCache) DeleteByPattern(context.Context, string) error { return errors.New("redis down") }

func TestFetchReadThrough(t *testing.T) {
	metrics := NewMetricsService()
	cache := NewCacheService(repository.NewMemoryCache(), metrics, time.Minute, zap.NewNop(), true)
	key := querykey.Galleries.Detail(4)
	ctx := context.Background()

	loads := 0
	load := func(context.Context) (models.GalleryItem, error) {
		loads++
		return models.GalleryItem{ID: 4, Title: "Wisuda"}, nil
	}

	item, hit, err := Fetch(ctx, cache, key, 0, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "Wisuda", item.Title)

	item, hit, err = Fetch(ctx, cache, key, 0, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, int64(4), item.ID)
	assert.Equal(t, 1, loads)

	require.NoError(t, cache.Invalidate(ctx, querykey.Galleries.All()))
	_, hit, err = Fetch(ctx, cache, key, 0, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, loads)

	snap := metrics.Snapshot()
	assert.EqualValues(t, 1, snap.CacheHits)
	assert.EqualValues(t, 2, snap.CacheMisses)
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	cache := NewCacheService(repository.NewMemoryCache(), nil, time.Minute, nil, true)
	key := querykey.Galleries.List(nil)
	boom := errors.New("upstream")

	_, _, err := Fetch(context.Background(), cache, key, 0, func(context.Context) ([]models.GalleryItem, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	var out []models.GalleryItem
	hit, err := cache.Get(context.Background(), key, &out)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestFetchDegradesWhenBackendFails(t *testing.T) {
	cache := NewCacheService(brokenCache{}, nil, time.Minute, nil, true)
	got, hit, err := Fetch(context.Background(), cache, querykey.Me.All(), 0, func(context.Context) (string, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "fresh", got)
}

func TestDisabledCacheIsTransparent(t *testing.T) {
	cache := NewCacheService(repository.NewMemoryCache(), nil, time.Minute, nil, false)
	assert.False(t, cache.Enabled())
	require.NoError(t, cache.Set(context.Background(), querykey.Me.All(), "x", 0))
	var s string
	hit, err := cache.Get(context.Background(), querykey.Me.All(), &s)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestInvalidateRespectsKeySegments(t *testing.T) {
	cache := NewCacheService(repository.NewMemoryCache(), NewMetricsService(), time.Minute, zap.NewNop(), true)
	ctx := context.Background()

	for _, id := range []int64{1, 10, 123} {
		require.NoError(t, cache.Set(ctx, querykey.Galleries.Detail(id), id, 0))
	}
	require.NoError(t, cache.Set(ctx, querykey.Galleries.List(nil), []int64{1, 10, 123}, 0))

	require.NoError(t, cache.Invalidate(ctx, querykey.Galleries.Detail(1)))

	var id int64
	hit, err := cache.Get(ctx, querykey.Galleries.Detail(1), &id)
	require.NoError(t, err)
	assert.False(t, hit)
	for _, other := range []int64{10, 123} {
		hit, err := cache.Get(ctx, querykey.Galleries.Detail(other), &id)
		require.NoError(t, err)
		assert.True(t, hit, "detail %d", other)
	}

	require.NoError(t, cache.Invalidate(ctx, querykey.Galleries.Details()))
	hit, err = cache.Get(ctx, querykey.Galleries.Detail(10), &id)
	require.NoError(t, err)
	assert.False(t, hit)
	var list []int64
	hit, err = cache.Get(ctx, querykey.Galleries.List(nil), &list)
	require.NoError(t, err)
	assert.True(t, hit)
}
