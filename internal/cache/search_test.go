package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plink/plink/internal/model"
)

func newTestCache(t *testing.T) *SearchCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSearchCache(client)
}

func TestPutAndGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	filters := model.SearchFilters{PropertyType: "Cottage", Postcode: "SW1A"}
	results := []model.Location{{ID: 1, PropertyType: "Cottage"}}

	_, ok := c.Get(ctx, filters)
	assert.False(t, ok, "expected a miss before Put")

	require.NoError(t, c.Put(ctx, filters, results))

	got, ok := c.Get(ctx, filters)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, int64(1), got[0].ID)

	// A different filter combination is a separate entry.
	_, ok = c.Get(ctx, model.SearchFilters{PropertyType: "Cottage"})
	assert.False(t, ok)
}

func TestFilterValuesCannotAliasKeys(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	// A separator inside a filter value must not collide with the same
	// characters split across two fields.
	joined := model.SearchFilters{PropertyType: "Cottage:Victorian"}
	split := model.SearchFilters{PropertyType: "Cottage", Age: "Victorian"}

	require.NoError(t, c.Put(ctx, joined, []model.Location{{ID: 1}}))

	_, ok := c.Get(ctx, split)
	assert.False(t, ok, "expected distinct cache entries for distinct filters")

	got, ok := c.Get(ctx, joined)
	require.True(t, ok)
	assert.Equal(t, int64(1), got[0].ID)
}

func TestInvalidateDropsAllEntries(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Put(ctx, model.SearchFilters{}, []model.Location{{ID: 1}}))
	require.NoError(t, c.Put(ctx, model.SearchFilters{Room: "Kitchen"}, []model.Location{{ID: 2}}))

	require.NoError(t, c.Invalidate(ctx))

	_, ok := c.Get(ctx, model.SearchFilters{})
	assert.False(t, ok)
	_, ok = c.Get(ctx, model.SearchFilters{Room: "Kitchen"})
	assert.False(t, ok)

	// The new generation works normally.
	require.NoError(t, c.Put(ctx, model.SearchFilters{}, []model.Location{{ID: 3}}))
	got, ok := c.Get(ctx, model.SearchFilters{})
	require.True(t, ok)
	assert.Equal(t, int64(3), got[0].ID)
}
