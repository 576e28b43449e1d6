package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appquote "github.com/erp-mx/backend/internal/application/quote"
	"github.com/erp-mx/backend/internal/domain/shared"
)

func newTestCache(t *testing.T) (*RedisQuoteListCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisQuoteListCacheWithClient(client, time.Minute, nil), mr
}

func samplePage(folio string) shared.Paginated[appquote.QuoteListItemResponse] {
	return shared.Paginated[appquote.QuoteListItemResponse]{
		Items:      []appquote.QuoteListItemResponse{{Folio: folio, Status: "DRAFT"}},
		Total:      1,
		Page:       1,
		PageSize:   20,
		TotalPages: 1,
	}
}

func TestQuoteListCacheRoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, ok := cache.Get(ctx, "page-1")
	assert.False(t, ok, "empty cache misses")

	page := samplePage("COT-2026-00001")
	cache.Set(ctx, "page-1", page)

	got, ok := cache.Get(ctx, "page-1")
	require.True(t, ok)
	assert.Equal(t, page.Total, got.Total)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "COT-2026-00001", got.Items[0].Folio)
}

func TestQuoteListCacheTTL(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "page-1", samplePage("COT-2026-00002"))
	mr.FastForward(2 * time.Minute)

	_, ok := cache.Get(ctx, "page-1")
	assert.False(t, ok, "entries expire after the TTL")
}

func TestQuoteListCacheInvalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	cache.Set(ctx, "page-1", samplePage("COT-2026-00003"))
	cache.Set(ctx, "page-2", samplePage("COT-2026-00004"))
	require.NoError(t, mr.Set("other:key", "untouched"))

	cache.Invalidate(ctx)

	_, ok := cache.Get(ctx, "page-1")
	assert.False(t, ok)
	_, ok = cache.Get(ctx, "page-2")
	assert.False(t, ok)

	val, err := mr.Get("other:key")
	require.NoError(t, err)
	assert.Equal(t, "untouched", val, "only quote list keys are dropped")
}

func TestQuoteListCacheCorruptEntry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(quoteListKeyPrefix+"page-1", "{not json"))

	_, ok := cache.Get(ctx, "page-1")
	assert.False(t, ok, "corrupt entries read as misses")
}
