package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalsign/healthqa/core"
)

func testRecord() Record {
	return Record{
		Answer: "Malaria is caused by Plasmodium parasites.",
		Label:  "cause",
		Source: core.StageExact,
	}
}

func testCaches(t *testing.T) map[string]AnswerCache {
	t.Helper()

	badgerCache, err := OpenBadgerCache("")
	require.NoError(t, err)
	t.Cleanup(func() { badgerCache.Close() })

	memCache := NewMemoryCache()
	t.Cleanup(func() { memCache.Close() })

	return map[string]AnswerCache{
		"badger": badgerCache,
		"memory": memCache,
	}
}

func TestCacheRoundTrip(t *testing.T) {
	ctx := context.Background()

	for name, store := range testCaches(t) {
		t.Run(name, func(t *testing.T) {
			record := testRecord()
			require.NoError(t, store.Set(ctx, "fp-a", "what causes malaria", record))

			got, found, err := store.Get(ctx, "fp-a", "what causes malaria")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, record.Answer, got.Answer)
			assert.Equal(t, record.Label, got.Label)
			assert.Equal(t, record.Source, got.Source)
			assert.False(t, got.ExpiresAt.IsZero())

			t.Run("miss on unknown query", func(t *testing.T) {
				_, found, err := store.Get(ctx, "fp-a", "what causes cholera")
				require.NoError(t, err)
				assert.False(t, found)
			})

			t.Run("fingerprint isolates namespaces", func(t *testing.T) {
				_, found, err := store.Get(ctx, "fp-b", "what causes malaria")
				require.NoError(t, err)
				assert.False(t, found)
			})

			t.Run("delete", func(t *testing.T) {
				require.NoError(t, store.Delete(ctx, "fp-a", "what causes malaria"))
				_, found, err := store.Get(ctx, "fp-a", "what causes malaria")
				require.NoError(t, err)
				assert.False(t, found)
			})

			t.Run("empty key components rejected", func(t *testing.T) {
				_, _, err := store.Get(ctx, "", "query")
				assert.Equal(t, ErrEmptyKey, err)
				err = store.Set(ctx, "fp-a", "", testRecord())
				assert.Equal(t, ErrEmptyKey, err)
			})
		})
	}
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()

	// A movable clock lets the test cross the expiry boundary without
	// waiting for badger's own TTL sweep.
	current := time.Now().UTC()
	clock := func() time.Time { return current }

	badgerCache, err := OpenBadgerCache("", WithTTL(time.Hour), WithClock(clock))
	require.NoError(t, err)
	defer badgerCache.Close()

	memCache := NewMemoryCache(WithMemoryTTL(time.Hour), WithMemoryClock(clock))
	defer memCache.Close()

	stores := map[string]AnswerCache{"badger": badgerCache, "memory": memCache}

	for name, store := range stores {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, store.Set(ctx, "fp-a", "what causes malaria", testRecord()))

			_, found, err := store.Get(ctx, "fp-a", "what causes malaria")
			require.NoError(t, err)
			require.True(t, found)

			current = current.Add(2 * time.Hour)

			_, found, err = store.Get(ctx, "fp-a", "what causes malaria")
			require.NoError(t, err)
			assert.False(t, found, "expired record must read as a miss")

			current = current.Add(-2 * time.Hour)
		})
	}
}

func TestMemoryCacheExpiredReadDeletes(t *testing.T) {
	ctx := context.Background()
	current := time.Now().UTC()
	store := NewMemoryCache(WithMemoryTTL(time.Minute), WithMemoryClock(func() time.Time { return current }))
	defer store.Close()

	require.NoError(t, store.Set(ctx, "fp-a", "q", testRecord()))
	assert.Equal(t, 1, store.Len())

	current = current.Add(time.Hour)
	_, found, err := store.Get(ctx, "fp-a", "q")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, store.Len(), "expired record is reclaimed on read")
}

func TestCacheClosed(t *testing.T) {
	ctx := context.Background()

	store := NewMemoryCache()
	require.NoError(t, store.Close())

	_, _, err := store.Get(ctx, "fp", "q")
	assert.Equal(t, ErrClosed, err)
	assert.Equal(t, ErrClosed, store.Set(ctx, "fp", "q", testRecord()))
}

func TestRecordRoundTrip(t *testing.T) {
	record := testRecord()
	record.ExpiresAt = time.Now().Add(time.Hour).UTC().Truncate(time.Microsecond)

	got, err := UnmarshalRecord(MarshalRecord(record))
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestRecordExpired(t *testing.T) {
	now := time.Now().UTC()
	record := Record{ExpiresAt: now.Add(time.Minute)}
	assert.False(t, record.Expired(now))
	assert.True(t, record.Expired(now.Add(time.Minute)))
	assert.True(t, record.Expired(now.Add(2*time.Minute)))
}
