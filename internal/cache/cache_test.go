package cache

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

func TestEntry(t *testing.T) {
	data := json.RawMessage(`{"foo":"bar"}`)
	entry := NewEntry("test-key", data, 60)

	assert.Equal(t, "test-key", entry.Key)
	assert.False(t, entry.IsExpired())
	assert.Greater(t, entry.TimeUntilExpiration(), time.Duration(0))
	assert.LessOrEqual(t, entry.Age(), time.Second)

	t.Run("Expiration", func(t *testing.T) {
		expired := NewEntry("k", data, 60)
		expired.ExpiresAt = time.Now().Add(-time.Second)
		assert.True(t, expired.IsExpired())
		assert.Equal(t, time.Duration(0), expired.TimeUntilExpiration())
	})

	t.Run("JSON", func(t *testing.T) {
		encoded, err := json.Marshal(entry)
		require.NoError(t, err)

		var decoded Entry
		require.NoError(t, json.Unmarshal(encoded, &decoded))
		assert.Equal(t, entry.Key, decoded.Key)
		assert.Equal(t, entry.TTLSeconds, decoded.TTLSeconds)
		assert.JSONEq(t, string(data), string(decoded.Data))
		assert.True(t, entry.CreatedAt.Equal(decoded.CreatedAt))
	})
}

func TestPageKey(t *testing.T) {
	a := PageKey("https://ems.api.ndustrial.io/v1/", "/facilities/1/contracts",
		url.Values{"b": {"2"}, "a": {"1"}}, "100")
	b := PageKey("https://EMS.api.ndustrial.io/v1", "facilities/1/contracts",
		url.Values{"a": {"1"}, "b": {"2"}}, "100")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	assert.NotEqual(t, a, PageKey("https://ems.api.ndustrial.io/v1", "facilities/1/contracts",
		url.Values{"a": {"1"}, "b": {"2"}}, "200"))
	assert.NotEqual(t, Key("ab", "c"), Key("a", "bc"))
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 60, 10)
	require.NoError(t, err)
	assert.True(t, store.IsEnabled())
	assert.Equal(t, dir, store.Directory())
	assert.Equal(t, 60, store.TTL())

	data := json.RawMessage(`{"hello":"world"}`)

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, store.Set("test-key", data))

		entry, err := store.Get("test-key")
		require.NoError(t, err)
		assert.JSONEq(t, string(data), string(entry.Data))

		count, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		size, err := store.Size()
		require.NoError(t, err)
		assert.Positive(t, size)
	})

	t.Run("UnsafeKey", func(t *testing.T) {
		require.NoError(t, store.Set("a/b:c", data))
		_, err := store.Get("a/b:c")
		require.NoError(t, err)
		assert.FileExists(t, filepath.Join(dir, "a_b_c.json"))
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete("test-key"))
		_, err := store.Get("test-key")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.NoError(t, store.Delete("test-key"), "delete is idempotent")
		assert.ErrorIs(t, store.Delete(""), ErrInvalidKey)
	})

	t.Run("Clear", func(t *testing.T) {
		require.NoError(t, store.Set("k1", data))
		require.NoError(t, store.Set("k2", data))
		require.NoError(t, store.Clear())
		count, err := store.Count()
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("Disabled", func(t *testing.T) {
		disabled, err := NewFileStore("", false, 60, 10)
		require.NoError(t, err)
		assert.False(t, disabled.IsEnabled())
		assert.ErrorIs(t, disabled.Set("k", data), ErrDisabled)
		_, err = disabled.Get("k")
		assert.ErrorIs(t, err, ErrDisabled)
	})

	t.Run("Expired", func(t *testing.T) {
		expiring, err := NewFileStore(dir, true, -1, 10)
		require.NoError(t, err)
		require.NoError(t, expiring.Set("expired", data))
		require.NoError(t, expiring.Set("expired-too", data))

		_, err = expiring.Get("expired")
		assert.ErrorIs(t, err, ErrExpired)

		removed, err := expiring.CleanupExpired()
		require.NoError(t, err)
		assert.Equal(t, 1, removed)
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		_, err := NewFileStore("", true, 60, 10)
		assert.Error(t, err)
	})
}

func TestFileStore_EvictsOldest(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(dir, true, 3600, 1)
	require.NoError(t, err)

	big := json.RawMessage(`"` + strings.Repeat("x", 400*1024) + `"`)
	for _, key := range []string{"first", "second", "third"} {
		require.NoError(t, store.Set(key, big))
		// Distinct modification times keep eviction order deterministic.
		past := time.Now().Add(-time.Hour)
		if key == "first" {
			require.NoError(t, os.Chtimes(filepath.Join(dir, key+".json"), past, past))
		}
	}

	_, err = store.Get("first")
	assert.ErrorIs(t, err, ErrNotFound, "oldest entry is evicted")
	_, err = store.Get("third")
	assert.NoError(t, err)

	size, err := store.Size()
	require.NoError(t, err)
	assert.LessOrEqual(t, size, int64(bytesPerMB))
}

func TestTTLHelpers(t *testing.T) {
	t.Run("Validate", func(t *testing.T) {
		assert.NoError(t, ValidateTTL(120))
		assert.ErrorIs(t, ValidateTTL(10), ErrInvalidTTL)
	})

	t.Run("Env", func(t *testing.T) {
		t.Setenv(EnvTTLSeconds, "500")
		assert.Equal(t, 500, TTLFromEnv(DefaultTTLSeconds))
		t.Setenv(EnvTTLSeconds, "2h")
		assert.Equal(t, 7200, TTLFromEnv(DefaultTTLSeconds))
		t.Setenv(EnvTTLSeconds, "5")
		assert.Equal(t, DefaultTTLSeconds, TTLFromEnv(DefaultTTLSeconds))

		t.Setenv(EnvEnabled, "false")
		assert.False(t, EnabledFromEnv(true))
		t.Setenv(EnvEnabled, "maybe")
		assert.True(t, EnabledFromEnv(true))

		t.Setenv(EnvDir, "/tmp/contxt-cache")
		assert.Equal(t, "/tmp/contxt-cache", DirFromEnv("fallback"))

		t.Setenv(EnvMaxSize, "-3")
		assert.Equal(t, DefaultMaxSizeMB, MaxSizeFromEnv(DefaultMaxSizeMB))
	})

	t.Run("FormatDuration", func(t *testing.T) {
		assert.Equal(t, "30s", FormatDuration(30*time.Second))
		assert.Equal(t, "5m", FormatDuration(5*time.Minute))
		assert.Equal(t, "2h30m", FormatDuration(2*time.Hour+30*time.Minute))
		assert.Equal(t, "3d2h", FormatDuration(74*time.Hour))
	})

	t.Run("ParseTTL", func(t *testing.T) {
		ttl, err := ParseTTL("3600")
		require.NoError(t, err)
		assert.Equal(t, 3600, ttl)

		ttl, err = ParseTTL("1h")
		require.NoError(t, err)
		assert.Equal(t, 3600, ttl)

		_, err = ParseTTL("invalid")
		assert.Error(t, err)
	})
}

type countingFetcher struct {
	calls int
	err   error
}

func (f *countingFetcher) FetchPage(_ context.Context, token string) (pagination.Page, error) {
	f.calls++
	if f.err != nil {
		return pagination.Page{}, f.err
	}
	if token == "" {
		return pagination.Page{
			Records: []mapping.Record{{"id": json.Number("1"), "ratio": json.Number("0.5")}},
			HasNext: true,
			Next:    "1",
		}, nil
	}
	return pagination.Page{Records: []mapping.Record{{"id": json.Number("2"), "ratio": nil}}}, nil
}

func TestFetcher(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 3600, 10)
	require.NoError(t, err)

	next := &countingFetcher{}
	key := func(token string) string { return Key("feeds", token) }
	spec := mapping.MustSpec("Feed", mapping.Int("id"), mapping.Float("ratio").Optional())
	ctx := context.Background()

	first, err := pagination.Paginate(spec, NewFetcher(store, next, key)).Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls)

	second, err := pagination.Paginate(spec, NewFetcher(store, next, key)).Drain(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "second walk is served from disk")

	require.Len(t, second, 2)
	for i := range first {
		assert.True(t, first[i].Equal(second[i]))
	}
}

func TestFetcher_ErrorsAreNotCached(t *testing.T) {
	store, err := NewFileStore(t.TempDir(), true, 3600, 10)
	require.NoError(t, err)

	boom := errors.New("boom")
	next := &countingFetcher{err: boom}
	f := NewFetcher(store, next, func(token string) string { return Key(token) })

	_, err = f.FetchPage(context.Background(), "")
	require.ErrorIs(t, err, boom)
	count, err := store.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestNewFetcher_Disabled(t *testing.T) {
	next := &countingFetcher{}
	disabled, err := NewFileStore("", false, 0, 0)
	require.NoError(t, err)
	assert.Same(t, next, NewFetcher(disabled, next, nil))
	assert.Same(t, next, NewFetcher(nil, next, nil))
}
