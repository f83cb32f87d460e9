package cache

import (
	"context"
	"errors"

	"github.com/jrcrawfo/contxt-go/internal/logging"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

// Fetcher serves pages from a FileStore and falls through to Next on a miss.
// Fetched pages are stored; cache write failures are logged, not returned.
type Fetcher struct {
	Store *FileStore
	Next  pagination.Fetcher

	// Key maps a page token to a cache key.
	Key func(token string) string
}

// NewFetcher wraps next. A nil or disabled store makes the wrapper a
// pass-through.
func NewFetcher(store *FileStore, next pagination.Fetcher, key func(token string) string) pagination.Fetcher {
	if store == nil || !store.IsEnabled() {
		return next
	}
	return &Fetcher{Store: store, Next: next, Key: key}
}

// FetchPage implements pagination.Fetcher.
func (f *Fetcher) FetchPage(ctx context.Context, token string) (pagination.Page, error) {
	log := logging.FromContext(ctx)
	key := f.Key(token)

	entry, err := f.Store.Get(key)
	switch {
	case err == nil:
		var page pagination.Page
		if decodeErr := mapping.WireJSON().Unmarshal(entry.Data, &page); decodeErr == nil {
			log.Debug().
				Ctx(ctx).
				Str("component", "cache").
				Str("token", token).
				Int("records", len(page.Records)).
				Msg("cache hit")
			return page, nil
		}
	case !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrExpired):
		log.Warn().Ctx(ctx).Str("component", "cache").Err(err).Msg("cache read failed")
	}

	log.Debug().Ctx(ctx).Str("component", "cache").Str("token", token).Msg("cache miss")
	page, err := f.Next.FetchPage(ctx, token)
	if err != nil {
		return page, err
	}

	data, err := mapping.WireJSON().Marshal(page)
	if err == nil {
		err = f.Store.Set(key, data)
	}
	if err != nil {
		log.Warn().Ctx(ctx).Str("component", "cache").Err(err).Msg("cache write failed")
	}
	return page, nil
}
