package api

import (
	"net/url"
	"strconv"

	"github.com/jrcrawfo/contxt-go/internal/cache"
	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

// Pager builds sequences over a client's collection endpoints. A non-nil
// Store caches fetched pages.
type Pager struct {
	Client *Client
	Store  *cache.FileStore
	Params pagination.Params
}

// Offset returns a fetcher for an offset-paged collection.
func (p Pager) Offset(path string, params url.Values) pagination.Fetcher {
	size := pageSize(p.Params.EffectivePageSize())
	return p.cached(&OffsetFetcher{Client: p.Client, Path: path, Params: params, PageSize: size}, path, params, size)
}

// Cursor returns a fetcher for a cursor-paged collection.
func (p Pager) Cursor(path string, params url.Values) pagination.Fetcher {
	size := pageSize(p.Params.EffectivePageSize())
	return p.cached(&CursorFetcher{Client: p.Client, Path: path, Params: params, PageSize: size}, path, params, size)
}

func (p Pager) cached(f pagination.Fetcher, path string, params url.Values, size int) pagination.Fetcher {
	keyParams := cloneParams(params)
	keyParams.Set("limit", strconv.Itoa(size))
	base := p.Client.BaseURL()
	return cache.NewFetcher(p.Store, f, func(token string) string {
		return cache.PageKey(base, path, keyParams, token)
	})
}

// Paginate maps every record of the collection behind f with spec.
func (p Pager) Paginate(spec *mapping.Spec, f pagination.Fetcher) *pagination.Sequence {
	return pagination.Paginate(spec, f, p.Params.Options()...)
}
