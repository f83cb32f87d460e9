package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
	"github.com/jrcrawfo/contxt-go/internal/pagination"
)

// OffsetFetcher reads collections wrapped in the offset envelope:
//
//	{"_metadata": {"offset": 0, "totalRecords": 42}, "records": [...]}
//
// The page token is the decimal offset of the page's first record.
type OffsetFetcher struct {
	Client   *Client
	Path     string
	Params   url.Values
	PageSize int
}

// FetchPage implements pagination.Fetcher.
func (f *OffsetFetcher) FetchPage(ctx context.Context, token string) (pagination.Page, error) {
	offset := 0
	if token != "" {
		n, err := strconv.Atoi(token)
		if err != nil || n < 0 {
			return pagination.Page{}, fmt.Errorf("invalid offset token %q", token)
		}
		offset = n
	}

	params := cloneParams(f.Params)
	params.Set("offset", strconv.Itoa(offset))
	params.Set("limit", strconv.Itoa(pageSize(f.PageSize)))

	v, err := f.Client.Get(ctx, f.Path, params)
	if err != nil {
		return pagination.Page{}, err
	}
	body, ok := v.(map[string]any)
	if !ok {
		return pagination.Page{}, fmt.Errorf("%w: %s: expected paged envelope, got %T", ErrUnexpectedShape, f.Path, v)
	}
	records, err := envelopeRecords(f.Path, body)
	if err != nil {
		return pagination.Page{}, err
	}

	meta, _ := body["_metadata"].(map[string]any)
	total, ok := number(meta["totalRecords"])
	if !ok {
		return pagination.Page{}, fmt.Errorf("%w: %s: missing _metadata.totalRecords", ErrUnexpectedShape, f.Path)
	}
	if got, ok := number(meta["offset"]); ok {
		offset = int(got)
	}

	next := offset + len(records)
	page := pagination.Page{Records: records}
	if int64(next) < total {
		page.HasNext = true
		page.Next = strconv.Itoa(next)
	}
	return page, nil
}

// CursorFetcher reads collections that carry an opaque continuation cursor:
//
//	{"records": [...], "nextCursor": "abc"}
//
// An empty or missing nextCursor ends the collection.
type CursorFetcher struct {
	Client   *Client
	Path     string
	Params   url.Values
	PageSize int
}

// FetchPage implements pagination.Fetcher.
func (f *CursorFetcher) FetchPage(ctx context.Context, token string) (pagination.Page, error) {
	params := cloneParams(f.Params)
	params.Set("limit", strconv.Itoa(pageSize(f.PageSize)))
	if token != "" {
		params.Set("cursor", token)
	}

	v, err := f.Client.Get(ctx, f.Path, params)
	if err != nil {
		return pagination.Page{}, err
	}
	body, ok := v.(map[string]any)
	if !ok {
		return pagination.Page{}, fmt.Errorf("%w: %s: expected paged envelope, got %T", ErrUnexpectedShape, f.Path, v)
	}
	records, err := envelopeRecords(f.Path, body)
	if err != nil {
		return pagination.Page{}, err
	}

	page := pagination.Page{Records: records}
	if cursor, _ := body["nextCursor"].(string); cursor != "" {
		page.HasNext = true
		page.Next = cursor
	}
	return page, nil
}

func envelopeRecords(path string, body map[string]any) ([]mapping.Record, error) {
	raw, ok := body["records"]
	if !ok {
		return nil, fmt.Errorf("%w: %s: missing records", ErrUnexpectedShape, path)
	}
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s: records is %T, not an array", ErrUnexpectedShape, path, raw)
	}
	return toRecords(path, items)
}

func number(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	case float64:
		return int64(n), true
	default:
		return 0, false
	}
}

func pageSize(n int) int {
	if n < pagination.MinPageSize || n > pagination.MaxPageSize {
		return pagination.DefaultPageSize
	}
	return n
}
