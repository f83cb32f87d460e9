package pagination

import (
	"context"

	"github.com/jrcrawfo/contxt-go/internal/mapping"
)

// Page is one batch of raw records plus continuation metadata.
// When HasNext is false, Next is meaningless.
type Page struct {
	Records []mapping.Record `json:"records"`
	HasNext bool             `json:"has_next"`
	Next    string           `json:"next,omitempty"`
}

// Fetcher fetches the page that starts at token. The empty token addresses
// the first page. Implementations must be idempotent for the same token.
type Fetcher interface {
	FetchPage(ctx context.Context, token string) (Page, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, token string) (Page, error)

// FetchPage calls f.
func (f FetcherFunc) FetchPage(ctx context.Context, token string) (Page, error) {
	return f(ctx, token)
}
