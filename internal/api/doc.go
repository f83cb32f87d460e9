// Package api is the HTTP transport for the Contxt services.
//
// Client issues authenticated GET requests and decodes JSON bodies with
// numbers preserved as json.Number. OffsetFetcher and CursorFetcher adapt
// the two collection envelopes the services use to pagination.Fetcher.
// Nothing here retries; a failed request is returned to the caller.
package api
