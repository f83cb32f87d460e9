// Package cache provides file-based caching with TTL expiration for API pages.
//
// Key features:
//   - File-based storage in ~/.contxt/cache/ (one JSON file per entry)
//   - Configurable TTL (default 1 hour) via config file, environment variable, or CLI flag
//   - Expiration on read plus explicit cleanup of stale entries
//   - SHA256-based cache keys for deterministic lookups
//   - A pagination.Fetcher decorator so repeated collection walks hit disk
//     instead of the network
//
// The cache targets CLI workflows where the same collection is listed
// repeatedly within a short window (for example re-exporting with another
// --format).
package cache
