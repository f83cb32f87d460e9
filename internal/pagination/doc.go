// Package pagination walks paged collection endpoints as a lazy sequence.
//
// This package contains:
//   - Page and Fetcher: the transport contract for "fetch the page after token"
//   - Sequence: a forward-only iterator that pulls pages on demand and maps
//     each raw record only when the caller reaches it
//   - Iterator: a typed view over a Sequence
//   - Params: page size and limit settings shared by callers
//
// A Sequence never reorders, deduplicates or skips records. Transport and
// mapping failures are terminal and are returned from Next, never swallowed.
package pagination
