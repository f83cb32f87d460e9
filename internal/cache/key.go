package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// PageKey builds the key for one page of a collection: the service base URL,
// the path, the query parameters in canonical order and the page token.
func PageKey(baseURL, path string, params url.Values, token string) string {
	parts := []string{
		"page",
		strings.TrimRight(strings.ToLower(baseURL), "/"),
		strings.Trim(path, "/"),
		params.Encode(),
		token,
	}
	return hashKey(parts)
}

// Key hashes arbitrary parts into a key.
func Key(parts ...string) string {
	return hashKey(parts)
}

func hashKey(parts []string) string {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write([]byte(p))
		_, _ = h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
