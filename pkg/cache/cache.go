// Package cache provides a small byte-oriented cache used to memoize
// layout results between CLI invocations. Layout is deterministic, so a
// cache entry keyed by the document content and the layout config can be
// reused indefinitely.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// Cache stores opaque byte values under string keys with optional TTL.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key
	// was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero ttl means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// LayoutKey builds the cache key for a layout result from the document
// hash and the config that produced it. Any config change yields a new
// key, so stale geometry is never served.
func LayoutKey(docHash string, cfg any) string {
	data, _ := json.Marshal(cfg)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("layout:%s:%s", docHash, hex.EncodeToString(sum[:8]))
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
